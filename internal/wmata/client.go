// Package wmata fetches bus prediction and schedule data from the WMATA API.
package wmata

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

const (
	defaultBaseURL   = "https://api.wmata.com"
	predictionsPath  = "/NextBusService.svc/json/jPredictions"
	stopSchedulePath = "/Bus.svc/json/jStopSchedule"
)

// Client issues requests against the WMATA bus endpoints. The credential is
// taken per call from the request configuration, not held by the client.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string
	client  *http.Client
}

// NewClient creates a WMATA client. A zero timeout leaves outbound calls
// unbounded, matching the widget's no-timeout fetch model.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NextBusPredictions fetches arrival predictions for a stop.
func (c *Client) NextBusPredictions(stopID, apiKey string) (models.FetchResult, error) {
	return c.fetch(predictionsPath, stopID, apiKey, models.ProcessorBusPredictions)
}

// StopSchedule fetches the scheduled service for a stop.
func (c *Client) StopSchedule(stopID, apiKey string) (models.FetchResult, error) {
	return c.fetch(stopSchedulePath, stopID, apiKey, models.ProcessorStopSchedule)
}

// fetch performs one GET and normalizes the outcome: 200 becomes a success
// result carrying the raw body, any other status a failure result carrying
// the code. Only transport-level problems surface as errors.
func (c *Client) fetch(path, stopID, apiKey string, processor models.Processor) (models.FetchResult, error) {
	params := url.Values{}
	params.Set("StopID", stopID)
	params.Set("api_key", apiKey)

	resp, err := c.client.Get(c.BaseURL + path + "?" + params.Encode())
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FetchResult{Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("reading %s response: %w", path, err)
	}

	return models.FetchResult{
		Success:   true,
		Data:      body,
		Processor: processor,
	}, nil
}
