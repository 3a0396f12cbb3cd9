// Package gmaps fetches transit directions from the Google Maps
// Directions API.
package gmaps

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"
	directionsPath = "/maps/api/directions/json"
)

// Client issues directions requests. Mode is fixed to transit; the helper
// never asks for driving or walking routes.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string
	client  *http.Client
}

// NewClient creates a directions client. A zero timeout leaves outbound
// calls unbounded, matching the widget's no-timeout fetch model.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// TransitDirections fetches a transit route from home to one destination.
// Each configured destination gets its own call; the API's waypoint
// batching is not used.
func (c *Client) TransitDirections(home models.Location, dest models.Destination, apiKey string) (models.FetchResult, error) {
	params := url.Values{}
	params.Set("origin", latLon(home.Lat, home.Lon))
	params.Set("destination", latLon(dest.Lat, dest.Lon))
	params.Set("mode", "transit")
	params.Set("key", apiKey)

	resp, err := c.client.Get(c.BaseURL + directionsPath + "?" + params.Encode())
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("fetching directions to %s: %w", dest.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FetchResult{Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("reading directions response: %w", err)
	}

	return models.FetchResult{
		Success:     true,
		Data:        body,
		Processor:   models.ProcessorCommute,
		Destination: dest.Name,
	}, nil
}

func latLon(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
