package wmata

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/jonnyd55/wmata-commute-helper/internal/cache"
)

const defaultAlertsFeedURL = "https://api.wmata.com/gtfs/bus-gtfsrt-alerts.pb"

// Incident is one active service alert, reduced from the GTFS-RT feed to
// what the display layer shows.
type Incident struct {
	ID          string   `json:"id"`
	Routes      []string `json:"routes"`
	Header      string   `json:"header"`
	Description string   `json:"description"`
}

// IncidentService fetches and decodes the WMATA bus service-alerts feed.
// The feed is a full protobuf download on every call, so results are held
// in a TTL cache; this sits outside the relay-only fetch path, which stays
// uncached.
type IncidentService struct {
	// FeedURL is overridable for tests.
	FeedURL string
	apiKey  string
	client  *http.Client
	cache   *cache.Cache[[]Incident]
}

// NewIncidentService creates the incidents service.
func NewIncidentService(apiKey string, timeout, ttl time.Duration) *IncidentService {
	return &IncidentService{
		FeedURL: defaultAlertsFeedURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New[[]Incident](ttl),
	}
}

// Incidents returns the current service alerts, served from cache inside
// the TTL window.
func (s *IncidentService) Incidents() ([]Incident, error) {
	if cached, ok := s.cache.Get("incidents"); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)

	resp, err := s.client.Get(s.FeedURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching alerts feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alerts feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading alerts feed: %w", err)
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("parsing alerts protobuf: %w", err)
	}

	incidents := parseIncidents(feed)
	s.cache.Set("incidents", incidents)
	return incidents, nil
}

func parseIncidents(feed *gtfs.FeedMessage) []Incident {
	var incidents []Incident

	for _, entity := range feed.GetEntity() {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}

		var routes []string
		for _, informed := range alert.GetInformedEntity() {
			if route := informed.GetRouteId(); route != "" {
				routes = append(routes, route)
			}
		}

		incidents = append(incidents, Incident{
			ID:          entity.GetId(),
			Routes:      routes,
			Header:      firstTranslation(alert.GetHeaderText()),
			Description: firstTranslation(alert.GetDescriptionText()),
		})
	}

	return incidents
}

// firstTranslation takes the first translation of a GTFS-RT translated
// string; WMATA publishes English only.
func firstTranslation(ts *gtfs.TranslatedString) string {
	for _, tr := range ts.GetTranslation() {
		return tr.GetText()
	}
	return ""
}
