// Package fetcher dispatches inbound widget requests to the provider
// clients and aggregates their results.
package fetcher

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
	"github.com/jonnyd55/wmata-commute-helper/internal/schedule"
)

// RequestKind is the closed set of inbound request kinds.
type RequestKind int

const (
	KindStopSchedule RequestKind = iota
	KindCommute
)

// ParseKind maps an inbound notification name to its request kind.
func ParseKind(notification string) (RequestKind, bool) {
	switch notification {
	case models.NotificationFetchStopSchedule:
		return KindStopSchedule, true
	case models.NotificationFetchCommute:
		return KindCommute, true
	}
	return 0, false
}

// Request is one inbound fetch request.
type Request struct {
	Kind   RequestKind
	Config models.Config
}

// Response is what the display layer receives for one request cycle.
type Response struct {
	Notification string               `json:"notification"`
	Payload      []models.FetchResult `json:"payload,omitempty"`
}

// TransitProvider abstracts the WMATA client for testability.
type TransitProvider interface {
	NextBusPredictions(stopID, apiKey string) (models.FetchResult, error)
	StopSchedule(stopID, apiKey string) (models.FetchResult, error)
}

// DirectionsProvider abstracts the mapping client for testability.
type DirectionsProvider interface {
	TransitDirections(home models.Location, dest models.Destination, apiKey string) (models.FetchResult, error)
}

// Dispatcher runs request cycles. It holds no per-request state, so
// concurrent cycles proceed independently.
type Dispatcher struct {
	transit TransitProvider
	maps    DirectionsProvider
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher creates a dispatcher using the wall clock.
func NewDispatcher(transit TransitProvider, maps DirectionsProvider, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		transit: transit,
		maps:    maps,
		logger:  logger,
		now:     time.Now,
	}
}

// Dispatch runs one request cycle. A nil response means the cycle produced
// nothing for the caller: an upstream transport failure was logged and the
// whole batch dropped. Structured non-200 failures are delivered normally
// as data.
func (d *Dispatcher) Dispatch(req Request) *Response {
	now := d.now()

	if !schedule.Allowed(req.Config.Schedule, now) {
		return &Response{Notification: models.NotificationTearDown}
	}

	switch req.Kind {
	case KindStopSchedule:
		return d.stopSchedule(req.Config)
	case KindCommute:
		return d.commute(req.Config, now)
	}

	// Unreachable: ParseKind only produces the two kinds above.
	return nil
}

func (d *Dispatcher) stopSchedule(cfg models.Config) *Response {
	res, err := d.transit.StopSchedule(cfg.StopID, cfg.WmataAPIKey)
	if err != nil {
		d.logger.Error("stop schedule fetch dropped", "stopId", cfg.StopID, "error", err)
		return nil
	}

	return &Response{
		Notification: models.NotificationBusStopData,
		Payload:      []models.FetchResult{res},
	}
}

func (d *Dispatcher) commute(cfg models.Config, now time.Time) *Response {
	ops := []func() (models.FetchResult, error){
		func() (models.FetchResult, error) {
			return d.transit.NextBusPredictions(cfg.StopID, cfg.WmataAPIKey)
		},
	}

	// The directions quota is shared by the whole mirror, so commute
	// lookups only run on even minutes. A coarse throttle, not a rate
	// limiter.
	if now.Minute()%2 == 0 && cfg.Home != nil {
		for _, dest := range cfg.Destinations {
			ops = append(ops, func() (models.FetchResult, error) {
				return d.maps.TransitDirections(*cfg.Home, dest, cfg.MapsAPIKey)
			})
		}
	}

	// Flat fan-out with an all-or-nothing join: results keep queue order
	// (next-bus first, then destinations in configured order), and one
	// transport failure drops the whole batch.
	results := make([]models.FetchResult, len(ops))
	errs := make([]error, len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = op()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			d.logger.Error("commute batch dropped", "stopId", cfg.StopID, "error", err)
			return nil
		}
	}

	return &Response{
		Notification: models.NotificationCommuteData,
		Payload:      results,
	}
}
