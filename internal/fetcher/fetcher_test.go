package fetcher

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

// ---------------------------------------------------------------------------
// Mock providers
// ---------------------------------------------------------------------------

type mockTransit struct {
	mu              sync.Mutex
	predictionCalls int
	scheduleCalls   int
	predictions     models.FetchResult
	stopSchedule    models.FetchResult
	err             error
}

func (m *mockTransit) NextBusPredictions(stopID, apiKey string) (models.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionCalls++
	return m.predictions, m.err
}

func (m *mockTransit) StopSchedule(stopID, apiKey string) (models.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleCalls++
	return m.stopSchedule, m.err
}

type directionsCall struct {
	home models.Location
	dest models.Destination
	key  string
}

type mockDirections struct {
	mu    sync.Mutex
	calls []directionsCall
	err   error
}

func (m *mockDirections) TransitDirections(home models.Location, dest models.Destination, apiKey string) (models.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, directionsCall{home: home, dest: dest, key: apiKey})
	if m.err != nil {
		return models.FetchResult{}, m.err
	}
	return models.FetchResult{
		Success:     true,
		Data:        []byte(`{"routes":[]}`),
		Processor:   models.ProcessorCommute,
		Destination: dest.Name,
	}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// 2024-01-01 08:30 is a Monday; 08:30 and 08:31 give even and odd minutes.
func evenMinute() time.Time {
	return time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC)
}

func oddMinute() time.Time {
	return time.Date(2024, time.January, 1, 8, 31, 0, 0, time.UTC)
}

func newTestDispatcher(transit *mockTransit, maps *mockDirections, at time.Time) *Dispatcher {
	d := NewDispatcher(transit, maps, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.now = func() time.Time { return at }
	return d
}

func commuteConfig() models.Config {
	return models.Config{
		StopID:      "1001",
		WmataAPIKey: "wmata-key",
		MapsAPIKey:  "maps-key",
		Home:        &models.Location{Lat: 38.9072, Lon: -77.0369},
		Destinations: []models.Destination{
			{Name: "Work", Lat: 38.8977, Lon: -77.0365},
			{Name: "Gym", Lat: 38.9101, Lon: -77.0444},
		},
	}
}

// ---------------------------------------------------------------------------
// ParseKind
// ---------------------------------------------------------------------------

func TestParseKind(t *testing.T) {
	tests := []struct {
		notification string
		kind         RequestKind
		ok           bool
	}{
		{"FETCH_STOP_SCHEDULE", KindStopSchedule, true},
		{"FETCH_COMMUTE", KindCommute, true},
		{"FETCH_WEATHER", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		kind, ok := ParseKind(tc.notification)
		if ok != tc.ok || (ok && kind != tc.kind) {
			t.Errorf("ParseKind(%q) = (%v, %v), want (%v, %v)",
				tc.notification, kind, ok, tc.kind, tc.ok)
		}
	}
}

// ---------------------------------------------------------------------------
// Schedule gate
// ---------------------------------------------------------------------------

func TestGateClosedEmitsTearDown(t *testing.T) {
	// Saturday 08:30 against a weekday window.
	saturday := time.Date(2024, time.January, 6, 8, 30, 0, 0, time.UTC)

	cfg := commuteConfig()
	cfg.Schedule = &models.Schedule{
		Days:  []int{1, 2, 3, 4, 5},
		Start: "08:00",
		Stop:  "09:00",
	}

	for _, kind := range []RequestKind{KindStopSchedule, KindCommute} {
		transit := &mockTransit{}
		maps := &mockDirections{}
		d := newTestDispatcher(transit, maps, saturday)

		resp := d.Dispatch(Request{Kind: kind, Config: cfg})

		if resp == nil || resp.Notification != models.NotificationTearDown {
			t.Fatalf("kind %v: response = %+v, want TEAR-DOWN-DOM", kind, resp)
		}
		if resp.Payload != nil {
			t.Errorf("tear down must carry no payload, got %v", resp.Payload)
		}
		if transit.predictionCalls+transit.scheduleCalls+len(maps.calls) != 0 {
			t.Errorf("kind %v: gate closed but outbound calls were made", kind)
		}
	}
}

// ---------------------------------------------------------------------------
// Stop schedule
// ---------------------------------------------------------------------------

func TestStopScheduleDelivered(t *testing.T) {
	transit := &mockTransit{
		stopSchedule: models.FetchResult{
			Success:   true,
			Data:      []byte(`{"predictions":[]}`),
			Processor: models.ProcessorStopSchedule,
		},
	}
	d := newTestDispatcher(transit, &mockDirections{}, oddMinute())

	resp := d.Dispatch(Request{Kind: KindStopSchedule, Config: models.Config{StopID: "1001"}})

	if resp == nil || resp.Notification != models.NotificationBusStopData {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Payload) != 1 {
		t.Fatalf("payload length = %d, want 1", len(resp.Payload))
	}
	got := resp.Payload[0]
	if !got.Success || got.Processor != models.ProcessorStopSchedule || string(got.Data) != `{"predictions":[]}` {
		t.Errorf("payload = %+v", got)
	}
	if transit.scheduleCalls != 1 {
		t.Errorf("stop schedule fetched %d times, want 1", transit.scheduleCalls)
	}
}

func TestStopScheduleFailureResultDelivered(t *testing.T) {
	transit := &mockTransit{
		stopSchedule: models.FetchResult{Status: 404},
	}
	d := newTestDispatcher(transit, &mockDirections{}, oddMinute())

	resp := d.Dispatch(Request{Kind: KindStopSchedule, Config: models.Config{StopID: "1001"}})

	if resp == nil || len(resp.Payload) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Payload[0].Success || resp.Payload[0].Status != 404 {
		t.Errorf("payload = %+v", resp.Payload[0])
	}
}

func TestStopScheduleTransportErrorDropped(t *testing.T) {
	transit := &mockTransit{err: errors.New("connection refused")}
	d := newTestDispatcher(transit, &mockDirections{}, oddMinute())

	resp := d.Dispatch(Request{Kind: KindStopSchedule, Config: models.Config{StopID: "1001"}})

	if resp != nil {
		t.Errorf("transport error should drop the cycle, got %+v", resp)
	}
}

// ---------------------------------------------------------------------------
// Commute
// ---------------------------------------------------------------------------

func TestCommuteOddMinuteSkipsDirections(t *testing.T) {
	transit := &mockTransit{
		predictions: models.FetchResult{
			Success:   true,
			Data:      []byte(`{"Predictions":[]}`),
			Processor: models.ProcessorBusPredictions,
		},
	}
	maps := &mockDirections{}
	d := newTestDispatcher(transit, maps, oddMinute())

	resp := d.Dispatch(Request{Kind: KindCommute, Config: commuteConfig()})

	if resp == nil || resp.Notification != models.NotificationCommuteData {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Payload) != 1 {
		t.Errorf("payload length = %d, want 1 (next-bus only)", len(resp.Payload))
	}
	if transit.predictionCalls != 1 {
		t.Errorf("prediction calls = %d, want 1", transit.predictionCalls)
	}
	if len(maps.calls) != 0 {
		t.Errorf("directions calls = %d on an odd minute, want 0", len(maps.calls))
	}
}

func TestCommuteEvenMinuteFansOut(t *testing.T) {
	cfg := commuteConfig()
	transit := &mockTransit{
		predictions: models.FetchResult{
			Success:   true,
			Data:      []byte(`{"Predictions":[]}`),
			Processor: models.ProcessorBusPredictions,
		},
	}
	maps := &mockDirections{}
	d := newTestDispatcher(transit, maps, evenMinute())

	resp := d.Dispatch(Request{Kind: KindCommute, Config: cfg})

	if resp == nil || resp.Notification != models.NotificationCommuteData {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Payload) != 3 {
		t.Fatalf("payload length = %d, want 1 + %d destinations", len(resp.Payload), len(cfg.Destinations))
	}

	// Next-bus first, then destinations in configured order.
	if resp.Payload[0].Processor != models.ProcessorBusPredictions {
		t.Errorf("payload[0].processor = %q", resp.Payload[0].Processor)
	}
	if resp.Payload[1].Destination != "Work" || resp.Payload[2].Destination != "Gym" {
		t.Errorf("destination order = %q, %q", resp.Payload[1].Destination, resp.Payload[2].Destination)
	}

	// One directions call per destination, origin fixed to home.
	if len(maps.calls) != 2 {
		t.Fatalf("directions calls = %d, want 2", len(maps.calls))
	}
	seen := map[string]bool{}
	for _, call := range maps.calls {
		seen[call.dest.Name] = true
		if call.home != *cfg.Home {
			t.Errorf("origin = %+v, want %+v", call.home, *cfg.Home)
		}
		if call.key != "maps-key" {
			t.Errorf("key = %q", call.key)
		}
	}
	if !seen["Work"] || !seen["Gym"] {
		t.Errorf("destinations called = %v", seen)
	}
}

func TestCommuteEvenMinuteWithoutHomeSkipsDirections(t *testing.T) {
	cfg := commuteConfig()
	cfg.Home = nil

	transit := &mockTransit{predictions: models.FetchResult{Success: true}}
	maps := &mockDirections{}
	d := newTestDispatcher(transit, maps, evenMinute())

	resp := d.Dispatch(Request{Kind: KindCommute, Config: cfg})

	if resp == nil || len(resp.Payload) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if len(maps.calls) != 0 {
		t.Errorf("directions calls = %d without a home location, want 0", len(maps.calls))
	}
}

func TestCommuteTransportErrorDropsWholeBatch(t *testing.T) {
	transit := &mockTransit{predictions: models.FetchResult{Success: true}}
	maps := &mockDirections{err: errors.New("network unreachable")}
	d := newTestDispatcher(transit, maps, evenMinute())

	resp := d.Dispatch(Request{Kind: KindCommute, Config: commuteConfig()})

	if resp != nil {
		t.Errorf("partial results must not be delivered, got %+v", resp)
	}
	// The join still waits for every operation.
	if transit.predictionCalls != 1 || len(maps.calls) != 2 {
		t.Errorf("calls = %d predictions, %d directions; all should have run",
			transit.predictionCalls, len(maps.calls))
	}
}
