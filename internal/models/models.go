// Package models defines the types shared between the helper and the
// display layer.
package models

import "encoding/json"

// Processor names the downstream transform the display layer applies to a
// payload. The values are part of the display-layer contract.
type Processor string

const (
	ProcessorBusPredictions Processor = "processBusPredictorData"
	ProcessorStopSchedule   Processor = "processStopData"
	ProcessorCommute        Processor = "processCommuteData"
)

// Notification names observed by the display layer. These must stay
// bit-exact across implementations.
const (
	NotificationFetchStopSchedule = "FETCH_STOP_SCHEDULE"
	NotificationFetchCommute      = "FETCH_COMMUTE"

	NotificationBusStopData = "BUS_STOP_DATA"
	NotificationCommuteData = "COMMUTE_DATA"
	NotificationTearDown    = "TEAR-DOWN-DOM"
)

// Location is a geographic coordinate pair.
type Location struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
}

// Destination is a named commute target.
type Destination struct {
	Name string  `json:"name" yaml:"name" validate:"required"`
	Lat  float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
}

// Schedule restricts when fetching is allowed: weekdays (0=Sunday) and a
// half-open [Start, Stop) window on a 24-hour clock.
type Schedule struct {
	Days  []int  `json:"days" yaml:"days" validate:"dive,gte=0,lte=6"`
	Start string `json:"start" yaml:"start" validate:"required,datetime=15:04"`
	Stop  string `json:"stop" yaml:"stop" validate:"required,datetime=15:04"`
}

// Config is the per-request configuration supplied by the display layer, or
// preloaded from the mirror profile file. It is immutable for the duration
// of one request; the helper owns no state between requests.
type Config struct {
	StopID       string        `json:"stopId" yaml:"stopId" validate:"required"`
	WmataAPIKey  string        `json:"wmataApiKey" yaml:"wmataApiKey"`
	MapsAPIKey   string        `json:"mapsApiKey" yaml:"mapsApiKey"`
	Schedule     *Schedule     `json:"schedule,omitempty" yaml:"schedule"`
	Home         *Location     `json:"home,omitempty" yaml:"home"`
	Destinations []Destination `json:"destinations,omitempty" yaml:"destinations" validate:"dive"`
}

// FetchResult is the normalized outcome of one outbound call. It is either
// success with a payload and processor tag, or failure with the HTTP status
// observed; never both.
type FetchResult struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data,omitempty"`
	Processor   Processor       `json:"processor,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Status      int             `json:"status,omitempty"`
}
