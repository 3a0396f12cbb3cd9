package handlers

import (
	"github.com/jonnyd55/wmata-commute-helper/internal/fetcher"
	"github.com/jonnyd55/wmata-commute-helper/internal/wmata"
)

// Dispatcher abstracts the fetch dispatcher for testability.
type Dispatcher interface {
	Dispatch(req fetcher.Request) *fetcher.Response
}

// IncidentProvider abstracts the service-incidents source.
type IncidentProvider interface {
	Incidents() ([]wmata.Incident, error)
}
