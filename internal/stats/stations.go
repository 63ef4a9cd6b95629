package stats

import (
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// StationStats holds the most used stations and trip.
type StationStats struct {
	StartStation Frequency[string] `json:"start_station"`
	EndStation   Frequency[string] `json:"end_station"`
	Route        Frequency[string] `json:"route"`
}

// Stations computes the most common start station, end station and route.
func Stations(t *trips.Table) (*StationStats, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyResult("station statistics")
	}

	starts := newCounter[string]()
	ends := newCounter[string]()
	routes := newCounter[string]()
	for i := range t.Records {
		r := &t.Records[i]
		starts.add(r.StartStation)
		ends.add(r.EndStation)
		routes.add(r.Route)
	}

	s := &StationStats{}
	s.StartStation, _ = starts.mode()
	s.EndStation, _ = ends.mode()
	s.Route, _ = routes.mode()
	return s, nil
}
