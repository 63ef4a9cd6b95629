package trips

import (
	"sort"
	"strings"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
)

// City describes one of the fixed datasets.
type City struct {
	// Name is the canonical lower-case identifier.
	Name string `json:"name"`

	// Source is the file holding the city's trips, relative to the data dir
	// unless absolute.
	Source string `json:"source"`

	// Demographics is true when the source carries Gender and Birth Year.
	Demographics bool `json:"demographics"`
}

// DefaultCities returns the built-in city table.
func DefaultCities() []City {
	return []City{
		{Name: constants.CityChicago, Source: "chicago.csv", Demographics: true},
		{Name: constants.CityNewYorkCity, Source: "new_york_city.csv", Demographics: true},
		{Name: constants.CityWashington, Source: "washington.csv", Demographics: false},
	}
}

// Registry resolves city identifiers. It is built once at startup and only read afterwards.
type Registry struct {
	cities map[string]City
}

// NewRegistry builds a registry from the given descriptors.
func NewRegistry(cities []City) *Registry {
	r := &Registry{cities: make(map[string]City, len(cities))}
	for _, c := range cities {
		r.cities[normalizeCity(c.Name)] = c
	}
	return r
}

// DefaultRegistry returns a registry over DefaultCities.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultCities())
}

// Lookup resolves a city name case-insensitively.
func (r *Registry) Lookup(name string) (City, error) {
	c, ok := r.cities[normalizeCity(name)]
	if !ok {
		return City{}, errors.NewUnknownCity(name)
	}
	return c, nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cities))
	for n := range r.cities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cities returns the registered descriptors sorted by name.
func (r *Registry) Cities() []City {
	out := make([]City, 0, len(r.cities))
	for _, n := range r.Names() {
		out = append(out, r.cities[n])
	}
	return out
}

func normalizeCity(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
