// Package geocode converts addresses to coordinates and back.
package geocode

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("location not found")

// Place is a single geocoding match.
type Place struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
}

// Geocoder looks places up by free-text address or by coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) (*Place, error)
	Reverse(ctx context.Context, lat, lng float64) (*Place, error)
}
