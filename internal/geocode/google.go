package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// Google geocodes through the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
}

// NewGoogle creates a Google geocoder. baseURL may be empty to use the
// public endpoint.
func NewGoogle(apiKey, baseURL string, httpClient *http.Client) (*Google, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating Google Maps client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Search(ctx context.Context, query string) (*Place, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, googleError("geocode", err)
	}
	return first(results)
}

func (g *Google) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return nil, googleError("reverse geocode", err)
	}
	return first(results)
}

func first(results []maps.GeocodingResult) (*Place, error) {
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	r := results[0]
	return &Place{
		Lat:         r.Geometry.Location.Lat,
		Lng:         r.Geometry.Location.Lng,
		DisplayName: r.FormattedAddress,
	}, nil
}

func googleError(op string, err error) error {
	if strings.Contains(err.Error(), "ZERO_RESULTS") {
		return ErrNotFound
	}
	return fmt.Errorf("error requesting %s from google: %w", op, err)
}
