// README: Google Maps geocoder, the fallback when OneMap credentials are
// not configured.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// Geocoder resolves free-text queries through the Google Geocoding API,
// biased to Singapore.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a new Geocoder with the given API Key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

func (g *Geocoder) Geocode(ctx context.Context, query string) (types.Point, error) {
	r := &maps.GeocodingRequest{
		Address: query,
		Region:  "SG",
	}

	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("no geocoding result for %q", query)
	}

	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
