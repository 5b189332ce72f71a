// README: Locator store backed by Redis GEO.
package locator

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

const carparkGeoKey = "locator:carparks"

// Candidate is one nearest-neighbor hit.
type Candidate struct {
	Code      string
	DistanceM float64
}

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// Index loads every carpark's position into the GEO set. Called once after
// the registry is loaded; re-running it is a harmless refresh.
func (s *Store) Index(ctx context.Context, carparks []*carpark.Carpark) error {
	pipe := s.redis.Pipeline()
	for _, cp := range carparks {
		pipe.GeoAdd(ctx, carparkGeoKey, &redis.GeoLocation{
			Name:      cp.Code,
			Longitude: cp.Position.Lng,
			Latitude:  cp.Position.Lat,
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Nearest returns up to limit carparks ordered by distance from p.
func (s *Store) Nearest(ctx context.Context, p types.Point, limit int) ([]Candidate, error) {
	results, err := s.redis.GeoSearchLocation(ctx, carparkGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     50,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = Candidate{Code: r.Name, DistanceM: r.Dist * 1000}
	}
	return candidates, nil
}
