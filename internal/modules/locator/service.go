// README: Locator service: geocode a query, rank nearby carparks, price the
// stay against each carpark's tariff.
package locator

import (
	"context"
	"errors"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/availability"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

var (
	ErrNoResults     = errors.New("locator: no suitable carparks found")
	ErrDataNotLoaded = errors.New("locator: carpark data not loaded")
)

const defaultLimit = 10

// Advisory note attached when the caller gave no stay window.
const noteProvideTimes = "provide start & end time to estimate cost"

type Geocoder interface {
	Geocode(ctx context.Context, query string) (types.Point, error)
}

type Nearby interface {
	Nearest(ctx context.Context, p types.Point, limit int) ([]Candidate, error)
}

type Service struct {
	registry *carpark.Registry
	geocoder Geocoder
	nearby   Nearby // nil falls back to an in-process scan
	avail    *availability.Service
	engine   *tariff.Engine
	holidays tariff.HolidaySet
}

func NewService(
	registry *carpark.Registry,
	geocoder Geocoder,
	nearby Nearby,
	avail *availability.Service,
	engine *tariff.Engine,
	holidays tariff.HolidaySet,
) *Service {
	return &Service{
		registry: registry,
		geocoder: geocoder,
		nearby:   nearby,
		avail:    avail,
		engine:   engine,
		holidays: holidays,
	}
}

type SearchRequest struct {
	Query string
	Limit int
	Start *time.Time
	End   *time.Time
}

// Result is one ranked carpark. Exactly one of Cost and CostNote is set:
// pricing failures degrade to a note so one carpark can never sink the
// whole response.
type Result struct {
	Code          string
	Address       string
	Type          carpark.Type
	Position      types.Point
	DistanceM     float64
	TotalLots     int
	AvailableLots *int
	Cost          *types.Money
	CostNote      string
}

func (s *Service) Search(ctx context.Context, req SearchRequest) ([]Result, error) {
	if s.registry == nil || s.registry.Len() == 0 {
		return nil, ErrDataNotLoaded
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	origin, err := s.geocoder.Geocode(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.nearest(ctx, origin, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	results := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		cp, ok := s.registry.Get(cand.Code)
		if !ok {
			continue
		}
		results = append(results, s.buildResult(cp, cand.DistanceM, req.Start, req.End))
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

func (s *Service) buildResult(cp *carpark.Carpark, distanceM float64, start, end *time.Time) Result {
	res := Result{
		Code:      cp.Code,
		Address:   cp.Address,
		Type:      cp.Type,
		Position:  cp.Position,
		DistanceM: distanceM,
		TotalLots: cp.TotalLots,
	}

	if s.avail != nil {
		if lots, ok := s.avail.Lookup(string(cp.Type), cp.Code); ok {
			if lots.Total > 0 {
				res.TotalLots = lots.Total
			}
			available := lots.Available
			res.AvailableLots = &available
		}
	}

	if start == nil || end == nil {
		res.CostNote = noteProvideTimes
		return res
	}
	cost, err := s.engine.Cost(cp.Schedule, s.holidays, *start, *end)
	if err != nil {
		res.CostNote = "unable to estimate cost: " + err.Error()
		return res
	}
	res.Cost = &cost
	return res
}

// nearest uses the GEO index when one is wired and otherwise scans the
// registry, which is plenty for the dataset's size.
func (s *Service) nearest(ctx context.Context, origin types.Point, limit int) ([]Candidate, error) {
	if s.nearby != nil {
		return s.nearby.Nearest(ctx, origin, limit)
	}

	all := s.registry.All()
	candidates := make([]Candidate, 0, len(all))
	for _, cp := range all {
		candidates = append(candidates, Candidate{
			Code:      cp.Code,
			DistanceM: haversineMeters(origin.Lat, origin.Lng, cp.Position.Lat, cp.Position.Lng),
		})
	}
	sortByDistance(candidates, func(c Candidate) float64 { return c.DistanceM })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
