package locator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/availability"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// stubGeocoder is a test double for the Geocoder interface.
type stubGeocoder struct {
	point types.Point
	err   error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (types.Point, error) {
	return s.point, s.err
}

func testSchedule(t *testing.T) *tariff.Schedule {
	t.Helper()
	s, err := tariff.NewSchedule(map[tariff.DayType][]tariff.Window{
		tariff.Weekday: {
			{Start: 0, End: 8*60 + 30, Kind: tariff.Free},
			{Start: 8*60 + 30, End: 22 * 60, Kind: tariff.Paid, BlockMinutes: 30,
				BlockRate: types.Money{Amount: 60, Currency: types.SGD}},
			{Start: 22 * 60, End: tariff.EndOfDay, Kind: tariff.Free},
		},
	})
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	return s
}

// testRegistry has three carparks at increasing distance from City Hall;
// the furthest one has no rate schedule.
func testRegistry(t *testing.T) *carpark.Registry {
	t.Helper()
	sched := testSchedule(t)
	return carpark.NewRegistry([]*carpark.Carpark{
		{Code: "P0023", Address: "ALIWAL STREET", Type: carpark.TypeURA,
			Position: types.Point{Lat: 1.3021, Lng: 103.8601}, TotalLots: 45, Schedule: sched},
		{Code: "ACB", Address: "BLK 270/271 ALBERT CENTRE", Type: carpark.TypeHDB,
			Position: types.Point{Lat: 1.3006, Lng: 103.8543}, TotalLots: 693},
		{Code: "J0099", Address: "JURONG FAR AWAY", Type: carpark.TypeURA,
			Position: types.Point{Lat: 1.3329, Lng: 103.7436}, TotalLots: 10, Schedule: sched},
	})
}

// cityHall is close to ACB, a little further from P0023, far from J0099.
var cityHall = types.Point{Lat: 1.2931, Lng: 103.8520}

func newTestService(t *testing.T, reg *carpark.Registry, avail *availability.Service) *Service {
	t.Helper()
	return NewService(reg, &stubGeocoder{point: cityHall}, nil, avail, tariff.NewEngine(0), nil)
}

func TestSearch_RanksByDistance(t *testing.T) {
	svc := newTestService(t, testRegistry(t), nil)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Code != "ACB" || results[1].Code != "P0023" || results[2].Code != "J0099" {
		t.Errorf("unexpected order: %s, %s, %s", results[0].Code, results[1].Code, results[2].Code)
	}
	for i := 1; i < len(results); i++ {
		if results[i].DistanceM < results[i-1].DistanceM {
			t.Errorf("distances not ascending: %v", results)
		}
	}
}

func TestSearch_LimitsResults(t *testing.T) {
	svc := newTestService(t, testRegistry(t), nil)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall", Limit: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Code != "ACB" {
		t.Errorf("Search(limit=1) = %v", results)
	}
}

func TestSearch_NoStayWindowYieldsAdvisoryNote(t *testing.T) {
	svc := newTestService(t, testRegistry(t), nil)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Cost != nil {
			t.Errorf("%s has a cost without a stay window", r.Code)
		}
		if r.CostNote != noteProvideTimes {
			t.Errorf("%s note = %q", r.Code, r.CostNote)
		}
	}
}

func TestSearch_PricesStayPerCarpark(t *testing.T) {
	svc := newTestService(t, testRegistry(t), nil)
	// Monday 09:00-09:45, 45 paid minutes -> two blocks.
	start := time.Date(2025, 7, 7, 9, 0, 0, 0, time.Local)
	end := start.Add(45 * time.Minute)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall", Start: &start, End: &end})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	byCode := make(map[string]Result, len(results))
	for _, r := range results {
		byCode[r.Code] = r
	}

	priced := byCode["P0023"]
	if priced.Cost == nil || priced.Cost.Amount != 120 {
		t.Errorf("P0023 cost = %v, want 120 cents", priced.Cost)
	}
	if priced.CostNote != "" {
		t.Errorf("P0023 note = %q, want none", priced.CostNote)
	}

	// ACB has no schedule: pricing fails for it alone, as a note, while the
	// rest of the batch still prices.
	unpriced := byCode["ACB"]
	if unpriced.Cost != nil {
		t.Errorf("ACB cost = %v, want none", unpriced.Cost)
	}
	if !strings.HasPrefix(unpriced.CostNote, "unable to estimate cost:") {
		t.Errorf("ACB note = %q", unpriced.CostNote)
	}
}

func TestSearch_InvalidStayDegradesToNote(t *testing.T) {
	svc := newTestService(t, testRegistry(t), nil)
	start := time.Date(2025, 7, 7, 10, 0, 0, 0, time.Local)
	end := start.Add(-time.Hour)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall", Start: &start, End: &end})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Cost != nil || !strings.HasPrefix(r.CostNote, "unable to estimate cost:") {
			t.Errorf("%s = cost %v, note %q", r.Code, r.Cost, r.CostNote)
		}
	}
}

func TestSearch_MergesLiveAvailability(t *testing.T) {
	avail := availability.NewService(nil)
	avail.Apply(context.Background(), availability.SourceHDB, map[string]availability.Lots{
		"ACB": {Total: 700, Available: 42},
	})
	avail.Apply(context.Background(), availability.SourceURA, map[string]availability.Lots{
		"P0023": {Available: 7},
	})

	svc := newTestService(t, testRegistry(t), avail)
	results, err := svc.Search(context.Background(), SearchRequest{Query: "city hall"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	byCode := make(map[string]Result, len(results))
	for _, r := range results {
		byCode[r.Code] = r
	}

	acb := byCode["ACB"]
	if acb.AvailableLots == nil || *acb.AvailableLots != 42 {
		t.Errorf("ACB available = %v, want 42", acb.AvailableLots)
	}
	if acb.TotalLots != 700 {
		t.Errorf("ACB total = %d, want live feed's 700", acb.TotalLots)
	}

	// The URA feed has no capacity data; the registry's count stands.
	p23 := byCode["P0023"]
	if p23.AvailableLots == nil || *p23.AvailableLots != 7 {
		t.Errorf("P0023 available = %v, want 7", p23.AvailableLots)
	}
	if p23.TotalLots != 45 {
		t.Errorf("P0023 total = %d, want registry's 45", p23.TotalLots)
	}

	// No live data at all: lots unknown rather than zero.
	if byCode["J0099"].AvailableLots != nil {
		t.Error("J0099 should have no availability figure")
	}
}

func TestSearch_EmptyRegistry(t *testing.T) {
	svc := newTestService(t, carpark.NewRegistry(nil), nil)
	if _, err := svc.Search(context.Background(), SearchRequest{Query: "city hall"}); !errors.Is(err, ErrDataNotLoaded) {
		t.Errorf("Search() error = %v, want ErrDataNotLoaded", err)
	}
}

func TestSearch_GeocoderFailurePropagates(t *testing.T) {
	geoErr := errors.New("geocode boom")
	svc := NewService(testRegistry(t), &stubGeocoder{err: geoErr}, nil, nil, tariff.NewEngine(0), nil)
	if _, err := svc.Search(context.Background(), SearchRequest{Query: "city hall"}); !errors.Is(err, geoErr) {
		t.Errorf("Search() error = %v, want the geocoder's error", err)
	}
}
