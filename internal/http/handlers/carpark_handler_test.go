// README: Handler tests for the carpark search endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/ai"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/http/handlers"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/locator"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/onemap"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// stubSearcher is a test double for handlers.Searcher. It records the last
// request so tests can assert on parameter parsing.
type stubSearcher struct {
	lastReq locator.SearchRequest
	results []locator.Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, req locator.SearchRequest) ([]locator.Result, error) {
	s.lastReq = req
	return s.results, s.err
}

// stubPlanner is a test double for ai.Planner.
type stubPlanner struct {
	plan *ai.SearchPlan
	err  error
}

func (s *stubPlanner) PlanSearch(_ context.Context, _ string) (*ai.SearchPlan, error) {
	return s.plan, s.err
}

func buildTestRouter(searcher handlers.Searcher, planner ai.Planner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewCarparkHandler(searcher, planner)
	r.GET("/api/carparks", h.Search)
	r.POST("/api/carparks/smart-search", h.SmartSearch)
	r.GET("/health", h.Health)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleResults() []locator.Result {
	available := 42
	cost := types.Money{Amount: 120, Currency: types.SGD}
	return []locator.Result{
		{
			Code:          "ACB",
			Address:       "BLK 270/271 ALBERT CENTRE",
			Type:          carpark.TypeHDB,
			Position:      types.Point{Lat: 1.3006, Lng: 103.8543},
			DistanceM:     120.5,
			TotalLots:     693,
			AvailableLots: &available,
			Cost:          &cost,
		},
		{
			Code:      "P0023",
			Address:   "ALIWAL STREET",
			Type:      carpark.TypeURA,
			Position:  types.Point{Lat: 1.3021, Lng: 103.8601},
			DistanceM: 350.0,
			TotalLots: 45,
			CostNote:  "provide start & end time to estimate cost",
		},
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	r := buildTestRouter(&stubSearcher{}, nil)
	w := doRequest(r, http.MethodGet, "/api/carparks", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSearch_ReturnsCarparks(t *testing.T) {
	searcher := &stubSearcher{results: sampleResults()}
	r := buildTestRouter(searcher, nil)

	w := doRequest(r, http.MethodGet, "/api/carparks?query=bugis&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if searcher.lastReq.Query != "bugis" || searcher.lastReq.Limit != 5 {
		t.Errorf("service saw request %+v", searcher.lastReq)
	}

	var resp struct {
		Carparks []map[string]any `json:"carparks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Carparks) != 2 {
		t.Fatalf("got %d carparks, want 2", len(resp.Carparks))
	}
	first := resp.Carparks[0]
	if first["code"] != "ACB" || first["estimated_cost"] != "SGD 1.20" {
		t.Errorf("first carpark = %v", first)
	}
	if _, ok := first["cost_note"]; ok {
		t.Error("priced carpark should omit cost_note")
	}
	second := resp.Carparks[1]
	if _, ok := second["estimated_cost"]; ok {
		t.Error("unpriced carpark should omit estimated_cost")
	}
	if second["cost_note"] != "provide start & end time to estimate cost" {
		t.Errorf("second carpark note = %v", second["cost_note"])
	}
}

func TestSearch_ParsesStayWindow(t *testing.T) {
	searcher := &stubSearcher{results: sampleResults()}
	r := buildTestRouter(searcher, nil)

	w := doRequest(r, http.MethodGet, "/api/carparks?query=bugis&start=2025-07-07T09:00&end=2025-07-07T11:30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	req := searcher.lastReq
	if req.Start == nil || req.End == nil {
		t.Fatal("stay window not forwarded to the service")
	}
	wantStart := time.Date(2025, 7, 7, 9, 0, 0, 0, time.Local)
	wantEnd := time.Date(2025, 7, 7, 11, 30, 0, 0, time.Local)
	if !req.Start.Equal(wantStart) || !req.End.Equal(wantEnd) {
		t.Errorf("window = %v..%v, want %v..%v", req.Start, req.End, wantStart, wantEnd)
	}
}

func TestSearch_RejectsBadParams(t *testing.T) {
	r := buildTestRouter(&stubSearcher{}, nil)
	for _, path := range []string{
		"/api/carparks?query=bugis&start=notatime",
		"/api/carparks?query=bugis&end=07:00pm",
		"/api/carparks?query=bugis&limit=0",
		"/api/carparks?query=bugis&limit=ten",
	} {
		if w := doRequest(r, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"geocoder miss", onemap.ErrNotFound, http.StatusNotFound},
		{"no candidates", locator.ErrNoResults, http.StatusNotFound},
		{"data not loaded", locator.ErrDataNotLoaded, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestRouter(&stubSearcher{err: tt.err}, nil)
			w := doRequest(r, http.MethodGet, "/api/carparks?query=bugis", nil)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestSmartSearch_NotConfigured(t *testing.T) {
	r := buildTestRouter(&stubSearcher{}, nil)
	w := doRequest(r, http.MethodPost, "/api/carparks/smart-search", map[string]any{"message": "park near bugis"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestSmartSearch_PlansAndSearches(t *testing.T) {
	start := "2025-07-08T09:00:00+08:00"
	end := "2025-07-08T11:00:00+08:00"
	planner := &stubPlanner{plan: &ai.SearchPlan{
		Query: "Bugis Junction",
		Start: &start,
		End:   &end,
		Reply: "Parking near Bugis Junction tomorrow 9-11am.",
	}}
	searcher := &stubSearcher{results: sampleResults()}
	r := buildTestRouter(searcher, planner)

	w := doRequest(r, http.MethodPost, "/api/carparks/smart-search", map[string]any{
		"message": "where can I park near bugis tomorrow morning 9 to 11?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if searcher.lastReq.Query != "Bugis Junction" {
		t.Errorf("service saw query %q", searcher.lastReq.Query)
	}
	if searcher.lastReq.Start == nil || searcher.lastReq.End == nil {
		t.Error("planned stay window not forwarded")
	}

	var resp struct {
		Reply    string           `json:"reply"`
		Carparks []map[string]any `json:"carparks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply == "" || len(resp.Carparks) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestSmartSearch_BadRequests(t *testing.T) {
	planner := &stubPlanner{plan: &ai.SearchPlan{Query: "x"}}
	r := buildTestRouter(&stubSearcher{}, planner)

	if w := doRequest(r, http.MethodPost, "/api/carparks/smart-search", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty message: expected 400, got %d", w.Code)
	}
}

func TestSmartSearch_PlannerFailure(t *testing.T) {
	r := buildTestRouter(&stubSearcher{}, &stubPlanner{err: errors.New("model down")})
	w := doRequest(r, http.MethodPost, "/api/carparks/smart-search", map[string]any{"message": "hi"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(&stubSearcher{}, nil)
	w := doRequest(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}
