// README: Carpark search handlers: plain query search and AI smart search.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/ai"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/locator"
)

// Searcher is the slice of the locator service this handler needs.
type Searcher interface {
	Search(ctx context.Context, req locator.SearchRequest) ([]locator.Result, error)
}

type CarparkHandler struct {
	searcher Searcher
	planner  ai.Planner // nil disables smart search
}

func NewCarparkHandler(searcher Searcher, planner ai.Planner) *CarparkHandler {
	return &CarparkHandler{searcher: searcher, planner: planner}
}

type carparkResponse struct {
	Code          string  `json:"code"`
	Address       string  `json:"address"`
	Type          string  `json:"type"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	DistanceM     float64 `json:"distance_m"`
	TotalLots     int     `json:"total_lots"`
	AvailableLots *int    `json:"available_lots,omitempty"`
	Cost          string  `json:"estimated_cost,omitempty"`
	CostNote      string  `json:"cost_note,omitempty"`
}

func toResponse(results []locator.Result) []carparkResponse {
	out := make([]carparkResponse, len(results))
	for i, r := range results {
		out[i] = carparkResponse{
			Code:          r.Code,
			Address:       r.Address,
			Type:          string(r.Type),
			Lat:           r.Position.Lat,
			Lng:           r.Position.Lng,
			DistanceM:     r.DistanceM,
			TotalLots:     r.TotalLots,
			AvailableLots: r.AvailableLots,
			CostNote:      r.CostNote,
		}
		if r.Cost != nil {
			out[i].Cost = r.Cost.String()
		}
	}
	return out
}

// Accepted timestamp layouts for the start/end query parameters. Times
// without an offset are read as Singapore local time.
var stayLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseStayTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range stayLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Search handles GET /api/carparks?query=...&limit=...&start=...&end=...
func (h *CarparkHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		writeError(c, http.StatusBadRequest, "query parameter is required")
		return
	}

	req := locator.SearchRequest{Query: query}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	if v := c.Query("start"); v != "" {
		t, err := parseStayTime(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid start time")
			return
		}
		req.Start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := parseStayTime(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid end time")
			return
		}
		req.End = &t
	}

	results, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		writeSearchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"carparks": toResponse(results)})
}

type smartSearchReq struct {
	Message string `json:"message"`
}

// SmartSearch handles POST /api/carparks/smart-search: the planner turns a
// free-text message into a query and stay window, then the normal search runs.
func (h *CarparkHandler) SmartSearch(c *gin.Context) {
	if h.planner == nil {
		writeError(c, http.StatusServiceUnavailable, "smart search is not configured")
		return
	}

	var body smartSearchReq
	if err := c.ShouldBindJSON(&body); err != nil || body.Message == "" {
		writeError(c, http.StatusBadRequest, "message is required")
		return
	}

	plan, err := h.planner.PlanSearch(c.Request.Context(), body.Message)
	if err != nil {
		writeError(c, http.StatusBadGateway, "could not interpret the request")
		return
	}

	req := locator.SearchRequest{Query: plan.Query}
	if plan.Start != nil && plan.End != nil {
		start, err1 := time.Parse(time.RFC3339, *plan.Start)
		end, err2 := time.Parse(time.RFC3339, *plan.End)
		if err1 == nil && err2 == nil {
			req.Start = &start
			req.End = &end
		}
	}

	results, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		writeSearchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"reply":    plan.Reply,
		"query":    plan.Query,
		"carparks": toResponse(results),
	})
}

// Health handles GET /health.
func (h *CarparkHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
