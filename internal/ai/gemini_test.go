package ai

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantQuery string
		wantTimes bool
		wantErr   bool
	}{
		{
			name:      "plain json",
			raw:       `{"query":"Bugis Junction","start":"2025-07-08T09:00:00+08:00","end":"2025-07-08T11:00:00+08:00","reply":"ok"}`,
			wantQuery: "Bugis Junction",
			wantTimes: true,
		},
		{
			name:      "markdown fenced",
			raw:       "```json\n{\"query\":\"Marina Bay Sands\",\"start\":null,\"end\":null,\"reply\":\"ok\"}\n```",
			wantQuery: "Marina Bay Sands",
		},
		{
			name:    "missing query",
			raw:     `{"query":"","reply":"??"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parsePlan() should have failed")
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePlan: %v", err)
			}
			if plan.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", plan.Query, tt.wantQuery)
			}
			if tt.wantTimes != (plan.Start != nil && plan.End != nil) {
				t.Errorf("times present = %v, want %v", plan.Start != nil, tt.wantTimes)
			}
			if plan.Start != nil {
				if _, err := time.Parse(time.RFC3339, *plan.Start); err != nil {
					t.Errorf("Start %q is not RFC3339: %v", *plan.Start, err)
				}
			}
		})
	}
}

func TestCleanJSONString(t *testing.T) {
	want := `{"query":"x"}`
	for _, raw := range []string{
		`{"query":"x"}`,
		"```json\n{\"query\":\"x\"}\n```",
		"```\n{\"query\":\"x\"}\n```",
		"  {\"query\":\"x\"}  ",
	} {
		if got := cleanJSONString(raw); got != want {
			t.Errorf("cleanJSONString(%q) = %q", raw, got)
		}
	}
}

// Live round trip against the real model. Skipped unless a key is set.
func TestGeminiPlanner_Live(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	planner, err := NewGeminiPlanner(ctx, apiKey)
	if err != nil {
		t.Fatalf("NewGeminiPlanner: %v", err)
	}
	defer planner.Close()

	plan, err := planner.PlanSearch(ctx, "where can I park near Bugis Junction tomorrow from 9am to 11am?")
	if err != nil {
		t.Fatalf("PlanSearch: %v", err)
	}
	if !strings.Contains(strings.ToLower(plan.Query), "bugis") {
		t.Errorf("Query = %q, expected a Bugis destination", plan.Query)
	}
	if plan.Start == nil || plan.End == nil {
		t.Error("expected a resolved stay window")
	}
}
