package ai

import (
	"context"
)

// Planner defines the contract for turning natural-language carpark requests
// into structured search plans. This interface allows for swapping different
// AI providers (Gemini, OpenAI, etc.) in the future.
type Planner interface {
	// PlanSearch analyzes the user's natural language input and extracts a
	// destination query plus an optional stay window.
	PlanSearch(ctx context.Context, userMessage string) (*SearchPlan, error)
}
