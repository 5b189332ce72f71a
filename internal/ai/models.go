package ai

// SearchPlan captures the structured output from the AI model: a free-text
// carpark request turned into a geocodable query plus an optional stay window.
type SearchPlan struct {
	// Query is the place to search near, stripped of parking chatter
	// (e.g. "cheap parking near bugis tomorrow morning" -> "bugis").
	Query string `json:"query"`

	// Start and End are the stay window in RFC3339 with offset, resolved
	// from relative phrases against the current time. Null when the user
	// gave no times.
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`

	// Reply is a short user-facing note about how the request was read.
	Reply string `json:"reply"`
}
