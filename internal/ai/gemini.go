package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiPlanner implements Planner using Google's Gemini models.
type GeminiPlanner struct {
	client *genai.Client
	model  *genai.GenerativeModel
	now    func() time.Time
}

// NewGeminiPlanner initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiPlanner(ctx context.Context, apiKey string) (*GeminiPlanner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature: this is extraction, not creative writing.
	model.SetTemperature(0.2)

	return &GeminiPlanner{
		client: client,
		model:  model,
		now:    time.Now,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiPlanner) Close() {
	p.client.Close()
}

// PlanSearch analyzes user input to extract a carpark search plan.
func (p *GeminiPlanner) PlanSearch(ctx context.Context, userMessage string) (*SearchPlan, error) {
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", buildSystemPrompt(p.now()), userMessage)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return parsePlan(responseText.String())
}

// parsePlan decodes the model's JSON output into a SearchPlan.
func parsePlan(raw string) (*SearchPlan, error) {
	cleanJSON := cleanJSONString(raw)

	var plan SearchPlan
	if err := json.Unmarshal([]byte(cleanJSON), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	if plan.Query == "" {
		return nil, fmt.Errorf("model returned no destination query. Raw: %s", cleanJSON)
	}
	return &plan, nil
}

// buildSystemPrompt constructs the instructions for the AI.
func buildSystemPrompt(now time.Time) string {
	return fmt.Sprintf(`Role: You are the query planner for a Singapore carpark finder.
Context:
- Current System Time: %s (Singapore local time)

TASK:
The user describes, in free text, where and when they want to park. Extract:
1. "query": ONLY the place name or address, suitable for a Singapore geocoder.
   Strip filler like "parking near", "carpark at", "cheap parking".
   E.g. "where can I park near Bugis Junction tomorrow?" -> "Bugis Junction".
2. "start" / "end": the stay window as RFC3339 timestamps WITH the +08:00
   offset, resolved against the Current System Time.
   - "tomorrow morning 9 to 11" -> tomorrow 09:00 to 11:00.
   - "for two hours from now" -> now to now + 2h.
   - If the user gives NO times, set both to null. NEVER invent a window.
   - If only a duration is given with no start, assume it starts now.
3. "reply": one short sentence restating how you read the request.

Output JSON Schema:
{
  "query": "string",
  "start": "YYYY-MM-DDTHH:mm:ss+08:00" | null,
  "end": "YYYY-MM-DDTHH:mm:ss+08:00" | null,
  "reply": "string"
}
`, now.Format(time.RFC3339))
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
