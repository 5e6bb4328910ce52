package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInsightUnavailable is returned when no provider is configured
	// or the provider cannot be reached.
	ErrInsightUnavailable = errors.New("llm: insight provider unavailable")

	// ErrInsightParse is returned when the provider answered but the
	// response could not be interpreted as a task list.
	ErrInsightParse = errors.New("llm: insight response not parseable")
)

// Insight is one structured task proposal extracted from document text.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`   // High, Medium, Low
	Complexity  string `json:"complexity"` // Simple, Medium, Complex
	Category    string `json:"category"`   // Bug, Feature, Improvement, Task
}

const insightSystemPrompt = "You are an expert project manager who excels at extracting actionable tasks from documents."

const insightPromptTemplate = `You are an expert at analyzing project documents and extracting actionable tasks.

Please analyze the following document and extract all tasks/issues that need to be addressed. Look for:
- Numbered lists (1., 2., 3., etc.)
- Bullet points with action items
- Issues or problems mentioned
- Tasks or requirements described

For each task you find, provide:
1. A clear, concise title (suitable for a ticket summary)
2. A detailed description with context
3. Priority level (High, Medium, Low)
4. Estimated complexity (Simple, Medium, Complex)

Return the results as a JSON array with this structure:
[
  {
    "title": "Clear task title",
    "description": "Detailed description with context and requirements",
    "priority": "High|Medium|Low",
    "complexity": "Simple|Medium|Complex",
    "category": "Bug|Feature|Improvement|Task"
  }
]

Document to analyze:
%s

Please extract all actionable tasks and format them as JSON:`

// Proposer wraps a Provider with the single-shot insight extraction
// call. The call is not retried at this level; transport retries live in
// the provider, and callers that want another attempt just call Propose
// again.
type Proposer struct {
	provider    Provider
	model       string
	maxTokens   int
	temperature float64
}

// NewProposer creates a Proposer. A nil provider is allowed and yields
// ErrInsightUnavailable from Propose, so callers can wire the proposer
// unconditionally.
func NewProposer(provider Provider, model string) *Proposer {
	return &Proposer{
		provider:    provider,
		model:       model,
		maxTokens:   4000,
		temperature: 0.1,
	}
}

// Propose asks the provider for task candidates in the document text.
// Failures are tagged: ErrInsightUnavailable when the provider is absent
// or unreachable, ErrInsightParse when its output is not a task list.
func (p *Proposer) Propose(ctx context.Context, documentText string) ([]Insight, error) {
	if p == nil || p.provider == nil {
		return nil, ErrInsightUnavailable
	}

	resp, err := p.provider.Chat(ctx, ChatRequest{
		Model: p.model,
		Messages: []Message{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(insightPromptTemplate, documentText)},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsightUnavailable, err)
	}

	insights, err := parseInsights(resp.Content)
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// codeBlockRe strips markdown code fences from LLM output.
var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// parseInsights finds the JSON array in the raw response, tolerating
// code fences and surrounding prose.
func parseInsights(raw string) ([]Insight, error) {
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array in response", ErrInsightParse)
	}

	var insights []Insight
	if err := json.Unmarshal([]byte(raw[start:end+1]), &insights); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsightParse, err)
	}
	return insights, nil
}
