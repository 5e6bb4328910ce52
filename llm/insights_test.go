package llm

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.content}, nil
}

func TestParseInsights(t *testing.T) {
	raw := `[{"title": "Fix carousel", "priority": "High", "complexity": "Simple", "category": "Bug"}]`
	insights, err := parseInsights(raw)
	if err != nil {
		t.Fatalf("parseInsights: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}
	if insights[0].Title != "Fix carousel" || insights[0].Priority != "High" {
		t.Errorf("insight = %+v", insights[0])
	}
}

func TestParseInsightsCodeFence(t *testing.T) {
	raw := "Here are the tasks:\n```json\n[{\"title\": \"Update hours\"}]\n```\nDone."
	insights, err := parseInsights(raw)
	if err != nil {
		t.Fatalf("parseInsights: %v", err)
	}
	if len(insights) != 1 || insights[0].Title != "Update hours" {
		t.Errorf("insights = %+v", insights)
	}
}

func TestParseInsightsSurroundingProse(t *testing.T) {
	raw := `Sure! [{"title": "A"}, {"title": "B"}] Hope that helps.`
	insights, err := parseInsights(raw)
	if err != nil {
		t.Fatalf("parseInsights: %v", err)
	}
	if len(insights) != 2 {
		t.Errorf("got %d insights, want 2", len(insights))
	}
}

func TestParseInsightsErrors(t *testing.T) {
	for _, raw := range []string{"", "no array here", "[{broken json]"} {
		if _, err := parseInsights(raw); !errors.Is(err, ErrInsightParse) {
			t.Errorf("parseInsights(%q) err = %v, want ErrInsightParse", raw, err)
		}
	}
}

func TestProposeNilProvider(t *testing.T) {
	p := NewProposer(nil, "")
	if _, err := p.Propose(context.Background(), "text"); !errors.Is(err, ErrInsightUnavailable) {
		t.Errorf("err = %v, want ErrInsightUnavailable", err)
	}
}

func TestProposeProviderError(t *testing.T) {
	p := NewProposer(&fakeProvider{err: errors.New("connection refused")}, "m")
	if _, err := p.Propose(context.Background(), "text"); !errors.Is(err, ErrInsightUnavailable) {
		t.Errorf("err = %v, want ErrInsightUnavailable", err)
	}
}

func TestProposeParseError(t *testing.T) {
	p := NewProposer(&fakeProvider{content: "I could not find any tasks."}, "m")
	if _, err := p.Propose(context.Background(), "text"); !errors.Is(err, ErrInsightParse) {
		t.Errorf("err = %v, want ErrInsightParse", err)
	}
}

func TestProposeSuccess(t *testing.T) {
	p := NewProposer(&fakeProvider{content: `[{"title": "Fix menu", "category": "Bug"}]`}, "m")
	insights, err := p.Propose(context.Background(), "The menu is broken")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(insights) != 1 || insights[0].Category != "Bug" {
		t.Errorf("insights = %+v", insights)
	}
}
