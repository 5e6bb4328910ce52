package segment

import (
	"strings"
	"testing"

	"github.com/ppichler/issuedoc/categorize"
	"github.com/ppichler/issuedoc/content"
	"github.com/ppichler/issuedoc/llm"
)

func TestFinalizeDescriptionSections(t *testing.T) {
	iss := &Issue{
		Title:    "The carousel arrows are missing on mobile",
		Parts:    []string{"The carousel arrows are missing on mobile", "They worked last week."},
		BlockIdx: []int{0, 1},
		Categories: categorize.Buckets{
			Device: "mobile", PageType: "homepage", Component: "carousel", IssueType: "bug",
		},
		Images: []content.Image{{Filename: "image_1.png", Size: 2048}},
		Links:  []content.Link{{Text: "demo", URL: "https://youtube.com/watch?v=1", Type: content.LinkVideo}},
		Tables: []content.Table{{Number: 1, RowCount: 2, ColCount: 2, FormattedText: "a | b\nc | d"}},
	}

	f := Finalize(iss, nil)

	if f.Title != iss.Title {
		t.Errorf("Title = %q", f.Title)
	}
	if f.BlockCount != 2 {
		t.Errorf("BlockCount = %d, want 2", f.BlockCount)
	}
	for _, want := range []string{
		"## 📋 **Issue Classification:**",
		"- **Device**: Mobile",
		"- **Page_Type**: Homepage",
		"- **Component**: Carousel",
		"- **Issue_Type**: Bug",
		"## 📊 **Tables:**",
		"### Table 1 (2x2):",
		"```\na | b\nc | d\n```",
		"## 🔗 **Related Links:**",
		"- 🎥 [demo](https://youtube.com/watch?v=1) (video)",
		"## 📸 **Attached Images:**",
		"- image_1.png (2048 bytes)",
	} {
		if !strings.Contains(f.Description, want) {
			t.Errorf("description missing %q\n%s", want, f.Description)
		}
	}
	if strings.Contains(f.Description, "AI Analysis") {
		t.Error("description must not contain an AI section without insights")
	}
}

func TestFinalizeInsightMatch(t *testing.T) {
	iss := &Issue{
		Title:    "Carousel arrows missing",
		Parts:    []string{"Carousel arrows missing"},
		BlockIdx: []int{0},
	}
	insights := []llm.Insight{
		{Title: "Contact form broken", Priority: "Low"},
		{Title: "Fix carousel navigation", Priority: "High", Complexity: "Low"},
	}

	f := Finalize(iss, insights)

	if !strings.Contains(f.Description, "## 🤖 **AI Analysis:**") {
		t.Fatalf("missing AI section:\n%s", f.Description)
	}
	if !strings.Contains(f.Description, "- **Priority**: High") {
		t.Errorf("wrong insight matched:\n%s", f.Description)
	}
	// Empty insight fields fall back to defaults.
	if !strings.Contains(f.Description, "- **Category**: Task") {
		t.Errorf("missing category default:\n%s", f.Description)
	}
}

func TestFinalizeNoInsightMatch(t *testing.T) {
	iss := &Issue{Title: "Carousel arrows missing", Parts: []string{"Carousel arrows missing"}}
	insights := []llm.Insight{{Title: "Unrelated topic entirely"}}

	f := Finalize(iss, insights)
	if strings.Contains(f.Description, "AI Analysis") {
		t.Errorf("no insight should match:\n%s", f.Description)
	}
}

func TestDistributeUnlinked(t *testing.T) {
	images := []content.Image{
		{Filename: "image_1.png"},
		{Filename: "image_2.png"},
		{Filename: "image_3.png"},
	}
	issues := []Finalized{
		{Title: "a", Images: []content.Image{{Filename: "image_2.png"}}},
		{Title: "b"},
	}

	DistributeUnlinked(images, issues)

	// image_2 is already linked; image_1 and image_3 round-robin.
	if len(issues[0].Images) != 2 {
		t.Errorf("issue a has %d images, want 2: %+v", len(issues[0].Images), issues[0].Images)
	}
	if len(issues[1].Images) != 1 || issues[1].Images[0].Filename != "image_3.png" {
		t.Errorf("issue b images = %+v", issues[1].Images)
	}

	total := len(issues[0].Images) + len(issues[1].Images)
	if total != 3 {
		t.Errorf("total images after distribution = %d, want 3", total)
	}
}

func TestDistributeUnlinkedNoIssues(t *testing.T) {
	// Must not panic with zero issues.
	DistributeUnlinked([]content.Image{{Filename: "image_1.png"}}, nil)
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"page_type", "Page_Type"},
		{"bug", "Bug"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
