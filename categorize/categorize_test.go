package categorize

import (
	"testing"

	"github.com/ppichler/issuedoc/content"
)

// assign runs the two categorization passes over a block list built
// from plain text lines.
func assign(t *testing.T, texts ...string) ([]content.Block, Assignment) {
	t.Helper()
	blocks := make([]content.Block, len(texts))
	for i, txt := range texts {
		kind, level := content.Classify(txt, "Normal")
		blocks[i] = content.Block{Kind: kind, Text: txt, HeadingLevel: level}
	}
	dc := content.BuildContext(blocks)
	return blocks, Assign(blocks, dc)
}

func TestAssignBuckets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Buckets
	}{
		{
			name: "mobile carousel bug",
			text: "The carousel on mobile is broken",
			want: Buckets{Device: "mobile", PageType: "general", Component: "carousel", IssueType: "bug"},
		},
		{
			name: "desktop form improvement",
			text: "Improve the form validation on desktop",
			want: Buckets{Device: "desktop", PageType: "general", Component: "forms", IssueType: "improvement"},
		},
		{
			name: "contact page feature",
			text: "Create a map section for the contact page",
			want: Buckets{Device: "both", PageType: "contact", Component: "", IssueType: "feature"},
		},
		{
			name: "no component match",
			text: "The section text is outdated",
			want: Buckets{Device: "both", PageType: "general", Component: "", IssueType: "content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, a := assign(t, tt.text)
			if got := a.Of(0); got != tt.want {
				t.Errorf("Of(0) = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Rule order decides ties: "slider menu" matches carousel before
// navigation, "broken improvement" matches bug before improvement.
func TestAssignRuleOrder(t *testing.T) {
	_, a := assign(t, "The slider menu arrows are broken and should be improved")
	got := a.Of(0)
	if got.Component != "carousel" {
		t.Errorf("Component = %q, want carousel", got.Component)
	}
	if got.IssueType != "bug" {
		t.Errorf("IssueType = %q, want bug", got.IssueType)
	}
}

// Document context broadens every block: a heading mentioning mobile
// pushes blocks without device keywords into the mobile bucket.
func TestAssignUsesContext(t *testing.T) {
	blocks := []content.Block{
		{Kind: content.KindHeading, Text: "Mobile Version"},
		{Kind: content.KindText, Text: "The logo is cropped at the top"},
	}
	dc := content.BuildContext(blocks)
	a := Assign(blocks, dc)

	if got := a.Of(1).Device; got != "mobile" {
		t.Errorf("Device = %q, want mobile", got)
	}
}

// When no page-type keyword matches anywhere, the running section
// supplies the bucket.
func TestAssignPageTypeSectionFallback(t *testing.T) {
	blocks := []content.Block{
		{Kind: content.KindHeading, Text: "Kontakt"},
		{Kind: content.KindText, Text: "The map widget loads slowly"},
	}
	dc := content.BuildContext(blocks)
	a := Assign(blocks, dc)

	if got := a.Of(1).PageType; got != "contact" {
		t.Errorf("PageType = %q, want contact", got)
	}
}

func TestAssignmentOfOutOfRange(t *testing.T) {
	_, a := assign(t, "some text")
	if got := a.Of(5); got != (Buckets{}) {
		t.Errorf("Of(5) = %+v, want zero", got)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}
