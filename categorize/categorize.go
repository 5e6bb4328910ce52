// Package categorize assigns content blocks to category buckets along
// four independent axes: device, page type, component and issue type.
// Each axis is an explicit ordered rule table evaluated top to bottom so
// rule precedence is auditable rather than buried in control flow.
package categorize

import (
	"strings"

	"github.com/ppichler/issuedoc/content"
)

// Axis names the four classification dimensions.
type Axis string

const (
	AxisDevice    Axis = "device"
	AxisPageType  Axis = "page_type"
	AxisComponent Axis = "component"
	AxisIssueType Axis = "issue_type"
)

// rule maps a keyword set to a bucket. The first rule whose keywords
// match the combined context wins.
type rule struct {
	bucket   string
	keywords []string
}

var deviceRules = []rule{
	{"mobile", []string{"mobile", "smartphone", "phone", "responsive"}},
	{"desktop", []string{"desktop", "computer", "pc", "large screen"}},
}

var pageTypeRules = []rule{
	{"homepage", []string{"homepage", "home page", "main page", "landing"}},
	{"about", []string{"about", "über uns", "about us"}},
	{"news", []string{"news", "feed", "articles", "blog"}},
	{"contact", []string{"contact", "kontakt"}},
}

var componentRules = []rule{
	{"carousel", []string{"carousel", "slider", "slideshow"}},
	{"navigation", []string{"navigation", "menu", "nav", "arrows"}},
	{"images", []string{"image", "picture", "photo", "quality"}},
	{"forms", []string{"form", "input", "field"}},
	{"layout", []string{"layout", "display", "positioning", "alignment"}},
}

var issueTypeRules = []rule{
	{"bug", []string{"error", "broken", "not working", "duplicated", "missing"}},
	{"improvement", []string{"improve", "optimize", "better", "enhance"}},
	{"feature", []string{"add", "new", "create", "implement"}},
}

// Buckets holds one block's bucket per axis. Device, PageType and
// IssueType are always set; Component may be empty.
type Buckets struct {
	Device    string `json:"device"`
	PageType  string `json:"page_type"`
	Component string `json:"component,omitempty"`
	IssueType string `json:"issue_type"`
}

// Assignment maps block indices to their per-axis buckets. Lookup is by
// stable index, never by equality on block values.
type Assignment struct {
	byIndex []Buckets
}

// Assign runs the second categorization pass: every block's lowercased
// text is combined with the document-level context text and tested
// against each axis's rule table.
func Assign(blocks []content.Block, dc *content.DocumentContext) Assignment {
	a := Assignment{byIndex: make([]Buckets, len(blocks))}
	ctxText := dc.AllContextText()

	for i, b := range blocks {
		combined := strings.ToLower(b.Text) + " " + ctxText
		a.byIndex[i] = Buckets{
			Device:    matchRules(combined, deviceRules, "both"),
			PageType:  pageTypeBucket(combined, dc),
			Component: matchRules(combined, componentRules, ""),
			IssueType: matchRules(combined, issueTypeRules, "content"),
		}
	}
	return a
}

// Of returns the buckets assigned to the block at index i. Out-of-range
// indices return zero Buckets.
func (a Assignment) Of(i int) Buckets {
	if i < 0 || i >= len(a.byIndex) {
		return Buckets{}
	}
	return a.byIndex[i]
}

// Len returns the number of assigned blocks.
func (a Assignment) Len() int { return len(a.byIndex) }

func matchRules(combined string, rules []rule, fallback string) string {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(combined, kw) {
				return r.bucket
			}
		}
	}
	return fallback
}

// pageTypeBucket falls back to the running section context when no
// keyword matches, and only to "general" when that section is not one
// of the four named page types.
func pageTypeBucket(combined string, dc *content.DocumentContext) string {
	if b := matchRules(combined, pageTypeRules, ""); b != "" {
		return b
	}
	switch dc.CurrentSection {
	case content.SectionHomepage, content.SectionAbout, content.SectionNews, content.SectionContact:
		return string(dc.CurrentSection)
	}
	return "general"
}
