package segment

import (
	"fmt"
	"strings"

	"github.com/ppichler/issuedoc/categorize"
	"github.com/ppichler/issuedoc/content"
	"github.com/ppichler/issuedoc/llm"
)

// Finalized is the immutable unit handed to the issue-tracker sink. The
// record shape is stable and JSON-serializable.
type Finalized struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Images      []content.Image    `json:"images,omitempty"`
	Links       []content.Link     `json:"links,omitempty"`
	Tables      []content.Table    `json:"tables,omitempty"`
	Categories  categorize.Buckets `json:"categories"`
	BlockCount  int                `json:"content_block_count"`
}

// linkGlyphs key description markers by link type.
var linkGlyphs = map[content.LinkType]string{
	content.LinkVideo:    "🎥",
	content.LinkDocument: "📄",
	content.LinkImage:    "🖼️",
	content.LinkExternal: "🌐",
	content.LinkInternal: "🔗",
}

// Finalize merges an issue's accumulated text, tables, links, images and
// categories into a single formatted description, attaching at most one
// matching insight. Insights may be nil; the section is simply omitted.
func Finalize(iss *Issue, insights []llm.Insight) Finalized {
	parts := make([]string, 0, len(iss.Parts)+16)
	parts = append(parts, iss.Parts...)

	if cats := categoryLines(iss.Categories); len(cats) > 0 {
		parts = append(parts, "\n## 📋 **Issue Classification:**")
		parts = append(parts, cats...)
	}

	if len(iss.Tables) > 0 {
		parts = append(parts, "\n## 📊 **Tables:**")
		for i, t := range iss.Tables {
			parts = append(parts, fmt.Sprintf("\n### Table %d (%dx%d):", i+1, t.RowCount, t.ColCount))
			parts = append(parts, "```\n"+t.FormattedText+"\n```")
		}
	}

	if len(iss.Links) > 0 {
		parts = append(parts, "\n## 🔗 **Related Links:**")
		for _, l := range iss.Links {
			glyph, ok := linkGlyphs[l.Type]
			if !ok {
				glyph = "🔗"
			}
			parts = append(parts, fmt.Sprintf("- %s [%s](%s) (%s)", glyph, l.Text, l.URL, l.Type))
		}
	}

	if len(iss.Images) > 0 {
		parts = append(parts, "\n## 📸 **Attached Images:**")
		for _, img := range iss.Images {
			parts = append(parts, fmt.Sprintf("- %s (%d bytes)", img.Filename, img.Size))
		}
	}

	if ins := matchInsight(iss.Title, insights); ins != nil {
		parts = append(parts, "\n## 🤖 **AI Analysis:**")
		parts = append(parts, fmt.Sprintf("- **Priority**: %s", orDefault(ins.Priority, "Medium")))
		parts = append(parts, fmt.Sprintf("- **Complexity**: %s", orDefault(ins.Complexity, "Medium")))
		parts = append(parts, fmt.Sprintf("- **Category**: %s", orDefault(ins.Category, "Task")))
	}

	return Finalized{
		Title:       iss.Title,
		Description: strings.Join(parts, "\n"),
		Images:      iss.Images,
		Links:       iss.Links,
		Tables:      iss.Tables,
		Categories:  iss.Categories,
		BlockCount:  len(iss.BlockIdx),
	}
}

// matchInsight returns the first insight whose title contains any of the
// first three whitespace-separated tokens of the issue title, case
// insensitively. At most one insight is attached per issue.
func matchInsight(title string, insights []llm.Insight) *llm.Insight {
	tokens := strings.Fields(strings.ToLower(title))
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	for i := range insights {
		insightTitle := strings.ToLower(insights[i].Title)
		for _, tok := range tokens {
			if strings.Contains(insightTitle, tok) {
				return &insights[i]
			}
		}
	}
	return nil
}

func categoryLines(b categorize.Buckets) []string {
	var lines []string
	add := func(axis categorize.Axis, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", titleCase(string(axis)), titleCase(value)))
		}
	}
	add(categorize.AxisDevice, b.Device)
	add(categorize.AxisPageType, b.PageType)
	add(categorize.AxisComponent, b.Component)
	add(categorize.AxisIssueType, b.IssueType)
	return lines
}

// titleCase uppercases the first letter of every word-like run, so
// "page_type" renders as "Page_Type".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isLetter && !prevLetter && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		prevLetter = isLetter
		b.WriteRune(r)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
