package content

import "strings"

// Section is the running document-level topic inferred from headings.
type Section string

const (
	SectionMobile   Section = "mobile_context"
	SectionDesktop  Section = "desktop_context"
	SectionHomepage Section = "homepage"
	SectionAbout    Section = "about"
	SectionNews     Section = "news"
	SectionContact  Section = "contact"
	SectionGeneral  Section = "general"
)

// sectionRules map heading keywords to sections. Evaluated in order,
// first match wins; no match leaves the current section unchanged.
var sectionRules = []struct {
	section  Section
	keywords []string
}{
	{SectionMobile, []string{"mobile", "smartphone", "phone"}},
	{SectionDesktop, []string{"desktop", "computer", "pc"}},
	{SectionHomepage, []string{"homepage", "home page"}},
	{SectionAbout, []string{"about", "über uns"}},
	{SectionNews, []string{"news", "feed", "articles"}},
	{SectionContact, []string{"contact", "kontakt"}},
}

// DocumentContext accumulates heading and title text over one forward
// pass. It is built before categorization begins and read-only after,
// so headings late in the document still broaden the context available
// to every block.
type DocumentContext struct {
	Headings       []string
	CurrentSection Section
	allContext     string
}

// BuildContext performs the first pass over classified blocks, collecting
// lowercased heading/title/section-header text and tracking the running
// section topic. The section is sticky: a heading that matches no keyword
// set leaves it unchanged.
func BuildContext(blocks []Block) *DocumentContext {
	dc := &DocumentContext{CurrentSection: SectionGeneral}

	for _, b := range blocks {
		switch b.Kind {
		case KindHeading, KindTitle, KindSectionHeader:
		default:
			continue
		}

		lower := strings.ToLower(b.Text)
		dc.Headings = append(dc.Headings, lower)

		for _, rule := range sectionRules {
			if containsAny(lower, rule.keywords) {
				dc.CurrentSection = rule.section
				break
			}
		}
	}

	dc.allContext = strings.Join(dc.Headings, " ")
	return dc
}

// AllContextText returns the concatenation of every accumulated heading
// and title string, for keyword matching during categorization.
func (dc *DocumentContext) AllContextText() string {
	if dc == nil {
		return ""
	}
	return dc.allContext
}
