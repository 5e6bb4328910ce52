package content

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// bulletGlyphs are the leading glyphs that mark a bullet line.
var bulletGlyphs = []string{"•", "-", "◦", "▪", "▫"}

var (
	numberedRe     = regexp.MustCompile(`^\d+\.`)
	headingLevelRe = regexp.MustCompile(`heading\s*(\d+)`)
)

// Classify labels a paragraph with its semantic role from style metadata
// and text patterns. Rules are evaluated in priority order, first match
// wins; anything unrecognized falls through to KindText. It never fails.
func Classify(text, styleName string) (Kind, int) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return KindEmpty, 0
	}

	style := strings.ToLower(styleName)
	switch {
	case strings.Contains(style, "heading"):
		return KindHeading, HeadingLevel(styleName)
	case strings.Contains(style, "title") && !strings.Contains(style, "subtitle"):
		return KindTitle, 0
	case strings.Contains(style, "subtitle"):
		return KindSubtitle, 0
	case strings.Contains(style, "list paragraph"):
		return KindListItem, 0
	}

	if StartsWithBullet(trimmed) {
		return KindBulletPoint, 0
	}
	if numberedRe.MatchString(trimmed) {
		return KindNumberedList, 0
	}
	if strings.HasSuffix(trimmed, ":") && len(trimmed) < 100 {
		return KindLabel, 0
	}
	if len(trimmed) < 50 && isAllUpper(trimmed) {
		return KindSectionHeader, 0
	}
	if strings.HasPrefix(trimmed, strings.Repeat("-", 10)) {
		return KindSeparator, 0
	}

	return KindText, 0
}

// HeadingLevel parses the numeric level from a heading style name like
// "Heading 2". Returns 0 when the style carries no level.
func HeadingLevel(styleName string) int {
	m := headingLevelRe.FindStringSubmatch(strings.ToLower(styleName))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// StartsWithBullet reports whether text begins with a bullet glyph.
func StartsWithBullet(text string) bool {
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(text, g) {
			return true
		}
	}
	return false
}

// isAllUpper reports whether text contains at least one letter and no
// lowercase letters, over the full Unicode range so umlauts count.
// Digit/punctuation-only strings are not considered uppercase.
func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
