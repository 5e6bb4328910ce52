package content

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		style string
		want  Kind
	}{
		{"empty", "", "Normal", KindEmpty},
		{"whitespace only", "   \t ", "Normal", KindEmpty},
		{"heading style", "Mobile Version", "Heading 1", KindHeading},
		{"title style", "Website Feedback", "Title", KindTitle},
		{"subtitle style", "Round two", "Subtitle", KindSubtitle},
		{"list paragraph style", "Fix the carousel arrows", "List Paragraph", KindListItem},
		{"bullet glyph", "• Fix the menu", "Normal", KindBulletPoint},
		{"dash bullet", "- broken link on contact page", "Normal", KindBulletPoint},
		{"numbered", "1. Update the hero image", "Normal", KindNumberedList},
		{"label", "Open points:", "Normal", KindLabel},
		{"section header", "HOMEPAGE", "Normal", KindSectionHeader},
		{"long uppercase is text", "THIS LINE IS FAR TOO LONG TO BE TREATED AS A SECTION HEADER AT ALL", "Normal", KindText},
		{"plain text", "The images on the news page load slowly.", "Normal", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Classify(tt.text, tt.style)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.text, tt.style, got, tt.want)
			}
		})
	}
}

// A run of ten dashes starts with the "-" bullet glyph, so the bullet
// rule wins over the separator rule and the line is absorbed as short
// context downstream.
func TestClassifyDashRun(t *testing.T) {
	got, _ := Classify("----------", "Normal")
	if got != KindBulletPoint {
		t.Errorf("Classify dash run = %v, want %v", got, KindBulletPoint)
	}
}

func TestClassifyStylePrecedence(t *testing.T) {
	// Style beats text patterns: a numbered line in a heading style is
	// still a heading.
	got, level := Classify("1. Introduction", "Heading 2")
	if got != KindHeading {
		t.Fatalf("kind = %v, want %v", got, KindHeading)
	}
	if level != 2 {
		t.Errorf("level = %d, want 2", level)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading 1", 1},
		{"heading 3", 3},
		{"Heading", 0},
		{"Normal", 0},
	}
	for _, tt := range tests {
		if got := HeadingLevel(tt.style); got != tt.want {
			t.Errorf("HeadingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

func TestIsAllUpperUmlauts(t *testing.T) {
	if !isAllUpper("ÜBER UNS") {
		t.Error("ÜBER UNS should count as uppercase")
	}
	if isAllUpper("1234") {
		t.Error("digits alone should not count as uppercase")
	}
	if isAllUpper("ÜBER UNSä") {
		t.Error("a lowercase umlaut should disqualify the text")
	}
	if isAllUpper("FAQ straße") {
		t.Error("lowercase non-ASCII letters should disqualify the text")
	}
}
