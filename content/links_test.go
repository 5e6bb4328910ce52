package content

import "testing"

func TestClassifyLinkType(t *testing.T) {
	tests := []struct {
		url  string
		want LinkType
	}{
		{"", LinkInternal},
		{"internal:bookmark1", LinkInternal},
		{"mailto:support@example.com", LinkEmail},
		{"https://www.youtube.com/watch?v=abc", LinkVideo},
		{"https://example.com/manual.pdf", LinkDocument},
		{"https://example.com/hero.png", LinkImage},
		{"https://facebook.com/homecare", LinkSocial},
		{"https://drive.google.com/file/d/xyz", LinkCloud},
		{"https://github.com/acme/site", LinkDevelopment},
		{"https://example.com/about", LinkExternal},
		{"ftp://example.com/file", LinkUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyLinkType(tt.url); got != tt.want {
			t.Errorf("ClassifyLinkType(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

// Video platforms are checked before document extensions, so a PDF
// hosted on a video platform still classifies as video.
func TestClassifyLinkTypeOrder(t *testing.T) {
	if got := ClassifyLinkType("https://vimeo.com/help/guide.pdf"); got != LinkVideo {
		t.Errorf("got %v, want %v", got, LinkVideo)
	}
}

func TestFindLinks(t *testing.T) {
	links := FindLinks("See https://example.com/news for details or mail info@example.com.")

	if len(links) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(links), links)
	}
	if links[0].URL != "https://example.com/news" {
		t.Errorf("links[0].URL = %q", links[0].URL)
	}
	if links[0].Type != LinkExternal {
		t.Errorf("links[0].Type = %v, want %v", links[0].Type, LinkExternal)
	}
	if links[1].URL != "mailto:info@example.com" {
		t.Errorf("links[1].URL = %q", links[1].URL)
	}
	if links[1].Type != LinkEmail {
		t.Errorf("links[1].Type = %v, want %v", links[1].Type, LinkEmail)
	}
}

// The host of a full URL must not be reported again as a bare domain.
func TestFindLinksNoDomainDuplicate(t *testing.T) {
	links := FindLinks("Go to https://example.com/contact now")
	for _, l := range links[1:] {
		if l.URL == "https://example.com" {
			t.Fatalf("bare domain duplicated: %+v", links)
		}
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(links), links)
	}
}

func TestFindLinksWWW(t *testing.T) {
	links := FindLinks("Visit www.example.com today")
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(links), links)
	}
	if links[0].URL != "https://www.example.com" {
		t.Errorf("URL = %q, want %q", links[0].URL, "https://www.example.com")
	}
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/page.", "https://example.com/page"},
		{"https://example.com/page),", "https://example.com/page"},
		{"www.example.com", "https://www.example.com"},
		{"example.com/about", "https://example.com/about"},
		{"nodots", "nodots"},
	}
	for _, tt := range tests {
		if got := CleanURL(tt.raw); got != tt.want {
			t.Errorf("CleanURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
