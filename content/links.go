package content

import (
	"regexp"
	"strings"
)

// Platform and extension lists for link classification. Check order is
// significant and mirrors ClassifyLinkType.
var (
	videoPlatforms = []string{
		"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com",
		"twitch.tv", "facebook.com/watch", "instagram.com/tv",
		"tiktok.com", "linkedin.com/video",
	}
	documentExtensions = []string{
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".txt", ".rtf", ".odt", ".ods", ".odp", ".pages", ".numbers", ".keynote",
	}
	imageExtensions = []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp",
		".tiff", ".ico", ".heic", ".raw",
	}
	socialPlatforms = []string{
		"facebook.com", "twitter.com", "linkedin.com", "instagram.com",
		"pinterest.com", "snapchat.com", "reddit.com", "discord.com",
	}
	cloudPlatforms = []string{
		"dropbox.com", "drive.google.com", "onedrive.com", "icloud.com",
		"box.com", "mega.nz", "mediafire.com",
	}
	devPlatforms = []string{
		"github.com", "gitlab.com", "bitbucket.org", "stackoverflow.com",
		"codepen.io", "jsfiddle.net", "repl.it",
	}
)

// ClassifyLinkType assigns a LinkType from URL substring checks. The
// order of checks is fixed: email, video, document, image, social,
// cloud, development, then generic http(s) external, else unknown.
func ClassifyLinkType(url string) LinkType {
	if url == "" || strings.HasPrefix(url, "internal:") {
		return LinkInternal
	}

	if strings.HasPrefix(url, "mailto:") {
		return LinkEmail
	}

	lower := strings.ToLower(url)
	if containsAny(lower, videoPlatforms) {
		return LinkVideo
	}
	if containsAny(lower, documentExtensions) {
		return LinkDocument
	}
	if containsAny(lower, imageExtensions) {
		return LinkImage
	}
	if containsAny(lower, socialPlatforms) {
		return LinkSocial
	}
	if containsAny(lower, cloudPlatforms) {
		return LinkCloud
	}
	if containsAny(lower, devPlatforms) {
		return LinkDevelopment
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return LinkExternal
	}
	return LinkUnknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var (
	urlRe    = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	wwwRe    = regexp.MustCompile(`www\.[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	domainRe = regexp.MustCompile(`[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?`)
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// FindLinks scans plain paragraph text for URLs, www-prefixed hosts,
// bare domains and e-mail addresses. E-mails become mailto links. Bare
// domains already covered by an earlier match are skipped so one URL is
// not reported three times.
func FindLinks(text string) []Link {
	var links []Link
	seen := make(map[string]bool)

	add := func(display, url string, typ LinkType) {
		if seen[url] {
			return
		}
		seen[url] = true
		links = append(links, Link{Text: display, URL: url, Type: typ})
	}

	for _, m := range urlRe.FindAllString(text, -1) {
		u := CleanURL(m)
		add(m, u, ClassifyLinkType(u))
	}
	for _, m := range wwwRe.FindAllString(text, -1) {
		u := CleanURL(m)
		add(m, u, ClassifyLinkType(u))
	}
	for _, m := range emailRe.FindAllString(text, -1) {
		add(m, "mailto:"+m, LinkEmail)
	}
	for _, m := range domainRe.FindAllString(text, -1) {
		if strings.Contains(m, "@") || coveredByExisting(m, links) {
			continue
		}
		u := CleanURL(m)
		add(m, u, ClassifyLinkType(u))
	}

	return links
}

// coveredByExisting reports whether the raw match is a fragment of a
// link that was already recorded (e.g. the host part of a full URL).
func coveredByExisting(match string, links []Link) bool {
	for _, l := range links {
		if strings.Contains(l.URL, match) || strings.Contains(l.Text, match) {
			return true
		}
	}
	return false
}

// CleanURL strips trailing punctuation and normalizes scheme-less
// matches to https.
func CleanURL(raw string) string {
	u := strings.TrimRight(raw, ".,;:!?)")
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if strings.HasPrefix(u, "www.") || strings.Contains(u, ".") {
		return "https://" + u
	}
	return u
}
