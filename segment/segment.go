// Package segment partitions a classified content-block stream into
// issues. A single forward pass drives a small state machine: boundary
// blocks close the open issue, heading and boilerplate blocks are
// absorbed as context, and images, links and tables are attached to the
// issue open at the moment they appear.
package segment

import (
	"log/slog"
	"strings"

	"github.com/ppichler/issuedoc/categorize"
	"github.com/ppichler/issuedoc/content"
)

// Config carries the segmentation policy. The keyword and boilerplate
// lists are heuristics tuned on observed documents, kept configurable
// rather than hardcoded.
type Config struct {
	// MinContentLen is the length below which a block is absorbed as
	// context instead of considered for a new issue.
	MinContentLen int `json:"min_content_len" yaml:"min_content_len"`

	// NewIssueKeywords are action phrases that mark the start of a new
	// issue in long plain-text blocks.
	NewIssueKeywords []string `json:"new_issue_keywords" yaml:"new_issue_keywords"`

	// Boilerplate denylist: exact phrases, suffixes and prefixes that
	// are absorbed as context regardless of length.
	BoilerplateExact    []string `json:"boilerplate_exact" yaml:"boilerplate_exact"`
	BoilerplateSuffixes []string `json:"boilerplate_suffixes" yaml:"boilerplate_suffixes"`
	BoilerplatePrefixes []string `json:"boilerplate_prefixes" yaml:"boilerplate_prefixes"`

	// OpenPartsLimit is the number of description parts an open issue
	// must exceed before an action-keyword block may split it. Below
	// the limit the block joins the open issue, so a single narrative
	// issue is not fragmented.
	OpenPartsLimit int `json:"open_parts_limit" yaml:"open_parts_limit"`

	// SubstantialListLen is the minimum list-item length that starts a
	// new issue.
	SubstantialListLen int `json:"substantial_list_len" yaml:"substantial_list_len"`

	// MinKeywordLen is the minimum block length for the action-keyword
	// rule to apply.
	MinKeywordLen int `json:"min_keyword_len" yaml:"min_keyword_len"`

	// TitleMaxLen is the number of characters of the opening block used
	// as the issue title.
	TitleMaxLen int `json:"title_max_len" yaml:"title_max_len"`
}

// DefaultConfig returns the policy observed to work on real change-log
// documents.
func DefaultConfig() Config {
	return Config{
		MinContentLen: 15,
		NewIssueKeywords: []string{
			"fix the", "resolve the", "update the", "correct the", "improve the",
			"implement", "display", "optimal", "space", "cut off", "jump",
		},
		BoilerplateExact: []string{
			"Austria | Homecare", "Patient:innen | Homecare", "Fachkräfte | Homecare",
		},
		BoilerplateSuffixes: []string{"| Homecare"},
		BoilerplatePrefixes: []string{"Patient:", "Fachkräfte"},
		OpenPartsLimit:      4,
		SubstantialListLen:  20,
		MinKeywordLen:       30,
		TitleMaxLen:         100,
	}
}

// Issue accumulates content while it is the open segmentation target.
// It is mutable only until the engine closes it.
type Issue struct {
	Title      string
	Parts      []string
	Images     []content.Image
	Links      []content.Link
	Tables     []content.Table
	BlockIdx   []int
	Categories categorize.Buckets
}

// Engine is the segmentation state machine.
type Engine struct {
	cfg Config
}

// New returns an Engine. Zero-value config fields fall back to the
// defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinContentLen == 0 {
		cfg.MinContentLen = def.MinContentLen
	}
	if cfg.NewIssueKeywords == nil {
		cfg.NewIssueKeywords = def.NewIssueKeywords
	}
	if cfg.BoilerplateExact == nil {
		cfg.BoilerplateExact = def.BoilerplateExact
	}
	if cfg.BoilerplateSuffixes == nil {
		cfg.BoilerplateSuffixes = def.BoilerplateSuffixes
	}
	if cfg.BoilerplatePrefixes == nil {
		cfg.BoilerplatePrefixes = def.BoilerplatePrefixes
	}
	if cfg.OpenPartsLimit == 0 {
		cfg.OpenPartsLimit = def.OpenPartsLimit
	}
	if cfg.SubstantialListLen == 0 {
		cfg.SubstantialListLen = def.SubstantialListLen
	}
	if cfg.MinKeywordLen == 0 {
		cfg.MinKeywordLen = def.MinKeywordLen
	}
	if cfg.TitleMaxLen == 0 {
		cfg.TitleMaxLen = def.TitleMaxLen
	}
	return &Engine{cfg: cfg}
}

// Split consumes the classified block stream in order and partitions it
// into issues. Categories come from the per-index assignment; images are
// resolved against the document's registry by 1-based ordinal. A
// document with no qualifying content yields zero issues.
func (e *Engine) Split(doc *content.Document, cats categorize.Assignment) []*Issue {
	var issues []*Issue
	var current *Issue

	flush := func() {
		if current != nil {
			issues = append(issues, current)
			current = nil
		}
	}

	for i, block := range doc.Blocks {
		text := strings.TrimSpace(block.Text)

		if block.Kind == content.KindEmpty {
			continue
		}
		if block.Kind != content.KindTable && text == "" {
			continue
		}

		// Headings and titles never open or close issues; they carry
		// over as context for the issue in flight.
		switch block.Kind {
		case content.KindHeading, content.KindTitle, content.KindSectionHeader:
			if current != nil {
				current.Parts = append(current.Parts, text)
				current.BlockIdx = append(current.BlockIdx, i)
			}
			continue
		case content.KindSeparator:
			flush()
			continue
		}

		// Short and boilerplate blocks are absorbed as context. Their
		// artifacts stay unlinked; unclaimed images are handed out by
		// the distributor afterwards.
		if len(text) < e.cfg.MinContentLen || e.isBoilerplate(text) {
			if current != nil && text != "" {
				current.Parts = append(current.Parts, text)
				current.BlockIdx = append(current.BlockIdx, i)
			}
			continue
		}

		if e.startsNewIssue(block, text, current) || current == nil {
			flush()
			current = &Issue{
				Title:      truncateTitle(text, e.cfg.TitleMaxLen),
				Parts:      []string{text},
				BlockIdx:   []int{i},
				Categories: cats.Of(i),
			}
		} else {
			current.Parts = append(current.Parts, text)
			current.BlockIdx = append(current.BlockIdx, i)
		}

		// Attach artifacts carried by this block to the open issue.
		if block.HasImage && block.ImageRef > 0 && current != nil {
			if block.ImageRef <= len(doc.Images) {
				img := doc.Images[block.ImageRef-1]
				current.Images = append(current.Images, img)
				slog.Debug("segment: linked image", "filename", img.Filename, "issue", current.Title)
			} else {
				slog.Debug("segment: image ordinal out of range",
					"ref", block.ImageRef, "registry_size", len(doc.Images))
			}
		}
		if len(block.Links) > 0 && current != nil {
			current.Links = append(current.Links, block.Links...)
		}
		if block.Table != nil && current != nil {
			current.Tables = append(current.Tables, *block.Table)
		}
	}

	flush()
	return issues
}

// startsNewIssue decides the boundary for a substantial content block.
// Numbered list items always split; substantial list items split; plain
// text splits only when it carries an action keyword and the open issue
// is either absent or already long, so ambiguous text favors not
// splitting.
func (e *Engine) startsNewIssue(block content.Block, text string, current *Issue) bool {
	if block.Kind == content.KindNumberedList {
		return true
	}
	if block.Kind == content.KindListItem && len(text) > e.cfg.SubstantialListLen {
		return true
	}
	if len(text) > e.cfg.MinKeywordLen &&
		!content.StartsWithBullet(text) &&
		containsKeyword(strings.ToLower(text), e.cfg.NewIssueKeywords) &&
		(current == nil || len(current.Parts) > e.cfg.OpenPartsLimit) {
		return true
	}
	return false
}

func (e *Engine) isBoilerplate(text string) bool {
	for _, exact := range e.cfg.BoilerplateExact {
		if text == exact {
			return true
		}
	}
	for _, suffix := range e.cfg.BoilerplateSuffixes {
		if strings.HasSuffix(text, suffix) {
			return true
		}
	}
	for _, prefix := range e.cfg.BoilerplatePrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func containsKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truncateTitle cuts text to max runes, marking the cut.
func truncateTitle(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
