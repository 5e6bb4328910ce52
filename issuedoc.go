// Package issuedoc turns Word documents describing website feedback
// into finalized issue records and, optionally, tracker tickets. The
// pipeline is deterministic: extraction, block classification, context
// building, segmentation and categorization never consult a model; the
// LLM only proposes advisory priority/complexity/category insights.
package issuedoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppichler/issuedoc/categorize"
	"github.com/ppichler/issuedoc/content"
	"github.com/ppichler/issuedoc/docx"
	"github.com/ppichler/issuedoc/jira"
	"github.com/ppichler/issuedoc/llm"
	"github.com/ppichler/issuedoc/segment"
	"github.com/ppichler/issuedoc/store"
)

// Insight status values reported on an Analysis.
const (
	InsightOK          = "ok"
	InsightParseError  = "parse_error"
	InsightUnavailable = "unavailable"
	InsightDisabled    = "disabled"
)

// Engine is the main entry point for the document-to-ticket pipeline.
type Engine interface {
	// Analyze extracts, segments and categorizes one Word document.
	Analyze(ctx context.Context, path string, opts ...AnalyzeOption) (*Analysis, error)

	// Submit creates one tracker ticket per issue in the analysis.
	// A failure on one issue never aborts the rest.
	Submit(ctx context.Context, a *Analysis, opts ...SubmitOption) ([]jira.TicketResult, error)

	// ListRuns returns the most recent analysis runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)

	// Store returns the underlying run-log store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// Analysis is the result of analyzing one document.
type Analysis struct {
	RunID         int64               `json:"run_id,omitempty"`
	Path          string              `json:"path"`
	Filename      string              `json:"filename"`
	ContentHash   string              `json:"content_hash"`
	Document      *content.Document   `json:"-"`
	Issues        []segment.Finalized `json:"issues"`
	InsightStatus string              `json:"insight_status"`
}

// AnalyzeOption configures analysis behavior.
type AnalyzeOption func(*analyzeOptions)

type analyzeOptions struct {
	skipInsights bool
	imageDir     string
}

// WithoutInsights disables the LLM insight pass for this analysis even
// when a provider is configured.
func WithoutInsights() AnalyzeOption {
	return func(o *analyzeOptions) { o.skipInsights = true }
}

// WithImageDir writes extracted images to dir, overriding the
// configured image directory for this analysis.
func WithImageDir(dir string) AnalyzeOption {
	return func(o *analyzeOptions) { o.imageDir = dir }
}

// SubmitOption overrides tracker settings for one submission.
type SubmitOption func(*jira.Options)

// WithProject overrides the target project key.
func WithProject(key string) SubmitOption {
	return func(o *jira.Options) { o.ProjectKey = key }
}

// WithIssueType overrides the ticket issue type.
func WithIssueType(name string) SubmitOption {
	return func(o *jira.Options) { o.IssueType = name }
}

// WithEpic links every created ticket under the given epic.
func WithEpic(key string) SubmitOption {
	return func(o *jira.Options) { o.EpicKey = key }
}

// WithStatus sets the target workflow status for created tickets.
func WithStatus(name string) SubmitOption {
	return func(o *jira.Options) { o.Status = name }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg       Config
	store     *store.Store
	segmenter *segment.Engine
	proposer  *llm.Proposer
	submitter *jira.Submitter
}

// New creates an engine with the given configuration.
func New(cfg Config) (Engine, error) {
	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var proposer *llm.Proposer
	if cfg.Insights.Provider != "" {
		provider, err := llm.NewProvider(llm.Config{
			Provider: cfg.Insights.Provider,
			Model:    cfg.Insights.Model,
			BaseURL:  cfg.Insights.BaseURL,
			APIKey:   cfg.Insights.APIKey,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating insight provider: %w", err)
		}
		proposer = llm.NewProposer(provider, cfg.Insights.Model)
	}

	var submitter *jira.Submitter
	if cfg.Tracker.ServerURL != "" {
		if cfg.Tracker.ProjectKey == "" {
			s.Close()
			return nil, fmt.Errorf("%w: tracker server set but project key missing", ErrInvalidConfig)
		}
		client := jira.NewClient(cfg.Tracker.ServerURL, cfg.Tracker.Email, cfg.Tracker.APIToken)
		submitter = jira.NewSubmitter(client, slog.Default())
	}

	return &engine{
		cfg:       cfg,
		store:     s,
		segmenter: segment.New(cfg.Segmentation),
		proposer:  proposer,
		submitter: submitter,
	}, nil
}

func (e *engine) Analyze(ctx context.Context, path string, opts ...AnalyzeOption) (*Analysis, error) {
	options := &analyzeOptions{imageDir: e.cfg.ImageDir}
	for _, o := range opts {
		o(options)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(absPath), ".docx") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(absPath))
	}

	hash, err := fileHash(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	filename := filepath.Base(absPath)
	slog.Info("analyze: extracting document", "file", filename)
	extractStart := time.Now()

	doc, err := docx.Extract(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, filename)
	}

	slog.Info("analyze: extraction complete",
		"file", filename, "blocks", len(doc.Blocks),
		"images", len(doc.Images), "links", len(doc.Links), "tables", len(doc.Tables),
		"elapsed", time.Since(extractStart).Round(time.Millisecond))

	if options.imageDir != "" {
		if err := docx.SaveImages(doc, options.imageDir); err != nil {
			slog.Warn("saving images failed (non-fatal)", "file", filename, "error", err)
		}
	}

	dc := content.BuildContext(doc.Blocks)
	cats := categorize.Assign(doc.Blocks, dc)
	issues := e.segmenter.Split(doc, cats)
	if len(issues) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIssues, filename)
	}

	insights, status := e.proposeInsights(ctx, doc, options.skipInsights)

	finalized := make([]segment.Finalized, 0, len(issues))
	for _, iss := range issues {
		finalized = append(finalized, segment.Finalize(iss, insights))
	}
	segment.DistributeUnlinked(doc.Images, finalized)

	slog.Info("analyze: segmentation complete",
		"file", filename, "issues", len(finalized), "insight_status", status)

	a := &Analysis{
		Path:          absPath,
		Filename:      filename,
		ContentHash:   hash,
		Document:      doc,
		Issues:        finalized,
		InsightStatus: status,
	}

	// The run log is bookkeeping: a write failure is reported but does
	// not invalidate a completed analysis.
	runID, err := e.store.RecordRun(ctx, store.Run{
		Path:          absPath,
		Filename:      filename,
		ContentHash:   hash,
		BlockCount:    len(doc.Blocks),
		IssueCount:    len(finalized),
		ImageCount:    len(doc.Images),
		LinkCount:     len(doc.Links),
		TableCount:    len(doc.Tables),
		InsightStatus: status,
	})
	if err != nil {
		slog.Warn("recording run failed (non-fatal)", "file", filename, "error", err)
	} else {
		a.RunID = runID
	}

	return a, nil
}

// proposeInsights runs the optional LLM pass over the full document
// text. Any failure degrades to an insight-free analysis; the issue
// records themselves are never affected.
func (e *engine) proposeInsights(ctx context.Context, doc *content.Document, skip bool) ([]llm.Insight, string) {
	if e.proposer == nil || skip {
		return nil, InsightDisabled
	}

	var sb strings.Builder
	for _, b := range doc.Blocks {
		if b.Text == "" {
			continue
		}
		sb.WriteString(b.Text)
		sb.WriteString("\n")
	}

	insights, err := e.proposer.Propose(ctx, sb.String())
	switch {
	case err == nil:
		return insights, InsightOK
	case errors.Is(err, llm.ErrInsightParse):
		slog.Warn("insight response unparseable, continuing without", "error", err)
		return nil, InsightParseError
	default:
		slog.Warn("insight provider unavailable, continuing without", "error", err)
		return nil, InsightUnavailable
	}
}

func (e *engine) Submit(ctx context.Context, a *Analysis, opts ...SubmitOption) ([]jira.TicketResult, error) {
	if e.submitter == nil {
		return nil, ErrTrackerNotConfigured
	}
	if a == nil || len(a.Issues) == 0 {
		return nil, ErrNoIssues
	}

	options := jira.Options{
		ProjectKey: e.cfg.Tracker.ProjectKey,
		IssueType:  e.cfg.Tracker.IssueType,
		EpicKey:    e.cfg.Tracker.EpicKey,
		Status:     e.cfg.Tracker.Status,
	}
	for _, o := range opts {
		o(&options)
	}

	results := e.submitter.SubmitAll(ctx, a.Issues, options)

	if a.RunID != 0 {
		tickets := make([]store.Ticket, 0, len(results))
		for _, r := range results {
			t := store.Ticket{
				RunID:        a.RunID,
				IssueTitle:   r.Title,
				TicketKey:    r.Key,
				Status:       r.Status,
				Attached:     r.Attached,
				AttachErrors: r.AttachErrors,
			}
			if r.Err != nil {
				t.Error = r.Err.Error()
			}
			tickets = append(tickets, t)
		}
		if err := e.store.RecordTickets(ctx, a.RunID, tickets); err != nil {
			slog.Warn("recording tickets failed (non-fatal)", "run_id", a.RunID, "error", err)
		}
	}

	return results, nil
}

func (e *engine) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	return e.store.ListRuns(ctx, limit)
}

func (e *engine) Store() *store.Store {
	return e.store
}

func (e *engine) Close() error {
	return e.store.Close()
}

// fileHash computes the SHA-256 of a file's content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
