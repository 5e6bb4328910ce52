package jira

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ppichler/issuedoc/segment"
)

// Options configure one submission run.
type Options struct {
	ProjectKey string
	IssueType  string // defaults to Task
	EpicKey    string // optional parent for every created ticket
	Status     string // target workflow status, empty for tracker default
}

// StatusDefault is reported when a ticket could not be moved to the
// requested status and stays wherever the tracker created it.
const StatusDefault = "Default"

// statusFallbacks are matched, in order, against available transition
// names when the requested status is not found.
var statusFallbacks = []string{"to do", "todo", "open", "new"}

// TicketResult is the outcome of submitting one finalized issue.
type TicketResult struct {
	Title        string
	Key          string
	URL          string
	Status       string
	Attached     int
	AttachErrors int
	Err          error
}

// Submitter creates tickets from finalized issues. A failure on one
// issue is recorded in its result and never aborts the rest of the run.
type Submitter struct {
	client *Client
	logger *slog.Logger
}

// NewSubmitter wires a Submitter around an existing client.
func NewSubmitter(client *Client, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{client: client, logger: logger}
}

// SubmitAll walks issues in order and creates one ticket each. The
// returned slice has one entry per input issue, in the same order.
func (s *Submitter) SubmitAll(ctx context.Context, issues []segment.Finalized, opts Options) []TicketResult {
	issueType := opts.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	results := make([]TicketResult, 0, len(issues))

	// Verify the project is reachable before creating anything.
	proj, err := s.client.Project(ctx, opts.ProjectKey)
	if err != nil {
		s.logger.Error("project lookup failed",
			"project", opts.ProjectKey, "error", err)
		for _, iss := range issues {
			results = append(results, TicketResult{
				Title:  iss.Title,
				Status: StatusDefault,
				Err:    fmt.Errorf("project %s: %w", opts.ProjectKey, err),
			})
		}
		return results
	}
	s.logger.Info("submitting issues",
		"project", proj.Key, "name", proj.Name, "count", len(issues))

	for _, iss := range issues {
		res := s.submitOne(ctx, iss, opts, issueType)
		if res.Err != nil {
			s.logger.Error("ticket creation failed",
				"title", iss.Title, "error", res.Err)
		} else {
			s.logger.Info("ticket created",
				"key", res.Key, "status", res.Status,
				"attached", res.Attached)
		}
		results = append(results, res)
	}
	return results
}

func (s *Submitter) submitOne(ctx context.Context, iss segment.Finalized, opts Options, issueType string) TicketResult {
	res := TicketResult{Title: iss.Title, Status: StatusDefault}

	key, err := s.client.CreateIssue(ctx, CreateRequest{
		ProjectKey:  opts.ProjectKey,
		Summary:     iss.Title,
		Description: iss.Description,
		IssueType:   issueType,
		EpicKey:     opts.EpicKey,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Key = key
	res.URL = s.client.BaseURL() + "/browse/" + key

	// Attachment failures are non-fatal: the ticket exists, only the
	// upload is reported.
	for _, img := range iss.Images {
		data := img.Data
		if len(data) == 0 && img.Path != "" {
			data, err = os.ReadFile(img.Path)
			if err != nil {
				s.logger.Warn("attachment skipped",
					"key", key, "file", img.Filename, "error", err)
				res.AttachErrors++
				continue
			}
		}
		if len(data) == 0 {
			res.AttachErrors++
			continue
		}
		if err := s.client.AddAttachment(ctx, key, img.Filename, data); err != nil {
			s.logger.Warn("attachment upload failed",
				"key", key, "file", img.Filename, "error", err)
			res.AttachErrors++
			continue
		}
		res.Attached++
	}

	res.Status = s.moveToStatus(ctx, key, opts.Status)
	return res
}

// moveToStatus tries the requested status first and falls back to a
// common backlog-ish transition name. The tracker's default status is
// kept when nothing matches.
func (s *Submitter) moveToStatus(ctx context.Context, key, want string) string {
	transitions, err := s.client.Transitions(ctx, key)
	if err != nil {
		s.logger.Warn("listing transitions failed", "key", key, "error", err)
		return StatusDefault
	}

	pick := func(match func(name string) bool) *Transition {
		for i := range transitions {
			if match(strings.ToLower(transitions[i].Name)) {
				return &transitions[i]
			}
		}
		return nil
	}

	var tr *Transition
	if want != "" {
		lw := strings.ToLower(want)
		tr = pick(func(name string) bool { return name == lw })
	}
	if tr == nil {
		for _, fb := range statusFallbacks {
			if tr = pick(func(name string) bool { return strings.Contains(name, fb) }); tr != nil {
				break
			}
		}
	}
	if tr == nil {
		return StatusDefault
	}
	if err := s.client.TransitionIssue(ctx, key, tr.ID); err != nil {
		s.logger.Warn("transition failed",
			"key", key, "transition", tr.Name, "error", err)
		return StatusDefault
	}
	return tr.Name
}
