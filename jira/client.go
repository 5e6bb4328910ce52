// Package jira is the issue-tracker sink: a minimal REST v2 client for
// ticket creation, attachment upload and status transitions, plus the
// submitter that walks finalized issues with per-item failure isolation.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to one Jira instance using basic auth (email + API
// token).
type Client struct {
	baseURL  string
	email    string
	apiToken string
	httpc    *http.Client
}

// NewClient creates a Client. The server URL is normalized: trailing
// slashes are stripped and a missing scheme is an error surfaced on the
// first request.
func NewClient(serverURL, email, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(serverURL, "/"),
		email:    email,
		apiToken: apiToken,
		httpc: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// BaseURL returns the normalized server URL, for building browse links.
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx response from the tracker.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: API error %d: %s", e.StatusCode, e.Body)
}

// ServerInfo identifies the connected Jira instance.
type ServerInfo struct {
	ServerTitle string `json:"serverTitle"`
	Version     string `json:"version"`
	BaseURL     string `json:"baseUrl"`
}

// ServerInfo fetches server metadata, used as a connectivity preflight.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.get(ctx, "/rest/api/2/serverInfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Project is the subset of project metadata the pipeline needs.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Project fetches a project by key, verifying access before any tickets
// are created.
func (c *Client) Project(ctx context.Context, key string) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/rest/api/2/project/"+key, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateRequest describes one ticket to create.
type CreateRequest struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string // Task, Story, Bug, Epic
	EpicKey     string // optional parent link, ignored for Epics
}

type issueFields struct {
	Project     keyRef  `json:"project"`
	Summary     string  `json:"summary"`
	Description string  `json:"description"`
	IssueType   nameRef `json:"issuetype"`
	Parent      *keyRef `json:"parent,omitempty"`
}

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

// CreateIssue creates one ticket and returns its key.
func (c *Client) CreateIssue(ctx context.Context, req CreateRequest) (string, error) {
	fields := issueFields{
		Project:     keyRef{Key: req.ProjectKey},
		Summary:     req.Summary,
		Description: req.Description,
		IssueType:   nameRef{Name: req.IssueType},
	}
	if req.EpicKey != "" && !strings.EqualFold(req.IssueType, "epic") {
		fields.Parent = &keyRef{Key: req.EpicKey}
	}

	var created struct {
		Key string `json:"key"`
	}
	body := map[string]issueFields{"fields": fields}
	if err := c.post(ctx, "/rest/api/2/issue", body, &created); err != nil {
		return "", err
	}
	return created.Key, nil
}

// AddAttachment uploads one file to an existing ticket.
func (c *Client) AddAttachment(ctx context.Context, issueKey, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	url := c.baseURL + "/rest/api/2/issue/" + issueKey + "/attachments"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// Required by Jira to bypass XSRF protection on attachment upload.
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("jira: attachment upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return nil
}

// Transition is one workflow move available for a ticket.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transitions lists the workflow moves currently available for a ticket.
func (c *Client) Transitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var out struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.get(ctx, "/rest/api/2/issue/"+issueKey+"/transitions", &out); err != nil {
		return nil, err
	}
	return out.Transitions, nil
}

// TransitionIssue applies a workflow transition by ID.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID string) error {
	body := map[string]map[string]string{
		"transition": {"id": transitionID},
	}
	return c.post(ctx, "/rest/api/2/issue/"+issueKey+"/transitions", body, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("jira: request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("jira: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("jira: decoding response: %w", err)
	}
	return nil
}
