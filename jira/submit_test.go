package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppichler/issuedoc/content"
	"github.com/ppichler/issuedoc/segment"
)

// trackerStub fakes the subset of the Jira REST API the submitter uses.
type trackerStub struct {
	t           *testing.T
	created     []CreateRequest
	attachments map[string][]string // issue key -> filenames
	transitions []Transition
	transited   map[string]string // issue key -> transition id
	failSummary string            // creating an issue with this summary returns 400
	failProject bool              // project lookup returns 404
}

func newTrackerStub(t *testing.T) *trackerStub {
	return &trackerStub{
		t:           t,
		attachments: make(map[string][]string),
		transited:   make(map[string]string),
		transitions: []Transition{{ID: "11", Name: "To Do"}, {ID: "31", Name: "Done"}},
	}
}

func (s *trackerStub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /rest/api/2/project/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if s.failProject {
			http.Error(w, `{"errorMessages":["no such project"]}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Project{ID: "10001", Key: key, Name: "Website"})
	})

	mux.HandleFunc("POST /rest/api/2/issue", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields struct {
				Project   keyRef  `json:"project"`
				Summary   string  `json:"summary"`
				IssueType nameRef `json:"issuetype"`
				Parent    *keyRef `json:"parent"`
			} `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.t.Fatalf("decoding create request: %v", err)
		}
		if s.failSummary != "" && body.Fields.Summary == s.failSummary {
			http.Error(w, `{"errorMessages":["summary rejected"]}`, http.StatusBadRequest)
			return
		}
		s.created = append(s.created, CreateRequest{
			ProjectKey: body.Fields.Project.Key,
			Summary:    body.Fields.Summary,
			IssueType:  body.Fields.IssueType.Name,
		})
		json.NewEncoder(w).Encode(map[string]string{
			"key": fmt.Sprintf("WEB-%d", len(s.created)),
		})
	})

	mux.HandleFunc("POST /rest/api/2/issue/{key}/attachments", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Atlassian-Token"); got != "no-check" {
			s.t.Errorf("X-Atlassian-Token = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			s.t.Fatalf("parsing multipart: %v", err)
		}
		key := r.PathValue("key")
		for _, fh := range r.MultipartForm.File["file"] {
			s.attachments[key] = append(s.attachments[key], fh.Filename)
		}
		w.Write([]byte("[]"))
	})

	mux.HandleFunc("GET /rest/api/2/issue/{key}/transitions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"transitions": s.transitions})
	})

	mux.HandleFunc("POST /rest/api/2/issue/{key}/transitions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Transition struct {
				ID string `json:"id"`
			} `json:"transition"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.transited[r.PathValue("key")] = body.Transition.ID
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func testIssues() []segment.Finalized {
	return []segment.Finalized{
		{Title: "Fix the carousel", Description: "arrows are missing"},
		{Title: "Update opening hours", Description: "contact page",
			Images: []content.Image{{Filename: "image_1.png", Data: []byte("png-bytes")}}},
	}
}

func TestSubmitAll(t *testing.T) {
	stub := newTrackerStub(t)
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	sub := NewSubmitter(NewClient(srv.URL, "a@b.c", "token"), nil)
	results := sub.SubmitAll(context.Background(), testIssues(), Options{ProjectKey: "WEB"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("result %d: %v", i, r.Err)
		}
	}
	if results[0].Key != "WEB-1" || results[1].Key != "WEB-2" {
		t.Errorf("keys = %q, %q", results[0].Key, results[1].Key)
	}
	if !strings.HasSuffix(results[0].URL, "/browse/WEB-1") {
		t.Errorf("URL = %q", results[0].URL)
	}
	if got := stub.created[0].IssueType; got != "Task" {
		t.Errorf("issue type = %q, want Task default", got)
	}

	// Second issue carries one attachment.
	if results[1].Attached != 1 {
		t.Errorf("Attached = %d, want 1", results[1].Attached)
	}
	if files := stub.attachments["WEB-2"]; len(files) != 1 || files[0] != "image_1.png" {
		t.Errorf("attachments = %v", files)
	}

	// Both tickets moved via the to-do fallback.
	for _, key := range []string{"WEB-1", "WEB-2"} {
		if stub.transited[key] != "11" {
			t.Errorf("transition for %s = %q, want 11", key, stub.transited[key])
		}
	}
	if results[0].Status != "To Do" {
		t.Errorf("Status = %q, want To Do", results[0].Status)
	}
}

// A creation failure on one issue is isolated: the next issue is still
// submitted.
func TestSubmitAllPerItemIsolation(t *testing.T) {
	stub := newTrackerStub(t)
	stub.failSummary = "Fix the carousel"
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	sub := NewSubmitter(NewClient(srv.URL, "a@b.c", "token"), nil)
	results := sub.SubmitAll(context.Background(), testIssues(), Options{ProjectKey: "WEB"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("first result should carry the creation error")
	}
	if results[0].Status != StatusDefault {
		t.Errorf("failed result status = %q, want %q", results[0].Status, StatusDefault)
	}
	if results[1].Err != nil {
		t.Errorf("second result failed: %v", results[1].Err)
	}
	if len(stub.created) != 1 {
		t.Errorf("created %d tickets, want 1", len(stub.created))
	}
}

// An unreachable project fails the whole batch up front, without
// creating any tickets.
func TestSubmitAllProjectPreflight(t *testing.T) {
	stub := newTrackerStub(t)
	stub.failProject = true
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	sub := NewSubmitter(NewClient(srv.URL, "a@b.c", "token"), nil)
	results := sub.SubmitAll(context.Background(), testIssues(), Options{ProjectKey: "NOPE"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Err == nil {
			t.Errorf("result %d: expected project error", i)
		}
	}
	if len(stub.created) != 0 {
		t.Errorf("created %d tickets, want 0", len(stub.created))
	}
}

func TestSubmitAllRequestedStatus(t *testing.T) {
	stub := newTrackerStub(t)
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	sub := NewSubmitter(NewClient(srv.URL, "a@b.c", "token"), nil)
	results := sub.SubmitAll(context.Background(), testIssues()[:1], Options{
		ProjectKey: "WEB",
		Status:     "Done",
	})

	if results[0].Status != "Done" {
		t.Errorf("Status = %q, want Done", results[0].Status)
	}
	if stub.transited["WEB-1"] != "31" {
		t.Errorf("transition id = %q, want 31", stub.transited["WEB-1"])
	}
}

// With no matching transition at all, the ticket stays in the tracker's
// default status and that is reported, not an error.
func TestSubmitAllNoTransitionMatch(t *testing.T) {
	stub := newTrackerStub(t)
	stub.transitions = []Transition{{ID: "41", Name: "In Review"}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	sub := NewSubmitter(NewClient(srv.URL, "a@b.c", "token"), nil)
	results := sub.SubmitAll(context.Background(), testIssues()[:1], Options{ProjectKey: "WEB"})

	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if results[0].Status != StatusDefault {
		t.Errorf("Status = %q, want %q", results[0].Status, StatusDefault)
	}
	if len(stub.transited) != 0 {
		t.Errorf("unexpected transitions: %v", stub.transited)
	}
}

func TestClientServerInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/serverInfo" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "a@b.c" || pass != "token" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		json.NewEncoder(w).Encode(ServerInfo{ServerTitle: "Test Jira", Version: "9.0"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "a@b.c", "token")
	info, err := c.ServerInfo(context.Background())
	if err != nil {
		t.Fatalf("ServerInfo: %v", err)
	}
	if info.ServerTitle != "Test Jira" {
		t.Errorf("ServerTitle = %q", info.ServerTitle)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "a@b.c", "bad")
	_, err := c.Project(context.Background(), "WEB")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}
