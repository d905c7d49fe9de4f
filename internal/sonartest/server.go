// Package sonartest provides in-process fakes of the SonarQube server and the
// SonarLint IDE agent for tests.
package sonartest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// Fixture is one issue known to the fake server. A nil Fix means the server
// reports no AI fix for the issue.
type Fixture struct {
	Issue  domain.Issue
	Fix    *domain.FixSuggestion
	Source string
}

// Server is a fake SonarQube server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures []Fixture
	searches int
}

// NewServer starts a fake server holding fixtures. It is closed when the test ends.
func NewServer(t testing.TB, fixtures ...Fixture) *Server {
	t.Helper()
	s := &Server{fixtures: fixtures}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/issues/search", s.search)
	mux.HandleFunc("GET /api/v2/fix-suggestions/issues/{key}", s.availability)
	mux.HandleFunc("POST /api/v2/fix-suggestions/ai-suggestions/", s.suggestion)
	mux.HandleFunc("GET /api/sources/raw", s.source)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Searches reports how many issue search requests were served.
func (s *Server) Searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.searches++
	s.mu.Unlock()

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("p"))
	size, _ := strconv.Atoi(q.Get("ps"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 100
	}

	var matched []domain.Issue
	for _, f := range s.fixtures {
		if f.Issue.Project != q.Get("projects") {
			continue
		}
		if sev := q.Get("severities"); sev != "" && f.Issue.Severity != sev {
			continue
		}
		matched = append(matched, f.Issue)
	}

	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	var resp struct {
		Paging struct {
			PageIndex int `json:"pageIndex"`
			PageSize  int `json:"pageSize"`
			Total     int `json:"total"`
		} `json:"paging"`
		Issues []domain.Issue `json:"issues"`
	}
	resp.Paging.PageIndex = page
	resp.Paging.PageSize = size
	resp.Paging.Total = len(matched)
	resp.Issues = append([]domain.Issue{}, matched[start:end]...)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	f, ok := s.byKey(r.PathValue("key"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "issue not found"})
		return
	}
	state := "NOT_AVAILABLE"
	if f.Fix != nil {
		state = "AVAILABLE"
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": f.Issue.Key, "aiSuggestion": state})
}

func (s *Server) suggestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IssueID string `json:"issueId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed request"})
		return
	}
	f, ok := s.byKey(req.IssueID)
	if !ok || f.Fix == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no AI suggestion for " + req.IssueID})
		return
	}
	writeJSON(w, http.StatusOK, f.Fix)
}

func (s *Server) source(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	for _, f := range s.fixtures {
		if f.Issue.Component == key {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(f.Source))
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) byKey(key string) (Fixture, bool) {
	for _, f := range s.fixtures {
		if f.Issue.Key == key {
			return f, true
		}
	}
	return Fixture{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SimpleFixture builds a fixable issue whose fix replaces line 2 of a
// three-line file.
func SimpleFixture(project, key, severity, path string) Fixture {
	component := project + ":" + path
	return Fixture{
		Issue: domain.Issue{
			Key:       key,
			Project:   project,
			Severity:  severity,
			Rule:      "java:S1481",
			Component: component,
			Message:   "Remove this unused local variable",
			Line:      2,
		},
		Fix: &domain.FixSuggestion{
			ID:          "sugg-" + strings.ToLower(key),
			IssueID:     key,
			Explanation: "Removed the unused variable",
			Changes:     []domain.FixChange{{StartLine: 2, EndLine: 2, NewCode: ""}},
		},
		Source: "class A {\n  int unused = 0;\n}\n",
	}
}
