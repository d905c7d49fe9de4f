package sonartest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/sonarlint"
	"github.com/abdidvp/sonarfix/internal/domain"
)

// Submission is one fix the fake agent received.
type Submission struct {
	Query url.Values
	Edit  domain.LocalEditSuggestion
}

// Agent is a fake SonarLint IDE agent with one open project.
type Agent struct {
	*httptest.Server

	status int

	mu          sync.Mutex
	submissions []Submission
}

// NewAgent starts a fake agent that has project open and answers fix
// submissions with status.
func NewAgent(t testing.TB, project string, status int) *Agent {
	t.Helper()
	a := &Agent{status: status}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sonarlint/api/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Open projects:\n- "+project+"\n")
	})
	mux.HandleFunc("POST /sonarlint/api/fix/show", func(w http.ResponseWriter, r *http.Request) {
		var edit domain.LocalEditSuggestion
		_ = json.NewDecoder(r.Body).Decode(&edit)
		a.mu.Lock()
		a.submissions = append(a.submissions, Submission{Query: r.URL.Query(), Edit: edit})
		a.mu.Unlock()
		w.WriteHeader(a.status)
	})

	a.Server = httptest.NewServer(mux)
	t.Cleanup(a.Close)
	return a
}

// Submissions returns the fixes received so far.
func (a *Agent) Submissions() []Submission {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Submission(nil), a.submissions...)
}

// Options point a locator or client at this agent on a single virtual port.
func (a *Agent) Options() []sonarlint.Option {
	return []sonarlint.Option{
		sonarlint.WithPortRange(sonarlint.FirstPort, sonarlint.FirstPort),
		sonarlint.WithAddress(func(int) string { return a.URL }),
	}
}

// NoAgent returns options under which every probed port answers 404.
func NoAgent(t testing.TB) []sonarlint.Option {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	return []sonarlint.Option{
		sonarlint.WithPortRange(sonarlint.FirstPort, sonarlint.FirstPort+1),
		sonarlint.WithAddress(func(int) string { return srv.URL }),
	}
}
