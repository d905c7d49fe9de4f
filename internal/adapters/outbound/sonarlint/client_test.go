package sonarlint_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/sonarlint"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmission() domain.AgentSubmission {
	return domain.AgentSubmission{
		ServerURL: "http://localhost:9000",
		Project:   "myproject",
		IssueID:   "AYx-1",
		Edit: domain.LocalEditSuggestion{
			Explanation:  "why",
			SuggestionID: "s1",
			FileEdit: domain.FileEdit{
				Path: "src/A.java",
				Changes: []domain.EditChange{
					{Before: "b\nc", After: "X", BeforeLineRange: domain.LineRange{StartLine: 2, EndLine: 3}},
				},
			},
		},
	}
}

func TestSubmit_PostsEditWithQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sonarlint/api/fix/show", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "http://localhost:9000", q.Get("server"))
		assert.Equal(t, "myproject", q.Get("project"))
		assert.Equal(t, "AYx-1", q.Get("issue"))
		assert.Equal(t, "master", q.Get("branch"))
		assert.Contains(t, r.URL.RawQuery, "server=http%3A%2F%2Flocalhost%3A9000")

		var edit domain.LocalEditSuggestion
		require.NoError(t, json.NewDecoder(r.Body).Decode(&edit))
		assert.Equal(t, sampleSubmission().Edit, edit)

		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := sonarlint.NewClient(sonarlint.WithAddress(func(int) string { return srv.URL }))
	resp, err := c.Submit(t.Context(), 64120, sampleSubmission())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)
}

func TestSubmit_UsesPort(t *testing.T) {
	var gotPort int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := sonarlint.NewClient(sonarlint.WithAddress(func(p int) string { gotPort = p; return srv.URL }))
	_, err := c.Submit(t.Context(), 64127, sampleSubmission())
	require.NoError(t, err)
	assert.Equal(t, 64127, gotPort)
}

func TestSubmit_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, "untrusted origin")
	}))
	defer srv.Close()

	c := sonarlint.NewClient(sonarlint.WithAddress(func(int) string { return srv.URL }))
	resp, err := c.Submit(t.Context(), 64120, sampleSubmission())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sonarlint.ErrRejected))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSubmit_AgentGone(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := sonarlint.NewClient(sonarlint.WithAddress(func(int) string { return srv.URL }))
	resp, err := c.Submit(t.Context(), 64120, sampleSubmission())
	assert.Error(t, err)
	assert.Nil(t, resp)
}
