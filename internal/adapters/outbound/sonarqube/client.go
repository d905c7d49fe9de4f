// Package sonarqube is the HTTP client for the analysis server's issue,
// source and AI fix-suggestion endpoints.
package sonarqube

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

const (
	issuesSearchPath    = "/api/issues/search"
	sourcesRawPath      = "/api/sources/raw"
	fixIssuesPath       = "/api/v2/fix-suggestions/issues/"
	aiSuggestionsPath   = "/api/v2/fix-suggestions/ai-suggestions/"
	contentTypeJSON     = "application/json"
	headerAuthorization = "Authorization"
)

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

var (
	_ domain.IssueSearcher     = (*Client)(nil)
	_ domain.FixAvailability   = (*Client)(nil)
	_ domain.SuggestionFetcher = (*Client)(nil)
	_ domain.SourceLoader      = (*Client)(nil)
)

// Client calls the analysis server with HTTP Basic credentials.
// Zero value is not valid; use New.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// New builds a client for serverURL (e.g. http://localhost:9000).
func New(serverURL, user, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(serverURL, "/"),
		user:       user,
		password:   password,
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) authorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.user+":"+c.password))
}

// do sends one authenticated request and returns status and body.
// Transport errors are returned as-is; status handling is left to callers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set(headerAuthorization, c.authorization())
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading %s response: %w", path, err)
	}

	c.log.Debug("sonarqube request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)
	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }

func statusError(op string, status int, body []byte) error {
	return fmt.Errorf("%s: %w: HTTP %d: %s", op, ErrUnexpectedStatus, status, truncate(string(body), 200))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
