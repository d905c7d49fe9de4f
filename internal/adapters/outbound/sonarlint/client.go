package sonarlint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// ErrRejected is returned when the agent answers a submission with a non-2xx status.
var ErrRejected = errors.New("agent rejected fix")

var _ domain.AgentSubmitter = (*Client)(nil)

// Client submits translated fixes to the agent.
type Client struct {
	opts options
}

func NewClient(opts ...Option) *Client {
	return &Client{opts: newOptions(opts)}
}

// Submit posts the edit to the agent's fix display endpoint.
func (c *Client) Submit(ctx context.Context, port int, sub domain.AgentSubmission) (*domain.AgentResponse, error) {
	payload, err := json.Marshal(sub.Edit)
	if err != nil {
		return nil, fmt.Errorf("encoding edit for %s: %w", sub.IssueID, err)
	}

	params := url.Values{}
	params.Set("server", sub.ServerURL)
	params.Set("project", sub.Project)
	params.Set("issue", sub.IssueID)
	params.Set("branch", agentBranch)
	u := c.opts.address(port) + fixShowPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building fix request for %s: %w", sub.IssueID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", sub.ServerURL)
	req.Header.Set("Referer", sub.ServerURL)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting fix for %s: %w", sub.IssueID, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	out := &domain.AgentResponse{StatusCode: resp.StatusCode, Body: string(body)}

	c.opts.log.Debug("agent response",
		zap.String("issue", sub.IssueID),
		zap.Int("port", port),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("submitting fix for %s: %w: HTTP %d", sub.IssueID, ErrRejected, resp.StatusCode)
	}
	return out, nil
}
