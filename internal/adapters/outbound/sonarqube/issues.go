package sonarqube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/abdidvp/sonarfix/internal/domain"
)

const aiAvailable = "AVAILABLE"

type searchResponse struct {
	Total  int `json:"total"`
	Paging struct {
		PageIndex int `json:"pageIndex"`
		PageSize  int `json:"pageSize"`
		Total     int `json:"total"`
	} `json:"paging"`
	Issues []domain.Issue `json:"issues"`
}

// SearchIssues fetches one page of issues for a project. Severity is sent
// only when set.
func (c *Client) SearchIssues(ctx context.Context, q domain.IssueQuery) (*domain.IssuePage, error) {
	params := url.Values{}
	params.Set("projects", q.Project)
	if q.Severity != "" {
		params.Set("severities", q.Severity)
	}
	params.Set("p", strconv.Itoa(q.Page))
	params.Set("ps", strconv.Itoa(q.PageSize))

	status, body, err := c.do(ctx, http.MethodGet, issuesSearchPath, params, nil)
	if err != nil {
		return nil, fmt.Errorf("issue search: %w", err)
	}
	if !isSuccess(status) {
		return nil, statusError("issue search", status, body)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("issue search: parse response: %w", err)
	}

	total := resp.Paging.Total
	if total == 0 {
		total = resp.Total
	}
	return &domain.IssuePage{Total: total, Issues: resp.Issues}, nil
}

// HasAIFix asks whether an AI fix can be generated for the issue.
func (c *Client) HasAIFix(ctx context.Context, issueKey string) (bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, fixIssuesPath+url.PathEscape(issueKey), nil, nil)
	if err != nil {
		return false, fmt.Errorf("fix availability for %s: %w", issueKey, err)
	}
	if !isSuccess(status) {
		return false, statusError("fix availability for "+issueKey, status, body)
	}

	var resp struct {
		AISuggestion string `json:"aiSuggestion"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return bytes.Contains(body, []byte(`"aiSuggestion":"AVAILABLE"`)), nil
	}
	return resp.AISuggestion == aiAvailable, nil
}
