package sonarqube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abdidvp/sonarfix/internal/domain"
)

type suggestionRequest struct {
	IssueID string `json:"issueId"`
}

type suggestionResponse struct {
	Message *string `json:"message"`
	domain.FixSuggestion
}

// FetchSuggestion requests the AI-generated fix for an issue. An error
// payload from the server yields domain.ErrSuggestionUnavailable.
func (c *Client) FetchSuggestion(ctx context.Context, issueKey string) (domain.FixSuggestion, error) {
	payload, err := json.Marshal(suggestionRequest{IssueID: issueKey})
	if err != nil {
		return domain.FixSuggestion{}, fmt.Errorf("encoding suggestion request: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, aiSuggestionsPath, nil, bytes.NewReader(payload))
	if err != nil {
		return domain.FixSuggestion{}, fmt.Errorf("ai suggestion for %s: %w", issueKey, err)
	}

	var resp suggestionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.FixSuggestion{}, fmt.Errorf("ai suggestion for %s: %w: HTTP %d: %s",
			issueKey, domain.ErrSuggestionUnavailable, status, truncate(string(body), 200))
	}
	if resp.Message != nil {
		return domain.FixSuggestion{}, fmt.Errorf("ai suggestion for %s: %w: %s",
			issueKey, domain.ErrSuggestionUnavailable, *resp.Message)
	}
	if !isSuccess(status) {
		return domain.FixSuggestion{}, fmt.Errorf("ai suggestion for %s: %w: HTTP %d",
			issueKey, domain.ErrSuggestionUnavailable, status)
	}

	return resp.FixSuggestion, nil
}
