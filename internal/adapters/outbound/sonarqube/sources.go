package sonarqube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LoadSource returns the raw text of a component (project:path).
func (c *Client) LoadSource(ctx context.Context, component string) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, sourcesRawPath, url.Values{"key": {component}}, nil)
	if err != nil {
		return "", fmt.Errorf("raw source of %s: %w", component, err)
	}
	if !isSuccess(status) {
		return "", statusError("raw source of "+component, status, body)
	}
	return string(body), nil
}
