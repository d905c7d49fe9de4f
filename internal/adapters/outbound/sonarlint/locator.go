package sonarlint

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
)

var _ domain.AgentLocator = (*Locator)(nil)

// Locator finds the agent that has a given project open.
type Locator struct {
	origin string
	opts   options
}

// NewLocator creates a locator. origin is the analysis server URL; the agent
// only answers requests whose Origin it trusts.
func NewLocator(origin string, opts ...Option) *Locator {
	return &Locator{origin: origin, opts: newOptions(opts)}
}

// Locate scans the port range in ascending order and returns the first port
// whose status page lists project, or domain.AgentNotFound.
func (l *Locator) Locate(ctx context.Context, project string) int {
	marker := "- " + strings.ToLower(project)
	for port := l.opts.first; port <= l.opts.last; port++ {
		if ctx.Err() != nil {
			return domain.AgentNotFound
		}
		if l.probe(ctx, port, marker) {
			l.opts.log.Debug("agent found", zap.Int("port", port), zap.String("project", project))
			return port
		}
	}
	return domain.AgentNotFound
}

func (l *Locator) probe(ctx context.Context, port int, marker string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.opts.address(port)+statusPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Origin", l.origin)
	req.Header.Set("Referer", l.origin)

	resp, err := l.opts.httpClient.Do(req)
	if err != nil {
		l.opts.log.Debug("agent probe failed", zap.Int("port", port), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(body)), marker)
}
