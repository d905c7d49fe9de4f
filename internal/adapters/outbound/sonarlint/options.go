// Package sonarlint talks to the SonarLint agent embedded in a local IDE:
// it finds the agent by probing a fixed port range and submits fixes to it.
package sonarlint

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/logging"
)

// The agent listens on the first free port of this closed range.
const (
	FirstPort = 64120
	LastPort  = 64130
)

const (
	statusPath  = "/sonarlint/api/status"
	fixShowPath = "/sonarlint/api/fix/show"
	agentBranch = "master"
)

type options struct {
	address    func(port int) string
	first      int
	last       int
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Locator or Client.
type Option func(*options)

// WithAddress maps a port to the agent base URL. Defaults to http://localhost:{port}.
func WithAddress(fn func(port int) string) Option {
	return func(o *options) { o.address = fn }
}

// WithPortRange overrides the probed range.
func WithPortRange(first, last int) Option {
	return func(o *options) { o.first, o.last = first, last }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = logging.OrNop(l) }
}

func newOptions(opts []Option) options {
	o := options{
		address:    localhost,
		first:      FirstPort,
		last:       LastPort,
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func localhost(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
