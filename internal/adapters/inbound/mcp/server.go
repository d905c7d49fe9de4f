package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/bootstrap"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

// NewSonarfixMCPServer creates a new MCP server with all sonarfix tools and
// resources registered. cfg is the base configuration; tool arguments narrow
// or override its filter per call.
func NewSonarfixMCPServer(cfg domain.Config, log *zap.Logger, opts ...bootstrap.Option) *server.MCPServer {
	s := server.NewMCPServer(
		"sonarfix",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := &handlers{cfg: cfg, log: logging.OrNop(log).Named("mcp"), opts: opts}
	registerTools(s, h)
	registerResources(s, h)

	return s
}

// handlers builds a fresh pipeline per call so that per-call filters never
// leak between requests.
type handlers struct {
	cfg  domain.Config
	log  *zap.Logger
	opts []bootstrap.Option
}

func (h *handlers) pipeline(cfg domain.Config) *bootstrap.Pipeline {
	return bootstrap.New(cfg, h.log, h.opts...)
}
