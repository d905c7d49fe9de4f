// Package bootstrap assembles the outbound adapters and application services
// for one configuration. The CLI and the MCP server share it.
package bootstrap

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/audit"
	"github.com/abdidvp/sonarfix/internal/adapters/outbound/sonarlint"
	"github.com/abdidvp/sonarfix/internal/adapters/outbound/sonarqube"
	"github.com/abdidvp/sonarfix/internal/application"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

// Pipeline holds everything a command needs for one run.
type Pipeline struct {
	Criteria domain.FilterCriteria
	Locator  *sonarlint.Locator
	Recorder *audit.Recorder
	Catalog  *application.CatalogService
	Dispatch *application.DispatchService
	Export   *application.ExportService
}

type settings struct {
	agentOpts []sonarlint.Option
}

// Option adjusts how New wires the pipeline.
type Option func(*settings)

// WithAgentOptions passes extra options to the local agent locator and client.
func WithAgentOptions(opts ...sonarlint.Option) Option {
	return func(s *settings) { s.agentOpts = append(s.agentOpts, opts...) }
}

// New wires the pipeline for cfg. The config is not validated here; services
// validate the criteria they are given.
func New(cfg domain.Config, log *zap.Logger, opts ...Option) *Pipeline {
	log = logging.OrNop(log)
	var s settings
	for _, o := range opts {
		o(&s)
	}

	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	criteria := cfg.Criteria()

	server := sonarqube.New(criteria.ServerURL, criteria.User, criteria.Password,
		sonarqube.WithHTTPClient(hc),
		sonarqube.WithLogger(log.Named("sonarqube")),
	)

	agentOpts := append([]sonarlint.Option{
		sonarlint.WithHTTPClient(hc),
		sonarlint.WithLogger(log.Named("agent")),
	}, s.agentOpts...)
	locator := sonarlint.NewLocator(criteria.ServerURL, agentOpts...)
	agent := sonarlint.NewClient(agentOpts...)

	recorder := audit.New(cfg.OutputDir, criteria)

	return &Pipeline{
		Criteria: criteria,
		Locator:  locator,
		Recorder: recorder,
		Catalog:  application.NewCatalogService(server, server, log.Named("catalog")),
		Dispatch: application.NewDispatchService(server, server, locator, agent, recorder, log.Named("dispatch")),
		Export:   application.NewExportService(server, recorder, log.Named("export")),
	}
}
