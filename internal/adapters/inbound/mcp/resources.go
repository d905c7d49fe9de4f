package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all sonarfix MCP resources on the given server.
func registerResources(s *server.MCPServer, h *handlers) {
	// 1. sonarfix://config - effective configuration, password omitted
	s.AddResource(
		mcplib.NewResource(
			"sonarfix://config",
			"Configuration",
			mcplib.WithResourceDescription("Server, project and filter settings the tools default to"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleConfigResource,
	)

	// 2. sonarfix://issues/{project} - fixable issues of a project (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"sonarfix://issues/{project}",
			"Fixable Issues",
			mcplib.WithTemplateDescription("Issues of a project that have an AI fix, using the configured filters"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		h.handleIssuesResource,
	)
}

func (h *handlers) handleConfigResource(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonContents(request.Params.URI, h.cfg)
}

func (h *handlers) handleIssuesResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	project := templateArg(request.Params.Arguments, "project")
	if project == "" {
		return nil, fmt.Errorf("project is required")
	}

	cfg := h.cfg
	cfg.Project = project
	p := h.pipeline(cfg)
	issues, err := p.Catalog.Fetch(ctx, p.Criteria)
	if err != nil {
		return nil, fmt.Errorf("listing issues failed: %w", err)
	}
	return jsonContents(request.Params.URI, issues)
}

// templateArg reads a variable populated by URI template matching, which
// arrives either as a string or as a single-element list.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
