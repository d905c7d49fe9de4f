package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// filterOptions are the tool arguments that override the configured filter.
func filterOptions() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithString("project", mcplib.Description("Project key (defaults to the configured project)")),
		mcplib.WithString("severity", mcplib.Description("Severity filter: INFO, MINOR, MAJOR, CRITICAL or BLOCKER")),
		mcplib.WithString("folder", mcplib.Description("Only issues whose file lies under this folder")),
		mcplib.WithString("branch", mcplib.Description("Branch name used in audit file names")),
	}
}

func newTool(name, description string, opts ...mcplib.ToolOption) mcplib.Tool {
	all := append([]mcplib.ToolOption{mcplib.WithDescription(description)}, opts...)
	return mcplib.NewTool(name, all...)
}

// registerTools registers all sonarfix MCP tools on the given server.
func registerTools(s *server.MCPServer, h *handlers) {
	// 1. sonarfix_list_issues
	s.AddTool(
		newTool("sonarfix_list_issues",
			"Lists the project's SonarQube issues that have an AI-generated fix, after severity and folder filtering",
			filterOptions()...,
		),
		h.handleListIssues,
	)

	// 2. sonarfix_apply_fixes
	s.AddTool(
		newTool("sonarfix_apply_fixes",
			"Sends the AI fixes of the given issues to the SonarLint agent in the IDE and returns one outcome per issue",
			append(filterOptions(),
				mcplib.WithString("issue_keys", mcplib.Description("Comma-separated issue keys to apply")),
				mcplib.WithBoolean("all", mcplib.Description("Apply every filtered issue with an AI fix")),
			)...,
		),
		h.handleApplyFixes,
	)

	// 3. sonarfix_export_fixes
	s.AddTool(
		newTool("sonarfix_export_fixes",
			"Fetches the AI fix of every filtered issue and appends it to the exported JSON and CSV files",
			filterOptions()...,
		),
		h.handleExportFixes,
	)

	// 4. sonarfix_locate_agent
	s.AddTool(
		newTool("sonarfix_locate_agent",
			"Returns the local port of the SonarLint agent that has the project open",
			mcplib.WithString("project", mcplib.Description("Project key (defaults to the configured project)")),
		),
		h.handleLocateAgent,
	)

	// 5. sonarfix_issue_link
	s.AddTool(
		newTool("sonarfix_issue_link",
			"Returns the SonarQube page URL of an issue",
			mcplib.WithString("issue_key", mcplib.Required(), mcplib.Description("Issue key")),
			mcplib.WithString("project", mcplib.Description("Project key (defaults to the configured project)")),
		),
		h.handleIssueLink,
	)
}

// scoped applies the filter arguments of a call on top of the base config.
func (h *handlers) scoped(request mcplib.CallToolRequest) (domain.Config, error) {
	cfg := h.cfg
	if v := request.GetString("project", ""); v != "" {
		cfg.Project = v
	}
	if v := request.GetString("severity", ""); v != "" {
		cfg.Severity = strings.ToUpper(v)
	}
	if v := request.GetString("folder", ""); v != "" {
		cfg.Folder = v
	}
	if v := request.GetString("branch", ""); v != "" {
		cfg.Branch = v
	}
	if err := cfg.Criteria().Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (h *handlers) handleListIssues(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := h.scoped(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	p := h.pipeline(cfg)
	issues, err := p.Catalog.Fetch(ctx, p.Criteria)
	if err != nil {
		return errorResult(fmt.Sprintf("listing issues failed: %v", err)), nil
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return jsonResult(issues)
}

func (h *handlers) handleApplyFixes(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := h.scoped(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	all := request.GetBool("all", false)
	keys := splitKeys(request.GetString("issue_keys", ""))
	switch {
	case all && len(keys) > 0:
		return errorResult("pass issue_keys or all, not both"), nil
	case !all && len(keys) == 0:
		return errorResult("no issues selected: pass issue_keys or all"), nil
	}

	p := h.pipeline(cfg)
	issues, err := p.Catalog.Fetch(ctx, p.Criteria)
	if err != nil {
		return errorResult(fmt.Sprintf("listing issues failed: %v", err)), nil
	}

	selected := issues
	var missing []string
	if !all {
		selected, missing = domain.SelectIssues(issues, keys)
	}

	report, err := p.Dispatch.Apply(ctx, p.Criteria, selected)
	if errors.Is(err, domain.ErrAgentNotRunning) {
		return errorResult(fmt.Sprintf("%v: no SonarLint agent has project %s open", err, p.Criteria.Project)), nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("applying fixes failed: %v", err)), nil
	}

	for _, key := range missing {
		report.Outcomes = append(report.Outcomes, domain.DispatchOutcome{
			IssueKey: key,
			Status:   domain.OutcomeSkipped,
			Stage:    domain.StageSelect,
			Reason:   "not among the filtered issues with an AI fix",
		})
	}
	return jsonResult(report)
}

func (h *handlers) handleExportFixes(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := h.scoped(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	p := h.pipeline(cfg)
	issues, err := p.Catalog.Fetch(ctx, p.Criteria)
	if err != nil {
		return errorResult(fmt.Sprintf("listing issues failed: %v", err)), nil
	}

	report := p.Export.Export(ctx, issues)
	report.JSONFile = p.Recorder.ExportedJSONPath()
	report.CSVFile = p.Recorder.ExportedCSVPath()
	return jsonResult(report)
}

type agentLocation struct {
	Project string `json:"project"`
	Port    int    `json:"port"`
	Running bool   `json:"running"`
}

func (h *handlers) handleLocateAgent(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := h.scoped(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	p := h.pipeline(cfg)
	port := p.Locator.Locate(ctx, p.Criteria.Project)
	return jsonResult(agentLocation{
		Project: p.Criteria.Project,
		Port:    port,
		Running: port != domain.AgentNotFound,
	})
}

func (h *handlers) handleIssueLink(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	cfg, err := h.scoped(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(cfg.Criteria().IssueLink(key)), nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
