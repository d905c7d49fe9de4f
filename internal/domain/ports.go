package domain

import "context"

// IssueSearcher runs paginated issue searches against the analysis server.
type IssueSearcher interface {
	SearchIssues(ctx context.Context, q IssueQuery) (*IssuePage, error)
}

// FixAvailability reports whether the server has an AI fix for an issue.
type FixAvailability interface {
	HasAIFix(ctx context.Context, issueKey string) (bool, error)
}

// SuggestionFetcher requests the AI fix body for one issue.
type SuggestionFetcher interface {
	FetchSuggestion(ctx context.Context, issueKey string) (FixSuggestion, error)
}

// SourceLoader retrieves the full raw text of a component.
type SourceLoader interface {
	LoadSource(ctx context.Context, component string) (string, error)
}

// AgentLocator finds the local agent port serving a project, or AgentNotFound.
type AgentLocator interface {
	Locate(ctx context.Context, project string) int
}

// AgentSubmitter delivers a translated edit to the local agent.
type AgentSubmitter interface {
	Submit(ctx context.Context, port int, sub AgentSubmission) (*AgentResponse, error)
}

// AuditLog is the append-only trail of applied and exported suggestions.
type AuditLog interface {
	AppendApplied(fix FixSuggestion) error
	AppendExported(issue Issue, fix FixSuggestion) error
}

// ConfigLoader loads tool configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}

// GitInfo reads repository metadata from a working copy.
type GitInfo interface {
	CurrentBranch(path string) (string, error)
}
