package domain

// FixSuggestion is an AI-generated fix for one issue as returned by the
// analysis server. Line numbers are 1-indexed and inclusive.
type FixSuggestion struct {
	ID          string      `json:"id"`
	IssueID     string      `json:"issueId"`
	Explanation string      `json:"explanation"`
	Changes     []FixChange `json:"changes"`
}

type FixChange struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	NewCode   string `json:"newCode"`
}

// LocalEditSuggestion is the edit format the local IDE agent displays.
type LocalEditSuggestion struct {
	Explanation  string   `json:"explanation"`
	FileEdit     FileEdit `json:"fileEdit"`
	SuggestionID string   `json:"suggestionId"`
}

type FileEdit struct {
	Changes []EditChange `json:"changes"`
	Path    string       `json:"path"`
}

type EditChange struct {
	After           string    `json:"after"`
	Before          string    `json:"before"`
	BeforeLineRange LineRange `json:"beforeLineRange"`
}

type LineRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// ExportedFix is one record of the exported audit file.
type ExportedFix struct {
	File string        `json:"file"`
	Rule string        `json:"rule"`
	Fix  FixSuggestion `json:"fix"`
}

// AgentSubmission is everything the local agent needs to show one fix.
type AgentSubmission struct {
	ServerURL string
	Project   string
	IssueID   string
	Edit      LocalEditSuggestion
}

// AgentResponse is what the local agent answered to a submission.
type AgentResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
}
