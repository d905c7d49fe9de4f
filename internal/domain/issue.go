package domain

// Issue is a read-only snapshot of a finding reported by the analysis server.
type Issue struct {
	Key       string `json:"key"`
	Project   string `json:"project"`
	Severity  string `json:"severity"`
	Rule      string `json:"rule"`
	Component string `json:"component"`
	Message   string `json:"message,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// Path is the file path of the issue's component, without the project key.
func (i Issue) Path() string { return PathFromComponent(i.Component) }

// IssueQuery is one page request against the issue search endpoint.
// An empty Severity is not forwarded.
type IssueQuery struct {
	Project  string
	Severity string
	Page     int
	PageSize int
}

// IssuePage is one page of search results. Total is the server-reported
// number of issues across all pages.
type IssuePage struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// SelectIssues picks the issues whose keys are listed, in the order of keys.
// Keys with no matching issue are returned as missing.
func SelectIssues(issues []Issue, keys []string) (selected []Issue, missing []string) {
	byKey := make(map[string]Issue, len(issues))
	for _, is := range issues {
		byKey[is.Key] = is
	}
	for _, k := range keys {
		if is, ok := byKey[k]; ok {
			selected = append(selected, is)
			continue
		}
		missing = append(missing, k)
	}
	return selected, missing
}
