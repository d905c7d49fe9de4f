package domain

import (
	"fmt"
	"strings"
)

// ValidSeverities enumerates the issue severities the analysis server accepts.
var ValidSeverities = []string{"INFO", "MINOR", "MAJOR", "CRITICAL", "BLOCKER"}

// Output file suffixes appended to OutputName.
const (
	AppliedSuffix      = "-applied.json"
	ExportedJSONSuffix = "-exported.json"
	ExportedCSVSuffix  = "-exported.csv"
)

// FilterCriteria selects which issues a pipeline run works on and where its
// audit trail goes. Empty Folder, Branch and Severity impose no constraint.
type FilterCriteria struct {
	ServerURL    string `json:"server_url"`
	User         string `json:"user,omitempty"`
	Password     string `json:"-"`
	Project      string `json:"project"`
	Folder       string `json:"folder,omitempty"`
	Branch       string `json:"branch,omitempty"`
	Severity     string `json:"severity,omitempty"`
	OutputPrefix string `json:"output_prefix,omitempty"`
}

// Validate checks that the criteria can address a server and a project.
func (f FilterCriteria) Validate() error {
	if f.ServerURL == "" {
		return fmt.Errorf("%w: server URL is required", ErrInvalidFilter)
	}
	if f.Project == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidFilter)
	}
	if f.Severity != "" && !IsValidSeverity(f.Severity) {
		return fmt.Errorf("%w: unknown severity %q (valid: %s)",
			ErrInvalidFilter, f.Severity, strings.Join(ValidSeverities, ", "))
	}
	return nil
}

// ComponentPrefix is the component key prefix an issue must carry to fall
// inside the folder filter.
func (f FilterCriteria) ComponentPrefix() string {
	return f.Project + ":" + f.Folder
}

// MatchesComponent reports whether a component lies under the folder filter.
func (f FilterCriteria) MatchesComponent(component string) bool {
	if f.Folder == "" {
		return true
	}
	return strings.HasPrefix(component, f.ComponentPrefix())
}

// Query builds the search query for one page of issues.
func (f FilterCriteria) Query(page, pageSize int) IssueQuery {
	return IssueQuery{
		Project:  f.Project,
		Severity: f.Severity,
		Page:     page,
		PageSize: pageSize,
	}
}

// OutputName is the audit file stem:
// prefix + project [-severity] [-folder] [-branch].
func (f FilterCriteria) OutputName() string {
	var b strings.Builder
	b.WriteString(f.OutputPrefix)
	b.WriteString(f.Project)
	for _, seg := range []string{f.Severity, f.Folder, f.Branch} {
		if seg != "" {
			b.WriteString("-")
			b.WriteString(seg)
		}
	}
	return b.String()
}

func (f FilterCriteria) AppliedFileName() string      { return f.OutputName() + AppliedSuffix }
func (f FilterCriteria) ExportedJSONFileName() string { return f.OutputName() + ExportedJSONSuffix }
func (f FilterCriteria) ExportedCSVFileName() string  { return f.OutputName() + ExportedCSVSuffix }

// IssueLink returns the server page that opens the given issue.
func (f FilterCriteria) IssueLink(issueKey string) string {
	return f.ServerURL + "/project/issues?id=" + f.Project + "&open=" + issueKey
}

// IsValidSeverity reports whether s is a known severity.
func IsValidSeverity(s string) bool {
	for _, v := range ValidSeverities {
		if v == s {
			return true
		}
	}
	return false
}
