// Package audit appends applied and exported fix suggestions to flat files.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abdidvp/sonarfix/internal/domain"
)

const csvHeader = "Rule,Severity,File,IssueId,Explanation"

var _ domain.AuditLog = (*Recorder)(nil)

// Recorder implements domain.AuditLog. Each append opens the target file,
// writes one record and closes it again.
type Recorder struct {
	mu       sync.Mutex
	dir      string
	criteria domain.FilterCriteria
}

// New creates a recorder writing into dir with file names derived from criteria.
func New(dir string, criteria domain.FilterCriteria) *Recorder {
	if dir == "" {
		dir = "."
	}
	return &Recorder{dir: dir, criteria: criteria}
}

func (r *Recorder) AppliedPath() string {
	return filepath.Join(r.dir, r.criteria.AppliedFileName())
}

func (r *Recorder) ExportedJSONPath() string {
	return filepath.Join(r.dir, r.criteria.ExportedJSONFileName())
}

func (r *Recorder) ExportedCSVPath() string {
	return filepath.Join(r.dir, r.criteria.ExportedCSVFileName())
}

// AppendApplied records a suggestion that was delivered to the local agent.
func (r *Recorder) AppendApplied(fix domain.FixSuggestion) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("encoding applied fix %s: %w", fix.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return appendLine(r.AppliedPath(), string(data))
}

// AppendExported records an issue/fix pair as a JSON line and a CSV row.
func (r *Recorder) AppendExported(issue domain.Issue, fix domain.FixSuggestion) error {
	data, err := json.Marshal(domain.ExportedFix{
		File: issue.Component,
		Rule: issue.Rule,
		Fix:  fix,
	})
	if err != nil {
		return fmt.Errorf("encoding exported fix %s: %w", fix.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := appendLine(r.ExportedJSONPath(), string(data)); err != nil {
		return err
	}

	csvPath := r.ExportedCSVPath()
	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		if err := appendLine(csvPath, csvHeader); err != nil {
			return err
		}
	}
	return appendLine(csvPath, r.csvRow(issue, fix))
}

// csvRow keeps the row well-formed by swapping double quotes in the
// explanation for single quotes.
func (r *Recorder) csvRow(issue domain.Issue, fix domain.FixSuggestion) string {
	issueID := fix.IssueID
	if issueID == "" {
		issueID = issue.Key
	}
	return issue.Rule + "," +
		issue.Severity + "," +
		issue.Component + "," +
		`"` + r.criteria.IssueLink(issueID) + `",` +
		`"` + strings.ReplaceAll(fix.Explanation, `"`, "'") + `"`
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
