package domain

import (
	"fmt"
	"strings"
)

// PathFromComponent drops everything up to and including the first ':'.
// A component without ':' is returned unchanged.
func PathFromComponent(component string) string {
	if i := strings.Index(component, ":"); i >= 0 {
		return component[i+1:]
	}
	return component
}

// Translate converts a server fix into the local agent's edit format.
// Each change's before text is sliced out of source by its line range.
func Translate(issue Issue, fix FixSuggestion, source string) (LocalEditSuggestion, error) {
	lines := SplitLines(source)

	changes := make([]EditChange, 0, len(fix.Changes))
	for i, c := range fix.Changes {
		before, err := sliceLines(lines, c.StartLine, c.EndLine)
		if err != nil {
			return LocalEditSuggestion{}, fmt.Errorf("change %d of suggestion %s: %w", i, fix.ID, err)
		}
		changes = append(changes, EditChange{
			After:  c.NewCode,
			Before: before,
			BeforeLineRange: LineRange{
				StartLine: c.StartLine,
				EndLine:   c.EndLine,
			},
		})
	}

	return LocalEditSuggestion{
		Explanation: fix.Explanation,
		FileEdit: FileEdit{
			Changes: changes,
			Path:    issue.Path(),
		},
		SuggestionID: fix.ID,
	}, nil
}

// SplitLines splits text on '\n'. Trailing empty elements left by final
// newlines are not lines.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func sliceLines(lines []string, start, end int) (string, error) {
	if start < 1 || start > end || end > len(lines) {
		return "", fmt.Errorf("%w: lines %d-%d of %d", ErrLineOutOfRange, start, end, len(lines))
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}
