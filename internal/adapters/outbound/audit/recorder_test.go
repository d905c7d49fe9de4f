package audit_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/audit"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		ServerURL:    "http://localhost:9000",
		Project:      "proj",
		Severity:     "MAJOR",
		OutputPrefix: "codefix-",
	}
}

func sampleFix() domain.FixSuggestion {
	return domain.FixSuggestion{
		ID:          "s1",
		IssueID:     "AYx-1",
		Explanation: `Replace "foo" with a constant`,
		Changes: []domain.FixChange{
			{StartLine: 2, EndLine: 3, NewCode: "X"},
			{StartLine: 9, EndLine: 9, NewCode: "private static final String FOO = \"foo\";"},
		},
	}
}

func sampleIssue() domain.Issue {
	return domain.Issue{Key: "AYx-1", Project: "proj", Severity: "MAJOR", Rule: "java:S1192", Component: "proj:src/A.java"}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestRecorder_Paths(t *testing.T) {
	dir := t.TempDir()
	r := audit.New(dir, criteria())

	assert.Equal(t, filepath.Join(dir, "codefix-proj-MAJOR-applied.json"), r.AppliedPath())
	assert.Equal(t, filepath.Join(dir, "codefix-proj-MAJOR-exported.json"), r.ExportedJSONPath())
	assert.Equal(t, filepath.Join(dir, "codefix-proj-MAJOR-exported.csv"), r.ExportedCSVPath())
}

func TestRecorder_AppliedRoundTrip(t *testing.T) {
	r := audit.New(t.TempDir(), criteria())
	require.NoError(t, r.AppendApplied(sampleFix()))

	lines := readLines(t, r.AppliedPath())
	require.Len(t, lines, 1)

	var decoded domain.FixSuggestion
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, sampleFix(), decoded)
}

func TestRecorder_AppendsWithoutTruncating(t *testing.T) {
	r := audit.New(t.TempDir(), criteria())

	first := sampleFix()
	second := sampleFix()
	second.ID = "s2"
	require.NoError(t, r.AppendApplied(first))
	require.NoError(t, r.AppendApplied(second))

	again := audit.New(filepath.Dir(r.AppliedPath()), criteria())
	third := sampleFix()
	third.ID = "s3"
	require.NoError(t, again.AppendApplied(third))

	lines := readLines(t, r.AppliedPath())
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"id":"s1"`)
	assert.Contains(t, lines[2], `"id":"s3"`)
}

func TestRecorder_ExportedJSONAndCSV(t *testing.T) {
	r := audit.New(t.TempDir(), criteria())
	require.NoError(t, r.AppendExported(sampleIssue(), sampleFix()))
	require.NoError(t, r.AppendExported(sampleIssue(), sampleFix()))

	jsonLines := readLines(t, r.ExportedJSONPath())
	require.Len(t, jsonLines, 2)
	var rec domain.ExportedFix
	require.NoError(t, json.Unmarshal([]byte(jsonLines[0]), &rec))
	assert.Equal(t, "proj:src/A.java", rec.File)
	assert.Equal(t, "java:S1192", rec.Rule)
	assert.Equal(t, sampleFix(), rec.Fix)

	csvLines := readLines(t, r.ExportedCSVPath())
	require.Len(t, csvLines, 3, "header once plus one row per export")
	assert.Equal(t, "Rule,Severity,File,IssueId,Explanation", csvLines[0])
	assert.Equal(t,
		`java:S1192,MAJOR,proj:src/A.java,"http://localhost:9000/project/issues?id=proj&open=AYx-1","Replace 'foo' with a constant"`,
		csvLines[1])
	assert.Equal(t, csvLines[1], csvLines[2])
}

func TestRecorder_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "nested")
	r := audit.New(dir, criteria())

	require.NoError(t, r.AppendApplied(sampleFix()))
	assert.FileExists(t, r.AppliedPath())
}

func TestRecorder_ConcurrentAppendsKeepWholeLines(t *testing.T) {
	r := audit.New(t.TempDir(), criteria())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.AppendApplied(sampleFix()))
		}()
	}
	wg.Wait()

	lines := readLines(t, r.AppliedPath())
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "{") && strings.HasSuffix(l, "}"))
	}
}
