package cli_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/sonarfix/internal/bootstrap"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/sonartest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopServer(t *testing.T) *sonartest.Server {
	return sonartest.NewServer(t,
		sonartest.SimpleFixture("shop", "AX-1", "MAJOR", "src/A.java"),
		sonartest.SimpleFixture("shop", "AX-2", "BLOCKER", "src/B.java"),
		sonartest.Fixture{Issue: domain.Issue{Key: "AX-3", Project: "shop", Severity: "MAJOR", Component: "shop:src/C.java"}},
	)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sonarfix dev")
}

func TestIssuesCommand_JSON(t *testing.T) {
	srv := shopServer(t)

	out, err := run(t, nil, "issues", "--server", srv.URL, "--project", "shop", "--json")
	require.NoError(t, err)

	var issues []domain.Issue
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	require.Len(t, issues, 2)
	assert.Equal(t, "AX-1", issues[0].Key)
	assert.Equal(t, "AX-2", issues[1].Key)
}

func TestIssuesCommand_SeverityAndFolder(t *testing.T) {
	srv := sonartest.NewServer(t,
		sonartest.SimpleFixture("shop", "AX-1", "MAJOR", "src/main/A.java"),
		sonartest.SimpleFixture("shop", "AX-2", "MAJOR", "test/B.java"),
		sonartest.SimpleFixture("shop", "AX-3", "MINOR", "src/main/C.java"),
	)

	out, err := run(t, nil, "issues", "--server", srv.URL, "--project", "shop",
		"--severity", "MAJOR", "--folder", "src/main/", "--json")
	require.NoError(t, err)

	var issues []domain.Issue
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, "AX-1", issues[0].Key)
}

func TestIssuesCommand_Table(t *testing.T) {
	srv := shopServer(t)

	out, err := run(t, nil, "issues", "--server", srv.URL, "--project", "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "2 issues with AI fixes")
	assert.Contains(t, out, "src/B.java")
}

func TestIssuesCommand_RequiresProject(t *testing.T) {
	_, err := run(t, nil, "issues", "--server", "http://localhost:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestIssuesCommand_InvalidSeverity(t *testing.T) {
	_, err := run(t, nil, "issues", "--project", "shop", "--severity", "HIGH")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestApplyCommand_SelectedKeys(t *testing.T) {
	srv := shopServer(t)
	agent := sonartest.NewAgent(t, "shop", http.StatusOK)
	dir := t.TempDir()
	opts := []bootstrap.Option{bootstrap.WithAgentOptions(agent.Options()...)}

	out, err := run(t, opts, "apply", "AX-2", "AX-404",
		"--server", srv.URL, "--project", "shop", "--output-dir", dir, "--json")
	require.NoError(t, err)

	var report domain.DispatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "AX-404", report.Outcomes[0].IssueKey)
	assert.Equal(t, domain.OutcomeSkipped, report.Outcomes[0].Status)
	assert.Equal(t, domain.StageSelect, report.Outcomes[0].Stage)
	assert.Equal(t, "AX-2", report.Outcomes[1].IssueKey)
	assert.Equal(t, domain.OutcomeApplied, report.Outcomes[1].Status)

	subs := agent.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "AX-2", subs[0].Query.Get("issue"))
	assert.Equal(t, "master", subs[0].Query.Get("branch"))

	data, err := os.ReadFile(filepath.Join(dir, "codefix-issues-output-shop-applied.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sugg-ax-2"`)
}

func TestApplyCommand_All(t *testing.T) {
	srv := shopServer(t)
	agent := sonartest.NewAgent(t, "shop", http.StatusOK)
	opts := []bootstrap.Option{bootstrap.WithAgentOptions(agent.Options()...)}

	out, err := run(t, opts, "apply", "--all",
		"--server", srv.URL, "--project", "shop", "--output-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "2 applied")
	assert.Len(t, agent.Submissions(), 2)
}

func TestApplyCommand_AgentRejectsFails(t *testing.T) {
	srv := shopServer(t)
	agent := sonartest.NewAgent(t, "shop", http.StatusInternalServerError)
	opts := []bootstrap.Option{bootstrap.WithAgentOptions(agent.Options()...)}

	out, err := run(t, opts, "apply", "AX-1",
		"--server", srv.URL, "--project", "shop", "--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 fixes failed")
	assert.Contains(t, out, "1 failed")
}

func TestApplyCommand_AgentNotRunning(t *testing.T) {
	srv := shopServer(t)
	opts := []bootstrap.Option{bootstrap.WithAgentOptions(sonartest.NoAgent(t)...)}

	out, err := run(t, opts, "apply", "--all", "--server", srv.URL, "--project", "shop")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAgentNotRunning)
	assert.Contains(t, out, "no local agent serves")
}

func TestApplyCommand_NeedsSelection(t *testing.T) {
	_, err := run(t, nil, "apply", "--project", "shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no issues selected")

	_, err = run(t, nil, "apply", "AX-1", "--all", "--project", "shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestExportCommand(t *testing.T) {
	srv := shopServer(t)
	dir := t.TempDir()

	out, err := run(t, nil, "export",
		"--server", srv.URL, "--project", "shop", "--severity", "BLOCKER",
		"--branch", "develop", "--prefix", "fix-", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 exported")

	csv, err := os.ReadFile(filepath.Join(dir, "fix-shop-BLOCKER-develop-exported.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Rule,Severity,File,IssueId,Explanation")
	assert.Contains(t, string(csv), srv.URL+"/project/issues?id=shop&open=AX-2")

	_, err = os.Stat(filepath.Join(dir, "fix-shop-BLOCKER-develop-exported.json"))
	assert.NoError(t, err)
}

func TestLocateCommand(t *testing.T) {
	agent := sonartest.NewAgent(t, "shop", http.StatusOK)
	opts := []bootstrap.Option{bootstrap.WithAgentOptions(agent.Options()...)}

	out, err := run(t, opts, "locate", "--project", "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "64120")

	out, err = run(t, opts, "locate", "--project", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "no local agent serves")
}

func TestLinkCommand(t *testing.T) {
	out, err := run(t, nil, "link", "AX-9", "--server", "https://sonar.example.com", "--project", "shop")
	require.NoError(t, err)
	assert.Equal(t, "https://sonar.example.com/project/issues?id=shop&open=AX-9\n", out)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	t.Setenv("SONAR_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://from-file:9000\nproject: file-project\n"), 0644))

	cmd := []string{"--config", path, "link", "AX-1"}
	out, err := runWithConfig(t, cmd...)
	require.NoError(t, err)
	assert.Contains(t, out, "http://from-file:9000/project/issues?id=file-project&open=AX-1")

	out, err = runWithConfig(t, append(cmd, "--project", "flag-project")...)
	require.NoError(t, err)
	assert.Contains(t, out, "id=flag-project")
}
