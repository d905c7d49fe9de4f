package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/abdidvp/sonarfix/internal/adapters/inbound/cli"
	"github.com/abdidvp/sonarfix/internal/bootstrap"
)

// run executes the root command with an isolated config path and returns stdout.
func run(t *testing.T, opts []bootstrap.Option, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest(opts...)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// runWithConfig executes the root command with args as given.
func runWithConfig(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
