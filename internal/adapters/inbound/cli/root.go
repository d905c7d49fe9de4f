package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/config"
	"github.com/abdidvp/sonarfix/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/sonarfix/internal/bootstrap"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath    string
	server        string
	user          string
	password      string
	project       string
	folder        string
	branch        string
	branchFromGit bool
	severity      string
	prefix        string
	outputDir     string
	verbose       bool

	pipelineOpts []bootstrap.Option
}

func newRootCmd(pipelineOpts ...bootstrap.Option) *cobra.Command {
	opts := &rootOptions{pipelineOpts: pipelineOpts}

	cmd := &cobra.Command{
		Use:   "sonarfix",
		Short: "Push SonarQube AI fixes into your IDE",
		Long: "sonarfix lists SonarQube issues that have an AI-generated fix, sends the fixes " +
			"to the SonarLint agent running in your IDE and keeps an audit trail of what was applied or exported.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Config file (default ./"+config.FileName+")")
	f.StringVar(&opts.server, "server", "", "SonarQube server URL")
	f.StringVar(&opts.user, "user", "", "SonarQube user or token")
	f.StringVar(&opts.password, "password", "", "SonarQube password")
	f.StringVar(&opts.project, "project", "", "Project key")
	f.StringVar(&opts.folder, "folder", "", "Only issues under this folder")
	f.StringVar(&opts.branch, "branch", "", "Branch name used in audit file names")
	f.BoolVar(&opts.branchFromGit, "branch-from-git", false, "Take --branch from the current git checkout")
	f.StringVar(&opts.severity, "severity", "", "Only issues of this severity (INFO, MINOR, MAJOR, CRITICAL, BLOCKER)")
	f.StringVar(&opts.prefix, "prefix", "", "Audit file name prefix")
	f.StringVar(&opts.outputDir, "output-dir", "", "Directory for audit files")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newIssuesCmd(opts))
	cmd.AddCommand(newApplyCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newLocateCmd(opts))
	cmd.AddCommand(newLinkCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// config loads the config file and environment, then applies the flags the
// user set explicitly.
func (o *rootOptions) config(cmd *cobra.Command) (domain.Config, error) {
	loader := config.New()

	var (
		cfg domain.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = loader.LoadFile(o.configPath)
	} else {
		cfg, err = loader.Load(".")
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("server", &cfg.ServerURL, o.server)
	override("user", &cfg.User, o.user)
	override("password", &cfg.Password, o.password)
	override("project", &cfg.Project, o.project)
	override("folder", &cfg.Folder, o.folder)
	override("branch", &cfg.Branch, o.branch)
	override("severity", &cfg.Severity, o.severity)
	override("prefix", &cfg.OutputPrefix, o.prefix)
	override("output-dir", &cfg.OutputDir, o.outputDir)

	if o.branchFromGit && !flags.Changed("branch") {
		branch, err := gitinfo.New().CurrentBranch(".")
		if err != nil {
			return domain.Config{}, fmt.Errorf("reading branch from git: %w", err)
		}
		cfg.Branch = branch
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) (*zap.Logger, error) {
	return logging.New(logging.Options{Verbose: o.verbose, Output: cmd.ErrOrStderr()})
}

// pipeline loads the config and wires the services for one command run.
func (o *rootOptions) pipeline(cmd *cobra.Command) (*bootstrap.Pipeline, *zap.Logger, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := o.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.New(cfg, log, o.pipelineOpts...), log, nil
}

// NewRootCmdForTest returns the root command for testing. Options redirect
// the local agent lookup to fake agents.
func NewRootCmdForTest(opts ...bootstrap.Option) *cobra.Command {
	return newRootCmd(opts...)
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
