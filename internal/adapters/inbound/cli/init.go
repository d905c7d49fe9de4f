package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/config"
	"github.com/abdidvp/sonarfix/internal/domain"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a " + config.FileName + " configuration file",
		Long: "Create a " + config.FileName + " holding the --server, --project and --severity flags. " +
			"Credentials are read from the environment.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			if opts.server != "" {
				cfg.ServerURL = opts.server
			}
			cfg.Project = opts.project
			cfg.Severity = strings.ToUpper(opts.severity)
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing "+config.FileName)

	return cmd
}

func generateConfig(cfg domain.Config) string {
	var b strings.Builder
	b.WriteString("# sonarfix configuration\n")
	fmt.Fprintf(&b, "# Credentials: set %s, or %s and %s, in the environment or a .env file.\n\n",
		config.EnvToken, config.EnvUser, config.EnvPassword)

	fmt.Fprintf(&b, "server_url: %s\n", cfg.ServerURL)
	if cfg.Project != "" {
		fmt.Fprintf(&b, "project: %s\n", cfg.Project)
	} else {
		b.WriteString("# project: my-project\n")
	}
	if cfg.Severity != "" {
		fmt.Fprintf(&b, "severity: %s\n", cfg.Severity)
	} else {
		fmt.Fprintf(&b, "# severity: one of %s\n", strings.Join(domain.ValidSeverities, ", "))
	}

	fmt.Fprintf(&b, "\noutput_prefix: %s\n", cfg.OutputPrefix)
	fmt.Fprintf(&b, "output_dir: %s\n", cfg.OutputDir)
	b.WriteString(`
# folder: src/main/
# branch: develop
# http_timeout: 30s
`)
	return b.String()
}
