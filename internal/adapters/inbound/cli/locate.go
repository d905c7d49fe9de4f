package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/tui"
)

func newLocateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Find the IDE agent serving the project",
		Long:  "Probe the SonarLint agent ports on localhost and print the first one that has the project open.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, log, err := opts.pipeline(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := p.Criteria.Validate(); err != nil {
				return err
			}

			port := p.Locator.Locate(cmd.Context(), p.Criteria.Project)
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderAgentPort(p.Criteria.Project, port))
			return nil
		},
	}
}
