package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/tui"
)

func newIssuesCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues that have an AI fix",
		Long:  "Page through the project's issues on the server, keep those matching the filters that have an AI fix, and print them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, log, err := opts.pipeline(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			issues, err := p.Catalog.Fetch(cmd.Context(), p.Criteria)
			if err != nil {
				return fmt.Errorf("listing issues: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, issues)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderIssues(p.Criteria, issues))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output issues as JSON")

	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
