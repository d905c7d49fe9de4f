package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link <issue-key>",
		Short: "Print the server page of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			criteria := cfg.Criteria()
			if err := criteria.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), criteria.IssueLink(args[0]))
			return nil
		},
	}
}
