package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/tui"
	"github.com/abdidvp/sonarfix/internal/domain"
)

const notFoundReason = "not among the filtered issues with an AI fix"

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		all        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "apply [issue-key...]",
		Short: "Send AI fixes to the IDE",
		Long: "Send the AI fix of each selected issue to the SonarLint agent serving the project. " +
			"Every fix that reaches the agent is appended to the applied audit file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("pass issue keys or --all, not both")
			case !all && len(args) == 0:
				return fmt.Errorf("no issues selected: pass issue keys or --all")
			}

			p, log, err := opts.pipeline(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			issues, err := p.Catalog.Fetch(ctx, p.Criteria)
			if err != nil {
				return fmt.Errorf("listing issues: %w", err)
			}

			selected := issues
			var missing []string
			if !all {
				selected, missing = domain.SelectIssues(issues, args)
			}

			report, err := p.Dispatch.Apply(ctx, p.Criteria, selected)
			if errors.Is(err, domain.ErrAgentNotRunning) {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderAgentPort(p.Criteria.Project, domain.AgentNotFound))
				return fmt.Errorf("%w: open %s in an IDE with SonarLint connected to %s",
					err, p.Criteria.Project, p.Criteria.ServerURL)
			}
			if err != nil {
				return fmt.Errorf("applying fixes: %w", err)
			}

			skipped := make([]domain.DispatchOutcome, 0, len(missing))
			for _, key := range missing {
				skipped = append(skipped, domain.DispatchOutcome{
					IssueKey: key,
					Status:   domain.OutcomeSkipped,
					Stage:    domain.StageSelect,
					Reason:   notFoundReason,
				})
			}
			report.Outcomes = append(skipped, report.Outcomes...)

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDispatchReport(report))
			}

			if n := report.Count(domain.OutcomeFailed); n > 0 {
				return fmt.Errorf("%d of %d fixes failed", n, len(selected))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Apply every filtered issue with an AI fix")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}
