package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/sonarfix/internal/adapters/outbound/tui"
	"github.com/abdidvp/sonarfix/internal/domain"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export AI fixes to JSON and CSV",
		Long:  "Fetch the AI fix of every filtered issue and append it to the exported JSON and CSV audit files, without contacting the IDE.",
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

			report := p.Export.Export(cmd.Context(), issues)
			report.JSONFile = p.Recorder.ExportedJSONPath()
			report.CSVFile = p.Recorder.ExportedCSVPath()

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderExportReport(report))
			}

			if n := report.Count(domain.OutcomeFailed); n > 0 {
				return fmt.Errorf("%d of %d fixes not exported", n, len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}
