package cli

import (
	mcpadapter "github.com/abdidvp/sonarfix/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the sonarfix MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start sonarfix MCP server (stdio)",
		Long: "Start the sonarfix MCP server using stdio transport. This allows AI coding assistants " +
			"to list fixable issues, push fixes to the IDE and export them. Logs go to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			log, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			s := mcpadapter.NewSonarfixMCPServer(cfg, log, opts.pipelineOpts...)
			return server.ServeStdio(s)
		},
	}
}
