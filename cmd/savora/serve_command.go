package main

import (
	"github.com/spf13/cobra"

	"github.com/savora/core/internal/app"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Servers log at the configured level
			*ctx.verbose = true
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				if port != "" {
					a.Config.Server.Port = port
				}
				return a.Serve(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides configuration)")
	return cmd
}
