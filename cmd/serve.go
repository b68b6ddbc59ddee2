package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/article-service/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context())
		},
	}
}
