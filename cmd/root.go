// Package cmd implements the article-service command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/north-cloud/article-service/infrastructure/config"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=".
var Version = "dev"

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "article-service",
		Short: "Article storage and filter service",
		Long: `Stores articles and serves lookups by id, by view id and by
tag, author, title and date range filters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if cfgFile == "" {
				return nil
			}
			return os.Setenv(infraconfig.ConfigPathEnv, cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newPurgeCommand(),
		newFilterCommand(),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "article-service version %s\n", Version)
		},
	}
}
