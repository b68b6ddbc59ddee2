package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// URLs
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// sources
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/article-service/internal/bootstrap"
)

const defaultMigrationsDir = "migrations"

func newMigrateCommand() *cobra.Command {
	var (
		dir   string
		steps int
	)

	cmd := &cobra.Command{
		Use:       "migrate <up|down|version>",
		Short:     "Apply or roll back the articles schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgErr := bootstrap.LoadConfig()
			if cfgErr != nil {
				return cfgErr
			}

			sourceURL, pathErr := migrationsSource(dir)
			if pathErr != nil {
				return pathErr
			}

			m, newErr := migrate.New(sourceURL, cfg.Database.URL())
			if newErr != nil {
				return fmt.Errorf("create migrate instance: %w", newErr)
			}
			defer func() { _, _ = m.Close() }()

			out := cmd.OutOrStdout()
			if args[0] == "version" {
				version, dirty, versionErr := m.Version()
				if errors.Is(versionErr, migrate.ErrNilVersion) {
					fmt.Fprintln(out, "No migrations applied")
					return nil
				}
				if versionErr != nil {
					return fmt.Errorf("migration version: %w", versionErr)
				}
				fmt.Fprintf(out, "Version %d (dirty: %t)\n", version, dirty)
				return nil
			}

			if runErr := runMigration(m, args[0], steps); runErr != nil {
				if errors.Is(runErr, migrate.ErrNoChange) {
					fmt.Fprintln(out, "No migrations to apply")
					return nil
				}
				return fmt.Errorf("migration %s: %w", args[0], runErr)
			}

			fmt.Fprintf(out, "Migration %s completed successfully\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", defaultMigrationsDir, "migrations directory")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back with down (0 means all)")

	return cmd
}

func migrationsSource(dir string) (string, error) {
	abs, absErr := filepath.Abs(dir)
	if absErr != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", absErr)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func runMigration(m *migrate.Migrate, direction string, steps int) error {
	switch {
	case direction == "up":
		return m.Up()
	case steps > 0:
		return m.Steps(-steps)
	default:
		return m.Down()
	}
}
