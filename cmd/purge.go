package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
	"github.com/jonesrussell/north-cloud/article-service/internal/service"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

func newPurgeCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored article",
		Long: `Deletes every article from the configured store. Article ids are not
reused afterwards. The memory store lives inside the serve process, so purge
only has an effect with the postgres driver.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New("refusing to purge without --force")
			}

			cfg, cfgErr := bootstrap.LoadConfig()
			if cfgErr != nil {
				return cfgErr
			}

			log, logErr := bootstrap.CreateLogger(cfg)
			if logErr != nil {
				return logErr
			}
			defer func() { _ = log.Sync() }()

			if cfg.Store.Driver == store.DriverMemory {
				log.Warn("Store driver is memory, nothing to purge")
				return nil
			}

			st, closeStore, storeErr := bootstrap.SetupStore(cmd.Context(), cfg, log)
			if storeErr != nil {
				return storeErr
			}
			defer closeStore()

			svc := service.NewArticleService(st, filter.NewEngine(st), nil, nil, log)
			if clearErr := svc.Clear(cmd.Context()); clearErr != nil {
				return clearErr
			}

			log.Info("Articles purged", infralogger.String("store", cfg.Store.Driver))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")

	return cmd
}
