package cmd

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/article-service/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

func newFilterCommand() *cobra.Command {
	var raw filter.RawCriteria

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter stored articles and print them as a table",
		Long: `Runs the article filter against the configured store. The memory store
lives inside the serve process, so filter only reads articles with the
postgres driver.

Example:
  article-service filter --tags parkme --date-from 2015/10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, parseErr := filter.ParseCriteria(raw)
			if parseErr != nil {
				return parseErr
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
				log.Warn("Store driver is memory, nothing to filter")
				return nil
			}

			st, closeStore, storeErr := bootstrap.SetupStore(cmd.Context(), cfg, log)
			if storeErr != nil {
				return storeErr
			}
			defer closeStore()

			engine := filter.NewEngine(st, filter.WithCaseSensitive(cfg.Filter.CaseSensitive))
			articles, filterErr := engine.Filter(cmd.Context(), criteria)
			if filterErr != nil {
				return filterErr
			}

			renderArticles(cmd.OutOrStdout(), articles)
			return nil
		},
	}

	cmd.Flags().StringVar(&raw.Tags, "tags", "", "tag the article must carry")
	cmd.Flags().StringVar(&raw.Author, "author", "", "exact author")
	cmd.Flags().StringVar(&raw.Title, "title", "", "title substring")
	cmd.Flags().StringVar(&raw.DateFrom, "date-from", "", "earliest date, YYYY[/MM[/DD]]")
	cmd.Flags().StringVar(&raw.DateTo, "date-to", "", "latest date, YYYY[/MM[/DD]]")

	return cmd
}

func renderArticles(w io.Writer, articles []domain.Article) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "View ID", "Date", "Author", "Title", "Tags"})
	for i := range articles {
		a := &articles[i]
		t.AppendRow(table.Row{a.ID, a.ViewID, a.Date, a.Author, a.Title, strings.Join(a.Tags, ", ")})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(articles)})

	t.Render()
}
