package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"bylines/internal/config"
)

// NewScrapeCmd creates the scrape command
func NewScrapeCmd() *cobra.Command {
	var maxArticles int

	cmd := &cobra.Command{
		Use:   "scrape <profile-id>",
		Short: "Discover and backfill a journalist's articles",
		Long: `Scrape walks the journalist's profile listing, inserts newly discovered
articles as stubs, then fetches full text and metadata for every article
still missing it. Re-running is safe: known articles are skipped and only
pending rows are fetched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if maxArticles == 0 {
				maxArticles = cfg.Scrape.MaxArticles
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			summary, err := newPipeline(cfg, st).Run(cmd.Context(), args[0], maxArticles)
			if err != nil {
				return err
			}

			fmt.Printf("Scraped %s: %d articles updated\n", summary.JournalistName, summary.Updated)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxArticles, "max", 0, "maximum articles to discover (0 = use config, negative = unbounded)")
	return cmd
}
