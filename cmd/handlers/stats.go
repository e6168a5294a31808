package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"bylines/internal/config"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.GetStats()
			if err != nil {
				return err
			}

			fmt.Printf("Journalists:        %d\n", stats.JournalistCount)
			fmt.Printf("Articles:           %d\n", stats.ArticleCount)
			fmt.Printf("Pending backfill:   %d\n", stats.PendingCount)
			fmt.Printf("Avg content length: %.0f chars\n", stats.AvgContentLength)
			return nil
		},
	}
}
