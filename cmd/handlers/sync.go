package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"bylines/internal/config"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <journalist-id>",
		Short: "Rebuild the vector index for a journalist",
		Long: `Sync chunks every stored article with content and replaces the
journalist's entries in the vector index. Run it after scrape so questions
see the latest articles.`,
		Args: cobra.ExactArgs(1),
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

			client, vectors, err := newAIStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			indexed, err := newSyncer(cfg, st, vectors).Sync(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !indexed {
				fmt.Println("Nothing to index: scrape this journalist first")
				return nil
			}

			fmt.Println("Vector index synced")
			return nil
		},
	}
}
