package handlers

import (
	"github.com/spf13/cobra"

	"bylines/internal/config"
	"bylines/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard JSON API",
		Long: `Serve exposes journalists, articles, analytics, scraping, index syncs and
question answering over HTTP for the dashboard frontend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
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

			srv := server.New(st,
				newPipeline(cfg, st),
				newSyncer(cfg, st, vectors),
				newRAGService(cfg, vectors, client),
			)
			return srv.Run(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (0 = use config)")
	return cmd
}
