package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"bylines/internal/config"
	"bylines/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <journalist-id>",
		Short: "Interactive chat about a journalist's articles",
		Args:  cobra.ExactArgs(1),
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

			name := args[0]
			journalists, err := st.ListJournalists()
			if err != nil {
				return err
			}
			for _, j := range journalists {
				if j.ID == args[0] && j.Name != "" {
					name = j.Name
					break
				}
			}

			client, vectors, err := newAIStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			fmt.Println("Launching chat...")
			return tui.StartChat(newRAGService(cfg, vectors, client), args[0], name)
		},
	}
}
