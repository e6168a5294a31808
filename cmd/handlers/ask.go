package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bylines/internal/config"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <journalist-id> <question>",
		Short: "Ask a question about a journalist's articles",
		Long: `Ask retrieves the journalist's most relevant article chunks and generates
an answer grounded in them, citing the articles it drew on.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			client, vectors, err := newAIStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			question := strings.Join(args[1:], " ")
			answer, err := newRAGService(cfg, vectors, client).Ask(cmd.Context(), args[0], question)
			if err != nil {
				return err
			}

			fmt.Println(answer.Text)
			if len(answer.Sources) > 0 {
				fmt.Printf("\nSources: %s\n", strings.Join(answer.Sources, "; "))
			}
			return nil
		},
	}
}
