package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/askai/internal/server"
)

func newServeCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	var addr, provider string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local ask-ai endpoint",
		Long: `Serve POST /api/ask-ai so the chat client has something to talk to.

The openai provider answers with a chat completion and needs OPENAI_API_KEY.
The echo provider returns every prompt unchanged and is used when no key
is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := prepare(g, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}
			if provider != "" {
				cfg.Server.Provider = provider
			}

			p, err := server.NewProvider(cfg.Server)
			if err != nil {
				return err
			}
			return deps.RunServer(cmd.Context(), cfg.Server.Addr, p)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8000)")
	cmd.Flags().StringVar(&provider, "provider", "", "Reply provider: echo or openai")

	return cmd
}
