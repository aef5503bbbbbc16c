package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/diogo/askai/internal/config"
	"github.com/diogo/askai/internal/conversation"
	"github.com/diogo/askai/internal/render"
	"github.com/diogo/askai/internal/tui"
)

func newChatCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Every prompt is sent on its own; the endpoint sees no earlier turns.
Enter sends, Alt+Enter inserts a newline, Ctrl+Y copies the last reply.
Press Esc or Ctrl+C to end the session. Logs go to ~/.askai/askai.log
unless --log-file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := prepare(g, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			return runChat(cmd.Context(), deps, cfg)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, cfg config.Config) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	d := conversation.NewDispatcher(conversation.NewStore(), client)

	log.Info().Str("endpoint", client.Endpoint()).Msg("chat session started")
	defer log.Info().Msg("chat session ended")

	return deps.RunChat(ctx, d, tui.Options{
		Endpoint:  client.Endpoint(),
		Render:    render.FromMarkdownConfig(cfg.Markdown),
		Theme:     cfg.TUITheme,
		Clipboard: deps.Clipboard,
	})
}
