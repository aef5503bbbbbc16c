package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/askai/internal/api"
	"github.com/diogo/askai/internal/config"
	"github.com/diogo/askai/internal/conversation"
	"github.com/diogo/askai/internal/server"
	"github.com/diogo/askai/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the transport used by the dispatcher.
	NewClient func(cfg config.Config) (api.AskClient, error)

	// RunChat starts the interactive chat view.
	RunChat func(ctx context.Context, d *conversation.Dispatcher, opts tui.Options) error

	// RunServer serves the ask endpoint until ctx is done.
	RunServer func(ctx context.Context, addr string, p server.Provider) error

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newAPIClient,
		RunChat:   tui.Run,
		RunServer: func(ctx context.Context, addr string, p server.Provider) error {
			return server.New(addr, p).Run(ctx)
		},
		Clipboard: clipboard.WriteAll,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

func newAPIClient(cfg config.Config) (api.AskClient, error) {
	return api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(cfg.Timeout()),
	)
}
