// Package commands provides CLI commands for askai.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/diogo/askai/internal/config"
	"github.com/diogo/askai/internal/logging"
	"github.com/diogo/askai/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every command
type globalFlags struct {
	endpoint string
	logLevel string
	logFile  string
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	var (
		g globalFlags
		q queryFlags
	)

	cmd := &cobra.Command{
		Use:   "askai [prompt]",
		Short: "Chat with an AI inference endpoint from the terminal",
		Long: `askai sends prompts to an inference endpoint that answers
POST {"prompt": "..."} with {"reply": "..."} and shows the conversation.

Examples:
  askai chat                            Start interactive chat
  askai "What is Go?"                   Send a single query
  askai -f prompt.md                    Read prompt from file
  cat prompt.md | askai                 Read prompt from stdin
  askai "Hello" -o response.md          Save response to file
  askai serve                           Run a local endpoint to talk to
  askai config set endpoint http://host:8000/api/ask-ai`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "askai %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(args, q.file, deps.Stdin)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			cfg, closer, err := prepare(&g, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			return runQuery(cmd.Context(), deps, cfg, prompt, q)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&g.endpoint, "endpoint", "", "Endpoint URL (default from config or "+config.EnvEndpoint+")")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().StringVarP(&q.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&q.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&q.raw, "raw", false, "Print the reply without decoration")
	cmd.Flags().BoolVar(&q.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, &g))
	cmd.AddCommand(newServeCmd(deps, &g))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	deps := NewDependencies()
	err := NewRootCmd(deps).ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, ErrExchangeFailed) {
			fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		}
		os.Exit(1)
	}
}

// prepare loads the configuration, applies the global flags and installs the
// logger. toFile sends logs to a file so they don't draw over a TUI.
func prepare(g *globalFlags, toFile bool) (config.Config, io.Closer, error) {
	cfg, cfgErr := config.LoadConfig()
	if g.endpoint != "" {
		cfg.Endpoint = g.endpoint
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	opts := logging.Options{Level: cfg.LogLevel, File: g.logFile, Console: true}
	if opts.File == "" && toFile {
		path, err := config.GetLogPath()
		if err != nil {
			return cfg, nil, err
		}
		opts.File = path
	}

	closer, err := logging.Setup(opts)
	if err != nil {
		return cfg, nil, err
	}
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("using default configuration")
	}
	return cfg, closer, nil
}

// readPrompt picks the prompt from -f, then the positional argument, then
// piped stdin. ok is false when none of them was given.
func readPrompt(args []string, file string, stdin io.Reader) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", false, nil
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r carries input other than a terminal
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
