package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/diogo/askai/internal/config"
	"github.com/diogo/askai/internal/conversation"
	apierrors "github.com/diogo/askai/internal/errors"
	"github.com/diogo/askai/internal/models"
	"github.com/diogo/askai/internal/render"
	"github.com/diogo/askai/internal/tui"
)

// ErrExchangeFailed is returned when the endpoint could not produce a reply.
// The failure has already been reported by the time it is returned.
var ErrExchangeFailed = errors.New("exchange failed")

// queryFlags configure the one-shot query
type queryFlags struct {
	output string
	file   string
	raw    bool
	copy   bool
}

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#7dcfff"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#e0af68"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#f7768e"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// spinner draws an animated "thinking" line on w until stopped
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spin, msg, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.w, "%s %s\n", check, lipgloss.NewStyle().Foreground(colorSuccess).Render(message))
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// failureRecorder keeps the outcome of the last exchange. The transcript only
// carries it as text, and a reply may legitimately look like an error notice.
type failureRecorder struct {
	asker    conversation.Asker
	answered bool
	err      error
}

func (r *failureRecorder) Ask(ctx context.Context, prompt string) (string, error) {
	r.answered, r.err = false, nil
	reply, err := r.asker.Ask(ctx, prompt)
	r.answered, r.err = true, err
	return reply, err
}

// failed reports whether the exchange ended without a reply. An asker that
// panicked never answered.
func (r *failureRecorder) failed() bool {
	return !r.answered || r.err != nil
}

// runQuery runs one dispatch cycle on a fresh conversation and prints the
// assistant message. Decoration is used only when stdout is a terminal.
func runQuery(ctx context.Context, deps *Dependencies, cfg config.Config, prompt string, q queryFlags) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	recorder := &failureRecorder{asker: client}
	store := conversation.NewStore()
	store.SetDraft(prompt)
	d := conversation.NewDispatcher(store, recorder)

	decorated := !q.raw && isTerminal(deps.Stdout)

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "AI is thinking")
		spin.start()
	}

	start := time.Now()
	if !d.Send(ctx) {
		if spin != nil {
			spin.stopWithError()
		}
		return apierrors.ErrEmptyPrompt
	}

	reply, _ := store.Last()
	if recorder.failed() {
		if spin != nil {
			spin.stopWithError()
		}

		cause := recorder.err
		if cause == nil {
			cause = errors.New(strings.TrimPrefix(reply.Content, models.ErrorPrefix))
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, tui.FormatError(cause))
		} else {
			fmt.Fprintln(deps.Stderr, reply.Content)
		}
		return fmt.Errorf("%w: %v", ErrExchangeFailed, cause)
	}

	if spin != nil {
		spin.stopWithSuccess("Done")
	}
	log.Debug().
		Str("endpoint", client.Endpoint()).
		Dur("elapsed", time.Since(start)).
		Int("reply_len", len(reply.Content)).
		Msg("query finished")

	return writeReply(deps, cfg, reply, q, decorated)
}

// writeReply copies, saves or prints the reply
func writeReply(deps *Dependencies, cfg config.Config, reply models.Message, q queryFlags, decorated bool) error {
	text := reply.Content

	if q.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			log.Warn().Err(err).Msg("failed to copy reply to clipboard")
			if decorated {
				fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
					fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
				))
			}
		} else if decorated {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if q.output != "" {
		if err := os.WriteFile(q.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", q.output),
			))
		}
		return nil
	}

	if !decorated {
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	bubbleWidth := terminalWidth(deps.Stdout) - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	rendered, err := render.Message(reply, render.FromMarkdownConfig(cfg.Markdown).WithWidth(bubbleWidth-4))
	if err != nil {
		log.Debug().Err(err).Msg("markdown render failed, printing raw reply")
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("🤖 "+reply.Role.Label()))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// isTerminal returns true if w is connected to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the terminal width or a default value
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
