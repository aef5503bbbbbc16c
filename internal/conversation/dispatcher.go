package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/diogo/askai/internal/models"
)

// Asker sends one prompt to the inference endpoint and returns its reply
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// AskerFunc adapts a function to the Asker interface
type AskerFunc func(ctx context.Context, prompt string) (string, error)

// Ask calls f(ctx, prompt)
func (f AskerFunc) Ask(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Dispatcher sends the store's draft and folds the outcome back into it.
// A cycle is Idle -> Sending -> Idle; failures become ordinary assistant
// messages and never leave the dispatcher.
type Dispatcher struct {
	store *Store
	asker Asker
}

// NewDispatcher creates a dispatcher bound to store and asker
func NewDispatcher(store *Store, asker Asker) *Dispatcher {
	return &Dispatcher{store: store, asker: asker}
}

// Store returns the store the dispatcher writes to
func (d *Dispatcher) Store() *Store {
	return d.store
}

// Send runs one complete cycle and blocks until it resolves. It returns
// false without touching the store when the draft is blank or an exchange
// is already in flight.
func (d *Dispatcher) Send(ctx context.Context) bool {
	prompt, ok := d.Begin()
	if !ok {
		return false
	}

	reply, err := d.Exchange(ctx, prompt)
	d.Complete(reply, err)
	return true
}

// Begin opens a cycle: it captures the trimmed draft as the prompt, appends
// it as a user message, clears the draft and raises pending, all in one step.
// ok is false, and nothing changes, when the draft is blank or pending is set.
func (d *Dispatcher) Begin() (prompt string, ok bool) {
	prompt, changes, ok := d.store.begin()
	if !ok {
		return "", false
	}
	notify(d.store.observersSnapshot(), changes...)
	return prompt, true
}

// Exchange performs the single outbound request of a cycle. A panic in the
// asker is returned as an error so that Complete still runs.
func (d *Dispatcher) Exchange(ctx context.Context, prompt string) (reply string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			reply, err = "", fmt.Errorf("%v", r)
		}

		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Int("prompt_len", len(prompt)).
			Dur("elapsed", time.Since(start)).
			Msg("exchange finished")
	}()

	if d.asker == nil {
		return "", fmt.Errorf("no endpoint configured")
	}
	return d.asker.Ask(ctx, prompt)
}

// Complete closes a cycle: it appends the reply verbatim, or the prefixed
// error description, and lowers pending as its last step.
func (d *Dispatcher) Complete(reply string, err error) {
	defer d.store.SetPending(false)

	if err != nil {
		d.store.AppendMessage(models.ErrorMessage(err.Error()))
		return
	}
	d.store.AppendMessage(models.AssistantMessage(reply))
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
