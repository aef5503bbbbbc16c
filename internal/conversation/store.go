// Package conversation holds the in-memory chat state and the dispatcher that
// folds one request/response exchange at a time into it.
package conversation

import (
	"sync"

	"github.com/diogo/askai/internal/models"
)

// ChangeKind identifies which part of the state a mutation touched
type ChangeKind int

const (
	DraftChanged ChangeKind = iota
	MessageAppended
	PendingChanged
)

func (k ChangeKind) String() string {
	switch k {
	case DraftChanged:
		return "draft"
	case MessageAppended:
		return "message"
	case PendingChanged:
		return "pending"
	default:
		return "unknown"
	}
}

// Change describes a single mutation of the store
type Change struct {
	Kind ChangeKind
	// Message is set for MessageAppended
	Message models.Message
	// Index is the position of the appended message
	Index int
	// Pending is the new value for PendingChanged
	Pending bool
	// Draft is the new value for DraftChanged
	Draft string
}

// State is a consistent copy of the store contents
type State struct {
	History []models.Message
	Draft   string
	Pending bool
}

// CanSend reports whether a send would be accepted in this state
func (s State) CanSend() bool {
	return !s.Pending && trimmed(s.Draft) != ""
}

// Store is the conversation state of one chat session. The history is
// append-only; the store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	history   []models.Message
	draft     string
	pending   bool
	observers []func(Change)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Observe registers fn to be called after every mutation. Observers run on
// the mutating goroutine, outside the store lock, in registration order.
func (s *Store) Observe(fn func(Change)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// History returns a copy of the transcript, oldest first
func (s *Store) History() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHistory(s.history)
}

// Len returns the number of messages in the transcript
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Last returns the newest message, if any
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return models.Message{}, false
	}
	return s.history[len(s.history)-1], true
}

// Draft returns the text currently being composed
func (s *Store) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Pending reports whether an exchange is in flight
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Snapshot returns all three fields read under one lock
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		History: copyHistory(s.history),
		Draft:   s.draft,
		Pending: s.pending,
	}
}

// SetDraft replaces the draft unconditionally
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	observers := s.observers
	s.mu.Unlock()

	notify(observers, Change{Kind: DraftChanged, Draft: text})
}

// AppendMessage adds msg to the end of the transcript
func (s *Store) AppendMessage(msg models.Message) {
	s.mu.Lock()
	index := s.appendLocked(msg)
	observers := s.observers
	s.mu.Unlock()

	notify(observers, Change{Kind: MessageAppended, Message: msg, Index: index})
}

// SetPending toggles the in-flight gate
func (s *Store) SetPending(pending bool) {
	s.mu.Lock()
	s.pending = pending
	observers := s.observers
	s.mu.Unlock()

	notify(observers, Change{Kind: PendingChanged, Pending: pending})
}

// begin performs the opening half of a send atomically: it checks the gate,
// appends the user message, clears the draft and raises pending.
func (s *Store) begin() (string, []Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := trimmed(s.draft)
	if s.pending || prompt == "" {
		return "", nil, false
	}

	msg := models.UserMessage(prompt)
	index := s.appendLocked(msg)
	s.draft = ""
	s.pending = true

	changes := []Change{
		{Kind: MessageAppended, Message: msg, Index: index},
		{Kind: DraftChanged, Draft: ""},
		{Kind: PendingChanged, Pending: true},
	}
	return prompt, changes, true
}

func (s *Store) observersSnapshot() []func(Change) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observers
}

// appendLocked must be called with s.mu held for writing
func (s *Store) appendLocked(msg models.Message) int {
	s.history = append(s.history, msg)
	return len(s.history) - 1
}

func notify(observers []func(Change), changes ...Change) {
	for _, c := range changes {
		for _, fn := range observers {
			fn(c)
		}
	}
}

func copyHistory(h []models.Message) []models.Message {
	if len(h) == 0 {
		return []models.Message{}
	}
	out := make([]models.Message, len(h))
	copy(out, h)
	return out
}
