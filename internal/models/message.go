package models

import "fmt"

// Role identifies the author of a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label returns the display label used by the chat views
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "AI"
	default:
		return string(r)
	}
}

// Message is one turn of the conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a message authored by the user
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a message authored by the assistant
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ErrorMessage builds the assistant message shown for a failed exchange
func ErrorMessage(description string) Message {
	return AssistantMessage(ErrorPrefix + description)
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Role, m.Content)
}
