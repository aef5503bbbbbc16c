package render

import (
	"strings"

	"github.com/diogo/askai/internal/models"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	r, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, r)

	return r.Render(content)
}

// Message renders a transcript entry. Assistant replies go through glamour;
// user input is returned as typed. Error notices are assistant messages too,
// so callers that know an exchange failed show its content directly. The raw
// content is returned alongside any rendering error so callers can fall back to it.
func Message(msg models.Message, opts Options) (string, error) {
	if msg.Role != models.RoleAssistant {
		return msg.Content, nil
	}

	out, err := Markdown(msg.Content, opts)
	if err != nil {
		return msg.Content, err
	}
	return strings.Trim(out, "\n"), nil
}
