package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTUITheme is used when the configured theme is unknown
const DefaultTUITheme = "tokyonight"

// TUITheme is the color scheme of the chat view
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color
	// User labels the user's messages and the header
	User lipgloss.Color
	// Assistant labels the assistant's replies
	Assistant lipgloss.Color
	// Pending colors the thinking indicator
	Pending lipgloss.Color
	Error   lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night, blue accents on a dark background",
		Border:      "#414868",
		User:        "#7aa2f7",
		Assistant:   "#9ece6a",
		Pending:     "#bb9af7",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha pastels",
		Border:      "#45475a",
		User:        "#89b4fa",
		Assistant:   "#a6e3a1",
		Pending:     "#cba6f7",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
	},
	"nord": {
		Name:        "nord",
		Description: "Nord frost and aurora tones",
		Border:      "#4c566a",
		User:        "#88c0d0",
		Assistant:   "#a3be8c",
		Pending:     "#b48ead",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
	},
	"light": {
		Name:        "light",
		Description: "High contrast for bright terminals",
		Border:      "#a0a1a7",
		User:        "#4078f2",
		Assistant:   "#50a14f",
		Pending:     "#a626a4",
		Error:       "#e45649",
		Text:        "#383a42",
		TextDim:     "#696c77",
	},
}

// TUIThemeByName returns a theme by its name
func TUIThemeByName(name string) (TUITheme, bool) {
	t, ok := tuiThemes[name]
	return t, ok
}

// TUIThemeOrDefault returns the named theme, or the default one when the
// name is unknown
func TUIThemeOrDefault(name string) TUITheme {
	if t, ok := tuiThemes[name]; ok {
		return t
	}
	return tuiThemes[DefaultTUITheme]
}

// TUIThemeNames returns the theme names, sorted
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
