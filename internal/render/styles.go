package render

import (
	"os"
	"sort"

	"github.com/charmbracelet/glamour/styles"
)

// Commonly used glamour styles
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// IsBuiltinStyle reports whether style names one of glamour's standard styles
func IsBuiltinStyle(style string) bool {
	if style == StyleAuto {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ValidateStyle accepts a builtin style name or an existing style file
func ValidateStyle(style string) error {
	if IsBuiltinStyle(style) {
		return nil
	}
	if _, err := os.Stat(style); err != nil {
		return &UnknownStyleError{Style: style}
	}
	return nil
}

// StyleNames lists the builtin style names, sorted
func StyleNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles)+1)
	names = append(names, StyleAuto)
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownStyleError is returned for a style that is neither builtin nor a file
type UnknownStyleError struct {
	Style string
}

func (e *UnknownStyleError) Error() string {
	return "unknown markdown style " + `"` + e.Style + `"`
}
