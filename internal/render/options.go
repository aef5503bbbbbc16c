// Package render turns assistant replies into styled terminal output.
package render

import (
	"os"

	"github.com/diogo/askai/internal/config"
)

// EnvStyle overrides the configured glamour style
const EnvStyle = "GLAMOUR_STYLE"

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", ...) or
	// the path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return FromMarkdownConfig(config.DefaultMarkdownConfig())
}

// FromMarkdownConfig builds options from the markdown section of the config
// file. The GLAMOUR_STYLE environment variable wins over the file.
func FromMarkdownConfig(md config.MarkdownConfig) Options {
	opts := Options{
		Width:            80,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if opts.Style == "" {
		opts.Style = StyleDark
	}
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
