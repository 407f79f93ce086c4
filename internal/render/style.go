package render

import "github.com/muesli/termenv"

// Color is an ANSI color number understood by termenv ("1" is red).
type Color string

// Palette, using the basic ANSI colors so output matches the user's theme.
const (
	NoColor Color = ""
	Red     Color = "1"
	Green   Color = "2"
	Yellow  Color = "3"
	Blue    Color = "4"
	Cyan    Color = "6"
	Gray    Color = "8"
)

// Style is an immutable set of terminal text attributes. It is only turned
// into escape sequences by Render, when the final string is assembled.
type Style struct {
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Reverse   bool
	Color     Color
}

// Plain carries no attribute at all.
var Plain = Style{}

// Reversed returns a copy of s with reverse video enabled.
func (s Style) Reversed() Style {
	s.Reverse = true
	return s
}

// Render wraps text in the escape sequences for s under profile p. Each
// rendering ends with a reset so attributes never leak into what follows.
// Empty text renders as an empty string.
func (s Style) Render(p termenv.Profile, text string) string {
	if text == "" {
		return ""
	}
	ts := p.String(text)
	if s.Bold {
		ts = ts.Bold()
	}
	if s.Dim {
		ts = ts.Faint()
	}
	if s.Italic {
		ts = ts.Italic()
	}
	if s.Underline {
		ts = ts.Underline()
	}
	if s.Reverse {
		ts = ts.Reverse()
	}
	if s.Color != NoColor {
		ts = ts.Foreground(p.Color(string(s.Color)))
	}
	return ts.String()
}

// Layout is the render configuration computed once per run and handed to
// every section renderer.
type Layout struct {
	// Columns is the terminal width to render for.
	Columns int
	// Profile decides which escape sequences are emitted.
	Profile termenv.Profile
}

// Paint renders text with s under the layout's color profile.
func (l Layout) Paint(s Style, text string) string {
	return s.Render(l.Profile, text)
}
