package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Bar border glyphs.
const (
	BorderLeft  = "▕"
	BorderRight = "▏"
)

// Fill glyphs used by the section bars.
const (
	FillBlock = '█'
	FillSpace = ' '
)

// BarPart is one weighted, labeled segment of a Bar.
type BarPart struct {
	// Labels from shortest to most detailed; the longest prefix
	// concatenation that fits is displayed.
	Labels []string
	// Share is the percentage of the bar interior the part should take.
	Share float64
	// Fill pads around the centered label. Zero means a space.
	Fill      rune
	TextStyle Style
	FillStyle Style
}

// Bar is a proportional text bar framed by border glyphs.
type Bar struct {
	Parts  []BarPart
	Border Style
}

// MinWidth is the narrowest width Render accepts.
func (b Bar) MinWidth() int {
	return len(b.Parts) + 2
}

// Render draws the bar in exactly width cells, borders included. A width
// below MinWidth is a caller bug and panics.
func (b Bar) Render(width int, p termenv.Profile) string {
	if width < b.MinWidth() {
		panic(fmt.Sprintf("render: bar width %d below minimum %d", width, b.MinWidth()))
	}

	shares := make([]float64, len(b.Parts))
	for i, part := range b.Parts {
		shares[i] = part.Share
	}
	widths := Allocate(shares, width-2)

	var sb strings.Builder
	sb.WriteString(b.Border.Render(p, BorderLeft))
	for i, part := range b.Parts {
		label, left, right := Fit(part.Labels, widths[i])
		fill := string(FillSpace)
		if part.Fill != 0 {
			fill = string(part.Fill)
		}
		sb.WriteString(part.FillStyle.Render(p, strings.Repeat(fill, left)))
		sb.WriteString(part.TextStyle.Render(p, label))
		sb.WriteString(part.FillStyle.Render(p, strings.Repeat(fill, right)))
	}
	sb.WriteString(b.Border.Render(p, BorderRight))
	return sb.String()
}

// RenderBar draws parts as an unstyled-border bar of the given width.
func RenderBar(parts []BarPart, width int, p termenv.Profile) string {
	return Bar{Parts: parts}.Render(width, p)
}

// Title centers " title " in a horizontal rule spanning columns.
func Title(title string, columns int) string {
	return lipgloss.PlaceHorizontal(columns, lipgloss.Center, " "+title+" ",
		lipgloss.WithWhitespaceChars("─"))
}

// Percent returns part as a percentage of total, 0 when total is 0.
func Percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
