package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// EllipsisGlyph replaces the tail of truncated text.
const EllipsisGlyph = "…"

// Fit picks the longest prefix concatenation of labels that fits in budget
// cells and centers it. Concatenation stops at the first label that would
// overflow. left+width(label)+right always equals budget; when nothing fits
// the label is empty and left takes the whole budget.
func Fit(labels []string, budget int) (label string, left, right int) {
	if budget < 0 {
		panic(fmt.Sprintf("render: negative label budget %d", budget))
	}

	var b strings.Builder
	width := 0
	for _, l := range labels {
		w := lipgloss.Width(l)
		if width+w > budget {
			break
		}
		b.WriteString(l)
		width += w
	}

	label = b.String()
	if label == "" {
		return "", budget, 0
	}
	left = (budget - width) / 2
	right = budget - width - left
	return label, left, right
}

// Ellipsis shortens s to at most maxLen runes, ending truncated text with
// EllipsisGlyph. Strings that already fit are returned unchanged.
func Ellipsis(s string, maxLen int) string {
	if maxLen < 1 {
		panic(fmt.Sprintf("render: ellipsis length %d below 1", maxLen))
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + EllipsisGlyph
}
