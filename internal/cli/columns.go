package cli

import (
	"os"

	"golang.org/x/term"
)

// FallbackColumns is used when the terminal width cannot be detected.
const FallbackColumns = 80

// detectWidth reports the width of the terminal on stdout.
var detectWidth = func() (int, error) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	return w, err
}

// ResolveColumns turns the --columns value into a width: 0 autodetects,
// a negative -X autodetects but caps at X, anything else is used as is.
func ResolveColumns(flag int, detect func() (int, error)) int {
	detected := func() int {
		w, err := detect()
		if err != nil || w <= 0 {
			return FallbackColumns
		}
		return w
	}

	switch {
	case flag == 0:
		return detected()
	case flag < 0:
		return min(-flag, detected())
	default:
		return flag
	}
}
