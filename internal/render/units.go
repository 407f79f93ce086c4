package render

import "fmt"

// Base is the multiplier between two consecutive unit prefixes.
type Base uint64

const (
	// Binary prefixes (K, M, G, T as powers of 1024).
	Binary Base = 1024
	// Decimal SI prefixes (k, M, G, T as powers of 1000).
	Decimal Base = 1000
)

// FormatUnit formats val with the largest prefix whose factor it reaches,
// checking T, G, M then K. prec is the number of decimals used when a prefix
// applies; values below the first factor print as a plain integer.
//
// The divided value is formatted as is, so a value just under the next factor
// can print as "1000.0 kB".
func FormatUnit(val uint64, unit string, base Base, prec int) string {
	b := uint64(base)
	kilo := "K"
	if base == Decimal {
		kilo = "k"
	}
	prefixes := [...]struct {
		factor uint64
		name   string
	}{
		{b * b * b * b, "T"},
		{b * b * b, "G"},
		{b * b, "M"},
		{b, kilo},
	}
	for _, p := range prefixes {
		if val >= p.factor {
			return fmt.Sprintf("%.*f %s%s", prec, float64(val)/float64(p.factor), p.name, unit)
		}
	}
	return fmt.Sprintf("%d %s", val, unit)
}

// Bytes formats a byte count with binary prefixes and one decimal.
func Bytes(v uint64) string {
	return FormatUnit(v, "B", Binary, 1)
}

// BitRate formats a bits per second rate with SI prefixes and two decimals.
func BitRate(v uint64) string {
	return FormatUnit(v, "b/s", Decimal, 2)
}
