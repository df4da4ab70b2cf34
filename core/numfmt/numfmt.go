// Package numfmt formats numbers the way the switch control scripts and log parsers expect.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Float formats f with 12 significant digits, the way the experiment scripts render floats in filenames.
// Values in [1e-4, 1e12) use positional notation with at least one fractional digit, such as "0.0006" or "2.0".
// Other values use exponent notation with at least two exponent digits, such as "1e-05" or "1e+12".
// Digits beyond the 12th are rounded away, so 0.1+0.2 renders as "0.3".
func Float(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'g', 12, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Bool formats b as "True" or "False".
func Bool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
