package circuit

import (
	"math"
	"strconv"
	"strings"

	"github.com/voltlab/voltra/pkg/errors"
)

// scale factors in SPICE notation. "meg" must be matched before "m".
var scaleFactors = []struct {
	suffix string
	mult   float64
}{
	{"meg", 1e6},
	{"t", 1e12},
	{"g", 1e9},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"µ", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

// ParseValue parses a SPICE-style number with an optional scale suffix:
// "5n" is 5e-9, "10u" is 1e-5, "1meg" is 1e6. Following SPICE convention,
// any letters after the scale factor are ignored as units ("5ns", "10uF").
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidNetlist, "empty value")
	}

	// Split off the longest numeric prefix.
	end := len(s)
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
			continue
		}
		if (r == 'e' || r == 'E') && i > 0 && hasExponent(s[i:]) {
			continue
		}
		end = i
		break
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidNetlist, "invalid value %q", s)
	}

	rest := strings.ToLower(s[end:])
	for _, f := range scaleFactors {
		if strings.HasPrefix(rest, f.suffix) {
			return v * f.mult, nil
		}
	}
	return v, nil
}

// hasExponent reports whether s starts with a valid exponent part ("e12",
// "E-9"). Without a digit after the sign the 'e' belongs to a suffix
// instead (none today, but "5e" should not silently parse).
func hasExponent(s string) bool {
	if len(s) < 2 {
		return false
	}
	i := 1
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	return i < len(s) && s[i] >= '0' && s[i] <= '9'
}

// FormatValue renders a number for deck output, using engineering suffixes
// for magnitudes outside the comfortable plain-decimal range: 1e-12 is "1p",
// 180e-9 is "180n", 0.7 stays "0.7".
func FormatValue(v float64) string {
	if v == 0 {
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-2 && abs < 1e4 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	type unit struct {
		mult   float64
		suffix string
	}
	units := []unit{
		{1e12, "t"}, {1e9, "g"}, {1e6, "meg"}, {1e3, "k"},
		{1, ""}, {1e-3, "m"}, {1e-6, "u"}, {1e-9, "n"}, {1e-12, "p"}, {1e-15, "f"},
	}
	for _, u := range units {
		if abs >= u.mult {
			return strconv.FormatFloat(v/u.mult, 'g', -1, 64) + u.suffix
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
