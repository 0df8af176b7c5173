package helpers

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber prints a float the way JavaScript's "Number#toString" does,
// which is the number syntax CSS serializers emit.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		// Go pads the exponent to two digits ("1e-07") but JavaScript doesn't
		text := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(text, "e")
		digits := strings.TrimLeft(exponent[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + exponent[:1] + digits
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round is JavaScript's "Math.round", which rounds halfway cases towards
// positive infinity instead of away from zero.
func Round(v float64) float64 {
	r := math.Round(v)
	if v < 0 && r-v == -0.5 {
		r += 1
	}
	return r
}

// ToPrecision is "parseFloat(v.toPrecision(digits))".
func ToPrecision(v float64, digits int) float64 {
	return roundDecimal(v, 'e', digits-1)
}

// ToFixed is "parseFloat(v.toFixed(digits))".
func ToFixed(v float64, digits int) float64 {
	return roundDecimal(v, 'f', digits)
}

const tieDigits = 30

// Go breaks exact decimal ties towards the even digit while JavaScript picks
// the larger magnitude, so exact ties are detected from a longer expansion
// and bumped by hand.
func roundDecimal(v float64, verb byte, prec int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	long := strconv.FormatFloat(math.Abs(v), verb, prec+tieDigits, 64)
	mantissa, exponent := long, "0"
	if verb == 'e' {
		mantissa, exponent, _ = strings.Cut(long, "e")
	}
	kept, rest := mantissa[:len(mantissa)-tieDigits], mantissa[len(mantissa)-tieDigits:]
	if rest[0] != '5' || strings.TrimRight(rest[1:], "0") != "" {
		result, _ := strconv.ParseFloat(strconv.FormatFloat(v, verb, prec, 64), 64)
		return result
	}

	scale := 0
	if dot := strings.IndexByte(kept, '.'); dot != -1 {
		scale = len(kept) - dot - 1
		kept = kept[:dot] + kept[dot+1:]
	}
	exp, _ := strconv.Atoi(exponent)
	result, _ := strconv.ParseFloat(incrementDigits(kept)+"e"+strconv.Itoa(exp-scale), 64)
	if v < 0 {
		result = -result
	}
	return result
}

func incrementDigits(digits string) string {
	bytes := []byte(digits)
	for i := len(bytes) - 1; i >= 0; i-- {
		if bytes[i] != '9' {
			bytes[i]++
			return string(bytes)
		}
		bytes[i] = '0'
	}
	return "1" + string(bytes)
}

// ParseNumberPrefix is JavaScript's "parseFloat": it reads the longest prefix
// that looks like a number and ignores anything after it, such as a unit or
// a "%" sign. Out-of-range values become infinities.
func ParseNumberPrefix(text string) float64 {
	end := NumberPrefixLength(text)
	if end == 0 {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return math.NaN()
		}
	}
	return value
}

// NumberPrefixLength returns the length of the leading number in "text", or
// zero if there isn't one.
func NumberPrefixLength(text string) int {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	hasDigits := i > start
	if i < len(text) && text[i] == '.' {
		j := i + 1
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j > i+1 || hasDigits {
			hasDigits = true
			i = j
		}
	}
	if !hasDigits {
		return 0
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		if k := j; k < len(text) && isDigit(text[k]) {
			for k < len(text) && isDigit(text[k]) {
				k++
			}
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Clamp limits "v" to the closed range "[lo, hi]".
func Clamp(v float64, lo float64, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
