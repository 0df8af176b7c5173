// This package resolves the CSS math functions ("calc()", "min()", "round()"
// and friends) that may appear in the components of a color. Relative
// lengths are converted to pixels through caller-supplied ratios, numbers
// are folded where possible, and anything that can't be resolved is left in
// a canonical textual form.
package css_calc

import (
	"math"
	"regexp"
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
)

const mathFuncs = `abs|acos|asin|atan2?|calc|clamp|cos|exp|hypot|log|max|min|mod|pow|rem|round|sign|sin|sqrt|tan`

var (
	mathStartRegexp    = regexp.MustCompile(`^(?:` + mathFuncs + `)\($`)
	mathCalcRegexp     = regexp.MustCompile(`(?i)(?:^|[^a-z0-9_-])(?:` + mathFuncs + `)\(`)
	mathVarStartRegexp = regexp.MustCompile(`^(?:` + mathFuncs + `|var)\(`)
	varRegexp          = regexp.MustCompile(`(?i)(?:^|[^a-z0-9_-])var\(`)
)

// HasMath reports whether the text contains a math function.
func HasMath(text string) bool {
	return mathCalcRegexp.MatchString(text)
}

// HasVar reports whether the text contains a "var()" reference.
func HasVar(text string) bool {
	return varRegexp.MatchString(text)
}

// StartsWithMathOrVar reports whether the (lower-case) text is a math
// function or a "var()" reference.
func StartsWithMathOrVar(text string) bool {
	return mathVarStartRegexp.MatchString(text)
}

// ResolveDimension converts a dimension token to pixels using the ratios in
// the options. Pixels are returned as written.
func ResolveDimension(token css_lexer.Token, contents string, opts *config.Options) (string, bool) {
	if token.Kind != css_lexer.TDimension {
		return "", false
	}
	unit := token.Unit(contents)
	if unit == "px" {
		return token.Raw(contents), true
	}
	value := token.Value(contents)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}

	pixels, ok := opts.Dimension[unit]
	if !ok && opts.DimensionCallback != nil {
		pixels, ok = opts.DimensionCallback(unit)
	}
	if !ok || math.IsNaN(pixels) || math.IsInf(pixels, 0) {
		return "", false
	}
	return helpers.FormatNumber(value*pixels) + "px", true
}

// ParseTokens rebuilds the text of a value with relative lengths resolved
// to pixels. A specified value keeps its dimensions as written unless they
// appear directly inside a math function. Whitespace is collapsed to a
// single space and dropped after an opening parenthesis and before a
// closing one.
func ParseTokens(tokens []css_lexer.Token, contents string, opts *config.Options) []string {
	mathDepths := make(map[int]bool)
	depth := 0
	var out []string

	for _, token := range tokens {
		switch token.Kind {
		case css_lexer.TDimension:
			raw := token.Raw(contents)
			if opts.Format == config.FormatSpecified && !mathDepths[depth] {
				out = append(out, raw)
			} else if resolved, ok := ResolveDimension(token, contents, opts); ok {
				out = append(out, resolved)
			} else {
				out = append(out, raw)
			}

		case css_lexer.TFunction, css_lexer.TOpenParen:
			raw := token.Raw(contents)
			out = append(out, raw)
			depth++
			if mathStartRegexp.MatchString(raw) {
				mathDepths[depth] = true
			}

		case css_lexer.TCloseParen:
			if n := len(out); n > 0 && out[n-1] == " " {
				out[n-1] = ")"
			} else {
				out = append(out, ")")
			}
			delete(mathDepths, depth)
			depth--

		case css_lexer.TWhitespace:
			if n := len(out); n > 0 && !strings.HasSuffix(out[n-1], "(") && out[n-1] != " " {
				out = append(out, " ")
			}

		case css_lexer.TComment:

		default:
			out = append(out, token.Raw(contents))
		}
	}

	return out
}

// CSSCalc resolves every math function in a value. A "var()" reference must
// already have been substituted unless the value is being specified, in which
// case the text is returned unchanged. Lengths and percentages produced by a
// top-level math function are rounded to six significant digits, and a
// specified value keeps its "calc()" wrapper.
func CSSCalc(log logger.Log, value string, opts *config.Options) (string, error) {
	if HasVar(value) {
		if opts.Format == config.FormatSpecified {
			return value, nil
		}
		return "", helpers.ErrUnexpectedVar
	}
	if !HasMath(value) {
		return value, nil
	}
	value = strings.TrimSpace(strings.ToLower(value))

	values := ParseTokens(tokenize(log, value), value, opts)
	resolved := Evaluate(log, strings.Join(values, ""), EvalOptions{})

	if StartsWithMathOrVar(value) {
		if match := dimPctRegexp.FindStringSubmatch(resolved); match != nil {
			resolved = helpers.FormatNumber(helpers.ToPrecision(helpers.ParseNumberPrefix(match[1]), 6)) + match[2]
		}
		if resolved != "" && !StartsWithMathOrVar(resolved) && opts.Format == config.FormatSpecified {
			resolved = "calc(" + resolved + ")"
		}
	}

	log.AddVerbose("Resolved \"" + value + "\" to \"" + resolved + "\"")
	return resolved, nil
}
