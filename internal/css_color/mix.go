package css_color

import (
	"math"
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/helpers"
)

type mixOperand struct {
	color string
	pct   string
}

type colorMix struct {
	space    string
	hueArc   string
	operands [2]mixOperand
}

// Splits "a, b, c" on commas that aren't nested inside parentheses.
func splitTopLevelCommas(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(text[start:]))
}

// Reads the structure of a "color-mix()" without validating the colors.
func parseColorMix(value string) (colorMix, bool) {
	const prefix = "color-mix("
	if !strings.HasPrefix(value, prefix) || !strings.HasSuffix(value, ")") {
		return colorMix{}, false
	}
	args := splitTopLevelCommas(value[len(prefix) : len(value)-1])
	if len(args) != 3 {
		return colorMix{}, false
	}
	match := mixSpaceRegexp.FindStringSubmatch(args[0])
	if match == nil {
		return colorMix{}, false
	}
	mix := colorMix{space: match[1]}
	if hue := hueSpaceRegexp.FindStringSubmatch(match[1]); hue != nil {
		mix.space, mix.hueArc = hue[1], hue[2]
	}
	if mix.space == "xyz" {
		mix.space = "xyz-d65"
	}
	for i, arg := range args[1:] {
		part := mixPartRegexp.FindStringSubmatch(arg)
		if part == nil {
			return colorMix{}, false
		}
		mix.operands[i] = mixOperand{color: part[1], pct: part[2]}
	}
	return mix, true
}

type mixWeights struct {
	pA float64
	pB float64

	// Alpha multiplier for percentages that sum to less than 100%
	m float64
}

func parsePercent(text string) float64 {
	return helpers.ParseNumberPrefix(text) / 100
}

func (mix colorMix) weights() (mixWeights, bool) {
	pctA, pctB := mix.operands[0].pct, mix.operands[1].pct
	inRange := func(p float64) bool { return p >= 0 && p <= 1 }
	switch {
	case pctA != "" && pctB != "":
		p1, p2 := parsePercent(pctA), parsePercent(pctB)
		if !inRange(p1) || !inRange(p2) {
			return mixWeights{}, false
		}
		factor := p1 + p2
		if factor == 0 {
			return mixWeights{}, false
		}
		w := mixWeights{pA: p1 / factor, pB: p2 / factor, m: 1}
		if factor < 1 {
			w.m = factor
		}
		return w, true
	case pctA != "":
		pA := parsePercent(pctA)
		if !inRange(pA) {
			return mixWeights{}, false
		}
		return mixWeights{pA: pA, pB: 1 - pA, m: 1}, true
	case pctB != "":
		pB := parsePercent(pctB)
		if !inRange(pB) {
			return mixWeights{}, false
		}
		return mixWeights{pA: 1 - pB, pB: pB, m: 1}, true
	}
	return mixWeights{pA: 0.5, pB: 0.5, m: 1}, true
}

func mixFailure(format config.Format) Result {
	if format == config.FormatSpecified {
		return Result{Kind: ResultEmpty}
	}
	return Computed(Transparent)
}

// ResolveColorMix resolves "color-mix()". The specified format returns the
// normalized function. The computed format returns the mixed color in the
// interpolation space, except that hsl and hwb mixes come back as sRGB.
// Any other format returns byte channels.
//
// Operands may themselves be "color-mix()" functions, up to the configured
// nesting depth.
func ResolveColorMix(value string, opts Options) (Result, error) {
	return resolveColorMix(value, opts, 0)
}

func resolveColorMix(value string, opts Options, depth int) (Result, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = helpers.DefaultMaxDepth
	}
	if depth > maxDepth {
		return Result{}, helpers.ErrTooDeeplyNested
	}

	value = strings.ToLower(strings.TrimSpace(value))
	format := opts.Format
	mix, ok := parseColorMix(value)
	if !ok {
		return mixFailure(format), nil
	}

	nested := [2]bool{}
	for i := range mix.operands {
		color := mix.operands[i].color
		if !strings.HasPrefix(color, "color-mix(") {
			if !colorRegexp.MatchString(color) {
				return mixFailure(format), nil
			}
			continue
		}
		inner := Options{Format: config.FormatComputed, MaxDepth: opts.MaxDepth}
		if format == config.FormatSpecified {
			inner.Format = config.FormatSpecified
		}
		result, err := resolveColorMix(color, inner, depth+1)
		if err != nil {
			return Result{}, err
		}
		switch result.Kind {
		case ResultSpecified:
			mix.operands[i].color = result.Text
		case ResultComputed:
			if v := result.Tuple.Values; !result.Tuple.HasNone() &&
				v[0].Value == 0 && v[1].Value == 0 && v[2].Value == 0 && v[3].Value == 0 {
				return mixFailure(format), nil
			}
			mix.operands[i].color = result.Tuple.Literal()
		default:
			return mixFailure(format), nil
		}
		nested[i] = true
	}

	w, ok := mix.weights()
	if !ok {
		return mixFailure(format), nil
	}

	if format == config.FormatSpecified {
		return mix.specified(nested)
	}
	return mix.compute(w, opts)
}

// Serializes one operand of a specified "color-mix()".
func specifiedOperand(color string, nested bool) (string, bool, error) {
	if nested {
		return color, true, nil
	}
	opts := Options{Format: config.FormatSpecified}
	if isColorFunc(color) {
		result, err := ParseColorFunc(color, opts)
		if err != nil {
			return "", false, err
		}
		if result.Kind == ResultComputed {
			return result.Tuple.Literal(), true, nil
		}
		return "", true, nil
	}
	result, err := ParseColorValue(color, opts)
	if err != nil {
		return "", false, err
	}
	switch result.Kind {
	case ResultSpecified:
		return result.Text, true, nil
	case ResultComputed:
		if result.Tuple.Space == SpaceRGB {
			return result.Tuple.LegacyRGB(), true, nil
		}
		return result.Tuple.Literal(), true, nil
	}
	return "", false, nil
}

func (mix colorMix) specified(nested [2]bool) (Result, error) {
	var values [2]string
	for i, operand := range mix.operands {
		text, ok, err := specifiedOperand(operand.color, nested[i])
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Kind: ResultEmpty}, nil
		}
		values[i] = text
	}

	pctA, pctB := mix.operands[0].pct, mix.operands[1].pct
	switch {
	case pctA != "" && pctB != "":
		values[0] += " " + helpers.FormatNumber(helpers.ParseNumberPrefix(pctA)) + "%"
		values[1] += " " + helpers.FormatNumber(helpers.ParseNumberPrefix(pctB)) + "%"
	case pctA != "":
		if p := helpers.ParseNumberPrefix(pctA); p != 50 {
			values[0] += " " + helpers.FormatNumber(p) + "%"
		}
	case pctB != "":
		if p := 100 - helpers.ParseNumberPrefix(pctB); p != 50 {
			values[0] += " " + helpers.FormatNumber(p) + "%"
		}
	}

	space := mix.space
	if mix.hueArc != "" {
		space += " " + mix.hueArc + " hue"
	}
	return Specified("color-mix(in " + space + ", " + values[0] + ", " + values[1] + ")"), nil
}

type convertFunc func(value string, opts Options) (Result, error)

// Converts both operands into the interpolation space. "currentcolor" is a
// missing color.
func (mix colorMix) convertOperands(convert convertFunc, opts Options) ([2][4]Component, bool, error) {
	var out [2][4]Component
	for i, operand := range mix.operands {
		if currentRegexp.MatchString(operand.color) {
			out[i] = [4]Component{None, None, None, None}
			continue
		}
		result, err := convert(operand.color, opts)
		if err != nil {
			return out, false, err
		}
		if result.Kind != ResultComputed {
			return out, false, nil
		}
		t := result.Tuple

		// Operands that resolve to bytes are brought into [0, 1] so that they
		// can be mixed with sRGB channels.
		if opts.ColorSpace == "srgb" && t.Space == SpaceRGB {
			for j := 0; j < 3; j++ {
				if c := &t.Values[j]; !c.IsNone {
					c.Value /= maxRGB
				}
			}
		}
		out[i] = t.Values
	}
	return out, true, nil
}

// Interpolates premultiplied channels. Channels listed in "hue" are
// interpolated without premultiplying and wrap around.
func interpolate(a [4]float64, b [4]float64, w mixWeights, hue int) ([3]float64, float64) {
	factorA := a[3] * w.pA
	factorB := b[3] * w.pB
	alpha := factorA + factorB
	var out [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case i == hue:
			out[i] = math.Mod(helpers.WeightedSum(a[i], w.pA, b[i], w.pB), 360)
		case alpha == 0:
			out[i] = helpers.WeightedSum(a[i], w.pA, b[i], w.pB)
		default:
			out[i] = helpers.WeightedSum(a[i], factorA, b[i], factorB) / alpha
		}
	}
	if alpha != 0 {
		alpha = helpers.ToFixed(alpha, 3)
	}
	return out, alpha
}

func noneFlags(a [4]Component, b [4]Component) [4]bool {
	var out [4]bool
	for i := range out {
		out[i] = a[i].IsNone && b[i].IsNone
	}
	return out
}

// Builds the computed tuple of a mix, keeping channels missing from both
// operands missing.
func mixedTuple(space Space, c [3]float64, alpha float64, w mixWeights, none [4]bool) (Tuple, error) {
	r := rounder{}
	t := Tuple{Space: space}
	for i := 0; i < 3; i++ {
		if none[i] {
			t.Values[i] = None
		} else {
			t.Values[i] = Num(r.round(c[i], 16))
		}
	}
	if none[3] {
		t.Values[3] = None
	} else {
		t.Values[3] = Num(alpha * w.m)
	}
	return t, r.err
}

func (mix colorMix) compute(w mixWeights, outer Options) (Result, error) {
	format := outer.Format
	computed := format == config.FormatComputed
	opts := Options{Format: config.FormatMix, ColorSpace: mix.space}
	space, _ := SpaceFromName(mix.space)
	arc := ParseHueArc(mix.hueArc)

	var r, g, b, alpha float64
	switch space {
	case SpaceSRGB, SpaceSRGBLinear, SpaceXYZD65, SpaceXYZD50:
		var convert convertFunc
		switch space {
		case SpaceSRGB:
			convert = ConvertColorToRgb
		case SpaceSRGBLinear:
			convert = ConvertColorToLinearRgb
		default:
			opts.D50 = space == SpaceXYZD50
			convert = ConvertColorToXyz
		}
		operands, ok, err := mix.convertOperands(convert, opts)
		if err != nil || !ok {
			return Computed(Transparent), err
		}
		none := noneFlags(operands[0], operands[1])
		a, b2 := NormalizeComponents(operands[0], operands[1])
		c, mixedAlpha := interpolate(a, b2, w, -1)
		if computed {
			t, err := mixedTuple(space, c, mixedAlpha, w, none)
			return Computed(t), err
		}
		alpha = mixedAlpha
		switch space {
		case SpaceXYZD65:
			r, g, b = xyzToRgb(c[0], c[1], c[2])
		case SpaceXYZD50:
			r, g, b = xyzD50ToRgb(c[0], c[1], c[2])
		default:
			r, g, b = c[0]*maxRGB, c[1]*maxRGB, c[2]*maxRGB
		}

	case SpaceHSL, SpaceHWB:
		convert := convertFunc(ConvertColorToHsl)
		if space == SpaceHWB {
			convert = ConvertColorToHwb
		}
		operands, ok, err := mix.convertOperands(convert, opts)
		if err != nil || !ok {
			return Computed(Transparent), err
		}
		alphaNone := operands[0][3].IsNone && operands[1][3].IsNone
		a, b2 := NormalizeComponents(operands[0], operands[1])
		if a[0], b2[0], err = InterpolateHue(a[0], b2[0], arc); err != nil {
			return Result{}, err
		}
		c, mixedAlpha := interpolate(a, b2, w, 0)
		alpha = mixedAlpha
		rgb, err := ConvertColorToRgb(space.String()+"("+helpers.FormatNumber(c[0])+" "+
			helpers.FormatNumber(c[1])+" "+helpers.FormatNumber(c[2])+")", Options{})
		if err != nil {
			return Result{}, err
		}
		v := rgb.Tuple.Floats()
		r, g, b = v[0], v[1], v[2]
		if computed {
			rounded := rounder{}
			t := Tuple{Space: SpaceSRGB}
			for i := 0; i < 3; i++ {
				t.Values[i] = Num(rounded.round(v[i]/maxRGB, 16))
			}
			t.Values[3] = Num(alpha * w.m)
			if alphaNone {
				t.Values[3] = None
			}
			return Computed(t), rounded.err
		}

	case SpaceLab, SpaceOklab, SpaceLCH, SpaceOklch:
		var convert convertFunc
		hue := -1
		switch space {
		case SpaceLab:
			convert = ConvertColorToLab
		case SpaceOklab:
			convert = ConvertColorToOklab
		case SpaceLCH:
			convert, hue = ConvertColorToLch, 2
		default:
			convert, hue = ConvertColorToOklch, 2
		}
		operands, ok, err := mix.convertOperands(convert, opts)
		if err != nil || !ok {
			return Computed(Transparent), err
		}
		none := noneFlags(operands[0], operands[1])
		a, b2 := NormalizeComponents(operands[0], operands[1])
		if hue >= 0 {
			if a[2], b2[2], err = InterpolateHue(a[2], b2[2], arc); err != nil {
				return Result{}, err
			}
		}
		c, mixedAlpha := interpolate(a, b2, w, hue)
		if computed {
			t, err := mixedTuple(space, c, mixedAlpha, w, none)
			return Computed(t), err
		}
		alpha = mixedAlpha
		rgb, err := ResolveColorValue(space.String()+"("+helpers.FormatNumber(c[0])+" "+
			helpers.FormatNumber(c[1])+" "+helpers.FormatNumber(c[2])+")", convertOptions)
		if err != nil {
			return Result{}, err
		}
		v := rgb.Tuple.Floats()
		r, g, b = v[0], v[1], v[2]

	default:
		return mixFailure(format), nil
	}

	return Computed(NewTuple(SpaceRGB, helpers.Round(r), helpers.Round(g), helpers.Round(b),
		helpers.ToFixed(alpha*w.m, 3))), nil
}
