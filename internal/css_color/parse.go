package css_color

import (
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/helpers"
)

// Each parser takes one color function, already lowercased by the caller
// except for "rgb()" which lowercases itself. Syntax is checked up front
// with the matching regular expression and the result depends on the
// format: the formats that serialize keep the function's own channels,
// others convert to bytes or XYZ.

var channelSeparators = strings.NewReplacer(",", " ", "/", " ")

// Splits "1 2 3 / 4" and "1, 2, 3, 4" into channels. A missing alpha is the
// empty string.
func splitChannels(text string) [4]string {
	var out [4]string
	copy(out[:], strings.Fields(channelSeparators.Replace(text)))
	return out
}

func parseNumber(text string) float64 {
	return helpers.ParseNumberPrefix(text)
}

func isPercent(text string) bool {
	return strings.HasSuffix(text, "%")
}

func parseAlphaComponent(text string, keepNone bool) (Component, error) {
	if keepNone && text == "none" {
		return None, nil
	}
	alpha, err := ParseAlpha(text)
	if err != nil {
		return Component{}, err
	}
	return Num(alpha), nil
}

func parseHue(text string, keepNone bool) (Component, error) {
	if text == "none" {
		if keepNone {
			return None, nil
		}
		return Num(0), nil
	}
	h, err := AngleToDeg(text)
	if err != nil {
		return Component{}, err
	}
	return Num(h), nil
}

// Converts hsl channels to bytes with 8 bits of precision.
func hslToBytes(r *rounder, h float64, s float64, l float64) (float64, float64, float64) {
	rr, gg, bb := hsl_to_rgb(h, s, l)
	return helpers.Clamp(r.round(rr*maxRGB, 8), 0, maxRGB),
		helpers.Clamp(r.round(gg*maxRGB, 8), 0, maxRGB),
		helpers.Clamp(r.round(bb*maxRGB, 8), 0, maxRGB)
}

func ParseRgb(value string, opts Options) (Result, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	match := rgbRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format == config.FormatMix
	r := rounder{}
	t := Tuple{Space: SpaceRGB}
	for i := 0; i < 3; i++ {
		if v[i] == "none" {
			if keepNone {
				t.Values[i] = None
			}
			continue
		}
		n := parseNumber(v[i])
		if isPercent(v[i]) {
			n = n * maxRGB / 100
		}
		t.Values[i] = Num(helpers.Clamp(r.round(n, 8), 0, maxRGB))
	}
	if r.err != nil {
		return Result{}, r.err
	}
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	t.Values[3] = alpha
	return Computed(t), nil
}

// ParseHsl returns "hsl" channels for the hsl format, which keeps "none",
// and bytes otherwise.
func ParseHsl(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := hslRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format == config.FormatHSL
	h, err := parseHue(v[0], keepNone)
	if err != nil {
		return Result{}, err
	}
	sl := [2]Component{}
	for i := range sl {
		if text := v[i+1]; text == "none" {
			if keepNone {
				sl[i] = None
			}
		} else {
			sl[i] = Num(helpers.Clamp(parseNumber(text), 0, 100))
		}
	}
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		return Computed(Tuple{Space: SpaceHSL, Values: [4]Component{h, sl[0], sl[1], alpha}}), nil
	}
	r := rounder{}
	rr, gg, bb := hslToBytes(&r, h.Value, sl[0].Value, sl[1].Value)
	if r.err != nil {
		return Result{}, r.err
	}
	return Computed(NewTuple(SpaceRGB, rr, gg, bb, alpha.Value)), nil
}

// ParseHwb returns "hwb" channels for the hwb format and bytes otherwise.
func ParseHwb(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := hwbRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format == config.FormatHWB
	h, err := parseHue(v[0], keepNone)
	if err != nil {
		return Result{}, err
	}
	wb := [2]Component{}
	for i := range wb {
		if text := v[i+1]; text == "none" {
			if keepNone {
				wb[i] = None
			}
		} else {
			wb[i] = Num(helpers.Clamp(parseNumber(text), 0, 100) / 100)
		}
	}
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		for i := range wb {
			if !wb[i].IsNone {
				wb[i].Value *= 100
			}
		}
		return Computed(Tuple{Space: SpaceHWB, Values: [4]Component{h, wb[0], wb[1], alpha}}), nil
	}

	r := rounder{}
	w, b := wb[0].Value, wb[1].Value
	if w+b >= 1 {
		gray := r.round(w/(w+b)*maxRGB, 8)
		if r.err != nil {
			return Result{}, r.err
		}
		return Computed(NewTuple(SpaceRGB, gray, gray, gray, alpha.Value)), nil
	}
	factor := (1 - w - b) / maxRGB
	rr, gg, bb := hslToBytes(&r, h.Value, 100, 50)
	f := func(c float64) float64 {
		return helpers.Clamp(r.round(helpers.NewF64(c).MulConst(factor).AddConst(w).MulConst(maxRGB).Value(), 8), 0, maxRGB)
	}
	rr, gg, bb = f(rr), f(gg), f(bb)
	if r.err != nil {
		return Result{}, r.err
	}
	return Computed(NewTuple(SpaceRGB, rr, gg, bb, alpha.Value)), nil
}

// Reads the channels of a Lab-like function. Percentages are scaled by
// "pct" and missing channels become zero unless "keepNone" is set.
func parseRectangular(v [4]string, keepNone bool, pct [3]float64) [3]Component {
	var out [3]Component
	for i := 0; i < 3; i++ {
		text := v[i]
		if text == "none" {
			if keepNone {
				out[i] = None
			}
			continue
		}
		n := parseNumber(text)
		if isPercent(text) {
			n *= pct[i]
		}
		out[i] = Num(n)
	}
	return out
}

func roundTuple(space Space, channels [3]Component, alpha Component, bit int) (Tuple, error) {
	r := rounder{}
	t := Tuple{Space: space, Values: [4]Component{
		r.component(channels[0], bit),
		r.component(channels[1], bit),
		r.component(channels[2], bit),
		alpha,
	}}
	return t, r.err
}

func labToXyzD50Tuple(l float64, a float64, b float64, alpha Component) (Tuple, error) {
	x, y, z := lab_to_xyz_d50(l, a, b)
	return roundTuple(SpaceXYZD50, [3]Component{Num(x), Num(y), Num(z)}, alpha, 16)
}

// ParseLab returns "lab" channels for the serializing formats and XYZ
// relative to D50 otherwise.
func ParseLab(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := labRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format.IsSpecOrComputed()
	lab := parseRectangular(v, keepNone, [3]float64{1, 1.25, 1.25})
	if l := &lab[0]; !l.IsNone {
		if isPercent(v[0]) && l.Value > 100 {
			l.Value = 100
		}
		if l.Value < 0 {
			l.Value = 0
		}
	}
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		t, err := roundTuple(SpaceLab, lab, alpha, 16)
		return Computed(t), err
	}
	t, err := labToXyzD50Tuple(lab[0].Value, lab[1].Value, lab[2].Value, alpha)
	return Computed(t), err
}

// ParseLch returns "lch" channels for the serializing formats and XYZ
// relative to D50 otherwise.
func ParseLch(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := lchRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format.IsSpecOrComputed()
	lch := parseRectangular([4]string{v[0], v[1], "0"}, keepNone, [3]float64{1, 1.5, 1})
	if l := &lch[0]; !l.IsNone && l.Value < 0 {
		l.Value = 0
	}
	h, err := parseHue(v[2], keepNone)
	if err != nil {
		return Result{}, err
	}
	lch[2] = h
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		t, err := roundTuple(SpaceLCH, lch, alpha, 16)
		return Computed(t), err
	}
	l, a, b := lch_to_lab(lch[0].Value, lch[1].Value, lch[2].Value)
	t, err := labToXyzD50Tuple(l, a, b, alpha)
	return Computed(t), err
}

func oklabToXyzTuple(l float64, a float64, b float64, alpha Component) (Tuple, error) {
	if _, err := ValidateComponents([]float64{l, a, b}, ValidateOptions{MinLength: 3, MaxLength: 3}); err != nil {
		return Tuple{}, err
	}
	x, y, z := oklab_to_xyz(l, a, b)
	return roundTuple(SpaceXYZD65, [3]Component{Num(x), Num(y), Num(z)}, alpha, 16)
}

// ParseOklab returns "oklab" channels for the serializing formats and XYZ
// relative to D65 otherwise.
func ParseOklab(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := oklabRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format.IsSpecOrComputed()
	lab := parseRectangular(v, keepNone, [3]float64{0, 0, 0})
	for i := 0; i < 3; i++ {
		if isPercent(v[i]) && !lab[i].IsNone {
			if i == 0 {
				lab[i].Value = parseNumber(v[i]) / 100
			} else {
				lab[i].Value = parseNumber(v[i]) * 0.4 / 100
			}
		}
	}
	if l := &lab[0]; !l.IsNone && l.Value < 0 {
		l.Value = 0
	}
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		t, err := roundTuple(SpaceOklab, lab, alpha, 16)
		return Computed(t), err
	}
	t, err := oklabToXyzTuple(lab[0].Value, lab[1].Value, lab[2].Value, alpha)
	return Computed(t), err
}

// ParseOklch returns "oklch" channels for the serializing formats and XYZ
// relative to D65 otherwise.
func ParseOklch(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := oklchRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	v := splitChannels(match[1])
	keepNone := opts.Format.IsSpecOrComputed()
	lch := parseRectangular([4]string{v[0], v[1], "0"}, keepNone, [3]float64{0, 0, 1})
	if l := &lch[0]; !l.IsNone {
		if isPercent(v[0]) {
			l.Value = parseNumber(v[0]) / 100
		}
		if l.Value < 0 {
			l.Value = 0
		}
	}
	if c := &lch[1]; !c.IsNone {
		if isPercent(v[1]) {
			c.Value = parseNumber(v[1]) * 0.4 / 100
		}
		if c.Value < 0 {
			c.Value = 0
		}
	}
	h, err := parseHue(v[2], keepNone)
	if err != nil {
		return Result{}, err
	}
	lch[2] = h
	alpha, err := parseAlphaComponent(v[3], keepNone)
	if err != nil {
		return Result{}, err
	}
	if keepNone {
		t, err := roundTuple(SpaceOklch, lch, alpha, 16)
		return Computed(t), err
	}
	l, a, b := lch_to_lab(lch[0].Value, lch[1].Value, lch[2].Value)
	t, err := oklabToXyzTuple(l, a, b, alpha)
	return Computed(t), err
}

// Converts the channels of a predefined space to XYZ. Spaces relative to
// D50 skip the round trip through D65 when D50 is the target.
func predefinedToXyz(space Space, r float64, g float64, b float64, d50 bool) (float64, float64, float64) {
	var x, y, z float64
	switch space {
	case SpaceXYZD50:
		if d50 {
			return r, g, b
		}
		return d50_to_d65(r, g, b)
	case SpaceProPhotoRGB:
		if x, y, z = lin_prophoto_to_xyz_d50(lin_prophoto(r, g, b)); d50 {
			return x, y, z
		}
		return d50_to_d65(x, y, z)
	case SpaceXYZD65:
		x, y, z = r, g, b
	default:
		x, y, z = colorSpace_to_xyz(r, g, b, space)
	}
	if d50 {
		return d65_to_d50(x, y, z)
	}
	return x, y, z
}

// ParseColorFunc parses "color()". The serializing formats return the
// channels in the function's own space, as does the mix format when that
// space is the interpolation space. Otherwise the result is XYZ relative to
// D65, or D50 if requested.
func ParseColorFunc(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	match := funcColorRegexp.FindStringSubmatch(value)
	if match == nil {
		return failure(opts.Format), nil
	}
	fields := strings.Fields(strings.Replace(match[1], "/", " ", 1))
	var v [4]string
	copy(v[:], fields[1:])
	space, _ := SpaceFromName(fields[0])

	channels := [3]Component{}
	for i := 0; i < 3; i++ {
		if v[i] == "none" {
			channels[i] = None
			continue
		}
		n := parseNumber(v[i])
		if isPercent(v[i]) {
			n /= 100
		}
		channels[i] = Num(n)
	}
	alpha, err := ParseAlpha(v[3])
	if err != nil {
		return Result{}, err
	}
	alphaNone := v[3] == "none"

	if opts.Format.IsSpecOrComputed() || (opts.Format == config.FormatMix && space.String() == opts.ColorSpace) {
		a := Num(alpha)
		if alphaNone {
			a = None
		}
		t, err := roundTuple(space, channels, a, 10)
		return Computed(t), err
	}

	x, y, z := predefinedToXyz(space, channels[0].Or(0), channels[1].Or(0), channels[2].Or(0), opts.D50)
	out := SpaceXYZD65
	if opts.D50 {
		out = SpaceXYZD50
	}
	a := Num(alpha)
	if opts.Format == config.FormatMix && alphaNone {
		a = None
	}
	t, err := roundTuple(out, [3]Component{Num(x), Num(y), Num(z)}, a, 16)
	return Computed(t), err
}
