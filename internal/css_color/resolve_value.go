package css_color

import (
	"strings"

	"github.com/evanw/csscolor/internal/config"
)

var convertOptions = Options{Format: config.FormatConvert}

func xyzResult(x float64, y float64, z float64, alpha Component, d50 bool) (Result, error) {
	space := SpaceXYZD65
	if d50 {
		space = SpaceXYZD50
	}
	t, err := roundTuple(space, [3]Component{Num(x), Num(y), Num(z)}, alpha, 16)
	if err != nil {
		return Result{}, err
	}
	return Computed(t), nil
}

// ParseColorValue resolves any color other than "color()" and
// "color-mix()" to XYZ. The serializing formats return the color in its own
// terms instead: echoed keywords, byte channels or Lab-like channels.
func ParseColorValue(value string, opts Options) (Result, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !colorRegexp.MatchString(value) {
		return failure(opts.Format), nil
	}
	format := opts.Format
	spec := format.IsSpecOrComputed()

	var x, y, z float64
	var alpha Component

	switch {
	case currentRegexp.MatchString(value):
		switch format {
		case config.FormatComputed:
			return Computed(Transparent), nil
		case config.FormatSpecified:
			return Specified(value), nil
		}
		alpha = Num(0)

	case keywordRegexp.MatchString(value):
		r, g, b, ok := LookupNamedColor(value)
		if !ok {
			switch format {
			case config.FormatComputed:
				return Computed(Transparent), nil
			case config.FormatSpecified:
				if value == "transparent" {
					return Specified(value), nil
				}
				return Result{Kind: ResultEmpty}, nil
			case config.FormatMix:
				if value == "transparent" {
					return Computed(Transparent), nil
				}
				return Result{Kind: ResultInvalid}, nil
			}
			alpha = Num(0)
			break
		}
		switch format {
		case config.FormatSpecified:
			return Specified(value), nil
		case config.FormatComputed:
			return Computed(NewTuple(SpaceRGB, r, g, b, 1)), nil
		}
		x, y, z = rgbToXyz(r, g, b)
		alpha = Num(1)

	case value[0] == '#':
		rgb, err := ConvertHexToRgb(value)
		if err != nil {
			return Result{}, err
		}
		if spec {
			return Computed(NewTuple(SpaceRGB, rgb[0], rgb[1], rgb[2], rgb[3])), nil
		}
		x, y, z = rgbToXyz(rgb[0], rgb[1], rgb[2])
		alpha = Num(rgb[3])

	case strings.HasPrefix(value, "lab"), strings.HasPrefix(value, "lch"):
		parse := ParseLab
		if strings.HasPrefix(value, "lch") {
			parse = ParseLch
		}
		if spec {
			return parse(value, opts)
		}
		result, err := parse(value, convertOptions)
		if err != nil {
			return Result{}, err
		}
		v := result.Tuple.Floats()
		alpha = result.Tuple.Alpha()
		if opts.D50 {
			return xyzResult(v[0], v[1], v[2], alpha, true)
		}
		x, y, z = d50_to_d65(v[0], v[1], v[2])
		return xyzResult(x, y, z, alpha, false)

	case strings.HasPrefix(value, "oklab"), strings.HasPrefix(value, "oklch"):
		parse := ParseOklab
		if strings.HasPrefix(value, "oklch") {
			parse = ParseOklch
		}
		if spec {
			return parse(value, opts)
		}
		result, err := parse(value, convertOptions)
		if err != nil {
			return Result{}, err
		}
		v := result.Tuple.Floats()
		return xyzResult(v[0], v[1], v[2], result.Tuple.Alpha(), opts.D50)

	default:
		var result Result
		var err error
		switch {
		case strings.HasPrefix(value, "hsl"):
			result, err = ParseHsl(value, convertOptions)
		case strings.HasPrefix(value, "hwb"):
			result, err = ParseHwb(value, convertOptions)
		default:
			result, err = ParseRgb(value, opts)
		}
		if err != nil {
			return Result{}, err
		}
		if result.Kind != ResultComputed {
			return result, nil
		}
		t := result.Tuple
		if spec {
			r := rounder{}
			for i := 0; i < 3; i++ {
				t.Values[i] = r.component(t.Values[i], 0)
			}
			return Computed(t), r.err
		}
		v := t.Floats()
		x, y, z = rgbToXyz(v[0], v[1], v[2])
		alpha = t.Alpha()
	}

	if opts.D50 {
		x, y, z = d65_to_d50(x, y, z)
	}
	return xyzResult(x, y, z, alpha, opts.D50)
}

// ResolveColorValue resolves any color other than "color()" and
// "color-mix()" to byte channels. Lab-like colors keep their own channels in
// the serializing formats, and the mix format returns sRGB channels in
// [0, 1] when mixing in sRGB.
func ResolveColorValue(value string, opts Options) (Result, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !colorRegexp.MatchString(value) {
		return failure(opts.Format), nil
	}
	format := opts.Format

	var t Tuple
	switch {
	case currentRegexp.MatchString(value):
		if format == config.FormatSpecified {
			return Specified(value), nil
		}
		t = Transparent

	case keywordRegexp.MatchString(value):
		r, g, b, ok := LookupNamedColor(value)
		if ok {
			if format == config.FormatSpecified {
				return Specified(value), nil
			}
			t = NewTuple(SpaceRGB, r, g, b, 1)
			break
		}
		switch format {
		case config.FormatSpecified:
			if value == "transparent" {
				return Specified(value), nil
			}
			return Result{Kind: ResultEmpty}, nil
		case config.FormatMix:
			if value == "transparent" {
				return Computed(Transparent), nil
			}
			return Result{Kind: ResultInvalid}, nil
		}
		t = Transparent

	case value[0] == '#':
		rgb, err := ConvertHexToRgb(value)
		if err != nil {
			return Result{}, err
		}
		t = NewTuple(SpaceRGB, rgb[0], rgb[1], rgb[2], rgb[3])

	case strings.HasPrefix(value, "rgb"), strings.HasPrefix(value, "hsl"), strings.HasPrefix(value, "hwb"):
		parse := ParseRgb
		if strings.HasPrefix(value, "hsl") {
			parse = ParseHsl
		} else if strings.HasPrefix(value, "hwb") {
			parse = ParseHwb
		}
		result, err := parse(value, opts)
		if err != nil || result.Kind != ResultComputed {
			return result, err
		}
		t = result.Tuple

	default:
		var parse func(string, Options) (Result, error)
		toRgb := xyzToRgb
		switch {
		case strings.HasPrefix(value, "lab"):
			parse, toRgb = ParseLab, xyzD50ToRgb
		case strings.HasPrefix(value, "lch"):
			parse, toRgb = ParseLch, xyzD50ToRgb
		case strings.HasPrefix(value, "oklab"):
			parse = ParseOklab
		default:
			parse = ParseOklch
		}
		result, err := parse(value, opts)
		if err != nil || result.Kind != ResultComputed || format.IsSpecOrComputed() {
			return result, err
		}
		v := result.Tuple.Floats()
		r, g, b := toRgb(v[0], v[1], v[2])
		t = NewTuple(SpaceRGB, r, g, b, v[3])
	}

	if format == config.FormatMix && opts.ColorSpace == "srgb" {
		out := Tuple{Space: SpaceSRGB, Values: t.Values}
		for i := 0; i < 3; i++ {
			if c := &out.Values[i]; !c.IsNone {
				c.Value /= maxRGB
			}
		}
		return Computed(out), nil
	}
	r := rounder{}
	for i := 0; i < 3; i++ {
		t.Values[i] = r.component(t.Values[i], 0)
	}
	return Computed(t), r.err
}

// ResolveColorFunc resolves "color()" to byte channels. The serializing
// formats keep the function's own space, and so does the mix format when
// that space is the interpolation space.
func ResolveColorFunc(value string, opts Options) (Result, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !funcColorRegexp.MatchString(value) {
		return failure(opts.Format), nil
	}
	result, err := ParseColorFunc(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace})
	if err != nil || result.Kind != ResultComputed {
		return result, err
	}
	t := result.Tuple
	if opts.Format.IsSpecOrComputed() || (opts.Format == config.FormatMix && t.Space.String() == opts.ColorSpace) {
		return result, nil
	}
	v := t.Floats()
	r, g, b := xyzToRgb(v[0], v[1], v[2])
	return Computed(Tuple{Space: SpaceRGB, Values: [4]Component{Num(r), Num(g), Num(b), t.Alpha()}}), nil
}
