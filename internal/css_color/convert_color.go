package css_color

import (
	"regexp"
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/helpers"
)

// The "ConvertColorTo" functions take any color other than "color-mix()"
// and return its channels in one target space. With the mix format they
// preserve missing channels and return an invalid result for colors that
// can't take part in a mix. Any other format converts unconditionally.

var labLikeRegexp = regexp.MustCompile(`^(?:ok)?l(?:ab|ch)`)

func isColorFunc(value string) bool {
	return strings.HasPrefix(value, "color(")
}

// Returns the space named by a "color()" function.
func colorFuncSpace(value string) (string, error) {
	match := funcColorRegexp.FindStringSubmatch(value)
	if match == nil {
		return "", helpers.NewSyntaxError("Invalid property value: %s", value)
	}
	return strings.Fields(match[1])[0], nil
}

func parseToXyz(value string, opts Options) (Result, error) {
	if isColorFunc(value) {
		return ParseColorFunc(value, opts)
	}
	return ParseColorValue(value, opts)
}

// Resolves a color to XYZ. The boolean is false when the mix format
// rejects the color.
func resolveXyz(value string, opts Options) ([3]float64, Component, bool, error) {
	if opts.Format != config.FormatMix {
		opts = Options{Format: config.FormatConvert, D50: opts.D50}
	}
	result, err := parseToXyz(value, opts)
	if err != nil || result.Kind != ResultComputed {
		return [3]float64{}, Component{}, false, err
	}
	v := result.Tuple.Floats()
	return [3]float64{v[0], v[1], v[2]}, result.Tuple.Alpha(), true, nil
}

func computedTuple(space Space, c [3]Component, alpha Component) Result {
	return Computed(Tuple{Space: space, Values: [4]Component{c[0], c[1], c[2], alpha}})
}

func computedFloats(space Space, a float64, b float64, c float64, alpha Component) Result {
	return computedTuple(space, [3]Component{Num(a), Num(b), Num(c)}, alpha)
}

var invalid = Result{Kind: ResultInvalid}

// ConvertColorToLinearRgb returns linear sRGB channels clamped to [0, 1].
func ConvertColorToLinearRgb(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	var r, g, b float64
	var alpha Component

	switch {
	case opts.Format == config.FormatMix:
		result, err := parseToXyz(value, opts)
		if err != nil || result.Kind != ResultComputed {
			return invalid, err
		}
		t := result.Tuple
		if t.Space.String() == opts.ColorSpace {
			return Computed(Tuple{Space: SpaceSRGBLinear, Values: t.Values}), nil
		}
		v := t.Floats()
		r, g, b = xyz_to_lin_srgb(v[0], v[1], v[2])
		alpha = t.Alpha()

	case isColorFunc(value):
		space, err := colorFuncSpace(value)
		if err != nil {
			return Result{}, err
		}
		if space == "srgb-linear" {
			result, err := ResolveColorFunc(value, Options{Format: config.FormatComputed})
			if err != nil {
				return Result{}, err
			}
			v := result.Tuple.Floats()
			r, g, b, alpha = v[0], v[1], v[2], result.Tuple.Alpha()
			break
		}
		xyz, a, _, err := resolveXyz(value, Options{})
		if err != nil {
			return Result{}, err
		}
		r, g, b = xyz_to_lin_srgb(xyz[0], xyz[1], xyz[2])
		alpha = a

	default:
		xyz, a, _, err := resolveXyz(value, Options{})
		if err != nil {
			return Result{}, err
		}
		r, g, b = xyz_to_lin_srgb(xyz[0], xyz[1], xyz[2])
		alpha = a
	}

	return computedFloats(SpaceSRGBLinear, helpers.Clamp(r, 0, 1), helpers.Clamp(g, 0, 1), helpers.Clamp(b, 0, 1), alpha), nil
}

// ConvertColorToRgb returns byte channels. In the mix format the channels
// come back exactly as the resolver produced them, which for an sRGB mix
// are in [0, 1].
func ConvertColorToRgb(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)

	switch {
	case opts.Format == config.FormatMix:
		var result Result
		var err error
		if isColorFunc(value) {
			result, err = ResolveColorFunc(value, opts)
		} else {
			result, err = ResolveColorValue(value, opts)
		}
		if err != nil || result.Kind != ResultComputed {
			return invalid, err
		}
		return result, nil

	case isColorFunc(value):
		space, err := colorFuncSpace(value)
		if err != nil {
			return Result{}, err
		}
		if space == "srgb" {
			result, err := ResolveColorFunc(value, Options{Format: config.FormatComputed})
			if err != nil {
				return Result{}, err
			}
			t := Tuple{Space: SpaceRGB, Values: result.Tuple.Values}
			for i := 0; i < 3; i++ {
				t.Values[i] = Num(t.Values[i].Or(0) * maxRGB)
			}
			return Computed(t), nil
		}
		return ResolveColorFunc(value, convertOptions)

	case labLikeRegexp.MatchString(value):
		lin, err := ConvertColorToLinearRgb(value, Options{})
		if err != nil {
			return Result{}, err
		}
		v := lin.Tuple.Floats()
		r, g, b := linearToRgb(v[0], v[1], v[2], false)
		return computedFloats(SpaceRGB, r, g, b, lin.Tuple.Alpha()), nil

	default:
		return ResolveColorValue(value, Options{Format: config.FormatComputed})
	}
}

// ConvertColorToXyz returns XYZ relative to D65, or D50 if requested.
func ConvertColorToXyz(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	space := SpaceXYZD65
	if opts.D50 {
		space = SpaceXYZD50
	}

	if opts.Format != config.FormatMix && isColorFunc(value) {
		cs, err := colorFuncSpace(value)
		if err != nil {
			return Result{}, err
		}
		if (opts.D50 && cs == "xyz-d50") || (!opts.D50 && (cs == "xyz" || cs == "xyz-d65")) {
			result, err := ResolveColorFunc(value, Options{Format: config.FormatComputed})
			if err != nil {
				return Result{}, err
			}
			return Computed(Tuple{Space: space, Values: result.Tuple.Values}), nil
		}
	}

	if opts.Format == config.FormatMix {
		result, err := parseToXyz(value, opts)
		if err != nil || result.Kind != ResultComputed {
			return invalid, err
		}
		return Computed(Tuple{Space: space, Values: result.Tuple.Values}), nil
	}

	xyz, alpha, _, err := resolveXyz(value, opts)
	if err != nil {
		return Result{}, err
	}
	return computedFloats(space, xyz[0], xyz[1], xyz[2], alpha), nil
}

func roundComponents(c [3]Component) [3]Component {
	r := rounder{}
	for i := range c {
		c[i] = r.component(c[i], 0)
	}
	return c
}

// ConvertColorToHsl returns hsl channels. The hsl format rounds them to
// integers.
func ConvertColorToHsl(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if hslRegexp.MatchString(value) {
		result, err := ParseHsl(value, Options{Format: config.FormatHSL})
		if err != nil {
			return Result{}, err
		}
		t := result.Tuple
		if opts.Format == config.FormatHSL {
			c := roundComponents([3]Component{t.Values[0], t.Values[1], t.Values[2]})
			return computedTuple(SpaceHSL, c, t.Alpha()), nil
		}
		return result, nil
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace})
	if err != nil || !ok {
		return invalid, err
	}
	c := xyzToHsl(xyz[0], xyz[1], xyz[2])
	if opts.Format == config.FormatHSL {
		c = roundComponents(c)
	}
	return computedTuple(SpaceHSL, c, alpha), nil
}

// ConvertColorToHwb returns hwb channels. The hwb format rounds them to
// integers.
func ConvertColorToHwb(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if hwbRegexp.MatchString(value) {
		result, err := ParseHwb(value, Options{Format: config.FormatHWB})
		if err != nil {
			return Result{}, err
		}
		t := result.Tuple
		if opts.Format == config.FormatHWB {
			c := roundComponents([3]Component{t.Values[0], t.Values[1], t.Values[2]})
			return computedTuple(SpaceHWB, c, t.Alpha()), nil
		}
		return result, nil
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace})
	if err != nil || !ok {
		return invalid, err
	}
	c := xyzToHwb(xyz[0], xyz[1], xyz[2])
	if opts.Format == config.FormatHWB {
		c = roundComponents(c)
	}
	return computedTuple(SpaceHWB, c, alpha), nil
}

func ConvertColorToLab(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if labRegexp.MatchString(value) {
		return ParseLab(value, Options{Format: config.FormatComputed})
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace, D50: true})
	if err != nil || !ok {
		return invalid, err
	}
	return computedTuple(SpaceLab, xyzD50ToLab(xyz[0], xyz[1], xyz[2]), alpha), nil
}

func ConvertColorToLch(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if lchRegexp.MatchString(value) {
		return ParseLch(value, Options{Format: config.FormatComputed})
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace, D50: true})
	if err != nil || !ok {
		return invalid, err
	}
	return computedTuple(SpaceLCH, xyzD50ToLch(xyz[0], xyz[1], xyz[2]), alpha), nil
}

func ConvertColorToOklab(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if oklabRegexp.MatchString(value) {
		return ParseOklab(value, Options{Format: config.FormatComputed})
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace})
	if err != nil || !ok {
		return invalid, err
	}
	return computedTuple(SpaceOklab, xyzToOklab(xyz[0], xyz[1], xyz[2]), alpha), nil
}

func ConvertColorToOklch(value string, opts Options) (Result, error) {
	value = strings.TrimSpace(value)
	if oklchRegexp.MatchString(value) {
		return ParseOklch(value, Options{Format: config.FormatComputed})
	}
	xyz, alpha, ok, err := resolveXyz(value, Options{Format: opts.Format, ColorSpace: opts.ColorSpace})
	if err != nil || !ok {
		return invalid, err
	}
	return computedTuple(SpaceOklch, xyzToOklch(xyz[0], xyz[1], xyz[2]), alpha), nil
}
