package css_color

import (
	"math"
	"strings"

	"github.com/evanw/csscolor/internal/config"
)

// ChannelsIn returns the channels of a color literal expressed in another
// space, in the units the relative color syntax uses for that space: bytes
// for "rgb", [0, 100] for the hsl and hwb percentages, and [0, 1] for the
// "color()" spaces. A hue that is undefined for the color comes back as
// "none". The boolean is false if the value isn't a color literal.
func ChannelsIn(value string, space Space) ([4]Component, bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !colorRegexp.MatchString(value) {
		return [4]Component{}, false, nil
	}

	var convert func(string, Options) (Result, error)
	switch space {
	case SpaceRGB:
		convert = ConvertColorToRgb
	case SpaceHSL:
		convert = ConvertColorToHsl
	case SpaceHWB:
		convert = ConvertColorToHwb
	case SpaceLab:
		convert = ConvertColorToLab
	case SpaceLCH:
		convert = ConvertColorToLch
	case SpaceOklab:
		convert = ConvertColorToOklab
	case SpaceOklch:
		convert = ConvertColorToOklch
	}
	if convert != nil {
		result, err := convert(value, Options{})
		if err != nil || result.Kind != ResultComputed {
			return [4]Component{}, false, err
		}
		return undefinedHues(result.Tuple.Values), true, nil
	}

	// A "color()" origin in the destination space keeps its own channels
	if isColorFunc(value) {
		if own, err := colorFuncSpace(value); err == nil {
			if ownSpace, ok := SpaceFromName(own); ok && ownSpace == space {
				result, err := ResolveColorFunc(value, Options{Format: config.FormatComputed})
				if err != nil || result.Kind != ResultComputed {
					return [4]Component{}, false, err
				}
				return result.Tuple.Values, true, nil
			}
		}
	}

	rgb, ok, err := rgbBytes(value)
	if err != nil {
		return [4]Component{}, false, err
	}
	if ok {
		var a, b, c float64
		switch space {
		case SpaceSRGB:
			a, b, c = rgb[0]/maxRGB, rgb[1]/maxRGB, rgb[2]/maxRGB
		case SpaceSRGBLinear:
			a, b, c = rgbToLinear(rgb[0], rgb[1], rgb[2])
		default:
			x, y, z := rgbToXyz(rgb[0], rgb[1], rgb[2])
			a, b, c = xyz_to_colorSpace(x, y, z, space)
		}
		return undefinedHues([4]Component{Num(a), Num(b), Num(c), Num(rgb[3])}), true, nil
	}

	xyz, alpha, ok, err := resolveXyz(value, Options{})
	if err != nil || !ok {
		return [4]Component{}, false, err
	}
	a, b, c := xyz_to_colorSpace(xyz[0], xyz[1], xyz[2], space)
	return undefinedHues([4]Component{Num(a), Num(b), Num(c), alpha}), true, nil
}

// Reads the bytes and alpha of an sRGB family literal (named, hex, rgb, hsl
// or hwb) without the XYZ path, which rounds to 6 significant digits.
func rgbBytes(value string) ([4]float64, bool, error) {
	var result Result
	var err error
	switch {
	case value == "":
		return [4]float64{}, false, nil
	case keywordRegexp.MatchString(value):
		r, g, b, ok := LookupNamedColor(value)
		return [4]float64{r, g, b, 1}, ok, nil
	case value[0] == '#':
		rgb, err := ConvertHexToRgb(value)
		return rgb, err == nil, err
	case strings.HasPrefix(value, "rgb"):
		result, err = ParseRgb(value, convertOptions)
	case strings.HasPrefix(value, "hsl"):
		result, err = ParseHsl(value, convertOptions)
	case strings.HasPrefix(value, "hwb"):
		result, err = ParseHwb(value, convertOptions)
	default:
		return [4]float64{}, false, nil
	}
	if err != nil || result.Kind != ResultComputed {
		return [4]float64{}, false, err
	}
	return result.Tuple.Floats(), true, nil
}

func undefinedHues(values [4]Component) [4]Component {
	for i, c := range values {
		if !c.IsNone && math.IsNaN(c.Value) {
			values[i] = None
		}
	}
	return values
}
