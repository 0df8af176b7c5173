package resolver

import (
	"strings"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_calc"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/helpers"
)

// CSSCalc resolves the math functions in a value.
func (r *Resolver) CSSCalc(value string, opts *config.Options) (string, error) {
	return r.cssCalc(value, opts)
}

func (r *Resolver) cssCalc(value string, opts *config.Options) (string, error) {
	key, hit, found, cacheable := r.cached(cache.FamilyCalc, "cssCalc", opts, value, 0)
	if found {
		return hit.(string), nil
	}
	result, err := css_calc.CSSCalc(r.log, value, opts)
	if err != nil {
		return "", err
	}
	r.store(cache.FamilyCalc, key, cacheable, result)
	return result, nil
}

// PreProcess reduces a value to a plain color before conversion. References
// are substituted, relative colors and math functions are expanded, and a
// "color-mix()" is replaced by its computed value.
func (r *Resolver) PreProcess(value string, opts *config.Options) (string, bool, error) {
	return r.preProcess(value, opts, 0)
}

func (r *Resolver) preProcess(value string, opts *config.Options, depth int) (string, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false, nil
	}

	key, hit, found, cacheable := r.cached(cache.FamilyPreProcess, "preProcess", opts, value, depth)
	if found {
		if hit == nil {
			return "", false, nil
		}
		return hit.(string), true, nil
	}
	fail := func() (string, bool, error) {
		r.store(cache.FamilyPreProcess, key, cacheable, nil)
		return "", false, nil
	}

	color := value
	if css_calc.HasVar(color) {
		substituted, ok, err := r.cssVar(color, opts, depth+1)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return fail()
		}
		color = substituted
	}

	if relRegexp.MatchString(strings.ToLower(color)) {
		expanded, ok, err := r.resolveRelativeColor(color, opts, depth+1)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return fail()
		}
		color = expanded
	} else if css_calc.HasMath(color) {
		calculated, err := r.cssCalc(color, opts)
		if err != nil {
			return "", false, err
		}
		color = calculated
	}

	if strings.HasPrefix(strings.ToLower(color), "color-mix") {
		resolved, err := r.resolve(color, withFormat(opts, config.FormatComputed), depth+1)
		if err != nil {
			return "", false, err
		}
		color = resolved.Value
	}

	r.store(cache.FamilyPreProcess, key, cacheable, color)
	return color, true, nil
}

// ColorToHex returns "#rrggbb", or "#rrggbbaa" when the alpha option is set.
// The result is null for a color with no hex representation.
func (r *Resolver) ColorToHex(value string, opts *config.Options) (Resolved, error) {
	color, ok, err := r.preProcess(value, opts, 0)
	if err != nil {
		return Resolved{}, err
	}
	if !ok {
		return Resolved{Null: true}, nil
	}
	format := config.FormatHex
	if opts.Alpha {
		format = config.FormatHexAlpha
	}
	return r.resolve(strings.ToLower(color), withFormat(opts, format), 1)
}

type converter struct {
	op      string
	format  config.Format
	convert func(string, css_color.Options) (css_color.Result, error)
}

var (
	toHsl   = converter{"colorToHsl", config.FormatHSL, css_color.ConvertColorToHsl}
	toHwb   = converter{"colorToHwb", config.FormatHWB, css_color.ConvertColorToHwb}
	toLab   = converter{"colorToLab", config.FormatComputed, css_color.ConvertColorToLab}
	toLch   = converter{"colorToLch", config.FormatComputed, css_color.ConvertColorToLch}
	toOklab = converter{"colorToOklab", config.FormatComputed, css_color.ConvertColorToOklab}
	toOklch = converter{"colorToOklch", config.FormatComputed, css_color.ConvertColorToOklch}
	toRgb   = converter{"colorToRgb", config.FormatComputed, css_color.ConvertColorToRgb}
)

// Runs a converter on a preprocessed color. Failure is the zero tuple.
func (r *Resolver) colorTo(c converter, value string, opts *config.Options) ([4]float64, error) {
	color, ok, err := r.preProcess(value, opts, 0)
	if err != nil || !ok {
		return [4]float64{}, err
	}
	color = strings.ToLower(color)

	key, hit, found, cacheable := r.cached(cache.FamilyConvert, c.op, opts, color, 0)
	if found {
		return hit.([4]float64), nil
	}
	result, err := c.convert(color, css_color.Options{Format: c.format, D50: opts.D50, MaxDepth: r.depthLimit(opts)})
	if err != nil {
		return [4]float64{}, err
	}
	var tuple [4]float64
	if result.Kind == css_color.ResultComputed {
		tuple = result.Tuple.Floats()
	}
	r.store(cache.FamilyConvert, key, cacheable, tuple)
	return tuple, nil
}

func (r *Resolver) ColorToHsl(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toHsl, value, opts)
}

func (r *Resolver) ColorToHwb(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toHwb, value, opts)
}

func (r *Resolver) ColorToLab(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toLab, value, opts)
}

func (r *Resolver) ColorToLch(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toLch, value, opts)
}

func (r *Resolver) ColorToOklab(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toOklab, value, opts)
}

func (r *Resolver) ColorToOklch(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toOklch, value, opts)
}

func (r *Resolver) ColorToRgb(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(toRgb, value, opts)
}

// ColorToXyz returns XYZ relative to D65, or relative to D50 when the D50
// option is set.
func (r *Resolver) ColorToXyz(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(xyzConverter(opts.D50), value, opts)
}

func (r *Resolver) ColorToXyzD50(value string, opts *config.Options) ([4]float64, error) {
	return r.colorTo(xyzConverter(true), value, opts)
}

func xyzConverter(d50 bool) converter {
	op := "colorToXyz"
	if d50 {
		op = "colorToXyzD50"
	}
	return converter{op, config.FormatConvert, func(color string, opts css_color.Options) (css_color.Result, error) {
		opts.D50 = d50
		if strings.HasPrefix(color, "color(") {
			return css_color.ParseColorFunc(color, opts)
		}
		return css_color.ParseColorValue(color, opts)
	}}
}

// NumberToHex returns the two hex digits of a channel byte.
func (r *Resolver) NumberToHex(value float64) (string, error) {
	key := helpers.FormatNumber(value)
	if hit, ok := r.caches.Get(cache.FamilyNumberToHex, key); ok {
		return hit.(string), nil
	}
	hex, err := css_color.NumberToHexString(value)
	if err != nil {
		return "", err
	}
	r.caches.Set(cache.FamilyNumberToHex, key, hex)
	return hex, nil
}
