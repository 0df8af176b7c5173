package resolver

import (
	"fmt"
	"math"
	"strings"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_calc"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/helpers"
)

// Resolve returns the value of a color in the requested format:
//
//   - The computed format returns "rgb()" for colors specified in sRGB and
//     the color's own function otherwise. An invalid color is transparent.
//   - The specified format returns the normalized input, or an empty string
//     for an invalid color.
//   - The hex formats return "#rrggbb" or "#rrggbbaa", or null when there is
//     no such representation.
func (r *Resolver) Resolve(value string, opts *config.Options) (Resolved, error) {
	return r.resolve(value, opts, 0)
}

func (r *Resolver) resolve(value string, opts *config.Options, depth int) (Resolved, error) {
	if err := r.checkDepth(opts, depth, value); err != nil {
		return Resolved{}, err
	}
	value = strings.TrimSpace(value)

	key, hit, found, cacheable := r.cached(cache.FamilyResolve, "resolve", opts, value, depth)
	if found {
		if hit == nil {
			return Resolved{Null: true}, nil
		}
		return hit.(Resolved), nil
	}

	resolved, err := r.resolveUncached(value, opts, depth)
	if err != nil {
		return Resolved{}, err
	}
	r.store(cache.FamilyResolve, key, cacheable, resolved)
	return resolved, nil
}

func (r *Resolver) failed(format config.Format) Resolved {
	switch format {
	case config.FormatHex, config.FormatHexAlpha:
		return Resolved{Null: true}
	case config.FormatSpecified:
		return Resolved{}
	}
	return Resolved{Value: rgbTransparent}
}

func (r *Resolver) resolveUncached(value string, opts *config.Options, depth int) (Resolved, error) {
	format := opts.Format

	if css_calc.HasVar(value) {
		if format == config.FormatSpecified {
			return Resolved{Value: value}, nil
		}
		substituted, ok, err := r.cssVar(value, opts, depth+1)
		if err != nil {
			return Resolved{}, err
		}
		if !ok {
			return r.failed(format), nil
		}
		value = substituted
	}

	value = strings.ToLower(value)

	if loc := relRegexp.FindStringIndex(value); loc != nil {
		var expanded string
		var ok bool
		var err error
		if loc[0] == 0 {
			expanded, ok, err = r.resolveRelativeColor(value, opts, depth+1)
		} else {
			expanded, ok, err = r.resolveNestedRelativeColors(value, opts, depth)
		}
		if err != nil {
			return Resolved{}, err
		}
		if !ok {
			return r.failed(format), nil
		}
		// A nested relative color is only expanded in place, so the computed
		// format still has to resolve the surrounding value
		if format == config.FormatSpecified || (format == config.FormatComputed && loc[0] == 0) {
			return Resolved{Value: expanded}, nil
		}
		value = expanded
	}

	if css_calc.HasMath(value) {
		calculated, err := r.cssCalc(value, opts)
		if err != nil {
			return Resolved{}, err
		}
		value = calculated
	}

	switch {
	case value == "transparent":
		switch format {
		case config.FormatSpecified:
			return Resolved{Value: value}, nil
		case config.FormatHex:
			return Resolved{Null: true}, nil
		case config.FormatHexAlpha:
			return Resolved{Value: "#00000000"}, nil
		}
		return Resolved{Value: rgbTransparent}, nil

	case css_color.IsCurrentColor(value):
		if format == config.FormatSpecified {
			return Resolved{Value: value}, nil
		}
		current := strings.ToLower(strings.TrimSpace(opts.CurrentColor))
		if current == "" || css_color.IsCurrentColor(current) {
			return r.failed(format), nil
		}
		value = current

	case format == config.FormatSpecified:
		return r.specifiedValue(value, opts)
	}

	if strings.Contains(value, "currentcolor") {
		current := strings.ToLower(strings.TrimSpace(opts.CurrentColor))
		if current == "" {
			return r.failed(format), nil
		}
		value = strings.ReplaceAll(value, "currentcolor", current)
	}
	if strings.Contains(value, "transparent") {
		value = strings.ReplaceAll(value, "transparent", rgbTransparent)
	}

	var result css_color.Result
	var err error
	isMix := strings.HasPrefix(value, "color-mix(")
	switch {
	case isMix:
		result, err = css_color.ResolveColorMix(value, r.colorOptions(opts))
	case strings.HasPrefix(value, "color("):
		result, err = css_color.ResolveColorFunc(value, r.colorOptions(opts))
	case value != "":
		result, err = css_color.ResolveColorValue(value, r.colorOptions(opts))
	}
	if err != nil {
		return Resolved{}, err
	}
	if result.Kind != css_color.ResultComputed {
		return r.failed(format), nil
	}
	return r.formatTuple(result.Tuple, format, isMix)
}

func (r *Resolver) specifiedValue(value string, opts *config.Options) (Resolved, error) {
	var result css_color.Result
	var err error
	switch {
	case strings.HasPrefix(value, "color-mix("):
		result, err = css_color.ResolveColorMix(value, r.colorOptions(opts))
	case strings.HasPrefix(value, "color("):
		result, err = css_color.ResolveColorFunc(value, r.colorOptions(opts))
	default:
		result, err = css_color.ResolveColorValue(value, r.colorOptions(opts))
	}
	if err != nil {
		return Resolved{}, err
	}
	switch result.Kind {
	case css_color.ResultSpecified:
		return Resolved{Value: result.Text}, nil
	case css_color.ResultComputed:
		if result.Tuple.Space == css_color.SpaceRGB {
			return Resolved{Value: result.Tuple.LegacyRGB()}, nil
		}
		return Resolved{Value: result.Tuple.Literal()}, nil
	}
	return Resolved{}, nil
}

func hasUnusableChannel(t css_color.Tuple) bool {
	for _, c := range t.Values {
		if c.IsNone || math.IsNaN(c.Value) {
			return true
		}
	}
	return false
}

func (r *Resolver) formatTuple(t css_color.Tuple, format config.Format, isMix bool) (Resolved, error) {
	switch format {
	case config.FormatHex, config.FormatHexAlpha:
		if hasUnusableChannel(t) || (format == config.FormatHex && t.Values[3].Value == 0) {
			return Resolved{Null: true}, nil
		}
		v := t.Floats()
		channels := v[:3]
		if format == config.FormatHexAlpha {
			channels = v[:]
		}
		hex, err := css_color.ConvertRgbToHex(channels)
		if err != nil {
			r.log.AddDebug(fmt.Sprintf("Failed to convert %s to hex: %s", t.Literal(), err.Error()))
			return Resolved{}, err
		}
		return Resolved{Value: hex}, nil
	}

	switch {
	case t.Space == css_color.SpaceRGB:
		return Resolved{Value: t.LegacyRGB()}, nil

	case isMix && t.Space == css_color.SpaceSRGB && !t.HasNone():
		v := t.Values
		channel := func(i int) string {
			return helpers.FormatNumber(helpers.Round(v[i].Value * 255))
		}
		rgb := channel(0) + ", " + channel(1) + ", " + channel(2)
		if v[3].Value == 1 {
			return Resolved{Value: "rgb(" + rgb + ")"}, nil
		}
		return Resolved{Value: "rgba(" + rgb + ", " + v[3].String() + ")"}, nil
	}
	return Resolved{Value: t.Literal()}, nil
}
