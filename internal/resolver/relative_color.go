package resolver

import (
	"math"
	"regexp"
	"strings"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_calc"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/helpers"
)

const relPrefix = `(?:` + css_color.SynColorFunc + `)\(\s*from\s+`

var (
	relRegexp       = regexp.MustCompile(`(?:^|\s)` + relPrefix)
	relStartRegexp  = regexp.MustCompile(`^` + relPrefix)
	relCaptRegexp   = regexp.MustCompile(`^(` + css_color.SynColorFunc + `)\(\s*from\s+`)
	originRegexp    = regexp.MustCompile(`^` + relPrefix + `(` + css_color.SynColorType + `|` + css_color.SynMix + `)\s+`)
	lowerWordRegexp = regexp.MustCompile(`^[a-z]+$`)
)

// The keywords that name the channels of the origin color, by function
var channelKeys = map[string][4]string{
	"color": {"r", "g", "b", "alpha"},
	"rgb":   {"r", "g", "b", "alpha"},
	"rgba":  {"r", "g", "b", "alpha"},
	"hsl":   {"h", "s", "l", "alpha"},
	"hsla":  {"h", "s", "l", "alpha"},
	"hwb":   {"h", "w", "b", "alpha"},
	"lab":   {"l", "a", "b", "alpha"},
	"oklab": {"l", "a", "b", "alpha"},
	"lch":   {"l", "c", "h", "alpha"},
	"oklch": {"l", "c", "h", "alpha"},
}

var xyzChannelKeys = [4]string{"x", "y", "z", "alpha"}

// What 100% means for each channel. Zero marks a hue, which doesn't take a
// percentage.
var percentBases = map[string][4]float64{
	"color": {1, 1, 1, 1},
	"rgb":   {255, 255, 255, 1},
	"rgba":  {255, 255, 255, 1},
	"hsl":   {0, 100, 100, 1},
	"hsla":  {0, 100, 100, 1},
	"hwb":   {0, 100, 100, 1},
	"lab":   {100, 125, 125, 1},
	"oklab": {1, 0.4, 0.4, 1},
	"lch":   {100, 150, 0, 1},
	"oklch": {1, 0.4, 0, 1},
}

var functionSpaces = map[string]css_color.Space{
	"rgb":   css_color.SpaceRGB,
	"rgba":  css_color.SpaceRGB,
	"hsl":   css_color.SpaceHSL,
	"hsla":  css_color.SpaceHSL,
	"hwb":   css_color.SpaceHWB,
	"lab":   css_color.SpaceLab,
	"oklab": css_color.SpaceOklab,
	"lch":   css_color.SpaceLCH,
	"oklch": css_color.SpaceOklch,
}

func isChannelKey(keys [4]string, name string) bool {
	for _, key := range keys {
		if key == name {
			return true
		}
	}
	return false
}

// ResolveRelativeColor expands a relative color such as
// "rgb(from red r g calc(b + 20))". The specified value keeps the relative
// syntax with the origin and the channel expressions in canonical form. Any
// other format evaluates the channels against the origin and returns a
// plain color. It returns false for an invalid relative color.
func (r *Resolver) ResolveRelativeColor(value string, opts *config.Options) (string, bool, error) {
	return r.resolveRelativeColor(value, opts, 0)
}

func (r *Resolver) resolveRelativeColor(value string, opts *config.Options, depth int) (string, bool, error) {
	if css_calc.HasVar(value) {
		if opts.Format == config.FormatSpecified {
			return value, true, nil
		}
		return "", false, helpers.ErrUnexpectedVar
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if !relRegexp.MatchString(value) {
		return value, true, nil
	}
	if err := r.checkDepth(opts, depth, value); err != nil {
		return "", false, err
	}

	key, hit, found, cacheable := r.cached(cache.FamilyRelative, "relativeColor", opts, value, depth)
	if found {
		if hit == nil {
			return "", false, nil
		}
		return hit.(string), true, nil
	}

	resolved, ok, err := r.extractOriginColor(value, opts, depth)
	if err != nil {
		return "", false, err
	}
	if ok {
		if opts.Format == config.FormatSpecified {
			if strings.HasPrefix(resolved, "rgba(") {
				resolved = "rgb(" + resolved[len("rgba("):]
			} else if strings.HasPrefix(resolved, "hsla(") {
				resolved = "hsl(" + resolved[len("hsla("):]
			}
		} else if resolved, ok, err = r.computeRelativeColor(resolved, opts, depth); err != nil {
			return "", false, err
		}
	}

	if !ok {
		r.store(cache.FamilyRelative, key, cacheable, nil)
		return "", false, nil
	}
	r.store(cache.FamilyRelative, key, cacheable, resolved)
	return resolved, true, nil
}

// Normalizes the origin of a relative color. "currentcolor" is replaced by
// the current color, which must be known, and a named origin must exist. A
// nested relative origin is resolved first. The specified value also gets
// its origin and its channel expressions in canonical form.
func (r *Resolver) extractOriginColor(value string, opts *config.Options, depth int) (string, bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false, nil
	}
	if !relStartRegexp.MatchString(value) {
		return value, true, nil
	}

	key, hit, found, cacheable := r.cached(cache.FamilyRelative, "originColor", opts, value, depth)
	if found {
		if hit == nil {
			return "", false, nil
		}
		return hit.(string), true, nil
	}
	fail := func() (string, bool, error) {
		r.store(cache.FamilyRelative, key, cacheable, nil)
		return "", false, nil
	}

	if strings.Contains(value, "currentcolor") {
		if opts.CurrentColor == "" {
			return fail()
		}
		value = strings.ReplaceAll(value, "currentcolor", strings.ToLower(strings.TrimSpace(opts.CurrentColor)))
	}
	match := relCaptRegexp.FindStringSubmatch(value)
	if match == nil {
		return fail()
	}
	fn := match[1]
	specified := opts.Format == config.FormatSpecified

	if loc := originRegexp.FindStringSubmatchIndex(value); loc != nil {
		prefix, origin, rest := fn+"(from ", value[loc[2]:loc[3]], value[loc[3]:]
		if lowerWordRegexp.MatchString(origin) {
			if _, _, _, ok := css_color.LookupNamedColor(origin); !ok && origin != "transparent" {
				return fail()
			}
		} else if specified {
			resolved, err := r.resolve(origin, opts, depth+1)
			if err != nil {
				return "", false, err
			}
			origin = resolved.Value
		}
		if specified {
			channels, ok := r.resolveColorChannels(tokenize(r.log, rest), rest, fn, opts)
			if !ok {
				return fail()
			}
			rest = channels
		}
		value = prefix + origin + rest
	} else if rest := value[len(match[0]):]; relStartRegexp.MatchString(rest) {
		tokens := tokenize(r.log, rest)
		end := matchingCloseParen(tokens, 0)
		if end == -1 {
			return fail()
		}
		var origin []string
		for _, token := range tokens[:end+1] {
			origin = appendNormalized(origin, token, rest)
		}
		resolvedOrigin, ok, err := r.resolveRelativeColor(strings.Join(origin, ""), opts, depth+1)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return fail()
		}
		channels := rest[tokens[end].Range.End():]
		if specified {
			if channels, ok = r.resolveColorChannels(tokens[end+1:], rest, fn, opts); !ok {
				return fail()
			}
		}
		value = fn + "(from " + resolvedOrigin + channels
	}

	r.store(cache.FamilyRelative, key, cacheable, value)
	return value, true, nil
}

// Puts the channel expressions that follow the origin into canonical form,
// returning them along with the closing parenthesis. In "color()" the space
// name comes first. Percentages become fractions and lengths are resolved.
// An identifier that doesn't name a channel of the origin makes the whole
// relative color invalid.
func (r *Resolver) resolveColorChannels(tokens []css_lexer.Token, contents string, fn string, opts *config.Options) (string, bool) {
	keys, ok := channelKeys[fn]
	if !ok {
		return "", false
	}
	space := ""
	var channels [4][]string
	i, nest := 0, 0

	push := func(text string) bool {
		if i >= len(channels) {
			return false
		}
		channels[i] = append(channels[i], text)
		return true
	}

	for _, token := range tokens {
		inFunction := nest > 0
		switch token.Kind {
		case css_lexer.TDimension:
			text := token.Raw(contents)
			if resolved, ok := css_calc.ResolveDimension(token, contents, opts); ok {
				text = resolved
			}
			if !push(text) {
				return "", false
			}
			if !inFunction {
				i++
			}

		case css_lexer.TFunction, css_lexer.TOpenParen:
			if !push(strings.ToLower(token.Raw(contents))) {
				return "", false
			}
			nest++

		case css_lexer.TIdent:
			name := strings.ToLower(token.DecodedText(contents))
			if fn == "color" && space == "" && i == 0 && !inFunction {
				if s, ok := css_color.SpaceFromName(name); ok && s.IsPredefined() {
					space = name
					if s.IsXYZ() {
						keys = xyzChannelKeys
					}
					continue
				}
			}
			if !isChannelKey(keys, name) && name != "none" {
				return "", false
			}
			if !push(name) {
				return "", false
			}
			if !inFunction {
				i++
			}

		case css_lexer.TNumber, css_lexer.TPercentage:
			n := token.Value(contents)
			if token.Kind == css_lexer.TPercentage {
				n /= 100
			}
			if !push(helpers.FormatNumber(n)) {
				return "", false
			}
			if !inFunction {
				i++
			}

		case css_lexer.TCloseParen:
			if inFunction {
				channel := channels[i]
				if n := len(channel); n > 0 && channel[n-1] == " " {
					channel[n-1] = ")"
				} else {
					channel = append(channel, ")")
				}
				channels[i] = channel
				nest--
				if nest == 0 {
					i++
				}
			}

		case css_lexer.TWhitespace:
			if channel := channels[min(i, 3)]; inFunction && len(channel) > 0 {
				if last := channel[len(channel)-1]; last != " " && !strings.HasSuffix(last, "(") {
					push(" ")
				}
			}

		case css_lexer.TComment:

		default:
			if inFunction && !push(token.Raw(contents)) {
				return "", false
			}
		}
	}

	var values []string
	for _, channel := range channels {
		switch len(channel) {
		case 0:
		case 1:
			values = append(values, channel[0])
		default:
			serialized, ok := css_calc.SerializeCalc(r.log, strings.Join(channel, ""), opts)
			if !ok {
				return "", false
			}
			values = append(values, serialized)
		}
	}

	sb := strings.Builder{}
	if fn == "color" {
		if space == "" {
			return "", false
		}
		sb.WriteString(" " + space)
	}
	switch len(values) {
	case 3:
		sb.WriteString(" " + strings.Join(values, " ") + ")")
	case 4:
		sb.WriteString(" " + strings.Join(values[:3], " ") + " / " + values[3] + ")")
	default:
		return "", false
	}
	return sb.String(), true
}

func significantTokens(tokens []css_lexer.Token) []css_lexer.Token {
	out := make([]css_lexer.Token, 0, len(tokens))
	for _, token := range tokens {
		if token.Kind != css_lexer.TWhitespace && token.Kind != css_lexer.TComment {
			out = append(out, token)
		}
	}
	return out
}

// Returns the text of the component value at "i" (a single token or a
// whole block) and the index just past it.
func componentValue(tokens []css_lexer.Token, i int, contents string) (string, int, bool) {
	end := i
	if kind := tokens[i].Kind; kind == css_lexer.TFunction || kind == css_lexer.TOpenParen {
		if end = matchingCloseParen(tokens, i); end == -1 {
			return "", 0, false
		}
	}
	return contents[tokens[i].Range.Loc.Start:tokens[end].Range.End()], end + 1, true
}

// Evaluates a relative color whose origin is a plain color. Each channel
// expression may refer to the channels of the origin converted to the
// destination space, and an omitted alpha is the origin's alpha.
func (r *Resolver) computeRelativeColor(value string, opts *config.Options, depth int) (string, bool, error) {
	tokens := significantTokens(tokenize(r.log, value))
	if len(tokens) < 4 || tokens[0].Kind != css_lexer.TFunction || matchingCloseParen(tokens, 0) != len(tokens)-1 {
		return "", false, nil
	}
	fn := strings.ToLower(tokens[0].DecodedText(value))
	keys, ok := channelKeys[fn]
	if !ok || tokens[1].Kind != css_lexer.TIdent || !strings.EqualFold(tokens[1].DecodedText(value), "from") {
		return "", false, nil
	}
	last := len(tokens) - 1

	origin, i, ok := componentValue(tokens, 2, value)
	if !ok || i >= last {
		return "", false, nil
	}
	space, ok := functionSpaces[fn]
	if fn == "color" {
		if tokens[i].Kind != css_lexer.TIdent {
			return "", false, nil
		}
		space, ok = css_color.SpaceFromName(strings.ToLower(tokens[i].DecodedText(value)))
		if !ok || !space.IsPredefined() {
			return "", false, nil
		}
		if space.IsXYZ() {
			keys = xyzChannelKeys
		}
		i++
	}

	var channels []string
	alphaAt := -1
	for i < last {
		if tokens[i].Kind == css_lexer.TDelimSlash {
			if alphaAt != -1 {
				return "", false, nil
			}
			alphaAt = len(channels)
			i++
			continue
		}
		var channel string
		if channel, i, ok = componentValue(tokens, i, value); !ok {
			return "", false, nil
		}
		channels = append(channels, channel)
	}
	if (alphaAt == -1 && len(channels) != 3) || (alphaAt != -1 && (alphaAt != 3 || len(channels) != 4)) {
		return "", false, nil
	}

	if strings.HasPrefix(origin, "color-mix(") || css_calc.HasMath(origin) {
		resolved, err := r.resolve(origin, withFormat(opts, config.FormatComputed), depth+1)
		if err != nil {
			return "", false, err
		}
		origin = resolved.Value
	}
	originChannels, ok, err := css_color.ChannelsIn(origin, space)
	if err != nil || !ok {
		return "", false, err
	}

	bindings := make(map[string]float64, len(keys))
	for k, key := range keys {
		bindings[key] = originChannels[k].Or(0)
	}
	bases := percentBases[fn]

	var result [4]css_color.Component
	for k := range result {
		if k == 3 && len(channels) == 3 {
			result[k] = originChannels[3]
			continue
		}
		text := channels[k]
		if strings.EqualFold(text, "none") {
			result[k] = css_color.None
			continue
		}
		v, ok := css_calc.EvaluateValue(r.log, text, css_calc.EvalOptions{Bindings: bindings, PercentBasis: bases[k]})
		if !ok || (v.Unit != "" && !(v.Unit == "deg" && bases[k] == 0)) || math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return "", false, nil
		}
		result[k] = css_color.Num(v.Number)
	}
	if alpha := &result[3]; !alpha.IsNone {
		alpha.Value = helpers.Clamp(alpha.Value, 0, 1)
	}

	return r.serializeRelativeColor(fn, space, result)
}

func roundedChannel(c css_color.Component, scale float64, bit int) string {
	if c.IsNone {
		return "none"
	}
	v := c.Value / scale
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	rounded, _ := css_color.RoundToPrecision(v, bit)
	return helpers.FormatNumber(rounded)
}

func alphaSuffix(alpha css_color.Component) string {
	if !alpha.IsNone {
		if v, _ := css_color.RoundToPrecision(helpers.Clamp(alpha.Value, 0, 1), 8); v == 1 {
			return ""
		}
	}
	return " / " + roundedChannel(alpha, 1, 8)
}

// Lab-like colors keep their own function and six significant digits. The
// hsl and hwb functions are converted to sRGB. Everything else becomes a
// "color()" function with five significant digits.
func (r *Resolver) serializeRelativeColor(fn string, space css_color.Space, c [4]css_color.Component) (string, bool, error) {
	switch space {
	case css_color.SpaceLab, css_color.SpaceLCH, css_color.SpaceOklab, css_color.SpaceOklch:
		return space.String() + "(" + roundedChannel(c[0], 1, 16) + " " + roundedChannel(c[1], 1, 16) + " " +
			roundedChannel(c[2], 1, 16) + alphaSuffix(c[3]) + ")", true, nil

	case css_color.SpaceHSL, css_color.SpaceHWB:
		text := space.String() + "(" + helpers.FormatNumber(c[0].Or(0)) + " " + helpers.FormatNumber(c[1].Or(0)) + " " +
			helpers.FormatNumber(c[2].Or(0)) + " / " + c[3].String() + ")"
		rgb, err := css_color.ConvertColorToRgb(text, css_color.Options{})
		if err != nil || rgb.Kind != css_color.ResultComputed {
			return "", false, err
		}
		v := rgb.Tuple.Values
		return "color(srgb " + roundedChannel(v[0], 255, 10) + " " + roundedChannel(v[1], 255, 10) + " " +
			roundedChannel(v[2], 255, 10) + alphaSuffix(c[3]) + ")", true, nil
	}

	scale, name := 1.0, space.String()
	if space == css_color.SpaceRGB {
		scale, name = 255, "srgb"
	}
	return "color(" + name + " " + roundedChannel(c[0], scale, 10) + " " + roundedChannel(c[1], scale, 10) + " " +
		roundedChannel(c[2], scale, 10) + alphaSuffix(c[3]) + ")", true, nil
}

// Resolves each relative color that appears inside a larger value, such as
// an operand of "color-mix()", and splices the result back in its place.
func (r *Resolver) resolveNestedRelativeColors(value string, opts *config.Options, depth int) (string, bool, error) {
	tokens := tokenize(r.log, value)
	sb := strings.Builder{}
	copied := int32(0)

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token.Kind != css_lexer.TFunction {
			continue
		}
		if _, ok := channelKeys[strings.ToLower(token.DecodedText(value))]; !ok {
			continue
		}
		j := i + 1
		for j < len(tokens) && tokens[j].Kind == css_lexer.TWhitespace {
			j++
		}
		if j == len(tokens) || tokens[j].Kind != css_lexer.TIdent || !strings.EqualFold(tokens[j].DecodedText(value), "from") {
			continue
		}
		end := matchingCloseParen(tokens, i)
		if end == -1 {
			return "", false, nil
		}
		start, stop := token.Range.Loc.Start, tokens[end].Range.End()
		resolved, ok, err := r.resolveRelativeColor(value[start:stop], opts, depth+1)
		if err != nil || !ok {
			return "", false, err
		}
		sb.WriteString(value[copied:start])
		sb.WriteString(resolved)
		copied = stop
		i = end
	}

	sb.WriteString(value[copied:])
	return sb.String(), true, nil
}
