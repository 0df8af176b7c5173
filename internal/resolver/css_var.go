package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_calc"
	"github.com/evanw/csscolor/internal/css_lexer"
)

// These keywords are valid for any property, so a custom property holding
// one of them can never stand in for a color.
var cssWideKeywordRegexp = regexp.MustCompile(`^(?:inherit|initial|revert(?:-layer)?|unset)$`)

// CSSVar substitutes every "var()" reference in the value. Math functions
// that remain afterwards are resolved too. It returns false if a reference
// has neither a usable value nor a usable fallback. Specified values keep
// their references.
func (r *Resolver) CSSVar(value string, opts *config.Options) (string, bool, error) {
	return r.cssVar(value, opts, 0)
}

func (r *Resolver) cssVar(value string, opts *config.Options, depth int) (string, bool, error) {
	if !css_calc.HasVar(value) || opts.Format == config.FormatSpecified {
		return value, true, nil
	}
	if err := r.checkDepth(opts, depth, value); err != nil {
		return "", false, err
	}
	value = strings.TrimSpace(value)

	key, hit, found, cacheable := r.cached(cache.FamilyVar, "cssVar", opts, value, depth)
	if found {
		if hit == nil {
			return "", false, nil
		}
		return hit.(string), true, nil
	}

	values, ok, err := r.substituteVars(tokenize(r.log, value), value, opts, depth)
	if err != nil {
		return "", false, err
	}
	if !ok {
		r.log.AddDebug(fmt.Sprintf("Failed to substitute the custom properties in %q", value))
		r.store(cache.FamilyVar, key, cacheable, nil)
		return "", false, nil
	}

	color := strings.Join(values, "")
	if css_calc.HasMath(color) {
		if color, err = r.cssCalc(color, opts); err != nil {
			return "", false, err
		}
	}
	r.store(cache.FamilyVar, key, cacheable, color)
	return color, true, nil
}

// Rebuilds the value with each "var()" replaced by what it refers to.
func (r *Resolver) substituteVars(tokens []css_lexer.Token, contents string, opts *config.Options, depth int) ([]string, bool, error) {
	var out []string
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !isFunction(token, contents, "var") {
			out = appendNormalized(out, token, contents)
			continue
		}
		end, resolved, err := r.resolveCustomProperty(tokens, i, contents, opts, depth)
		if err != nil {
			return nil, false, err
		}
		if resolved == "" {
			return nil, false, nil
		}
		out = append(out, resolved)
		i = end
	}
	return out, true, nil
}

// Resolves the "var()" function whose token is at "start" and returns the
// index of its closing parenthesis along with the substituted text, which
// is empty if nothing usable was found.
//
// The candidates are the value of the custom property and then the fallback
// after the first top-level comma. When there is a fallback and it is a
// color, only a candidate that is a color is accepted.
func (r *Resolver) resolveCustomProperty(tokens []css_lexer.Token, start int, contents string, opts *config.Options, depth int) (int, string, error) {
	end := matchingCloseParen(tokens, start)
	if end == -1 {
		end = len(tokens)
	}

	var candidates []string
	sawName := false
	for i := start + 1; i < end; i++ {
		token := tokens[i]
		switch token.Kind {
		case css_lexer.TWhitespace, css_lexer.TComment:
			continue

		case css_lexer.TIdent:
			if !sawName {
				sawName = true
				if name := token.DecodedText(contents); strings.HasPrefix(name, "--") {
					if value, ok := opts.CustomProperty[name]; ok {
						candidates = append(candidates, value)
					} else if opts.CustomPropertyCallback != nil {
						if value, ok := opts.CustomPropertyCallback(name); ok && value != "" {
							candidates = append(candidates, value)
						}
					}
				}
				continue
			}

		case css_lexer.TComma:
			closeAt := int32(len(contents))
			if end < len(tokens) {
				closeAt = tokens[end].Range.Loc.Start
			}
			if fallback := strings.TrimSpace(contents[token.Range.End():closeAt]); fallback != "" {
				candidates = append(candidates, fallback)
			}
			i = end
			continue
		}
		sawName = true
	}

	resolveAsColor := false
	if len(candidates) > 1 {
		resolveAsColor = r.isColor(candidates[len(candidates)-1], depth)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		var resolved string
		switch {
		case css_calc.HasVar(candidate):
			value, ok, err := r.cssVar(candidate, opts, depth+1)
			if err != nil {
				return end, "", err
			}
			if ok {
				resolved = value
			}

		case css_calc.HasMath(candidate):
			value, err := r.cssCalc(candidate, opts)
			if err != nil {
				return end, "", err
			}
			resolved = value

		case !cssWideKeywordRegexp.MatchString(candidate):
			resolved = candidate
		}

		if resolved != "" && (!resolveAsColor || r.isColor(resolved, depth)) {
			return end, resolved, nil
		}
	}
	return end, "", nil
}
