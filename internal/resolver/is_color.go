package resolver

import (
	"regexp"
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_color"
)

var mixOnlyRegexp = regexp.MustCompile(`^(?:` + css_color.SynMix + `)$`)

// IsColor reports whether the value is a valid color, including
// "currentcolor", "transparent" and values with math functions, relative
// colors or "var()" references.
func (r *Resolver) IsColor(value string) bool {
	return r.isColor(value, 0)
}

func (r *Resolver) isColor(value string, depth int) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	if lowerWordRegexp.MatchString(value) {
		if value == "currentcolor" || value == "transparent" {
			return true
		}
		_, _, _, ok := css_color.LookupNamedColor(value)
		return ok
	}
	if css_color.IsColorSyntax(value) || mixOnlyRegexp.MatchString(value) {
		return true
	}
	resolved, err := r.resolve(value, &config.Options{Format: config.FormatSpecified}, depth+1)
	return err == nil && resolved.Value != ""
}
