// This package turns a CSS color value into its specified value, its
// computed value or a hex string. It substitutes "var()" references, expands
// relative colors and math functions, and then hands the plain color to
// "css_color" for parsing and conversion. Outcomes are memoized in the
// caches of the owning engine.
package resolver

import (
	"fmt"
	"strings"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
)

type Resolver struct {
	log    logger.Log
	caches *cache.CacheSet

	// Shared by nested "var()" references, nested relative colors and
	// nested "color-mix()" functions. A call may lower or raise it through
	// "config.Options.MaxDepth".
	maxDepth int
}

func NewResolver(log logger.Log, caches *cache.CacheSet, maxDepth int) *Resolver {
	if caches == nil {
		caches = cache.MakeCacheSet(0)
	}
	if maxDepth <= 0 {
		maxDepth = helpers.DefaultMaxDepth
	}
	return &Resolver{
		log:      log,
		caches:   caches,
		maxDepth: maxDepth,
	}
}

// Resolved is the outcome of resolving a color. "Null" means there is no
// value at all, which only the hex formats produce.
type Resolved struct {
	Value string
	Null  bool
}

const rgbTransparent = "rgba(0, 0, 0, 0)"

func (r *Resolver) depthLimit(opts *config.Options) int {
	if opts.MaxDepth > 0 {
		return opts.MaxDepth
	}
	return r.maxDepth
}

func (r *Resolver) checkDepth(opts *config.Options, depth int, value string) error {
	if depth > r.depthLimit(opts) {
		r.log.AddDebug(fmt.Sprintf("Stopped resolving %q after %d levels of nesting", value, depth-1))
		return helpers.ErrTooDeeplyNested
	}
	return nil
}

func (r *Resolver) colorOptions(opts *config.Options) css_color.Options {
	return css_color.Options{
		Format:     opts.Format,
		ColorSpace: opts.ColorSpace,
		D50:        opts.D50,
		MaxDepth:   r.depthLimit(opts),
	}
}

// Returns a copy of the options with a different format. Maps and callbacks
// are shared.
func withFormat(opts *config.Options, format config.Format) *config.Options {
	if opts.Format == format {
		return opts
	}
	clone := opts.Clone()
	clone.Format = format
	return clone
}

// Looks up a memoized outcome. A stored nil is a remembered failure and
// comes back as a hit with a nil value. Outcomes are keyed by the nesting
// levels left below "depth", since a deeper start may fail where a shallower
// one succeeded.
func (r *Resolver) cached(family cache.Family, op string, opts *config.Options, value string, depth int) (key string, hit interface{}, found bool, cacheable bool) {
	key, cacheable = opts.CacheKey(op, value, r.depthLimit(opts)-depth)
	if !cacheable {
		return
	}
	hit, found = r.caches.Get(family, key)
	return
}

func (r *Resolver) store(family cache.Family, key string, cacheable bool, value interface{}) {
	if cacheable {
		r.caches.Set(family, key, value)
	}
}

func tokenize(log logger.Log, text string) []css_lexer.Token {
	return css_lexer.Tokenize(log, logger.Source{PrettyPath: "<value>", Contents: text})
}

func isFunction(token css_lexer.Token, contents string, name string) bool {
	return token.Kind == css_lexer.TFunction && strings.EqualFold(token.DecodedText(contents), name)
}

// Returns the index of the token that closes the block opened at "start",
// or -1 if the block is never closed.
func matchingCloseParen(tokens []css_lexer.Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case css_lexer.TFunction, css_lexer.TOpenParen:
			depth++
		case css_lexer.TCloseParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Appends a token to a normalized value. Whitespace collapses to a single
// space and is dropped after an opening parenthesis and before a closing
// one. Comments are dropped.
func appendNormalized(out []string, token css_lexer.Token, contents string) []string {
	switch token.Kind {
	case css_lexer.TCloseParen:
		if n := len(out); n > 0 && out[n-1] == " " {
			out[n-1] = ")"
			return out
		}
		return append(out, ")")

	case css_lexer.TWhitespace:
		if n := len(out); n > 0 && !strings.HasSuffix(out[n-1], "(") && out[n-1] != " " {
			return append(out, " ")
		}
		return out

	case css_lexer.TComment:
		return out
	}
	return append(out, token.Raw(contents))
}
