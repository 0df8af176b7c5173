package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/internal/resolver"
	"github.com/evanw/csscolor/internal/test"
)

func newResolver() *resolver.Resolver {
	return resolver.NewResolver(logger.NewDeferLog(logger.LevelSilent), cache.MakeCacheSet(0), 0)
}

var (
	computed  = config.Options{}
	specified = config.Options{Format: config.FormatSpecified}
	hex       = config.Options{Format: config.FormatHex}
	hexAlpha  = config.Options{Format: config.FormatHexAlpha}
)

func expectResolved(t *testing.T, input string, opts config.Options, expected string) {
	t.Helper()
	t.Run(opts.Format.String()+"/"+input, func(t *testing.T) {
		t.Helper()
		result, err := newResolver().Resolve(input, &opts)
		require.NoError(t, err)
		test.AssertEqual(t, result.Null, false)
		test.AssertEqualWithDiff(t, result.Value, expected)
	})
}

func expectNull(t *testing.T, input string, opts config.Options) {
	t.Helper()
	t.Run(opts.Format.String()+"/"+input, func(t *testing.T) {
		t.Helper()
		result, err := newResolver().Resolve(input, &opts)
		require.NoError(t, err)
		test.AssertEqual(t, result.Null, true)
	})
}

func TestResolveComputed(t *testing.T) {
	expectResolved(t, "red", computed, "rgb(255, 0, 0)")
	expectResolved(t, "  RED  ", computed, "rgb(255, 0, 0)")
	expectResolved(t, "#0000ff80", computed, "rgba(0, 0, 255, 0.5)")
	expectResolved(t, "rgb(255 0 0 / 0.5)", computed, "rgba(255, 0, 0, 0.5)")
	expectResolved(t, "lab(50 20 30)", computed, "lab(50 20 30)")
	expectResolved(t, "color-mix(in srgb, red 50%, blue 50%)", computed, "rgb(128, 0, 128)")
	expectResolved(t, "foo", computed, "rgba(0, 0, 0, 0)")
	expectResolved(t, "", computed, "rgba(0, 0, 0, 0)")
}

func TestResolveSpecified(t *testing.T) {
	expectResolved(t, "red", specified, "red")
	expectResolved(t, "rgb(255 0 0)", specified, "rgb(255, 0, 0)")
	expectResolved(t, "foo", specified, "")
	expectResolved(t, "var(--x)", specified, "var(--x)")
}

func TestResolveHex(t *testing.T) {
	expectResolved(t, "red", hex, "#ff0000")
	expectResolved(t, "rgb(255 0 0 / 0.5)", hexAlpha, "#ff000080")
	expectNull(t, "foo", hex)
}

func TestResolveTransparent(t *testing.T) {
	expectResolved(t, "transparent", computed, "rgba(0, 0, 0, 0)")
	expectResolved(t, "transparent", specified, "transparent")
	expectResolved(t, "transparent", hexAlpha, "#00000000")
	expectNull(t, "transparent", hex)
}

func TestResolveCurrentColor(t *testing.T) {
	expectResolved(t, "currentcolor", computed, "rgba(0, 0, 0, 0)")
	expectResolved(t, "currentColor", specified, "currentcolor")
	expectResolved(t, "currentcolor", config.Options{CurrentColor: "blue"}, "rgb(0, 0, 255)")
	expectResolved(t, "currentcolor", config.Options{Format: config.FormatHex, CurrentColor: "blue"}, "#0000ff")
	expectNull(t, "currentcolor", hex)
}

func TestResolveVar(t *testing.T) {
	props := map[string]string{"--red": "red", "--indirect": "var(--red)"}

	expectResolved(t, "var(--red)", config.Options{CustomProperty: props}, "rgb(255, 0, 0)")
	expectResolved(t, "var(--indirect)", config.Options{CustomProperty: props}, "rgb(255, 0, 0)")
	expectResolved(t, "var(--missing, blue)", config.Options{CustomProperty: props}, "rgb(0, 0, 255)")
	expectResolved(t, "var(--missing)", config.Options{CustomProperty: props}, "rgba(0, 0, 0, 0)")
	expectNull(t, "var(--missing)", config.Options{Format: config.FormatHex, CustomProperty: props})

	callback := config.Options{CustomPropertyCallback: func(name string) (string, bool) {
		if name == "--blue" {
			return "blue", true
		}
		return "", false
	}}
	expectResolved(t, "var(--blue)", callback, "rgb(0, 0, 255)")
}

func TestResolveVarCycle(t *testing.T) {
	opts := config.Options{CustomProperty: map[string]string{"--a": "var(--a)"}}
	_, err := newResolver().Resolve("var(--a)", &opts)
	test.AssertEqual(t, errors.Is(err, helpers.ErrTooDeeplyNested), true)

	opts.CustomProperty = map[string]string{"--a": "var(--b)", "--b": "var(--a)"}
	_, err = newResolver().Resolve("var(--a)", &opts)
	test.AssertEqual(t, errors.Is(err, helpers.ErrTooDeeplyNested), true)
}

func TestResolveRelative(t *testing.T) {
	expectResolved(t, "rgb(from red r g b)", computed, "color(srgb 1 0 0)")
	expectResolved(t, "rgb(from red r g b)", specified, "rgb(from red r g b)")
	expectResolved(t, "rgb(from red r g b)", hex, "#ff0000")
	expectResolved(t, "color-mix(in srgb, rgb(from red r g b) 50%, blue)", computed, "rgb(128, 0, 128)")
	expectResolved(t, "color(from red srgb r g b)", computed, "color(srgb 1 0 0)")
	expectResolved(t, "rgb(from red calc(infinity) g b)", computed, "rgba(0, 0, 0, 0)")
	expectResolved(t, "rgb(from red calc(infinity) g b)", specified, "")
}

func TestResolveCaches(t *testing.T) {
	caches := cache.MakeCacheSet(0)
	r := resolver.NewResolver(logger.NewDeferLog(logger.LevelSilent), caches, 0)

	for i := 0; i < 2; i++ {
		result, err := r.Resolve("red", &config.Options{})
		require.NoError(t, err)
		test.AssertEqual(t, result.Value, "rgb(255, 0, 0)")
	}
	stats := caches.Stats()[cache.FamilyResolve.String()]
	test.AssertEqual(t, stats.Len, 1)
	test.AssertEqual(t, stats.Hits, uint64(1))

	// Callbacks make the options uncacheable
	opts := config.Options{CustomPropertyCallback: func(string) (string, bool) { return "", false }}
	_, err := r.Resolve("blue", &opts)
	require.NoError(t, err)
	test.AssertEqual(t, caches.Stats()[cache.FamilyResolve.String()].Len, 1)
}

func TestResolveMaxDepth(t *testing.T) {
	r := resolver.NewResolver(logger.NewDeferLog(logger.LevelSilent), nil, 2)
	opts := config.Options{CustomProperty: map[string]string{
		"--a": "var(--b)",
		"--b": "var(--c)",
		"--c": "var(--d)",
		"--d": "red",
	}}
	_, err := r.Resolve("var(--a)", &opts)
	test.AssertEqual(t, errors.Is(err, helpers.ErrTooDeeplyNested), true)

	opts.MaxDepth = 8
	result, err := r.Resolve("var(--a)", &opts)
	require.NoError(t, err)
	test.AssertEqual(t, result.Value, "rgb(255, 0, 0)")
}

func TestResolveMaxDepthCached(t *testing.T) {
	r := newResolver()
	chain := map[string]string{
		"--a": "var(--b)",
		"--b": "var(--c)",
		"--c": "var(--d)",
		"--d": "red",
	}

	result, err := r.Resolve("var(--a)", &config.Options{CustomProperty: chain, MaxDepth: 50})
	require.NoError(t, err)
	test.AssertEqual(t, result.Value, "rgb(255, 0, 0)")

	// An outcome found with room to spare must not leak into a shallower call
	_, err = r.Resolve("var(--a)", &config.Options{CustomProperty: chain, MaxDepth: 2})
	test.AssertEqual(t, errors.Is(err, helpers.ErrTooDeeplyNested), true)

	result, err = r.Resolve("var(--a)", &config.Options{CustomProperty: chain, MaxDepth: 50})
	require.NoError(t, err)
	test.AssertEqual(t, result.Value, "rgb(255, 0, 0)")
}
