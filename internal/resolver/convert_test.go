package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/resolver"
	"github.com/evanw/csscolor/internal/test"
)

func TestColorToHex(t *testing.T) {
	r := newResolver()
	check := func(input string, opts config.Options, expected resolver.Resolved) {
		t.Helper()
		result, err := r.ColorToHex(input, &opts)
		require.NoError(t, err)
		test.AssertEqual(t, result, expected)
	}

	check("red", computed, resolver.Resolved{Value: "#ff0000"})
	check("rgb(255 0 0 / 0.5)", config.Options{Alpha: true}, resolver.Resolved{Value: "#ff000080"})
	check("rgb(255 0 0 / 0.5)", computed, resolver.Resolved{Value: "#ff0000"})
	check("color-mix(in srgb, red 50%, blue 50%)", computed, resolver.Resolved{Value: "#800080"})
	check("rgb(from red r g b)", computed, resolver.Resolved{Value: "#ff0000"})
	check("var(--c)", config.Options{CustomProperty: map[string]string{"--c": "blue"}}, resolver.Resolved{Value: "#0000ff"})
	check("var(--c)", computed, resolver.Resolved{Null: true})
	check("transparent", computed, resolver.Resolved{Null: true})
	check("foo(", computed, resolver.Resolved{Null: true})
	check("", computed, resolver.Resolved{Null: true})
}

func TestColorToTuples(t *testing.T) {
	r := newResolver()
	type convert func(string, *config.Options) ([4]float64, error)
	check := func(name string, fn convert, input string, opts config.Options, expected [4]float64) {
		t.Helper()
		t.Run(name+"/"+input, func(t *testing.T) {
			result, err := fn(input, &opts)
			require.NoError(t, err)
			for i := range expected {
				assert.InDelta(t, expected[i], result[i], 1e-3, "channel %d", i)
			}
		})
	}

	check("rgb", r.ColorToRgb, "red", computed, [4]float64{255, 0, 0, 1})
	check("rgb", r.ColorToRgb, "var(--c)", config.Options{CustomProperty: map[string]string{"--c": "blue"}}, [4]float64{0, 0, 255, 1})
	check("rgb", r.ColorToRgb, "foo(", computed, [4]float64{0, 0, 0, 0})
	check("hsl", r.ColorToHsl, "hsl(120 50% 50%)", computed, [4]float64{120, 50, 50, 1})
	check("lab", r.ColorToLab, "lab(50 20 30)", computed, [4]float64{50, 20, 30, 1})
	check("xyz", r.ColorToXyz, "white", computed, [4]float64{0.950456, 1, 1.089058, 1})
	check("xyz", r.ColorToXyz, "white", config.Options{D50: true}, [4]float64{0.9643, 1, 0.8251, 1})
	check("xyz-d50", r.ColorToXyzD50, "white", computed, [4]float64{0.9643, 1, 0.8251, 1})
	check("oklab", r.ColorToOklab, "white", computed, [4]float64{1, 0, 0, 1})
}

func TestNumberToHex(t *testing.T) {
	r := newResolver()
	for input, expected := range map[float64]string{0: "00", 15: "0f", 127.5: "80", 255: "ff"} {
		hex, err := r.NumberToHex(input)
		require.NoError(t, err)
		test.AssertEqual(t, hex, expected)
	}

	_, err := r.NumberToHex(256)
	require.Error(t, err)
}

func TestPreProcess(t *testing.T) {
	r := newResolver()
	opts := config.Options{CustomProperty: map[string]string{"--c": "red"}}

	result, ok, err := r.PreProcess("color-mix(in srgb, var(--c) 50%, blue 50%)", &opts)
	require.NoError(t, err)
	require.True(t, ok)
	test.AssertEqual(t, result, "rgb(128, 0, 128)")

	result, ok, err = r.PreProcess("rgb(calc(255 / 2) 0 0)", &opts)
	require.NoError(t, err)
	require.True(t, ok)
	test.AssertEqual(t, result, "rgb(127.5 0 0)")

	_, ok, err = r.PreProcess("var(--missing)", &opts)
	require.NoError(t, err)
	test.AssertEqual(t, ok, false)
}

func TestResolverCSSCalc(t *testing.T) {
	result, err := newResolver().CSSCalc("calc(1px + 2px)", &config.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, result, "3px")
}
