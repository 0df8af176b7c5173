package css_color_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/test"
)

func expectMixed(t *testing.T, value string, opts css_color.Options, expected css_color.Tuple) {
	t.Helper()
	expectTuple(t, css_color.ResolveColorMix, value, opts, expected)
}

func expectMixSpecified(t *testing.T, value string, expected string) {
	t.Helper()
	t.Run(value, func(t *testing.T) {
		t.Helper()
		result, err := css_color.ResolveColorMix(value, specified)
		require.NoError(t, err)
		test.AssertEqualWithDiff(t, result.Text, expected)
		if expected == "" {
			test.AssertEqual(t, result.Kind, css_color.ResultEmpty)
		} else {
			test.AssertEqual(t, result.Kind, css_color.ResultSpecified)
		}
	})
}

func TestMixSRGB(t *testing.T) {
	expectMixed(t, "color-mix(in srgb, red, blue)", hexFormat, rgb(128, 0, 128, 1))
	expectMixed(t, "color-mix(in srgb, red 50%, blue 50%)", hexFormat, rgb(128, 0, 128, 1))
	expectMixed(t, "COLOR-MIX(IN SRGB, RED, BLUE)", hexFormat, rgb(128, 0, 128, 1))
	expectMixed(t, "color-mix(in srgb, red 25%, blue)", hexFormat, rgb(64, 0, 191, 1))
	expectMixed(t, "color-mix(in srgb, red, blue 75%)", hexFormat, rgb(64, 0, 191, 1))
	expectMixed(t, "color-mix(in srgb, red, blue)", computed, css_color.NewTuple(css_color.SpaceSRGB, 0.5, 0, 0.5, 1))

	// Percentages that sum to less than 100% scale alpha.
	expectMixed(t, "color-mix(in srgb, red 30%, blue 30%)", hexFormat, rgb(128, 0, 128, 0.6))
	expectMixed(t, "color-mix(in srgb, red 30%, blue 30%)", computed, css_color.NewTuple(css_color.SpaceSRGB, 0.5, 0, 0.5, 0.6))

	// Channels are premultiplied by alpha.
	expectMixed(t, "color-mix(in srgb, rgb(255 0 0 / 0.5), rgb(0 0 255))", computed,
		css_color.NewTuple(css_color.SpaceSRGB, 0.333333, 0, 0.666667, 0.75))
	expectMixed(t, "color-mix(in srgb, transparent, red)", hexFormat, rgb(255, 0, 0, 0.5))

	expectMixed(t, "color-mix(in srgb, color(srgb 0 0 1), white)", hexFormat, rgb(128, 128, 255, 1))
	expectMixed(t, "color-mix(in srgb-linear, black, white)", computed, css_color.NewTuple(css_color.SpaceSRGBLinear, 0.5, 0.5, 0.5, 1))
	expectMixed(t, "color-mix(in xyz, red, red)", hexFormat, rgb(255, 0, 0, 1))
	expectMixed(t, "color-mix(in xyz-d50, blue 10%, blue)", hexFormat, rgb(0, 0, 255, 1))
}

func TestMixMissingComponents(t *testing.T) {
	// A channel missing from one operand takes the other's value.
	expectMixed(t, "color-mix(in srgb, rgb(255 none 0), rgb(none 0 none))", computed, css_color.NewTuple(css_color.SpaceSRGB, 1, 0, 0, 1))

	// A channel missing from both stays missing.
	expectMixed(t, "color-mix(in srgb, rgb(255 none 0), rgb(0 none 0))", computed,
		css_color.Tuple{Space: css_color.SpaceSRGB, Values: [4]css_color.Component{
			css_color.Num(0.5), css_color.None, css_color.Num(0), css_color.Num(1)}})

	// "currentcolor" is missing every channel.
	expectMixed(t, "color-mix(in srgb, currentcolor, red)", computed, css_color.NewTuple(css_color.SpaceSRGB, 1, 0, 0, 1))
	expectMixed(t, "color-mix(in oklab, currentcolor, oklab(0.5 0.1 0.1))", computed, css_color.NewTuple(css_color.SpaceOklab, 0.5, 0.1, 0.1, 1))
}

func TestMixPolar(t *testing.T) {
	expectMixed(t, "color-mix(in hsl, red, blue)", hexFormat, rgb(255, 0, 255, 1))
	expectMixed(t, "color-mix(in hsl longer hue, red, blue)", hexFormat, rgb(0, 255, 0, 1))
	expectMixed(t, "color-mix(in hwb, red, red)", hexFormat, rgb(255, 0, 0, 1))
	expectMixed(t, "color-mix(in hsl, red, blue)", computed, css_color.NewTuple(css_color.SpaceSRGB, 1, 0, 1, 1))

	expectMixed(t, "color-mix(in oklch, oklch(0.5 0.1 10), oklch(0.7 0.3 350))", computed,
		css_color.NewTuple(css_color.SpaceOklch, 0.6, 0.2, 0, 1))
	expectMixed(t, "color-mix(in oklch increasing hue, oklch(0.5 0.1 10), oklch(0.7 0.3 350))", computed,
		css_color.NewTuple(css_color.SpaceOklch, 0.6, 0.2, 180, 1))
	expectMixed(t, "color-mix(in lch, lch(40 20 100), lch(60 40 120))", computed,
		css_color.NewTuple(css_color.SpaceLCH, 50, 30, 110, 1))
}

func TestMixLab(t *testing.T) {
	expectMixed(t, "color-mix(in lab, lab(50 20 -30), lab(70 -20 30))", computed, css_color.NewTuple(css_color.SpaceLab, 60, 0, 0, 1))
	expectMixed(t, "color-mix(in oklab, oklab(0.5 0.1 -0.1 / 0.5), oklab(0.5 0.1 -0.1 / 0.5))", computed,
		css_color.NewTuple(css_color.SpaceOklab, 0.5, 0.1, -0.1, 0.5))
	expectMixed(t, "color-mix(in lab, white, white)", hexFormat, rgb(255, 255, 255, 1))
	expectMixed(t, "color-mix(in oklab, black, black)", hexFormat, rgb(0, 0, 0, 1))
}

func TestMixNested(t *testing.T) {
	expectMixed(t, "color-mix(in srgb, color-mix(in srgb, red, blue), white)", hexFormat, rgb(191, 128, 191, 1))
	expectMixSpecified(t, "color-mix(in srgb, color-mix(in srgb, red, blue), white)",
		"color-mix(in srgb, color-mix(in srgb, red, blue), white)")

	value := "red"
	for i := 0; i < 6; i++ {
		value = "color-mix(in srgb, " + value + ", red)"
	}
	expectMixed(t, value, hexFormat, rgb(255, 0, 0, 1))
	_, err := css_color.ResolveColorMix(value, css_color.Options{Format: config.FormatHex, MaxDepth: 4})
	test.AssertEqual(t, errors.Is(err, helpers.ErrTooDeeplyNested), true)
}

func TestMixSpecified(t *testing.T) {
	expectMixSpecified(t, "color-mix(in srgb, red, blue)", "color-mix(in srgb, red, blue)")
	expectMixSpecified(t, "color-mix(in srgb, red 50%, blue)", "color-mix(in srgb, red, blue)")
	expectMixSpecified(t, "color-mix(in srgb, red 25%, blue)", "color-mix(in srgb, red 25%, blue)")
	expectMixSpecified(t, "color-mix(in srgb, red, blue 25%)", "color-mix(in srgb, red 75%, blue)")
	expectMixSpecified(t, "color-mix(in srgb, red 30%, blue 30%)", "color-mix(in srgb, red 30%, blue 30%)")
	expectMixSpecified(t, "color-mix(in hsl longer hue, red, blue)", "color-mix(in hsl longer hue, red, blue)")
	expectMixSpecified(t, "color-mix(in srgb, rgb(255 0 0), #00f)", "color-mix(in srgb, rgb(255, 0, 0), rgb(0, 0, 255))")
	expectMixSpecified(t, "color-mix(in oklab, lab(50 20 -30), color(srgb 1 0 0 / 0.5))",
		"color-mix(in oklab, lab(50 20 -30), color(srgb 1 0 0 / 0.5))")
}

func TestMixInvalid(t *testing.T) {
	for _, value := range []string{
		"color-mix(in srgb, red 150%, blue)",
		"color-mix(in srgb, red -10%, blue)",
		"color-mix(in srgb, red 0%, blue 0%)",
		"color-mix(in cmyk, red, blue)",
		"color-mix(srgb, red, blue)",
		"color-mix(in srgb, red)",
		"color-mix(in srgb, red, blue, green)",
		"color-mix(in srgb, notacolor, blue)",
		"color-mix(in srgb, rgb(1 2), blue)",
		"color-mix(in srgb, red, blue",
		"rgb(1 2 3)",
	} {
		t.Run(value, func(t *testing.T) {
			result, err := css_color.ResolveColorMix(value, hexFormat)
			require.NoError(t, err)
			test.AssertDeepEqual(t, result.Tuple, css_color.Transparent)

			result, err = css_color.ResolveColorMix(value, specified)
			require.NoError(t, err)
			test.AssertEqual(t, result.Kind, css_color.ResultEmpty)
		})
	}

	// Mixing two fully transparent colors gives a transparent nested result,
	// which can't be told apart from a failure.
	nested := "color-mix(in srgb, color-mix(in srgb, transparent, transparent), red)"
	result, err := css_color.ResolveColorMix(nested, hexFormat)
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.Transparent)
}
