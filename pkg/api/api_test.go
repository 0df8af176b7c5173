package api_test

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/test"
	"github.com/evanw/csscolor/pkg/api"
)

func TestResolveScenarios(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	check := func(input string, options api.Options, expected api.Result) {
		t.Helper()
		t.Run(input, func(t *testing.T) {
			t.Helper()
			result, err := engine.Resolve(input, options)
			require.NoError(t, err)
			test.AssertEqual(t, result, expected)
		})
	}

	check("red", api.Options{}, api.Result{Value: "rgb(255, 0, 0)"})
	check("rgba(0,0,0,0)", api.Options{Format: api.FormatHex}, api.Result{Null: true})
	check("color-mix(in srgb, red 50%, blue 50%)", api.Options{}, api.Result{Value: "rgb(128, 0, 128)"})
	check("hsl(from red h s calc(l + 10%))", api.Options{}, api.Result{Value: "color(srgb 1 0.2 0.2)"})
	check("red", api.Options{Key: "a"}, api.Result{Key: "a", Value: "rgb(255, 0, 0)"})
	check("transparent", api.Options{Format: api.FormatHex, Key: "b"}, api.Result{Key: "b", Null: true})
	check("transparent", api.Options{Format: api.FormatSpecifiedValue}, api.Result{Value: "transparent"})
	check("currentcolor", api.Options{Format: api.FormatSpecifiedValue}, api.Result{Value: "currentcolor"})
	check("currentcolor", api.Options{}, api.Result{Value: "rgba(0, 0, 0, 0)"})
}

func TestColorToHexStable(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	first, err := engine.ColorToHex("lab(50% 40 59.5)", api.Options{})
	require.NoError(t, err)
	require.False(t, first.Null)
	test.AssertEqual(t, regexp.MustCompile(`^#[0-9a-f]{6}$`).MatchString(first.Value), true)

	second, err := engine.ColorToHex("lab(50% 40 59.5)", api.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, second, first)
}

func TestIsColor(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	test.AssertEqual(t, engine.IsColor("notacolor"), false)
	test.AssertEqual(t, engine.IsColor("color-mix(in lab, red, blue)"), true)
}

func TestNamedColorRoundTrip(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	for name, bytes := range css_color.NamedColorTable() {
		t.Run(name, func(t *testing.T) {
			oracle := colorful.Color{R: float64(bytes[0]) / 255, G: float64(bytes[1]) / 255, B: float64(bytes[2]) / 255}

			hex, err := engine.ColorToHex(name, api.Options{})
			require.NoError(t, err)
			test.AssertEqual(t, hex.Value, oracle.Hex())

			specified, err := engine.Resolve(hex.Value, api.Options{Format: api.FormatSpecifiedValue})
			require.NoError(t, err)
			reparsed, err := engine.Resolve(specified.Value, api.Options{})
			require.NoError(t, err)
			test.AssertEqual(t, reparsed.Value, fmt.Sprintf("rgb(%d, %d, %d)", bytes[0], bytes[1], bytes[2]))
		})
	}
}

func TestIdempotence(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	for _, input := range []string{
		"red",
		"#12345678",
		"hsl(200 40% 30%)",
		"lab(50 20 30)",
		"oklch(0.7 0.1 120 / 0.5)",
		"color(display-p3 1 0 0)",
		"color-mix(in srgb, red, blue)",
		"color-mix(in oklab, red, blue)",
		"rgb(from red r g b)",
	} {
		t.Run(input, func(t *testing.T) {
			once, err := engine.Resolve(input, api.Options{})
			require.NoError(t, err)
			twice, err := engine.Resolve(once.Value, api.Options{})
			require.NoError(t, err)
			test.AssertEqualWithDiff(t, twice.Value, once.Value)
		})
	}
}

// The conversions agree with an independent implementation to within one
// byte per channel
func TestConversionOracle(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})
	check := func(input string, oracle colorful.Color) {
		t.Helper()
		t.Run(input, func(t *testing.T) {
			t.Helper()
			result, err := engine.Resolve(input, api.Options{Format: api.FormatHex})
			require.NoError(t, err)
			require.False(t, result.Null)
			observed, err := colorful.Hex(result.Value)
			require.NoError(t, err)
			r1, g1, b1 := observed.RGB255()
			r2, g2, b2 := oracle.Clamped().RGB255()
			assert.InDelta(t, float64(r2), float64(r1), 1)
			assert.InDelta(t, float64(g2), float64(g1), 1)
			assert.InDelta(t, float64(b2), float64(b1), 1)
		})
	}

	check("hsl(200 40% 30%)", colorful.Hsl(200, 0.4, 0.3))
	check("hsl(10 90% 60%)", colorful.Hsl(10, 0.9, 0.6))
	check("oklab(0.6 0.05 -0.05)", colorful.OkLab(0.6, 0.05, -0.05))
	check("oklab(0.8 -0.1 0.1)", colorful.OkLab(0.8, -0.1, 0.1))
}

func TestColorToTuples(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{})

	rgb, err := engine.ColorToRgb("invalid", api.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, rgb, [4]float64{0, 0, 0, 0})

	hsl, err := engine.ColorToHsl("hsl(120 50% 50%)", api.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, hsl, [4]float64{120, 50, 50, 1})

	oklab, err := engine.ColorToOklab("white", api.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1, oklab[0], 1e-3)

	hex, err := engine.NumberToHex(255)
	require.NoError(t, err)
	test.AssertEqual(t, hex, "ff")

	calc, err := engine.CSSCalc("calc(2em + 4px)", api.Options{Dimension: map[string]float64{"em": 10}})
	require.NoError(t, err)
	test.AssertEqual(t, calc, "24px")
}

func TestDepthLimit(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{MaxDepth: 4})
	_, err := engine.Resolve("var(--a)", api.Options{CustomProperty: map[string]string{"--a": "var(--a)"}})
	test.AssertEqual(t, errors.Is(err, api.ErrTooDeeplyNested), true)
}

func TestEngineConcurrent(t *testing.T) {
	engine := api.NewEngine(api.EngineOptions{CacheSize: 16})
	inputs := []string{"red", "blue", "color-mix(in srgb, red, blue)", "rgb(from red r g b)", "hsl(120 50% 50%)"}
	expected := make([]string, len(inputs))
	for i, input := range inputs {
		result, err := engine.Resolve(input, api.Options{})
		require.NoError(t, err)
		expected[i] = result.Value
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				i := n % len(inputs)
				result, err := engine.Resolve(inputs[i], api.Options{})
				assert.NoError(t, err)
				assert.Equal(t, expected[i], result.Value)
			}
		}()
	}
	wg.Wait()

	stats := engine.CacheStats()["resolve"]
	assert.Greater(t, stats.Hits, uint64(0))
}
