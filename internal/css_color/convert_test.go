package css_color_test

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/test"
)

func assertChannels(t *testing.T, observed [4]css_color.Component, expected [4]float64, delta float64) {
	t.Helper()
	for i := range expected {
		require.False(t, observed[i].IsNone, "channel %d is missing", i)
		assert.InDelta(t, expected[i], observed[i].Value, delta, "channel %d", i)
	}
}

func TestConvertHexToRgb(t *testing.T) {
	expected := []struct {
		hex string
		rgb [4]float64
	}{
		{"#fff", [4]float64{255, 255, 255, 1}},
		{"#F00", [4]float64{255, 0, 0, 1}},
		{"#f008", [4]float64{255, 0, 0, 0.533}},
		{"#123456", [4]float64{0x12, 0x34, 0x56, 1}},
		{"#0000001a", [4]float64{0, 0, 0, 0.1}},
		{"#00000000", [4]float64{0, 0, 0, 0}},
	}

	for _, it := range expected {
		t.Run(it.hex, func(t *testing.T) {
			rgb, err := css_color.ConvertHexToRgb(it.hex)
			require.NoError(t, err)
			test.AssertDeepEqual(t, rgb, it.rgb)
		})
	}

	for _, hex := range []string{"#ggg", "fff", "#12345", ""} {
		_, err := css_color.ConvertHexToRgb(hex)
		test.AssertEqual(t, errorKind(t, err), helpers.KindSyntaxError)
	}
}

func TestConvertRgbToHex(t *testing.T) {
	expected := []struct {
		rgb []float64
		hex string
	}{
		{[]float64{255, 0, 0}, "#ff0000"},
		{[]float64{255, 0, 0, 1}, "#ff0000"},
		{[]float64{255, 0, 0, 0.5}, "#ff000080"},
		{[]float64{0, 0, 0, 0}, "#00000000"},
		{[]float64{17.4, 34.6, 51}, "#112333"},
	}

	for _, it := range expected {
		t.Run(it.hex, func(t *testing.T) {
			hex, err := css_color.ConvertRgbToHex(it.rgb)
			require.NoError(t, err)
			test.AssertEqual(t, hex, it.hex)
		})
	}

	_, err := css_color.ConvertRgbToHex([]float64{256, 0, 0})
	test.AssertEqual(t, errorKind(t, err), helpers.KindRangeError)
	_, err = css_color.ConvertRgbToHex([]float64{0, 0})
	test.AssertEqual(t, errorKind(t, err), helpers.KindError)
}

func TestConvertLinearRgbToHex(t *testing.T) {
	hex, err := css_color.ConvertLinearRgbToHex([]float64{1, 0, 0, 1})
	require.NoError(t, err)
	test.AssertEqual(t, hex, "#ff0000")

	hex, err = css_color.ConvertLinearRgbToHex([]float64{0, 0, 0, 0})
	require.NoError(t, err)
	test.AssertEqual(t, hex, "#00000000")

	_, err = css_color.ConvertLinearRgbToHex([]float64{1, 0, 0})
	test.AssertEqual(t, errorKind(t, err), helpers.KindError)
}

func TestConvertRgbToXyz(t *testing.T) {
	xyz, err := css_color.ConvertRgbToXyz([]float64{255, 255, 255})
	require.NoError(t, err)
	assert.InDelta(t, 0.95046, xyz[0], 1e-4)
	assert.InDelta(t, 1.0, xyz[1], 1e-9)
	assert.InDelta(t, 1.08906, xyz[2], 1e-4)
	test.AssertEqual(t, xyz[3], 1.0)

	xyz, err = css_color.ConvertRgbToXyz([]float64{255, 0, 0, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.412391, xyz[0], 1e-6)
	assert.InDelta(t, 0.212639, xyz[1], 1e-6)
	assert.InDelta(t, 0.019331, xyz[2], 1e-6)
	test.AssertEqual(t, xyz[3], 0.5)

	d50, err := css_color.ConvertRgbToXyzD50([]float64{255, 255, 255})
	require.NoError(t, err)
	assert.InDelta(t, 0.96430, d50[0], 1e-4)
	assert.InDelta(t, 1.0, d50[1], 1e-4)
	assert.InDelta(t, 0.82510, d50[2], 1e-4)
}

// Every named color survives a trip through XYZ and back, and prints as the
// same hex string as an independent implementation.
func TestNamedColorRoundTrip(t *testing.T) {
	table := css_color.NamedColorTable()
	test.AssertEqual(t, len(table), 148)

	for name, bytes := range table {
		t.Run(name, func(t *testing.T) {
			rgb := []float64{float64(bytes[0]), float64(bytes[1]), float64(bytes[2])}
			xyz, err := css_color.ConvertRgbToXyz(rgb)
			require.NoError(t, err)
			back, err := css_color.ConvertXyzToRgb(xyz[:3])
			require.NoError(t, err)
			test.AssertDeepEqual(t, back, [4]float64{rgb[0], rgb[1], rgb[2], 1})

			hex, err := css_color.ConvertRgbToHex(rgb)
			require.NoError(t, err)
			oracle := colorful.Color{R: rgb[0] / 255, G: rgb[1] / 255, B: rgb[2] / 255}
			test.AssertEqual(t, hex, oracle.Hex())

			r, g, b, ok := css_color.LookupNamedColor(name)
			test.AssertEqual(t, ok, true)
			test.AssertDeepEqual(t, []float64{r, g, b}, rgb)
		})
	}

	_, _, _, ok := css_color.LookupNamedColor("transparent")
	test.AssertEqual(t, ok, false)
}

func TestConvertHexToLinearRgb(t *testing.T) {
	for _, hex := range []string{"#3a7bd5", "#808080", "#0a0b0c", "#ffcc00"} {
		t.Run(hex, func(t *testing.T) {
			lin, err := css_color.ConvertHexToLinearRgb(hex)
			require.NoError(t, err)
			oracle, err := colorful.Hex(hex)
			require.NoError(t, err)
			r, g, b := oracle.LinearRgb()
			assert.InDelta(t, r, lin[0], 1e-9)
			assert.InDelta(t, g, lin[1], 1e-9)
			assert.InDelta(t, b, lin[2], 1e-9)
		})
	}
}

func TestConvertXyzToHsl(t *testing.T) {
	white, err := css_color.ConvertRgbToXyz([]float64{255, 255, 255})
	require.NoError(t, err)
	hsl, err := css_color.ConvertXyzToHsl(white[:])
	require.NoError(t, err)
	test.AssertDeepEqual(t, hsl, [4]css_color.Component{css_color.None, css_color.None, css_color.Num(100), css_color.Num(1)})

	gray, err := css_color.ConvertRgbToXyz([]float64{128, 128, 128})
	require.NoError(t, err)
	hsl, err = css_color.ConvertXyzToHsl(gray[:])
	require.NoError(t, err)
	test.AssertEqual(t, hsl[0].IsNone, true)
	test.AssertEqual(t, hsl[1], css_color.Num(0))

	red, err := css_color.ConvertRgbToXyz([]float64{255, 0, 0})
	require.NoError(t, err)
	hsl, err = css_color.ConvertXyzToHsl(red[:])
	require.NoError(t, err)
	assertChannels(t, hsl, [4]float64{0, 100, 50, 1}, 1e-9)

	hwb, err := css_color.ConvertXyzToHwb(white[:])
	require.NoError(t, err)
	test.AssertDeepEqual(t, hwb, [4]css_color.Component{css_color.None, css_color.Num(100), css_color.Num(0), css_color.Num(1)})
}

func TestConvertColorToHslOracle(t *testing.T) {
	for _, hex := range []string{"#3a7bd5", "#ff8000", "#123456", "#c0ffee"} {
		t.Run(hex, func(t *testing.T) {
			result, err := css_color.ConvertColorToHsl(hex, css_color.Options{})
			require.NoError(t, err)
			test.AssertEqual(t, result.Kind, css_color.ResultComputed)
			oracle, err := colorful.Hex(hex)
			require.NoError(t, err)
			h, s, l := oracle.Hsl()
			assertChannels(t, result.Tuple.Values, [4]float64{h, s * 100, l * 100, 1}, 1e-6)
		})
	}
}

func TestConvertColorToOklabOracle(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#008000", "#0000ff", "#663399", "#ffa500"} {
		t.Run(hex, func(t *testing.T) {
			oracle, err := colorful.Hex(hex)
			require.NoError(t, err)

			result, err := css_color.ConvertColorToOklab(hex, css_color.Options{})
			require.NoError(t, err)
			l, a, b := oracle.OkLab()
			assertChannels(t, result.Tuple.Values, [4]float64{l, a, b, 1}, 1e-3)
			test.AssertEqual(t, result.Tuple.Space, css_color.SpaceOklab)

			result, err = css_color.ConvertColorToOklch(hex, css_color.Options{})
			require.NoError(t, err)
			l, c, h := oracle.OkLch()
			v := result.Tuple.Values
			assert.InDelta(t, l, v[0].Value, 1e-3)
			assert.InDelta(t, c, v[1].Value, 1e-3)
			assert.InDelta(t, h, v[2].Value, 0.1)
		})
	}
}

func TestConvertColorToLab(t *testing.T) {
	result, err := css_color.ConvertColorToLab("red", css_color.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, result.Tuple.Space, css_color.SpaceLab)
	assertChannels(t, result.Tuple.Values, [4]float64{54.291, 80.805, 69.891, 1}, 0.05)

	result, err = css_color.ConvertColorToLch("red", css_color.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, result.Tuple.Space, css_color.SpaceLCH)
	assertChannels(t, result.Tuple.Values, [4]float64{54.291, 106.84, 40.853, 1}, 0.05)

	// Lab input is passed through.
	result, err = css_color.ConvertColorToLab("lab(50 20 -30 / 0.5)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceLab, 50, 20, -30, 0.5))

	result, err = css_color.ConvertColorToOklch("oklch(0.5 0.1 90)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceOklch, 0.5, 0.1, 90, 1))
}

// At the extremes of lightness the other two channels are meaningless and
// come back as "none"
func TestConvertLightnessExtremes(t *testing.T) {
	converters := []struct {
		name    string
		convert func(string, css_color.Options) (css_color.Result, error)
		white   float64
	}{
		{"lab", css_color.ConvertColorToLab, 100},
		{"lch", css_color.ConvertColorToLch, 100},
		{"oklab", css_color.ConvertColorToOklab, 1},
		{"oklch", css_color.ConvertColorToOklch, 1},
	}

	for _, it := range converters {
		for color, isWhite := range map[string]bool{"black": false, "#000": false, "white": true, "#ffffff80": true} {
			t.Run(it.name+"/"+color, func(t *testing.T) {
				result, err := it.convert(color, css_color.Options{})
				require.NoError(t, err)
				test.AssertEqual(t, result.Kind, css_color.ResultComputed)
				values := result.Tuple.Values
				lightness := 0.0
				if isWhite {
					lightness = it.white
				}
				assert.InDelta(t, lightness, values[0].Value, 1e-3)
				test.AssertEqual(t, values[1].IsNone, true)
				test.AssertEqual(t, values[2].IsNone, true)
			})
		}
	}
}

func TestConvertColorToHslAndHwb(t *testing.T) {
	result, err := css_color.ConvertColorToHsl("hsl(120 50% 50%)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceHSL, 120, 50, 50, 1))

	result, err = css_color.ConvertColorToHsl("#ff8000", css_color.Options{Format: config.FormatHSL})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceHSL, 30, 100, 50, 1))

	result, err = css_color.ConvertColorToHwb("hwb(90 10% 20%)", css_color.Options{Format: config.FormatHWB})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceHWB, 90, 10, 20, 1))

	result, err = css_color.ConvertColorToHwb("white", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple.Values, [4]css_color.Component{css_color.None, css_color.Num(100), css_color.Num(0), css_color.Num(1)})

	// The mix format rejects what isn't a color.
	result, err = css_color.ConvertColorToHsl("nope", css_color.Options{Format: config.FormatMix})
	require.NoError(t, err)
	test.AssertEqual(t, result.Kind, css_color.ResultInvalid)
}

func TestConvertColorToRgb(t *testing.T) {
	result, err := css_color.ConvertColorToRgb("color(srgb 1 0.5 0)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceRGB, 255, 127.5, 0, 1))

	result, err = css_color.ConvertColorToRgb("rebeccapurple", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceRGB, 102, 51, 153, 1))

	result, err = css_color.ConvertColorToRgb("color(display-p3 1 1 1)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceRGB, 255, 255, 255, 1))

	result, err = css_color.ConvertColorToLinearRgb("red", css_color.Options{})
	require.NoError(t, err)
	test.AssertEqual(t, result.Tuple.Space, css_color.SpaceSRGBLinear)
	assertChannels(t, result.Tuple.Values, [4]float64{1, 0, 0, 1}, 1e-5)
}

func TestConvertColorToXyz(t *testing.T) {
	result, err := css_color.ConvertColorToXyz("color(xyz 0.1 0.2 0.3)", css_color.Options{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceXYZD65, 0.1, 0.2, 0.3, 1))

	result, err = css_color.ConvertColorToXyz("color(xyz-d50 0.1 0.2 0.3 / 0.5)", css_color.Options{D50: true})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Tuple, css_color.NewTuple(css_color.SpaceXYZD50, 0.1, 0.2, 0.3, 0.5))

	result, err = css_color.ConvertColorToXyz("red", css_color.Options{})
	require.NoError(t, err)
	assertChannels(t, result.Tuple.Values, [4]float64{0.412391, 0.212639, 0.0193308, 1}, 1e-6)

	// Missing channels survive in the mix format.
	result, err = css_color.ConvertColorToXyz("color(xyz none 0.2 0.3)", css_color.Options{Format: config.FormatMix, ColorSpace: "xyz-d65"})
	require.NoError(t, err)
	test.AssertEqual(t, result.Tuple.Values[0].IsNone, true)
	test.AssertEqual(t, result.Tuple.Values[1], css_color.Num(0.2))
}
