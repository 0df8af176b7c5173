package css_calc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_calc"
	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/internal/test"
)

func silentLog() logger.Log {
	return logger.NewDeferLog(logger.LevelSilent)
}

func expectCalc(t *testing.T, input string, opts config.Options, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		result, err := css_calc.CSSCalc(silentLog(), input, &opts)
		require.NoError(t, err)
		test.AssertEqualWithDiff(t, result, expected)
	})
}

func TestCSSCalc(t *testing.T) {
	computed := config.Options{}
	specified := config.Options{Format: config.FormatSpecified}
	em := config.Options{Dimension: map[string]float64{"em": 8}}

	expectCalc(t, "calc(1px + 2px)", computed, "3px")
	expectCalc(t, "calc(1px + 2px)", specified, "calc(3px)")
	expectCalc(t, "calc(10px / 3)", computed, "3.33333px")
	expectCalc(t, "calc(1 / 3)", computed, "0.3333333333333333")
	expectCalc(t, "calc(1 / 3)", specified, "calc(0.3333333333333333)")
	expectCalc(t, "calc(2em)", em, "16px")
	expectCalc(t, "  CALC(2EM)  ", em, "16px")
	expectCalc(t, "calc(2em)", computed, "2em")
	expectCalc(t, "rgb(calc(255 / 2) 0 0)", computed, "rgb(127.5 0 0)")
	expectCalc(t, "red", computed, "red")
	expectCalc(t, "calc(r + 10)", specified, "calc(r + 10)")

	_, err := css_calc.CSSCalc(silentLog(), "var(--x)", &computed)
	test.AssertEqual(t, errors.Is(err, helpers.ErrUnexpectedVar), true)

	result, err := css_calc.CSSCalc(silentLog(), "var(--x)", &specified)
	require.NoError(t, err)
	test.AssertEqual(t, result, "var(--x)")
}

func TestResolveDimension(t *testing.T) {
	resolve := func(contents string, opts *config.Options) (string, bool) {
		tokens := css_lexer.Tokenize(silentLog(), test.SourceForTest(contents))
		require.Len(t, tokens, 1)
		return css_calc.ResolveDimension(tokens[0], contents, opts)
	}

	opts := &config.Options{Dimension: map[string]float64{"em": 16}}
	value, ok := resolve("2em", opts)
	assert.True(t, ok)
	test.AssertEqual(t, value, "32px")

	value, ok = resolve("5px", opts)
	assert.True(t, ok)
	test.AssertEqual(t, value, "5px")

	_, ok = resolve("5vw", opts)
	assert.False(t, ok)
	_, ok = resolve("5", opts)
	assert.False(t, ok)

	opts.DimensionCallback = func(unit string) (float64, bool) {
		if unit == "vw" {
			return 10, true
		}
		return 0, false
	}
	value, ok = resolve("5vw", opts)
	assert.True(t, ok)
	test.AssertEqual(t, value, "50px")
}

func TestParseTokens(t *testing.T) {
	parse := func(contents string, opts *config.Options) []string {
		return css_calc.ParseTokens(css_lexer.Tokenize(silentLog(), test.SourceForTest(contents)), contents, opts)
	}

	opts := &config.Options{Dimension: map[string]float64{"em": 10}}
	assert.Equal(t, []string{"calc(", "10px", " ", "+", " ", "2px", ")"}, parse("calc(1em + 2px)", opts))
	assert.Equal(t, []string{"calc(", "1px", " ", "+", " ", "2px", ")"}, parse("calc( 1px   +\n2px /**/ )", opts))

	// A specified value only resolves lengths directly inside a math function.
	opts.Format = config.FormatSpecified
	assert.Equal(t, []string{"foo(", "1em", ")"}, parse("foo(1em)", opts))
	assert.Equal(t, []string{"calc(", "10px", ")"}, parse("calc(1em)", opts))
}

func TestCalculator(t *testing.T) {
	cal := css_calc.NewCalculator(silentLog())
	cal.HasNum = true
	cal.NumMul = []float64{2, 3}
	value, ok := cal.Multiply()
	assert.True(t, ok)
	test.AssertEqual(t, value, "6")

	cal.Clear()
	cal.HasNum = true
	cal.NumMul = []float64{3}
	cal.HasDim = true
	cal.DimMul = []string{"2px"}
	value, _ = cal.Multiply()
	test.AssertEqual(t, value, "6px")

	cal.Clear()
	cal.HasNum = true
	cal.NumMul = []float64{2}
	cal.HasEtc = true
	cal.EtcDiv = []string{"r"}
	value, _ = cal.Multiply()
	test.AssertEqual(t, value, "2 / r")

	cal.Clear()
	cal.HasEtc = true
	cal.EtcMul = []string{"g", "b"}
	value, _ = cal.Multiply()
	test.AssertEqual(t, value, "b * g")

	cal.Clear()
	_, ok = cal.Multiply()
	assert.False(t, ok)

	cal.Clear()
	cal.HasNum = true
	cal.NumSum = []float64{1, 2}
	cal.HasDim = true
	cal.DimSum = []string{"1px"}
	cal.DimSub = []string{"2px"}
	value, _ = cal.Sum()
	test.AssertEqual(t, value, "3 + -1px")

	cal.Clear()
	cal.HasEtc = true
	cal.EtcSub = []string{"r"}
	value, _ = cal.Sum()
	test.AssertEqual(t, value, "-1 * r")
}

func TestSortCalcValues(t *testing.T) {
	sort := func(values []string, finalize bool) (string, bool) {
		return css_calc.SortCalcValues(silentLog(), values, finalize)
	}

	value, ok := sort([]string{"calc(", "2px", "*", "3", ")"}, false)
	assert.True(t, ok)
	test.AssertEqual(t, value, "calc(6px)")

	value, _ = sort([]string{"(", "1px", ")"}, false)
	test.AssertEqual(t, value, "(1px)")

	_, ok = sort([]string{"(", ")"}, false)
	assert.False(t, ok)

	value, _ = sort([]string{"calc(", "1px", "+", "2px", "+", "1", ")"}, true)
	test.AssertEqual(t, value, "calc(1 + 3px)")

	value, _ = sort([]string{"calc(", "1px", "+", "2px", ")"}, false)
	test.AssertEqual(t, value, "calc(1px + 2px)")
}

func TestSerializeCalc(t *testing.T) {
	specified := &config.Options{Format: config.FormatSpecified}
	serialize := func(input string, opts *config.Options) string {
		value, ok := css_calc.SerializeCalc(silentLog(), input, opts)
		require.True(t, ok)
		return value
	}

	test.AssertEqualWithDiff(t, serialize("calc(1px + 2px)", specified), "calc(3px)")
	test.AssertEqualWithDiff(t, serialize("calc(r + 10 + 20)", specified), "calc(30 + r)")
	test.AssertEqualWithDiff(t, serialize("calc(2 * r)", specified), "calc(2 * r)")
	test.AssertEqualWithDiff(t, serialize("calc(r * (2 + 3))", specified), "calc((2 + 3) * r)")
	test.AssertEqualWithDiff(t, serialize("calc(1px + 2px)", &config.Options{}), "calc(1px + 2px)")
	test.AssertEqualWithDiff(t, serialize("red", specified), "red")
}
