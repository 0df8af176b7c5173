package helpers_test

import (
	"math"
	"testing"

	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/test"
)

func TestFormatNumber(t *testing.T) {
	a, b := 0.1, 0.2
	expected := []struct {
		value float64
		text  string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{a + b, "0.30000000000000004"},
		{127.5, "127.5"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{123456789012, "123456789012"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, it := range expected {
		t.Run(it.text, func(t *testing.T) {
			test.AssertEqual(t, helpers.FormatNumber(it.value), it.text)
		})
	}
}

func TestRound(t *testing.T) {
	test.AssertEqual(t, helpers.Round(2.5), 3.0)
	test.AssertEqual(t, helpers.Round(-2.5), -2.0)
	test.AssertEqual(t, helpers.Round(127.49), 127.0)
	test.AssertEqual(t, helpers.Round(-0.5), 0.0)
}

func TestToPrecision(t *testing.T) {
	test.AssertEqual(t, helpers.ToPrecision(127.5, 3), 128.0)
	test.AssertEqual(t, helpers.ToPrecision(0.125, 2), 0.13)
	test.AssertEqual(t, helpers.ToPrecision(-0.125, 2), -0.13)
	test.AssertEqual(t, helpers.ToPrecision(1/3.0, 4), 0.3333)
	test.AssertEqual(t, helpers.ToPrecision(54.29197, 6), 54.292)
	test.AssertEqual(t, helpers.ToPrecision(999.99, 4), 1000.0)
	test.AssertEqual(t, helpers.ToPrecision(0, 4), 0.0)
}

func TestToFixed(t *testing.T) {
	test.AssertEqual(t, helpers.ToFixed(0.5019607843137255, 3), 0.502)
	test.AssertEqual(t, helpers.ToFixed(0.0625, 3), 0.063)
	test.AssertEqual(t, helpers.ToFixed(0.6, 3), 0.6)
	test.AssertEqual(t, helpers.ToFixed(0.9999, 3), 1.0)
}

func TestParseNumberPrefix(t *testing.T) {
	test.AssertEqual(t, helpers.ParseNumberPrefix("50%"), 50.0)
	test.AssertEqual(t, helpers.ParseNumberPrefix(".5"), 0.5)
	test.AssertEqual(t, helpers.ParseNumberPrefix("-1.5e2deg"), -150.0)
	test.AssertEqual(t, helpers.ParseNumberPrefix("1e"), 1.0)
	test.AssertEqual(t, helpers.ParseNumberPrefix("1e400"), math.Inf(1))
	test.AssertEqual(t, math.IsNaN(helpers.ParseNumberPrefix("none")), true)
	test.AssertEqual(t, helpers.NumberPrefixLength("12px"), 2)
	test.AssertEqual(t, helpers.NumberPrefixLength("+.5e-3x"), 6)
}
