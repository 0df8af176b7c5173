package config_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/test"
)

func TestParseFormat(t *testing.T) {
	for _, f := range []config.Format{config.FormatComputed, config.FormatSpecified, config.FormatHex, config.FormatHexAlpha} {
		parsed, ok := config.ParseFormat(f.String())
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, parsed, f)
	}

	// Internal formats can't be requested by name.
	_, ok := config.ParseFormat("mixValue")
	test.AssertEqual(t, ok, false)
	_, ok = config.ParseFormat("")
	test.AssertEqual(t, ok, false)

	test.AssertEqual(t, config.FormatComputed.IsSpecOrComputed(), true)
	test.AssertEqual(t, config.FormatSpecified.IsSpecOrComputed(), true)
	test.AssertEqual(t, config.FormatHex.IsSpecOrComputed(), false)
	test.AssertEqual(t, config.FormatMix.IsSpecOrComputed(), false)
}

func TestFormatJSON(t *testing.T) {
	var options config.Options
	require.NoError(t, json.Unmarshal([]byte(`{"format":"hexAlpha","d50":true,"customProperty":{"--a":"red"}}`), &options))
	test.AssertEqual(t, options.Format, config.FormatHexAlpha)
	test.AssertEqual(t, options.D50, true)
	test.AssertEqual(t, options.CustomProperty["--a"], "red")

	bytes, err := json.Marshal(config.FormatSpecified)
	require.NoError(t, err)
	test.AssertEqual(t, string(bytes), `"specifiedValue"`)
}

func TestCacheKey(t *testing.T) {
	a := &config.Options{CustomProperty: map[string]string{"--b": "blue", "--a": "red"}}
	b := &config.Options{CustomProperty: map[string]string{"--a": "red", "--b": "blue"}}

	keyA, ok := a.CacheKey("resolve", "var(--a)", 32)
	test.AssertEqual(t, ok, true)
	keyB, ok := b.CacheKey("resolve", "var(--a)", 32)
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, keyA, keyB)

	other, _ := a.CacheKey("convert", "var(--a)", 32)
	test.AssertEqual(t, other == keyA, false)

	shallower, _ := a.CacheKey("resolve", "var(--a)", 2)
	test.AssertEqual(t, shallower == keyA, false)

	b.Format = config.FormatHex
	keyB, _ = b.CacheKey("resolve", "var(--a)", 32)
	test.AssertEqual(t, keyA == keyB, false)

	a.CustomPropertyCallback = func(string) (string, bool) { return "", false }
	_, ok = a.CacheKey("resolve", "var(--a)", 32)
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, a.HasCallback(), true)
}

func TestClone(t *testing.T) {
	a := &config.Options{Format: config.FormatHex, Key: "color"}
	b := a.Clone()
	b.Format = config.FormatSpecified
	test.AssertEqual(t, a.Format, config.FormatHex)
	test.AssertEqual(t, b.Key, "color")
}
