package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/test"
)

func expectVar(t *testing.T, input string, props map[string]string, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		result, ok, err := newResolver().CSSVar(input, &config.Options{CustomProperty: props})
		require.NoError(t, err)
		require.True(t, ok)
		test.AssertEqualWithDiff(t, result, expected)
	})
}

func TestCSSVar(t *testing.T) {
	props := map[string]string{
		"--color":   "red",
		"--length":  "4px",
		"--bad":     "foo",
		"--initial": "initial",
		"--nested":  "var(--color)",
	}

	expectVar(t, "var(--color)", props, "red")
	expectVar(t, "var( --color )", props, "red")
	expectVar(t, "var(--nested)", props, "red")
	expectVar(t, "calc(var(--length) * 2)", props, "8px")
	expectVar(t, "var(--missing, blue)", props, "blue")
	expectVar(t, "var(--missing, var(--color))", props, "red")
	expectVar(t, "var(--missing, 1px 2px)", props, "1px 2px")

	// The fallback is a color, so the property value must be one too
	expectVar(t, "var(--bad, green)", props, "green")
	expectVar(t, "var(--bad)", props, "foo")

	expectVar(t, "red", props, "red")
}

func TestCSSVarUnresolved(t *testing.T) {
	props := map[string]string{"--initial": "initial"}
	for _, input := range []string{"var(--missing)", "var(--initial)", "rgb(var(--missing) 0 0)"} {
		t.Run(input, func(t *testing.T) {
			_, ok, err := newResolver().CSSVar(input, &config.Options{CustomProperty: props})
			require.NoError(t, err)
			test.AssertEqual(t, ok, false)
		})
	}
}

func TestCSSVarSpecified(t *testing.T) {
	result, ok, err := newResolver().CSSVar("var(--color)", &config.Options{Format: config.FormatSpecified})
	require.NoError(t, err)
	require.True(t, ok)
	test.AssertEqual(t, result, "var(--color)")
}

func TestCSSVarCallback(t *testing.T) {
	var names []string
	opts := config.Options{CustomPropertyCallback: func(name string) (string, bool) {
		names = append(names, name)
		return "blue", name == "--accent"
	}}
	r := newResolver()
	for i := 0; i < 2; i++ {
		result, ok, err := r.CSSVar("var(--accent)", &opts)
		require.NoError(t, err)
		require.True(t, ok)
		test.AssertEqual(t, result, "blue")
	}

	// Results that come from a callback aren't cached
	test.AssertDeepEqual(t, names, []string{"--accent", "--accent"})
}
