package resolver_test

import (
	"testing"

	"github.com/evanw/csscolor/internal/test"
)

func TestIsColor(t *testing.T) {
	expected := map[string]bool{
		"red":                                  true,
		"RebeccaPurple":                        true,
		"currentColor":                         true,
		"transparent":                          true,
		"#fff":                                 true,
		"#ffff":                                true,
		"rgb(255 0 0 / 50%)":                   true,
		"hsl(120deg 50% 50%)":                  true,
		"color(display-p3 1 0 0)":              true,
		"color-mix(in srgb, red, blue)":        true,
		"rgb(from red r g b)":                  true,
		"var(--accent)":                        true,
		"":                                     false,
		"foo":                                  false,
		"#ff":                                  false,
		"rgb(1 2)":                             false,
		"calc(1px)":                            false,
		"color-mix(in srgb, red, blue, green)": false,
	}

	r := newResolver()
	for input, isColor := range expected {
		t.Run(input, func(t *testing.T) {
			test.AssertEqual(t, r.IsColor(input), isColor)
		})
	}
}
