package config

import (
	"github.com/goccy/go-json"
)

// Format selects the shape of a resolved color. The zero value is the
// computed value, which is what CSS serializes for "getComputedStyle".
type Format uint8

const (
	FormatComputed Format = iota
	FormatSpecified
	FormatHex
	FormatHexAlpha

	// These are only used internally. "Mix" keeps missing components so that
	// "color-mix()" can carry them forward, and "HSL"/"HWB" keep the channels
	// of the named polar space instead of converting through sRGB.
	FormatMix
	FormatHSL
	FormatHWB

	// Used by the conversion functions. Colors resolve to their XYZ (or RGB)
	// coordinates instead of to a CSS value.
	FormatConvert
)

var formatNames = [...]string{
	FormatComputed:  "computedValue",
	FormatSpecified: "specifiedValue",
	FormatHex:       "hex",
	FormatHexAlpha:  "hexAlpha",
	FormatMix:       "mixValue",
	FormatHSL:       "hsl",
	FormatHWB:       "hwb",
	FormatConvert:   "convert",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "computedValue"
}

// ParseFormat only accepts the public formats.
func ParseFormat(text string) (Format, bool) {
	for _, f := range []Format{FormatComputed, FormatSpecified, FormatHex, FormatHexAlpha} {
		if formatNames[f] == text {
			return f, true
		}
	}
	return FormatComputed, false
}

// IsSpecOrComputed reports whether the format is one of the two CSS value
// stages, as opposed to a hex or internal format.
func (f Format) IsSpecOrComputed() bool {
	return f == FormatComputed || f == FormatSpecified
}

func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*f, _ = ParseFormat(text)
	return nil
}

type Options struct {
	Format Format `json:"format"`

	// Interpolation space of an enclosing "color-mix()". Components of a
	// "color()" function already in this space are passed through untouched.
	ColorSpace string `json:"colorSpace,omitempty"`

	// Substituted for the "currentcolor" keyword. When empty, "currentcolor"
	// is a color with every component missing.
	CurrentColor string `json:"currentColor,omitempty"`

	CustomProperty         map[string]string                `json:"customProperty,omitempty"`
	CustomPropertyCallback func(name string) (string, bool) `json:"-"`

	// Pixels per unit, keyed by lowercase unit name ("em", "vw", ...).
	Dimension         map[string]float64                `json:"dimension,omitempty"`
	DimensionCallback func(unit string) (float64, bool) `json:"-"`

	// Produce and accept XYZ relative to the D50 white point.
	D50 bool `json:"d50,omitempty"`

	// Opaque tag returned alongside the result.
	Key string `json:"key,omitempty"`

	// Include the alpha byte when converting to hex.
	Alpha bool `json:"alpha,omitempty"`

	// Recursion ceiling for nested "var()", relative colors and
	// "color-mix()". Zero means the engine default.
	MaxDepth int `json:"-"`
}

// HasCallback reports whether resolution depends on caller code, in which
// case the outcome must not be cached.
func (options *Options) HasCallback() bool {
	return options.CustomPropertyCallback != nil || options.DimensionCallback != nil
}

type cacheKey struct {
	Op      string   `json:"op"`
	Value   string   `json:"value"`
	Budget  int      `json:"budget"`
	Options *Options `json:"options"`
}

// CacheKey encodes an operation, its input, the nesting levels still
// available to it and these options as a stable string. Map keys are sorted
// by the encoder so equal options always produce equal keys. It returns
// false when the options carry callbacks.
func (options *Options) CacheKey(op string, value string, budget int) (string, bool) {
	if options.HasCallback() {
		return "", false
	}
	bytes, err := json.Marshal(cacheKey{Op: op, Value: value, Budget: budget, Options: options})
	if err != nil {
		return "", false
	}
	return string(bytes), true
}

// Clone returns a shallow copy. Maps and callbacks are shared.
func (options *Options) Clone() *Options {
	clone := *options
	return &clone
}
