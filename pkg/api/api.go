// This API exposes the color resolver. An "Engine" owns the caches that
// every call shares, so create one and reuse it:
//
//	engine := api.NewEngine(api.EngineOptions{})
//	result, err := engine.Resolve("color-mix(in srgb, red 50%, blue)", api.Options{})
//	fmt.Println(result.Value) // "rgb(128, 0, 128)"
//
// An Engine is safe for concurrent use. Invalid colors never produce an
// error; they produce a transparent color, an empty string or a null result
// depending on the format. Errors are reserved for recursion that runs past
// the depth limit and for numbers that can't be represented.
package api

import (
	"github.com/evanw/csscolor/internal/helpers"
)

type Format uint8

const (
	// "rgb(r, g, b)" for sRGB colors and the color's own function otherwise
	FormatComputedValue Format = iota

	// The input in canonical form, or "" if it isn't a color
	FormatSpecifiedValue

	// "#rrggbb"
	FormatHex

	// "#rrggbbaa"
	FormatHexAlpha
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelVerbose
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

var (
	ErrTooDeeplyNested = helpers.ErrTooDeeplyNested
	ErrUnexpectedVar   = helpers.ErrUnexpectedVar
)

////////////////////////////////////////////////////////////////////////////////
// Engine API

type EngineOptions struct {
	// Messages at this level or above are printed to stderr. The default is
	// silent, in which case nothing is printed and "Messages" still returns
	// warnings and errors.
	LogLevel LogLevel
	Color    StderrColor

	// Entries per cache. Zero means a default of 4096.
	CacheSize int

	// Limit for nested "var()" references, relative colors and
	// "color-mix()" functions. Zero means a default of 32.
	MaxDepth int
}

type Engine struct {
	impl *engineImpl
}

func NewEngine(options EngineOptions) *Engine {
	return &Engine{impl: newEngineImpl(options)}
}

type Options struct {
	Format Format

	// Substituted for "currentcolor"
	CurrentColor string

	// Values of custom properties, keyed by name including the leading "--".
	// The callback is consulted for names that aren't in the map. Setting a
	// callback disables caching for the call.
	CustomProperty         map[string]string
	CustomPropertyCallback func(name string) (string, bool)

	// Pixels per unit for relative lengths such as "em" or "vw"
	Dimension         map[string]float64
	DimensionCallback func(unit string) (float64, bool)

	// Interpolation space of an enclosing "color-mix()"
	ColorSpace string

	// "ColorToXyz" returns XYZ relative to D50 instead of D65
	D50 bool

	// "ColorToHex" includes the alpha byte
	Alpha bool

	// Returned unchanged in "Result.Key"
	Key string

	// Overrides "EngineOptions.MaxDepth" for this call
	MaxDepth int
}

type Result struct {
	Key   string
	Value string

	// There is no value at all. Only the hex formats produce this.
	Null bool
}

// Resolve returns the value of a color in the requested format.
func (e *Engine) Resolve(color string, options Options) (Result, error) {
	return e.impl.resolve(color, options)
}

// ColorToHex returns "#rrggbb", or "#rrggbbaa" with the "Alpha" option.
func (e *Engine) ColorToHex(color string, options Options) (Result, error) {
	return e.impl.colorToHex(color, options)
}

// The tuple conversions below return "[0, 0, 0, 0]" for an invalid color
// and 0 for a missing component.

func (e *Engine) ColorToHsl(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToHsl, color, options)
}

func (e *Engine) ColorToHwb(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToHwb, color, options)
}

func (e *Engine) ColorToLab(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToLab, color, options)
}

func (e *Engine) ColorToLch(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToLch, color, options)
}

func (e *Engine) ColorToOklab(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToOklab, color, options)
}

func (e *Engine) ColorToOklch(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToOklch, color, options)
}

func (e *Engine) ColorToRgb(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToRgb, color, options)
}

func (e *Engine) ColorToXyz(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToXyz, color, options)
}

func (e *Engine) ColorToXyzD50(color string, options Options) ([4]float64, error) {
	return e.impl.colorToTuple(e.impl.resolver.ColorToXyzD50, color, options)
}

// NumberToHex returns the two hex digits of a byte in [0, 255].
func (e *Engine) NumberToHex(value float64) (string, error) {
	return e.impl.resolver.NumberToHex(value)
}

// CSSCalc resolves the math functions in a value, such as "calc(1px + 2em)".
func (e *Engine) CSSCalc(value string, options Options) (string, error) {
	return e.impl.cssCalc(value, options)
}

// IsColor reports whether a value is a color, including values that can
// only be resolved later such as "var(--accent)".
func (e *Engine) IsColor(value string) bool {
	return e.impl.resolver.IsColor(value)
}

// Messages returns the warnings and errors logged so far.
func (e *Engine) Messages() (errors []Message, warnings []Message) {
	return e.impl.messages()
}

type CacheStats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// CacheStats reports the state of each cache by name.
func (e *Engine) CacheStats() map[string]CacheStats {
	return e.impl.cacheStats()
}
