package css_color

import (
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/helpers"
)

// Component is one channel of a color. The "none" keyword is represented
// explicitly because a missing channel behaves differently from zero when
// colors are mixed.
type Component struct {
	Value  float64
	IsNone bool
}

var None = Component{IsNone: true}

func Num(v float64) Component {
	return Component{Value: v}
}

// Or returns the channel value, or "fallback" if the channel is missing.
func (c Component) Or(fallback float64) float64 {
	if c.IsNone {
		return fallback
	}
	return c.Value
}

func (c Component) String() string {
	if c.IsNone {
		return "none"
	}
	return helpers.FormatNumber(c.Value)
}

type Space uint8

const (
	SpaceRGB Space = iota
	SpaceSRGB
	SpaceSRGBLinear
	SpaceDisplayP3
	SpaceRec2020
	SpaceA98RGB
	SpaceProPhotoRGB
	SpaceXYZD65
	SpaceXYZD50
	SpaceHSL
	SpaceHWB
	SpaceLab
	SpaceLCH
	SpaceOklab
	SpaceOklch
)

var spaceNames = [...]string{
	SpaceRGB:         "rgb",
	SpaceSRGB:        "srgb",
	SpaceSRGBLinear:  "srgb-linear",
	SpaceDisplayP3:   "display-p3",
	SpaceRec2020:     "rec2020",
	SpaceA98RGB:      "a98-rgb",
	SpaceProPhotoRGB: "prophoto-rgb",
	SpaceXYZD65:      "xyz-d65",
	SpaceXYZD50:      "xyz-d50",
	SpaceHSL:         "hsl",
	SpaceHWB:         "hwb",
	SpaceLab:         "lab",
	SpaceLCH:         "lch",
	SpaceOklab:       "oklab",
	SpaceOklch:       "oklch",
}

func (space Space) String() string {
	return spaceNames[space]
}

// SpaceFromName maps a color space name to a space. The bare "xyz" name is
// an alias for "xyz-d65".
func SpaceFromName(name string) (Space, bool) {
	if name == "xyz" {
		return SpaceXYZD65, true
	}
	for i, it := range spaceNames {
		if it == name {
			return Space(i), true
		}
	}
	return SpaceRGB, false
}

// IsPredefined reports whether the space is written with the "color()"
// function.
func (space Space) IsPredefined() bool {
	return space >= SpaceSRGB && space <= SpaceXYZD50
}

func (space Space) IsXYZ() bool {
	return space == SpaceXYZD65 || space == SpaceXYZD50
}

func (space Space) IsPolar() bool {
	switch space {
	case SpaceHSL, SpaceHWB, SpaceLCH, SpaceOklch:
		return true
	}
	return false
}

// Tuple is a color in a specific space: three channels followed by alpha.
type Tuple struct {
	Space  Space
	Values [4]Component
}

func NewTuple(space Space, c1 float64, c2 float64, c3 float64, alpha float64) Tuple {
	return Tuple{Space: space, Values: [4]Component{Num(c1), Num(c2), Num(c3), Num(alpha)}}
}

// Transparent is "rgba(0, 0, 0, 0)", the outcome of a color that failed to
// resolve in a format that always produces a color.
var Transparent = NewTuple(SpaceRGB, 0, 0, 0, 0)

func (t Tuple) Alpha() Component {
	return t.Values[3]
}

// Floats returns the channels with missing ones replaced by zero.
func (t Tuple) Floats() [4]float64 {
	return [4]float64{t.Values[0].Or(0), t.Values[1].Or(0), t.Values[2].Or(0), t.Values[3].Or(0)}
}

func (t Tuple) HasNone() bool {
	for _, c := range t.Values {
		if c.IsNone {
			return true
		}
	}
	return false
}

// Literal prints the tuple as a CSS color function. Alpha is omitted when it
// is exactly 1.
func (t Tuple) Literal() string {
	sb := strings.Builder{}
	if t.Space.IsPredefined() {
		sb.WriteString("color(")
		sb.WriteString(t.Space.String())
		sb.WriteByte(' ')
	} else {
		sb.WriteString(t.Space.String())
		sb.WriteByte('(')
	}
	sb.WriteString(t.Values[0].String())
	sb.WriteByte(' ')
	sb.WriteString(t.Values[1].String())
	sb.WriteByte(' ')
	sb.WriteString(t.Values[2].String())
	if alpha := t.Values[3]; alpha.IsNone || alpha.Value != 1 {
		sb.WriteString(" / ")
		sb.WriteString(alpha.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// LegacyRGB prints an "rgb" tuple in the comma-separated syntax, switching to
// "rgba()" when alpha isn't exactly 1.
func (t Tuple) LegacyRGB() string {
	v := t.Values
	if alpha := v[3]; alpha.IsNone || alpha.Value != 1 {
		return "rgba(" + v[0].String() + ", " + v[1].String() + ", " + v[2].String() + ", " + alpha.String() + ")"
	}
	return "rgb(" + v[0].String() + ", " + v[1].String() + ", " + v[2].String() + ")"
}

type ResultKind uint8

const (
	// The input doesn't have the expected syntax. Only the internal formats
	// produce this; the public formats use one of the others instead.
	ResultInvalid ResultKind = iota

	// The specified value of an invalid color.
	ResultEmpty

	// A literal that is echoed back, such as a color keyword.
	ResultSpecified

	ResultComputed
)

type Result struct {
	Kind  ResultKind
	Text  string
	Tuple Tuple
}

func Specified(text string) Result {
	return Result{Kind: ResultSpecified, Text: text}
}

func Computed(t Tuple) Result {
	return Result{Kind: ResultComputed, Tuple: t}
}

// Options are the parts of "config.Options" that the color functions use.
type Options struct {
	Format config.Format

	// Interpolation space of the enclosing "color-mix()".
	ColorSpace string

	D50 bool

	// Recursion ceiling for nested "color-mix()". Zero means the default.
	MaxDepth int
}

// Each format has its own way of saying "this isn't a color".
func failure(format config.Format) Result {
	switch format {
	case config.FormatMix, config.FormatHSL, config.FormatHWB:
		return Result{Kind: ResultInvalid}
	case config.FormatSpecified:
		return Result{Kind: ResultEmpty}
	}
	return Computed(Transparent)
}
