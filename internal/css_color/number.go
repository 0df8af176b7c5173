package css_color

import (
	"math"
	"strconv"
	"strings"

	"github.com/evanw/csscolor/internal/helpers"
)

// RoundToPrecision rounds to a number of significant digits selected by
// "bit": 0 rounds to an integer, 16 keeps 6 digits, anything below 10 keeps
// 4 digits and the rest keep 5.
func RoundToPrecision(value float64, bit int) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(value))
	}
	if bit < 0 || bit > 16 {
		return 0, helpers.NewRangeError("%d is not between 0 and 16.", bit)
	}
	return roundToPrecision(value, bit), nil
}

func roundToPrecision(value float64, bit int) float64 {
	switch {
	case bit == 0:
		return helpers.Round(value)
	case bit == 16:
		return helpers.ToPrecision(value, 6)
	case bit < 10:
		return helpers.ToPrecision(value, 4)
	default:
		return helpers.ToPrecision(value, 5)
	}
}

// Remembers the first non-finite value that is rounded so that a whole
// tuple can be computed before checking for errors.
type rounder struct {
	err error
}

func (r *rounder) round(value float64, bit int) float64 {
	result, err := RoundToPrecision(value, bit)
	if err != nil && r.err == nil {
		r.err = err
	}
	return result
}

// Missing channels pass through untouched.
func (r *rounder) component(c Component, bit int) Component {
	if c.IsNone {
		return c
	}
	return Num(r.round(c.Value, bit))
}

// AngleToDeg converts an angle with an optional unit to degrees in the range
// [0, 360).
func AngleToDeg(angle string) (float64, error) {
	angle = strings.TrimSpace(angle)
	match := angleRegexp.FindStringSubmatch(angle)
	if match == nil {
		return 0, helpers.NewSyntaxError("Invalid property value: %s", angle)
	}
	value := helpers.ParseNumberPrefix(match[1])
	switch match[2] {
	case "grad":
		value *= 360.0 / 400
	case "rad":
		value *= 360 / (math.Pi * 2)
	case "turn":
		value = value * 360
	}
	value = math.Mod(value, 360)
	if value < 0 {
		value += 360
	} else if value == 0 {
		value = 0
	}
	return value, nil
}

// ParseAlpha parses the alpha channel of a color function. A missing alpha
// is opaque and "none" is transparent. The result is clamped to [0, 1] and
// rounded to three decimal places.
func ParseAlpha(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 1, nil
	}
	if text == "none" {
		return 0, nil
	}
	alpha := helpers.ParseNumberPrefix(text)
	if strings.HasSuffix(text, "%") {
		alpha /= 100
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return 0, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(alpha))
	}
	if alpha < 0.001 {
		return 0, nil
	}
	if alpha > 1 {
		return 1, nil
	}
	return helpers.ToFixed(alpha, 3), nil
}

// Maps an alpha byte to the whole percentage that serializes to it, so that
// "#0000001a" reads back as 10% instead of 0.102.
var hexAlphaPercentages = func() map[int]float64 {
	table := make(map[int]float64, 99)
	for i := 1; i < 100; i++ {
		table[int(helpers.Round(float64(i)*255/100))] = float64(i) / 100
	}
	return table
}()

// ParseHexAlpha converts a two-digit hex alpha byte to a number in [0, 1].
func ParseHexAlpha(text string) (float64, error) {
	if text == "" {
		return 0, helpers.NewSyntaxError("Invalid property value: (empty string)")
	}
	value, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, helpers.NewSyntaxError("Invalid property value: %s", text)
	}
	if value == 0 {
		return 0, nil
	}
	if value >= 255 {
		return 1, nil
	}
	if pct, ok := hexAlphaPercentages[int(value)]; ok {
		return pct, nil
	}
	alpha := helpers.Round(float64(value)/255/0.001) * 0.001
	return helpers.ToFixed(alpha, 3), nil
}

// NumberToHexString rounds a byte value and prints it as two lowercase hex
// digits.
func NumberToHexString(value float64) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(value))
	}
	value = helpers.Round(value)
	if value < 0 || value > 255 {
		return "", helpers.NewRangeError("%s is not between 0 and 255.", helpers.FormatNumber(value))
	}
	text := strconv.FormatInt(int64(value), 16)
	if len(text) == 1 {
		text = "0" + text
	}
	return text, nil
}

type HueArc uint8

const (
	HueShorter HueArc = iota
	HueLonger
	HueIncreasing
	HueDecreasing
)

var hueArcNames = [...]string{
	HueShorter:    "shorter",
	HueLonger:     "longer",
	HueIncreasing: "increasing",
	HueDecreasing: "decreasing",
}

func (arc HueArc) String() string {
	return hueArcNames[arc]
}

// ParseHueArc maps an interpolation keyword to an arc. Unknown or empty text
// is "shorter", the default of "color-mix()".
func ParseHueArc(text string) HueArc {
	for i, name := range hueArcNames {
		if name == text {
			return HueArc(i)
		}
	}
	return HueShorter
}

// InterpolateHue adjusts one of two hues by a full turn so that linear
// interpolation between them follows the requested arc.
func InterpolateHue(hueA float64, hueB float64, arc HueArc) (float64, float64, error) {
	if math.IsNaN(hueA) || math.IsInf(hueA, 0) {
		return 0, 0, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(hueA))
	}
	if math.IsNaN(hueB) || math.IsInf(hueB, 0) {
		return 0, 0, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(hueB))
	}
	switch arc {
	case HueDecreasing:
		if hueB > hueA {
			hueA += 360
		}
	case HueIncreasing:
		if hueB < hueA {
			hueB += 360
		}
	case HueLonger:
		if hueB > hueA && hueB < hueA+180 {
			hueA += 360
		} else if hueB > hueA-180 && hueB <= hueA {
			hueB += 360
		}
	default:
		if hueB > hueA+180 {
			hueA += 360
		} else if hueB < hueA-180 {
			hueB += 360
		}
	}
	return hueA, hueB, nil
}

type ValidateOptions struct {
	// Append an opaque alpha to a three-channel slice.
	Alpha bool

	MinLength int
	MaxLength int
	MinRange  float64
	MaxRange  float64

	// Check the first three channels against [MinRange, MaxRange]. Alpha is
	// always checked against [0, 1].
	ValidateRange bool
}

// DefaultValidateOptions accepts three or four channels in [0, 1].
var DefaultValidateOptions = ValidateOptions{
	MinLength:     3,
	MaxLength:     4,
	MinRange:      0,
	MaxRange:      1,
	ValidateRange: true,
}

// ValidateComponents checks a slice of color channels and returns a copy,
// padded with alpha if requested.
func ValidateComponents(values []float64, options ValidateOptions) ([]float64, error) {
	if n := len(values); n < options.MinLength || n > options.MaxLength {
		return nil, helpers.NewError("Unexpected array length %d.", n)
	}
	result := make([]float64, 0, len(values)+1)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(v))
		}
		if i < 3 && options.ValidateRange && (v < options.MinRange || v > options.MaxRange) {
			return nil, helpers.NewRangeError("%s is not between %s and %s.", helpers.FormatNumber(v),
				helpers.FormatNumber(options.MinRange), helpers.FormatNumber(options.MaxRange))
		}
		if i == 3 && (v < 0 || v > 1) {
			return nil, helpers.NewRangeError("%s is not between 0 and 1.", helpers.FormatNumber(v))
		}
		result = append(result, v)
	}
	if options.Alpha && len(result) == 3 {
		result = append(result, 1)
	}
	return result, nil
}

// Matrix is a row-major 3x3 matrix.
type Matrix [9]float64

// TransformMatrix multiplies a matrix by a column vector. Unless "skip" is
// set, every element is checked to be finite first.
func TransformMatrix(m Matrix, v [3]float64, skip bool) ([3]float64, error) {
	if !skip {
		for _, it := range m {
			if math.IsNaN(it) || math.IsInf(it, 0) {
				return [3]float64{}, helpers.NewTypeError("%s is not a number.", helpers.FormatNumber(it))
			}
		}
		if _, err := ValidateComponents(v[:], ValidateOptions{MinLength: 3, MaxLength: 3}); err != nil {
			return [3]float64{}, err
		}
	}
	a, b, c := multiplyMatrices(m, v[0], v[1], v[2])
	return [3]float64{a, b, c}, nil
}

// NormalizeComponents fills in missing channels before two colors are
// mixed. A channel missing from both becomes zero in both, and a channel
// missing from one takes the value from the other.
func NormalizeComponents(a [4]Component, b [4]Component) ([4]float64, [4]float64) {
	var outA, outB [4]float64
	for i := range a {
		switch {
		case a[i].IsNone && b[i].IsNone:
			outA[i], outB[i] = 0, 0
		case a[i].IsNone:
			outA[i], outB[i] = b[i].Value, b[i].Value
		case b[i].IsNone:
			outA[i], outB[i] = a[i].Value, a[i].Value
		default:
			outA[i], outB[i] = a[i].Value, b[i].Value
		}
	}
	return outA, outB
}
