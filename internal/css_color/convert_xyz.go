package css_color

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/evanw/csscolor/internal/helpers"
)

// These convert between numeric representations. The exported versions
// validate their input the way the public API requires while the unexported
// versions assume the caller already did.

const maxRGB = 255

func rgbToLinear(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		val /= maxRGB
		if val > 0.04045 {
			return math.Pow((val+0.055)/(1+0.055), powLinear)
		}
		return val / 12.92
	}
	return f(r), f(g), f(b)
}

func linearToRgb(r float64, g float64, b float64, round bool) (float64, float64, float64) {
	f := func(val float64) float64 {
		if val > 809.0/258400 {
			val = helpers.NewF64(val).PowConst(powLinearInv).MulConst(1+0.055).SubConst(0.055).Value()
		} else {
			val *= 12.92
		}
		val *= maxRGB
		if round {
			val = helpers.Round(val)
		}
		return val
	}
	return f(r), f(g), f(b)
}

func hexByte(value float64) string {
	text, _ := NumberToHexString(value)
	return text
}

func hexString(r float64, g float64, b float64, alpha float64) (string, error) {
	for _, v := range [...]float64{r, g, b, alpha * maxRGB} {
		if _, err := NumberToHexString(v); err != nil {
			return "", err
		}
	}
	hex := "#" + hexByte(r) + hexByte(g) + hexByte(b)
	if aa := hexByte(alpha * maxRGB); aa != "ff" {
		hex += aa
	}
	return hex, nil
}

// Linear channels are clamped to the sRGB gamut, then gamma encoded and
// rounded to bytes.
func xyzToRgb(x float64, y float64, z float64) (float64, float64, float64) {
	r, g, b := xyz_to_lin_srgb(x, y, z)
	return linearToRgb(helpers.Clamp(r, 0, 1), helpers.Clamp(g, 0, 1), helpers.Clamp(b, 0, 1), true)
}

func xyzD50ToRgb(x float64, y float64, z float64) (float64, float64, float64) {
	return xyzToRgb(d50_to_d65(x, y, z))
}

func rgbToXyz(r float64, g float64, b float64) (float64, float64, float64) {
	return lin_srgb_to_xyz(rgbToLinear(r, g, b))
}

func xyzToHsl(x float64, y float64, z float64) [3]Component {
	rr, gg, bb := xyzToRgb(x, y, z)
	r, g, b := rr/maxRGB, gg/maxRGB, bb/maxRGB
	max := math.Max(math.Max(r, g), b)
	min := math.Min(math.Min(r, g), b)
	d := max - min
	l := (max + min) * 0.5 * 100
	if rl := helpers.Round(l); rl == 0 || rl == 100 {
		return [3]Component{None, None, Num(l)}
	}
	s := d / (1 - math.Abs(max+min-1)) * 100
	if s == 0 {
		return [3]Component{None, Num(s), Num(l)}
	}
	var h float64
	switch max {
	case r:
		h = (g - b) / d
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h = math.Mod(h*60, 360)
	if h < 0 {
		h += 360
	}
	return [3]Component{Num(h), Num(s), Num(l)}
}

func xyzToHwb(x float64, y float64, z float64) [3]Component {
	r, g, b := xyzToRgb(x, y, z)
	w := math.Min(math.Min(r, g), b) / maxRGB
	bk := 1 - math.Max(math.Max(r, g), b)/maxRGB
	h := None
	if w+bk != 1 {
		h = xyzToHsl(x, y, z)[0]
	}
	return [3]Component{h, Num(w * 100), Num(bk * 100)}
}

// Oklab lightness at or beyond the ends of the range makes the other
// channels meaningless, so they become "none".
func oklabIsAchromatic(l float64) bool {
	lPct := helpers.Round(helpers.ToFixed(l, 4) * 100)
	return lPct == 0 || lPct == 100
}

func xyzToOklab(x float64, y float64, z float64) [3]Component {
	l, a, b := xyz_to_oklab(x, y, z)
	l = helpers.Clamp(l, 0, 1)
	if oklabIsAchromatic(l) {
		return [3]Component{Num(l), None, None}
	}
	return [3]Component{Num(l), Num(a), Num(b)}
}

func xyzToOklch(x float64, y float64, z float64) [3]Component {
	lab := xyzToOklab(x, y, z)
	l := lab[0].Value
	if oklabIsAchromatic(l) {
		return [3]Component{Num(l), None, None}
	}
	a, b := lab[1].Value, lab[2].Value
	c := math.Max(math.Sqrt(math.Pow(a, 2)+math.Pow(b, 2)), 0)
	if helpers.ToFixed(c, 4) == 0 {
		return [3]Component{Num(l), Num(c), None}
	}
	h := math.Atan2(b, a) * 360 * 0.5 / math.Pi
	if h < 0 {
		h += 360
	}
	return [3]Component{Num(l), Num(c), Num(h)}
}

func xyzD50ToLab(x float64, y float64, z float64) [3]Component {
	l, a, b := xyz_d50_to_lab(x, y, z)
	l = helpers.Clamp(l, 0, 100)
	if l == 0 || l == 100 {
		return [3]Component{Num(l), None, None}
	}
	return [3]Component{Num(l), Num(a), Num(b)}
}

func xyzD50ToLch(x float64, y float64, z float64) [3]Component {
	lab := xyzD50ToLab(x, y, z)
	l := lab[0].Value
	if l == 0 || l == 100 {
		return [3]Component{Num(l), None, None}
	}
	a, b := lab[1].Value, lab[2].Value
	c := math.Max(math.Sqrt(math.Pow(a, 2)+math.Pow(b, 2)), 0)
	h := math.Atan2(b, a) * 360 * 0.5 / math.Pi
	if h < 0 {
		h += 360
	}
	return [3]Component{Num(l), Num(c), Num(h)}
}

func withAlpha(c [3]Component, alpha float64) [4]Component {
	return [4]Component{c[0], c[1], c[2], Num(alpha)}
}

var rgbValidate = ValidateOptions{Alpha: true, MinLength: 3, MaxLength: 4, MaxRange: maxRGB, ValidateRange: true}
var xyzValidate = ValidateOptions{Alpha: true, MinLength: 3, MaxLength: 4}
var xyzAlphaValidate = ValidateOptions{MinLength: 4, MaxLength: 4}

// ConvertRgbToLinearRgb takes byte channels and returns linear channels in
// [0, 1].
func ConvertRgbToLinearRgb(rgb []float64) ([3]float64, error) {
	v, err := ValidateComponents(rgb, ValidateOptions{MinLength: 3, MaxLength: 3, MaxRange: maxRGB, ValidateRange: true})
	if err != nil {
		return [3]float64{}, err
	}
	r, g, b := rgbToLinear(v[0], v[1], v[2])
	return [3]float64{r, g, b}, nil
}

func ConvertRgbToXyz(rgb []float64) ([4]float64, error) {
	v, err := ValidateComponents(rgb, rgbValidate)
	if err != nil {
		return [4]float64{}, err
	}
	x, y, z := rgbToXyz(v[0], v[1], v[2])
	return [4]float64{x, y, z, v[3]}, nil
}

func ConvertRgbToXyzD50(rgb []float64) ([4]float64, error) {
	xyz, err := ConvertRgbToXyz(rgb)
	if err != nil {
		return xyz, err
	}
	x, y, z := d65_to_d50(xyz[0], xyz[1], xyz[2])
	return [4]float64{x, y, z, xyz[3]}, nil
}

// ConvertRgbToHex drops the alpha byte when the color is opaque.
func ConvertRgbToHex(rgb []float64) (string, error) {
	v, err := ValidateComponents(rgb, rgbValidate)
	if err != nil {
		return "", err
	}
	return hexString(v[0], v[1], v[2], v[3])
}

func ConvertLinearRgbToRgb(rgb []float64, round bool) ([3]float64, error) {
	v, err := ValidateComponents(rgb, ValidateOptions{MinLength: 3, MaxLength: 3, MaxRange: 1, ValidateRange: true})
	if err != nil {
		return [3]float64{}, err
	}
	r, g, b := linearToRgb(v[0], v[1], v[2], round)
	return [3]float64{r, g, b}, nil
}

func ConvertLinearRgbToHex(rgb []float64) (string, error) {
	v, err := ValidateComponents(rgb, ValidateOptions{MinLength: 4, MaxLength: 4, MaxRange: 1, ValidateRange: true})
	if err != nil {
		return "", err
	}
	r, g, b := linearToRgb(v[0], v[1], v[2], true)
	return hexString(r, g, b, v[3])
}

func ConvertXyzToHex(xyz []float64) (string, error) {
	v, err := ValidateComponents(xyz, xyzAlphaValidate)
	if err != nil {
		return "", err
	}
	r, g, b := xyzToRgb(v[0], v[1], v[2])
	return hexString(r, g, b, v[3])
}

func ConvertXyzD50ToHex(xyz []float64) (string, error) {
	v, err := ValidateComponents(xyz, xyzAlphaValidate)
	if err != nil {
		return "", err
	}
	r, g, b := xyzD50ToRgb(v[0], v[1], v[2])
	return hexString(r, g, b, v[3])
}

// ConvertXyzToRgb clamps to the sRGB gamut and returns rounded bytes.
func ConvertXyzToRgb(xyz []float64) ([4]float64, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]float64{}, err
	}
	r, g, b := xyzToRgb(v[0], v[1], v[2])
	return [4]float64{r, g, b, v[3]}, nil
}

func ConvertXyzToXyzD50(xyz []float64) ([4]float64, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]float64{}, err
	}
	x, y, z := d65_to_d50(v[0], v[1], v[2])
	return [4]float64{x, y, z, v[3]}, nil
}

// ConvertXyzToHsl returns a missing hue for grays and missing hue and
// saturation for black and white.
func ConvertXyzToHsl(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzToHsl(v[0], v[1], v[2]), v[3]), nil
}

func ConvertXyzToHwb(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzToHwb(v[0], v[1], v[2]), v[3]), nil
}

func ConvertXyzToOklab(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzToOklab(v[0], v[1], v[2]), v[3]), nil
}

func ConvertXyzToOklch(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzToOklch(v[0], v[1], v[2]), v[3]), nil
}

func ConvertXyzD50ToRgb(xyz []float64) ([4]float64, error) {
	v, err := ValidateComponents(xyz, xyzAlphaValidate)
	if err != nil {
		return [4]float64{}, err
	}
	r, g, b := xyzD50ToRgb(v[0], v[1], v[2])
	return [4]float64{r, g, b, v[3]}, nil
}

func ConvertXyzD50ToLab(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzD50ToLab(v[0], v[1], v[2]), v[3]), nil
}

func ConvertXyzD50ToLch(xyz []float64) ([4]Component, error) {
	v, err := ValidateComponents(xyz, xyzValidate)
	if err != nil {
		return [4]Component{}, err
	}
	return withAlpha(xyzD50ToLch(v[0], v[1], v[2]), v[3]), nil
}

var hexRegexp = regexp.MustCompile(`^#(?:[\da-f]{3,4}|[\da-f]{6}|[\da-f]{8})$`)

// ConvertHexToRgb accepts the 3, 4, 6 and 8 digit forms in any case.
func ConvertHexToRgb(value string) ([4]float64, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if !hexRegexp.MatchString(value) {
		return [4]float64{}, helpers.NewSyntaxError("Invalid property value: %s", value)
	}
	digits := value[1:]
	if len(digits) <= 4 {
		long := make([]byte, 0, len(digits)*2)
		for i := 0; i < len(digits); i++ {
			long = append(long, digits[i], digits[i])
		}
		digits = string(long)
	}
	channel := func(i int) float64 {
		v, _ := strconv.ParseUint(digits[i*2:i*2+2], 16, 8)
		return float64(v)
	}
	alpha := 1.0
	if len(digits) == 8 {
		var err error
		if alpha, err = ParseHexAlpha(digits[6:]); err != nil {
			return [4]float64{}, err
		}
	}
	return [4]float64{channel(0), channel(1), channel(2), alpha}, nil
}

func ConvertHexToLinearRgb(value string) ([4]float64, error) {
	rgb, err := ConvertHexToRgb(value)
	if err != nil {
		return rgb, err
	}
	r, g, b := rgbToLinear(rgb[0], rgb[1], rgb[2])
	return [4]float64{r, g, b, rgb[3]}, nil
}

func ConvertHexToXyz(value string) ([4]float64, error) {
	lin, err := ConvertHexToLinearRgb(value)
	if err != nil {
		return lin, err
	}
	x, y, z := lin_srgb_to_xyz(lin[0], lin[1], lin[2])
	return [4]float64{x, y, z, lin[3]}, nil
}
