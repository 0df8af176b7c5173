package css_color

import (
	"math"

	"github.com/evanw/csscolor/internal/helpers"
)

// Reference: https://drafts.csswg.org/css-color/#color-conversion-code
//
// Transfer functions are extended to negative inputs by mirroring them
// around zero, so values outside of the gamut survive a round trip.

var (
	matrixD50ToD65 = Matrix{
		0.955473421488075, -0.02309845494876471, 0.06325924320057072,
		-0.0283697093338637, 1.0099953980813041, 0.021041441191917323,
		0.012314014864481998, -0.020507649298898964, 1.330365926242124,
	}
	matrixD65ToD50 = Matrix{
		1.0479297925449969, 0.022946870601609652, -0.05019226628920524,
		0.02962780877005599, 0.9904344267538799, -0.017073799063418826,
		-0.009243040646204504, 0.015055191490298152, 0.7518742814281371,
	}
	matrixLinSRGBToXYZ = Matrix{
		506752.0 / 1228815, 87881.0 / 245763, 12673.0 / 70218,
		87098.0 / 409605, 175762.0 / 245763, 12673.0 / 175545,
		7918.0 / 409605, 87881.0 / 737289, 1001167.0 / 1053270,
	}
	matrixXYZToLinSRGB = Matrix{
		12831.0 / 3959, -329.0 / 214, -1974.0 / 3959,
		-851781.0 / 878810, 1648619.0 / 878810, 36519.0 / 878810,
		705.0 / 12673, -2585.0 / 12673, 705.0 / 667,
	}
	matrixXYZToLMS = Matrix{
		0.819022437996703, 0.3619062600528904, -0.1288737815209879,
		0.0329836539323885, 0.9292868615863434, 0.0361446663506424,
		0.0481771893596242, 0.2642395317527308, 0.6335478284694309,
	}
	matrixLMSToXYZ = Matrix{
		1.2268798758459243, -0.5578149944602171, 0.2813910456659647,
		-0.0405757452148008, 1.112286803280317, -0.0717110580655164,
		-0.0763729366746601, -0.4214933324022432, 1.5869240198367816,
	}
	matrixOklabToLMS = Matrix{
		1.0, 0.3963377773761749, 0.2158037573099136,
		1.0, -0.1055613458156586, -0.0638541728258133,
		1.0, -0.0894841775298119, -1.2914855480194092,
	}
	matrixLMSToOklab = Matrix{
		0.210454268309314, 0.7936177747023054, -0.0040720430116193,
		1.9779985324311684, -2.4285922420485799, 0.450593709617411,
		0.0259040424655478, 0.7827717124575296, -0.8086757549230774,
	}
	matrixLinP3ToXYZ = Matrix{
		608311.0 / 1250200, 189793.0 / 714400, 198249.0 / 1000160,
		35783.0 / 156275, 247089.0 / 357200, 198249.0 / 2500400,
		0.0 / 1, 32229.0 / 714400, 5220557.0 / 5000800,
	}
	matrixXYZToLinP3 = Matrix{
		446124.0 / 178915, -333277.0 / 357830, -72051.0 / 178915,
		-14852.0 / 17905, 63121.0 / 35810, 423.0 / 17905,
		11844.0 / 330415, -50337.0 / 660830, 316169.0 / 330415,
	}
	matrixLin2020ToXYZ = Matrix{
		63426534.0 / 99577255, 20160776.0 / 139408157, 47086771.0 / 278816314,
		26158966.0 / 99577255, 472592308.0 / 697040785, 8267143.0 / 139408157,
		0.0 / 1, 19567812.0 / 697040785, 295819943.0 / 278816314,
	}
	matrixXYZToLin2020 = Matrix{
		30757411.0 / 17917100, -6372589.0 / 17917100, -4539589.0 / 17917100,
		-19765991.0 / 29648200, 47925759.0 / 29648200, 467509.0 / 29648200,
		792561.0 / 44930125, -1921689.0 / 44930125, 42328811.0 / 44930125,
	}
	matrixLinA98ToXYZ = Matrix{
		573536.0 / 994567, 263643.0 / 1420810, 187206.0 / 994567,
		591459.0 / 1989134, 6239551.0 / 9945670, 374412.0 / 4972835,
		53769.0 / 1989134, 351524.0 / 4972835, 4929758.0 / 4972835,
	}
	matrixXYZToLinA98 = Matrix{
		1829569.0 / 896150, -506331.0 / 896150, -308931.0 / 896150,
		-851781.0 / 878810, 1648619.0 / 878810, 36519.0 / 878810,
		16779.0 / 1248040, -147721.0 / 1248040, 1266979.0 / 1248040,
	}
	matrixLinProPhotoToXYZD50 = Matrix{
		0.7977666449006423, 0.13518129740053308, 0.0313477341283922,
		0.2880748288194013, 0.711835234241873, 0.00008993693872564,
		0.0, 0.0, 0.8251046025104602,
	}
	matrixXYZD50ToLinProPhoto = invertMatrix(matrixLinProPhotoToXYZD50)
)

// The D50 reference white. These are computed at run time with float64
// division, which is what produces the bit pattern other implementations
// use for this constant.
var d50White = func() [3]float64 {
	x, y := 0.3457, 0.3585
	return [3]float64{x / y, 1.0, (1.0 - x - y) / y}
}()

const labEpsilon = 216.0 / 24389
const labKappa = 24389.0 / 27

// Kept as variables so that the reciprocals below are computed with
// float64 division.
var (
	powLinear   = 2.4
	powProPhoto = 1.8
	powA98      = 563.0 / 256
	powRec2020  = 0.45

	powLinearInv   = 1 / powLinear
	powProPhotoInv = 1 / powProPhoto
	powA98Inv      = 1 / powA98
	powRec2020Inv  = 1 / powRec2020
)

func multiplyMatrices(A Matrix, b0 float64, b1 float64, b2 float64) (float64, float64, float64) {
	return helpers.Dot3(A[0], A[1], A[2], b0, b1, b2),
		helpers.Dot3(A[3], A[4], A[5], b0, b1, b2),
		helpers.Dot3(A[6], A[7], A[8], b0, b1, b2)
}

func invertMatrix(m Matrix) Matrix {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]
	A, B, C := e*i-f*h, -(d*i - f*g), d*h-e*g
	det := a*A + b*B + c*C
	return Matrix{
		A / det, -(b*i - c*h) / det, (b*f - c*e) / det,
		B / det, (a*i - c*g) / det, -(a*f - c*d) / det,
		C / det, -(a*h - b*g) / det, (a*e - b*d) / det,
	}
}

func lin_srgb(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		if abs := math.Abs(val); abs <= 0.04045 {
			return val / 12.92
		} else {
			return math.Copysign(math.Pow((abs+0.055)/(1+0.055), powLinear), val)
		}
	}
	return f(r), f(g), f(b)
}

func gam_srgb(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		if abs := math.Abs(val); abs > 809.0/258400 {
			return math.Copysign(helpers.NewF64(abs).PowConst(powLinearInv).MulConst(1+0.055).SubConst(0.055).Value(), val)
		} else {
			return val * 12.92
		}
	}
	return f(r), f(g), f(b)
}

func lin_srgb_to_xyz(r float64, g float64, b float64) (float64, float64, float64) {
	return multiplyMatrices(matrixLinSRGBToXYZ, r, g, b)
}

func xyz_to_lin_srgb(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixXYZToLinSRGB, x, y, z)
}

func lin_p3_to_xyz(r float64, g float64, b float64) (float64, float64, float64) {
	return multiplyMatrices(matrixLinP3ToXYZ, r, g, b)
}

func xyz_to_lin_p3(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixXYZToLinP3, x, y, z)
}

func lin_prophoto(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		const Et2 = 16.0 / 512
		if abs := math.Abs(val); abs <= Et2 {
			return val / 16
		} else {
			return math.Copysign(math.Pow(abs, powProPhoto), val)
		}
	}
	return f(r), f(g), f(b)
}

func gam_prophoto(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		const Et = 1.0 / 512
		if abs := math.Abs(val); abs >= Et {
			return math.Copysign(math.Pow(abs, powProPhotoInv), val)
		} else {
			return 16 * val
		}
	}
	return f(r), f(g), f(b)
}

// ProPhoto is defined relative to D50
func lin_prophoto_to_xyz_d50(r float64, g float64, b float64) (float64, float64, float64) {
	return multiplyMatrices(matrixLinProPhotoToXYZD50, r, g, b)
}

func xyz_d50_to_lin_prophoto(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixXYZD50ToLinProPhoto, x, y, z)
}

func lin_a98rgb(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		return math.Copysign(math.Pow(math.Abs(val), powA98), val)
	}
	return f(r), f(g), f(b)
}

func gam_a98rgb(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		return math.Copysign(math.Pow(math.Abs(val), powA98Inv), val)
	}
	return f(r), f(g), f(b)
}

func lin_a98rgb_to_xyz(r float64, g float64, b float64) (float64, float64, float64) {
	return multiplyMatrices(matrixLinA98ToXYZ, r, g, b)
}

func xyz_to_lin_a98rgb(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixXYZToLinA98, x, y, z)
}

const rec2020Alpha = 1.09929682680944
const rec2020Beta = 0.018053968510807

func lin_2020(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		if abs := math.Abs(val); abs < rec2020Beta*0.45*10 {
			return val / (0.45 * 10)
		} else {
			return math.Copysign(math.Pow((abs+rec2020Alpha-1)/rec2020Alpha, powRec2020Inv), val)
		}
	}
	return f(r), f(g), f(b)
}

func gam_2020(r float64, g float64, b float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		if abs := math.Abs(val); abs > rec2020Beta {
			return math.Copysign(helpers.NewF64(abs).PowConst(powRec2020).MulConst(rec2020Alpha).SubConst(rec2020Alpha-1).Value(), val)
		} else {
			return 4.5 * val
		}
	}
	return f(r), f(g), f(b)
}

func lin_2020_to_xyz(r float64, g float64, b float64) (float64, float64, float64) {
	return multiplyMatrices(matrixLin2020ToXYZ, r, g, b)
}

func xyz_to_lin_2020(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixXYZToLin2020, x, y, z)
}

func d65_to_d50(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixD65ToD50, x, y, z)
}

func d50_to_d65(x float64, y float64, z float64) (float64, float64, float64) {
	return multiplyMatrices(matrixD50ToD65, x, y, z)
}

// Lightness is not clamped here. Callers decide how to treat the extremes.
func xyz_d50_to_lab(x float64, y float64, z float64) (float64, float64, float64) {
	f := func(val float64) float64 {
		if val > labEpsilon {
			return math.Cbrt(val)
		}
		return helpers.NewF64(val).MulConst(labKappa).AddConst(16).DivConst(116).Value()
	}
	f0 := f(x / d50White[0])
	f1 := f(y / d50White[1])
	f2 := f(z / d50White[2])
	return helpers.NewF64(f1).MulConst(116).SubConst(16).Value(),
		(f0 - f1) * 500,
		(f1 - f2) * 200
}

func lab_to_xyz_d50(l float64, a float64, b float64) (x float64, y float64, z float64) {
	fl := (l + 16) / 116
	fa := a/500 + fl
	fb := fl - b/200

	fa3 := math.Pow(fa, 3)
	fl3 := math.Pow(fl, 3)
	fb3 := math.Pow(fb, 3)

	if fa3 > labEpsilon {
		x = fa3
	} else {
		x = helpers.NewF64(fa).MulConst(116).SubConst(16).DivConst(labKappa).Value()
	}
	if l > 8 {
		y = fl3
	} else {
		y = l / labKappa
	}
	if fb3 > labEpsilon {
		z = fb3
	} else {
		z = helpers.NewF64(fb).MulConst(116).SubConst(16).DivConst(labKappa).Value()
	}

	return x * d50White[0], y * d50White[1], z * d50White[2]
}

func lab_to_lch(l float64, a float64, b float64) (float64, float64, float64) {
	hue := math.Atan2(b, a) * 360 * 0.5 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return l,
		math.Max(helpers.NewF64(a).Mul(helpers.NewF64(a)).Add(helpers.NewF64(b).Mul(helpers.NewF64(b))).Sqrt().Value(), 0),
		hue
}

func lch_to_lab(l float64, c float64, h float64) (float64, float64, float64) {
	return l,
		c * math.Cos(h*math.Pi/(360*0.5)),
		c * math.Sin(h*math.Pi/(360*0.5))
}

func xyz_to_oklab(x float64, y float64, z float64) (float64, float64, float64) {
	l, m, s := multiplyMatrices(matrixXYZToLMS, x, y, z)
	return multiplyMatrices(matrixLMSToOklab, math.Cbrt(l), math.Cbrt(m), math.Cbrt(s))
}

func oklab_to_xyz(l float64, a float64, b float64) (float64, float64, float64) {
	l, m, s := multiplyMatrices(matrixOklabToLMS, l, a, b)
	return multiplyMatrices(matrixLMSToXYZ, math.Pow(l, 3), math.Pow(m, 3), math.Pow(s, 3))
}

// Channels are in [0, 1] and saturation and lightness in [0, 100].
func hsl_to_rgb(hue float64, sat float64, light float64) (float64, float64, float64) {
	ll := light / 100
	sa := sat / 100 * math.Min(ll, 1-ll)
	f := func(n float64) float64 {
		k := math.Mod(helpers.NewF64(hue).DivConst(360).MulConst(12).AddConst(n).Value(), 12)
		return helpers.NewF64(ll).Sub(helpers.NewF64(sa).MulConst(math.Max(-1, math.Min(math.Min(k-3, 9-k), 1)))).Value()
	}
	return f(0), f(8), f(4)
}

// Channels are in [0, 1] and whiteness and blackness in [0, 1] too.
func hwb_to_rgb(hue float64, white float64, black float64) (float64, float64, float64) {
	if white+black >= 1 {
		gray := white / (white + black)
		return gray, gray, gray
	}
	r, g, b := hsl_to_rgb(hue, 100, 50)
	factor := 1 - white - black
	return helpers.NewF64(r).MulConst(factor).AddConst(white).Value(),
		helpers.NewF64(g).MulConst(factor).AddConst(white).Value(),
		helpers.NewF64(b).MulConst(factor).AddConst(white).Value()
}

// Returns a NaN hue for achromatic colors. Channels are in [0, 1].
func rgb_to_hsl(red float64, green float64, blue float64) (float64, float64, float64) {
	max := math.Max(math.Max(red, green), blue)
	min := math.Min(math.Min(red, green), blue)
	hue, sat, light := math.NaN(), 0.0, (min+max)/2
	d := max - min

	if d != 0 {
		if div := math.Min(light, 1-light); div != 0 {
			sat = (max - light) / div
		}

		switch max {
		case red:
			hue = (green - blue) / d
			if green < blue {
				hue += 6
			}
		case green:
			hue = (blue-red)/d + 2
		case blue:
			hue = (red-green)/d + 4
		}

		hue = hue * 60
	}

	return hue, sat * 100, light * 100
}

func rgb_to_hwb(red float64, green float64, blue float64) (float64, float64, float64) {
	h, _, _ := rgb_to_hsl(red, green, blue)
	white := math.Min(math.Min(red, green), blue)
	black := 1 - math.Max(math.Max(red, green), blue)
	return h, white * 100, black * 100
}

// The relative color syntax evaluates channels in the destination space.
// These convert between that space and XYZ relative to D65. Polar and
// rectangular spaces use CSS units: hsl and hwb in [0, 100], lab lightness
// in [0, 100], oklab lightness in [0, 1].
func xyz_to_colorSpace(x float64, y float64, z float64, space Space) (float64, float64, float64) {
	switch space {
	case SpaceA98RGB:
		return gam_a98rgb(xyz_to_lin_a98rgb(x, y, z))

	case SpaceDisplayP3:
		return gam_srgb(xyz_to_lin_p3(x, y, z))

	case SpaceHSL:
		return rgb_to_hsl(gam_srgb(xyz_to_lin_srgb(x, y, z)))

	case SpaceHWB:
		return rgb_to_hwb(gam_srgb(xyz_to_lin_srgb(x, y, z)))

	case SpaceLab:
		return xyz_d50_to_lab(d65_to_d50(x, y, z))

	case SpaceLCH:
		return lab_to_lch(xyz_d50_to_lab(d65_to_d50(x, y, z)))

	case SpaceOklab:
		return xyz_to_oklab(x, y, z)

	case SpaceOklch:
		return lab_to_lch(xyz_to_oklab(x, y, z))

	case SpaceProPhotoRGB:
		return gam_prophoto(xyz_d50_to_lin_prophoto(d65_to_d50(x, y, z)))

	case SpaceRec2020:
		return gam_2020(xyz_to_lin_2020(x, y, z))

	case SpaceRGB, SpaceSRGB:
		return gam_srgb(xyz_to_lin_srgb(x, y, z))

	case SpaceSRGBLinear:
		return xyz_to_lin_srgb(x, y, z)

	case SpaceXYZD65:
		return x, y, z

	case SpaceXYZD50:
		return d65_to_d50(x, y, z)

	default:
		panic("Internal error")
	}
}

func colorSpace_to_xyz(v0 float64, v1 float64, v2 float64, space Space) (float64, float64, float64) {
	switch space {
	case SpaceA98RGB:
		return lin_a98rgb_to_xyz(lin_a98rgb(v0, v1, v2))

	case SpaceDisplayP3:
		return lin_p3_to_xyz(lin_srgb(v0, v1, v2))

	case SpaceHSL:
		return lin_srgb_to_xyz(lin_srgb(hsl_to_rgb(v0, v1, v2)))

	case SpaceHWB:
		return lin_srgb_to_xyz(lin_srgb(hwb_to_rgb(v0, v1/100, v2/100)))

	case SpaceLab:
		return d50_to_d65(lab_to_xyz_d50(v0, v1, v2))

	case SpaceLCH:
		return d50_to_d65(lab_to_xyz_d50(lch_to_lab(v0, v1, v2)))

	case SpaceOklab:
		return oklab_to_xyz(v0, v1, v2)

	case SpaceOklch:
		return oklab_to_xyz(lch_to_lab(v0, v1, v2))

	case SpaceProPhotoRGB:
		return d50_to_d65(lin_prophoto_to_xyz_d50(lin_prophoto(v0, v1, v2)))

	case SpaceRec2020:
		return lin_2020_to_xyz(lin_2020(v0, v1, v2))

	case SpaceRGB, SpaceSRGB:
		return lin_srgb_to_xyz(lin_srgb(v0, v1, v2))

	case SpaceSRGBLinear:
		return lin_srgb_to_xyz(v0, v1, v2)

	case SpaceXYZD65:
		return v0, v1, v2

	case SpaceXYZD50:
		return d50_to_d65(v0, v1, v2)

	default:
		panic("Internal error")
	}
}
