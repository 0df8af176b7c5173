package css_color

import "regexp"

// Grammar fragments for the color syntaxes. They are combined into anchored
// regular expressions that gate every parse function, so by the time a
// value is split into channels its shape is already known.
const (
	digit = `(?:0|[1-9]\d*)`

	SynAngle = `deg|g?rad|turn`
	SynNum   = `[+-]?(?:` + digit + `(?:\.\d*)?|\.\d+)(?:e-?` + digit + `)?`
	SynPct   = SynNum + `%`

	synNone         = `none`
	synAlpha        = `(?:\s*/\s*(?:` + SynNum + `|` + SynPct + `|` + synNone + `))?`
	synAlphaLegacy  = `(?:\s*,\s*(?:` + SynNum + `|` + SynPct + `))?`
	synColorFunc    = `(?:ok)?l(?:ab|ch)|color|hsla?|hwb|rgba?`
	synColorKeyword = `[a-z]+|#[\da-f]{3}|#[\da-f]{4}|#[\da-f]{6}|#[\da-f]{8}`
	synHueSpace     = `(?:ok)?lch|hsl|hwb`
	synHueArc       = `(?:de|in)creasing|longer|shorter`
	synNumAngle     = SynNum + `(?:` + SynAngle + `)?`
	synNumAngleNone = `(?:` + SynNum + `(?:` + SynAngle + `)?|` + synNone + `)`
	synNumPctNone   = `(?:` + SynNum + `|` + SynPct + `|` + synNone + `)`

	synSpaceHue     = `(?:` + synHueSpace + `)(?:\s(?:` + synHueArc + `)\shue)?`
	synSpaceHueCapt = `(` + synHueSpace + `)(?:\s(` + synHueArc + `)\shue)?`
	synSpaceLab     = `(?:ok)?lab`
	synSpaceSRGB    = `srgb(?:-linear)?`
	synSpaceRGB     = `(?:a98|prophoto)-rgb|display-p3|rec2020|` + synSpaceSRGB
	synSpaceXYZ     = `xyz(?:-d(?:50|65))?`
	synSpaceMix     = synSpaceHue + `|` + synSpaceLab + `|` + synSpaceSRGB + `|` + synSpaceXYZ

	synFuncColor = `(?:` + synSpaceRGB + `|` + synSpaceXYZ + `)(?:\s+` + synNumPctNone + `){3}` + synAlpha
	synHSL       = synNumAngleNone + `(?:\s+` + synNumPctNone + `){2}` + synAlpha
	synHSLLegacy = synNumAngle + `(?:\s*,\s*` + SynPct + `){2}` + synAlphaLegacy
	synLCH       = `(?:` + synNumPctNone + `\s+){2}` + synNumAngleNone + synAlpha
	synModern    = synNumPctNone + `(?:\s+` + synNumPctNone + `){2}` + synAlpha
	synRGBLegacy = `(?:` + SynNum + `(?:\s*,\s*` + SynNum + `){2}|` + SynPct + `(?:\s*,\s*` + SynPct + `){2})` + synAlphaLegacy

	SynColorFunc = synColorFunc

	// SynColorType matches any single color that isn't a "color-mix()".
	SynColorType = synColorKeyword +
		`|hsla?\(\s*` + synHSLLegacy + `\s*\)` +
		`|rgba?\(\s*` + synRGBLegacy + `\s*\)` +
		`|(?:hsla?|hwb)\(\s*` + synHSL + `\s*\)` +
		`|(?:(?:ok)?lab|rgba?)\(\s*` + synModern + `\s*\)` +
		`|(?:ok)?lch\(\s*` + synLCH + `\s*\)` +
		`|color\(\s*` + synFuncColor + `\s*\)`

	synMixPart = `(?:` + SynColorType + `)(?:\s+` + SynPct + `)?`

	// SynMix matches a "color-mix()" whose operands are plain colors.
	SynMix = `color-mix\(\s*in\s+(?:` + synSpaceMix + `)\s*,\s*` + synMixPart + `\s*,\s*` + synMixPart + `\s*\)`
)

var (
	colorRegexp     = regexp.MustCompile(`^(?:` + SynColorType + `)$`)
	currentRegexp   = regexp.MustCompile(`^(?i:currentcolor)$`)
	keywordRegexp   = regexp.MustCompile(`^[a-z]+$`)
	hueSpaceRegexp  = regexp.MustCompile(`^` + synSpaceHueCapt + `$`)
	xyzSpaceRegexp  = regexp.MustCompile(`^` + synSpaceXYZ + `$`)
	rgbSpaceRegexp  = regexp.MustCompile(`^(?:` + synSpaceRGB + `|` + synSpaceXYZ + `)$`)
	funcColorRegexp = regexp.MustCompile(`^color\(\s*(` + synFuncColor + `)\s*\)$`)
	rgbRegexp       = regexp.MustCompile(`^rgba?\(\s*(` + synModern + `|` + synRGBLegacy + `)\s*\)$`)
	hslRegexp       = regexp.MustCompile(`^hsla?\(\s*(` + synHSL + `|` + synHSLLegacy + `)\s*\)$`)
	hwbRegexp       = regexp.MustCompile(`^hwb\(\s*(` + synHSL + `)\s*\)$`)
	labRegexp       = regexp.MustCompile(`^lab\(\s*(` + synModern + `)\s*\)$`)
	lchRegexp       = regexp.MustCompile(`^lch\(\s*(` + synLCH + `)\s*\)$`)
	oklabRegexp     = regexp.MustCompile(`^oklab\(\s*(` + synModern + `)\s*\)$`)
	oklchRegexp     = regexp.MustCompile(`^oklch\(\s*(` + synLCH + `)\s*\)$`)
	angleRegexp     = regexp.MustCompile(`^(` + SynNum + `)(` + SynAngle + `)?$`)
	mixRegexp       = regexp.MustCompile(SynMix)
	mixSpaceRegexp  = regexp.MustCompile(`^in\s+(` + synSpaceMix + `)$`)
	mixPartRegexp   = regexp.MustCompile(`^(.+?)(?:\s+(` + SynPct + `))?$`)
)

// IsColorSyntax reports whether the value is a single color literal, such
// as a keyword, a hex color or a color function without math or "var()".
func IsColorSyntax(value string) bool {
	return colorRegexp.MatchString(value)
}

// ContainsMix reports whether the value contains a "color-mix()" of plain
// colors anywhere inside it.
func ContainsMix(value string) bool {
	return mixRegexp.MatchString(value)
}

func IsCurrentColor(value string) bool {
	return currentRegexp.MatchString(value)
}
