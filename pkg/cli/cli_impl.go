package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/evanw/csscolor/pkg/api"
)

type outputKind uint8

const (
	outputResolve outputKind = iota
	outputConvert
	outputCalc
	outputIsColor
)

// Everything "Run" needs after the arguments have been parsed
type runOptions struct {
	engine  api.EngineOptions
	options api.Options
	kind    outputKind
	to      string
	json    bool
	inputs  []string
}

var conversions = []string{"hex", "hsl", "hwb", "lab", "lch", "oklab", "oklch", "rgb", "xyz", "xyz-d50"}

func parseFormat(text string) (api.Format, bool) {
	switch strings.ToLower(text) {
	case "computed", "computedvalue":
		return api.FormatComputedValue, true
	case "specified", "specifiedvalue":
		return api.FormatSpecifiedValue, true
	case "hex":
		return api.FormatHex, true
	case "hex-alpha", "hexalpha":
		return api.FormatHexAlpha, true
	}
	return 0, false
}

func parseLogLevel(text string) (api.LogLevel, bool) {
	switch text {
	case "verbose":
		return api.LogLevelVerbose, true
	case "debug":
		return api.LogLevelDebug, true
	case "info":
		return api.LogLevelInfo, true
	case "warning":
		return api.LogLevelWarning, true
	case "error":
		return api.LogLevelError, true
	case "silent":
		return api.LogLevelSilent, true
	}
	return 0, false
}

func parseColor(text string) (api.StderrColor, bool) {
	switch text {
	case "", "auto":
		return api.ColorIfTerminal, true
	case "true", "always":
		return api.ColorAlways, true
	case "false", "never":
		return api.ColorNever, true
	}
	return 0, false
}

// Splits "name=value" pairs for "--property" and "--dimension"
func splitPair(flag string, text string) (string, string, error) {
	equals := strings.IndexByte(text, '=')
	if equals < 1 {
		return "", "", errors.Errorf("Missing \"=\" in \"--%s %s\" (it should look like \"name=value\")", flag, text)
	}
	return strings.TrimSpace(text[:equals]), strings.TrimSpace(text[equals+1:]), nil
}

func parseOptionsImpl(osArgs []string) (*runOptions, error) {
	flags := pflag.NewFlagSet("csscolor", pflag.ContinueOnError)
	flags.SetInterspersed(true)
	flags.Usage = func() {}

	format := flags.String("format", "computed", "")
	colorSpace := flags.String("color-space", "", "")
	currentColor := flags.String("current-color", "", "")
	d50 := flags.Bool("d50", false, "")
	alpha := flags.Bool("alpha", false, "")
	properties := flags.StringArray("property", nil, "")
	dimensions := flags.StringArray("dimension", nil, "")
	configFile := flags.String("config", "", "")
	to := flags.String("to", "", "")
	calc := flags.Bool("calc", false, "")
	isColor := flags.Bool("is-color", false, "")
	asJSON := flags.Bool("json", false, "")
	logLevel := flags.String("log-level", "warning", "")
	color := flags.String("color", "", "")
	maxDepth := flags.Int("max-depth", 0, "")
	cacheSize := flags.Int("cache-size", 0, "")

	if err := flags.Parse(osArgs); err != nil {
		return nil, err
	}

	result := &runOptions{json: *asJSON, inputs: flags.Args()}

	// Apply the config file first so flags can override it
	if *configFile != "" {
		cfg, err := loadConfigFile(*configFile)
		if err != nil {
			return nil, err
		}
		if cfg.Format != "" && !flags.Changed("format") {
			*format = cfg.Format
		}
		result.options.ColorSpace = cfg.ColorSpace
		result.options.CurrentColor = cfg.CurrentColor
		result.options.D50 = cfg.D50
		result.options.CustomProperty = cfg.CustomProperty
		result.options.Dimension = cfg.Dimension
	}

	var ok bool
	if result.options.Format, ok = parseFormat(*format); !ok {
		return nil, errors.Errorf("Invalid format: %q (valid: computed, specified, hex, hex-alpha)", *format)
	}
	if result.engine.LogLevel, ok = parseLogLevel(*logLevel); !ok {
		return nil, errors.Errorf("Invalid log level: %q (valid: verbose, debug, info, warning, error, silent)", *logLevel)
	}
	if result.engine.Color, ok = parseColor(*color); !ok {
		return nil, errors.Errorf("Invalid color setting: %q (valid: true, false)", *color)
	}
	result.engine.MaxDepth = *maxDepth
	result.engine.CacheSize = *cacheSize

	if flags.Changed("color-space") {
		result.options.ColorSpace = *colorSpace
	}
	if flags.Changed("current-color") {
		result.options.CurrentColor = *currentColor
	}
	if flags.Changed("d50") {
		result.options.D50 = *d50
	}
	result.options.Alpha = *alpha

	for _, text := range *properties {
		name, value, err := splitPair("property", text)
		if err != nil {
			return nil, err
		}
		if result.options.CustomProperty == nil {
			result.options.CustomProperty = make(map[string]string)
		}
		result.options.CustomProperty[name] = value
	}
	result.options.CustomProperty = normalizePropertyNames(result.options.CustomProperty)

	for _, text := range *dimensions {
		unit, value, err := splitPair("dimension", text)
		if err != nil {
			return nil, err
		}
		px, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid dimension %q", text)
		}
		if result.options.Dimension == nil {
			result.options.Dimension = make(map[string]float64)
		}
		result.options.Dimension[strings.ToLower(unit)] = px
	}

	modes := 0
	if *to != "" {
		result.kind, result.to = outputConvert, strings.ToLower(*to)
		if !isConversion(result.to) {
			return nil, errors.Errorf("Invalid conversion: %q (valid: %s)", *to, strings.Join(conversions, ", "))
		}
		modes++
	}
	if *calc {
		result.kind = outputCalc
		modes++
	}
	if *isColor {
		result.kind = outputIsColor
		modes++
	}
	if modes > 1 {
		return nil, errors.Errorf("Only one of \"--to\", \"--calc\" and \"--is-color\" can be used at a time")
	}

	return result, nil
}

func isConversion(name string) bool {
	for _, it := range conversions {
		if it == name {
			return true
		}
	}
	return false
}
