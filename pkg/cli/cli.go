// This package implements the "csscolor" command. Each color given on the
// command line is resolved and printed on its own line. Without arguments
// the colors are read from stdin, one per line.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/pkg/api"
)

func Run(osArgs []string) int {
	options, err := parseOptionsImpl(osArgs)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}

	engine := api.NewEngine(options.engine)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	inputs := options.inputs
	if len(inputs) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			logger.PrintErrorToStderr(osArgs, "No colors were given (pass them as arguments or pipe them to stdin)")
			return 1
		}
		if inputs, err = readLines(os.Stdin); err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not read from stdin: %s", err.Error()))
			return 1
		}
	}

	exitCode := 0
	for _, input := range inputs {
		line, err := runOne(engine, options, input)
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Failed to resolve %q: %s", input, err.Error()))
			exitCode = 1
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return exitCode
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

type jsonResult struct {
	Input string    `json:"input"`
	Value *string   `json:"value,omitempty"`
	Tuple []float64 `json:"tuple,omitempty"`
	Color *bool     `json:"isColor,omitempty"`
	Null  bool      `json:"null,omitempty"`
}

func runOne(engine *api.Engine, options *runOptions, input string) (string, error) {
	result := jsonResult{Input: input}
	var text string

	switch options.kind {
	case outputResolve:
		resolved, err := engine.Resolve(input, options.options)
		if err != nil {
			return "", err
		}
		text, result.Null = resolved.Value, resolved.Null
		if !resolved.Null {
			result.Value = &resolved.Value
		}

	case outputCalc:
		value, err := engine.CSSCalc(input, options.options)
		if err != nil {
			return "", err
		}
		text, result.Value = value, &value

	case outputIsColor:
		isColor := engine.IsColor(input)
		text, result.Color = fmt.Sprintf("%t", isColor), &isColor

	case outputConvert:
		if options.to == "hex" {
			resolved, err := engine.ColorToHex(input, options.options)
			if err != nil {
				return "", err
			}
			text, result.Null = resolved.Value, resolved.Null
			if !resolved.Null {
				result.Value = &resolved.Value
			}
			break
		}
		tuple, err := convertTo(engine, options.to, input, options.options)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(tuple))
		for i, v := range tuple {
			parts[i] = helpers.FormatNumber(v)
		}
		text, result.Tuple = strings.Join(parts, " "), tuple[:]
	}

	if options.json {
		bytes, err := json.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}
	if result.Null {
		return "null", nil
	}
	return text, nil
}

func convertTo(engine *api.Engine, to string, input string, options api.Options) ([4]float64, error) {
	switch to {
	case "hsl":
		return engine.ColorToHsl(input, options)
	case "hwb":
		return engine.ColorToHwb(input, options)
	case "lab":
		return engine.ColorToLab(input, options)
	case "lch":
		return engine.ColorToLch(input, options)
	case "oklab":
		return engine.ColorToOklab(input, options)
	case "oklch":
		return engine.ColorToOklch(input, options)
	case "rgb":
		return engine.ColorToRgb(input, options)
	case "xyz":
		return engine.ColorToXyz(input, options)
	case "xyz-d50":
		return engine.ColorToXyzD50(input, options)
	}
	panic("Internal error")
}
