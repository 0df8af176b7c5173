package main

import (
	"fmt"
	"os"

	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/pkg/cli"
)

const csscolorVersion = "0.1.0"

const helpText = `
Usage:
  csscolor [options] [colors]

Reads colors from stdin (one per line) when no colors are given.

Options:
  --format=...          Output format (computed, specified, hex, hex-alpha)
  --color-space=...     Color space used when mixing with a spec format
  --current-color=...   The color that "currentcolor" resolves to
  --d50                 Use the D50 white point for xyz conversions
  --alpha               Apply the alpha channel when converting to hex
  --property N=V        Define the custom property --N as V (repeatable)
  --dimension U=PX      Define the size of unit U in pixels (repeatable)
  --config=...          Load options from a .yaml, .json or .ini file

Modes:
  --to=...              Convert to a tuple (hsl, hwb, lab, lch, oklab,
                        oklch, rgb, xyz, xyz-d50) or to hex
  --calc                Evaluate calc() and other math functions
  --is-color            Print whether each input is a color

Advanced options:
  --version             Print the current version and exit (` + csscolorVersion + `)
  --json                Print one JSON object per input
  --log-level=...       Set the log level (verbose, debug, info, warning,
                        error, silent) (default warning)
  --color=...           Force use of color terminal escapes (true or false)
  --max-depth=...       Maximum nesting of var() and color-mix() (default 32)
  --cache-size=...      Maximum entries per result cache (default 4096)

Examples:
  # Prints "rgb(128, 0, 128)"
  csscolor "color-mix(in srgb, red, blue)"

  # Prints "#ff0000"
  csscolor --format=hex "var(--brand)" --property brand=red

  # Prints "24px"
  csscolor --calc "calc(2em + 4px)" --dimension em=10
`

func main() {
	osArgs := os.Args[1:]

	// Do an initial scan over the argument list
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		// Show help if a common help flag is provided
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		// Special-case the version flag here
		case arg == "--version":
			fmt.Fprintf(os.Stderr, "%s\n", csscolorVersion)
			os.Exit(0)

		default:
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Print help text when there are no arguments and nothing is piped in
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	os.Exit(cli.Run(osArgs))
}
