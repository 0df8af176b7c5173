//go:build !darwin && !linux
// +build !darwin,!linux

package logger

import (
	"os"
	"strings"
)

const SupportsColorEscapes = false

func GetTerminalInfo(*os.File) TerminalInfo {
	return TerminalInfo{}
}

// Escapes are stripped since there's no way to tell whether the console
// understands them.
func writeStringWithColor(file *os.File, text string) {
	for {
		start := strings.Index(text, "\033[")
		if start == -1 {
			break
		}
		end := strings.IndexByte(text[start:], 'm')
		if end == -1 {
			break
		}
		file.WriteString(text[:start])
		text = text[start+end+1:]
	}
	file.WriteString(text)
}
