package test

import (
	"strings"

	"github.com/evanw/csscolor/internal/logger"
)

// Diff renders a line diff between two multi-line strings, used for CLI
// output comparisons where a plain "a != b" is unreadable.
func Diff(old string, new string, color bool) string {
	var lines []string
	emit := func(prefix string, tint string, chunk []string) {
		for _, line := range chunk {
			if color {
				lines = append(lines, tint+prefix+line+logger.TerminalColors.Reset)
			} else {
				lines = append(lines, prefix+line)
			}
		}
	}

	var walk func(old []string, new []string)
	walk = func(old []string, new []string) {
		o, n, common := longestCommonRun(old, new)
		if common == 0 {
			emit("-", logger.TerminalColors.Red, old)
			emit("+", logger.TerminalColors.Green, new)
			return
		}
		walk(old[:o], new[:n])
		emit(" ", logger.TerminalColors.Dim, old[o:o+common])
		walk(old[o+common:], new[n+common:])
	}

	walk(strings.Split(old, "\n"), strings.Split(new, "\n"))
	return strings.Join(lines, "\n")
}

// Returns the start offsets in "a" and "b" and the length of the longest run
// of lines the two share.
func longestCommonRun(a []string, b []string) (int, int, int) {
	prev := make([]int, len(b)+1)
	next := make([]int, len(b)+1)
	best, endA, endB := 0, 0, 0

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				next[j+1] = 0
				continue
			}
			next[j+1] = prev[j] + 1
			if next[j+1] > best {
				best, endA, endB = next[j+1], i+1, j+1
			}
		}
		prev, next = next, prev
	}

	return endA - best, endB - best, best
}
