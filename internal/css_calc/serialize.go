package css_calc

import (
	"strings"

	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/logger"
)

// SortCalcValues folds one parenthesized group, given as its opening token,
// its terms and operators, and its closing token. Products are folded first.
// With "finalize" set, the products are then folded into a single sum.
func SortCalcValues(log logger.Log, values []string, finalize bool) (string, bool) {
	if len(values) < 3 {
		return "", false
	}
	start, end := values[0], values[len(values)-1]
	values = values[1 : len(values)-1]
	if len(values) == 1 {
		return start + values[0] + end, true
	}

	var sorted []string
	cal := NewCalculator(log)
	divide := false
	for i, value := range values {
		switch value {
		case "*":
			divide = false
			continue
		case "/":
			divide = true
			continue
		case "+", "-":
			product, _ := cal.Multiply()
			sorted = append(sorted, product, value)
			cal.Clear()
			divide = false
			continue
		}
		cal.addFactor(value, divide)
		if i == len(values)-1 {
			product, _ := cal.Multiply()
			sorted = append(sorted, product)
			cal.Clear()
			divide = false
		}
	}

	if !finalize || !(containsString(sorted, "+") || containsString(sorted, "-")) {
		return start + strings.Join(sorted, " ") + end, true
	}

	var finalized []string
	cal.Clear()
	subtract := false
	for i, value := range sorted {
		switch value {
		case "+":
			subtract = false
			continue
		case "-":
			subtract = true
			continue
		}
		cal.addTerm(value, subtract)
		if i == len(sorted)-1 {
			sum, _ := cal.Sum()
			finalized = append(finalized, sum)
			cal.Clear()
			subtract = false
		}
	}
	return start + strings.Join(finalized, " ") + end, true
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// SerializeCalc puts a math expression that can't be fully resolved into a
// canonical form, folding what can be folded. The innermost groups are
// handled first. Anything other than a specified math value is returned as
// is.
func SerializeCalc(log logger.Log, value string, opts *config.Options) (string, bool) {
	if !mathVarStartRegexp.MatchString(value) || opts.Format != config.FormatSpecified {
		return value, true
	}
	value = strings.TrimSpace(strings.ToLower(value))

	var items []string
	for _, token := range tokenize(log, value) {
		if token.Kind != css_lexer.TWhitespace && token.Kind != css_lexer.TComment {
			items = append(items, token.Raw(value))
		}
	}

	for {
		startIndex := lastOpenIndex(items)
		if startIndex <= 0 {
			break
		}
		endIndex := -1
		for i := startIndex + 1; i < len(items); i++ {
			if items[i] == ")" {
				endIndex = i
				break
			}
		}
		if endIndex == -1 {
			break
		}
		group := items[startIndex : endIndex+1]
		serialized, ok := SortCalcValues(log, group, false)
		if !ok {
			serialized = strings.Join(group, "")
		} else if mathVarStartRegexp.MatchString(serialized) {
			serialized = Evaluate(log, serialized, EvalOptions{})
		}
		rest := append([]string{serialized}, items[endIndex+1:]...)
		items = append(items[:startIndex], rest...)
	}

	return SortCalcValues(log, items, true)
}

func lastOpenIndex(items []string) int {
	for i := len(items) - 1; i >= 0; i-- {
		if strings.HasSuffix(items[i], "(") {
			return i
		}
	}
	return -1
}
