package css_calc

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/evanw/csscolor/internal/css_color"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
)

var (
	dimPctRegexp   = regexp.MustCompile(`^(` + css_color.SynNum + `)([a-z]+|%)$`)
	pctRegexp      = regexp.MustCompile(`^(` + css_color.SynNum + `)%$`)
	dimRegexp      = regexp.MustCompile(`^(` + css_color.SynNum + `)([a-z]+)$`)
	operatorRegexp = regexp.MustCompile(`\s[*+/-]\s`)
	numberRegexp   = regexp.MustCompile(`^` + css_color.SynNum + `$`)
)

// Calculator collects the terms of one product (or one sum) of a math
// expression by type so that numbers can be folded together while anything
// that can't be resolved yet, such as "r" in a relative color, is kept in a
// stable order.
type Calculator struct {
	log logger.Log

	HasNum bool
	NumSum []float64
	NumMul []float64

	HasPct bool
	PctSum []float64
	PctMul []float64

	HasDim bool
	DimSum []string
	DimSub []string
	DimMul []string
	DimDiv []string

	HasEtc bool
	EtcSum []string
	EtcSub []string
	EtcMul []string
	EtcDiv []string
}

func NewCalculator(log logger.Log) *Calculator {
	return &Calculator{log: log}
}

func (c *Calculator) Clear() {
	*c = Calculator{log: c.log}
}

// An intermediate product or sum. Starts out undefined, may be a number, or
// may become text once a percent sign is attached.
type partial struct {
	defined bool
	isText  bool
	number  float64
	text    string
}

func numberPartial(v float64) partial {
	return partial{defined: true, number: v}
}

func (p partial) isFinite() bool {
	return p.defined && !p.isText && !math.IsNaN(p.number) && !math.IsInf(p.number, 0)
}

func (p partial) String() string {
	if p.isText {
		return p.text
	}
	return helpers.FormatNumber(p.number)
}

func (p partial) withPercent() partial {
	if p.isFinite() {
		return partial{defined: true, isText: true, text: helpers.FormatNumber(p.number) + "%"}
	}
	return p
}

func (c *Calculator) evaluate(text string) string {
	return strings.TrimPrefix(Evaluate(c.log, text, EvalOptions{}), "calc")
}

func joinSorted(values []string) string {
	return strings.Join(sortValues(values), " * ")
}

// Returns the folded product, or false if there was nothing to fold.
func (c *Calculator) Multiply() (string, bool) {
	var value []string
	var num partial

	if c.HasNum {
		num = numberPartial(1)
		for _, v := range c.NumMul {
			num.number *= v
			if !num.isFinite() || num.number == 0 {
				break
			}
		}
		if !c.HasPct && !c.HasDim && !c.HasEtc {
			value = append(value, num.String())
		}
	}

	if c.HasPct {
		if !c.HasNum {
			num = numberPartial(1)
		}
		for _, v := range c.PctMul {
			num.number *= v
			if !num.isFinite() || num.number == 0 {
				break
			}
		}
		num = num.withPercent()
		if !c.HasDim && !c.HasEtc {
			value = append(value, num.String())
		}
	}

	if c.HasDim {
		var mul, div string
		if len(c.DimMul) == 1 {
			mul = c.DimMul[0]
		} else if len(c.DimMul) > 1 {
			mul = joinSorted(c.DimMul)
		}
		if len(c.DimDiv) == 1 {
			div = c.DimDiv[0]
		} else if len(c.DimDiv) > 1 {
			div = joinSorted(c.DimDiv)
		}
		divisor := div
		if strings.Contains(div, "*") {
			divisor = "(" + div + ")"
		}

		if num.isFinite() {
			var dim string
			switch {
			case mul != "" && div != "":
				dim = c.evaluate("calc(" + num.String() + " * " + mul + " / " + divisor + ")")
			case mul != "":
				dim = c.evaluate("calc(" + num.String() + " * " + mul + ")")
			default:
				dim = c.evaluate("calc(" + num.String() + " / " + divisor + ")")
			}
			value = append(value, dim)
		} else {
			if len(value) == 0 && num.defined {
				value = append(value, num.String())
			}
			if mul != "" {
				var dim string
				if div != "" {
					dim = c.evaluate("calc(" + mul + " / " + divisor + ")")
				} else {
					dim = c.evaluate("calc(" + mul + ")")
				}
				if len(value) > 0 {
					value = append(value, "*")
				}
				value = append(value, dim)
			} else {
				dim := c.evaluate("calc(" + div + ")")
				if len(value) > 0 {
					value = append(value, "/", dim)
				} else {
					value = append(value, "1", "/", dim)
				}
			}
		}
	}

	if c.HasEtc {
		if len(value) == 0 && num.defined {
			value = append(value, num.String())
		}
		if len(c.EtcMul) > 0 {
			mul := joinSorted(c.EtcMul)
			if len(value) > 0 {
				value = append(value, "* "+mul)
			} else {
				value = append(value, mul)
			}
		}
		if len(c.EtcDiv) > 0 {
			div := joinSorted(c.EtcDiv)
			if strings.Contains(div, "*") {
				div = "(" + div + ")"
			}
			if len(value) > 0 {
				value = append(value, "/ "+div)
			} else {
				value = append(value, "1 / "+div)
			}
		}
	}

	result := strings.Join(value, " ")
	return result, result != ""
}

func parenthesizeTerms(values []string) string {
	sorted := sortValues(values)
	for i, item := range sorted {
		if operatorRegexp.MatchString(item) && !strings.HasPrefix(item, "(") && !strings.HasSuffix(item, ")") {
			sorted[i] = "(" + item + ")"
		}
	}
	return strings.Join(sorted, " + ")
}

// Returns the folded sum, or false if there was nothing to fold.
func (c *Calculator) Sum() (string, bool) {
	var value []string

	if c.HasNum {
		num := numberPartial(0)
		for _, v := range c.NumSum {
			num.number += v
			if !num.isFinite() {
				break
			}
		}
		value = append(value, num.String())
	}

	if c.HasPct {
		num := numberPartial(0)
		for _, v := range c.PctSum {
			num.number += v
			if !num.isFinite() {
				break
			}
		}
		num = num.withPercent()
		if len(value) > 0 {
			value = append(value, "+ "+num.String())
		} else {
			value = append(value, num.String())
		}
	}

	if c.HasDim {
		sum := strings.Join(c.DimSum, " + ")
		sub := strings.Join(c.DimSub, " + ")
		if strings.Contains(sub, "-") {
			sub = "(" + sub + ")"
		}
		var dim string
		switch {
		case sum != "" && sub != "":
			dim = c.evaluate("calc(" + sum + " - " + sub + ")")
		case sum != "":
			dim = c.evaluate("calc(" + sum + ")")
		default:
			dim = c.evaluate("calc(-1 * (" + strings.Join(c.DimSub, " + ") + "))")
		}
		if len(value) > 0 {
			value = append(value, "+")
		}
		value = append(value, dim)
	}

	if c.HasEtc {
		if len(c.EtcSum) > 0 {
			sum := parenthesizeTerms(c.EtcSum)
			switch {
			case len(value) > 0 && len(c.EtcSum) > 1:
				value = append(value, "+ ("+sum+")")
			case len(value) > 0:
				value = append(value, "+ "+sum)
			default:
				value = append(value, sum)
			}
		}
		if len(c.EtcSub) > 0 {
			sub := parenthesizeTerms(c.EtcSub)
			switch {
			case len(value) > 0 && len(c.EtcSub) > 1:
				value = append(value, "- ("+sub+")")
			case len(value) > 0:
				value = append(value, "- "+sub)
			case len(c.EtcSub) > 1:
				value = append(value, "-1 * ("+sub+")")
			default:
				value = append(value, "-1 * "+sub)
			}
		}
	}

	result := strings.Join(value, " ")
	return result, result != ""
}

// Dimensions and percentages are ordered by unit and then by value. Anything
// else is ordered by its text.
func sortValues(values []string) []string {
	sorted := append([]string(nil), values...)
	sort.SliceStable(sorted, func(i int, j int) bool {
		a, b := sorted[i], sorted[j]
		matchA, matchB := dimPctRegexp.FindStringSubmatch(a), dimPctRegexp.FindStringSubmatch(b)
		if matchA != nil && matchB != nil {
			if matchA[2] != matchB[2] {
				return matchA[2] < matchB[2]
			}
			valueA, _ := strconv.ParseFloat(matchA[1], 64)
			valueB, _ := strconv.ParseFloat(matchB[1], 64)
			return valueA < valueB
		}
		return a < b
	})
	return sorted
}

// Returns the value of a term that is a plain finite number.
func finiteNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, true
	}
	if !numberRegexp.MatchString(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Sorts the product terms. "divide" means the term follows a "/".
func (c *Calculator) addFactor(value string, divide bool) {
	if v, ok := finiteNumber(value); ok {
		c.HasNum = true
		if divide {
			c.NumMul = append(c.NumMul, 1/v)
		} else {
			c.NumMul = append(c.NumMul, v)
		}
	} else if match := pctRegexp.FindStringSubmatch(value); match != nil {
		v, _ := strconv.ParseFloat(match[1], 64)
		c.HasPct = true
		if divide {
			c.PctMul = append(c.PctMul, 100*100/v)
		} else {
			c.PctMul = append(c.PctMul, v)
		}
	} else if dimRegexp.MatchString(value) {
		c.HasDim = true
		if divide {
			c.DimDiv = append(c.DimDiv, value)
		} else {
			c.DimMul = append(c.DimMul, value)
		}
	} else {
		c.HasEtc = true
		if divide {
			c.EtcDiv = append(c.EtcDiv, value)
		} else {
			c.EtcMul = append(c.EtcMul, value)
		}
	}
}

// Sorts the sum terms. "subtract" means the term follows a "-".
func (c *Calculator) addTerm(value string, subtract bool) {
	if v, ok := finiteNumber(value); ok {
		c.HasNum = true
		if subtract {
			v = -v
		}
		c.NumSum = append(c.NumSum, v)
	} else if match := pctRegexp.FindStringSubmatch(value); match != nil {
		v, _ := strconv.ParseFloat(match[1], 64)
		c.HasPct = true
		if subtract {
			v = -v
		}
		c.PctSum = append(c.PctSum, v)
	} else if dimRegexp.MatchString(value) {
		c.HasDim = true
		if subtract {
			c.DimSub = append(c.DimSub, value)
		} else {
			c.DimSum = append(c.DimSum, value)
		}
	} else {
		c.HasEtc = true
		if subtract {
			c.EtcSub = append(c.EtcSub, value)
		} else {
			c.EtcSum = append(c.EtcSum, value)
		}
	}
}
