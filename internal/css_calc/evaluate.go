package css_calc

import (
	"math"
	"sort"
	"strings"

	"github.com/evanw/csscolor/internal/css_lexer"
	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
)

// EvalOptions extend the math functions with the names a relative color
// binds. Percentages stay percentages unless a basis is given, in which case
// "100%" is the basis itself.
type EvalOptions struct {
	Bindings     map[string]float64
	PercentBasis float64
}

// Value is a resolved math expression: a number, a percentage ("%") or a
// dimension in its canonical unit.
type Value struct {
	Number float64
	Unit   string
}

func (v Value) String() string {
	n := v.Number
	switch {
	case math.IsNaN(n):
		return wrapNonFinite("NaN", v.Unit)
	case math.IsInf(n, 1):
		return wrapNonFinite("infinity", v.Unit)
	case math.IsInf(n, -1):
		return wrapNonFinite("-infinity", v.Unit)
	}
	return helpers.FormatNumber(n) + v.Unit
}

func wrapNonFinite(keyword string, unit string) string {
	if unit == "" {
		return "calc(" + keyword + ")"
	}
	return "calc(" + keyword + " * 1" + unit + ")"
}

type canonicalUnit struct {
	unit string
	mul  float64
	div  float64
}

// Units that convert to another unit at a fixed ratio. Everything else (font
// and viewport relative lengths, flex, ...) is kept as written.
var canonicalUnits = map[string]canonicalUnit{
	"px": {"px", 1, 1},
	"cm": {"px", 96, 2.54},
	"mm": {"px", 96, 25.4},
	"q":  {"px", 96, 101.6},
	"in": {"px", 96, 1},
	"pc": {"px", 16, 1},
	"pt": {"px", 96, 72},

	"deg":  {"deg", 1, 1},
	"grad": {"deg", 9, 10},
	"rad":  {"deg", 180, math.Pi},
	"turn": {"deg", 360, 1},

	"s":  {"s", 1, 1},
	"ms": {"s", 1, 1000},

	"hz":  {"hz", 1, 1},
	"khz": {"hz", 1000, 1},

	"dppx": {"dppx", 1, 1},
	"x":    {"dppx", 1, 1},
	"dpi":  {"dppx", 1, 96},
	"dpcm": {"dppx", 2.54, 96},
}

var constants = map[string]float64{
	"e":         math.E,
	"pi":        math.Pi,
	"infinity":  math.Inf(1),
	"-infinity": math.Inf(-1),
	"nan":       math.NaN(),
}

type unitPower struct {
	unit  string
	power int
}

// A numeric value along with its type. Multiplying two lengths makes a
// length squared, which can't be serialized but may be divided back down.
type quantity struct {
	value float64
	units []unitPower
}

func sameUnits(a []unitPower, b []unitPower) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func combineUnits(a []unitPower, b []unitPower, sign int) []unitPower {
	if len(b) == 0 {
		return a
	}
	powers := make(map[string]int)
	for _, u := range a {
		powers[u.unit] += u.power
	}
	for _, u := range b {
		powers[u.unit] += sign * u.power
	}
	var out []unitPower
	for unit, power := range powers {
		if power != 0 {
			out = append(out, unitPower{unit: unit, power: power})
		}
	}
	sort.Slice(out, func(i int, j int) bool { return out[i].unit < out[j].unit })
	return out
}

func (q quantity) isNumber() bool {
	return len(q.units) == 0
}

func (q quantity) isAngle() bool {
	return len(q.units) == 1 && q.units[0] == unitPower{unit: "deg", power: 1}
}

func (q quantity) toValue() (Value, bool) {
	switch len(q.units) {
	case 0:
		return Value{Number: q.value}, true
	case 1:
		if q.units[0].power == 1 {
			return Value{Number: q.value, Unit: q.units[0].unit}, true
		}
	}
	return Value{}, false
}

func number(v float64) quantity {
	return quantity{value: v}
}

func angle(deg float64) quantity {
	return quantity{value: deg, units: []unitPower{{unit: "deg", power: 1}}}
}

func sameTypes(args []quantity) bool {
	for _, arg := range args[1:] {
		if !sameUnits(args[0].units, arg.units) {
			return false
		}
	}
	return true
}

// See: https://www.w3.org/TR/css-values-4/#calc-internal
type calcTerm interface {
	evaluate(options *EvalOptions) (quantity, bool)
}

type calcSum struct {
	terms []calcTerm
}

type calcProduct struct {
	terms []calcTerm
}

type calcNegate struct {
	term calcTerm
}

type calcInvert struct {
	term calcTerm
}

type calcNumeric struct {
	number float64
	unit   string
}

type calcIdent struct {
	name string
}

type calcFunction struct {
	name     string
	strategy string
	args     []calcTerm
}

func (c *calcSum) evaluate(options *EvalOptions) (quantity, bool) {
	result, ok := c.terms[0].evaluate(options)
	if !ok {
		return quantity{}, false
	}
	for _, term := range c.terms[1:] {
		sign := 1.0
		if negate, ok := term.(*calcNegate); ok {
			sign = -1
			term = negate.term
		}
		next, ok := term.evaluate(options)
		if !ok || !sameUnits(result.units, next.units) {
			return quantity{}, false
		}
		result.value = helpers.NewF64(result.value).Add(helpers.NewF64(next.value).MulConst(sign)).Value()
	}
	return result, true
}

func (c *calcProduct) evaluate(options *EvalOptions) (quantity, bool) {
	result, ok := c.terms[0].evaluate(options)
	if !ok {
		return quantity{}, false
	}
	for _, term := range c.terms[1:] {
		if invert, ok := term.(*calcInvert); ok {
			next, ok := invert.term.evaluate(options)
			if !ok {
				return quantity{}, false
			}
			result.value /= next.value
			result.units = combineUnits(result.units, next.units, -1)
			continue
		}
		next, ok := term.evaluate(options)
		if !ok {
			return quantity{}, false
		}
		result.value *= next.value
		result.units = combineUnits(result.units, next.units, 1)
	}
	return result, true
}

func (c *calcNegate) evaluate(options *EvalOptions) (quantity, bool) {
	result, ok := c.term.evaluate(options)
	result.value = -result.value
	return result, ok
}

func (c *calcInvert) evaluate(options *EvalOptions) (quantity, bool) {
	result, ok := c.term.evaluate(options)
	result.value = 1 / result.value
	result.units = combineUnits(nil, result.units, -1)
	return result, ok
}

func (c *calcNumeric) evaluate(options *EvalOptions) (quantity, bool) {
	switch c.unit {
	case "":
		return number(c.number), true
	case "%":
		if options.PercentBasis != 0 {
			return number(c.number * options.PercentBasis / 100), true
		}
	}
	return quantity{value: c.number, units: []unitPower{{unit: c.unit, power: 1}}}, true
}

func (c *calcIdent) evaluate(options *EvalOptions) (quantity, bool) {
	if v, ok := constants[c.name]; ok {
		return number(v), true
	}
	if v, ok := options.Bindings[c.name]; ok {
		return number(v), true
	}
	return quantity{}, false
}

func (c *calcFunction) evaluate(options *EvalOptions) (quantity, bool) {
	args := make([]quantity, len(c.args))
	for i, arg := range c.args {
		v, ok := arg.evaluate(options)
		if !ok {
			return quantity{}, false
		}
		args[i] = v
	}

	switch c.name {
	case "calc":
		if len(args) == 1 {
			return args[0], true
		}

	case "min", "max":
		if !sameTypes(args) {
			break
		}
		result := args[0]
		for _, arg := range args[1:] {
			if c.name == "min" {
				result.value = math.Min(result.value, arg.value)
			} else {
				result.value = math.Max(result.value, arg.value)
			}
		}
		return result, true

	case "clamp":
		if len(args) == 3 && sameTypes(args) {
			result := args[1]
			result.value = math.Max(args[0].value, math.Min(args[1].value, args[2].value))
			return result, true
		}

	case "round":
		if len(args) == 1 && args[0].isNumber() {
			args = append(args, number(1))
		}
		if len(args) == 2 && sameTypes(args) {
			result := args[0]
			result.value = roundToInterval(c.strategy, args[0].value, args[1].value)
			return result, true
		}

	case "mod", "rem":
		if len(args) == 2 && sameTypes(args) {
			result := args[0]
			if c.name == "mod" {
				result.value = modulus(args[0].value, args[1].value)
			} else {
				result.value = remainder(args[0].value, args[1].value)
			}
			return result, true
		}

	case "sin", "cos", "tan":
		if len(args) != 1 || !(args[0].isNumber() || args[0].isAngle()) {
			break
		}
		rad := args[0].value
		if args[0].isAngle() {
			rad = rad * math.Pi / 180
		}
		switch c.name {
		case "sin":
			return number(math.Sin(rad)), true
		case "cos":
			return number(math.Cos(rad)), true
		}
		return number(math.Tan(rad)), true

	case "asin", "acos", "atan":
		if len(args) != 1 || !args[0].isNumber() {
			break
		}
		switch c.name {
		case "asin":
			return angle(math.Asin(args[0].value) * 180 / math.Pi), true
		case "acos":
			return angle(math.Acos(args[0].value) * 180 / math.Pi), true
		}
		return angle(math.Atan(args[0].value) * 180 / math.Pi), true

	case "atan2":
		if len(args) == 2 && sameTypes(args) {
			return angle(math.Atan2(args[0].value, args[1].value) * 180 / math.Pi), true
		}

	case "pow":
		if len(args) == 2 && args[0].isNumber() && args[1].isNumber() {
			return number(math.Pow(args[0].value, args[1].value)), true
		}

	case "sqrt":
		if len(args) == 1 && args[0].isNumber() {
			return number(math.Sqrt(args[0].value)), true
		}

	case "exp":
		if len(args) == 1 && args[0].isNumber() {
			return number(math.Exp(args[0].value)), true
		}

	case "log":
		if len(args) == 1 && args[0].isNumber() {
			return number(math.Log(args[0].value)), true
		}
		if len(args) == 2 && args[0].isNumber() && args[1].isNumber() {
			return number(math.Log(args[0].value) / math.Log(args[1].value)), true
		}

	case "hypot":
		if !sameTypes(args) {
			break
		}
		sum := helpers.NewF64(0)
		for _, arg := range args {
			sum = sum.Add(helpers.NewF64(arg.value).MulConst(arg.value))
		}
		result := args[0]
		result.value = sum.Sqrt().Value()
		return result, true

	case "abs":
		if len(args) == 1 {
			result := args[0]
			result.value = math.Abs(result.value)
			return result, true
		}

	case "sign":
		if len(args) == 1 {
			v := args[0].value
			switch {
			case v > 0:
				v = 1
			case v < 0:
				v = -1
			}
			return number(v), true
		}
	}

	return quantity{}, false
}

// See: https://www.w3.org/TR/css-values-4/#round-func
func roundToInterval(strategy string, a float64, b float64) float64 {
	b = math.Abs(b)
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if math.IsInf(a, 0) {
		if math.IsInf(b, 0) {
			return math.NaN()
		}
		return a
	}
	if math.IsInf(b, 0) {
		switch {
		case strategy == "up" && a > 0:
			return math.Inf(1)
		case strategy == "down" && a < 0:
			return math.Inf(-1)
		}
		return math.Copysign(0, a)
	}
	q := a / b
	switch strategy {
	case "up":
		q = math.Ceil(q)
	case "down":
		q = math.Floor(q)
	case "to-zero":
		q = math.Trunc(q)
	default:
		lower := math.Floor(q)
		if q-lower >= 0.5 {
			q = lower + 1
		} else {
			q = lower
		}
	}
	return q * b
}

// The result has the sign of "b".
func modulus(a float64, b float64) float64 {
	if b == 0 || math.IsInf(a, 0) {
		return math.NaN()
	}
	if math.IsInf(b, 0) {
		if a == 0 || (a > 0) == (b > 0) {
			return a
		}
		return math.NaN()
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// The result has the sign of "a".
func remainder(a float64, b float64) float64 {
	if b == 0 || math.IsInf(a, 0) {
		return math.NaN()
	}
	return math.Mod(a, b)
}

var mathFunctionNames = map[string]bool{
	"abs": true, "acos": true, "asin": true, "atan": true, "atan2": true,
	"calc": true, "clamp": true, "cos": true, "exp": true, "hypot": true,
	"log": true, "max": true, "min": true, "mod": true, "pow": true,
	"rem": true, "round": true, "sign": true, "sin": true, "sqrt": true,
	"tan": true,
}

var roundingStrategies = map[string]bool{
	"nearest": true, "up": true, "down": true, "to-zero": true,
}

// The parser walks a slice of tokens with whitespace and comments already
// removed. Every parse method returns nil when the expression isn't one that
// can be evaluated.
type parser struct {
	tokens   []css_lexer.Token
	contents string
	index    int
}

func (p *parser) current() css_lexer.Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}
	return css_lexer.Token{Kind: css_lexer.TEndOfFile}
}

func (p *parser) eat(kind css_lexer.T) bool {
	if p.current().Kind == kind {
		p.index++
		return true
	}
	return false
}

func (p *parser) parseSum() calcTerm {
	term := p.parseProduct()
	if term == nil {
		return nil
	}
	terms := []calcTerm{term}
	for {
		switch p.current().Kind {
		case css_lexer.TDelimPlus:
			p.index++
			next := p.parseProduct()
			if next == nil {
				return nil
			}
			terms = append(terms, next)

		case css_lexer.TDelimMinus:
			p.index++
			next := p.parseProduct()
			if next == nil {
				return nil
			}
			terms = append(terms, &calcNegate{term: next})

		default:
			if len(terms) == 1 {
				return terms[0]
			}
			return &calcSum{terms: terms}
		}
	}
}

func (p *parser) parseProduct() calcTerm {
	term := p.parseValue()
	if term == nil {
		return nil
	}
	terms := []calcTerm{term}
	for {
		switch p.current().Kind {
		case css_lexer.TDelimAsterisk:
			p.index++
			next := p.parseValue()
			if next == nil {
				return nil
			}
			terms = append(terms, next)

		case css_lexer.TDelimSlash:
			p.index++
			next := p.parseValue()
			if next == nil {
				return nil
			}
			terms = append(terms, &calcInvert{term: next})

		default:
			if len(terms) == 1 {
				return terms[0]
			}
			return &calcProduct{terms: terms}
		}
	}
}

func (p *parser) parseValue() calcTerm {
	token := p.current()
	p.index++

	switch token.Kind {
	case css_lexer.TNumber:
		return &calcNumeric{number: token.Value(p.contents)}

	case css_lexer.TPercentage:
		return &calcNumeric{number: token.Value(p.contents), unit: "%"}

	case css_lexer.TDimension:
		value, unit := token.Value(p.contents), token.Unit(p.contents)
		if canonical, ok := canonicalUnits[unit]; ok {
			value, unit = value*canonical.mul/canonical.div, canonical.unit
		}
		return &calcNumeric{number: value, unit: unit}

	case css_lexer.TIdent:
		return &calcIdent{name: strings.ToLower(token.DecodedText(p.contents))}

	case css_lexer.TOpenParen:
		term := p.parseSum()
		if term == nil || !p.eat(css_lexer.TCloseParen) {
			return nil
		}
		return term

	case css_lexer.TFunction:
		name := strings.ToLower(token.DecodedText(p.contents))
		if !mathFunctionNames[name] {
			return nil
		}
		return p.parseFunctionArgs(name)
	}

	return nil
}

func (p *parser) parseFunctionArgs(name string) calcTerm {
	fn := &calcFunction{name: name}

	// "round(<rounding-strategy>, A, B)"
	if name == "round" {
		if token := p.current(); token.Kind == css_lexer.TIdent && p.index+1 < len(p.tokens) && p.tokens[p.index+1].Kind == css_lexer.TComma {
			if strategy := strings.ToLower(token.DecodedText(p.contents)); roundingStrategies[strategy] {
				fn.strategy = strategy
				p.index += 2
			}
		}
	}

	for {
		arg := p.parseSum()
		if arg == nil {
			return nil
		}
		fn.args = append(fn.args, arg)
		if p.eat(css_lexer.TComma) {
			continue
		}
		if !p.eat(css_lexer.TCloseParen) {
			return nil
		}
		return fn
	}
}

func significantTokens(tokens []css_lexer.Token) []css_lexer.Token {
	out := make([]css_lexer.Token, 0, len(tokens))
	for _, token := range tokens {
		if token.Kind != css_lexer.TWhitespace && token.Kind != css_lexer.TComment {
			out = append(out, token)
		}
	}
	return out
}

func tokenize(log logger.Log, text string) []css_lexer.Token {
	return css_lexer.Tokenize(log, logger.Source{PrettyPath: "<value>", Contents: text})
}

// Returns the index of the token that closes the block opened at "start".
func matchingCloseParen(tokens []css_lexer.Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case css_lexer.TFunction, css_lexer.TOpenParen:
			depth++
		case css_lexer.TCloseParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func evaluateTokens(tokens []css_lexer.Token, contents string, options *EvalOptions) (Value, bool) {
	p := parser{tokens: significantTokens(tokens), contents: contents}
	term := p.parseSum()
	if term == nil || p.index != len(p.tokens) {
		return Value{}, false
	}
	q, ok := term.evaluate(options)
	if !ok {
		return Value{}, false
	}
	return q.toValue()
}

// Evaluate replaces every math function in the text with its value. Units
// are converted to their canonical unit first, so "calc(1in + 1px)" becomes
// "97px". A math function that can't be resolved, for example because it
// adds a length to a percentage, is left as written.
func Evaluate(log logger.Log, text string, options EvalOptions) string {
	tokens := tokenize(log, text)
	sb := strings.Builder{}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token.Kind == css_lexer.TFunction && mathFunctionNames[strings.ToLower(token.DecodedText(text))] {
			end := matchingCloseParen(tokens, i)
			if end == -1 {
				sb.WriteString(text[token.Range.Loc.Start:])
				break
			}
			if v, ok := evaluateTokens(tokens[i:end+1], text, &options); ok {
				sb.WriteString(v.String())
			} else {
				sb.WriteString(text[token.Range.Loc.Start:tokens[end].Range.End()])
			}
			i = end
			continue
		}
		sb.WriteString(token.Raw(text))
	}

	return sb.String()
}

// EvaluateValue resolves a single expression such as "calc(r + 10)", "50%"
// or "h" to a value. It fails if anything is left over.
func EvaluateValue(log logger.Log, text string, options EvalOptions) (Value, bool) {
	tokens := tokenize(log, text)
	if len(tokens) == 0 {
		return Value{}, false
	}
	return evaluateTokens(tokens, text, &options)
}
