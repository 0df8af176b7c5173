package css_lexer

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/evanw/csscolor/internal/helpers"
	"github.com/evanw/csscolor/internal/logger"
)

// The lexer splits a single component value (the right-hand side of a color
// declaration) into tokens. Everything that can't appear in a value, such as
// braces, at-rules and "url()" tokens, is reported as a plain delimiter.
// Comments are kept as tokens since callers need to skip them explicitly
// when rebuilding the text of an expression.

type T uint8

const eof = -1
const replacementCharacter = 0xFFFD

const (
	TEndOfFile T = iota

	TBadString
	TCloseParen
	TComma
	TComment
	TDelim
	TDelimAsterisk
	TDelimMinus
	TDelimPlus
	TDelimSlash
	TDimension
	TFunction
	THash
	TIdent
	TNumber
	TOpenParen
	TPercentage
	TString
	TWhitespace
)

var tokenToString = []string{
	"end of file",
	"bad string token",
	"\")\"",
	"\",\"",
	"comment",
	"delimiter",
	"\"*\"",
	"\"-\"",
	"\"+\"",
	"\"/\"",
	"dimension",
	"function token",
	"hash token",
	"identifier",
	"number",
	"\"(\"",
	"percentage",
	"string token",
	"whitespace",
}

func (t T) String() string {
	return tokenToString[t]
}

// This token struct is designed to be memory-efficient. It just references a
// range in the input value instead of directly containing the substring of
// text since a range takes up less memory than a string.
type Token struct {
	Range      logger.Range // 8 bytes
	UnitOffset uint16       // 2 bytes
	Kind       T            // 1 byte
}

// Raw returns the exact slice of the input covered by this token.
func (token Token) Raw(contents string) string {
	return contents[token.Range.Loc.Start:token.Range.End()]
}

func (token Token) DecodedText(contents string) string {
	raw := token.Raw(contents)

	switch token.Kind {
	case TIdent, TDimension:
		return decodeEscapesInToken(raw)

	case THash:
		return decodeEscapesInToken(raw[1:])

	case TFunction:
		return decodeEscapesInToken(raw[:len(raw)-1])

	case TString:
		return decodeEscapesInToken(raw[1 : len(raw)-1])
	}

	return raw
}

// Value returns the numeric part of a number, percentage or dimension token
// and NaN for everything else.
func (token Token) Value(contents string) float64 {
	raw := token.Raw(contents)

	switch token.Kind {
	case TNumber:
		return helpers.ParseNumberPrefix(raw)

	case TPercentage:
		return helpers.ParseNumberPrefix(raw[:len(raw)-1])

	case TDimension:
		return helpers.ParseNumberPrefix(raw[:token.UnitOffset])
	}

	return math.NaN()
}

// Unit returns the lower-case unit of a dimension token, "%" for a
// percentage and "" otherwise.
func (token Token) Unit(contents string) string {
	switch token.Kind {
	case TPercentage:
		return "%"

	case TDimension:
		return strings.ToLower(decodeEscapesInToken(token.Raw(contents)[token.UnitOffset:]))
	}

	return ""
}

type lexer struct {
	log       logger.Log
	source    logger.Source
	current   int
	codePoint rune
	Token     Token
}

func Tokenize(log logger.Log, source logger.Source) (tokens []Token) {
	lexer := lexer{
		log:    log,
		source: source,
	}
	lexer.step()
	lexer.next()
	for lexer.Token.Kind != TEndOfFile {
		tokens = append(tokens, lexer.Token)
		lexer.next()
	}
	return
}

func (lexer *lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the value
	if width == 0 {
		codePoint = eof
	}

	lexer.codePoint = codePoint
	lexer.Token.Range.Len = int32(lexer.current) - lexer.Token.Range.Loc.Start
	lexer.current += width
}

func (lexer *lexer) next() {
	// Reference: https://www.w3.org/TR/css-syntax-3/

	lexer.Token.Range = logger.Range{Loc: logger.Loc{Start: lexer.Token.Range.End()}}
	lexer.Token.UnitOffset = 0

	switch lexer.codePoint {
	case eof:
		lexer.Token.Kind = TEndOfFile

	case '/':
		lexer.step()
		if lexer.codePoint == '*' {
			lexer.step()
			lexer.consumeToEndOfMultiLineComment()
			lexer.Token.Kind = TComment
		} else {
			lexer.Token.Kind = TDelimSlash
		}

	case ' ', '\t', '\n', '\r', '\f':
		lexer.step()
		for isWhitespace(lexer.codePoint) {
			lexer.step()
		}
		lexer.Token.Kind = TWhitespace

	case '"', '\'':
		lexer.Token.Kind = lexer.consumeString()

	case '#':
		lexer.step()
		if IsNameContinue(lexer.codePoint) || lexer.isValidEscape() {
			lexer.Token.Kind = THash
			lexer.consumeName()
		} else {
			lexer.Token.Kind = TDelim
		}

	case '(':
		lexer.step()
		lexer.Token.Kind = TOpenParen

	case ')':
		lexer.step()
		lexer.Token.Kind = TCloseParen

	case ',':
		lexer.step()
		lexer.Token.Kind = TComma

	case '*':
		lexer.step()
		lexer.Token.Kind = TDelimAsterisk

	case '+':
		if lexer.wouldStartNumber() {
			lexer.Token.Kind = lexer.consumeNumeric()
		} else {
			lexer.step()
			lexer.Token.Kind = TDelimPlus
		}

	case '.':
		if lexer.wouldStartNumber() {
			lexer.Token.Kind = lexer.consumeNumeric()
		} else {
			lexer.step()
			lexer.Token.Kind = TDelim
		}

	case '-':
		if lexer.wouldStartNumber() {
			lexer.Token.Kind = lexer.consumeNumeric()
		} else if lexer.wouldStartIdentifier() {
			lexer.Token.Kind = lexer.consumeIdentLike()
		} else {
			lexer.step()
			lexer.Token.Kind = TDelimMinus
		}

	case '\\':
		if lexer.isValidEscape() {
			lexer.Token.Kind = lexer.consumeIdentLike()
		} else {
			lexer.step()
			lexer.log.AddWarning(&lexer.source, lexer.Token.Range, "Invalid escape")
			lexer.Token.Kind = TDelim
		}

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		lexer.Token.Kind = lexer.consumeNumeric()

	default:
		if IsNameStart(lexer.codePoint) {
			lexer.Token.Kind = lexer.consumeIdentLike()
		} else {
			lexer.step()
			lexer.Token.Kind = TDelim
		}
	}
}

func (lexer *lexer) consumeToEndOfMultiLineComment() {
	startRange := logger.Range{Loc: lexer.Token.Range.Loc, Len: 2}

	for {
		switch lexer.codePoint {
		case '*':
			lexer.step()
			if lexer.codePoint == '/' {
				lexer.step()
				return
			}

		case eof:
			lexer.log.AddWarning(&lexer.source, startRange, "Expected \"*/\" to terminate multi-line comment")
			return

		default:
			lexer.step()
		}
	}
}

func (lexer *lexer) isValidEscape() bool {
	if lexer.codePoint != '\\' {
		return false
	}
	c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
	return !isNewline(c)
}

func (lexer *lexer) wouldStartIdentifier() bool {
	if IsNameStart(lexer.codePoint) {
		return true
	}

	if lexer.codePoint == '-' {
		if lexer.current >= len(lexer.source.Contents) {
			return false
		}
		c, w := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
		if IsNameStart(c) || c == '-' {
			return true
		}
		if c == '\\' {
			c, _ = utf8.DecodeRuneInString(lexer.source.Contents[lexer.current+w:])
			return !isNewline(c)
		}
		return false
	}

	return lexer.isValidEscape()
}

func (lexer *lexer) wouldStartNumber() bool {
	if lexer.codePoint >= '0' && lexer.codePoint <= '9' {
		return true
	} else if lexer.codePoint == '.' {
		contents := lexer.source.Contents
		if lexer.current < len(contents) {
			c := contents[lexer.current]
			return c >= '0' && c <= '9'
		}
	} else if lexer.codePoint == '+' || lexer.codePoint == '-' {
		contents := lexer.source.Contents
		n := len(contents)
		if lexer.current < n {
			c := contents[lexer.current]
			if c >= '0' && c <= '9' {
				return true
			}
			if c == '.' && lexer.current+1 < n {
				c = contents[lexer.current+1]
				return c >= '0' && c <= '9'
			}
		}
	}
	return false
}

func (lexer *lexer) consumeName() {
	for {
		if IsNameContinue(lexer.codePoint) {
			lexer.step()
		} else if lexer.isValidEscape() {
			lexer.consumeEscape()
		} else {
			return
		}
	}
}

func (lexer *lexer) consumeEscape() {
	lexer.step() // Skip the backslash

	if _, ok := isHex(lexer.codePoint); ok {
		lexer.step()
		for i := 0; i < 5; i++ {
			if _, ok := isHex(lexer.codePoint); !ok {
				break
			}
			lexer.step()
		}
		if isWhitespace(lexer.codePoint) {
			lexer.step()
		}
		return
	}

	if lexer.codePoint != eof {
		lexer.step()
	}
}

func (lexer *lexer) consumeIdentLike() T {
	lexer.consumeName()

	if lexer.codePoint == '(' {
		lexer.step()
		return TFunction
	}

	return TIdent
}

func (lexer *lexer) consumeString() T {
	quote := lexer.codePoint
	lexer.step()

	for {
		switch lexer.codePoint {
		case '\\':
			lexer.step()

			// Handle Windows CRLF
			if lexer.codePoint == '\r' {
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			}

			// Otherwise, fall through to ignore the character after the backslash

		case eof, '\n', '\r', '\f':
			lexer.log.AddWarning(&lexer.source, lexer.Token.Range, "Unterminated string token")
			return TBadString

		case quote:
			lexer.step()
			return TString
		}
		lexer.step()
	}
}

func (lexer *lexer) consumeNumeric() T {
	// Skip over leading sign
	if lexer.codePoint == '+' || lexer.codePoint == '-' {
		lexer.step()
	}

	// Skip over leading digits
	for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
		lexer.step()
	}

	// Skip over digits after dot
	if lexer.codePoint == '.' {
		contents := lexer.source.Contents
		if lexer.current < len(contents) && contents[lexer.current] >= '0' && contents[lexer.current] <= '9' {
			lexer.step()
			for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
				lexer.step()
			}
		}
	}

	// Skip over exponent
	if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
		contents := lexer.source.Contents

		// Look ahead before advancing to make sure this is an exponent, not a unit
		if lexer.current < len(contents) {
			c := contents[lexer.current]
			if (c == '+' || c == '-') && lexer.current+1 < len(contents) {
				c = contents[lexer.current+1]
			}

			// Only consume this if it's an exponent
			if c >= '0' && c <= '9' {
				lexer.step()
				if lexer.codePoint == '+' || lexer.codePoint == '-' {
					lexer.step()
				}
				for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
					lexer.step()
				}
			}
		}
	}

	// Determine the numeric type
	if lexer.wouldStartIdentifier() {
		lexer.Token.UnitOffset = uint16(lexer.Token.Range.Len)
		lexer.consumeName()
		return TDimension
	}
	if lexer.codePoint == '%' {
		lexer.step()
		return TPercentage
	}
	return TNumber
}

func IsNameStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func IsNameContinue(c rune) bool {
	return IsNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isNewline(c rune) bool {
	switch c {
	case '\n', '\r', '\f':
		return true
	}
	return false
}

func isWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isHex(c rune) (int, bool) {
	if c >= '0' && c <= '9' {
		return int(c - '0'), true
	}
	if c >= 'a' && c <= 'f' {
		return int(c + (10 - 'a')), true
	}
	if c >= 'A' && c <= 'F' {
		return int(c + (10 - 'A')), true
	}
	return 0, false
}

func decodeEscapesInToken(inner string) string {
	i := strings.IndexByte(inner, '\\')
	if i == -1 {
		return inner
	}

	sb := strings.Builder{}
	sb.WriteString(inner[:i])
	inner = inner[i:]

	for len(inner) > 0 {
		c, width := utf8.DecodeRuneInString(inner)
		inner = inner[width:]

		if c != '\\' {
			sb.WriteRune(c)
			continue
		}

		if len(inner) == 0 {
			sb.WriteRune(replacementCharacter)
			continue
		}

		c, width = utf8.DecodeRuneInString(inner)
		inner = inner[width:]
		hex, ok := isHex(c)

		if !ok {
			if c == '\n' || c == '\f' {
				continue
			}

			// Handle Windows CRLF
			if c == '\r' {
				c, width = utf8.DecodeRuneInString(inner)
				if c == '\n' {
					inner = inner[width:]
				}
				continue
			}

			// If we get here, this is not a valid escape. However, this is still
			// allowed. In this case the backslash is just ignored.
			sb.WriteRune(c)
			continue
		}

		// Parse up to five additional hex characters (so six in total)
		for i := 0; i < 5 && len(inner) > 0; i++ {
			c, width = utf8.DecodeRuneInString(inner)
			if next, ok := isHex(c); ok {
				inner = inner[width:]
				hex = hex*16 + next
			} else {
				break
			}
		}

		if len(inner) > 0 {
			c, width = utf8.DecodeRuneInString(inner)
			if isWhitespace(c) {
				inner = inner[width:]
			}
		}

		if hex == 0 || (hex >= 0xD800 && hex <= 0xDFFF) || hex > 0x10FFFF {
			sb.WriteRune(replacementCharacter)
			continue
		}

		sb.WriteRune(rune(hex))
	}

	return sb.String()
}
