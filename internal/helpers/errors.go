package helpers

import "fmt"

type ErrorKind uint8

const (
	KindError ErrorKind = iota
	KindTypeError
	KindRangeError
	KindSyntaxError
)

func (kind ErrorKind) String() string {
	switch kind {
	case KindTypeError:
		return "TypeError"
	case KindRangeError:
		return "RangeError"
	case KindSyntaxError:
		return "SyntaxError"
	}
	return "Error"
}

// Error is returned for programmer errors at a call site (wrong shapes,
// non-finite numbers, out-of-range components) and for contract violations
// such as an unresolved "var()" reaching the calc stage. Invalid colors are
// never reported this way; they produce a sentinel value instead.
type Error struct {
	Kind ErrorKind
	Text string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Text
}

func NewError(format string, args ...interface{}) error {
	return &Error{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

func NewTypeError(format string, args ...interface{}) error {
	return &Error{Kind: KindTypeError, Text: fmt.Sprintf(format, args...)}
}

func NewRangeError(format string, args ...interface{}) error {
	return &Error{Kind: KindRangeError, Text: fmt.Sprintf(format, args...)}
}

func NewSyntaxError(format string, args ...interface{}) error {
	return &Error{Kind: KindSyntaxError, Text: fmt.Sprintf(format, args...)}
}

// ErrTooDeeplyNested is returned when nested "var()", relative colors or
// "color-mix()" exceed the configured recursion depth.
var ErrTooDeeplyNested = &Error{Kind: KindRangeError, Text: "Color value is too deeply nested."}

// ErrUnexpectedVar is returned when "var()" reaches a stage that requires it
// to have been resolved already.
var ErrUnexpectedVar = &Error{Kind: KindSyntaxError, Text: "Unexpected token var( found."}

// DefaultMaxDepth is the recursion ceiling used when none is configured.
const DefaultMaxDepth = 32
