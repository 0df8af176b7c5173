package logger

// Messages are reported against the color value that produced them. Each
// message carries the text of the value with the offending span marked, so
// a warning about "rgb(1 2 3 / ?)" points at the "?" and not just the value.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

func (level LogLevel) String() string {
	switch level {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSilent:
		return "silent"
	}
	return "none"
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
	Debug
	Verbose
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Verbose:
		return "verbose"
	}
	panic("Internal error")
}

// The log level at which a message of this kind stops being shown
func (kind MsgKind) level() LogLevel {
	switch kind {
	case Error:
		return LevelError
	case Warning:
		return LevelWarning
	case Info:
		return LevelInfo
	case Debug:
		return LevelDebug
	}
	return LevelVerbose
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// This is the 0-based index of this location from the start of the value, in bytes
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

// This type is just so we can use Go's native sort function
type msgsArray []Msg

func (a msgsArray) Len() int          { return len(a) }
func (a msgsArray) Swap(i int, j int) { a[i], a[j] = a[j], a[i] }

func (a msgsArray) Less(i int, j int) bool {
	ai := a[i]
	aj := a[j]
	li := ai.Location
	lj := aj.Location

	if (li == nil) != (lj == nil) {
		return li == nil
	}

	if li != nil {
		if li.File != lj.File {
			return li.File < lj.File
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		if li.Length != lj.Length {
			return li.Length < lj.Length
		}
	}

	if ai.Kind != aj.Kind {
		return ai.Kind < aj.Kind
	}
	return ai.Text < aj.Text
}

// A source is one color value handed to the engine. Values read from a
// config file or from stdin carry that name in "PrettyPath" so messages can
// say where the value came from.
type Source struct {
	Index      uint32
	PrettyPath string
	Contents   string
}

// RangeOfNumber returns the extent of the numeric token starting at "loc",
// including any unit that follows it.
func (s *Source) RangeOfNumber(loc Loc) (r Range) {
	text := s.Contents[loc.Start:]
	r = Range{Loc: loc, Len: 0}

	if len(text) > 0 {
		if c := text[0]; (c >= '0' && c <= '9') || c == '.' || c == '+' || c == '-' {
			r.Len = 1
			for int(r.Len) < len(text) {
				c := text[r.Len]
				if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '.' && c != '%' {
					break
				}
				r.Len++
			}
		}
	}
	return
}

func plural(prefix string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, prefix)
	}
	return fmt.Sprintf("%d %ss", count, prefix)
}

func errorAndWarningSummary(errors int, warnings int) string {
	switch {
	case errors == 0:
		return plural("warning", warnings)
	case warnings == 0:
		return plural("error", errors)
	default:
		return fmt.Sprintf("%s and %s",
			plural("warning", warnings),
			plural("error", errors))
	}
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

type Colors struct {
	Reset     string
	Bold      string
	Dim       string
	Underline string

	Red     string
	Green   string
	Blue    string
	Cyan    string
	Magenta string
	Yellow  string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	Dim:       "\033[37m",
	Underline: "\033[4m",

	Red:     "\033[31m",
	Green:   "\033[32m",
	Blue:    "\033[34m",
	Cyan:    "\033[36m",
	Magenta: "\033[35m",
	Yellow:  "\033[33m",
}

// HasColorEscapes reports whether stderr is a terminal that will render
// ANSI escapes. Tests use this to decide whether to color their diffs.
func HasColorEscapes() bool {
	return GetTerminalInfo(os.Stderr).UseColorEscapes
}

func hasNoColorEnvironmentVariable() bool {
	// https://no-color.org/
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type StderrOptions struct {
	IncludeSource bool
	Color         StderrColor
	LogLevel      LogLevel
}

func NewStderrLog(options StderrOptions) Log {
	var mutex sync.Mutex
	var msgs msgsArray
	terminalInfo := GetTerminalInfo(os.Stderr)
	errors := 0
	warnings := 0

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			switch msg.Kind {
			case Error:
				errors++
			case Warning:
				warnings++
			}
			if options.LogLevel <= msg.Kind.level() {
				writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return errors > 0
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()

			// Print out a summary of what was reported
			if options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
				writeStringWithColor(os.Stderr, fmt.Sprintf("%s\n", errorAndWarningSummary(errors, warnings)))
			}

			sort.Stable(msgs)
			return msgs
		},
	}
}

func PrintErrorToStderr(osArgs []string, text string) {
	options := StderrOptions{IncludeSource: true}

	// Implement a mini argument parser so these options always work even if we
	// haven't yet gotten to the general-purpose argument parsing code
	for _, arg := range osArgs {
		switch arg {
		case "--color=false":
			options.Color = ColorNever
		case "--color=true":
			options.Color = ColorAlways
		case "--log-level=silent":
			options.LogLevel = LevelSilent
		}
	}

	log := NewStderrLog(options)
	log.AddMsg(Msg{Kind: Error, Text: text})
	log.Done()
}

// NewDeferLog collects messages without printing them. Messages more verbose
// than "level" are dropped on the floor.
func NewDeferLog(level LogLevel) Log {
	var msgs msgsArray
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			if level <= msg.Kind.level() {
				msgs = append(msgs, msg)
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}

func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	colors := Colors{}
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}

	kind := msg.Kind.String()
	kindColor := colors.Red
	switch msg.Kind {
	case Warning:
		kindColor = colors.Magenta
	case Info:
		kindColor = colors.Green
	case Debug, Verbose:
		kindColor = colors.Blue
	}

	if msg.Location == nil {
		return fmt.Sprintf("%s%s%s: %s%s%s%s\n",
			colors.Bold, kindColor, kind,
			colors.Reset, colors.Bold, msg.Text,
			colors.Reset)
	}

	if !options.IncludeSource {
		return fmt.Sprintf("%s%s: %s%s: %s%s%s%s\n",
			colors.Bold, msg.Location.File,
			kindColor, kind,
			colors.Reset, colors.Bold, msg.Text,
			colors.Reset)
	}

	d := detailStruct(msg, terminalInfo)
	return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s%s\n%s%s%s%s%s\n%s%s%s%s\n",
		colors.Bold, d.Path, d.Line, d.Column,
		kindColor, d.Kind,
		colors.Reset, colors.Bold, d.Message,
		colors.Reset, d.SourceBefore, colors.Green, d.SourceMarked, colors.Reset+d.SourceAfter,
		colors.Green, d.Indent, d.Marker, colors.Reset)
}

type MsgDetail struct {
	Path    string
	Line    int
	Column  int
	Kind    string
	Message string

	// Source == SourceBefore + SourceMarked + SourceAfter
	Source       string
	SourceBefore string
	SourceMarked string
	SourceAfter  string

	Indent string
	Marker string
}

func computeLineAndColumn(contents string, offset int) (lineCount int, columnCount int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}

	// Values come from config files and the command line, so only "\n" and
	// "\r\n" need to be handled
	for i := 0; i < offset; i++ {
		if contents[i] == '\n' {
			lineStart = i + 1
			lineCount++
		}
	}

	lineEnd = len(contents)
	if i := strings.IndexAny(contents[offset:], "\r\n"); i != -1 {
		lineEnd = offset + i
	}

	columnCount = offset - lineStart
	return
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}

	// Convert the index into a line and column number
	lineCount, columnCount, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))

	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     lineCount + 1, // 0-based to 1-based
		Column:   columnCount,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

func detailStruct(msg Msg, terminalInfo TerminalInfo) MsgDetail {
	loc := *msg.Location
	lineText := loc.LineText

	// Clamp values in range
	if loc.Column < 0 {
		loc.Column = 0
	}
	if loc.Column > len(lineText) {
		loc.Column = len(lineText)
	}
	if loc.Length < 0 {
		loc.Length = 0
	}
	if loc.Length > len(lineText)-loc.Column {
		loc.Length = len(lineText) - loc.Column
	}

	markerStart := loc.Column
	markerEnd := loc.Column + loc.Length

	// Trim the line to fit the terminal width
	width := terminalInfo.Width
	if width < 1 {
		width = 80
	}
	if len(lineText) > width {
		// Try to center the error
		sliceStart := (markerStart + markerEnd - width) / 2
		if sliceStart > markerStart-width/5 {
			sliceStart = markerStart - width/5
		}
		if sliceStart < 0 {
			sliceStart = 0
		}
		if sliceStart > len(lineText)-width {
			sliceStart = len(lineText) - width
		}
		sliceEnd := sliceStart + width

		slicedLine := lineText[sliceStart:sliceEnd]
		markerStart -= sliceStart
		markerEnd -= sliceStart
		if markerStart < 0 {
			markerStart = 0
		}
		if markerEnd > len(slicedLine) {
			markerEnd = len(slicedLine)
		}

		// Truncate the ends with "..."
		if len(slicedLine) > 3 && sliceStart > 0 {
			slicedLine = "..." + slicedLine[3:]
			if markerStart < 3 {
				markerStart = 3
			}
		}
		if len(slicedLine) > 3 && sliceEnd < len(lineText) {
			slicedLine = slicedLine[:len(slicedLine)-3] + "..."
			if markerEnd > len(slicedLine)-3 {
				markerEnd = len(slicedLine) - 3
			}
		}
		if markerEnd < markerStart {
			markerEnd = markerStart
		}
		lineText = slicedLine
	}

	marker := "^"
	if markerEnd-markerStart > 1 {
		marker = strings.Repeat("~", markerEnd-markerStart)
	}

	return MsgDetail{
		Path:    loc.File,
		Line:    loc.Line,
		Column:  loc.Column,
		Kind:    msg.Kind.String(),
		Message: msg.Text,

		Source:       lineText,
		SourceBefore: lineText[:markerStart],
		SourceMarked: lineText[markerStart:markerEnd],
		SourceAfter:  lineText[markerEnd:],

		Indent: strings.Repeat(" ", markerStart),
		Marker: marker,
	}
}

func (log Log) AddError(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddWarning(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Location: LocationOrNil(source, r)})
}

// AddDebug is used for tracing decisions that are not problems with the
// input, such as a cache miss or the fallback chosen for a "var()".
func (log Log) AddDebug(text string) {
	log.AddMsg(Msg{Kind: Debug, Text: text})
}

func (log Log) AddVerbose(text string) {
	log.AddMsg(Msg{Kind: Verbose, Text: text})
}
