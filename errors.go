package meson

import (
	"fmt"
	"strings"
)

// Source errors render the offending line with a caret under the column,
// so a terminal user can see the problem without opening the file.

func caretSnippet(msg, lineText string, col int) string {
	if col < 0 {
		col = 0
	}
	return fmt.Sprintf("%s\n%s\n%s^", msg, lineText, strings.Repeat(" ", col))
}

// LexError is a fatal tokenization failure.
type LexError struct {
	Msg      string
	LineText string
	Line     int
	Col      int
}

func (e *LexError) Error() string {
	return caretSnippet(e.Msg, e.LineText, e.Col)
}

// ParseError is a fatal syntax failure at a single position.
type ParseError struct {
	Msg      string
	LineText string
	Line     int
	Col      int
}

func (e *ParseError) Error() string {
	return caretSnippet(e.Msg, e.LineText, e.Col)
}

// BlockParseError is a syntax failure inside a block construct. Besides
// the error position it carries the position where the enclosing block
// started, since an unterminated if or foreach usually manifests far
// from its opening line.
type BlockParseError struct {
	Msg      string
	LineText string
	Line     int
	Col      int

	StartLineText string
	StartLine     int
	StartCol      int
}

func (e *BlockParseError) Error() string {
	if e.Line == e.StartLine {
		// Both positions on one line: underline the range between them.
		width := e.Col - e.StartCol - 1
		if width < 0 {
			width = 0
		}
		return fmt.Sprintf("%s\n%s\n%s^%s^",
			e.Msg, e.LineText,
			strings.Repeat(" ", e.StartCol), strings.Repeat("_", width))
	}
	return fmt.Sprintf("%s\nFor a block that started at %d,%d\n%s\n%s^",
		caretSnippet(e.Msg, e.LineText, e.Col),
		e.StartLine, e.StartCol,
		e.StartLineText, strings.Repeat(" ", e.StartCol))
}

// UnicodeDecodeError reports an escape sequence that matched one of the
// supported forms but does not denote a valid character.
type UnicodeDecodeError struct {
	Match   string // the offending escape, e.g. `\N{NO SUCH NAME}`
	Literal string // the full string literal it occurred in
}

func (e *UnicodeDecodeError) Error() string {
	return fmt.Sprintf("failed to parse escape sequence '%s' in string:\n  %s", e.Match, e.Literal)
}
