package meson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Errors_CaretRendering(t *testing.T) {
	e := &ParseError{Msg: "Expecting eof got lt.", LineText: "x = 1 < 2 < 3", Line: 1, Col: 10}
	require.Equal(t, "Expecting eof got lt.\nx = 1 < 2 < 3\n          ^", e.Error())

	le := &LexError{Msg: "unexpected character '$'", LineText: "x = $", Line: 1, Col: 4}
	require.Equal(t, "unexpected character '$'\nx = $\n    ^", le.Error())
}

func Test_Errors_BlockSameLine(t *testing.T) {
	e := &BlockParseError{
		Msg:      "Expecting rparen got eol.",
		LineText: "f(1, 2",
		Line:     1, Col: 6,
		StartLineText: "f(1, 2",
		StartLine:     1, StartCol: 1,
	}
	require.Equal(t, "Expecting rparen got eol.\nf(1, 2\n ^____^", e.Error())
}

func Test_Errors_BlockCrossLine(t *testing.T) {
	e := &BlockParseError{
		Msg:      "Expecting endif got eof.",
		LineText: "",
		Line:     2, Col: 0,
		StartLineText: "if true",
		StartLine:     1, StartCol: 0,
	}
	got := e.Error()
	require.Contains(t, got, "Expecting endif got eof.")
	require.Contains(t, got, "For a block that started at 1,0")
	require.Contains(t, got, "if true")
}

func Test_Errors_UnicodeDecode(t *testing.T) {
	e := &UnicodeDecodeError{Match: `\N{NOPE}`, Literal: `'\N{NOPE}'`}
	require.Equal(t, "failed to parse escape sequence '\\N{NOPE}' in string:\n  '\\N{NOPE}'", e.Error())
}
