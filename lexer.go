// lexer.go: tokenizer for the Meson definition language.
//
// The lexer turns source text into a pull-based stream of tokens plus a
// side list of comments. Token patterns live in a fixed, priority-ordered
// table (longest / most specific first); at every position the first
// pattern that matches wins. Newlines are statement separators only when
// no parenthesis, bracket or curly brace is open; inside any bracketed
// construct they are swallowed as line continuations.
package meson

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	TokEOF TokenType = iota
	TokEOL
	TokID
	TokNumber
	TokString
	TokFString
	TokMultilineFString

	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLCurl
	TokRCurl
	TokComma
	TokDot
	TokColon
	TokQuestion

	TokPlus
	TokDash
	TokStar
	TokFSlash
	TokPercent
	TokPlusAssign
	TokAssign
	TokEqual
	TokNEqual
	TokLT
	TokLE
	TokGT
	TokGE

	// Keywords, promoted from identifiers.
	TokTrue
	TokFalse
	TokIf
	TokElse
	TokElif
	TokEndif
	TokAnd
	TokOr
	TokNot
	TokForeach
	TokEndforeach
	TokIn
	TokContinue
	TokBreak

	// Internal pseudo-kinds; never emitted as tokens.
	tokIgnore
	tokEOLCont
	tokMultilineString
	tokComment
	tokDblQuote
)

var tokenNames = map[TokenType]string{
	TokEOF:              "eof",
	TokEOL:              "eol",
	TokID:               "id",
	TokNumber:           "number",
	TokString:           "string",
	TokFString:          "fstring",
	TokMultilineFString: "multiline_fstring",
	TokLParen:           "lparen",
	TokRParen:           "rparen",
	TokLBracket:         "lbracket",
	TokRBracket:         "rbracket",
	TokLCurl:            "lcurl",
	TokRCurl:            "rcurl",
	TokComma:            "comma",
	TokDot:              "dot",
	TokColon:            "colon",
	TokQuestion:         "questionmark",
	TokPlus:             "plus",
	TokDash:             "dash",
	TokStar:             "star",
	TokFSlash:           "fslash",
	TokPercent:          "percent",
	TokPlusAssign:       "plusassign",
	TokAssign:           "assign",
	TokEqual:            "equal",
	TokNEqual:           "nequal",
	TokLT:               "lt",
	TokLE:               "le",
	TokGT:               "gt",
	TokGE:               "ge",
	TokTrue:             "true",
	TokFalse:            "false",
	TokIf:               "if",
	TokElse:             "else",
	TokElif:             "elif",
	TokEndif:            "endif",
	TokAnd:              "and",
	TokOr:               "or",
	TokNot:              "not",
	TokForeach:          "foreach",
	TokEndforeach:       "endforeach",
	TokIn:               "in",
	TokContinue:         "continue",
	TokBreak:            "break",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// ValueKind tags the payload carried by a token.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueInt
	ValueStr
)

// TokenValue is a small tagged union. The kind is determined by the token
// type: number tokens carry an integer, string-like tokens and plain
// identifiers carry a string, true/false carry a boolean, everything else
// carries nothing.
type TokenValue struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
}

func noValue() TokenValue          { return TokenValue{} }
func boolValue(b bool) TokenValue  { return TokenValue{Kind: ValueBool, Bool: b} }
func intValue(i int64) TokenValue  { return TokenValue{Kind: ValueInt, Int: i} }
func strValue(s string) TokenValue { return TokenValue{Kind: ValueStr, Str: s} }

// Span is a half-open [Start,End) byte range into the source.
type Span struct {
	Start int
	End   int
}

// Token is one lexical token.
type Token struct {
	Type      TokenType
	Filename  string
	LineStart int // byte offset of the start of the token's line
	Line      int // 1-based
	Col       int // 0-based
	Span      Span
	Value     TokenValue
}

// Comment is a lexed comment. Comments never enter the token stream; they
// are collected on the side and attached to AST nodes after parsing.
type Comment struct {
	LineStart int
	Line      int
	Col       int
	Span      Span
	Text      string // raw text including the leading '#'
}

var keywords = map[string]TokenType{
	"true":       TokTrue,
	"false":      TokFalse,
	"if":         TokIf,
	"else":       TokElse,
	"elif":       TokElif,
	"endif":      TokEndif,
	"and":        TokAnd,
	"or":         TokOr,
	"not":        TokNot,
	"foreach":    TokForeach,
	"endforeach": TokEndforeach,
	"in":         TokIn,
	"continue":   TokContinue,
	"break":      TokBreak,
}

// futureKeywords warn but are still lexed as plain identifiers.
var futureKeywords = map[string]bool{
	"return": true,
}

// tokenSpec is the priority-ordered pattern table. Each matcher returns
// the length of the match at the start of its argument, or 0. Order
// matters: multi-line literals before single-line ones, two-character
// operators before their one-character prefixes.
var tokenSpec = []struct {
	kind  TokenType
	match func(s string) int
}{
	{tokIgnore, matchSpace},
	{TokMultilineFString, matchTripleQuoted("f'''")},
	{TokFString, matchSingleQuoted("f'")},
	{TokID, matchIdentifier},
	{TokNumber, matchNumber},
	{tokEOLCont, matchLiteral("\\\n")},
	{TokEOL, matchLiteral("\n")},
	{tokMultilineString, matchTripleQuoted("'''")},
	{tokComment, matchComment},
	{TokLParen, matchLiteral("(")},
	{TokRParen, matchLiteral(")")},
	{TokLBracket, matchLiteral("[")},
	{TokRBracket, matchLiteral("]")},
	{TokLCurl, matchLiteral("{")},
	{TokRCurl, matchLiteral("}")},
	{tokDblQuote, matchLiteral(`"`)},
	{TokString, matchSingleQuoted("'")},
	{TokComma, matchLiteral(",")},
	{TokPlusAssign, matchLiteral("+=")},
	{TokDot, matchLiteral(".")},
	{TokPlus, matchLiteral("+")},
	{TokDash, matchLiteral("-")},
	{TokStar, matchLiteral("*")},
	{TokPercent, matchLiteral("%")},
	{TokFSlash, matchLiteral("/")},
	{TokColon, matchLiteral(":")},
	{TokEqual, matchLiteral("==")},
	{TokNEqual, matchLiteral("!=")},
	{TokAssign, matchLiteral("=")},
	{TokLE, matchLiteral("<=")},
	{TokLT, matchLiteral("<")},
	{TokGE, matchLiteral(">=")},
	{TokGT, matchLiteral(">")},
	{TokQuestion, matchLiteral("?")},
}

func matchLiteral(lit string) func(string) int {
	return func(s string) int {
		if strings.HasPrefix(s, lit) {
			return len(lit)
		}
		return 0
	}
}

func matchSpace(s string) int {
	if len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		return 1
	}
	return 0
}

func matchComment(s string) int {
	if len(s) == 0 || s[0] != '#' {
		return 0
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

func matchIdentifier(s string) int {
	if len(s) == 0 {
		return 0
	}
	c := s[0]
	if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return 0
	}
	n := 1
	for n < len(s) {
		c = s[n]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			n++
			continue
		}
		break
	}
	return n
}

// matchNumber recognizes binary, octal and hex literals with their base
// prefixes, a lone zero, and decimal numbers without a leading zero.
func matchNumber(s string) int {
	if len(s) == 0 || s[0] < '0' || s[0] > '9' {
		return 0
	}
	digits := func(from int, ok func(byte) bool) int {
		n := from
		for n < len(s) && ok(s[n]) {
			n++
		}
		return n
	}
	if s[0] == '0' && len(s) > 1 {
		switch s[1] {
		case 'b', 'B':
			if n := digits(2, func(c byte) bool { return c == '0' || c == '1' }); n > 2 {
				return n
			}
		case 'o', 'O':
			if n := digits(2, func(c byte) bool { return c >= '0' && c <= '7' }); n > 2 {
				return n
			}
		case 'x', 'X':
			if n := digits(2, isHexDigit); n > 2 {
				return n
			}
		}
		return 1 // just the zero
	}
	if s[0] == '0' {
		return 1
	}
	return digits(1, func(c byte) bool { return c >= '0' && c <= '9' })
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// matchSingleQuoted matches prefix followed by ([^'\]|\.)* and a closing
// single quote. Raw newlines are allowed inside; the lexer warns about
// them separately.
func matchSingleQuoted(prefix string) func(string) int {
	return func(s string) int {
		if !strings.HasPrefix(s, prefix) {
			return 0
		}
		n := len(prefix)
		for n < len(s) {
			switch s[n] {
			case '\'':
				return n + 1
			case '\\':
				if n+1 >= len(s) {
					return 0
				}
				n += 2
			default:
				n++
			}
		}
		return 0
	}
}

// matchTripleQuoted matches prefix up to the first following ''' sentinel
// (non-greedy), for the multi-line literal forms.
func matchTripleQuoted(prefix string) func(string) int {
	return func(s string) int {
		if !strings.HasPrefix(s, prefix) {
			return 0
		}
		i := strings.Index(s[len(prefix):], "'''")
		if i < 0 {
			return 0
		}
		return len(prefix) + i + 3
	}
}

// Lexer scans one source unit. Tokens are produced one at a time through
// Next; comments accumulate in order of appearance.
type Lexer struct {
	code     string
	filename string
	warn     WarnSink
	comments []Comment

	loc          int
	lineStart    int
	line         int
	parDepth     int
	bracketDepth int
	curlDepth    int
}

// NewLexer creates a lexer over code. The filename is used only for
// diagnostics. A nil sink discards warnings.
func NewLexer(code, filename string, warn WarnSink) *Lexer {
	if warn == nil {
		warn = DiscardWarnings
	}
	return &Lexer{code: code, filename: filename, warn: warn, line: 1}
}

// Comments returns the comments collected so far, in source order.
func (l *Lexer) Comments() []Comment { return l.comments }

// lineAt returns the text of the line beginning at byte offset lineStart,
// without its trailing newline.
func (l *Lexer) lineAt(lineStart int) string {
	if lineStart < 0 || lineStart > len(l.code) {
		return ""
	}
	rest := l.code[lineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (l *Lexer) lexErr(msg string, line, col, lineStart int) error {
	return &LexError{Msg: msg, LineText: l.lineAt(lineStart), Line: line, Col: col}
}

// Next advances the stream by one token. At end of input it returns an
// EOF token (repeatedly, if called again).
func (l *Lexer) Next() (Token, error) {
	for l.loc < len(l.code) {
		tok, emitted, err := l.scanOne()
		if err != nil {
			return Token{}, err
		}
		if emitted {
			return tok, nil
		}
	}
	return Token{
		Type:      TokEOF,
		Filename:  l.filename,
		LineStart: l.lineStart,
		Line:      l.line,
		Col:       l.loc - l.lineStart,
		Span:      Span{l.loc, l.loc},
	}, nil
}

func (l *Lexer) scanOne() (Token, bool, error) {
	rest := l.code[l.loc:]
	for _, spec := range tokenSpec {
		n := spec.match(rest)
		if n == 0 {
			continue
		}
		kind := spec.kind
		curLine := l.line
		curLineStart := l.lineStart
		col := l.loc - l.lineStart
		span := Span{l.loc, l.loc + n}
		text := l.code[span.Start:span.End]
		l.loc = span.End
		value := noValue()

		switch kind {
		case tokIgnore:
			return Token{}, false, nil
		case TokLParen:
			l.parDepth++
		case TokRParen:
			l.parDepth--
		case TokLBracket:
			l.bracketDepth++
		case TokRBracket:
			l.bracketDepth--
		case TokLCurl:
			l.curlDepth++
		case TokRCurl:
			l.curlDepth--
		case tokDblQuote:
			return Token{}, false, l.lexErr("Double quotes are not supported. Use single quotes.", curLine, col, curLineStart)
		case TokString, TokFString:
			if strings.Contains(text, "\n") {
				l.warn.Warn("Newline character in a string detected, use ''' (three single quotes) "+
					"for multiline strings instead. This will become a hard error in a future release.",
					Location{Filename: l.filename, Line: curLine, Col: col})
			}
			inner := text[1 : len(text)-1]
			if kind == TokFString {
				inner = text[2 : len(text)-1]
			}
			decoded, err := decodeEscapes(inner, text)
			if err != nil {
				return Token{}, false, err
			}
			value = strValue(decoded)
		case tokMultilineString, TokMultilineFString:
			if kind == tokMultilineString {
				value = strValue(text[3 : len(text)-3])
				kind = TokString
			} else {
				value = strValue(text[4 : len(text)-3])
			}
			lines := strings.Split(text, "\n")
			if len(lines) > 1 {
				l.line += len(lines) - 1
				l.lineStart = span.End - len(lines[len(lines)-1])
			}
		case TokNumber:
			v, err := strconv.ParseInt(text, 0, 64)
			if err != nil {
				return Token{}, false, l.lexErr("invalid number literal", curLine, col, curLineStart)
			}
			value = intValue(v)
		case tokEOLCont:
			l.line++
			l.lineStart = l.loc
			return Token{}, false, nil
		case TokEOL:
			l.line++
			l.lineStart = l.loc
			if l.parDepth > 0 || l.bracketDepth > 0 || l.curlDepth > 0 {
				return Token{}, false, nil
			}
		case tokComment:
			l.comments = append(l.comments, Comment{
				LineStart: curLineStart,
				Line:      curLine,
				Col:       col,
				Span:      span,
				Text:      text,
			})
			return Token{}, false, nil
		case TokID:
			if kw, ok := keywords[text]; ok {
				kind = kw
				switch kind {
				case TokTrue:
					value = boolValue(true)
				case TokFalse:
					value = boolValue(false)
				}
			} else {
				if futureKeywords[text] {
					l.warn.Warn(fmt.Sprintf("Identifier %q will become a reserved keyword in a future release. Please rename it.", text),
						Location{Filename: l.filename, Line: curLine, Col: col})
				}
				value = strValue(text)
			}
		}

		return Token{
			Type:      kind,
			Filename:  l.filename,
			LineStart: curLineStart,
			Line:      curLine,
			Col:       col,
			Span:      span,
			Value:     value,
		}, true, nil
	}
	col := l.loc - l.lineStart
	return Token{}, false, l.lexErr(fmt.Sprintf("unexpected character %q", l.code[l.loc]), l.line, col, l.lineStart)
}

/* ---------- string escape decoding ---------- */

var singleCharEscapes = map[byte]rune{
	'\\': '\\',
	'\'': '\'',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// decodeEscapes resolves the supported escape sequences in a single-line
// string literal: \UXXXXXXXX, \uXXXX, \xXX, one to three octal digits,
// \N{UNICODE NAME}, and the single-character escapes. Sequences that do
// not match any supported form are kept verbatim. A matched but invalid
// sequence yields a *UnicodeDecodeError carrying the offending escape and
// the full literal text.
func decodeEscapes(value, literal string) (string, error) {
	if !strings.Contains(value, "\\") {
		return value, nil
	}
	var b strings.Builder
	for i := 0; i < len(value); {
		if value[i] != '\\' || i+1 >= len(value) {
			b.WriteByte(value[i])
			i++
			continue
		}
		c := value[i+1]
		switch {
		case c == 'U' && hasHexDigits(value[i+2:], 8):
			v, _ := strconv.ParseUint(value[i+2:i+10], 16, 32)
			if v > unicode.MaxRune || isSurrogate(rune(v)) {
				return "", &UnicodeDecodeError{Match: value[i : i+10], Literal: literal}
			}
			b.WriteRune(rune(v))
			i += 10
		case c == 'u' && hasHexDigits(value[i+2:], 4):
			v, _ := strconv.ParseUint(value[i+2:i+6], 16, 32)
			if isSurrogate(rune(v)) {
				return "", &UnicodeDecodeError{Match: value[i : i+6], Literal: literal}
			}
			b.WriteRune(rune(v))
			i += 6
		case c == 'x' && hasHexDigits(value[i+2:], 2):
			v, _ := strconv.ParseUint(value[i+2:i+4], 16, 32)
			b.WriteRune(rune(v))
			i += 4
		case c >= '0' && c <= '7':
			n := 1
			for n < 3 && i+1+n < len(value) && value[i+1+n] >= '0' && value[i+1+n] <= '7' {
				n++
			}
			v, _ := strconv.ParseUint(value[i+1:i+1+n], 8, 32)
			b.WriteRune(rune(v))
			i += 1 + n
		case c == 'N':
			if i+2 >= len(value) || value[i+2] != '{' {
				b.WriteByte(value[i])
				b.WriteByte(c)
				i += 2
				break
			}
			end := strings.IndexByte(value[i:], '}')
			if end < 0 {
				b.WriteByte(value[i])
				b.WriteByte(c)
				i += 2
				break
			}
			name := value[i+3 : i+end]
			r, ok := runeByName(name)
			if !ok {
				return "", &UnicodeDecodeError{Match: value[i : i+end+1], Literal: literal}
			}
			b.WriteRune(r)
			i += end + 1
		default:
			if r, ok := singleCharEscapes[c]; ok {
				b.WriteRune(r)
			} else {
				b.WriteByte(value[i])
				b.WriteByte(c)
			}
			i += 2
		}
	}
	return b.String(), nil
}

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

func hasHexDigits(s string, n int) bool {
	if len(s) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// runeByName resolves a Unicode character name ("LATIN SMALL LETTER A")
// to its rune. The rune name table only maps runes to names, so this is a
// linear scan over the codepoint space; name escapes are rare enough that
// the cost does not matter in practice.
func runeByName(name string) (rune, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	if want == "" {
		return 0, false
	}
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if isSurrogate(r) {
			continue
		}
		if runenames.Name(r) == want {
			return r, true
		}
	}
	return 0, false
}
