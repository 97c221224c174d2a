package meson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *CodeBlockNode {
	t.Helper()
	block, err := Parse(src, "test.build", nil)
	require.NoError(t, err, "source: %q", src)
	return block
}

func parseFail(t *testing.T, src string) error {
	t.Helper()
	_, err := Parse(src, "test.build", nil)
	require.Error(t, err, "source: %q", src)
	return err
}

func firstStmt(t *testing.T, src string) Node {
	t.Helper()
	block := parseOK(t, src)
	require.Len(t, block.Lines, 1, "source: %q", src)
	return block.Lines[0]
}

func assignValue(t *testing.T, src string) Node {
	t.Helper()
	stmt, ok := firstStmt(t, src).(*AssignmentNode)
	require.True(t, ok, "source: %q", src)
	return stmt.Value
}

func Test_Parser_Precedence_MulBindsTighterThanAdd(t *testing.T) {
	v := assignValue(t, "x = 1 + 2 * 3")
	add, ok := v.(*ArithmeticNode)
	require.True(t, ok)
	require.Equal(t, "add", add.Op)
	left, ok := add.Left.(*NumberNode)
	require.True(t, ok)
	require.Equal(t, int64(1), left.Value)
	mul, ok := add.Right.(*ArithmeticNode)
	require.True(t, ok)
	require.Equal(t, "mul", mul.Op)
}

func Test_Parser_Precedence_NotBindsTighterThanAnd(t *testing.T) {
	v := assignValue(t, "x = not true and false")
	and, ok := v.(*AndNode)
	require.True(t, ok)
	_, ok = and.Left.(*NotNode)
	require.True(t, ok)
	_, ok = and.Right.(*BooleanNode)
	require.True(t, ok)
}

func Test_Parser_Precedence_AddSubLeftFold(t *testing.T) {
	v := assignValue(t, "x = 1 - 2 + 3")
	outer, ok := v.(*ArithmeticNode)
	require.True(t, ok)
	require.Equal(t, "add", outer.Op)
	inner, ok := outer.Left.(*ArithmeticNode)
	require.True(t, ok)
	require.Equal(t, "sub", inner.Op)
}

func Test_Parser_Comparison_NoChaining(t *testing.T) {
	err := parseFail(t, "x = 1 < 2 < 3")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Expecting eof")
}

func Test_Parser_Comparison_NotIn(t *testing.T) {
	v := assignValue(t, "x = a not in b")
	cmp, ok := v.(*ComparisonNode)
	require.True(t, ok)
	require.Equal(t, "notin", cmp.Op)

	v = assignValue(t, "x = a in b")
	cmp, ok = v.(*ComparisonNode)
	require.True(t, ok)
	require.Equal(t, "in", cmp.Op)
}

func Test_Parser_CallTargetMustBeId(t *testing.T) {
	err := parseFail(t, "(1 + 2)(3)")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Function call must be applied to plain id")
}

func Test_Parser_NestedTernary(t *testing.T) {
	err := parseFail(t, "x = a ? b ? c : d : e")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Nested ternary operators are not allowed.")
}

func Test_Parser_SequentialTernaries(t *testing.T) {
	// The restriction is on nesting, not on statement count.
	block := parseOK(t, "x = a ? b : c\ny = d ? e : f\n")
	require.Len(t, block.Lines, 2)
}

func Test_Parser_AssignmentTargetMustBeId(t *testing.T) {
	err := parseFail(t, "3 = 4")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Assignment target must be an id.")

	err = parseFail(t, "a[0] += 1")
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Plusassignment target must be an id.")
}

func Test_Parser_UnterminatedBlock(t *testing.T) {
	err := parseFail(t, "if true\n")
	var be *BlockParseError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 1, be.StartLine)
	require.Equal(t, 0, be.StartCol)
	require.Contains(t, be.Msg, "Expecting endif")
	require.Equal(t, "if true", be.StartLineText)
}

func Test_Parser_IfElifElse(t *testing.T) {
	src := "if a\nx = 1\nelif b\nx = 2\nelif c\nx = 3\nelse\nx = 4\nendif\n"
	clause, ok := firstStmt(t, src).(*IfClauseNode)
	require.True(t, ok)
	require.Len(t, clause.Ifs, 3)
	for _, arm := range clause.Ifs {
		require.Len(t, arm.Block.Lines, 1)
	}
	elseBlock, ok := clause.ElseBlock.(*CodeBlockNode)
	require.True(t, ok)
	require.Len(t, elseBlock.Lines, 1)
}

func Test_Parser_IfWithoutElse(t *testing.T) {
	clause, ok := firstStmt(t, "if a\nx = 1\nendif\n").(*IfClauseNode)
	require.True(t, ok)
	require.Len(t, clause.Ifs, 1)
	_, ok = clause.ElseBlock.(*EmptyNode)
	require.True(t, ok)
}

func Test_Parser_Foreach(t *testing.T) {
	fe, ok := firstStmt(t, "foreach k, v : d\nx = k\nendforeach\n").(*ForeachClauseNode)
	require.True(t, ok)
	require.Equal(t, []string{"k", "v"}, fe.VarNames)
	items, ok := fe.Items.(*IdNode)
	require.True(t, ok)
	require.Equal(t, "d", items.Value)
	require.Len(t, fe.Block.Lines, 1)
}

func Test_Parser_ContinueBreak(t *testing.T) {
	fe, ok := firstStmt(t, "foreach a : b\ncontinue\nbreak\nendforeach\n").(*ForeachClauseNode)
	require.True(t, ok)
	require.Len(t, fe.Block.Lines, 2)
	_, ok = fe.Block.Lines[0].(*ContinueNode)
	require.True(t, ok)
	_, ok = fe.Block.Lines[1].(*BreakNode)
	require.True(t, ok)
}

func Test_Parser_PostfixChaining(t *testing.T) {
	v := assignValue(t, "x = a.b(1).c()[2]")
	idx, ok := v.(*IndexNode)
	require.True(t, ok)
	outer, ok := idx.Object.(*MethodNode)
	require.True(t, ok)
	require.Equal(t, "c", outer.Name)
	inner, ok := outer.Object.(*MethodNode)
	require.True(t, ok)
	require.Equal(t, "b", inner.Name)
	require.Equal(t, 1, inner.Args.NumArgs())
	obj, ok := inner.Object.(*IdNode)
	require.True(t, ok)
	require.Equal(t, "a", obj.Value)
}

func Test_Parser_MethodNameMustBeId(t *testing.T) {
	err := parseFail(t, "x = a.3()")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Method name must be plain id")
}

func Test_Parser_ArrayAndDict(t *testing.T) {
	arr, ok := assignValue(t, "x = [1, 2, 3]").(*ArrayNode)
	require.True(t, ok)
	require.Equal(t, 3, arr.Args.NumArgs())
	require.Len(t, arr.Args.Commas, 2)

	dict, ok := assignValue(t, "x = {'a' : 1, 'b' : 2}").(*DictNode)
	require.True(t, ok)
	require.Equal(t, 0, dict.Args.NumArgs())
	require.Equal(t, 2, dict.Args.NumKwargs())
	key, ok := dict.Args.Kwargs[0].Key.(*StringNode)
	require.True(t, ok)
	require.Equal(t, "a", key.Value)
}

func Test_Parser_DictRejectsBareValues(t *testing.T) {
	err := parseFail(t, "x = {1}")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Only key:value pairs are valid in dict construction.")
	require.Equal(t, 1, pe.Line)
	require.Equal(t, 5, pe.Col)
}

func Test_Parser_CallKwargKeyMustBeId(t *testing.T) {
	err := parseFail(t, "f(1 : 2)\n")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Contains(t, pe.Msg, "Dictionary key must be a plain identifier.")
}

func Test_Parser_DuplicateKwargWarnsOnce(t *testing.T) {
	sink := &CollectSink{}
	_, err := Parse("f(a : 1, a : 2)\n", "test.build", sink)
	require.NoError(t, err)
	require.Len(t, sink.Warnings, 1)
	require.Contains(t, sink.Warnings[0].Msg, `Keyword argument "a" defined multiple times.`)
}

func Test_Parser_PositionalAfterKeywordWarns(t *testing.T) {
	sink := &CollectSink{}
	block, err := Parse("f(a : 1, 2)\n", "test.build", sink)
	require.NoError(t, err)
	require.Len(t, sink.Warnings, 1)
	require.Contains(t, sink.Warnings[0].Msg, "positional argument after keyword argument")
	fn, ok := block.Lines[0].(*FunctionNode)
	require.True(t, ok)
	require.True(t, fn.Args.IncorrectOrder())
}

func Test_Parser_LexErrorWins(t *testing.T) {
	err := parseFail(t, `x = "y"`)
	var le *LexError
	require.True(t, errors.As(err, &le))
}

func Test_Parser_EmptyInputs(t *testing.T) {
	for _, src := range []string{"", "\n", "\n\n\n"} {
		block := parseOK(t, src)
		require.Empty(t, block.Lines, "source: %q", src)
	}
}

func Test_Parser_Spans(t *testing.T) {
	stmt := firstStmt(t, "x = 3")
	b := stmt.Base()
	require.Equal(t, 1, b.Line)
	require.Equal(t, 0, b.Col)
	require.Equal(t, Span{0, 5}, b.Span)
	require.Equal(t, "test.build", b.Filename)
}

func Test_Parser_BlockSpans(t *testing.T) {
	src := "if a\nx = 1\nendif\n"
	clause, ok := firstStmt(t, src).(*IfClauseNode)
	require.True(t, ok)
	b := clause.Base()
	require.Equal(t, 1, b.Line)
	require.Equal(t, 0, b.Span.Start)
	// The clause extends up to the endif keyword.
	require.Equal(t, 11, b.Span.End)
}

func Test_Parser_Parenthesized(t *testing.T) {
	v := assignValue(t, "x = (1 + 2) * 3")
	mul, ok := v.(*ArithmeticNode)
	require.True(t, ok)
	require.Equal(t, "mul", mul.Op)
	par, ok := mul.Left.(*ParenthesizedNode)
	require.True(t, ok)
	_, ok = par.Inner.(*ArithmeticNode)
	require.True(t, ok)
}

func Test_Parser_UnarySpansEncloseOperand(t *testing.T) {
	not, ok := assignValue(t, "x = not a\n").(*NotNode)
	require.True(t, ok)
	b := not.Base()
	require.Equal(t, 4, b.Col)
	require.Equal(t, Span{4, 9}, b.Span)
	ob := not.Value.Base()
	require.GreaterOrEqual(t, ob.Span.Start, b.Span.Start)
	require.LessOrEqual(t, ob.Span.End, b.Span.End)

	um, ok := assignValue(t, "y = -b\n").(*UMinusNode)
	require.True(t, ok)
	require.Equal(t, Span{4, 6}, um.Base().Span)
}

func Test_Parser_UnaryMinus(t *testing.T) {
	v := assignValue(t, "x = -a + b")
	add, ok := v.(*ArithmeticNode)
	require.True(t, ok)
	_, ok = add.Left.(*UMinusNode)
	require.True(t, ok)
}

func Test_Parser_ErrorRendering(t *testing.T) {
	err := parseFail(t, "x = 1 < 2 < 3")
	require.Contains(t, err.Error(), "x = 1 < 2 < 3")
	require.Contains(t, err.Error(), "^")
}
