package meson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func formatLines(t *testing.T, src string) []string {
	t.Helper()
	return Format(parseOK(t, src))
}

// equalAST compares two trees structurally, ignoring positions and
// comments.
func equalAST(a, b Node) bool {
	switch x := a.(type) {
	case *BooleanNode:
		y, ok := b.(*BooleanNode)
		return ok && x.Value == y.Value
	case *IdNode:
		y, ok := b.(*IdNode)
		return ok && x.Value == y.Value
	case *NumberNode:
		y, ok := b.(*NumberNode)
		return ok && x.Value == y.Value
	case *StringNode:
		y, ok := b.(*StringNode)
		return ok && x.Value == y.Value
	case *FormatStringNode:
		y, ok := b.(*FormatStringNode)
		return ok && x.Value == y.Value
	case *MultilineFormatStringNode:
		y, ok := b.(*MultilineFormatStringNode)
		return ok && x.Value == y.Value
	case *ContinueNode:
		_, ok := b.(*ContinueNode)
		return ok
	case *BreakNode:
		_, ok := b.(*BreakNode)
		return ok
	case *EmptyNode:
		_, ok := b.(*EmptyNode)
		return ok
	case *ArgumentNode:
		y, ok := b.(*ArgumentNode)
		if !ok || len(x.Arguments) != len(y.Arguments) || len(x.Kwargs) != len(y.Kwargs) {
			return false
		}
		for i := range x.Arguments {
			if !equalAST(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		for i := range x.Kwargs {
			if !equalAST(x.Kwargs[i].Key, y.Kwargs[i].Key) ||
				!equalAST(x.Kwargs[i].Value, y.Kwargs[i].Value) {
				return false
			}
		}
		return true
	case *ArrayNode:
		y, ok := b.(*ArrayNode)
		return ok && equalAST(x.Args, y.Args)
	case *DictNode:
		y, ok := b.(*DictNode)
		return ok && equalAST(x.Args, y.Args)
	case *OrNode:
		y, ok := b.(*OrNode)
		return ok && equalAST(x.Left, y.Left) && equalAST(x.Right, y.Right)
	case *AndNode:
		y, ok := b.(*AndNode)
		return ok && equalAST(x.Left, y.Left) && equalAST(x.Right, y.Right)
	case *ComparisonNode:
		y, ok := b.(*ComparisonNode)
		return ok && x.Op == y.Op && equalAST(x.Left, y.Left) && equalAST(x.Right, y.Right)
	case *ArithmeticNode:
		y, ok := b.(*ArithmeticNode)
		return ok && x.Op == y.Op && equalAST(x.Left, y.Left) && equalAST(x.Right, y.Right)
	case *NotNode:
		y, ok := b.(*NotNode)
		return ok && equalAST(x.Value, y.Value)
	case *UMinusNode:
		y, ok := b.(*UMinusNode)
		return ok && equalAST(x.Value, y.Value)
	case *CodeBlockNode:
		y, ok := b.(*CodeBlockNode)
		if !ok || len(x.Lines) != len(y.Lines) {
			return false
		}
		for i := range x.Lines {
			if !equalAST(x.Lines[i], y.Lines[i]) {
				return false
			}
		}
		return true
	case *IndexNode:
		y, ok := b.(*IndexNode)
		return ok && equalAST(x.Object, y.Object) && equalAST(x.Index, y.Index)
	case *MethodNode:
		y, ok := b.(*MethodNode)
		return ok && x.Name == y.Name && equalAST(x.Object, y.Object) && equalAST(x.Args, y.Args)
	case *FunctionNode:
		y, ok := b.(*FunctionNode)
		return ok && x.FuncName == y.FuncName && equalAST(x.Args, y.Args)
	case *AssignmentNode:
		y, ok := b.(*AssignmentNode)
		return ok && x.VarName == y.VarName && equalAST(x.Value, y.Value)
	case *PlusAssignmentNode:
		y, ok := b.(*PlusAssignmentNode)
		return ok && x.VarName == y.VarName && equalAST(x.Value, y.Value)
	case *ForeachClauseNode:
		y, ok := b.(*ForeachClauseNode)
		if !ok || len(x.VarNames) != len(y.VarNames) {
			return false
		}
		for i := range x.VarNames {
			if x.VarNames[i] != y.VarNames[i] {
				return false
			}
		}
		return equalAST(x.Items, y.Items) && equalAST(x.Block, y.Block)
	case *IfNode:
		y, ok := b.(*IfNode)
		return ok && equalAST(x.Condition, y.Condition) && equalAST(x.Block, y.Block)
	case *IfClauseNode:
		y, ok := b.(*IfClauseNode)
		if !ok || len(x.Ifs) != len(y.Ifs) {
			return false
		}
		for i := range x.Ifs {
			if !equalAST(x.Ifs[i], y.Ifs[i]) {
				return false
			}
		}
		return equalAST(x.ElseBlock, y.ElseBlock)
	case *ParenthesizedNode:
		y, ok := b.(*ParenthesizedNode)
		return ok && equalAST(x.Inner, y.Inner)
	case *TernaryNode:
		y, ok := b.(*TernaryNode)
		return ok && equalAST(x.Condition, y.Condition) &&
			equalAST(x.TrueBlock, y.TrueBlock) && equalAST(x.FalseBlock, y.FalseBlock)
	}
	return false
}

func Test_Format_Assignment(t *testing.T) {
	require.Equal(t, []string{"x = 3"}, formatLines(t, "x   =    3"))
	require.Equal(t, []string{"x += 'a'"}, formatLines(t, "x+='a'"))
}

func Test_Format_IfBlock(t *testing.T) {
	src := "if true\nx=3\nelif a\ny =4\nelse\nz= 5\nendif\n"
	require.Equal(t, []string{
		"if true",
		"  x = 3",
		"elif a",
		"  y = 4",
		"else",
		"  z = 5",
		"endif",
	}, formatLines(t, src))
}

func Test_Format_Foreach(t *testing.T) {
	src := "foreach a,b: c\nd = a\nif b\ncontinue\nendif\nendforeach\n"
	require.Equal(t, []string{
		"foreach a, b : c",
		"  d = a",
		"  if b",
		"    continue",
		"  endif",
		"endforeach",
	}, formatLines(t, src))
}

func Test_Format_CallArguments(t *testing.T) {
	require.Equal(t, []string{"f(1, a : 2)"}, formatLines(t, "f(1,a:2)"))
	require.Equal(t, []string{"f()"}, formatLines(t, "f(  )"))
	require.Equal(t, []string{"a.b(1).c()"}, formatLines(t, "a . b( 1 ) . c()"))
}

func Test_Format_ArrayAndDict(t *testing.T) {
	require.Equal(t, []string{"x = [1, 2]"}, formatLines(t, "x=[1,2]"))
	require.Equal(t, []string{"x = []"}, formatLines(t, "x=[]"))
	require.Equal(t, []string{"x = {'k' : 1}"}, formatLines(t, "x={'k':1}"))
}

func Test_Format_Operators(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"x=1+2*3", "x = 1 + 2 * 3"},
		{"x=a-b/c%d", "x = a - b / c % d"},
		{"x=a and b or c", "x = a and b or c"},
		{"x=not a", "x = not a"},
		{"x=-(a+b)", "x = -(a + b)"},
		{"x=a not   in b", "x = a not in b"},
		{"x=a in b", "x = a in b"},
		{"x=a<=b", "x = a <= b"},
		{"x=a?b:c", "x = a ? b : c"},
		{"x=a[1]", "x = a[1]"},
	}
	for _, c := range cases {
		require.Equal(t, []string{c.want}, formatLines(t, c.src), "source: %q", c.src)
	}
}

func Test_Format_StringEscapes(t *testing.T) {
	require.Equal(t, []string{`x = 'it\'s\\'`}, formatLines(t, `x = 'it\'s\\'`))
	require.Equal(t, []string{`x = 'a\nb'`}, formatLines(t, `x = 'a\nb'`))
	require.Equal(t, []string{"x = f'v=@0@'"}, formatLines(t, "x = f'v=@0@'"))
}

func Test_Format_EscapeRoundTripsValue(t *testing.T) {
	src := `x = 'it\'s\\'`
	out, err := FormatSource(src, "test.build", nil)
	require.NoError(t, err)
	orig := assignValue(t, src).(*StringNode)
	again := assignValue(t, out).(*StringNode)
	require.Equal(t, `it's\`, orig.Value)
	require.Equal(t, orig.Value, again.Value)
}

var formatCorpus = []string{
	"x = 3\ny = x + 1\n",
	"f(1, 2, key : 'v')\n",
	"if a\nx = 1\nelif b\nx = 2\nelse\nx = 3\nendif\n",
	"foreach k, v : d\nres += v\nendforeach\n",
	"x = a ? b : c\n",
	"x = {'k' : [1, 2], 'j' : f()}\n",
	"x = a.b(1).c()[2]\n",
	"x = not (a in b) and -c < d\n",
	"x = f'interp@0@'\n",
	"msg = 'it\\'s\\\\'\n",
}

func Test_Format_RoundTripShape(t *testing.T) {
	for _, src := range formatCorpus {
		out, err := FormatSource(src, "test.build", nil)
		require.NoError(t, err, "source: %q", src)
		before := parseOK(t, src)
		after := parseOK(t, out)
		require.True(t, equalAST(before, after), "source: %q\nformatted: %q", src, out)
	}
}

func Test_Format_FixedPoint(t *testing.T) {
	for _, src := range formatCorpus {
		out1, err := FormatSource(src, "test.build", nil)
		require.NoError(t, err, "source: %q", src)
		out2, err := FormatSource(out1, "test.build", nil)
		require.NoError(t, err)
		require.Equal(t, out1, out2, "source: %q", src)
	}
}
