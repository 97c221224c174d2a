// printer_style.go: the configurable formatter.
//
// Same buffer discipline as the fixed formatter but parameterized by a
// Style, and with one structural difference: keyword arguments are laid
// out one per line at an extra indentation level, with the closing
// bracket back at the parent level.
package meson

import (
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Style configures the configurable formatter.
type Style struct {
	// IndentBy is the string emitted per indentation level.
	IndentBy string `toml:"indent_by"`
	// SpaceArray pads the interior of array and index brackets.
	SpaceArray bool `toml:"space_array"`
	// WideColon puts a space on both sides of keyword-argument colons
	// instead of only after.
	WideColon bool `toml:"wide_colon"`
}

// DefaultStyle returns the style used when no configuration is given.
func DefaultStyle() Style {
	return Style{IndentBy: "    "}
}

// ParseStyle reads a TOML style configuration. Unset options keep their
// defaults.
func ParseStyle(data []byte) (Style, error) {
	s := DefaultStyle()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Style{}, err
	}
	if s.IndentBy == "" {
		s.IndentBy = DefaultStyle().IndentBy
	}
	return s, nil
}

// StyleFormatter renders a syntax tree according to a Style.
type StyleFormatter struct {
	style      Style
	lines      []string
	currLine   string
	currIndent int
}

// FormatStyled renders root as an ordered sequence of lines.
func FormatStyled(root Node, style Style) []string {
	f := &StyleFormatter{style: style}
	root.Accept(f)
	f.end()
	return f.lines
}

// FormatSourceStyled parses code and renders it per style, with a
// trailing newline.
func FormatSourceStyled(code, filename string, style Style, warn WarnSink) (string, error) {
	block, err := Parse(code, filename, warn)
	if err != nil {
		return "", err
	}
	return strings.Join(FormatStyled(block, style), "\n") + "\n", nil
}

func (f *StyleFormatter) indentPrefix() string {
	return strings.Repeat(f.style.IndentBy, f.currIndent)
}

func (f *StyleFormatter) add(s string) {
	f.currLine += s
}

func (f *StyleFormatter) forceLinebreak() {
	if strings.TrimSpace(f.currLine) != "" {
		f.lines = append(f.lines, strings.TrimRight(f.currLine, " \t"))
	}
	f.currLine = f.indentPrefix()
}

func (f *StyleFormatter) reindent() {
	f.currLine = f.indentPrefix()
}

func (f *StyleFormatter) end() {
	f.forceLinebreak()
}

func (f *StyleFormatter) VisitBoolean(n *BooleanNode) {
	if n.Value {
		f.add("true")
	} else {
		f.add("false")
	}
}

func (f *StyleFormatter) VisitId(n *IdNode)         { f.add(n.Value) }
func (f *StyleFormatter) VisitNumber(n *NumberNode) { f.add(strconv.FormatInt(n.Value, 10)) }

func (f *StyleFormatter) VisitString(n *StringNode) {
	f.add("'" + escapeString.Replace(n.Value) + "'")
}

func (f *StyleFormatter) VisitFormatString(n *FormatStringNode) {
	f.add("f'" + n.Value + "'")
}

func (f *StyleFormatter) VisitMultilineFormatString(n *MultilineFormatStringNode) {
	f.add("f'''" + n.Value + "'''")
}

func (f *StyleFormatter) VisitContinue(*ContinueNode) { f.add("continue") }
func (f *StyleFormatter) VisitBreak(*BreakNode)       { f.add("break") }
func (f *StyleFormatter) VisitEmpty(*EmptyNode)       {}

func (f *StyleFormatter) VisitArgument(n *ArgumentNode) {
	for _, a := range n.Arguments {
		a.Accept(f)
		f.add(", ")
	}
	if len(n.Kwargs) > 0 {
		colon := ": "
		if f.style.WideColon {
			colon = " : "
		}
		f.currIndent++
		for i, kw := range n.Kwargs {
			f.forceLinebreak()
			kw.Key.Accept(f)
			f.add(colon)
			kw.Value.Accept(f)
			if i == len(n.Kwargs)-1 {
				f.currIndent--
				f.forceLinebreak()
			} else {
				f.add(",")
			}
		}
	}
	f.currLine = strings.TrimSuffix(f.currLine, ", ")
}

func (f *StyleFormatter) VisitArray(n *ArrayNode) {
	pad := f.style.SpaceArray && n.Args.NumArgs() != 0
	f.add("[")
	if pad {
		f.add(" ")
	}
	n.Args.Accept(f)
	if pad {
		f.add(" ")
	}
	f.add("]")
}

func (f *StyleFormatter) VisitDict(n *DictNode) {
	f.add("{")
	n.Args.Accept(f)
	f.add("}")
}

func (f *StyleFormatter) VisitOr(n *OrNode) {
	n.Left.Accept(f)
	f.add(" or ")
	n.Right.Accept(f)
}

func (f *StyleFormatter) VisitAnd(n *AndNode) {
	n.Left.Accept(f)
	f.add(" and ")
	n.Right.Accept(f)
}

func (f *StyleFormatter) VisitComparison(n *ComparisonNode) {
	n.Left.Accept(f)
	f.add(" " + comparisonSymbols[n.Op] + " ")
	n.Right.Accept(f)
}

func (f *StyleFormatter) VisitArithmetic(n *ArithmeticNode) {
	n.Left.Accept(f)
	f.add(" " + arithmeticSymbols[n.Op] + " ")
	n.Right.Accept(f)
}

func (f *StyleFormatter) VisitNot(n *NotNode) {
	f.add("not ")
	n.Value.Accept(f)
}

func (f *StyleFormatter) VisitUMinus(n *UMinusNode) {
	f.add("-")
	n.Value.Accept(f)
}

func (f *StyleFormatter) VisitCodeBlock(n *CodeBlockNode) {
	for _, line := range n.Lines {
		line.Accept(f)
		f.forceLinebreak()
	}
}

func (f *StyleFormatter) VisitIndex(n *IndexNode) {
	n.Object.Accept(f)
	f.add("[")
	if f.style.SpaceArray {
		f.add(" ")
	}
	n.Index.Accept(f)
	if f.style.SpaceArray {
		f.add(" ")
	}
	f.add("]")
}

func (f *StyleFormatter) VisitMethod(n *MethodNode) {
	n.Object.Accept(f)
	f.add("." + n.Name)
	f.callArgs(n.Args)
}

func (f *StyleFormatter) VisitFunction(n *FunctionNode) {
	f.add(n.FuncName)
	f.callArgs(n.Args)
}

func (f *StyleFormatter) callArgs(args *ArgumentNode) {
	if args.NumArgs() == 0 && args.NumKwargs() == 0 {
		f.add("()")
		return
	}
	f.add("(")
	args.Accept(f)
	f.add(")")
}

func (f *StyleFormatter) VisitAssignment(n *AssignmentNode) {
	f.add(n.VarName + " = ")
	n.Value.Accept(f)
}

func (f *StyleFormatter) VisitPlusAssignment(n *PlusAssignmentNode) {
	f.add(n.VarName + " += ")
	n.Value.Accept(f)
}

func (f *StyleFormatter) VisitForeachClause(n *ForeachClauseNode) {
	f.add("foreach " + strings.Join(n.VarNames, ", ") + " : ")
	n.Items.Accept(f)
	f.currIndent++
	f.forceLinebreak()
	n.Block.Accept(f)
	f.currIndent--
	f.reindent()
	f.add("endforeach")
}

func (f *StyleFormatter) VisitIf(n *IfNode) {
	n.Condition.Accept(f)
	f.currIndent++
	f.forceLinebreak()
	n.Block.Accept(f)
	f.currIndent--
	f.reindent()
}

func (f *StyleFormatter) VisitIfClause(n *IfClauseNode) {
	for i, arm := range n.Ifs {
		if i == 0 {
			f.add("if ")
		} else {
			f.add("elif ")
		}
		arm.Accept(f)
	}
	if _, empty := n.ElseBlock.(*EmptyNode); !empty {
		f.add("else")
		f.currIndent++
		f.forceLinebreak()
		n.ElseBlock.Accept(f)
		f.currIndent--
		f.reindent()
	}
	f.add("endif")
}

func (f *StyleFormatter) VisitParenthesized(n *ParenthesizedNode) {
	f.add("(")
	n.Inner.Accept(f)
	f.add(")")
}

func (f *StyleFormatter) VisitTernary(n *TernaryNode) {
	n.Condition.Accept(f)
	f.add(" ? ")
	n.TrueBlock.Accept(f)
	f.add(" : ")
	n.FalseBlock.Accept(f)
}
