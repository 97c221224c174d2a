// printer.go: the fixed-style formatter.
//
// Output discipline shared by both formatters: text accumulates in a
// current-line buffer; a forced line break flushes the buffer only when
// it holds more than indentation, then resets it to the indentation
// prefix of the current nesting level.
package meson

import (
	"strconv"
	"strings"
)

const fixedIndent = "  "

var arithmeticSymbols = map[string]string{
	"add": "+",
	"sub": "-",
	"mul": "*",
	"div": "/",
	"mod": "%",
}

var comparisonSymbols = map[string]string{
	"==":    "==",
	"!=":    "!=",
	"<":     "<",
	"<=":    "<=",
	">":     ">",
	">=":    ">=",
	"in":    "in",
	"notin": "not in",
}

// escapeString re-encodes a decoded string value as a single-quoted
// literal body.
var escapeString = strings.NewReplacer(
	"\\", "\\\\",
	"'", "\\'",
	"\n", "\\n",
)

// Formatter renders a syntax tree in the fixed two-space style.
type Formatter struct {
	lines      []string
	currLine   string
	currIndent int
}

// Format renders root as an ordered sequence of lines.
func Format(root Node) []string {
	f := &Formatter{}
	root.Accept(f)
	f.end()
	return f.lines
}

// FormatSource parses code and renders it in the fixed style, with a
// trailing newline.
func FormatSource(code, filename string, warn WarnSink) (string, error) {
	block, err := Parse(code, filename, warn)
	if err != nil {
		return "", err
	}
	return strings.Join(Format(block), "\n") + "\n", nil
}

func (f *Formatter) indentPrefix() string {
	return strings.Repeat(fixedIndent, f.currIndent)
}

func (f *Formatter) add(s string) {
	f.currLine += s
}

func (f *Formatter) forceLinebreak() {
	if strings.TrimSpace(f.currLine) != "" {
		f.lines = append(f.lines, strings.TrimRight(f.currLine, " \t"))
	}
	f.currLine = f.indentPrefix()
}

// reindent resets the buffer to the current indentation prefix, used
// when leaving a block so the closing keyword lines up with the opener.
func (f *Formatter) reindent() {
	f.currLine = f.indentPrefix()
}

func (f *Formatter) end() {
	f.forceLinebreak()
}

func (f *Formatter) VisitBoolean(n *BooleanNode) {
	if n.Value {
		f.add("true")
	} else {
		f.add("false")
	}
}

func (f *Formatter) VisitId(n *IdNode)         { f.add(n.Value) }
func (f *Formatter) VisitNumber(n *NumberNode) { f.add(strconv.FormatInt(n.Value, 10)) }

func (f *Formatter) VisitString(n *StringNode) {
	f.add("'" + escapeString.Replace(n.Value) + "'")
}

func (f *Formatter) VisitFormatString(n *FormatStringNode) {
	f.add("f'" + n.Value + "'")
}

func (f *Formatter) VisitMultilineFormatString(n *MultilineFormatStringNode) {
	f.add("f'''" + n.Value + "'''")
}

func (f *Formatter) VisitContinue(*ContinueNode) { f.add("continue") }
func (f *Formatter) VisitBreak(*BreakNode)       { f.add("break") }
func (f *Formatter) VisitEmpty(*EmptyNode)       {}

func (f *Formatter) VisitArgument(n *ArgumentNode) {
	for _, a := range n.Arguments {
		a.Accept(f)
		f.add(", ")
	}
	for _, kw := range n.Kwargs {
		kw.Key.Accept(f)
		f.add(" : ")
		kw.Value.Accept(f)
		f.add(", ")
	}
	f.currLine = strings.TrimSuffix(f.currLine, ", ")
}

func (f *Formatter) VisitArray(n *ArrayNode) {
	f.add("[")
	n.Args.Accept(f)
	f.add("]")
}

func (f *Formatter) VisitDict(n *DictNode) {
	f.add("{")
	n.Args.Accept(f)
	f.add("}")
}

func (f *Formatter) VisitOr(n *OrNode) {
	n.Left.Accept(f)
	f.add(" or ")
	n.Right.Accept(f)
}

func (f *Formatter) VisitAnd(n *AndNode) {
	n.Left.Accept(f)
	f.add(" and ")
	n.Right.Accept(f)
}

func (f *Formatter) VisitComparison(n *ComparisonNode) {
	n.Left.Accept(f)
	f.add(" " + comparisonSymbols[n.Op] + " ")
	n.Right.Accept(f)
}

func (f *Formatter) VisitArithmetic(n *ArithmeticNode) {
	n.Left.Accept(f)
	f.add(" " + arithmeticSymbols[n.Op] + " ")
	n.Right.Accept(f)
}

func (f *Formatter) VisitNot(n *NotNode) {
	f.add("not ")
	n.Value.Accept(f)
}

func (f *Formatter) VisitUMinus(n *UMinusNode) {
	f.add("-")
	n.Value.Accept(f)
}

func (f *Formatter) VisitCodeBlock(n *CodeBlockNode) {
	for _, line := range n.Lines {
		line.Accept(f)
		f.forceLinebreak()
	}
}

func (f *Formatter) VisitIndex(n *IndexNode) {
	n.Object.Accept(f)
	f.add("[")
	n.Index.Accept(f)
	f.add("]")
}

func (f *Formatter) VisitMethod(n *MethodNode) {
	n.Object.Accept(f)
	f.add("." + n.Name + "(")
	n.Args.Accept(f)
	f.add(")")
}

func (f *Formatter) VisitFunction(n *FunctionNode) {
	f.add(n.FuncName + "(")
	n.Args.Accept(f)
	f.add(")")
}

func (f *Formatter) VisitAssignment(n *AssignmentNode) {
	f.add(n.VarName + " = ")
	n.Value.Accept(f)
}

func (f *Formatter) VisitPlusAssignment(n *PlusAssignmentNode) {
	f.add(n.VarName + " += ")
	n.Value.Accept(f)
}

func (f *Formatter) VisitForeachClause(n *ForeachClauseNode) {
	f.add("foreach " + strings.Join(n.VarNames, ", ") + " : ")
	n.Items.Accept(f)
	f.currIndent++
	f.forceLinebreak()
	n.Block.Accept(f)
	f.currIndent--
	f.reindent()
	f.add("endforeach")
}

func (f *Formatter) VisitIf(n *IfNode) {
	n.Condition.Accept(f)
	f.currIndent++
	f.forceLinebreak()
	n.Block.Accept(f)
	f.currIndent--
	f.reindent()
}

func (f *Formatter) VisitIfClause(n *IfClauseNode) {
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

func (f *Formatter) VisitParenthesized(n *ParenthesizedNode) {
	f.add("(")
	n.Inner.Accept(f)
	f.add(")")
}

func (f *Formatter) VisitTernary(n *TernaryNode) {
	n.Condition.Accept(f)
	f.add(" ? ")
	n.TrueBlock.Accept(f)
	f.add(" : ")
	n.FalseBlock.Accept(f)
}
