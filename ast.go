// ast.go: syntax tree node types.
//
// Every node embeds NodeBase, which carries the node's position (line and
// column of both endpoints), the source byte span, and three comment
// lists filled in after parsing. Dispatch over node kinds goes through
// the Visitor interface; adding a node kind means adding a Visit method,
// so a visitor can never silently miss one.
package meson

// NodeBase holds position and comment data common to all nodes.
type NodeBase struct {
	Line     int // 1-based
	Col      int // 0-based
	EndLine  int
	EndCol   int
	Filename string
	Span     Span

	LeadComments   []Comment // own-line comments preceding the node
	InlineComments []Comment // comments inside the node's span
	TrailComments  []Comment // comments following the node on its line
}

func (b *NodeBase) Base() *NodeBase { return b }

func newBase(tok Token) NodeBase {
	return NodeBase{
		Line:     tok.Line,
		Col:      tok.Col,
		EndLine:  tok.Line,
		EndCol:   tok.Col,
		Filename: tok.Filename,
		Span:     tok.Span,
	}
}

// Node is any syntax tree node.
type Node interface {
	Accept(v Visitor)
	Base() *NodeBase
}

// Visitor has one method per concrete node kind.
type Visitor interface {
	VisitBoolean(n *BooleanNode)
	VisitId(n *IdNode)
	VisitNumber(n *NumberNode)
	VisitString(n *StringNode)
	VisitFormatString(n *FormatStringNode)
	VisitMultilineFormatString(n *MultilineFormatStringNode)
	VisitContinue(n *ContinueNode)
	VisitBreak(n *BreakNode)
	VisitArgument(n *ArgumentNode)
	VisitArray(n *ArrayNode)
	VisitDict(n *DictNode)
	VisitEmpty(n *EmptyNode)
	VisitOr(n *OrNode)
	VisitAnd(n *AndNode)
	VisitComparison(n *ComparisonNode)
	VisitArithmetic(n *ArithmeticNode)
	VisitNot(n *NotNode)
	VisitCodeBlock(n *CodeBlockNode)
	VisitIndex(n *IndexNode)
	VisitMethod(n *MethodNode)
	VisitFunction(n *FunctionNode)
	VisitAssignment(n *AssignmentNode)
	VisitPlusAssignment(n *PlusAssignmentNode)
	VisitForeachClause(n *ForeachClauseNode)
	VisitIf(n *IfNode)
	VisitIfClause(n *IfClauseNode)
	VisitParenthesized(n *ParenthesizedNode)
	VisitUMinus(n *UMinusNode)
	VisitTernary(n *TernaryNode)
}

/* ---------- leaf nodes ---------- */

type BooleanNode struct {
	NodeBase
	Value bool
}

type IdNode struct {
	NodeBase
	Value string
}

type NumberNode struct {
	NodeBase
	Value int64
}

type StringNode struct {
	NodeBase
	Value string
}

type FormatStringNode struct {
	NodeBase
	Value string
}

type MultilineFormatStringNode struct {
	NodeBase
	Value string
}

type ContinueNode struct {
	NodeBase
}

type BreakNode struct {
	NodeBase
}

// EmptyNode marks an absent expression, e.g. a blank line or a missing
// else branch.
type EmptyNode struct {
	NodeBase
}

/* ---------- compound nodes ---------- */

// KwargPair is one keyword argument. Order of appearance is preserved.
type KwargPair struct {
	Key   Node
	Value Node
}

// ArgumentNode collects the positional and keyword arguments of a call,
// the elements of an array, or the entries of a dict.
type ArgumentNode struct {
	NodeBase
	Arguments []Node
	Commas    []Token
	Kwargs    []KwargPair

	orderError bool
}

func (n *ArgumentNode) NumArgs() int   { return len(n.Arguments) }
func (n *ArgumentNode) NumKwargs() int { return len(n.Kwargs) }

// IncorrectOrder reports whether a positional argument appeared after a
// keyword argument.
func (n *ArgumentNode) IncorrectOrder() bool { return n.orderError }

// Append adds a positional argument. Empty placeholders are ignored.
func (n *ArgumentNode) Append(arg Node) {
	if _, empty := arg.(*EmptyNode); empty {
		return
	}
	if len(n.Kwargs) > 0 {
		n.orderError = true
	}
	n.Arguments = append(n.Arguments, arg)
}

// Prepend adds a positional argument at the front.
func (n *ArgumentNode) Prepend(arg Node) {
	if _, empty := arg.(*EmptyNode); empty {
		return
	}
	if len(n.Kwargs) > 0 {
		n.orderError = true
	}
	n.Arguments = append([]Node{arg}, n.Arguments...)
}

// SetKwarg adds a keyword argument, warning once if a plain identifier
// key is repeated. The last occurrence still wins at evaluation time, so
// duplicates are kept in the list.
func (n *ArgumentNode) SetKwarg(key *IdNode, value Node, warn WarnSink) {
	if warn == nil {
		warn = DiscardWarnings
	}
	for _, kw := range n.Kwargs {
		if id, ok := kw.Key.(*IdNode); ok && id.Value == key.Value {
			warn.Warn("Keyword argument \""+key.Value+"\" defined multiple times.",
				Location{Filename: key.Filename, Line: key.Line, Col: key.Col})
			break
		}
	}
	n.Kwargs = append(n.Kwargs, KwargPair{Key: key, Value: value})
}

// SetKwargNoCheck adds a keyword entry with an arbitrary expression key,
// as used for dict literals.
func (n *ArgumentNode) SetKwargNoCheck(key, value Node) {
	n.Kwargs = append(n.Kwargs, KwargPair{Key: key, Value: value})
}

type ArrayNode struct {
	NodeBase
	Args *ArgumentNode
}

type DictNode struct {
	NodeBase
	Args *ArgumentNode
}

type OrNode struct {
	NodeBase
	Left  Node
	Right Node
}

type AndNode struct {
	NodeBase
	Left  Node
	Right Node
}

// ComparisonNode. Op is one of "==", "!=", "<", "<=", ">", ">=", "in",
// "notin".
type ComparisonNode struct {
	NodeBase
	Left  Node
	Right Node
	Op    string
}

// ArithmeticNode. Op is one of "add", "sub", "mul", "div", "mod".
type ArithmeticNode struct {
	NodeBase
	Left  Node
	Right Node
	Op    string
}

type NotNode struct {
	NodeBase
	Value Node
}

type UMinusNode struct {
	NodeBase
	Value Node
}

type CodeBlockNode struct {
	NodeBase
	Lines []Node
}

type IndexNode struct {
	NodeBase
	Object Node
	Index  Node
}

type MethodNode struct {
	NodeBase
	Object Node
	Name   string
	Args   *ArgumentNode
}

type FunctionNode struct {
	NodeBase
	FuncName string
	Args     *ArgumentNode
}

type AssignmentNode struct {
	NodeBase
	VarName string
	Value   Node
}

type PlusAssignmentNode struct {
	NodeBase
	VarName string
	Value   Node
}

type ForeachClauseNode struct {
	NodeBase
	VarNames []string
	Items    Node
	Block    *CodeBlockNode
}

// IfNode is one condition arm of an if clause. The plain else branch has
// no IfNode; it lives on the IfClauseNode directly.
type IfNode struct {
	NodeBase
	Condition Node
	Block     *CodeBlockNode
}

type IfClauseNode struct {
	NodeBase
	Ifs       []*IfNode
	ElseBlock Node // *CodeBlockNode, or *EmptyNode if absent
}

type ParenthesizedNode struct {
	NodeBase
	Inner Node
}

type TernaryNode struct {
	NodeBase
	Condition  Node
	TrueBlock  Node
	FalseBlock Node
}

/* ---------- Accept methods ---------- */

func (n *BooleanNode) Accept(v Visitor)               { v.VisitBoolean(n) }
func (n *IdNode) Accept(v Visitor)                    { v.VisitId(n) }
func (n *NumberNode) Accept(v Visitor)                { v.VisitNumber(n) }
func (n *StringNode) Accept(v Visitor)                { v.VisitString(n) }
func (n *FormatStringNode) Accept(v Visitor)          { v.VisitFormatString(n) }
func (n *MultilineFormatStringNode) Accept(v Visitor) { v.VisitMultilineFormatString(n) }
func (n *ContinueNode) Accept(v Visitor)              { v.VisitContinue(n) }
func (n *BreakNode) Accept(v Visitor)                 { v.VisitBreak(n) }
func (n *ArgumentNode) Accept(v Visitor)              { v.VisitArgument(n) }
func (n *ArrayNode) Accept(v Visitor)                 { v.VisitArray(n) }
func (n *DictNode) Accept(v Visitor)                  { v.VisitDict(n) }
func (n *EmptyNode) Accept(v Visitor)                 { v.VisitEmpty(n) }
func (n *OrNode) Accept(v Visitor)                    { v.VisitOr(n) }
func (n *AndNode) Accept(v Visitor)                   { v.VisitAnd(n) }
func (n *ComparisonNode) Accept(v Visitor)            { v.VisitComparison(n) }
func (n *ArithmeticNode) Accept(v Visitor)            { v.VisitArithmetic(n) }
func (n *NotNode) Accept(v Visitor)                   { v.VisitNot(n) }
func (n *CodeBlockNode) Accept(v Visitor)             { v.VisitCodeBlock(n) }
func (n *IndexNode) Accept(v Visitor)                 { v.VisitIndex(n) }
func (n *MethodNode) Accept(v Visitor)                { v.VisitMethod(n) }
func (n *FunctionNode) Accept(v Visitor)              { v.VisitFunction(n) }
func (n *AssignmentNode) Accept(v Visitor)            { v.VisitAssignment(n) }
func (n *PlusAssignmentNode) Accept(v Visitor)        { v.VisitPlusAssignment(n) }
func (n *ForeachClauseNode) Accept(v Visitor)         { v.VisitForeachClause(n) }
func (n *IfNode) Accept(v Visitor)                    { v.VisitIf(n) }
func (n *IfClauseNode) Accept(v Visitor)              { v.VisitIfClause(n) }
func (n *ParenthesizedNode) Accept(v Visitor)         { v.VisitParenthesized(n) }
func (n *UMinusNode) Accept(v Visitor)                { v.VisitUMinus(n) }
func (n *TernaryNode) Accept(v Visitor)               { v.VisitTernary(n) }
