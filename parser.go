// parser.go: recursive descent parser.
//
// The grammar is parsed by one method per precedence level, e1 (lowest:
// assignment and ternary) through e9 (atoms). Each method consumes from
// the token stream through accept/expect and produces a Node annotated
// with its source extent. Statement positions are tracked on an explicit
// stack: a rule pushes its start token on entry and pops it when the
// node is finalized, so an unbalanced stack after a successful parse is
// a parser bug and is reported as such.
package meson

import (
	"fmt"
	"strings"
)

var comparisonOps = []struct {
	tok TokenType
	op  string
}{
	{TokEqual, "=="},
	{TokNEqual, "!="},
	{TokLT, "<"},
	{TokLE, "<="},
	{TokGT, ">"},
	{TokGE, ">="},
	{TokIn, "in"},
}

// Parser consumes tokens lazily from a Lexer and builds the syntax tree.
type Parser struct {
	lexer    *Lexer
	code     string
	filename string
	warn     WarnSink

	current   Token
	inTernary bool
	stack     []Token
	nodes     []Node // every node ever created, for comment attachment
	fatal     error  // first lexer error, preserved across recovery-free unwinding
}

// NewParser prepares a parser over code. A nil sink discards warnings.
func NewParser(code, filename string, warn WarnSink) *Parser {
	if warn == nil {
		warn = DiscardWarnings
	}
	return &Parser{
		lexer:    NewLexer(code, filename, warn),
		code:     code,
		filename: filename,
		warn:     warn,
	}
}

// Parse parses a whole source unit and attaches comments to the tree.
func Parse(code, filename string, warn WarnSink) (*CodeBlockNode, error) {
	return NewParser(code, filename, warn).Parse()
}

func (p *Parser) Parse() (*CodeBlockNode, error) {
	p.getsym()
	block, err := p.codeblock()
	if err != nil {
		return nil, p.prefer(err)
	}
	if err := p.expect(TokEOF); err != nil {
		return nil, p.prefer(err)
	}
	if p.fatal != nil {
		return nil, p.fatal
	}
	if len(p.stack) != 0 {
		return nil, fmt.Errorf("internal error: %d unbalanced parser positions after parse", len(p.stack))
	}
	attachComments(p.nodes, p.lexer.Comments())
	return block, nil
}

// prefer returns the stored lexer error, if any, over the parse error
// that followed it.
func (p *Parser) prefer(err error) error {
	if p.fatal != nil {
		return p.fatal
	}
	return err
}

func (p *Parser) getsym() {
	tok, err := p.lexer.Next()
	if err != nil {
		if p.fatal == nil {
			p.fatal = err
		}
		// Pretend the stream ended so the caller unwinds normally.
		p.current = Token{
			Type:     TokEOF,
			Filename: p.filename,
			Line:     p.lexer.line,
			Col:      p.lexer.loc - p.lexer.lineStart,
			Span:     Span{p.lexer.loc, p.lexer.loc},
		}
		return
	}
	p.current = tok
}

func (p *Parser) accept(t TokenType) bool {
	if p.current.Type == t {
		p.getsym()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType) error {
	if p.accept(t) {
		return nil
	}
	return p.parseErr(fmt.Sprintf("Expecting %s got %s.", t, p.current.Type), p.current.Line, p.current.Col)
}

func (p *Parser) blockExpect(t TokenType, blockStart Token) error {
	if p.accept(t) {
		return nil
	}
	if p.fatal != nil {
		return p.fatal
	}
	return &BlockParseError{
		Msg:           fmt.Sprintf("Expecting %s got %s.", t, p.current.Type),
		LineText:      p.lineText(p.current.Line),
		Line:          p.current.Line,
		Col:           p.current.Col,
		StartLineText: p.lineText(blockStart.Line),
		StartLine:     blockStart.Line,
		StartCol:      blockStart.Col,
	}
}

func (p *Parser) parseErr(msg string, line, col int) error {
	if p.fatal != nil {
		return p.fatal
	}
	return &ParseError{Msg: msg, LineText: p.lineText(line), Line: line, Col: col}
}

func (p *Parser) parseErrNode(msg string, n Node) error {
	b := n.Base()
	return p.parseErr(msg, b.Line, b.Col)
}

func (p *Parser) lineText(line int) string {
	rest := p.code
	for line > 1 {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			return ""
		}
		rest = rest[i+1:]
		line--
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

/* ---------- position bookkeeping ---------- */

func (p *Parser) begin() {
	p.stack = append(p.stack, p.current)
}

func (p *Parser) beginAt(tok Token) {
	p.stack = append(p.stack, tok)
}

func (p *Parser) drop() {
	p.stack = p.stack[:len(p.stack)-1]
}

// end finalizes n with an extent from the pushed start token to the
// start of the current token and pops the position stack.
func (p *Parser) end(n Node) Node {
	p.endKeep(n)
	p.drop()
	return n
}

// endKeep is end without the pop, for left-folding loops that reuse the
// same start position for every fold.
func (p *Parser) endKeep(n Node) Node {
	tok := p.stack[len(p.stack)-1]
	b := n.Base()
	b.Filename = tok.Filename
	b.Line = tok.Line
	b.Col = tok.Col
	b.Span.Start = tok.Span.Start
	b.EndLine = p.current.Line
	b.EndCol = p.current.Col
	b.Span.End = p.current.Span.Start
	p.register(n)
	return n
}

// leaf finalizes a node whose extent is exactly one token.
func (p *Parser) leaf(n Node, tok Token) Node {
	b := n.Base()
	b.Filename = tok.Filename
	b.Line = tok.Line
	b.Col = tok.Col
	b.Span = tok.Span
	b.EndLine = tok.Line
	b.EndCol = tok.Col + (tok.Span.End - tok.Span.Start)
	p.register(n)
	return n
}

// spanFrom finalizes n with an extent from an already parsed node to the
// start of the current token.
func (p *Parser) spanFrom(n Node, from Node) Node {
	fb := from.Base()
	b := n.Base()
	b.Filename = fb.Filename
	b.Line = fb.Line
	b.Col = fb.Col
	b.Span.Start = fb.Span.Start
	b.EndLine = p.current.Line
	b.EndCol = p.current.Col
	b.Span.End = p.current.Span.Start
	p.register(n)
	return n
}

func (p *Parser) register(n Node) {
	p.nodes = append(p.nodes, n)
}

/* ---------- grammar rules ---------- */

func (p *Parser) statement() (Node, error) {
	return p.e1()
}

func (p *Parser) e1() (Node, error) {
	p.begin()
	left, err := p.e2()
	if err != nil {
		return nil, err
	}
	switch {
	case p.accept(TokPlusAssign):
		value, err := p.e1()
		if err != nil {
			return nil, err
		}
		id, ok := left.(*IdNode)
		if !ok {
			return nil, p.parseErrNode("Plusassignment target must be an id.", left)
		}
		return p.end(&PlusAssignmentNode{VarName: id.Value, Value: value}), nil
	case p.accept(TokAssign):
		value, err := p.e1()
		if err != nil {
			return nil, err
		}
		id, ok := left.(*IdNode)
		if !ok {
			return nil, p.parseErrNode("Assignment target must be an id.", left)
		}
		return p.end(&AssignmentNode{VarName: id.Value, Value: value}), nil
	case p.accept(TokQuestion):
		if p.inTernary {
			return nil, p.parseErrNode("Nested ternary operators are not allowed.", left)
		}
		p.inTernary = true
		trueBlock, err := p.e1()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokColon); err != nil {
			return nil, err
		}
		falseBlock, err := p.e1()
		if err != nil {
			return nil, err
		}
		p.inTernary = false
		return p.end(&TernaryNode{Condition: left, TrueBlock: trueBlock, FalseBlock: falseBlock}), nil
	}
	p.drop()
	return left, nil
}

func (p *Parser) e2() (Node, error) {
	p.begin()
	left, err := p.e3()
	if err != nil {
		return nil, err
	}
	for p.accept(TokOr) {
		if _, empty := left.(*EmptyNode); empty {
			return nil, p.parseErrNode("Invalid or clause.", left)
		}
		right, err := p.e3()
		if err != nil {
			return nil, err
		}
		left = p.endKeep(&OrNode{Left: left, Right: right})
	}
	p.drop()
	return left, nil
}

func (p *Parser) e3() (Node, error) {
	p.begin()
	left, err := p.e4()
	if err != nil {
		return nil, err
	}
	for p.accept(TokAnd) {
		if _, empty := left.(*EmptyNode); empty {
			return nil, p.parseErrNode("Invalid and clause.", left)
		}
		right, err := p.e4()
		if err != nil {
			return nil, err
		}
		left = p.endKeep(&AndNode{Left: left, Right: right})
	}
	p.drop()
	return left, nil
}

// e4 parses at most one comparison. Chained comparisons (a < b < c) are
// not part of the grammar; the second operator terminates the expression
// and trips an error one level up.
func (p *Parser) e4() (Node, error) {
	p.begin()
	left, err := p.e5()
	if err != nil {
		return nil, err
	}
	for _, c := range comparisonOps {
		if p.accept(c.tok) {
			right, err := p.e5()
			if err != nil {
				return nil, err
			}
			return p.end(&ComparisonNode{Left: left, Right: right, Op: c.op}), nil
		}
	}
	if p.accept(TokNot) {
		if err := p.expect(TokIn); err != nil {
			return nil, err
		}
		right, err := p.e5()
		if err != nil {
			return nil, err
		}
		return p.end(&ComparisonNode{Left: left, Right: right, Op: "notin"}), nil
	}
	p.drop()
	return left, nil
}

func (p *Parser) e5() (Node, error) {
	return p.e5AddSub()
}

func (p *Parser) e5AddSub() (Node, error) {
	p.begin()
	left, err := p.e5MulDiv()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.accept(TokPlus):
			op = "add"
		case p.accept(TokDash):
			op = "sub"
		default:
			p.drop()
			return left, nil
		}
		right, err := p.e5MulDiv()
		if err != nil {
			return nil, err
		}
		left = p.endKeep(&ArithmeticNode{Left: left, Right: right, Op: op})
	}
}

func (p *Parser) e5MulDiv() (Node, error) {
	p.begin()
	left, err := p.e6()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.accept(TokPercent):
			op = "mod"
		case p.accept(TokStar):
			op = "mul"
		case p.accept(TokFSlash):
			op = "div"
		default:
			p.drop()
			return left, nil
		}
		right, err := p.e6()
		if err != nil {
			return nil, err
		}
		left = p.endKeep(&ArithmeticNode{Left: left, Right: right, Op: op})
	}
}

func (p *Parser) e6() (Node, error) {
	opTok := p.current
	if p.accept(TokNot) {
		p.beginAt(opTok)
		operand, err := p.e7()
		if err != nil {
			return nil, err
		}
		return p.end(&NotNode{Value: operand}), nil
	}
	if p.accept(TokDash) {
		p.beginAt(opTok)
		operand, err := p.e7()
		if err != nil {
			return nil, err
		}
		return p.end(&UMinusNode{Value: operand}), nil
	}
	return p.e7()
}

func (p *Parser) e7() (Node, error) {
	left, err := p.e8()
	if err != nil {
		return nil, err
	}
	blockStart := p.current
	if p.accept(TokLParen) {
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokRParen, blockStart); err != nil {
			return nil, err
		}
		id, ok := left.(*IdNode)
		if !ok {
			return nil, p.parseErrNode("Function call must be applied to plain id", left)
		}
		left = p.spanFrom(&FunctionNode{FuncName: id.Value, Args: args}, left)
	}
	for {
		if p.accept(TokDot) {
			left, err = p.methodCall(left)
			if err != nil {
				return nil, err
			}
			continue
		}
		if p.accept(TokLBracket) {
			left, err = p.indexCall(left)
			if err != nil {
				return nil, err
			}
			continue
		}
		return left, nil
	}
}

func (p *Parser) e8() (Node, error) {
	p.begin()
	blockStart := p.current
	if p.accept(TokLParen) {
		inner, err := p.statement()
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokRParen, blockStart); err != nil {
			return nil, err
		}
		return p.end(&ParenthesizedNode{Inner: inner}), nil
	}
	if p.accept(TokLBracket) {
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokRBracket, blockStart); err != nil {
			return nil, err
		}
		return p.end(&ArrayNode{Args: args}), nil
	}
	if p.accept(TokLCurl) {
		args, err := p.keyValues()
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokRCurl, blockStart); err != nil {
			return nil, err
		}
		return p.end(&DictNode{Args: args}), nil
	}
	p.drop()
	return p.e9()
}

func (p *Parser) e9() (Node, error) {
	t := p.current
	switch {
	case p.accept(TokTrue):
		return p.leaf(&BooleanNode{Value: true}, t), nil
	case p.accept(TokFalse):
		return p.leaf(&BooleanNode{}, t), nil
	case p.accept(TokID):
		return p.leaf(&IdNode{Value: t.Value.Str}, t), nil
	case p.accept(TokNumber):
		return p.leaf(&NumberNode{Value: t.Value.Int}, t), nil
	case p.accept(TokString):
		return p.leaf(&StringNode{Value: t.Value.Str}, t), nil
	case p.accept(TokFString):
		return p.leaf(&FormatStringNode{Value: t.Value.Str}, t), nil
	case p.accept(TokMultilineFString):
		return p.leaf(&MultilineFormatStringNode{Value: t.Value.Str}, t), nil
	}
	n := &EmptyNode{NodeBase: newBase(t)}
	n.Span = Span{t.Span.Start, t.Span.Start}
	p.register(n)
	return n, nil
}

// keyValues parses dict entries. Any expression may serve as a key here;
// key validity is an evaluation concern, not a syntactic one.
func (p *Parser) keyValues() (*ArgumentNode, error) {
	p.begin()
	a := &ArgumentNode{}
	s, err := p.statement()
	if err != nil {
		return nil, err
	}
	for {
		if _, empty := s.(*EmptyNode); empty {
			break
		}
		if !p.accept(TokColon) {
			return nil, p.parseErrNode("Only key:value pairs are valid in dict construction.", s)
		}
		value, err := p.statement()
		if err != nil {
			return nil, err
		}
		a.SetKwargNoCheck(s, value)
		potential := p.current
		if !p.accept(TokComma) {
			break
		}
		a.Commas = append(a.Commas, potential)
		s, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	p.end(a)
	return a, nil
}

func (p *Parser) args() (*ArgumentNode, error) {
	p.begin()
	a := &ArgumentNode{}
	if err := p.argsInner(a); err != nil {
		return nil, err
	}
	p.end(a)
	if a.IncorrectOrder() {
		p.warn.Warn("positional argument after keyword argument",
			Location{Filename: a.Filename, Line: a.Line, Col: a.Col})
	}
	return a, nil
}

func (p *Parser) argsInner(a *ArgumentNode) error {
	s, err := p.statement()
	if err != nil {
		return err
	}
	for {
		if _, empty := s.(*EmptyNode); empty {
			return nil
		}
		potential := p.current
		switch {
		case p.accept(TokComma):
			a.Commas = append(a.Commas, potential)
			a.Append(s)
		case p.accept(TokColon):
			key, ok := s.(*IdNode)
			if !ok {
				return p.parseErrNode("Dictionary key must be a plain identifier.", s)
			}
			value, err := p.statement()
			if err != nil {
				return err
			}
			a.SetKwarg(key, value, p.warn)
			potential = p.current
			if !p.accept(TokComma) {
				return nil
			}
			a.Commas = append(a.Commas, potential)
		default:
			a.Append(s)
			return nil
		}
		s, err = p.statement()
		if err != nil {
			return err
		}
	}
}

func (p *Parser) methodCall(source Node) (Node, error) {
	name, err := p.e9()
	if err != nil {
		return nil, err
	}
	id, ok := name.(*IdNode)
	if !ok {
		return nil, p.parseErrNode("Method name must be plain id", name)
	}
	if err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	args, err := p.args()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	method := p.spanFrom(&MethodNode{Object: source, Name: id.Value, Args: args}, source)
	if p.accept(TokDot) {
		return p.methodCall(method)
	}
	return method, nil
}

func (p *Parser) indexCall(source Node) (Node, error) {
	index, err := p.statement()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRBracket); err != nil {
		return nil, err
	}
	return p.spanFrom(&IndexNode{Object: source, Index: index}, source), nil
}

// foreachBlock parses everything between the foreach keyword, already
// consumed and passed as start, and the body's last line.
func (p *Parser) foreachBlock(start Token) (Node, error) {
	p.beginAt(start)
	t := p.current
	if err := p.expect(TokID); err != nil {
		return nil, err
	}
	varnames := []string{t.Value.Str}
	if p.accept(TokComma) {
		t = p.current
		if err := p.expect(TokID); err != nil {
			return nil, err
		}
		varnames = append(varnames, t.Value.Str)
	}
	if err := p.expect(TokColon); err != nil {
		return nil, err
	}
	items, err := p.statement()
	if err != nil {
		return nil, err
	}
	block, err := p.codeblock()
	if err != nil {
		return nil, err
	}
	return p.end(&ForeachClauseNode{VarNames: varnames, Items: items, Block: block}), nil
}

// ifBlock parses the whole if/elif/else/endif construct except the
// closing endif. start is the already consumed if keyword.
func (p *Parser) ifBlock(start Token) (Node, error) {
	p.beginAt(start)
	clause := &IfClauseNode{}
	arm, err := p.ifArm(start)
	if err != nil {
		return nil, err
	}
	clause.Ifs = append(clause.Ifs, arm)
	for {
		elifTok := p.current
		if !p.accept(TokElif) {
			break
		}
		arm, err := p.ifArm(elifTok)
		if err != nil {
			return nil, err
		}
		clause.Ifs = append(clause.Ifs, arm)
	}
	elseBlock, err := p.elseBlock()
	if err != nil {
		return nil, err
	}
	clause.ElseBlock = elseBlock
	p.end(clause)
	return clause, nil
}

// ifArm parses one condition plus its body. start is the if or elif
// keyword introducing the arm.
func (p *Parser) ifArm(start Token) (*IfNode, error) {
	p.beginAt(start)
	condition, err := p.statement()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokEOL); err != nil {
		return nil, err
	}
	block, err := p.codeblock()
	if err != nil {
		return nil, err
	}
	n := &IfNode{Condition: condition, Block: block}
	p.end(n)
	return n, nil
}

func (p *Parser) elseBlock() (Node, error) {
	if p.accept(TokElse) {
		if err := p.expect(TokEOL); err != nil {
			return nil, err
		}
		return p.codeblock()
	}
	n := &EmptyNode{NodeBase: newBase(p.current)}
	n.Span = Span{p.current.Span.Start, p.current.Span.Start}
	p.register(n)
	return n, nil
}

func (p *Parser) line() (Node, error) {
	blockStart := p.current
	if p.current.Type == TokEOL {
		n := &EmptyNode{NodeBase: newBase(p.current)}
		n.Span = Span{p.current.Span.Start, p.current.Span.Start}
		p.register(n)
		return n, nil
	}
	if p.accept(TokIf) {
		block, err := p.ifBlock(blockStart)
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokEndif, blockStart); err != nil {
			return nil, err
		}
		return block, nil
	}
	if p.accept(TokForeach) {
		block, err := p.foreachBlock(blockStart)
		if err != nil {
			return nil, err
		}
		if err := p.blockExpect(TokEndforeach, blockStart); err != nil {
			return nil, err
		}
		return block, nil
	}
	t := p.current
	if p.accept(TokContinue) {
		return p.leaf(&ContinueNode{}, t), nil
	}
	if p.accept(TokBreak) {
		return p.leaf(&BreakNode{}, t), nil
	}
	return p.statement()
}

func (p *Parser) codeblock() (*CodeBlockNode, error) {
	p.begin()
	block := &CodeBlockNode{}
	for {
		line, err := p.line()
		if err != nil {
			return nil, err
		}
		if _, empty := line.(*EmptyNode); !empty {
			block.Lines = append(block.Lines, line)
		}
		if !p.accept(TokEOL) {
			break
		}
	}
	p.end(block)
	return block, nil
}
