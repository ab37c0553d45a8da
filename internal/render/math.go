package render

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathBlock is a $$ fenced display formula on lines of its own.
var KindMathBlock = ast.NewNodeKind("MathBlock")

type MathBlock struct {
	ast.BaseBlock
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// KindMathInline is $x$ (Display false) or $$x$$ inside a paragraph.
var KindMathInline = ast.NewNodeKind("MathInline")

type MathInline struct {
	ast.BaseInline
	Display bool
}

func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

func (n *MathInline) IsBlank(source []byte) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		seg := c.(*ast.Text).Segment
		if !util.IsBlank(seg.Value(source)) {
			return false
		}
	}
	return true
}

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (p *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !isFence(line[pos:]) {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - newline(line))
	return &MathBlock{}, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	if w, pos := util.IndentWidth(line, reader.LineOffset()); w < 4 && isFence(line[pos:]) {
		reader.Advance(segment.Len() - newline(line))
		return parser.Close
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - newline(line))
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *mathBlockParser) CanInterruptParagraph() bool { return true }

func (p *mathBlockParser) CanAcceptIndentedLine() bool { return false }

// newline is 1 when line ends in '\n'; the last line of a source may not.
func newline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

// isFence: a line that is exactly "$$" apart from surrounding blanks.
func isFence(line []byte) bool {
	return len(line) >= 2 && line[0] == '$' && line[1] == '$' && util.IsBlank(line[2:])
}

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

// Parse follows the code span scan: the closing run must have the same
// length as the opening one and may sit on a later line of the paragraph.
func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, start := block.PeekLine()
	opener := 0
	for ; opener < len(line) && line[opener] == '$'; opener++ {
	}
	if opener > 2 {
		return nil
	}
	block.Advance(opener)
	l, pos := block.Position()
	node := &MathInline{Display: opener == 2}
	for {
		line, segment := block.PeekLine()
		if line == nil {
			block.SetPosition(l, pos)
			return ast.NewTextSegment(start.WithStop(start.Start + opener))
		}
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c == '\\' && i+1 < len(line) && line[i+1] == '$' {
				i++
				continue
			}
			if c != '$' {
				continue
			}
			oldi := i
			for ; i < len(line) && line[i] == '$'; i++ {
			}
			if i-oldi != opener {
				continue
			}
			inner := segment.WithStop(segment.Start + oldi)
			if !inner.IsEmpty() {
				node.AppendChild(node, ast.NewRawTextSegment(inner))
			}
			block.Advance(i)
			if node.ChildCount() == 0 || node.IsBlank(block.Source()) {
				block.SetPosition(l, pos)
				return ast.NewTextSegment(start.WithStop(start.Start + opener))
			}
			return node
		}
		node.AppendChild(node, ast.NewRawTextSegment(segment))
		block.AdvanceLine()
	}
}

type mathExtension struct{}

// Math adds $…$ and $$…$$ notation. Formulas are emitted as escaped TeX
// between \( \) or \[ \] delimiters for KaTeX to typeset in the browser.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 90)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 90)),
	)
}
