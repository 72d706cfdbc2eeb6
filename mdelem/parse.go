package mdelem

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("markdown input is not valid UTF-8")

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
)

// Parse builds a Doc from Markdown source. Headings are folded into nested
// sections and front matter, if present, becomes the first root.
func Parse(src string) (*Doc, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidUTF8
	}

	fm, body := splitFrontMatter(src)
	source := []byte(body)

	pctx := &orderedContext{Context: parser.NewContext(), seen: make(map[string]bool)}
	root := markdown.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	c := &converter{src: source, footnotes: make(map[int]string)}
	c.indexFootnotes(root)

	doc := &Doc{}
	if fm != nil {
		doc.Roots = append(doc.Roots, fm)
	}
	doc.Roots = append(doc.Roots, c.blocks(root)...)
	doc.Footnotes = c.footnoteDefs
	doc.Links = linkDefinitions(pctx.refs)
	return doc, nil
}

// orderedContext records link reference definitions in the order the
// parser meets them. As in goldmark, the first definition of a label wins.
type orderedContext struct {
	parser.Context
	seen map[string]bool
	refs []parser.Reference
}

func (c *orderedContext) AddReference(ref parser.Reference) {
	key := util.ToLinkReference(ref.Label())
	if !c.seen[key] {
		c.seen[key] = true
		c.refs = append(c.refs, ref)
	}
	c.Context.AddReference(ref)
}

func linkDefinitions(refs []parser.Reference) []LinkDefinition {
	defs := make([]LinkDefinition, 0, len(refs))
	for _, ref := range refs {
		defs = append(defs, LinkDefinition{
			Label:       string(ref.Label()),
			Destination: string(ref.Destination()),
			Title:       string(ref.Title()),
		})
	}
	return defs
}

type converter struct {
	src          []byte
	footnotes    map[int]string // footnote index -> label
	footnoteDefs []FootnoteDefinition
}

func (c *converter) indexFootnotes(root ast.Node) {
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			c.footnotes[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
}

// blocks converts the block children of parent, grouping them under the
// headings that precede them.
func (c *converter) blocks(parent ast.Node) []Node {
	var out []Node
	var stack []*Section

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*extast.FootnoteList); ok {
			c.collectFootnotes(list)
			continue
		}

		if h, ok := n.(*ast.Heading); ok {
			section := &Section{Depth: h.Level, Title: c.inlines(h)}
			for len(stack) > 0 && stack[len(stack)-1].Depth >= h.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				out = append(out, section)
			} else {
				top := stack[len(stack)-1]
				top.Body = append(top.Body, section)
			}
			stack = append(stack, section)
			continue
		}

		block := c.block(n)
		if block == nil {
			continue
		}
		if len(stack) == 0 {
			out = append(out, block)
		} else {
			top := stack[len(stack)-1]
			top.Body = append(top.Body, block)
		}
	}
	return out
}

func (c *converter) collectFootnotes(list *extast.FootnoteList) {
	for n := list.FirstChild(); n != nil; n = n.NextSibling() {
		fn, ok := n.(*extast.Footnote)
		if !ok {
			continue
		}
		c.footnoteDefs = append(c.footnoteDefs, FootnoteDefinition{
			Label:    string(fn.Ref),
			Children: c.blocks(fn),
		})
	}
}

func (c *converter) block(n ast.Node) Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		// left behind when every line was a link reference definition
		if n.Lines().Len() == 0 && n.ChildCount() == 0 {
			return nil
		}
		return &Paragraph{Inlines: c.inlines(n)}
	case *ast.TextBlock:
		return &Paragraph{Inlines: c.inlines(n)}
	case *ast.List:
		return c.list(n)
	case *ast.Blockquote:
		return &BlockQuote{Children: c.blocks(n)}
	case *ast.FencedCodeBlock:
		cb := &CodeBlock{Value: c.lines(n), Fenced: true}
		if n.Info != nil {
			info := strings.TrimSpace(string(n.Info.Segment.Value(c.src)))
			lang, meta, _ := strings.Cut(info, " ")
			cb.Language = lang
			cb.Metadata = strings.TrimSpace(meta)
		}
		return cb
	case *ast.CodeBlock:
		return &CodeBlock{Value: c.lines(n)}
	case *ast.HTMLBlock:
		value := c.lines(n)
		if n.HasClosure() {
			value += string(n.ClosureLine.Value(c.src))
		}
		return &HTMLBlock{Value: strings.TrimRight(value, "\n")}
	case *ast.ThematicBreak:
		return &ThematicBreak{}
	case *extast.Table:
		return c.table(n)
	}
	return nil
}

func (c *converter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

func (c *converter) list(n *ast.List) *List {
	list := &List{Ordered: n.IsOrdered(), Start: n.Start}
	number := n.Start
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		li, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		item := &ListItem{Ordered: list.Ordered}
		if list.Ordered {
			item.Number = number
			number++
		}
		if box := taskCheckBox(li); box != nil {
			checked := box.IsChecked
			item.Checked = &checked
		}
		item.Children = c.blocks(li)
		list.Items = append(list.Items, item)
	}
	return list
}

func taskCheckBox(li *ast.ListItem) *extast.TaskCheckBox {
	first := li.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*extast.TaskCheckBox)
	return box
}

func (c *converter) table(n *extast.Table) *Table {
	t := &Table{}
	for _, a := range n.Alignments {
		switch a {
		case extast.AlignLeft:
			t.Alignments = append(t.Alignments, AlignLeft)
		case extast.AlignCenter:
			t.Alignments = append(t.Alignments, AlignCenter)
		case extast.AlignRight:
			t.Alignments = append(t.Alignments, AlignRight)
		default:
			t.Alignments = append(t.Alignments, AlignNone)
		}
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells [][]Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, c.inlines(cell))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// inlines converts the inline children of parent. Adjacent plain text is
// merged.
func (c *converter) inlines(parent ast.Node) []Node {
	var out []Node
	trimNext := false
	appendText := func(value string) {
		if trimNext {
			value = strings.TrimLeft(value, " \t")
			trimNext = false
		}
		if value == "" {
			return
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok && prev.Variant == TextPlain {
				prev.Value += value
				return
			}
		}
		out = append(out, &Text{Variant: TextPlain, Value: value})
	}

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			value := string(n.Value(c.src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				value += "\n"
			}
			appendText(value)
		case *ast.String:
			appendText(string(n.Value))
		case *ast.CodeSpan:
			out = append(out, &Text{Variant: TextCode, Value: c.rawText(n)})
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				buf.Write(seg.Value(c.src))
			}
			out = append(out, &Text{Variant: TextHTML, Value: buf.String()})
		case *ast.Emphasis:
			variant := SpanEmphasis
			if n.Level >= 2 {
				variant = SpanStrong
			}
			out = append(out, &Span{Variant: variant, Children: c.inlines(n)})
		case *extast.Strikethrough:
			out = append(out, &Span{Variant: SpanDelete, Children: c.inlines(n)})
		case *ast.Link:
			textNodes := c.inlines(n)
			out = append(out, &Link{
				Text:        textNodes,
				Destination: string(n.Destination),
				Title:       string(n.Title),
				Ref:         c.linkRef(n, PlainText(textNodes...)),
			})
		case *ast.Image:
			alt := PlainText(c.inlines(n)...)
			out = append(out, &Image{
				Alt:         alt,
				Destination: string(n.Destination),
				Title:       string(n.Title),
				Ref:         c.linkRef(n, alt),
			})
		case *ast.AutoLink:
			out = append(out, &Link{
				Text:        []Node{&Text{Variant: TextPlain, Value: string(n.Label(c.src))}},
				Destination: string(n.URL(c.src)),
				Ref:         LinkRef{Style: LinkAutolink},
			})
		case *extast.FootnoteLink:
			out = append(out, &FootnoteRef{Label: c.footnotes[n.Index]})
		case *extast.FootnoteBacklink:
		case *extast.TaskCheckBox:
			trimNext = true
		default:
			out = append(out, c.inlines(n)...)
		}
	}
	return out
}

func (c *converter) rawText(n ast.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Value(c.src))
		}
	}
	return buf.String()
}

// linkRef recovers the reference style of a link or image from the source
// that follows its text. goldmark resolves references without recording
// how they were written.
func (c *converter) linkRef(n ast.Node, text string) LinkRef {
	stop := lastTextStop(n)
	if stop < 0 || stop > len(c.src) {
		return LinkRef{Style: LinkInline}
	}
	bracket := bytes.IndexByte(c.src[stop:], ']')
	if bracket < 0 {
		return LinkRef{Style: LinkInline}
	}
	rest := c.src[stop+bracket+1:]
	switch {
	case bytes.HasPrefix(rest, []byte("(")):
		return LinkRef{Style: LinkInline}
	case bytes.HasPrefix(rest, []byte("[]")):
		return LinkRef{Style: LinkCollapsed, Label: text}
	case bytes.HasPrefix(rest, []byte("[")):
		end := bytes.IndexByte(rest, ']')
		if end < 0 {
			return LinkRef{Style: LinkShortcut, Label: text}
		}
		return LinkRef{Style: LinkFull, Label: string(rest[1:end])}
	default:
		return LinkRef{Style: LinkShortcut, Label: text}
	}
}

// lastTextStop returns the end offset of the last text segment under n, or
// -1 if n has no text.
func lastTextStop(n ast.Node) int {
	stop := -1
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := child.(*ast.Text); ok && entering && t.Segment.Stop > stop {
			stop = t.Segment.Stop
		}
		return ast.WalkContinue, nil
	})
	return stop
}
