package mdelem

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeLabel folds case and collapses whitespace, so that labels that
// refer to the same definition compare equal.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// PlainText flattens nodes to their textual content. Blocks are separated by
// newlines; inline formatting is dropped.
func PlainText(nodes ...Node) string {
	var sb strings.Builder
	writePlain(&sb, nodes)
	return strings.TrimRight(sb.String(), "\n")
}

func writePlain(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Value)
		case *Span:
			writePlain(sb, n.Children)
		case *Link:
			writePlain(sb, n.Text)
		case *Image:
			sb.WriteString(n.Alt)
		case *FootnoteRef:
		case *Section:
			writePlain(sb, n.Title)
			sb.WriteByte('\n')
			writePlain(sb, n.Body)
		case *Paragraph:
			writePlain(sb, n.Inlines)
			sb.WriteByte('\n')
		case *List:
			for _, item := range n.Items {
				writePlain(sb, item.Children)
			}
		case *ListItem:
			writePlain(sb, n.Children)
		case *BlockQuote:
			writePlain(sb, n.Children)
		case *CodeBlock:
			sb.WriteString(n.Value)
			if !strings.HasSuffix(n.Value, "\n") {
				sb.WriteByte('\n')
			}
		case *FrontMatter:
			sb.WriteString(n.Body)
			sb.WriteByte('\n')
		case *HTMLBlock:
			sb.WriteString(n.Value)
			sb.WriteByte('\n')
		case *Table:
			for _, row := range n.Rows {
				cells := make([]string, len(row))
				for i, cell := range row {
					cells[i] = PlainText(cell...)
				}
				sb.WriteString(strings.Join(cells, " "))
				sb.WriteByte('\n')
			}
		case *ThematicBreak:
		}
	}
}

// Children returns the nodes directly nested in n, in document order. For a
// section that is its title followed by its body.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Section:
		out := make([]Node, 0, len(n.Title)+len(n.Body))
		out = append(out, n.Title...)
		return append(out, n.Body...)
	case *Paragraph:
		return n.Inlines
	case *List:
		out := make([]Node, len(n.Items))
		for i, item := range n.Items {
			out[i] = item
		}
		return out
	case *ListItem:
		return n.Children
	case *BlockQuote:
		return n.Children
	case *Table:
		var out []Node
		for _, row := range n.Rows {
			for _, cell := range row {
				out = append(out, cell...)
			}
		}
		return out
	case *Span:
		return n.Children
	case *Link:
		return n.Text
	}
	return nil
}
