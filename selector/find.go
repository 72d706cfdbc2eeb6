package selector

import (
	"fmt"

	"github.com/arfbllh/mdq/mdelem"
)

// FindNodes applies the chain to doc and returns the selected nodes in
// document order together with the definitions needed to render them.
//
// Each selector searches the working set's subtrees, the working nodes
// included, and does not descend into a node it has selected. A step that
// selects nothing leaves the rest of the chain with nothing to search; that
// is an empty result, not an error.
func (c Chain) FindNodes(doc *mdelem.Doc) ([]mdelem.Node, *Context, error) {
	if len(c) == 0 {
		return nil, nil, &MatchError{Reason: "empty selector chain"}
	}
	if doc == nil {
		return nil, nil, &MatchError{Reason: "no document"}
	}

	working := doc.Roots
	for _, sel := range c {
		var err error
		working, err = step(sel, working)
		if err != nil {
			return nil, nil, err
		}
	}
	return working, newContext(doc, working), nil
}

func step(sel Selector, nodes []mdelem.Node) ([]mdelem.Node, error) {
	if sel == nil {
		return nil, &MatchError{Reason: "nil selector"}
	}

	var out []mdelem.Node
	seen := make(map[mdelem.Node]bool)

	var walk func(n mdelem.Node) error
	walk = func(n mdelem.Node) error {
		selected, ok, err := match(sel, n)
		if err != nil {
			return err
		}
		if ok {
			if !seen[n] {
				seen[n] = true
				out = append(out, selected)
			}
			return nil
		}
		for _, child := range mdelem.Children(n) {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, n := range nodes {
		if err := walk(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// match tests n against sel. The returned node is n itself, or a rewritten
// copy for link replacements and table slices.
func match(sel Selector, n mdelem.Node) (mdelem.Node, bool, error) {
	switch sel := sel.(type) {
	case SectionSelector:
		s, ok := n.(*mdelem.Section)
		return n, ok && sel.Title.Matches(mdelem.PlainText(s.Title...)), nil

	case ListItemSelector:
		item, ok := n.(*mdelem.ListItem)
		if !ok || item.Ordered != sel.Ordered || !taskMatches(sel.Task, item.Checked) {
			return n, false, nil
		}
		return n, sel.Text.Matches(mdelem.PlainText(item)), nil

	case LinkSelector:
		return matchLink(sel, n)

	case BlockQuoteSelector:
		bq, ok := n.(*mdelem.BlockQuote)
		return n, ok && sel.Text.Matches(mdelem.PlainText(bq)), nil

	case CodeBlockSelector:
		cb, ok := n.(*mdelem.CodeBlock)
		return n, ok && sel.Language.Matches(cb.Language) && sel.Contents.Matches(cb.Value), nil

	case FrontMatterSelector:
		fm, ok := n.(*mdelem.FrontMatter)
		return n, ok && sel.Variant.Matches(fm.Variant.String()) && sel.Text.Matches(fm.Body), nil

	case HTMLSelector:
		switch h := n.(type) {
		case *mdelem.HTMLBlock:
			return n, sel.HTML.Matches(h.Value), nil
		case *mdelem.Text:
			return n, h.Variant == mdelem.TextHTML && sel.HTML.Matches(h.Value), nil
		}
		return n, false, nil

	case ParagraphSelector:
		p, ok := n.(*mdelem.Paragraph)
		return n, ok && sel.Text.Matches(mdelem.PlainText(p)), nil

	case TableSelector:
		t, ok := n.(*mdelem.Table)
		if !ok {
			return n, false, nil
		}
		view, ok := sliceTable(sel, t)
		return view, ok, nil
	}
	return nil, false, &MatchError{Reason: fmt.Sprintf("unknown selector %T", sel)}
}

func taskMatches(want TaskState, checked *bool) bool {
	switch want {
	case TaskChecked:
		return checked != nil && *checked
	case TaskUnchecked:
		return checked != nil && !*checked
	case TaskEither:
		return checked != nil
	default:
		return true
	}
}

func matchLink(sel LinkSelector, n mdelem.Node) (mdelem.Node, bool, error) {
	if sel.Image {
		img, ok := n.(*mdelem.Image)
		if !ok || !sel.Text.Matches(img.Alt) || !sel.URL.Matches(img.Destination) {
			return n, false, nil
		}
		alt, altChanged := sel.Text.Replace(img.Alt)
		dest, destChanged := sel.URL.Replace(img.Destination)
		if !altChanged && !destChanged {
			return n, true, nil
		}
		rewritten := *img
		rewritten.Alt, rewritten.Destination = alt, dest
		return &rewritten, true, nil
	}

	link, ok := n.(*mdelem.Link)
	if !ok {
		return n, false, nil
	}
	text := mdelem.PlainText(link.Text...)
	if !sel.Text.Matches(text) || !sel.URL.Matches(link.Destination) {
		return n, false, nil
	}
	newText, textChanged := sel.Text.Replace(text)
	dest, destChanged := sel.URL.Replace(link.Destination)
	if !textChanged && !destChanged {
		return n, true, nil
	}
	rewritten := *link
	if textChanged {
		rewritten.Text = []mdelem.Node{&mdelem.Text{Variant: mdelem.TextPlain, Value: newText}}
	}
	rewritten.Destination = dest
	return &rewritten, true, nil
}

// sliceTable keeps the columns whose header matches and, when a row matcher
// is given, the rows with at least one kept cell matching it. The header row
// is always kept.
func sliceTable(sel TableSelector, t *mdelem.Table) (*mdelem.Table, bool) {
	if len(t.Rows) == 0 {
		return nil, false
	}

	var cols []int
	for i, cell := range t.Rows[0] {
		if sel.Column.Matches(mdelem.PlainText(cell...)) {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, false
	}

	view := &mdelem.Table{}
	for _, i := range cols {
		align := mdelem.AlignNone
		if i < len(t.Alignments) {
			align = t.Alignments[i]
		}
		view.Alignments = append(view.Alignments, align)
	}
	view.Rows = append(view.Rows, pickCells(t.Rows[0], cols))

	matched := 0
	for _, row := range t.Rows[1:] {
		kept := pickCells(row, cols)
		if sel.Row.IsAny() || anyCellMatches(sel.Row, kept) {
			view.Rows = append(view.Rows, kept)
			matched++
		}
	}
	if !sel.Row.IsAny() && matched == 0 {
		return nil, false
	}
	return view, true
}

func pickCells(row [][]mdelem.Node, cols []int) [][]mdelem.Node {
	out := make([][]mdelem.Node, len(cols))
	for j, i := range cols {
		if i < len(row) {
			out[j] = row[i]
		}
	}
	return out
}

func anyCellMatches(m Matcher, cells [][]mdelem.Node) bool {
	for _, cell := range cells {
		if m.Matches(mdelem.PlainText(cell...)) {
			return true
		}
	}
	return false
}
