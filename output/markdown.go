package output

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arfbllh/mdq/mdelem"
)

const thematicBreak = "   -----"

// MarkdownWriter renders nodes back to Markdown. Reference definitions used
// by the rendered nodes are written after them, according to the placement
// options.
type MarkdownWriter struct {
	Options Options
}

func (w MarkdownWriter) Write(out io.Writer, nodes []mdelem.Node, defs Definitions) error {
	r := newRenderer(w.Options, defs)

	sep := "\n\n"
	if w.Options.Breaks {
		sep = "\n\n" + thematicBreak + "\n\n"
	}

	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, r.block(n))
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(parts, sep))
	if tail := r.definitions(true, true); tail != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(tail)
	}
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// renderer turns nodes into Markdown text and tracks which definitions the
// text refers to.
type renderer struct {
	opts Options
	defs Definitions

	links     []mdelem.LinkDefinition
	footnotes []string

	seenLinks     map[string]bool
	seenFootnotes map[string]bool
	synthetic     map[string]string // destination and title -> generated label
	nextLabel     int
}

func newRenderer(opts Options, defs Definitions) *renderer {
	return &renderer{
		opts:          opts,
		defs:          defs,
		seenLinks:     make(map[string]bool),
		seenFootnotes: make(map[string]bool),
		synthetic:     make(map[string]string),
	}
}

func (r *renderer) lookupLink(label string) (mdelem.LinkDefinition, bool) {
	if r.defs == nil {
		return mdelem.LinkDefinition{}, false
	}
	return r.defs.Link(label)
}

func (r *renderer) lookupFootnote(label string) (mdelem.FootnoteDefinition, bool) {
	if r.defs == nil {
		return mdelem.FootnoteDefinition{}, false
	}
	return r.defs.Footnote(label)
}

func (r *renderer) useLink(label string) {
	key := mdelem.NormalizeLabel(label)
	if r.seenLinks[key] {
		return
	}
	r.seenLinks[key] = true
	if def, ok := r.lookupLink(label); ok {
		r.links = append(r.links, def)
	}
}

func (r *renderer) useFootnote(label string) {
	key := mdelem.NormalizeLabel(label)
	if r.seenFootnotes[key] {
		return
	}
	r.seenFootnotes[key] = true
	if _, ok := r.lookupFootnote(label); ok {
		r.footnotes = append(r.footnotes, label)
	}
}

// referenceFor returns a numbered label for an inline destination, reusing
// the label when the same destination appears again.
func (r *renderer) referenceFor(dest, title string) string {
	key := dest + "\x00" + title
	if label, ok := r.synthetic[key]; ok {
		return label
	}
	for {
		r.nextLabel++
		label := strconv.Itoa(r.nextLabel)
		if _, taken := r.lookupLink(label); taken || r.seenLinks[label] {
			continue
		}
		r.synthetic[key] = label
		r.seenLinks[label] = true
		r.links = append(r.links, mdelem.LinkDefinition{Label: label, Destination: dest, Title: title})
		return label
	}
}

// definitions renders and clears the pending definitions. Footnote bodies
// may refer to further footnotes and links; those are drained too.
func (r *renderer) definitions(links, footnotes bool) string {
	var notes []string
	if footnotes {
		for len(r.footnotes) > 0 {
			label := r.footnotes[0]
			r.footnotes = r.footnotes[1:]
			def, _ := r.lookupFootnote(label)
			notes = append(notes, indentRest("[^"+label+"]: "+r.blocks(def.Children), "    "))
		}
	}

	var parts []string
	if links && len(r.links) > 0 {
		lines := make([]string, len(r.links))
		for i, def := range r.links {
			lines[i] = "[" + def.Label + "]: " + destination(def.Destination) + title(def.Title)
		}
		r.links = nil
		parts = append(parts, strings.Join(lines, "\n"))
	}
	parts = append(parts, notes...)
	return strings.Join(parts, "\n\n")
}

func (r *renderer) blocks(nodes []mdelem.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, r.block(n))
	}
	return strings.Join(parts, "\n\n")
}

func (r *renderer) block(n mdelem.Node) string {
	switch n := n.(type) {
	case *mdelem.Section:
		out := strings.TrimRight(strings.Repeat("#", n.Depth)+" "+r.inlines(n.Title), " ")
		if body := r.blocks(n.Body); body != "" {
			out += "\n\n" + body
		}
		if defs := r.definitions(r.opts.LinkPos == PlaceSection, r.opts.FootnotePos == PlaceSection); defs != "" {
			out += "\n\n" + defs
		}
		return out

	case *mdelem.Paragraph:
		return r.inlines(n.Inlines)

	case *mdelem.List:
		items := make([]string, len(n.Items))
		loose := false
		for i, item := range n.Items {
			marker := "-"
			if n.Ordered {
				marker = strconv.Itoa(n.Start+i) + "."
			}
			items[i] = r.listItem(marker, item)
			loose = loose || len(item.Children) > 1
		}
		if loose {
			return strings.Join(items, "\n\n")
		}
		return strings.Join(items, "\n")

	case *mdelem.ListItem:
		marker := "-"
		if n.Ordered {
			marker = strconv.Itoa(n.Number) + "."
		}
		return r.listItem(marker, n)

	case *mdelem.BlockQuote:
		lines := strings.Split(r.blocks(n.Children), "\n")
		for i, line := range lines {
			if line == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + line
			}
		}
		return strings.Join(lines, "\n")

	case *mdelem.CodeBlock:
		return codeBlock(n)

	case *mdelem.FrontMatter:
		fence := "---"
		if n.Variant == mdelem.FrontMatterTOML {
			fence = "+++"
		}
		if n.Body == "" {
			return fence + "\n" + fence
		}
		return fence + "\n" + strings.TrimSuffix(n.Body, "\n") + "\n" + fence

	case *mdelem.HTMLBlock:
		return strings.TrimRight(n.Value, "\n")

	case *mdelem.Table:
		return r.table(n)

	case *mdelem.ThematicBreak:
		return thematicBreak
	}
	return r.inlines([]mdelem.Node{n})
}

func (r *renderer) listItem(marker string, item *mdelem.ListItem) string {
	prefix := marker + " "
	if item.Checked != nil {
		if *item.Checked {
			prefix += "[x] "
		} else {
			prefix += "[ ] "
		}
	}
	body := r.blocks(item.Children)
	if body == "" {
		return strings.TrimRight(prefix, " ")
	}
	return indentRest(prefix+body, strings.Repeat(" ", len(marker)+1))
}

func codeBlock(n *mdelem.CodeBlock) string {
	value := strings.TrimSuffix(n.Value, "\n")
	if !n.Fenced {
		return indentAll(value, "    ")
	}
	fence := strings.Repeat("`", max(3, longestRun(n.Value, '`')+1))
	info := strings.TrimSpace(n.Language + " " + n.Metadata)
	if value == "" {
		return fence + info + "\n" + fence
	}
	return fence + info + "\n" + value + "\n" + fence
}

func (r *renderer) table(t *mdelem.Table) string {
	cols := len(t.Alignments)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 || len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	cells := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = make([]string, cols)
		for j := 0; j < len(row) && j < cols; j++ {
			text := strings.TrimSpace(strings.ReplaceAll(r.inlines(row[j]), "|", `\|`))
			cells[i][j] = text
			widths[j] = max(widths[j], utf8.RuneCountInString(text))
		}
	}

	lines := make([]string, 0, len(cells)+1)
	for i, row := range cells {
		lines = append(lines, tableRow(row, widths))
		if i == 0 {
			lines = append(lines, alignmentRow(t.Alignments, widths))
		}
	}
	return strings.Join(lines, "\n")
}

func tableRow(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)))
		sb.WriteString(" |")
	}
	return sb.String()
}

func alignmentRow(aligns []mdelem.Alignment, widths []int) string {
	cells := make([]string, len(widths))
	for j, w := range widths {
		align := mdelem.AlignNone
		if j < len(aligns) {
			align = aligns[j]
		}
		switch align {
		case mdelem.AlignLeft:
			cells[j] = ":" + strings.Repeat("-", w-1)
		case mdelem.AlignRight:
			cells[j] = strings.Repeat("-", w-1) + ":"
		case mdelem.AlignCenter:
			cells[j] = ":" + strings.Repeat("-", w-2) + ":"
		default:
			cells[j] = strings.Repeat("-", w)
		}
	}
	return tableRow(cells, widths)
}

func (r *renderer) inlines(nodes []mdelem.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		r.inline(&sb, n)
	}
	return sb.String()
}

func (r *renderer) inline(sb *strings.Builder, n mdelem.Node) {
	switch n := n.(type) {
	case *mdelem.Text:
		if n.Variant == mdelem.TextCode {
			sb.WriteString(codeSpan(n.Value))
		} else {
			sb.WriteString(n.Value)
		}
	case *mdelem.Span:
		delim := "_"
		switch n.Variant {
		case mdelem.SpanStrong:
			delim = "**"
		case mdelem.SpanDelete:
			delim = "~~"
		}
		sb.WriteString(delim)
		sb.WriteString(r.inlines(n.Children))
		sb.WriteString(delim)
	case *mdelem.Link:
		sb.WriteString(r.link("", r.inlines(n.Text), n.Destination, n.Title, n.Ref))
	case *mdelem.Image:
		sb.WriteString(r.link("!", n.Alt, n.Destination, n.Title, n.Ref))
	case *mdelem.FootnoteRef:
		r.useFootnote(n.Label)
		sb.WriteString("[^" + n.Label + "]")
	default:
		sb.WriteString(r.block(n))
	}
}

func (r *renderer) link(bang, text, dest, ttl string, ref mdelem.LinkRef) string {
	if ref.Style == mdelem.LinkAutolink {
		return "<" + dest + ">"
	}

	inline := bang + "[" + text + "](" + destination(dest) + title(ttl) + ")"
	switch r.opts.LinkFormat {
	case LinkInlineAll:
		return inline
	case LinkNeverInline:
		if !ref.IsReference() {
			return bang + "[" + text + "][" + r.referenceFor(dest, ttl) + "]"
		}
	}

	switch ref.Style {
	case mdelem.LinkFull:
		r.useLink(ref.Label)
		return bang + "[" + text + "][" + ref.Label + "]"
	case mdelem.LinkCollapsed:
		r.useLink(ref.Label)
		return bang + "[" + text + "][]"
	case mdelem.LinkShortcut:
		r.useLink(ref.Label)
		return bang + "[" + text + "]"
	}
	return inline
}

func destination(dest string) string {
	if strings.ContainsAny(dest, " ()<>") {
		return "<" + strings.NewReplacer("<", `\<`, ">", `\>`).Replace(dest) + ">"
	}
	return dest
}

func title(t string) string {
	if t == "" {
		return ""
	}
	return ` "` + strings.ReplaceAll(t, `"`, `\"`) + `"`
}

func codeSpan(value string) string {
	fence := strings.Repeat("`", longestRun(value, '`')+1)
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") {
		return fence + " " + value + " " + fence
	}
	return fence + value + fence
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

// indentRest indents every non-empty line after the first.
func indentRest(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func indentAll(s, indent string) string {
	return indentRest(indent+s, indent)
}

// String renders nodes as Markdown with default options. Definitions are
// not included.
func String(nodes ...mdelem.Node) string {
	r := newRenderer(Options{}, nil)
	return r.blocks(nodes)
}
