package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arfbllh/mdq/mdelem"
)

// JSONWriter renders nodes as a JSON object:
//
//	{"items": [...], "links": {...}, "footnotes": {...}}
//
// Each item is an object with a single key naming its kind. Inline content
// is rendered as Markdown text. "links" and "footnotes" hold the definitions
// the items refer to and are omitted when empty.
type JSONWriter struct {
	Options Options
}

func (w JSONWriter) Write(out io.Writer, nodes []mdelem.Node, defs Definitions) error {
	return WriteJSON(out, w.Value(nodes, defs))
}

// Value builds the JSON document without encoding it.
func (w JSONWriter) Value(nodes []mdelem.Node, defs Definitions) map[string]any {
	r := newRenderer(w.Options, defs)

	items := make([]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, r.jsonBlock(n))
	}
	doc := map[string]any{"items": items}

	// footnotes first: their bodies can add links
	footnotes := make(map[string]any)
	for len(r.footnotes) > 0 {
		label := r.footnotes[0]
		r.footnotes = r.footnotes[1:]
		def, _ := r.lookupFootnote(label)
		footnotes[label] = r.jsonBlocks(def.Children)
	}
	if len(footnotes) > 0 {
		doc["footnotes"] = footnotes
	}

	if len(r.links) > 0 {
		links := make(map[string]any, len(r.links))
		for _, def := range r.links {
			entry := map[string]any{"url": def.Destination}
			if def.Title != "" {
				entry["title"] = def.Title
			}
			links[def.Label] = entry
		}
		doc["links"] = links
	}
	return doc
}

// WriteJSON encodes v with sorted keys and a two-space indent.
func WriteJSON(out io.Writer, v any) error {
	b, err := oj.Marshal(v, &oj.Options{Indent: 2, Sort: true})
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

// FilterJSON evaluates a JSONPath expression against v.
func FilterJSON(v any, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	matches := x.Get(v)
	if matches == nil {
		matches = []any{}
	}
	return matches, nil
}

func (r *renderer) jsonBlocks(nodes []mdelem.Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = r.jsonBlock(n)
	}
	return out
}

func (r *renderer) jsonBlock(n mdelem.Node) map[string]any {
	switch n := n.(type) {
	case *mdelem.Section:
		return tagged("section", map[string]any{
			"depth": n.Depth,
			"title": r.inlines(n.Title),
			"body":  r.jsonBlocks(n.Body),
		})

	case *mdelem.Paragraph:
		return tagged("paragraph", r.inlines(n.Inlines))

	case *mdelem.List:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = r.jsonItem(item)
		}
		return tagged("list", items)

	case *mdelem.ListItem:
		return tagged("list_item", r.jsonItem(n))

	case *mdelem.BlockQuote:
		return tagged("block_quote", r.jsonBlocks(n.Children))

	case *mdelem.CodeBlock:
		m := map[string]any{"code": n.Value, "type": "code"}
		if n.Language != "" {
			m["language"] = n.Language
		}
		if n.Metadata != "" {
			m["metadata"] = n.Metadata
		}
		return tagged("code_block", m)

	case *mdelem.FrontMatter:
		m := map[string]any{"variant": n.Variant.String(), "body": n.Body}
		if data, err := decodeFrontMatter(n); err == nil && data != nil {
			m["data"] = data
		}
		return tagged("front_matter", m)

	case *mdelem.HTMLBlock:
		return tagged("html", n.Value)

	case *mdelem.Table:
		aligns := make([]any, len(n.Alignments))
		for i, a := range n.Alignments {
			aligns[i] = alignmentName(a)
		}
		rows := make([]any, len(n.Rows))
		for i, row := range n.Rows {
			cells := make([]any, len(row))
			for j, cell := range row {
				cells[j] = strings.TrimSpace(r.inlines(cell))
			}
			rows[i] = cells
		}
		return tagged("table", map[string]any{"alignments": aligns, "rows": rows})

	case *mdelem.ThematicBreak:
		return tagged("thematic_break", nil)

	case *mdelem.Link:
		m := map[string]any{"display": r.inlines(n.Text), "url": n.Destination}
		if n.Title != "" {
			m["title"] = n.Title
		}
		return tagged("link", m)

	case *mdelem.Image:
		m := map[string]any{"alt": n.Alt, "url": n.Destination}
		if n.Title != "" {
			m["title"] = n.Title
		}
		return tagged("image", m)
	}
	return tagged("inline", r.inlines([]mdelem.Node{n}))
}

func (r *renderer) jsonItem(item *mdelem.ListItem) map[string]any {
	m := map[string]any{"item": r.jsonBlocks(item.Children)}
	if item.Ordered {
		m["index"] = item.Number
	}
	if item.Checked != nil {
		m["checked"] = *item.Checked
	}
	return m
}

func tagged(kind string, v any) map[string]any {
	return map[string]any{kind: v}
}

func alignmentName(a mdelem.Alignment) string {
	switch a {
	case mdelem.AlignLeft:
		return "left"
	case mdelem.AlignCenter:
		return "center"
	case mdelem.AlignRight:
		return "right"
	default:
		return "none"
	}
}

// decodeFrontMatter parses the front matter body as YAML or TOML. It
// returns nil for an empty body.
func decodeFrontMatter(fm *mdelem.FrontMatter) (any, error) {
	var data map[string]any
	var err error
	switch fm.Variant {
	case mdelem.FrontMatterTOML:
		err = toml.Unmarshal([]byte(fm.Body), &data)
	default:
		err = yaml.Unmarshal([]byte(fm.Body), &data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s front matter: %w", fm.Variant, err)
	}
	if data == nil {
		return nil, nil
	}
	return normalize(data), nil
}

// normalize converts decoded values to the plain maps, slices and scalars
// the JSON encoder and JSONPath expect.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	case nil, string, bool, int, int64, uint64, float64:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
