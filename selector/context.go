package selector

import "github.com/arfbllh/mdq/mdelem"

// Context holds the link and footnote definitions referenced, directly or
// through footnote bodies, by a set of selected nodes. Definitions are
// unique by normalized label and kept in the order they were first reached.
type Context struct {
	links     []mdelem.LinkDefinition
	footnotes []mdelem.FootnoteDefinition
}

func newContext(doc *mdelem.Doc, selected []mdelem.Node) *Context {
	c := &contextCollector{
		doc:           doc,
		ctx:           &Context{},
		seenLinks:     make(map[string]bool),
		seenFootnotes: make(map[string]bool),
	}
	c.walk(selected)
	return c.ctx
}

// Links returns the link definitions in first-reference order.
func (c *Context) Links() []mdelem.LinkDefinition {
	return append([]mdelem.LinkDefinition(nil), c.links...)
}

// Footnotes returns the footnote definitions in first-reference order.
func (c *Context) Footnotes() []mdelem.FootnoteDefinition {
	return append([]mdelem.FootnoteDefinition(nil), c.footnotes...)
}

// Link looks up a collected link definition.
func (c *Context) Link(label string) (mdelem.LinkDefinition, bool) {
	if c == nil {
		return mdelem.LinkDefinition{}, false
	}
	key := mdelem.NormalizeLabel(label)
	for _, def := range c.links {
		if mdelem.NormalizeLabel(def.Label) == key {
			return def, true
		}
	}
	return mdelem.LinkDefinition{}, false
}

// Footnote looks up a collected footnote definition.
func (c *Context) Footnote(label string) (mdelem.FootnoteDefinition, bool) {
	if c == nil {
		return mdelem.FootnoteDefinition{}, false
	}
	key := mdelem.NormalizeLabel(label)
	for _, def := range c.footnotes {
		if mdelem.NormalizeLabel(def.Label) == key {
			return def, true
		}
	}
	return mdelem.FootnoteDefinition{}, false
}

// Empty reports whether no definitions were collected.
func (c *Context) Empty() bool {
	return len(c.links) == 0 && len(c.footnotes) == 0
}

type contextCollector struct {
	doc           *mdelem.Doc
	ctx           *Context
	seenLinks     map[string]bool
	seenFootnotes map[string]bool
}

func (c *contextCollector) walk(nodes []mdelem.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *mdelem.Link:
			c.addLink(n.Ref)
		case *mdelem.Image:
			c.addLink(n.Ref)
		case *mdelem.FootnoteRef:
			c.addFootnote(n.Label)
		}
		c.walk(mdelem.Children(n))
	}
}

func (c *contextCollector) addLink(ref mdelem.LinkRef) {
	if !ref.IsReference() {
		return
	}
	key := mdelem.NormalizeLabel(ref.Label)
	if c.seenLinks[key] {
		return
	}
	c.seenLinks[key] = true
	if def, ok := c.doc.Link(ref.Label); ok {
		c.ctx.links = append(c.ctx.links, def)
	}
}

func (c *contextCollector) addFootnote(label string) {
	key := mdelem.NormalizeLabel(label)
	if c.seenFootnotes[key] {
		return
	}
	c.seenFootnotes[key] = true
	def, ok := c.doc.Footnote(label)
	if !ok {
		return
	}
	c.ctx.footnotes = append(c.ctx.footnotes, def)
	c.walk(def.Children)
}
