package mdelem

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindSection Kind = iota
	KindParagraph
	KindList
	KindListItem
	KindBlockQuote
	KindCodeBlock
	KindFrontMatter
	KindHTMLBlock
	KindTable
	KindThematicBreak

	KindText
	KindSpan
	KindLink
	KindImage
	KindFootnoteRef
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindListItem:
		return "list item"
	case KindBlockQuote:
		return "block quote"
	case KindCodeBlock:
		return "code block"
	case KindFrontMatter:
		return "front matter"
	case KindHTMLBlock:
		return "html"
	case KindTable:
		return "table"
	case KindThematicBreak:
		return "thematic break"
	case KindText:
		return "text"
	case KindSpan:
		return "span"
	case KindLink:
		return "link"
	case KindImage:
		return "image"
	case KindFootnoteRef:
		return "footnote reference"
	default:
		return "unknown"
	}
}

// Node is an element of a parsed document. Nodes are immutable once the
// document is built; selection keys on pointer identity.
type Node interface {
	Kind() Kind
}

var (
	_ Node = (*Section)(nil)
	_ Node = (*Paragraph)(nil)
	_ Node = (*List)(nil)
	_ Node = (*ListItem)(nil)
	_ Node = (*BlockQuote)(nil)
	_ Node = (*CodeBlock)(nil)
	_ Node = (*FrontMatter)(nil)
	_ Node = (*HTMLBlock)(nil)
	_ Node = (*Table)(nil)
	_ Node = (*ThematicBreak)(nil)
	_ Node = (*Text)(nil)
	_ Node = (*Span)(nil)
	_ Node = (*Link)(nil)
	_ Node = (*Image)(nil)
	_ Node = (*FootnoteRef)(nil)
)

// Section is a heading together with everything up to the next heading of
// the same or lower depth.
type Section struct {
	Depth int
	Title []Node
	Body  []Node
}

type Paragraph struct {
	Inlines []Node
}

type List struct {
	Ordered bool
	Start   int
	Items   []*ListItem
}

// ListItem is one item of a List. Checked is nil for items that are not
// tasks.
type ListItem struct {
	Ordered  bool
	Number   int
	Checked  *bool
	Children []Node
}

type BlockQuote struct {
	Children []Node
}

type CodeBlock struct {
	Language string
	Metadata string
	Value    string
	Fenced   bool
}

type FrontMatterVariant int

const (
	FrontMatterYAML FrontMatterVariant = iota
	FrontMatterTOML
)

func (v FrontMatterVariant) String() string {
	if v == FrontMatterTOML {
		return "toml"
	}
	return "yaml"
}

type FrontMatter struct {
	Variant FrontMatterVariant
	Body    string
}

type HTMLBlock struct {
	Value string
}

type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Table holds its header as Rows[0]. Each cell is a slice of inlines.
type Table struct {
	Alignments []Alignment
	Rows       [][][]Node
}

type ThematicBreak struct{}

type TextVariant int

const (
	TextPlain TextVariant = iota
	TextCode
	TextHTML
)

type Text struct {
	Variant TextVariant
	Value   string
}

type SpanVariant int

const (
	SpanEmphasis SpanVariant = iota
	SpanStrong
	SpanDelete
)

type Span struct {
	Variant  SpanVariant
	Children []Node
}

// LinkStyle is how a link or image names its destination in the source.
type LinkStyle int

const (
	LinkInline LinkStyle = iota
	LinkFull
	LinkCollapsed
	LinkShortcut
	LinkAutolink
)

func (s LinkStyle) String() string {
	switch s {
	case LinkInline:
		return "inline"
	case LinkFull:
		return "full"
	case LinkCollapsed:
		return "collapsed"
	case LinkShortcut:
		return "shortcut"
	case LinkAutolink:
		return "autolink"
	default:
		return "unknown"
	}
}

// LinkRef records the reference style; Label is empty for inline links and
// autolinks.
type LinkRef struct {
	Style LinkStyle
	Label string
}

// IsReference reports whether the link resolves through a definition.
func (r LinkRef) IsReference() bool {
	switch r.Style {
	case LinkFull, LinkCollapsed, LinkShortcut:
		return true
	}
	return false
}

type Link struct {
	Text        []Node
	Destination string
	Title       string
	Ref         LinkRef
}

type Image struct {
	Alt         string
	Destination string
	Title       string
	Ref         LinkRef
}

type FootnoteRef struct {
	Label string
}

func (*Section) Kind() Kind       { return KindSection }
func (*Paragraph) Kind() Kind     { return KindParagraph }
func (*List) Kind() Kind          { return KindList }
func (*ListItem) Kind() Kind      { return KindListItem }
func (*BlockQuote) Kind() Kind    { return KindBlockQuote }
func (*CodeBlock) Kind() Kind     { return KindCodeBlock }
func (*FrontMatter) Kind() Kind   { return KindFrontMatter }
func (*HTMLBlock) Kind() Kind     { return KindHTMLBlock }
func (*Table) Kind() Kind         { return KindTable }
func (*ThematicBreak) Kind() Kind { return KindThematicBreak }
func (*Text) Kind() Kind          { return KindText }
func (*Span) Kind() Kind          { return KindSpan }
func (*Link) Kind() Kind          { return KindLink }
func (*Image) Kind() Kind         { return KindImage }
func (*FootnoteRef) Kind() Kind   { return KindFootnoteRef }

// LinkDefinition is a "[label]: destination" definition.
type LinkDefinition struct {
	Label       string
	Destination string
	Title       string
}

// FootnoteDefinition is a "[^label]: ..." definition.
type FootnoteDefinition struct {
	Label    string
	Children []Node
}

// Doc is a parsed document: its top-level nodes and the reference
// definitions found anywhere in it.
type Doc struct {
	Roots     []Node
	Links     []LinkDefinition
	Footnotes []FootnoteDefinition
}

// Link returns the link definition for label, matched after normalization.
func (d *Doc) Link(label string) (LinkDefinition, bool) {
	key := NormalizeLabel(label)
	for _, def := range d.Links {
		if NormalizeLabel(def.Label) == key {
			return def, true
		}
	}
	return LinkDefinition{}, false
}

// Footnote returns the footnote definition for label.
func (d *Doc) Footnote(label string) (FootnoteDefinition, bool) {
	key := NormalizeLabel(label)
	for _, def := range d.Footnotes {
		if NormalizeLabel(def.Label) == key {
			return def, true
		}
	}
	return FootnoteDefinition{}, false
}
