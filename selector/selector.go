package selector

import (
	"fmt"
	"strings"
)

// Kind identifies which node kind a Selector picks out.
type Kind int

const (
	KindSection Kind = iota
	KindListItem
	KindLink
	KindBlockQuote
	KindCodeBlock
	KindFrontMatter
	KindHTML
	KindParagraph
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindListItem:
		return "list item"
	case KindLink:
		return "link"
	case KindBlockQuote:
		return "block quote"
	case KindCodeBlock:
		return "code block"
	case KindFrontMatter:
		return "front matter"
	case KindHTML:
		return "html"
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Selector is one step of a Chain. The set of implementations is closed.
type Selector interface {
	Kind() Kind
	String() string
	isSelector()
}

var (
	_ Selector = SectionSelector{}
	_ Selector = ListItemSelector{}
	_ Selector = LinkSelector{}
	_ Selector = BlockQuoteSelector{}
	_ Selector = CodeBlockSelector{}
	_ Selector = FrontMatterSelector{}
	_ Selector = HTMLSelector{}
	_ Selector = ParagraphSelector{}
	_ Selector = TableSelector{}
)

// TaskState restricts list items by checkbox.
type TaskState int

const (
	TaskNone      TaskState = iota // no qualifier: any item
	TaskUnchecked                  // [ ]
	TaskChecked                    // [x]
	TaskEither                     // [?]: any task item
)

func (t TaskState) String() string {
	switch t {
	case TaskUnchecked:
		return "[ ]"
	case TaskChecked:
		return "[x]"
	case TaskEither:
		return "[?]"
	default:
		return ""
	}
}

type SectionSelector struct {
	Title Matcher
}

type ListItemSelector struct {
	Ordered bool
	Task    TaskState
	Text    Matcher
}

// LinkSelector matches links, or images when Image is set.
type LinkSelector struct {
	Image bool
	Text  Matcher
	URL   Matcher
}

type BlockQuoteSelector struct {
	Text Matcher
}

type CodeBlockSelector struct {
	Language Matcher
	Contents Matcher
}

type FrontMatterSelector struct {
	Variant Matcher
	Text    Matcher
}

type HTMLSelector struct {
	HTML Matcher
}

type ParagraphSelector struct {
	Text Matcher
}

// TableSelector keeps the columns whose header matches Column and the rows
// with a kept cell matching Row.
type TableSelector struct {
	Column Matcher
	Row    Matcher
}

func (SectionSelector) Kind() Kind     { return KindSection }
func (ListItemSelector) Kind() Kind    { return KindListItem }
func (LinkSelector) Kind() Kind        { return KindLink }
func (BlockQuoteSelector) Kind() Kind  { return KindBlockQuote }
func (CodeBlockSelector) Kind() Kind   { return KindCodeBlock }
func (FrontMatterSelector) Kind() Kind { return KindFrontMatter }
func (HTMLSelector) Kind() Kind        { return KindHTML }
func (ParagraphSelector) Kind() Kind   { return KindParagraph }
func (TableSelector) Kind() Kind       { return KindTable }

func (SectionSelector) isSelector()     {}
func (ListItemSelector) isSelector()    {}
func (LinkSelector) isSelector()        {}
func (BlockQuoteSelector) isSelector()  {}
func (CodeBlockSelector) isSelector()   {}
func (FrontMatterSelector) isSelector() {}
func (HTMLSelector) isSelector()        {}
func (ParagraphSelector) isSelector()   {}
func (TableSelector) isSelector()       {}

func withMatcher(token string, m Matcher) string {
	if m.IsAny() {
		return token
	}
	return token + " " + m.String()
}

func (s SectionSelector) String() string { return withMatcher("#", s.Title) }

func (s ListItemSelector) String() string {
	token := "-"
	if s.Ordered {
		token = "1."
	}
	if s.Task != TaskNone {
		token += " " + s.Task.String()
	}
	return withMatcher(token, s.Text)
}

func (s LinkSelector) String() string {
	start := "["
	if s.Image {
		start = "!["
	}
	return fmt.Sprintf("%s%s](%s)", start, s.Text, s.URL)
}

func (s BlockQuoteSelector) String() string { return withMatcher(">", s.Text) }

func (s CodeBlockSelector) String() string {
	token := "```"
	if !s.Language.IsAny() {
		token += s.Language.String()
	}
	return withMatcher(token, s.Contents)
}

func (s FrontMatterSelector) String() string {
	token := "+++"
	if !s.Variant.IsAny() {
		token += s.Variant.String()
	}
	return withMatcher(token, s.Text)
}

func (s HTMLSelector) String() string      { return withMatcher("</>", s.HTML) }
func (s ParagraphSelector) String() string { return withMatcher("P:", s.Text) }

func (s TableSelector) String() string {
	return withMatcher(withMatcher(":-:", s.Column)+" :-:", s.Row)
}

// Chain is a parsed query: selectors applied left to right, each one
// searching within the results of the one before.
type Chain []Selector

func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}
