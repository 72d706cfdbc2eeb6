package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arfbllh/mdq/mdelem"
)

// Format selects a writer.
type Format int

const (
	FormatMarkdown Format = iota
	FormatJSON
	FormatPlain
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPlain:
		return "plain"
	default:
		return "markdown"
	}
}

// ParseFormat accepts md, markdown, json and plain, in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "plain":
		return FormatPlain, nil
	}
	return FormatMarkdown, fmt.Errorf("unknown output format %q (want md, markdown, json or plain)", s)
}

// Placement is where reference definitions are written.
type Placement int

const (
	// PlaceSection writes definitions at the end of the section that
	// first uses them.
	PlaceSection Placement = iota
	// PlaceDoc writes all definitions once, at the end of the output.
	PlaceDoc
)

func (p Placement) String() string {
	if p == PlaceDoc {
		return "doc"
	}
	return "section"
}

func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(s) {
	case "", "section":
		return PlaceSection, nil
	case "doc":
		return PlaceDoc, nil
	}
	return PlaceSection, fmt.Errorf("unknown reference placement %q (want section or doc)", s)
}

// LinkFormat controls how links and images name their destinations.
type LinkFormat int

const (
	// LinkKeep writes each link the way it was written in the source.
	LinkKeep LinkFormat = iota
	// LinkInlineAll turns reference links into inline links.
	LinkInlineAll
	// LinkNeverInline turns inline links into reference links with
	// numbered labels.
	LinkNeverInline
)

func (f LinkFormat) String() string {
	switch f {
	case LinkInlineAll:
		return "inline"
	case LinkNeverInline:
		return "never-inline"
	default:
		return "keep"
	}
}

func ParseLinkFormat(s string) (LinkFormat, error) {
	switch strings.ToLower(s) {
	case "", "keep":
		return LinkKeep, nil
	case "inline":
		return LinkInlineAll, nil
	case "never-inline":
		return LinkNeverInline, nil
	}
	return LinkKeep, fmt.Errorf("unknown link format %q (want keep, inline or never-inline)", s)
}

// Options configures the Markdown and JSON writers.
type Options struct {
	// Breaks separates top-level results with a thematic break.
	Breaks      bool
	LinkPos     Placement
	FootnotePos Placement
	LinkFormat  LinkFormat
}

// Definitions resolves reference labels. Both *selector.Context and
// *mdelem.Doc satisfy it.
type Definitions interface {
	Link(label string) (mdelem.LinkDefinition, bool)
	Footnote(label string) (mdelem.FootnoteDefinition, bool)
}

// Write renders nodes to out in the given format.
func Write(out io.Writer, f Format, nodes []mdelem.Node, defs Definitions, opts Options) error {
	switch f {
	case FormatJSON:
		return JSONWriter{Options: opts}.Write(out, nodes, defs)
	case FormatPlain:
		return PlainWriter{}.Write(out, nodes)
	default:
		return MarkdownWriter{Options: opts}.Write(out, nodes, defs)
	}
}
