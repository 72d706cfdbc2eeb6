/*
Package selector compiles mdq queries and runs them against Markdown
documents.

A query is a pipe-separated list of selectors:

	# Installation | - [ ] *

Parse turns the text into a Chain; Chain.FindNodes applies it to an
mdelem.Doc:

	chain, err := selector.Parse("# second | - *")
	if err != nil {
		var perr *selector.ParseError
		if errors.As(err, &perr) {
			fmt.Println(perr.RenderWithSuggestions("# second | - *"))
		}
		return err
	}
	nodes, ctx, err := chain.FindNodes(doc)

Text after a selector token is matched case-insensitively as a substring,
unless it is written as a /regex/. "^" and "$" anchor either form. Link and
image selectors also accept "!s/pattern/replacement/", which rewrites the
first match in the selected link's text or URL.
*/
package selector
