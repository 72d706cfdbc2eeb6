package selector

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arfbllh/mdq/internal/query"
)

// Parse compiles a query such as "# Usage | - [x] *" into a Chain. Any
// error is a *ParseError; nothing is partially accepted.
func Parse(text string) (Chain, error) {
	top, err := query.Parse(text)
	if err != nil {
		var gerr *query.GrammarError
		if errors.As(err, &gerr) {
			return nil, grammarError(gerr)
		}
		return nil, err
	}

	b := &builder{text: text}
	chainPair, _ := top.Child(query.RuleSelectorChain)

	var chain Chain
	for _, sel := range chainPair.ChildrenOf(query.RuleSelector) {
		s, err := b.selector(sel.Children[0])
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
	}
	return chain, nil
}

// builder turns a parse tree into selectors, validating as it goes.
type builder struct {
	text string
}

func (b *builder) selector(p query.Pair) (Selector, error) {
	switch p.Rule {
	case query.RuleSelectSection:
		m, err := b.onlyMatcher(p)
		return SectionSelector{Title: m}, err
	case query.RuleSelectListItem:
		return b.listItem(p)
	case query.RuleSelectLink:
		return b.link(p)
	case query.RuleSelectBlockQuote:
		m, err := b.onlyMatcher(p)
		return BlockQuoteSelector{Text: m}, err
	case query.RuleSelectCodeBlock:
		lang, contents, err := b.wordThenText(p, query.RuleCodeBlockStart)
		return CodeBlockSelector{Language: lang, Contents: contents}, err
	case query.RuleSelectFrontMatter:
		variant, text, err := b.wordThenText(p, query.RuleFrontMatterStart)
		return FrontMatterSelector{Variant: variant, Text: text}, err
	case query.RuleSelectHTML:
		m, err := b.onlyMatcher(p)
		return HTMLSelector{HTML: m}, err
	case query.RuleSelectParagraph:
		m, err := b.onlyMatcher(p)
		return ParagraphSelector{Text: m}, err
	case query.RuleSelectTable:
		return b.table(p)
	}
	return nil, semanticError(p.Start, p.End, "unsupported selector %s", p.Rule)
}

func (b *builder) onlyMatcher(p query.Pair) (Matcher, error) {
	str, ok := p.Child(query.RuleString)
	if !ok {
		return Matcher{}, nil
	}
	return b.matcher(str, false)
}

func (b *builder) listItem(p query.Pair) (Selector, error) {
	start, _ := p.Child(query.RuleListStart)
	sel := ListItemSelector{Ordered: start.Text(b.text) == "1."}

	if opts, ok := p.Child(query.RuleListTaskOptions); ok {
		switch opts.Children[0].Rule {
		case query.RuleTaskChecked:
			sel.Task = TaskChecked
		case query.RuleTaskUnchecked:
			sel.Task = TaskUnchecked
		case query.RuleTaskEither:
			sel.Task = TaskEither
		default:
			return nil, semanticError(opts.Start, opts.End,
				"invalid task state %s: expected [ ], [x] or [?]", opts.Text(b.text))
		}
	}

	m, err := b.onlyMatcher(p)
	sel.Text = m
	return sel, err
}

func (b *builder) link(p query.Pair) (Selector, error) {
	start, _ := p.Child(query.RuleLinkStart)
	textEnd, _ := p.Child(query.RuleLinkTextEnd)
	sel := LinkSelector{Image: start.Text(b.text) == "!["}

	for _, str := range p.ChildrenOf(query.RuleString) {
		m, err := b.matcher(str, true)
		if err != nil {
			return nil, err
		}
		if str.End <= textEnd.Start {
			sel.Text = m
		} else {
			sel.URL = m
		}
	}
	return sel, nil
}

// wordThenText handles selectors whose first string, written directly after
// the start token, is a word (a code block language, a front matter
// variant) and whose second string follows a space.
func (b *builder) wordThenText(p query.Pair, startRule query.Rule) (Matcher, Matcher, error) {
	start, _ := p.Child(startRule)
	var word, text Matcher
	for _, str := range p.ChildrenOf(query.RuleString) {
		m, err := b.matcher(str, false)
		if err != nil {
			return Matcher{}, Matcher{}, err
		}
		if str.Start == start.End {
			word = m
		} else {
			text = m
		}
	}
	return word, text, nil
}

func (b *builder) table(p query.Pair) (Selector, error) {
	rowStart, hasRows := p.Child(query.RuleTableRowStart)
	var sel TableSelector
	for _, str := range p.ChildrenOf(query.RuleString) {
		m, err := b.matcher(str, false)
		if err != nil {
			return nil, err
		}
		if hasRows && str.Start >= rowStart.End {
			sel.Row = m
		} else {
			sel.Column = m
		}
	}
	return sel, nil
}

// matcher builds a Matcher from a string pair.
func (b *builder) matcher(str query.Pair, allowReplacement bool) (Matcher, error) {
	var (
		anchorStart, anchorEnd bool
		body                   *query.Pair
	)
	for i := range str.Children {
		c := str.Children[i]
		switch c.Rule {
		case query.RuleAsterisk:
			return Matcher{}, nil
		case query.RuleRegexReplacement:
			if !allowReplacement {
				return Matcher{}, semanticError(c.Start, c.End,
					"regex replacement is only supported in link and image selectors")
			}
			return b.replacement(c)
		case query.RuleAnchorStart:
			anchorStart = true
		case query.RuleAnchorEnd:
			anchorEnd = true
		case query.RuleQuotedString, query.RuleRegex, query.RuleUnquotedString:
			body = &str.Children[i]
		}
	}
	if body == nil {
		return Matcher{}, nil
	}

	switch body.Rule {
	case query.RuleRegex:
		pattern := b.regexBody(body.Children[0])
		m, err := Regex(pattern, anchorStart, anchorEnd)
		if err != nil {
			return Matcher{}, semanticError(body.Start, body.End, "invalid regex: %v", err)
		}
		return m, nil
	case query.RuleQuotedString:
		s, err := b.unquote(*body)
		if err != nil {
			return Matcher{}, err
		}
		return Literal(s, anchorStart, anchorEnd), nil
	default:
		return Literal(body.Text(b.text), anchorStart, anchorEnd), nil
	}
}

func (b *builder) replacement(p query.Pair) (Matcher, error) {
	bodies := p.ChildrenOf(query.RuleRegexBody)
	pattern := b.regexBody(bodies[0])
	m, err := Regex(pattern, false, false)
	if err != nil {
		return Matcher{}, semanticError(p.Start, p.End, "invalid regex: %v", err)
	}
	repl := b.regexBody(bodies[1])
	m.Replacement = &repl
	return m, nil
}

// regexBody returns the pattern text with escaped slashes unescaped.
func (b *builder) regexBody(p query.Pair) string {
	var sb strings.Builder
	for _, c := range p.Children {
		if _, ok := c.Child(query.RuleRegexEscapedSlash); ok {
			sb.WriteByte('/')
			continue
		}
		sb.WriteString(c.Text(b.text))
	}
	return sb.String()
}

// unquote resolves the escapes of a quoted string.
func (b *builder) unquote(p query.Pair) (string, error) {
	var sb strings.Builder
	for _, qc := range p.ChildrenOf(query.RuleQuotedChar) {
		part := qc.Children[0]
		raw := part.Text(b.text)
		switch part.Rule {
		case query.RuleQuotedPlainChars:
			sb.WriteString(raw)
		case query.RuleEscapedChar:
			switch raw[1] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(raw[1])
			}
		case query.RuleUnicodeSeq:
			hex := strings.TrimSuffix(strings.TrimPrefix(raw, `\u{`), "}")
			code, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", semanticError(part.Start, part.End, "invalid unicode sequence: %s", hex)
			}
			sb.WriteRune(rune(code))
		}
	}
	return sb.String(), nil
}
