package query

// Rule identifies a grammar rule.
type Rule int

const (
	RuleEOI Rule = iota
	RuleTop
	RuleSelectorChain
	RuleSelector
	RuleSelectorDelim
	RuleExplicitSpace

	RuleSelectSection
	RuleSectionStart

	RuleSelectListItem
	RuleListStart
	RuleListTaskOptions
	RuleTaskChecked
	RuleTaskUnchecked
	RuleTaskEither
	RuleTaskUnknown
	RuleTaskEnd

	RuleSelectLink
	RuleLinkStart
	RuleLinkTextEnd
	RuleLinkEnd

	RuleSelectBlockQuote
	RuleBlockQuoteStart

	RuleSelectCodeBlock
	RuleCodeBlockStart

	RuleSelectFrontMatter
	RuleFrontMatterStart

	RuleSelectHTML
	RuleHTMLStart

	RuleSelectParagraph
	RuleParagraphStart

	RuleSelectTable
	RuleTableStart
	RuleTableRowStart

	RuleString
	RuleUnquotedString
	RuleQuotedString
	RuleQuotedChar
	RuleQuotedPlainChars
	RuleEscapedChar
	RuleUnicodeSeq
	RuleRegex
	RuleRegexBody
	RuleRegexChar
	RuleRegexEscapedSlash
	RuleRegexNormalChar
	RuleRegexReplacement
	RuleAsterisk
	RuleAnchorStart
	RuleAnchorEnd

	ruleCount
)

var ruleNames = [...]string{
	RuleEOI:               "EOI",
	RuleTop:               "top",
	RuleSelectorChain:     "selector_chain",
	RuleSelector:          "selector",
	RuleSelectorDelim:     "selector_delim",
	RuleExplicitSpace:     "explicit_space",
	RuleSelectSection:     "select_section",
	RuleSectionStart:      "section_start",
	RuleSelectListItem:    "select_list_item",
	RuleListStart:         "list_start",
	RuleListTaskOptions:   "list_task_options",
	RuleTaskChecked:       "task_checked",
	RuleTaskUnchecked:     "task_unchecked",
	RuleTaskEither:        "task_either",
	RuleTaskUnknown:       "task_unknown",
	RuleTaskEnd:           "task_end",
	RuleSelectLink:        "select_link",
	RuleLinkStart:         "link_start",
	RuleLinkTextEnd:       "link_text_end",
	RuleLinkEnd:           "link_end",
	RuleSelectBlockQuote:  "select_block_quote",
	RuleBlockQuoteStart:   "block_quote_start",
	RuleSelectCodeBlock:   "select_code_block",
	RuleCodeBlockStart:    "code_block_start",
	RuleSelectFrontMatter: "select_front_matter",
	RuleFrontMatterStart:  "front_matter_start",
	RuleSelectHTML:        "select_html",
	RuleHTMLStart:         "html_start",
	RuleSelectParagraph:   "select_paragraph",
	RuleParagraphStart:    "paragraph_start",
	RuleSelectTable:       "select_table",
	RuleTableStart:        "table_start",
	RuleTableRowStart:     "table_row_start",
	RuleString:            "string",
	RuleUnquotedString:    "unquoted_string",
	RuleQuotedString:      "quoted_string",
	RuleQuotedChar:        "quoted_char",
	RuleQuotedPlainChars:  "quoted_plain_chars",
	RuleEscapedChar:       "escaped_char",
	RuleUnicodeSeq:        "unicode_seq",
	RuleRegex:             "regex",
	RuleRegexBody:         "regex_body",
	RuleRegexChar:         "regex_char",
	RuleRegexEscapedSlash: "regex_escaped_slash",
	RuleRegexNormalChar:   "regex_normal_char",
	RuleRegexReplacement:  "regex_replacement_segment",
	RuleAsterisk:          "asterisk",
	RuleAnchorStart:       "anchor_start",
	RuleAnchorEnd:         "anchor_end",
}

// ruleDescriptions holds the user-facing text for each rule, used in
// "expected ..." messages.
var ruleDescriptions = [...]string{
	RuleEOI:               "end of input",
	RuleTop:               "valid query",
	RuleSelectorChain:     "one or more selectors",
	RuleSelector:          "selector",
	RuleSelectorDelim:     "space",
	RuleExplicitSpace:     "space",
	RuleSelectSection:     "#",
	RuleSectionStart:      "#",
	RuleSelectListItem:    "- or 1.",
	RuleListStart:         "- or 1.",
	RuleListTaskOptions:   "[ ], [x], or [?]",
	RuleTaskChecked:       "[x]",
	RuleTaskUnchecked:     "[ ]",
	RuleTaskEither:        "[?]",
	RuleTaskUnknown:       "task state",
	RuleTaskEnd:           "]",
	RuleSelectLink:        "[ or ![",
	RuleLinkStart:         "[ or ![",
	RuleLinkTextEnd:       "](",
	RuleLinkEnd:           ")",
	RuleSelectBlockQuote:  ">",
	RuleBlockQuoteStart:   ">",
	RuleSelectCodeBlock:   "```",
	RuleCodeBlockStart:    "```",
	RuleSelectFrontMatter: "+++",
	RuleFrontMatterStart:  "+++",
	RuleSelectHTML:        "</>",
	RuleHTMLStart:         "</>",
	RuleSelectParagraph:   "P:",
	RuleParagraphStart:    "P:",
	RuleSelectTable:       ":-:",
	RuleTableStart:        ":-:",
	RuleTableRowStart:     ":-:",
	RuleString:            "string",
	RuleUnquotedString:    "unquoted string",
	RuleQuotedString:      "quoted string",
	RuleQuotedChar:        "character in quoted string",
	RuleQuotedPlainChars:  "character in quoted string",
	RuleEscapedChar:       "escape sequence",
	RuleUnicodeSeq:        "unicode sequence",
	RuleRegex:             "regex",
	RuleRegexBody:         "regex",
	RuleRegexChar:         "regex character",
	RuleRegexEscapedSlash: "/",
	RuleRegexNormalChar:   "regex character",
	RuleRegexReplacement:  "regex replacement",
	RuleAsterisk:          "*",
	RuleAnchorStart:       "^",
	RuleAnchorEnd:         "$",
}

// Both tables must cover every rule; a missing entry fails to compile.
var (
	_ [0]struct{} = [len(ruleNames) - int(ruleCount)]struct{}{}
	_ [0]struct{} = [len(ruleDescriptions) - int(ruleCount)]struct{}{}
)

// Rules returns every rule in declaration order.
func Rules() []Rule {
	rules := make([]Rule, 0, ruleCount)
	for r := Rule(0); r < ruleCount; r++ {
		rules = append(rules, r)
	}
	return rules
}

func (r Rule) String() string {
	if r < 0 || r >= ruleCount {
		return "unknown"
	}
	return ruleNames[r]
}

// Description returns the text shown to users when r was expected.
func (r Rule) Description() string {
	if r < 0 || r >= ruleCount {
		return "unknown rule"
	}
	return ruleDescriptions[r]
}
