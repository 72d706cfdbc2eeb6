package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse matches input against the selector grammar and returns the pair for
// RuleTop. On failure the error is a *GrammarError.
func Parse(input string) (Pair, error) {
	s := newState(input)
	if s.top() {
		return s.children[0], nil
	}
	positives := make([]Rule, len(s.positives))
	copy(positives, s.positives)
	return Pair{}, &GrammarError{Offset: s.attemptPos, Positives: positives}
}

func (s *state) top() bool {
	return s.rule(RuleTop, func() bool {
		s.optional(s.explicitSpace)
		return s.selectorChain() &&
			s.optional(s.explicitSpace) &&
			s.eoi()
	})
}

func (s *state) eoi() bool {
	return s.rule(RuleEOI, s.atEnd)
}

func (s *state) explicitSpace() bool {
	return s.rule(RuleExplicitSpace, func() bool {
		if !s.char(unicode.IsSpace) {
			return false
		}
		for s.char(unicode.IsSpace) {
		}
		return true
	})
}

func (s *state) selectorChain() bool {
	return s.rule(RuleSelectorChain, func() bool {
		return s.selector() && s.repeat(func() bool {
			return s.selectorDelim() && s.selector()
		})
	})
}

func (s *state) selectorDelim() bool {
	return s.rule(RuleSelectorDelim, func() bool {
		s.optional(s.explicitSpace)
		return s.literal("|") && s.optional(s.explicitSpace)
	})
}

func (s *state) selector() bool {
	return s.rule(RuleSelector, func() bool {
		return s.first(
			s.selectSection,
			s.selectListItem,
			s.selectLink,
			s.selectBlockQuote,
			s.selectCodeBlock,
			s.selectFrontMatter,
			s.selectHTML,
			s.selectParagraph,
			s.selectTable,
		)
	})
}

// token matches lit as rule r.
func (s *state) token(r Rule, lit string) func() bool {
	return func() bool {
		return s.rule(r, func() bool { return s.literal(lit) })
	}
}

// spacedString matches explicit_space followed by a string.
func (s *state) spacedString(ctx stringContext) func() bool {
	return func() bool {
		return s.explicitSpace() && s.str(ctx)
	}
}

// simpleSelector is a start token followed by an optional spaced string.
func (s *state) simpleSelector(r, start Rule, lit string) bool {
	return s.rule(r, func() bool {
		return s.token(start, lit)() && s.optional(s.spacedString(ctxPlain))
	})
}

func (s *state) selectSection() bool {
	return s.simpleSelector(RuleSelectSection, RuleSectionStart, "#")
}

func (s *state) selectBlockQuote() bool {
	return s.simpleSelector(RuleSelectBlockQuote, RuleBlockQuoteStart, ">")
}

func (s *state) selectHTML() bool {
	return s.simpleSelector(RuleSelectHTML, RuleHTMLStart, "</>")
}

func (s *state) selectParagraph() bool {
	return s.simpleSelector(RuleSelectParagraph, RuleParagraphStart, "P:")
}

func (s *state) selectListItem() bool {
	return s.rule(RuleSelectListItem, func() bool {
		start := s.rule(RuleListStart, func() bool {
			return s.first(
				func() bool { return s.literal("-") },
				func() bool { return s.literal("1.") },
			)
		})
		if !start {
			return false
		}
		s.optional(func() bool { return s.explicitSpace() && s.listTaskOptions() })
		return s.optional(s.spacedString(ctxPlain))
	})
}

func (s *state) listTaskOptions() bool {
	return s.rule(RuleListTaskOptions, func() bool {
		return s.literal("[") &&
			s.first(
				func() bool {
					return s.rule(RuleTaskChecked, func() bool {
						return s.literal("x") || s.literal("X")
					})
				},
				s.token(RuleTaskUnchecked, " "),
				s.token(RuleTaskEither, "?"),
				func() bool {
					return s.rule(RuleTaskUnknown, func() bool {
						return s.char(func(r rune) bool { return r != ']' })
					})
				},
			) &&
			s.token(RuleTaskEnd, "]")()
	})
}

func (s *state) selectLink() bool {
	return s.rule(RuleSelectLink, func() bool {
		start := s.rule(RuleLinkStart, func() bool {
			return s.first(
				func() bool { return s.literal("![") },
				func() bool { return s.literal("[") },
			)
		})
		if !start {
			return false
		}
		s.optional(s.explicitSpace)
		s.optional(func() bool { return s.str(ctxLinkText) })
		s.optional(s.explicitSpace)
		if !s.token(RuleLinkTextEnd, "](")() {
			return false
		}
		s.optional(s.explicitSpace)
		s.optional(func() bool { return s.str(ctxLinkURL) })
		s.optional(s.explicitSpace)
		return s.token(RuleLinkEnd, ")")()
	})
}

func (s *state) selectCodeBlock() bool {
	return s.rule(RuleSelectCodeBlock, func() bool {
		return s.token(RuleCodeBlockStart, "```")() &&
			s.optional(func() bool { return s.str(ctxWord) }) &&
			s.optional(s.spacedString(ctxPlain))
	})
}

func (s *state) selectFrontMatter() bool {
	return s.rule(RuleSelectFrontMatter, func() bool {
		return s.token(RuleFrontMatterStart, "+++")() &&
			s.optional(func() bool { return s.str(ctxWord) }) &&
			s.optional(s.spacedString(ctxPlain))
	})
}

func (s *state) selectTable() bool {
	return s.rule(RuleSelectTable, func() bool {
		if !s.token(RuleTableStart, ":-:")() {
			return false
		}
		s.optional(s.spacedString(ctxTableColumn))
		return s.optional(func() bool {
			s.optional(s.explicitSpace)
			return s.token(RuleTableRowStart, ":-:")() &&
				s.optional(s.spacedString(ctxPlain))
		})
	})
}

// stringContext decides where an unquoted string ends.
type stringContext int

const (
	ctxPlain stringContext = iota
	ctxLinkText
	ctxLinkURL
	ctxWord
	ctxTableColumn
)

func (c stringContext) terminates(rest string) bool {
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	switch r {
	case '|', '$':
		return true
	}
	switch c {
	case ctxLinkText:
		return r == ']'
	case ctxLinkURL:
		return r == ')'
	case ctxWord:
		return unicode.IsSpace(r)
	case ctxTableColumn:
		return strings.HasPrefix(rest, ":-:")
	}
	return false
}

func (s *state) str(ctx stringContext) bool {
	return s.rule(RuleString, func() bool {
		return s.atomically(func() bool {
			return s.first(
				s.token(RuleAsterisk, "*"),
				s.regexReplacement,
				func() bool { return s.anchoredString(ctx) },
			)
		})
	})
}

func (s *state) anchoredString(ctx stringContext) bool {
	s.optional(s.token(RuleAnchorStart, "^"))
	ok := s.first(
		s.quotedString,
		s.regex,
		func() bool { return s.unquotedString(ctx) },
	)
	if !ok {
		return false
	}
	return s.optional(func() bool {
		s.optional(s.explicitSpace)
		return s.token(RuleAnchorEnd, "$")()
	})
}

func (s *state) unquotedString(ctx stringContext) bool {
	return s.rule(RuleUnquotedString, func() bool {
		if !s.char(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
			return false
		}
		end := s.pos
		for !ctx.terminates(s.input[s.pos:]) {
			r, size := s.peek()
			s.pos += size
			if !unicode.IsSpace(r) {
				end = s.pos
			}
		}
		s.pos = end
		return true
	})
}

func (s *state) quotedString() bool {
	return s.rule(RuleQuotedString, func() bool {
		q, _ := s.peek()
		if q != '"' && q != '\'' {
			return false
		}
		s.pos++
		s.repeat(func() bool { return s.quotedChar(q) })
		return s.char(func(r rune) bool { return r == q })
	})
}

func (s *state) quotedChar(quote rune) bool {
	return s.rule(RuleQuotedChar, func() bool {
		return s.first(
			func() bool {
				return s.rule(RuleQuotedPlainChars, func() bool {
					plain := func(r rune) bool { return r != quote && r != '\\' }
					if !s.char(plain) {
						return false
					}
					for s.char(plain) {
					}
					return true
				})
			},
			func() bool {
				return s.rule(RuleEscapedChar, func() bool {
					return s.literal(`\`) && s.char(func(r rune) bool {
						return strings.ContainsRune("\"'`\\nrt", r)
					})
				})
			},
			s.unicodeSeq,
		)
	})
}

func (s *state) unicodeSeq() bool {
	return s.rule(RuleUnicodeSeq, func() bool {
		if !s.literal(`\u{`) {
			return false
		}
		digits := 0
		for digits < 6 && s.char(isHexDigit) {
			digits++
		}
		return digits > 0 && s.literal("}")
	})
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func (s *state) regex() bool {
	return s.rule(RuleRegex, func() bool {
		return s.literal("/") && s.regexBody() && s.literal("/")
	})
}

func (s *state) regexBody() bool {
	return s.rule(RuleRegexBody, func() bool {
		return s.repeat(func() bool {
			return s.rule(RuleRegexChar, func() bool {
				return s.first(
					s.token(RuleRegexEscapedSlash, `\/`),
					func() bool {
						return s.rule(RuleRegexNormalChar, func() bool {
							return s.char(func(r rune) bool { return r != '/' })
						})
					},
				)
			})
		})
	})
}

func (s *state) regexReplacement() bool {
	return s.rule(RuleRegexReplacement, func() bool {
		return s.literal("!s/") &&
			s.regexBody() &&
			s.literal("/") &&
			s.regexBody() &&
			s.literal("/")
	})
}
