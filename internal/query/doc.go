/*
Package query implements the grammar of the mdq selector language.

# Overview

A query is one or more selectors separated by pipes. Parsing happens in a
single pass over the input and yields a tree of Pairs, one per matched rule,
each carrying the byte range it covers. Turning that tree into typed
selectors is left to the selector package; this package only knows about
text.

# Grammar

	top            = SOI explicit_space? selector_chain explicit_space? EOI
	selector_chain = selector (selector_delim selector)*
	selector_delim = explicit_space? "|" explicit_space?

	selector = select_section
	         | select_list_item
	         | select_link
	         | select_block_quote
	         | select_code_block
	         | select_front_matter
	         | select_html
	         | select_paragraph
	         | select_table

	select_section      = "#" (explicit_space string)?
	select_list_item    = ("-" | "1.") (explicit_space list_task_options)? (explicit_space string)?
	list_task_options   = "[" ("x" | " " | "?" | <any char but "]">) "]"
	select_link         = ("![" | "[") explicit_space? string? explicit_space? "]("
	                      explicit_space? string? explicit_space? ")"
	select_block_quote  = ">" (explicit_space string)?
	select_code_block   = "```" string? (explicit_space string)?
	select_front_matter = "+++" string? (explicit_space string)?
	select_html         = "</>" (explicit_space string)?
	select_paragraph    = "P:" (explicit_space string)?
	select_table        = ":-:" (explicit_space string)? (explicit_space? ":-:" (explicit_space string)?)?

	string = "*"
	       | "!s/" regex_body "/" regex_body "/"
	       | "^"? (quoted_string | regex | unquoted_string) (explicit_space? "$")?

	regex         = "/" regex_body "/"
	regex_body    = ("\/" | <any char but "/">)*
	quoted_string = '"' quoted_char* '"' | "'" quoted_char* "'"
	quoted_char   = <plain chars> | "\" ("\"" | "'" | "`" | "\" | "n" | "r" | "t") | "\u{" hex{1,6} "}"

An unquoted string starts with a letter or digit and runs until a
terminator, with trailing whitespace excluded. "|" and "$" always
terminate. Link text also stops at "]", link URLs at ")", code block
languages and front matter variants at whitespace, and table column
matchers at ":-:".

# Errors

Failures are tracked the way PEG parser generators usually do it: the
furthest offset at which any rule failed wins, and a rule that fails
without making progress past its own start replaces whatever its children
reported with itself. When nothing narrower than the whole query can be
named, the only expected rule is RuleTop.

Rules inside a string are matched atomically and never show up as expected
rules on their own; the string does.
*/
package query
