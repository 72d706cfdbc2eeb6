package run

import (
	"errors"
	"fmt"

	"github.com/arfbllh/mdq/selector"
)

// ErrorKind classifies a failed run.
type ErrorKind int

const (
	ErrQueryParse ErrorKind = iota
	ErrFileRead
	ErrMarkdownParse
	ErrSelect
	ErrJSONPath
	ErrOutput
)

func (k ErrorKind) String() string {
	switch k {
	case ErrQueryParse:
		return "query parse"
	case ErrFileRead:
		return "file read"
	case ErrMarkdownParse:
		return "markdown parse"
	case ErrSelect:
		return "select"
	case ErrJSONPath:
		return "json path"
	case ErrOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Error is reported to the OsFacade when a run fails.
type Error struct {
	Kind ErrorKind
	// Query is the selector text, kept to render parse diagnostics.
	Query string
	// Path is the input that could not be read; "-" is stdin.
	Path string
	// Enhanced renders query parse errors with suggestions.
	Enhanced bool
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrQueryParse:
		var perr *selector.ParseError
		if errors.As(e.Err, &perr) {
			if e.Enhanced {
				return "Syntax error in select specifier:\n" + perr.RenderWithSuggestions(e.Query)
			}
			return "Syntax error in select specifier:\n" + perr.Render(e.Query)
		}
		return fmt.Sprintf("invalid query: %v", e.Err)
	case ErrFileRead:
		if e.Path == "-" {
			return fmt.Sprintf("reading stdin: %v", e.Err)
		}
		return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
	case ErrMarkdownParse:
		return fmt.Sprintf("parsing markdown: %v", e.Err)
	case ErrSelect:
		return fmt.Sprintf("selecting: %v", e.Err)
	case ErrJSONPath:
		return e.Err.Error()
	default:
		return fmt.Sprintf("writing output: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
