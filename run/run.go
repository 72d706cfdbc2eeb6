package run

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/arfbllh/mdq/mdelem"
	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/selector"
)

// Stdin is the file name that reads standard input.
const Stdin = "-"

// Options mirrors the command line.
type Options struct {
	Selectors string
	// Files are read and concatenated in order. No files means stdin.
	Files  []string
	Output output.Format
	Breaks bool
	// LinkPos places link definitions; FootnotePos defaults to it.
	LinkPos     output.Placement
	FootnotePos *output.Placement
	LinkFormat  output.LinkFormat
	// JSONPath filters the JSON rendering of the results. Setting it
	// implies JSON output.
	JSONPath       string
	Quiet          bool
	EnhancedErrors bool
}

// WriterOptions returns the output options the run would use.
func (o Options) WriterOptions() output.Options {
	footnotes := o.LinkPos
	if o.FootnotePos != nil {
		footnotes = *o.FootnotePos
	}
	return output.Options{
		Breaks:      o.Breaks,
		LinkPos:     o.LinkPos,
		FootnotePos: footnotes,
		LinkFormat:  o.LinkFormat,
	}
}

// OsFacade is the I/O a run performs.
type OsFacade interface {
	ReadStdin() (string, error)
	ReadFile(path string) (string, error)
	Stdout() io.Writer
	WriteError(err *Error)
}

// Run parses the query, reads the input, selects and writes the results.
// It reports whether anything was selected; failures go to os.WriteError.
func Run(opts Options, os OsFacade, log *zap.Logger) bool {
	if log == nil {
		log = zap.NewNop()
	}

	chain, err := selector.Parse(opts.Selectors)
	if err != nil {
		log.Debug("query parse failed", zap.String("query", opts.Selectors), zap.Error(err))
		os.WriteError(&Error{Kind: ErrQueryParse, Query: opts.Selectors, Enhanced: opts.EnhancedErrors, Err: err})
		return false
	}

	contents, rerr := readInputs(opts.Files, os, log)
	if rerr != nil {
		os.WriteError(rerr)
		return false
	}

	doc, err := mdelem.Parse(contents)
	if err != nil {
		os.WriteError(&Error{Kind: ErrMarkdownParse, Err: err})
		return false
	}

	nodes, ctx, err := chain.FindNodes(doc)
	if err != nil {
		os.WriteError(&Error{Kind: ErrSelect, Err: err})
		return false
	}
	log.Debug("selected nodes", zap.String("query", chain.String()), zap.Int("count", len(nodes)))

	if !opts.Quiet {
		if werr := write(os.Stdout(), opts, nodes, ctx); werr != nil {
			os.WriteError(werr)
			return false
		}
	}
	return len(nodes) > 0
}

func readInputs(files []string, os OsFacade, log *zap.Logger) (string, *Error) {
	if len(files) == 0 {
		files = []string{Stdin}
	}

	var sb strings.Builder
	readStdin := false
	for _, path := range files {
		var contents string
		var err error
		if path == Stdin {
			if readStdin {
				continue
			}
			readStdin = true
			contents, err = os.ReadStdin()
		} else {
			contents, err = os.ReadFile(path)
		}
		if err != nil {
			return "", &Error{Kind: ErrFileRead, Path: path, Err: err}
		}
		log.Debug("read input", zap.String("path", path), zap.Int("bytes", len(contents)))

		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
		sb.WriteString(contents)
	}
	return sb.String(), nil
}

func write(w io.Writer, opts Options, nodes []mdelem.Node, ctx *selector.Context) *Error {
	wopts := opts.WriterOptions()

	if opts.JSONPath != "" {
		matches, err := output.FilterJSON(output.JSONWriter{Options: wopts}.Value(nodes, ctx), opts.JSONPath)
		if err != nil {
			return &Error{Kind: ErrJSONPath, Err: err}
		}
		if err := output.WriteJSON(w, matches); err != nil {
			return &Error{Kind: ErrOutput, Err: err}
		}
		return nil
	}

	if err := output.Write(w, opts.Output, nodes, ctx, wopts); err != nil {
		return &Error{Kind: ErrOutput, Err: err}
	}
	return nil
}
