// Package repl implements mdq's interactive mode: load a document once, then
// run selector queries against it line by line.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/selector"
)

const (
	prompt = "mdq> "

	// DefaultHistorySize bounds the input history.
	DefaultHistorySize = 1000
)

var (
	titleStyle = color.New(color.FgCyan, color.Bold)
	errorStyle = color.New(color.FgRed, color.Bold)
)

const helpText = `Available commands:
  <selector>     Execute a selector query
  .load <file>   Load a document from file
  .reload        Reload the current document
  .format <fmt>  Change output format (md|json|plain)
  .set <n> <v>   Set a variable
  .get <n>       Get a variable value
  .vars          List all variables
  .info          Show document information
  .clear         Clear current document
  .help          Show this help
  .exit          Exit REPL

Selector examples:
  # Section      - Select sections with title containing 'Section'
  - List item    - Select list items containing 'List item'
  [text](url)    - Select links with display text 'text'
  > Quote        - Select blockquotes containing 'Quote'
  ` + "```rust" + `        - Select code blocks with language 'rust'
`

// Repl reads commands from in and writes results and messages to out.
type Repl struct {
	in  *bufio.Reader
	out io.Writer
	log *zap.Logger

	session *Session
	state   *State
	history *History
}

func New(in io.Reader, out io.Writer, state *State, history *History, log *zap.Logger) *Repl {
	if log == nil {
		log = zap.NewNop()
	}
	if history == nil {
		history = NewHistory(DefaultHistorySize)
	}
	return &Repl{
		in:      bufio.NewReader(in),
		out:     out,
		log:     log,
		session: &Session{},
		state:   state,
		history: history,
	}
}

// LoadContent makes content, typically read from stdin, the current
// document.
func (r *Repl) LoadContent(content string) error {
	r.session.LoadContent(content)
	return r.parse()
}

// LoadFile makes the file at path the current document.
func (r *Repl) LoadFile(path string) error {
	if err := r.session.LoadFile(path); err != nil {
		return err
	}
	return r.parse()
}

func (r *Repl) parse() error {
	doc, err := r.session.Parse()
	if err != nil {
		return err
	}
	r.state.SetDocument(doc)
	r.log.Debug("document loaded", zap.String("info", r.session.Info()), zap.Int("roots", len(doc.Roots)))
	return nil
}

// History returns the lines entered so far.
func (r *Repl) History() []string {
	return r.history.Entries()
}

// Run loops until .exit or the end of input.
func (r *Repl) Run() error {
	r.welcome()
	for {
		fmt.Fprint(r.out, prompt)
		line, err := r.in.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if !r.Execute(ParseCommand(line)) {
				break
			}
		}
		if eof {
			break
		}
	}
	fmt.Fprintln(r.out, "Goodbye!")
	return nil
}

func (r *Repl) welcome() {
	titleStyle.Fprintln(r.out, "mdq REPL - Interactive Markdown Query Tool")
	fmt.Fprintln(r.out, "Type '.help' for available commands, or enter a selector query")
	fmt.Fprintln(r.out, "Press Ctrl+D or type '.exit' to quit")
	fmt.Fprintln(r.out)
}

// Execute runs one command and reports whether the loop should go on.
func (r *Repl) Execute(cmd Command) bool {
	switch cmd.Kind {
	case CmdQuery:
		r.query(cmd.Text)

	case CmdLoad:
		if err := r.LoadFile(cmd.Text); err != nil {
			r.errorf("Error loading document: %v", err)
			break
		}
		fmt.Fprintf(r.out, "Document loaded successfully: %s\n", cmd.Text)
		fmt.Fprintln(r.out, r.session.Info())

	case CmdReload:
		if err := r.session.Reload(); err != nil {
			r.errorf("Error reloading document: %v", err)
			break
		}
		if err := r.parse(); err != nil {
			r.errorf("Error parsing reloaded document: %v", err)
			break
		}
		fmt.Fprintln(r.out, "Document reloaded successfully")
		fmt.Fprintln(r.out, r.session.Info())

	case CmdFormat:
		r.state.SetFormat(cmd.Format)
		fmt.Fprintf(r.out, "Output format set to: %s\n", cmd.Format)

	case CmdSet:
		r.state.SetVariable(cmd.Text, cmd.Value)
		fmt.Fprintf(r.out, "Set variable '%s' = '%s'\n", cmd.Text, cmd.Value)

	case CmdGet:
		if v, ok := r.state.Variable(cmd.Text); ok {
			fmt.Fprintf(r.out, "%s = %s\n", cmd.Text, v)
		} else {
			fmt.Fprintf(r.out, "Variable '%s' not found\n", cmd.Text)
		}

	case CmdVariables:
		names := r.state.VariableNames()
		if len(names) == 0 {
			fmt.Fprintln(r.out, "No variables set")
			break
		}
		fmt.Fprintln(r.out, "Variables:")
		for _, name := range names {
			v, _ := r.state.Variable(name)
			fmt.Fprintf(r.out, "  %s = %s\n", name, v)
		}

	case CmdHelp:
		titleStyle.Fprintln(r.out, "mdq REPL - Interactive Markdown Query Tool")
		fmt.Fprintln(r.out)
		fmt.Fprint(r.out, helpText)

	case CmdInfo:
		doc := r.state.Document()
		if doc == nil {
			fmt.Fprintln(r.out, "No document loaded")
			break
		}
		fmt.Fprintf(r.out, "Document loaded with %d root elements\n", len(doc.Roots))
		fmt.Fprintln(r.out, r.session.Info())

	case CmdClear:
		r.session.Clear()
		r.state.ClearDocument()
		fmt.Fprintln(r.out, "Document cleared")

	case CmdExit:
		return false

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd.Text)
		fmt.Fprintln(r.out, "Use .help for available commands")
	}
	return true
}

func (r *Repl) query(text string) {
	doc := r.state.Document()
	if doc == nil {
		r.errorf("Error: No document loaded. Use .load <file> first.")
		return
	}

	chain, err := selector.Parse(text)
	if err != nil {
		var perr *selector.ParseError
		if errors.As(err, &perr) {
			r.errorf("Error parsing selector:\n%s", perr.RenderWithSuggestions(text))
		} else {
			r.errorf("Error parsing selector: %v", err)
		}
		return
	}

	nodes, ctx, err := chain.FindNodes(doc)
	if err != nil {
		r.errorf("Error executing selector: %v", err)
		return
	}
	r.log.Debug("query", zap.String("selector", chain.String()), zap.Int("matches", len(nodes)))
	if len(nodes) == 0 {
		fmt.Fprintln(r.out, "No elements matched the selector")
		return
	}

	opts := r.state.Options()
	if err := output.Write(r.out, opts.Output, nodes, ctx, opts.WriterOptions()); err != nil {
		r.errorf("Error writing results: %v", err)
	}
}

func (r *Repl) errorf(format string, args ...any) {
	errorStyle.Fprintln(r.out, fmt.Sprintf(format, args...))
}
