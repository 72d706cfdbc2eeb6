package repl

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/arfbllh/mdq/mdelem"
	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/run"
)

var errNoReloadPath = errors.New("no file path available for reloading")

// Session holds the raw document text and where it came from.
type Session struct {
	content *string
	path    string
}

// LoadContent replaces the document with text that has no file behind it.
func (s *Session) LoadContent(content string) {
	s.content = &content
	s.path = ""
}

// LoadFile replaces the document with the contents of path.
func (s *Session) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &run.Error{Kind: run.ErrFileRead, Path: path, Err: err}
	}
	content := string(data)
	s.content = &content
	s.path = path
	return nil
}

// Reload reads the document's file again.
func (s *Session) Reload() error {
	if s.path == "" {
		return errNoReloadPath
	}
	return s.LoadFile(s.path)
}

func (s *Session) Clear() {
	s.content = nil
	s.path = ""
}

func (s *Session) HasDocument() bool {
	return s.content != nil
}

// Parse parses the current text.
func (s *Session) Parse() (*mdelem.Doc, error) {
	if s.content == nil {
		return nil, errors.New("no document loaded")
	}
	return mdelem.Parse(*s.content)
}

// Info describes the loaded document.
func (s *Session) Info() string {
	switch {
	case s.content == nil:
		return "No document loaded"
	case s.path == "":
		return fmt.Sprintf("Document: stdin (%d bytes)", len(*s.content))
	default:
		return fmt.Sprintf("Document: %s (%d bytes)", s.path, len(*s.content))
	}
}

// State is what the REPL knows between commands: the parsed document, the
// output settings and the user's variables.
type State struct {
	doc       *mdelem.Doc
	options   run.Options
	variables map[string]string
}

func NewState(options run.Options) *State {
	return &State{options: options, variables: make(map[string]string)}
}

func (s *State) Document() *mdelem.Doc { return s.doc }

func (s *State) SetDocument(d *mdelem.Doc) { s.doc = d }

func (s *State) ClearDocument() { s.doc = nil }

func (s *State) Options() run.Options { return s.options }

func (s *State) SetFormat(f output.Format) {
	s.options.Output = f
}

func (s *State) SetVariable(name, value string) {
	s.variables[name] = value
}

func (s *State) Variable(name string) (string, bool) {
	v, ok := s.variables[name]
	return v, ok
}

// VariableNames returns the variable names in sorted order.
func (s *State) VariableNames() []string {
	names := make([]string, 0, len(s.variables))
	for name := range s.variables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// History keeps the most recent input lines, skipping immediate repeats.
type History struct {
	entries []string
	max     int
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{max: size}
}

func (h *History) Add(line string) {
	if line == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == line) {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}
