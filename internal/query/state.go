package query

import (
	"strings"
	"unicode/utf8"
)

// state is the parser's cursor over the input plus the failure tracker.
type state struct {
	input string
	pos   int

	// attemptPos is the furthest offset at which a rule failed; positives
	// are the rules expected there.
	attemptPos int
	positives  []Rule

	// atomic > 0 while inside a string; failures there are attributed to
	// the string rule itself.
	atomic int

	children []Pair
}

func newState(input string) *state {
	return &state{input: input}
}

func (s *state) attemptsAt(pos int) int {
	if pos == s.attemptPos {
		return len(s.positives)
	}
	return 0
}

// rule runs f as rule r. On success the pair is appended to the current
// children. On failure the cursor is restored and the failure is tracked.
func (s *state) rule(r Rule, f func() bool) bool {
	start := s.pos
	entryAttemptPos := s.attemptPos
	entryLen := len(s.positives)
	prevAttempts := s.attemptsAt(start)

	parent := s.children
	s.children = nil

	if f() {
		pair := Pair{Rule: r, Start: start, End: s.pos, Children: s.children}
		s.children = append(parent, pair)
		return true
	}

	s.children = parent
	s.pos = start
	s.track(r, start, entryAttemptPos, entryLen, prevAttempts)
	return false
}

func (s *state) track(r Rule, pos, entryAttemptPos, entryLen, prevAttempts int) {
	if s.atomic > 0 {
		return
	}

	// a single child failure at this position is more specific than r
	curr := s.attemptsAt(pos)
	if curr > prevAttempts && curr-prevAttempts == 1 {
		return
	}

	switch {
	case pos == s.attemptPos:
		if entryAttemptPos == pos {
			if entryLen < len(s.positives) {
				s.positives = s.positives[:entryLen]
			}
		} else {
			s.positives = s.positives[:0]
		}
	case pos > s.attemptPos:
		s.positives = s.positives[:0]
		s.attemptPos = pos
	default:
		return
	}
	s.positives = append(s.positives, r)
}

// atomically runs f with failure tracking suppressed for nested rules.
func (s *state) atomically(f func() bool) bool {
	s.atomic++
	defer func() { s.atomic-- }()
	return f()
}

// optional runs f and restores the cursor if it fails. It always succeeds.
func (s *state) optional(f func() bool) bool {
	s.attempt(f)
	return true
}

// attempt runs f and restores the cursor and children if it fails.
func (s *state) attempt(f func() bool) bool {
	pos, n := s.pos, len(s.children)
	if f() {
		return true
	}
	s.pos = pos
	s.children = s.children[:n]
	return false
}

// first tries each alternative in order.
func (s *state) first(alts ...func() bool) bool {
	for _, alt := range alts {
		if s.attempt(alt) {
			return true
		}
	}
	return false
}

// repeat runs f until it fails or stops making progress.
func (s *state) repeat(f func() bool) bool {
	for {
		pos := s.pos
		if !s.attempt(f) || s.pos == pos {
			return true
		}
	}
}

func (s *state) literal(lit string) bool {
	if strings.HasPrefix(s.input[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *state) peek() (rune, int) {
	if s.pos >= len(s.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.input[s.pos:])
}

// char consumes one rune satisfying ok.
func (s *state) char(ok func(rune) bool) bool {
	r, size := s.peek()
	if size == 0 || !ok(r) {
		return false
	}
	s.pos += size
	return true
}

func (s *state) atEnd() bool {
	return s.pos >= len(s.input)
}
