package ahocorasick

// Cursor carries the mutable state of one stream of search or find-next
// calls against a finalized Automaton: which node the automaton is
// currently in, and how many bytes of prior chunks have already been
// consumed. Automatons are safe to share across goroutines; Cursors are
// not — each concurrent caller needs its own.
type Cursor struct {
	current      *Node
	basePosition int

	// text/textPos back the pull-style FindNext API. They are set by
	// SetText and advanced by FindNext; Search does not touch them.
	text    []byte
	textPos int
}

// NewCursor returns a Cursor positioned at the start of a fresh stream.
func NewCursor() *Cursor {
	return &Cursor{}
}

// Reset returns the cursor to the start of a fresh stream, discarding any
// pending SetText buffer.
func (c *Cursor) Reset() {
	c.current = nil
	c.basePosition = 0
	c.text = nil
	c.textPos = 0
}

// Position returns the number of bytes consumed by the stream so far.
func (c *Cursor) Position() int {
	return c.basePosition
}

// OnMatch is called once per position where one or more patterns end. It
// returns true to stop the search early.
type OnMatch func(*Match) bool

// Search feeds chunk through the automaton starting from c's current
// state. If keep is false, the cursor is reset to the root before this
// chunk is processed (use this for the first chunk of a stream, or to
// discard whatever state a previous stream left behind); if true, the
// cursor resumes exactly where the previous Search or FindNext call on
// this cursor left off.
//
// onMatch is invoked synchronously for every match, in position order. If
// it returns true, Search stops immediately and returns (consumed,
// true, nil), where consumed is the number of bytes of chunk processed so
// far — the cursor is left positioned so a subsequent call with
// keep=true and chunk[consumed:] resumes exactly where it stopped.
func (a *Automaton) Search(c *Cursor, chunk []byte, keep bool, onMatch OnMatch) (consumed int, stopped bool, err error) {
	if a.open {
		return 0, false, ErrOpen
	}
	if !keep || c.current == nil {
		c.current = a.root
		c.basePosition = 0
	}

	current := c.current
	pos := 0
	for pos < len(chunk) {
		b := chunk[pos]
		next := current.findNextSorted(b)
		forward := false
		if next == nil {
			if current != a.root {
				current = current.failure
			} else {
				pos++
			}
		} else {
			current = next
			pos++
			forward = true
		}

		if forward && current.final {
			m := &Match{Position: c.basePosition + pos, Patterns: current.matches}
			if onMatch(m) {
				c.current = current
				c.basePosition += pos
				return pos, true, nil
			}
		}
	}

	c.current = current
	c.basePosition += pos
	return pos, false, nil
}

// SetText loads chunk for pull-style matching via FindNext. If keep is
// false, the cursor is reset to the root first, exactly like Search's
// keep parameter.
func (a *Automaton) SetText(c *Cursor, chunk []byte, keep bool) {
	if !keep || c.current == nil {
		c.current = a.root
		c.basePosition = 0
	}
	c.text = chunk
	c.textPos = 0
}

// FindNext returns the next match in the text most recently loaded by
// SetText, resuming from exactly where the previous FindNext call left
// off. It returns (nil, false) once the loaded text is exhausted; a
// further FindNext call without an intervening SetText also returns
// (nil, false).
func (a *Automaton) FindNext(c *Cursor) (*Match, bool) {
	if a.open {
		return nil, false
	}

	current := c.current
	if current == nil {
		current = a.root
	}
	pos := c.textPos

	for pos < len(c.text) {
		b := c.text[pos]
		next := current.findNextSorted(b)
		forward := false
		if next == nil {
			if current != a.root {
				current = current.failure
			} else {
				pos++
			}
		} else {
			current = next
			pos++
			forward = true
		}

		if forward && current.final {
			c.current = current
			c.textPos = pos
			return &Match{Position: c.basePosition + pos, Patterns: current.matches}, true
		}
	}

	c.current = current
	c.basePosition += pos
	c.text = nil
	c.textPos = 0
	return nil, false
}
