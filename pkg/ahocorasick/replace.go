package ahocorasick

// Sink receives successive slices of replaced output. A ReplaceSession
// calls it whenever its internal output buffer fills, and once more on
// Flush for whatever remains; the bytes passed are only valid until the
// call returns, matching the teacher's streaming-callback convention
// elsewhere in this codebase.
type Sink func(chunk []byte)

// nominee is a pending pattern match awaiting resolution: it might still
// be covered by a longer match ending later in the stream, so it isn't
// emitted immediately.
type nominee struct {
	pattern *Pattern
	end     int // absolute end position
}

// ReplaceSession carries the mutable state of one streaming replace
// operation: the search cursor, pending nominees, the chunk-boundary
// backlog, and the output buffer. As with Cursor, a finalized Automaton
// may be shared across goroutines but each needs its own ReplaceSession.
type ReplaceSession struct {
	cursor Cursor

	nominees []nominee

	buffer []byte // accumulated output, flushed to sink at capacity
	backlog []byte // tail of previously-seen bytes that might still be a pattern prefix

	// outCursor is the absolute position up to which output has been
	// emitted to sink (not counting whatever sits in buffer right now).
	outCursor int

	mode    Mode
	started bool
}

// NewReplaceSession returns a ReplaceSession ready for its first Replace
// call.
func NewReplaceSession() *ReplaceSession {
	return &ReplaceSession{
		buffer:  make([]byte, 0, ReplacementBufferSize),
		backlog: make([]byte, 0, MaxPatternLen),
	}
}

// Replace feeds chunk through the automaton, resolving and emitting
// replaced output to sink as soon as it can no longer be affected by a
// still-arriving longer match. mode governs how overlapping matches are
// resolved; once a session has processed its first chunk, mode is fixed
// for the rest of that session's life up to its next Flush.
//
// Replace returns ErrNoReplacement if the automaton has no
// replacement-bearing patterns at all, and ErrOpen if it isn't finalized.
func (a *Automaton) Replace(rs *ReplaceSession, chunk []byte, mode Mode, sink Sink) error {
	if a.open {
		return ErrOpen
	}
	if !a.hasReplacement {
		return ErrNoReplacement
	}

	rs.mode = mode
	if !rs.started {
		rs.cursor.current = a.root
		rs.cursor.basePosition = 0
		rs.outCursor = 0
		rs.started = true
	}

	current := rs.cursor.current
	if current == nil {
		current = a.root
	}

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

		if forward && current.final && current.replacementOf != nil {
			rs.bookNominee(nominee{pattern: current.replacementOf, end: rs.cursor.basePosition + pos})
		}
	}

	backlogPos := rs.cursor.basePosition + len(chunk) - current.depth
	rs.doReplace(backlogPos, chunk, sink)
	rs.saveToBacklog(backlogPos, chunk)

	rs.cursor.current = current
	rs.cursor.basePosition += pos
	return nil
}

// Flush resolves every remaining nominee and emits whatever output is
// still buffered, then resets the session to a fresh state ready for a
// new stream.
func (a *Automaton) Flush(rs *ReplaceSession, sink Sink) {
	rs.doReplace(rs.cursor.basePosition, nil, sink)
	if len(rs.buffer) > 0 {
		sink(rs.buffer)
		rs.buffer = rs.buffer[:0]
	}
	rs.nominees = rs.nominees[:0]
	rs.backlog = rs.backlog[:0]
	rs.outCursor = 0
	rs.cursor.current = nil
	rs.cursor.basePosition = 0
	rs.started = false
}

// bookNominee records a candidate replacement, resolving overlaps with
// already-booked nominees according to rs.mode.
func (rs *ReplaceSession) bookNominee(n nominee) {
	if n.pattern == nil {
		return
	}
	start := n.end - len(n.pattern.Key)

	switch rs.mode {
	case ModeLazy:
		if start < rs.outCursor {
			return
		}
		if len(rs.nominees) > 0 {
			prev := rs.nominees[len(rs.nominees)-1]
			if start < prev.end {
				return
			}
		}
	default: // ModeNormal
		for len(rs.nominees) > 0 {
			prev := rs.nominees[len(rs.nominees)-1]
			prevStart := prev.end - len(prev.pattern.Key)
			if start <= prevStart {
				rs.nominees = rs.nominees[:len(rs.nominees)-1]
				continue
			}
			break
		}
	}

	rs.nominees = append(rs.nominees, n)
}

// doReplace resolves and emits every nominee whose start position lies
// strictly before toPosition, then emits the unreplaced gap bytes up to
// toPosition, advancing outCursor as it goes.
func (rs *ReplaceSession) doReplace(toPosition int, chunk []byte, sink Sink) {
	if toPosition < rs.cursor.basePosition {
		return
	}

	consumed := 0
	for _, n := range rs.nominees {
		start := n.end - len(n.pattern.Key)
		if toPosition <= start {
			break
		}
		rs.appendFactor(rs.outCursor, start, chunk, sink)
		rs.appendBytes(n.pattern.Replacement, sink)
		rs.outCursor = n.end
		consumed++
	}
	if consumed > 0 {
		rs.nominees = append(rs.nominees[:0], rs.nominees[consumed:]...)
	}

	if toPosition > rs.outCursor {
		rs.appendFactor(rs.outCursor, toPosition, chunk, sink)
		rs.outCursor = toPosition
	}

	if rs.cursor.basePosition <= rs.outCursor {
		rs.backlog = rs.backlog[:0]
	}
}

// appendFactor emits the byte range [from, to), which may lie entirely in
// the current chunk, entirely in the backlog, or straddle both.
func (rs *ReplaceSession) appendFactor(from, to int, chunk []byte, sink Sink) {
	if to < from {
		return
	}
	if rs.cursor.basePosition <= from {
		rs.appendBytes(chunk[from-rs.cursor.basePosition:to-rs.cursor.basePosition], sink)
		return
	}

	backlogBase := rs.cursor.basePosition - len(rs.backlog)
	if from < backlogBase {
		return
	}
	if to < rs.cursor.basePosition {
		rs.appendBytes(rs.backlog[from-backlogBase:to-backlogBase], sink)
		return
	}

	rs.appendBytes(rs.backlog[from-backlogBase:], sink)
	rs.appendBytes(chunk[0:to-rs.cursor.basePosition], sink)
}

// appendBytes copies b into the output buffer, flushing to sink whenever
// the buffer fills.
func (rs *ReplaceSession) appendBytes(b []byte, sink Sink) {
	for len(b) > 0 {
		space := cap(rs.buffer) - len(rs.buffer)
		n := len(b)
		if n > space {
			n = space
		}
		rs.buffer = append(rs.buffer, b[:n]...)
		b = b[n:]
		if len(rs.buffer) == cap(rs.buffer) {
			sink(rs.buffer)
			rs.buffer = rs.buffer[:0]
		}
	}
}

// saveToBacklog retains the tail of chunk starting at backlogPos, which
// might still be a prefix of a pattern that continues into the next
// chunk.
func (rs *ReplaceSession) saveToBacklog(backlogPos int, chunk []byte) {
	rel := 0
	if rs.cursor.basePosition < backlogPos {
		rel = backlogPos - rs.cursor.basePosition
	}
	if rel >= len(chunk) {
		return
	}
	rs.backlog = append(rs.backlog, chunk[rel:]...)
}
