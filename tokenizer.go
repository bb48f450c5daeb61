// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"github.com/rs/zerolog"
)

// Tokenizer invariants and buffers
//
// The tokenizer treats its input as an unbounded stream of bytes that
// arrives in chunks of any size. Nothing is carried in local variables
// between calls: everything needed to resume is in the struct.
//
// Fields:
//   state   - the resting state, one of Start, InAtom, Escape, ClearAtom.
//   atom    - bytes of the atom in progress.
//   message - atoms completed since the last terminator.
//
// Invariants (must always hold between bytes):
//
//   state == Start     => len(atom) == 0
//   state == InAtom    => len(atom) > 0
//   state == ClearAtom => len(atom) == 0
//
//   message only ever holds complete atoms; the atom buffer is moved
//   into it by flushAtom, never read from it.
//
// Emission:
//
//   - A message is emitted only on a terminator, and all at once.
//   - The emitted slice is handed to the caller and the tokenizer starts
//     a fresh one, so the caller may keep it across later calls.
//   - Atoms are copied out of the atom buffer when they are flushed, so
//     reusing the buffer never changes an atom the caller holds.
//
// There is no flush at end of input. A message without its terminator is
// never seen by the caller; Reset drops it.

// Tokenizer decodes a stream of FUDI bytes into messages.
//
// A Tokenizer is owned by a single stream. It is not safe for
// concurrent use.
type Tokenizer struct {
	state   State
	atom    []byte
	message Message

	policy      EscapePolicy
	handler     func(Message)
	diagnostics func(Diagnostic)
	trace       func(Transition)
	logger      zerolog.Logger

	// position of the next input byte
	pos Position
	// position of the first byte of the atom in progress
	anchor Position

	stats Stats
}

// Stats counts what a Tokenizer has consumed and produced.
type Stats struct {
	Bytes     int64 // input bytes consumed
	Messages  int64 // messages emitted, including empty ones
	Atoms     int64 // atoms completed
	Discarded int64 // atoms dropped by the escape policy
}

// NewTokenizer returns a Tokenizer in the Start state.
func NewTokenizer(opts ...Option) (*Tokenizer, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newTokenizer(c), nil
}

func newTokenizer(c *Config) *Tokenizer {
	return &Tokenizer{
		state:       Start,
		policy:      c.escapePolicy,
		handler:     c.handler,
		diagnostics: c.diagnostics,
		trace:       c.trace,
		logger:      c.logger,
		pos:         Position{Line: 1, Column: 1},
	}
}

// Feed consumes chunk and returns the messages it completed, in order.
// It returns nil if chunk did not complete any message.
func (t *Tokenizer) Feed(chunk []byte) []Message {
	var out []Message
	for _, ch := range chunk {
		if m, ok := t.FeedByte(ch); ok {
			out = append(out, m)
		}
	}
	return out
}

// Write consumes p, passing each completed message to the handler set
// with WithHandler. It always consumes all of p and never returns an error.
func (t *Tokenizer) Write(p []byte) (int, error) {
	for _, ch := range p {
		if m, ok := t.FeedByte(ch); ok && t.handler != nil {
			t.handler(m)
		}
	}
	return len(p), nil
}

// FeedByte applies a single byte to the state machine.
// It returns the message and true if ch was the terminator of a message.
func (t *Tokenizer) FeedByte(ch byte) (Message, bool) {
	from := t.state
	var m Message
	var emitted bool

	switch t.state {
	case Start:
		switch classify(ch) {
		case whitespace:
			// skip
		case semicolon:
			m, emitted = t.emit(), true
		case backslash:
			// an atom may begin with escaped whitespace
			t.setAnchor()
			t.state = Escape
		default:
			t.setAnchor()
			t.atom = append(t.atom, ch)
			t.state = InAtom
		}
	case InAtom:
		switch classify(ch) {
		case whitespace:
			t.flushAtom()
			t.state = Start
		case semicolon:
			t.flushAtom()
			m, emitted = t.emit(), true
		case backslash:
			t.state = Escape
		default:
			t.atom = append(t.atom, ch)
		}
	case Escape:
		switch classify(ch) {
		case whitespace:
			t.atom = append(t.atom, ch)
			t.state = InAtom
		case semicolon:
			t.flushAtom()
			m, emitted = t.emit(), true
		default:
			t.invalidEscape(ch)
		}
	case ClearAtom:
		switch classify(ch) {
		case whitespace:
			t.state = Start
		case semicolon:
			m, emitted = t.emit(), true
		default:
			// still inside the discarded atom
		}
	}

	if t.trace != nil {
		t.trace(Transition{Offset: t.pos.Offset, Byte: ch, From: from, To: t.state, Emitted: emitted})
	}
	t.advance(ch)
	return m, emitted
}

// invalidEscape handles a backslash followed by a byte that is neither
// whitespace nor a terminator. Every path that meets one comes here.
func (t *Tokenizer) invalidEscape(ch byte) {
	if t.policy == EscapePreserve {
		t.atom = append(t.atom, Backslash, ch)
		t.state = InAtom
		return
	}

	discarded := make([]byte, 0, len(t.atom)+2)
	discarded = append(discarded, t.atom...)
	discarded = append(discarded, Backslash, ch)

	t.stats.Discarded++
	t.atom = t.atom[:0]
	t.state = ClearAtom

	t.logger.Debug().
		Int64("offset", t.anchor.Offset).
		Int("line", t.anchor.Line).
		Int("column", t.anchor.Column).
		Bytes("discarded", discarded).
		Msg("tokenizer: invalid escape, atom discarded")
	if t.diagnostics != nil {
		t.diagnostics(Diagnostic{
			Severity:  zerolog.WarnLevel,
			Message:   "invalid escape: atom discarded",
			Position:  t.anchor,
			Discarded: discarded,
			Notes:     []string{"a backslash may only precede a space, tab, or newline"},
		})
	}
}

// flushAtom moves the atom buffer into the message buffer.
// An empty atom buffer adds nothing.
func (t *Tokenizer) flushAtom() {
	if len(t.atom) == 0 {
		return
	}
	t.message = append(t.message, Atom(t.atom))
	t.atom = t.atom[:0]
	t.stats.Atoms++
}

// emit hands the message buffer to the caller and returns to Start.
// The atom buffer must already be flushed or cleared.
func (t *Tokenizer) emit() Message {
	m := t.message
	if m == nil {
		m = Message{}
	}
	t.message = nil
	t.state = Start
	t.stats.Messages++
	return m
}

// setAnchor marks the start of the atom in progress.
func (t *Tokenizer) setAnchor() {
	t.anchor = t.pos
}

// advance moves the position past ch, counting LF as a line break.
func (t *Tokenizer) advance(ch byte) {
	t.stats.Bytes++
	t.pos.Offset++
	if ch == LF {
		t.pos.Line++
		t.pos.Column = 1
	} else {
		t.pos.Column++
	}
}

// State returns the resting state.
func (t *Tokenizer) State() State {
	return t.state
}

// Pending reports whether an atom or message has been started but not
// terminated. Pending input is lost if the stream ends.
func (t *Tokenizer) Pending() bool {
	return t.state != Start || len(t.message) != 0
}

// Position returns the position of the next input byte.
func (t *Tokenizer) Position() Position {
	return t.pos
}

// Stats returns the counters.
func (t *Tokenizer) Stats() Stats {
	return t.stats
}

// Reset drops any partial atom or message and returns to Start.
// Positions and counters are kept, since the stream continues.
func (t *Tokenizer) Reset() {
	if t.Pending() {
		t.logger.Debug().
			Int("atoms", len(t.message)).
			Str("state", t.state.String()).
			Msg("tokenizer: reset dropped partial message")
	}
	t.state = Start
	t.atom = t.atom[:0]
	t.message = nil
}
