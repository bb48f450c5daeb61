// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"io"
)

// Encoder converts messages to their wire form.
//
// The output of an Encoder always decodes, through a Tokenizer using
// either escape policy, to exactly the message that was encoded.
type Encoder struct {
	newline bool
}

// NewEncoder returns an Encoder. By default it appends LF after the
// terminator, as Pure Data's netsend does; see WithNewline.
func NewEncoder(opts ...Option) (*Encoder, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{newline: c.newline}, nil
}

// Encode returns the wire form of m using the default Encoder settings.
func Encode(m Message) ([]byte, error) {
	return (&Encoder{newline: true}).Encode(m)
}

// Encode returns the wire form of m.
func (e *Encoder) Encode(m Message) ([]byte, error) {
	return e.AppendEncode(nil, m)
}

// AppendEncode appends the wire form of m to dst and returns the result.
// If any atom is rejected, dst is returned unchanged along with an
// *AtomError that wraps ErrInvalidAtomContent.
func (e *Encoder) AppendEncode(dst []byte, m Message) ([]byte, error) {
	size := 1
	for i, atom := range m {
		if err := validateAtom(i, atom); err != nil {
			return dst, err
		}
		size += len(atom) + 1
	}
	if e.newline {
		size++
	}

	if cap(dst)-len(dst) < size {
		grown := make([]byte, len(dst), len(dst)+size)
		copy(grown, dst)
		dst = grown
	}
	for i, atom := range m {
		if i > 0 {
			dst = append(dst, Space)
		}
		for j := 0; j < len(atom); j++ {
			if IsWhitespace(atom[j]) {
				dst = append(dst, Backslash)
			}
			dst = append(dst, atom[j])
		}
	}
	dst = append(dst, Semicolon)
	if e.newline {
		dst = append(dst, LF)
	}
	return dst, nil
}

// validateAtom rejects atoms that have no wire form.
func validateAtom(index int, atom Atom) error {
	if len(atom) == 0 {
		// an empty atom would vanish on decode
		return &AtomError{Index: index, Atom: atom, Reason: "is empty"}
	}
	for j := 0; j < len(atom); j++ {
		switch atom[j] {
		case Semicolon:
			return &AtomError{Index: index, Atom: atom, Reason: "contains terminator"}
		case Backslash:
			return &AtomError{Index: index, Atom: atom, Reason: "contains backslash"}
		}
	}
	return nil
}

// MessageWriter writes encoded messages to an io.Writer.
// Each message is written with a single Write call, so a datagram
// connection receives one message per packet.
type MessageWriter struct {
	w   io.Writer
	enc *Encoder
	buf []byte
}

// NewMessageWriter returns a MessageWriter that encodes with the given options.
func NewMessageWriter(w io.Writer, opts ...Option) (*MessageWriter, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}
	return &MessageWriter{w: w, enc: enc}, nil
}

// WriteMessage encodes m and writes it. Nothing is written if m is rejected.
func (mw *MessageWriter) WriteMessage(m Message) error {
	buf, err := mw.enc.AppendEncode(mw.buf[:0], m)
	if err != nil {
		return err
	}
	mw.buf = buf
	_, err = mw.w.Write(buf)
	return err
}
