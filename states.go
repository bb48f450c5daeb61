// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

//go:generate stringer --type State

// State is the resting state of the tokenizer between input bytes.
type State int

const (
	// Start is between atoms. Whitespace is skipped here.
	Start State = iota

	// InAtom is accumulating the bytes of an atom.
	InAtom

	// Escape has just read a backslash and expects a whitespace byte.
	Escape

	// ClearAtom is skipping the remainder of an atom that held a
	// malformed escape. It ends at the next whitespace or terminator.
	ClearAtom
)

// Transition describes the effect of a single input byte.
type Transition struct {
	Offset  int64 // 0-based offset of Byte in the stream
	Byte    byte
	From    State
	To      State
	Emitted bool // true if Byte completed a message
}
