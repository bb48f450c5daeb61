// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAtomContent is returned when an atom has no wire form.
	ErrInvalidAtomContent = errors.New("fudi: invalid atom content")

	ErrInvalidChunkSize    = errors.New("fudi: invalid chunk size")
	ErrInvalidEscapePolicy = errors.New("fudi: invalid escape policy")
)

// AtomError reports the atom that the encoder rejected.
type AtomError struct {
	Index  int    // position of the atom in the message
	Atom   Atom   // the rejected atom
	Reason string // "contains terminator", "is empty", ...
}

func (e *AtomError) Error() string {
	return fmt.Sprintf("%v: atom %d %q %s", ErrInvalidAtomContent, e.Index, string(e.Atom), e.Reason)
}

func (e *AtomError) Unwrap() error {
	return ErrInvalidAtomContent
}
