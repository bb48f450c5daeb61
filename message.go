// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"strconv"
	"strings"
)

// Atom is the smallest unit of a message.
//
// Atoms produced by the tokenizer never contain a semicolon and never
// contain a backslash. Whitespace inside an atom was escaped on the wire.
type Atom string

// Message is an ordered sequence of atoms.
//
// The first atom is conventionally the selector ("float", "symbol", "bang")
// and the rest are its arguments, but nothing in this package depends on that.
// A message with no atoms is valid; it is what a bare terminator decodes to.
type Message []Atom

// Selectors used by Pure Data for its built-in message types.
const (
	SelectorBang   Atom = "bang"
	SelectorFloat  Atom = "float"
	SelectorList   Atom = "list"
	SelectorSymbol Atom = "symbol"
)

// ParseAtoms returns a message built from the given strings.
// It does not validate them; the Encoder does that.
func ParseAtoms(fields ...string) Message {
	m := make(Message, 0, len(fields))
	for _, field := range fields {
		m = append(m, Atom(field))
	}
	return m
}

// Bang returns a bang message.
func Bang() Message {
	return Message{SelectorBang}
}

// Float returns a float message, formatted with the fewest digits
// that represent f exactly (432 for 432.0, 2.974 for 2.974).
func Float(f float64) Message {
	return Message{SelectorFloat, FloatAtom(f)}
}

// FloatAtom formats f as an atom.
func FloatAtom(f float64) Atom {
	return Atom(strconv.FormatFloat(f, 'g', -1, 64))
}

// Symbol returns a symbol message.
func Symbol(s string) Message {
	return Message{SelectorSymbol, Atom(s)}
}

// List returns a list message with the given elements.
func List(atoms ...Atom) Message {
	m := make(Message, 0, len(atoms)+1)
	m = append(m, SelectorList)
	return append(m, atoms...)
}

// Selector returns the first atom, or the empty atom if there is none.
func (m Message) Selector() Atom {
	if len(m) == 0 {
		return ""
	}
	return m[0]
}

// Args returns every atom after the selector.
// It returns nil if the message has fewer than two atoms.
func (m Message) Args() []Atom {
	if len(m) < 2 {
		return nil
	}
	return m[1:]
}

// Is reports whether the selector of m is the given atom.
//
// It returns false for an empty message.
func (m Message) Is(selector Atom) bool {
	return len(m) != 0 && m[0] == selector
}

// IsOneOf reports whether the selector of m is any of the given atoms.
func (m Message) IsOneOf(selectors ...Atom) bool {
	for _, selector := range selectors {
		if m.Is(selector) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether m has no atoms.
func (m Message) IsEmpty() bool {
	return len(m) == 0
}

// Equal reports whether m and other hold the same atoms in the same order.
// A nil message and an empty message are equal.
func (m Message) Equal(other Message) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of m that does not share its backing array.
func (m Message) Clone() Message {
	out := make(Message, len(m))
	copy(out, m)
	return out
}

// Strings returns the atoms as strings.
func (m Message) Strings() []string {
	out := make([]string, len(m))
	for i, atom := range m {
		out[i] = string(atom)
	}
	return out
}

// String returns the wire form of m without a trailing newline.
// Whitespace inside atoms is escaped. It does not validate the atoms,
// so it is meant for logging and display rather than for transmission.
func (m Message) String() string {
	var sb strings.Builder
	for i, atom := range m {
		if i > 0 {
			sb.WriteByte(Space)
		}
		for j := 0; j < len(atom); j++ {
			if IsWhitespace(atom[j]) {
				sb.WriteByte(Backslash)
			}
			sb.WriteByte(atom[j])
		}
	}
	sb.WriteByte(Semicolon)
	return sb.String()
}
