// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

const (
	// Semicolon terminates a message. It is coded 0x3B.
	Semicolon byte = ';'

	// Backslash escapes the whitespace byte that follows it. It is coded 0x5C.
	Backslash byte = '\\'

	// Space is the separator the encoder writes between atoms.
	Space byte = ' '

	// TAB, LF, and CR are accepted as separators on input.
	// Pure Data's netsend appends an LF after every terminator.
	TAB byte = '\t'
	LF  byte = '\n'
	CR  byte = '\r'
)

// class is the input alphabet of the tokenizer.
type class uint8

const (
	character class = iota
	whitespace
	semicolon
	backslash
)

func init() {
	for _, ch := range []byte{Space, TAB, LF, CR} {
		classes[ch] = whitespace
	}
	classes[Semicolon] = semicolon
	classes[Backslash] = backslash
}

var (
	// every byte not listed in init is a character
	classes = [256]class{}
)

func classify(ch byte) class {
	return classes[ch]
}

// IsWhitespace reports whether ch separates atoms on the wire.
func IsWhitespace(ch byte) bool {
	return classes[ch] == whitespace
}
