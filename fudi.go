// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package fudi decodes and encodes FUDI, the text protocol Pure Data's
// netsend and netreceive objects use to exchange messages over a stream.
//
// On the wire a message is a list of atoms separated by whitespace and
// terminated by a semicolon:
//
//	float 2.974;
//	symbol foo\ bar;
//
// A backslash before a whitespace byte makes that byte part of the atom.
//
// The Tokenizer consumes the stream in chunks of any size and returns
// only complete messages. It never fails; input it cannot use is dropped
// and reported through a Diagnostic. The Encoder is its inverse.
//
// The package opens no connections. A Decoder reads from any io.Reader
// and a MessageWriter writes to any io.Writer.
package fudi
