// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"io"
	"iter"

	"github.com/rs/zerolog"
)

// Decoder reads messages from an io.Reader.
//
// It reads only when it has no decoded message queued, so a caller that
// stops consuming does not pull more input from the reader.
type Decoder struct {
	r      io.Reader
	tk     *Tokenizer
	buf    []byte
	queue  []Message
	err    error
	logger zerolog.Logger
}

// NewDecoder returns a Decoder that reads from r.
// The options configure its Tokenizer and read size.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		r:      r,
		tk:     newTokenizer(c),
		buf:    make([]byte, c.chunkSize),
		logger: c.logger,
	}, nil
}

// Decode returns the next message.
//
// At the end of the input it returns io.EOF; any unterminated message at
// that point is dropped. Other read errors are returned unchanged, after
// every message decoded before the error has been returned.
func (d *Decoder) Decode() (Message, error) {
	for len(d.queue) == 0 {
		if d.err != nil {
			return nil, d.err
		}
		n, err := d.r.Read(d.buf)
		if n > 0 {
			d.queue = append(d.queue, d.tk.Feed(d.buf[:n])...)
		}
		if err != nil {
			if d.tk.Pending() {
				d.logger.Debug().
					Err(err).
					Str("state", d.tk.State().String()).
					Msg("decoder: input ended inside a message")
				d.tk.Reset()
			}
			d.err = err
		}
	}
	m := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return m, nil
}

// All returns an iterator over the remaining messages.
//
// Iteration stops at the end of the input or after yielding a read error.
// Breaking out of the loop loses nothing: the next call to Decode or All
// resumes with the following message.
func (d *Decoder) All() iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		for {
			m, err := d.Decode()
			if err == io.EOF {
				return
			}
			if !yield(m, err) || err != nil {
				return
			}
		}
	}
}

// Tokenizer returns the decoder's tokenizer, for its position and counters.
func (d *Decoder) Tokenizer() *Tokenizer {
	return d.tk
}
