// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// EscapePolicy decides what happens to an atom when a backslash is
// followed by a byte that is neither whitespace nor a terminator.
type EscapePolicy int

const (
	// EscapeDiscard drops the atom being built, up to the next
	// whitespace or terminator. Atoms already completed are kept.
	EscapeDiscard EscapePolicy = iota

	// EscapePreserve keeps the backslash and the byte in the atom.
	EscapePreserve
)

func (p EscapePolicy) String() string {
	switch p {
	case EscapeDiscard:
		return "discard"
	case EscapePreserve:
		return "preserve"
	}
	return fmt.Sprintf("EscapePolicy(%d)", int(p))
}

// ParseEscapePolicy accepts the names returned by EscapePolicy.String.
func ParseEscapePolicy(name string) (EscapePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "discard":
		return EscapeDiscard, nil
	case "preserve":
		return EscapePreserve, nil
	}
	return EscapeDiscard, fmt.Errorf("%w: %q", ErrInvalidEscapePolicy, name)
}

// DefaultChunkSize is the read size the Decoder uses.
const DefaultChunkSize = 4096

// Config holds the settings shared by the Tokenizer, Decoder, and Encoder.
// Each type reads only the fields it needs.
type Config struct {
	escapePolicy EscapePolicy
	chunkSize    int
	newline      bool
	logger       zerolog.Logger
	handler      func(Message)
	diagnostics  func(Diagnostic)
	trace        func(Transition)
}

type Option func(c *Config) error

func newConfig(opts []Option) (*Config, error) {
	c := &Config{
		escapePolicy: EscapeDiscard,
		chunkSize:    DefaultChunkSize,
		newline:      true,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithEscapePolicy selects how malformed escapes are handled.
func WithEscapePolicy(policy EscapePolicy) Option {
	return func(c *Config) error {
		switch policy {
		case EscapeDiscard, EscapePreserve:
			c.escapePolicy = policy
			return nil
		}
		return fmt.Errorf("%w: %d", ErrInvalidEscapePolicy, int(policy))
	}
}

// WithChunkSize sets the number of bytes the Decoder reads at a time.
func WithChunkSize(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidChunkSize, n)
		}
		c.chunkSize = n
		return nil
	}
}

// WithNewline controls whether the Encoder appends LF after the terminator.
// Pure Data's netsend does; the grammar does not require it.
func WithNewline(flag bool) Option {
	return func(c *Config) error {
		c.newline = flag
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

// WithHandler sets the function that Tokenizer.Write calls for each message.
func WithHandler(fn func(Message)) Option {
	return func(c *Config) error {
		c.handler = fn
		return nil
	}
}

// WithDiagnostics sets the function called when an atom is discarded.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(c *Config) error {
		c.diagnostics = fn
		return nil
	}
}

// WithTrace sets the function called after every input byte.
func WithTrace(fn func(Transition)) Option {
	return func(c *Config) error {
		c.trace = fn
		return nil
	}
}
