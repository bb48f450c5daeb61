// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
)

// Diagnostic reports input that the tokenizer accepted but could not use.
// The tokenizer never fails, so this is the only way malformed input
// becomes visible to the caller.
type Diagnostic struct {
	Severity  zerolog.Level // currently always warn
	Message   string        // "invalid escape: atom discarded"
	Position  Position      // where the discarded atom started
	Discarded []byte        // bytes dropped so far, including the backslash
	Notes     []string      // optional additional help messages
}

// Position is a location in the input stream.
type Position struct {
	Offset int64 // byte offset, 0-based
	Line   int   // 1-based, counting LF
	Column int   // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PrintDiagnostic writes diag as "name:line:column: severity: message",
// followed by the discarded bytes and any notes.
func PrintDiagnostic(w io.Writer, diag Diagnostic, name string) {
	_, _ = fmt.Fprintf(w, "%s:%s: %s: %s\n", name, diag.Position, diag.Severity, diag.Message)
	if len(diag.Discarded) != 0 {
		_, _ = fmt.Fprintf(w, "    discarded %s\n", strconv.Quote(string(diag.Discarded)))
	}
	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}
