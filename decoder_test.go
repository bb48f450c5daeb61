// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package fudi_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/mdhender/fudi"
)

func newDecoder(t *testing.T, r io.Reader, opts ...fudi.Option) *fudi.Decoder {
	t.Helper()
	d, err := fudi.NewDecoder(r, opts...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	return d
}

func decodeAll(t *testing.T, d *fudi.Decoder) []fudi.Message {
	t.Helper()
	var out []fudi.Message
	for m, err := range d.All() {
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func TestDecoder_DropsUnterminatedTail(t *testing.T) {
	input := "float 1;\nsymbol a\\ b;\nbang"
	want := msgs([]string{"float", "1"}, []string{"symbol", "a b"})
	for _, size := range []int{1, 2, 3, 7, fudi.DefaultChunkSize} {
		d := newDecoder(t, iotest.OneByteReader(strings.NewReader(input)), fudi.WithChunkSize(size))
		if got := decodeAll(t, d); !sameMessages(got, want) {
			t.Fatalf("chunk %d: got %s, want %s", size, show(got), show(want))
		}
		if _, err := d.Decode(); err != io.EOF {
			t.Fatalf("chunk %d: Decode after end = %v, want io.EOF", size, err)
		}
	}
}

func TestDecoder_AllIsRestartable(t *testing.T) {
	d := newDecoder(t, strings.NewReader("a;b;c;d;"), fudi.WithChunkSize(3))
	var got []fudi.Message
	for m, err := range d.All() {
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, m)
		if len(got) == 2 {
			break
		}
	}
	m, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got = append(got, m)
	got = append(got, decodeAll(t, d)...)
	want := msgs([]string{"a"}, []string{"b"}, []string{"c"}, []string{"d"})
	if !sameMessages(got, want) {
		t.Fatalf("got %s, want %s", show(got), show(want))
	}
}

// countingReader counts calls to Read.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestDecoder_DoesNotReadAhead(t *testing.T) {
	cr := &countingReader{r: strings.NewReader("a;b;")}
	d := newDecoder(t, cr, fudi.WithChunkSize(2))
	m, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !m.Equal(fudi.ParseAtoms("a")) {
		t.Fatalf("Decode = %q, want [a]", m.Strings())
	}
	if cr.reads != 1 {
		t.Fatalf("reads = %d, want 1", cr.reads)
	}
}

func TestDecoder_ReadError(t *testing.T) {
	errBoom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("x;y"), iotest.ErrReader(errBoom))
	d := newDecoder(t, r)
	m, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !m.Equal(fudi.ParseAtoms("x")) {
		t.Fatalf("Decode = %q, want [x]", m.Strings())
	}
	for i := 0; i < 2; i++ {
		if _, err := d.Decode(); !errors.Is(err, errBoom) {
			t.Fatalf("Decode = %v, want %v", err, errBoom)
		}
	}
	if d.Tokenizer().Pending() {
		t.Fatalf("tokenizer still pending after read error")
	}
}

func TestDecoder_InvalidChunkSize(t *testing.T) {
	_, err := fudi.NewDecoder(strings.NewReader(""), fudi.WithChunkSize(0))
	if !errors.Is(err, fudi.ErrInvalidChunkSize) {
		t.Fatalf("err = %v, want ErrInvalidChunkSize", err)
	}
}

// writeRecorder records each Write call separately.
type writeRecorder struct {
	writes []string
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func TestMessageWriter(t *testing.T) {
	rec := &writeRecorder{}
	mw, err := fudi.NewMessageWriter(rec)
	if err != nil {
		t.Fatalf("NewMessageWriter: %v", err)
	}
	for _, m := range []fudi.Message{fudi.Float(432), fudi.Bang()} {
		if err := mw.WriteMessage(m); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	if err := mw.WriteMessage(fudi.ParseAtoms("bad;")); !errors.Is(err, fudi.ErrInvalidAtomContent) {
		t.Fatalf("WriteMessage(bad;) = %v, want ErrInvalidAtomContent", err)
	}
	want := []string{"float 432;\n", "bang;\n"}
	if len(rec.writes) != len(want) {
		t.Fatalf("writes = %q, want %q", rec.writes, want)
	}
	for i := range want {
		if rec.writes[i] != want[i] {
			t.Fatalf("write %d = %q, want %q", i, rec.writes[i], want[i])
		}
	}
}

func TestMessageWriter_DecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	mw, err := fudi.NewMessageWriter(&buf, fudi.WithNewline(false))
	if err != nil {
		t.Fatalf("NewMessageWriter: %v", err)
	}
	want := []fudi.Message{fudi.Symbol("a b"), {}, fudi.List("1", "2")}
	for _, m := range want {
		if err := mw.WriteMessage(m); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	if got, wantWire := buf.String(), "symbol a\\ b;;list 1 2;"; got != wantWire {
		t.Fatalf("wire = %q, want %q", got, wantWire)
	}
	got := decodeAll(t, newDecoder(t, &buf))
	if !sameMessages(got, want) {
		t.Fatalf("got %s, want %s", show(got), show(want))
	}
}
