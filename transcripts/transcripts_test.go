// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package transcripts_test

import (
	"errors"
	"os"
	"testing"

	"github.com/mdhender/fudi"
	"github.com/mdhender/fudi/transcripts"
	"github.com/spf13/afero"
)

func newService(opts ...fudi.Option) (*transcripts.Service, afero.Fs) {
	fs := afero.NewMemMapFs()
	s := transcripts.New(nil, opts)
	s.SetFS(fs)
	return s, fs
}

func TestService_WriteRead(t *testing.T) {
	s, fs := newService()
	want := []fudi.Message{fudi.Float(2.974), fudi.Symbol("foo bar"), fudi.Bang(), {}}
	if err := s.Write("captures/session.fudi", want); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := afero.ReadFile(fs, "captures/session.fudi")
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got, wantWire := string(data), "float 2.974;\nsymbol foo\\ bar;\nbang;\n;\n"; got != wantWire {
		t.Fatalf("file = %q, want %q", got, wantWire)
	}

	got, err := s.Read("captures/session.fudi")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("message %d = %q, want %q", i, got[i].Strings(), want[i].Strings())
		}
	}
}

func TestService_Append(t *testing.T) {
	s, fs := newService(fudi.WithNewline(false))
	if err := s.Append("log.fudi", fudi.Bang()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append("log.fudi", fudi.Float(1), fudi.Float(2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	data, err := afero.ReadFile(fs, "log.fudi")
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got, want := string(data), "bang;float 1;float 2;"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}

func TestService_ReadDropsUnterminatedTail(t *testing.T) {
	s, fs := newService()
	if err := afero.WriteFile(fs, "partial.fudi", []byte("a;\nb c"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := s.Read("partial.fudi")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(fudi.ParseAtoms("a")) {
		t.Fatalf("read %v, want [[a]]", got)
	}
}

func TestService_Errors(t *testing.T) {
	s, fs := newService()

	_, err := s.Read("missing.fudi")
	var terr *transcripts.ErrTranscript
	if !errors.As(err, &terr) || terr.Op != "open" {
		t.Fatalf("read missing = %v, want open error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read missing = %v, want os.ErrNotExist", err)
	}

	err = s.Write("bad.fudi", []fudi.Message{fudi.ParseAtoms("semi;")})
	if !errors.Is(err, fudi.ErrInvalidAtomContent) {
		t.Fatalf("write bad = %v, want ErrInvalidAtomContent", err)
	}
	if ok, _ := afero.Exists(fs, "bad.fudi"); ok {
		t.Fatalf("rejected write created the file")
	}
}

func TestService_OpenFile(t *testing.T) {
	s, fs := newService()
	if err := afero.WriteFile(fs, "raw.fudi", []byte("bang;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fd, err := s.OpenFile("raw.fudi")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer fd.Close()
	data, err := afero.ReadAll(fd)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, want := string(data), "bang;\n"; got != want {
		t.Errorf("data = %q, want %q", got, want)
	}

	_, err = s.OpenFile("missing.fudi")
	var terr *transcripts.ErrTranscript
	if !errors.As(err, &terr) || terr.Op != "open" || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("open missing = %v, want open error wrapping os.ErrNotExist", err)
	}
}
