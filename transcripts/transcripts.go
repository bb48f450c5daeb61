// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package transcripts reads and writes files of FUDI wire bytes.
package transcripts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mdhender/fudi"
	"github.com/spf13/afero"
)

// ErrTranscript is returned when a transcript file can't be read or written.
type ErrTranscript struct {
	Op   string // open, read, write, mkdir, encode
	Path string
	Err  error
}

func (e *ErrTranscript) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrTranscript) Unwrap() error {
	return e.Err
}

// Service reads and writes transcripts through an afero filesystem.
type Service struct {
	fs         afero.Fs
	decodeOpts []fudi.Option
	encodeOpts []fudi.Option
}

// New returns a Service backed by the operating system's filesystem.
func New(decodeOpts, encodeOpts []fudi.Option) *Service {
	return &Service{
		fs:         afero.NewOsFs(),
		decodeOpts: decodeOpts,
		encodeOpts: encodeOpts,
	}
}

// SetFS sets the filesystem for testing.
func (s *Service) SetFS(fs afero.Fs) {
	s.fs = fs
}

// OpenFile opens the file at path for reading. The caller must close it.
func (s *Service) OpenFile(path string) (afero.File, error) {
	fd, err := s.fs.Open(path)
	if err != nil {
		return nil, &ErrTranscript{Op: "open", Path: path, Err: err}
	}
	return fd, nil
}

// Open returns a Decoder over the file at path and the file to close.
func (s *Service) Open(path string) (*fudi.Decoder, io.Closer, error) {
	fd, err := s.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	d, err := fudi.NewDecoder(fd, s.decodeOpts...)
	if err != nil {
		_ = fd.Close()
		return nil, nil, err
	}
	return d, fd, nil
}

// Read returns every complete message in the file at path.
// An unterminated message at the end of the file is not returned.
func (s *Service) Read(path string) ([]fudi.Message, error) {
	d, fd, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var list []fudi.Message
	for m, err := range d.All() {
		if err != nil {
			return list, &ErrTranscript{Op: "read", Path: path, Err: err}
		}
		list = append(list, m)
	}
	return list, nil
}

// Write replaces the file at path with the encoded messages.
// Nothing is written if any message is rejected by the encoder.
func (s *Service) Write(path string, list []fudi.Message) error {
	data, err := s.encode(path, list)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return &ErrTranscript{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return &ErrTranscript{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Append adds the encoded messages to the end of the file at path,
// creating it if needed.
func (s *Service) Append(path string, list ...fudi.Message) error {
	data, err := s.encode(path, list)
	if err != nil {
		return err
	}
	fd, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &ErrTranscript{Op: "open", Path: path, Err: err}
	}
	if _, err := fd.Write(data); err != nil {
		_ = fd.Close()
		return &ErrTranscript{Op: "write", Path: path, Err: err}
	}
	if err := fd.Close(); err != nil {
		return &ErrTranscript{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *Service) encode(path string, list []fudi.Message) ([]byte, error) {
	enc, err := fudi.NewEncoder(s.encodeOpts...)
	if err != nil {
		return nil, err
	}
	var data []byte
	for _, m := range list {
		if data, err = enc.AppendEncode(data, m); err != nil {
			return nil, &ErrTranscript{Op: "encode", Path: path, Err: err}
		}
	}
	return data, nil
}
