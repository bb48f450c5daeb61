// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdhender/fudi"
	"github.com/mdhender/fudi/config"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fudi.toml")
	content := `
[log]
level = "debug"
no_color = true

[tokenizer]
escape_policy = "preserve"
chunk_size = 512

[encoder]
newline = false

[store]
path = "  captures.db "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if !cfg.Log.Timestamp {
		t.Errorf("Log.Timestamp = false, want default true")
	}
	if !cfg.Log.NoColor {
		t.Errorf("Log.NoColor = false, want true")
	}
	if cfg.Tokenizer.EscapePolicy != fudi.EscapePreserve {
		t.Errorf("EscapePolicy = %v, want preserve", cfg.Tokenizer.EscapePolicy)
	}
	if cfg.Tokenizer.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want 512", cfg.Tokenizer.ChunkSize)
	}
	if cfg.Encoder.Newline {
		t.Errorf("Encoder.Newline = true, want false")
	}
	if cfg.Store.Path != "captures.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "captures.db")
	}
}

func TestParse_EmptyIsDefault(t *testing.T) {
	cfg, err := config.Parse("")
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg != config.Default() {
		t.Fatalf("cfg = %+v, want %+v", cfg, config.Default())
	}
}

func TestParse_Errors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		target  error
	}{
		{"unknown key", "[encoder]\nnewlines = true\n", nil},
		{"bad level", "[log]\nlevel = \"loud\"\n", nil},
		{"bad policy", "[tokenizer]\nescape_policy = \"ignore\"\n", fudi.ErrInvalidEscapePolicy},
		{"bad chunk size", "[tokenizer]\nchunk_size = 0\n", fudi.ErrInvalidChunkSize},
		{"bad toml", "[log\n", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse(tc.content)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("err = %v, want %v", err, tc.target)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfig_OptionsBuildTokenizer(t *testing.T) {
	cfg := config.Default()
	cfg.Tokenizer.EscapePolicy = fudi.EscapePreserve
	tk, err := fudi.NewTokenizer(cfg.DecoderOptions()...)
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	got := tk.Feed([]byte("a\\x;"))
	if len(got) != 1 || !got[0].Equal(fudi.ParseAtoms("a\\x")) {
		t.Fatalf("Feed = %v, want [[a\\x]]", got)
	}
}
