// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads the TOML configuration shared by the command line tools.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mdhender/fudi"
	"github.com/mdhender/fudi/logging"
)

// Config is the merged result of the defaults and a configuration file.
type Config struct {
	Log       logging.Config
	Tokenizer Tokenizer
	Encoder   Encoder
	Store     Store
}

type Tokenizer struct {
	EscapePolicy fudi.EscapePolicy
	ChunkSize    int
}

type Encoder struct {
	Newline bool
}

type Store struct {
	Path string // capture database file
}

type fileConfig struct {
	Log struct {
		Level     string `toml:"level"`
		Timestamp bool   `toml:"timestamp"`
		NoColor   bool   `toml:"no_color"`
	} `toml:"log"`
	Tokenizer struct {
		EscapePolicy string `toml:"escape_policy"`
		ChunkSize    int    `toml:"chunk_size"`
	} `toml:"tokenizer"`
	Encoder struct {
		Newline bool `toml:"newline"`
	} `toml:"encoder"`
	Store struct {
		Path string `toml:"path"`
	} `toml:"store"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: logging.DefaultConfig(),
		Tokenizer: Tokenizer{
			EscapePolicy: fudi.EscapeDiscard,
			ChunkSize:    fudi.DefaultChunkSize,
		},
		Encoder: Encoder{Newline: true},
		Store:   Store{Path: "fudi.db"},
	}
}

// Load reads path and applies every key it defines on top of Default.
// Keys that the file defines but this package does not know are an error.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return apply(meta, raw)
}

// Parse is Load for configuration already in memory.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return apply(meta, raw)
}

func apply(meta toml.MetaData, raw fileConfig) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg := Default()

	if meta.IsDefined("log", "level") {
		level := strings.TrimSpace(raw.Log.Level)
		if _, ok := logging.ParseLevel(level); !ok {
			return Config{}, fmt.Errorf("config: log.level: unknown level %q", raw.Log.Level)
		}
		cfg.Log.Level = level
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("tokenizer", "escape_policy") {
		policy, err := fudi.ParseEscapePolicy(raw.Tokenizer.EscapePolicy)
		if err != nil {
			return Config{}, fmt.Errorf("config: tokenizer.escape_policy: %w", err)
		}
		cfg.Tokenizer.EscapePolicy = policy
	}
	if meta.IsDefined("tokenizer", "chunk_size") {
		if raw.Tokenizer.ChunkSize <= 0 {
			return Config{}, fmt.Errorf("config: tokenizer.chunk_size: %w: %d", fudi.ErrInvalidChunkSize, raw.Tokenizer.ChunkSize)
		}
		cfg.Tokenizer.ChunkSize = raw.Tokenizer.ChunkSize
	}

	if meta.IsDefined("encoder", "newline") {
		cfg.Encoder.Newline = raw.Encoder.Newline
	}

	if meta.IsDefined("store", "path") {
		cfg.Store.Path = strings.TrimSpace(raw.Store.Path)
	}

	return cfg, nil
}

// DecoderOptions returns the options for a Tokenizer or Decoder.
func (c Config) DecoderOptions() []fudi.Option {
	return []fudi.Option{
		fudi.WithEscapePolicy(c.Tokenizer.EscapePolicy),
		fudi.WithChunkSize(c.Tokenizer.ChunkSize),
	}
}

// EncoderOptions returns the options for an Encoder or MessageWriter.
func (c Config) EncoderOptions() []fudi.Option {
	return []fudi.Option{
		fudi.WithNewline(c.Encoder.Newline),
	}
}
