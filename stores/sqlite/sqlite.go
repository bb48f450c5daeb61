// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package store keeps capture sessions of decoded FUDI messages in SQLite.
package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// memoryDSN is shared by every in-memory store; each store holds a single
// connection, so each store sees its own database.
const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// SQLiteStore holds capture sessions. It is safe for concurrent use.
type SQLiteStore struct {
	db *sql.DB
}

// StoreConfig selects the database a store opens.
type StoreConfig struct {
	// Path names the database file. Empty means an in-memory database.
	Path string

	// InitSchema applies the schema on open. In-memory databases always get it.
	InitSchema bool
}

// NewSQLiteStore returns a store over a fresh in-memory database.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(StoreConfig{InitSchema: true})
}

// NewSQLiteStoreWithConfig opens the database named by cfg.
// A database file must already exist; InitDatabase creates one.
func NewSQLiteStoreWithConfig(cfg StoreConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		db, err := openDB(memoryDSN, true, 1)
		if err != nil {
			return nil, err
		}
		return &SQLiteStore{db: db}, nil
	}

	// opening a missing file would silently create an empty database
	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("capture database %s does not exist (create it with init-db)", cfg.Path)
	}
	db, err := openDB(fileDSN(cfg.Path), cfg.InitSchema, 0)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// InitDatabase creates the database file at path and applies the schema.
// It refuses to touch a file that already exists.
func InitDatabase(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("capture database %s already exists", path)
	}
	db, err := openDB(fileDSN(path), true, 0)
	if err != nil {
		return err
	}
	return db.Close()
}

// openDB opens dsn, limited to maxConns connections if it is positive.
func openDB(dsn string, initSchema bool, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if initSchema {
		if _, err := db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

// fileDSN sets the pragmas in the DSN so that every pooled connection has them.
func fileDSN(path string) string {
	return "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)"
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
