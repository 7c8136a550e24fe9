// Package store caches switching tables in BadgerDB so that repeated runs
// over an unchanged circuit skip simulation.
//
// Entries are keyed by the circuit's structural fingerprint, the pattern
// count and the seed. Estimation is deterministic for a given key, so a
// cached table is exactly what a fresh pass would produce.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

// Config holds configuration for a Store.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives Badger's own log output. Nil silences it.
	Logger *slog.Logger
}

// Key identifies one cached table.
type Key struct {
	Fingerprint string
	Patterns    int
	Seed        uint64
}

func (k Key) bytes() []byte {
	return []byte(fmt.Sprintf("switch/%s/%d/%d", k.Fingerprint, k.Patterns, k.Seed))
}

// Store is a Badger-backed table cache. It is safe for concurrent use.
type Store struct {
	db *badger.DB
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the cache described by cfg, creating its directory if needed.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an empty in-memory cache.
func OpenInMemory() (*Store, error) {
	return Open(Config{InMemory: true})
}

// Get returns the table stored under k. The boolean is false when there is
// no entry, or when the stored table does not hold size values, which
// happens when an entry was written for a different circuit layout.
func (s *Store) Get(k Key, size int) (switching.Table, bool, error) {
	var t switching.Table
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k.bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, err = decode(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", k.bytes(), err)
	}
	if len(t) != size {
		return nil, false, nil
	}
	return t, true, nil
}

// Put stores t under k, replacing any previous entry.
func (s *Store) Put(k Key, t switching.Table) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k.bytes(), encode(t))
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", k.bytes(), err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(t switching.Table) []byte {
	buf := make([]byte, 8*len(t))
	for i, v := range t {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decode(b []byte) (switching.Table, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("corrupt table: %d bytes is not a multiple of 8", len(b))
	}
	t := make(switching.Table, len(b)/8)
	for i := range t {
		t[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return t, nil
}
