// Package settings is a small key-value store for per-installation
// state, kept deliberately separate from the message file. Backed by
// Pebble so single-key updates never rewrite unrelated records.
package settings

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"hereafter/pkg/logger"
)

// Store wraps an opened Pebble database. Construct with Open and pass
// by reference; there is no package-global handle.
type Store struct {
	db *pebble.DB
}

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("settings: key not found")

// Open opens (or creates) the settings database at path.
func Open(path string) (*Store, error) {
	logger.Log.Info("settings_opening", zap.String("path", path))
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Log.Error("settings_open_failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("open settings db at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), v...)
	if cerr := closer.Close(); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// Set stores value under key, synced to disk before returning.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Set([]byte(key), value, pebble.Sync)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Delete([]byte(key), pebble.Sync)
}

// Keys returns all keys with the given prefix, in lexical order.
func (s *Store) Keys(prefix string) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	p := []byte(prefix)
	for iter.SeekGE(p); iter.Valid(); iter.Next() {
		k := iter.Key()
		if len(k) < len(p) || string(k[:len(p)]) != prefix {
			break
		}
		out = append(out, string(k))
	}
	return out, iter.Error()
}
