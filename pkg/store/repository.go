// Package store owns the durable message collection: an in-memory
// slice mirrored to a JSON file, rewritten wholesale on every
// mutation. The full rewrite is deliberate — expected volumes are
// hundreds of messages, not millions; that ceiling is documented, not
// hidden.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"hereafter/pkg/geo"
	"hereafter/pkg/logger"
	"hereafter/pkg/models"
	"hereafter/pkg/unlock"
)

// MessagesFileName is the well-known file the repository persists to
// under its data directory.
const MessagesFileName = "hereafter_messages.json"

// Repository is the single owner of the planted-message collection.
// All mutations are serialized through its mutex so background readers
// (the unlock scheduler) can never interleave with a rewrite.
type Repository struct {
	mu       sync.Mutex
	path     string
	messages []models.Message
}

// Open loads the repository from dir/MessagesFileName. A missing file
// is a normal first run and yields an empty collection. A corrupt file
// is logged, renamed aside to <file>.corrupt and treated as empty; the
// aside copy keeps the bad data recoverable by hand.
func Open(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	r := &Repository{path: filepath.Join(dir, MessagesFileName)}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) load() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Info("repo_empty_start", zap.String("path", r.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read messages file %s: %w", r.path, err)
	}
	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		aside := r.path + ".corrupt"
		logger.Log.Warn("repo_load_corrupt",
			zap.String("path", r.path), zap.String("aside", aside), zap.Error(err))
		if rerr := os.Rename(r.path, aside); rerr != nil {
			logger.Log.Error("repo_corrupt_rename_failed", zap.Error(rerr))
		}
		return nil
	}
	r.messages = msgs
	logger.Log.Info("repo_loaded", zap.String("path", r.path), zap.Int("count", len(msgs)))
	messagesGauge.Set(float64(len(msgs)))
	return nil
}

// Append adds a message and persists the whole collection. The caller's
// factory guarantees identifier uniqueness; no duplicate check here.
// On a persist failure the in-memory state keeps the message and stays
// authoritative for the rest of the process lifetime.
func (r *Repository) Append(m models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	appendsTotal.Inc()
	messagesGauge.Set(float64(len(r.messages)))
	if err := r.persist(); err != nil {
		logger.Log.Error("message_persist_failed", zap.String("id", m.ID), zap.Error(err))
		return err
	}
	logger.Log.Info("message_saved",
		zap.String("id", m.ID), zap.String("thread", m.ThreadID),
		zap.String("place", m.PlaceName))
	return nil
}

// MarkRead flips the read flag on the message with the given id and
// persists. An unknown id is a silent no-op — callers must not be
// forced to care whether a notification raced a deletion. Idempotent:
// marking an already-read message changes nothing and skips the
// rewrite.
func (r *Repository) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID != id {
			continue
		}
		if r.messages[i].IsRead {
			return nil
		}
		r.messages[i].IsRead = true
		if err := r.persist(); err != nil {
			logger.Log.Error("mark_read_persist_failed", zap.String("id", id), zap.Error(err))
			return err
		}
		logger.Log.Info("message_read", zap.String("id", id))
		return nil
	}
	logger.Log.Debug("mark_read_unknown_id", zap.String("id", id))
	return nil
}

// Near returns all messages anchored within radiusMeters of coord, in
// collection (insertion) order.
func (r *Repository) Near(coord models.Coordinate, radiusMeters float64) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if geo.IsNear(coord, m.Coordinate(), radiusMeters) {
			out = append(out, m)
		}
	}
	return out
}

// UnreadUnlocked returns messages that are unlocked as of now and not
// yet read, in collection order.
func (r *Repository) UnreadUnlocked(now time.Time) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if unlock.IsUnlocked(m, now) && !m.IsRead {
			out = append(out, m)
		}
	}
	return out
}

// Thread returns all messages in a thread, sorted by creation time
// ascending.
func (r *Repository) Thread(threadID string) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// All returns a copy of the full collection in insertion order.
func (r *Repository) All() []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Message{}, r.messages...)
}

// Len reports the collection size.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// persist rewrites the whole collection atomically: write a temp file
// in the same directory, fsync, rename over the live file. Callers
// hold r.mu.
func (r *Repository) persist() error {
	rewritesTotal.Inc()
	data, err := json.MarshalIndent(r.messages, "", "  ")
	if err != nil {
		rewriteFailures.Inc()
		return fmt.Errorf("marshal messages: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".messages-*.tmp")
	if err != nil {
		rewriteFailures.Inc()
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		rewriteFailures.Inc()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		rewriteFailures.Inc()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		rewriteFailures.Inc()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		rewriteFailures.Inc()
		return fmt.Errorf("replace messages file: %w", err)
	}
	return nil
}
