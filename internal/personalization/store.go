// Package personalization holds per-device favorite and note state.
//
// The profile is scoped to one device and is never authoritative for
// any other: it lives in a local directory with one file per key,
// "favorites" (JSON array of entry ids) and "note-<id>" (raw text).
// Reads of missing or corrupt keys degrade to the empty default and
// never fail the caller.
package personalization

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	favoritesKey = "favorites"
	notePrefix   = "note-"
)

// Snapshot is an immutable view of the profile, read once per query
// invocation so every predicate within one query sees the same state.
type Snapshot struct {
	Favorites map[string]struct{}
	Notes     map[string]string
}

// IsFavorite reports whether the entry id is in the favorite set.
func (s Snapshot) IsFavorite(id string) bool {
	_, ok := s.Favorites[id]
	return ok
}

// HasNote reports whether a note key exists for the entry id. An
// explicitly saved empty note still counts as noted: presence of the
// key is the contract, not the text's truthiness.
func (s Snapshot) HasNote(id string) bool {
	_, ok := s.Notes[id]
	return ok
}

// Store is the single-writer profile store for one device. All mutation
// goes through read-modify-write under one mutex, and every write lands
// atomically on disk before the in-memory state is updated.
type Store struct {
	root   string
	logger *slog.Logger

	mu        sync.Mutex
	favorites map[string]struct{}
	notes     map[string]string
}

// NewStore opens (creating if needed) the profile directory at root and
// loads current state. Corrupt contents are logged and replaced by the
// empty default.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("personalization: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("personalization: create profile dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{root: abs, logger: logger}
	s.mu.Lock()
	s.reloadLocked()
	s.mu.Unlock()
	return s, nil
}

// Root returns the absolute profile directory path.
func (s *Store) Root() string {
	return s.root
}

// Snapshot returns a copy of the current state. The caller may hold it
// for the duration of one query without seeing concurrent mutation.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Favorites: make(map[string]struct{}, len(s.favorites)),
		Notes:     make(map[string]string, len(s.notes)),
	}
	for id := range s.favorites {
		snap.Favorites[id] = struct{}{}
	}
	for id, text := range s.notes {
		snap.Notes[id] = text
	}
	return snap
}

// ToggleFavorite flips membership of id in the favorite set and returns
// the resulting membership. The read-modify-write is one logical step
// under the store mutex.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, favored := s.favorites[id]
	if favored {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = struct{}{}
	}

	if err := s.writeFavoritesLocked(); err != nil {
		// Roll the in-memory flip back so memory and disk stay in step.
		if favored {
			s.favorites[id] = struct{}{}
		} else {
			delete(s.favorites, id)
		}
		return favored, err
	}
	return !favored, nil
}

// SaveNote overwrites the note text for id unconditionally (last write
// wins). An empty string is a valid note; use ClearNote to remove the
// key entirely.
func (s *Store) SaveNote(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(notePrefix+id, []byte(text)); err != nil {
		return err
	}
	s.notes[id] = text
	return nil
}

// ClearNote removes the note key for id. Clearing an absent note is a
// no-op.
func (s *Store) ClearNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, notePrefix+id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("personalization: clear note %s: %w", id, err)
	}
	delete(s.notes, id)
	return nil
}

// Note returns the stored note text for id and whether the key exists.
func (s *Store) Note(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.notes[id]
	return text, ok
}

// Reload re-reads the profile directory, picking up changes made
// outside this process (editors, sync tools).
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
}

func (s *Store) reloadLocked() {
	s.favorites = s.readFavorites()
	s.notes = s.readNotes()
}

// readFavorites loads the favorites key; missing or corrupt data yields
// the empty set.
func (s *Store) readFavorites() map[string]struct{} {
	out := make(map[string]struct{})
	data, err := os.ReadFile(filepath.Join(s.root, favoritesKey))
	if err != nil {
		return out
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.Warn("profile: corrupt favorites, using empty set", slog.String("error", err.Error()))
		return out
	}
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// readNotes loads every note-<id> file. Unreadable files are skipped.
func (s *Store) readNotes() map[string]string {
	out := make(map[string]string)
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return out
	}
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasPrefix(name, notePrefix) {
			continue
		}
		id := strings.TrimPrefix(name, notePrefix)
		if id == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, name))
		if err != nil {
			s.logger.Warn("profile: unreadable note", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		out[id] = string(data)
	}
	return out
}

// writeFavoritesLocked serializes the favorite set with a stable JSON
// shape. Must be called with the mutex held.
func (s *Store) writeFavoritesLocked() error {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("personalization: marshal favorites: %w", err)
	}
	return s.writeFile(favoritesKey, data)
}

// writeFile atomically writes content: tmp file → fsync → rename.
func (s *Store) writeFile(name string, content []byte) error {
	abs := filepath.Join(s.root, name)

	tmp, err := os.CreateTemp(s.root, ".niftynet-tmp-*")
	if err != nil {
		return fmt.Errorf("personalization: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("personalization: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("personalization: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("personalization: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("personalization: rename: %w", err)
	}
	success = true
	return nil
}
