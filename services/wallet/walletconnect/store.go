package walletconnect

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set"

	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/db"
)

const (
	PersistOpLoad  = "load"
	PersistOpSave  = "save"
	PersistOpClear = "clear"
)

// PersistErrorHandler is notified when the store could not reach its storage medium.
// In-memory state is kept regardless.
type PersistErrorHandler func(op string, err error)

type StoreOption func(*SessionStore)

func WithPersistErrorHandler(handler PersistErrorHandler) StoreOption {
	return func(s *SessionStore) {
		s.onPersistError = handler
	}
}

// SessionStore keeps the set of sessions in memory and mirrors it to a key value store
// under a single key as a JSON array.
type SessionStore struct {
	mu       sync.Mutex
	kv       db.KeyValueStore
	key      string
	sessions map[string]*Session
	// ids that were removed or cleared while this store was alive
	retired mapset.Set
	// set while the persisted record exists but could not be read
	loadFailed bool

	onPersistError PersistErrorHandler
}

func NewSessionStore(kv db.KeyValueStore, key string, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		kv:       kv,
		key:      key,
		sessions: make(map[string]*Session),
		retired:  mapset.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every known session ordered by creation time, loading from storage
// first when nothing is held in memory.
func (s *SessionStore) GetAll() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadIfEmpty()
	return s.snapshot()
}

// Get returns a copy of the session with the given id.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadIfEmpty()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return session.Copy(), true
}

// Put inserts or replaces a session and persists the whole set.
func (s *SessionStore) Put(session *Session) error {
	return s.put(session, true)
}

// Insert adds a new session. Unlike Put it fails with ErrSessionIDReused when the id
// is already held by a live session.
func (s *SessionStore) Insert(session *Session) error {
	return s.put(session, false)
}

func (s *SessionStore) put(session *Session, replace bool) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadIfEmpty()
	if s.retired.Contains(session.ID) {
		return ErrSessionIDReused
	}
	if _, exists := s.sessions[session.ID]; exists && !replace {
		return ErrSessionIDReused
	}
	s.sessions[session.ID] = session.Copy()
	s.save()
	return nil
}

// Remove deletes one session and persists the remainder. Unknown ids are ignored.
func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadIfEmpty()
	// retired even when unknown, the id may sit in a record that failed to load
	s.retired.Add(id)
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	s.save()
}

// Clear drops every session and deletes the persisted entry.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadIfEmpty()
	for id := range s.sessions {
		s.retired.Add(id)
	}
	s.sessions = make(map[string]*Session)

	if err := s.kv.Remove(s.key); err != nil && !errors.Is(err, db.ErrNotFound) {
		s.persistFailed(PersistOpClear, err)
		return
	}
	s.loadFailed = false
}

func (s *SessionStore) snapshot() []*Session {
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Copy())
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt != sessions[j].CreatedAt {
			return sessions[i].CreatedAt < sessions[j].CreatedAt
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}

// loadIfEmpty reads the persisted set when nothing is held in memory, or when an
// earlier read failed. Sessions already in memory win over persisted ones.
func (s *SessionStore) loadIfEmpty() {
	if len(s.sessions) != 0 && !s.loadFailed {
		return
	}

	data, err := s.kv.Get(s.key)
	if errors.Is(err, db.ErrNotFound) {
		s.loadFailed = false
		return
	}
	if err != nil {
		s.loadFailed = true
		s.persistFailed(PersistOpLoad, err)
		return
	}
	s.loadFailed = false

	var sessions []*Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		s.persistFailed(PersistOpLoad, err)
		return
	}

	for _, session := range sessions {
		if err := session.Validate(); err != nil {
			log.Warn("skipping invalid persisted walletconnect session", "error", err)
			continue
		}
		if s.retired.Contains(session.ID) {
			continue
		}
		if _, ok := s.sessions[session.ID]; ok {
			continue
		}
		s.sessions[session.ID] = session
	}
}

// save writes the whole set. It refuses to while the persisted record is unreadable,
// so a partial in-memory set never replaces it.
func (s *SessionStore) save() {
	if s.loadFailed {
		s.persistFailed(PersistOpSave, ErrStoreNotLoaded)
		return
	}
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		s.persistFailed(PersistOpSave, err)
		return
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.persistFailed(PersistOpSave, err)
	}
}

func (s *SessionStore) persistFailed(op string, err error) {
	log.Error("walletconnect session storage failed", "op", op, "key", s.key, "error", err)
	if s.onPersistError != nil {
		s.onPersistError(op, err)
	}
}
