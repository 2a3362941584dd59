package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

// ErrNotFound is returned when no live wizard exists for the session id.
var ErrNotFound = errors.New("wizard session not found")

// Store keeps live wizard sessions in memory. Sessions expire after the
// configured idle TTL and the cache janitor evicts abandoned wizards; there
// is no cross-session persistence.
type Store struct {
	sessions *cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	cleanup := ttl / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Store{
		sessions: cache.New(ttl, cleanup),
		ttl:      ttl,
		logger:   logger,
	}
}

// Put registers a wizard under its own id.
func (s *Store) Put(w *wizard.Wizard) {
	s.sessions.Set(w.ID().String(), w, s.ttl)
}

// Get returns the wizard for the session id and slides its expiration.
func (s *Store) Get(id uuid.UUID) (*wizard.Wizard, error) {
	v, ok := s.sessions.Get(id.String())
	if !ok {
		return nil, ErrNotFound
	}
	w := v.(*wizard.Wizard)
	s.sessions.Set(id.String(), w, s.ttl)
	return w, nil
}

// Delete drops the session; called after a successful submission.
func (s *Store) Delete(id uuid.UUID) {
	s.sessions.Delete(id.String())
	s.logger.Debug("wizard session removed", zap.String("session_id", id.String()))
}

// Len returns the number of live sessions, expired entries included until
// the janitor runs.
func (s *Store) Len() int {
	return s.sessions.ItemCount()
}
