// Package store persists snapshots and synchronizes them across
// sessions. Persistence is best-effort: failures are logged and the
// in-memory snapshot stays authoritative for this session.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"barberline/internal/models"
)

// Store loads and saves snapshots. Load returns (nil, nil) when no
// snapshot has been saved yet.
type Store interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, s *models.Snapshot) error
}

// Broadcaster distributes snapshots to other running sessions and
// delivers theirs to us.
type Broadcaster interface {
	Publish(ctx context.Context, s *models.Snapshot) error
	Subscribe(ctx context.Context, fn func(*models.Snapshot))
}

// Session holds the live snapshot and serializes every mutation. All
// engine operations run inside Update, so no reader ever observes a
// partially applied transition.
type Session struct {
	mu      sync.Mutex
	current *models.Snapshot
	store   Store
	sync    Broadcaster
	logger  zerolog.Logger
}

// NewSession loads the persisted snapshot, falling back to initial
// when absent or unreadable, and subscribes to foreign updates when a
// broadcaster is configured. sync may be nil for single-session mode.
func NewSession(ctx context.Context, st Store, sync Broadcaster, initial *models.Snapshot, logger zerolog.Logger) *Session {
	s := &Session{store: st, sync: sync, logger: logger}

	loaded, err := st.Load(ctx)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("load snapshot failed, starting from initial state")
		s.current = initial
	case loaded == nil:
		s.current = initial
	default:
		s.current = loaded
	}

	if sync != nil {
		sync.Subscribe(ctx, s.replace)
	}
	return s
}

// Snapshot returns the current snapshot. Snapshots are never mutated
// in place, so the returned value is safe to read without locking.
func (s *Session) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn to the current snapshot atomically. When fn
// returns a new snapshot it becomes current, is saved, and is
// broadcast; when fn returns its input unchanged nothing is persisted.
func (s *Session) Update(ctx context.Context, fn func(*models.Snapshot) *models.Snapshot) *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.current)
	if next == s.current {
		return next
	}
	s.current = next

	if err := s.store.Save(ctx, next); err != nil {
		s.logger.Warn().Err(err).Msg("save snapshot failed")
	}
	if s.sync != nil {
		if err := s.sync.Publish(ctx, next); err != nil {
			s.logger.Warn().Err(err).Msg("broadcast snapshot failed")
		}
	}
	return next
}

// replace installs a snapshot received from another session.
// Last writer wins: any local state is discarded.
func (s *Session) replace(incoming *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = incoming
	s.logger.Debug().Msg("snapshot replaced from another session")
}
