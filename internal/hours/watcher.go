package hours

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"barberline/internal/models"
)

// SnapshotUpdater applies an atomic transition to the current
// snapshot. Implemented by store.Session.
type SnapshotUpdater interface {
	Update(ctx context.Context, fn func(*models.Snapshot) *models.Snapshot) *models.Snapshot
}

// Watcher periodically evaluates business hours against the live
// snapshot, independent of any display refresh.
type Watcher struct {
	session  SnapshotUpdater
	eval     *Evaluator
	interval time.Duration
	logger   zerolog.Logger
	onOpen   func(resumed int)
}

// NewWatcher creates a watcher ticking at the given interval.
// A non-positive interval defaults to one second.
func NewWatcher(session SnapshotUpdater, eval *Evaluator, interval time.Duration, logger zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		session:  session,
		eval:     eval,
		interval: interval,
		logger:   logger,
	}
}

// OnOpen registers a callback invoked after an opening transition that
// resumed at least one paused staff member.
func (w *Watcher) OnOpen(fn func(resumed int)) {
	w.onOpen = fn
}

// Run ticks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	var resumed int
	w.session.Update(ctx, func(s *models.Snapshot) *models.Snapshot {
		next, _, n := w.eval.Evaluate(s, time.Now())
		resumed = n
		return next
	})

	if resumed > 0 {
		w.logger.Info().Int("resumed", resumed).Msg("shop opened, paused staff resumed")
		if w.onOpen != nil {
			w.onOpen(resumed)
		}
	}
}
