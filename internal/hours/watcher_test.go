package hours

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberline/internal/engine"
	"barberline/internal/models"
)

type fakeSession struct {
	mu      sync.Mutex
	current *models.Snapshot
}

func (f *fakeSession) Update(_ context.Context, fn func(*models.Snapshot) *models.Snapshot) *models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = fn(f.current)
	return f.current
}

func (f *fakeSession) snapshot() *models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func alwaysOpenWeek() []models.BusinessHours {
	hours := make([]models.BusinessHours, 7)
	for day := 0; day < 7; day++ {
		hours[day] = models.BusinessHours{DayOfWeek: day, IsOpen: true, OpenTime: "00:00", CloseTime: "23:59"}
	}
	return hours
}

func alwaysClosedWeek() []models.BusinessHours {
	hours := make([]models.BusinessHours, 7)
	for day := 0; day < 7; day++ {
		hours[day] = models.BusinessHours{DayOfWeek: day}
	}
	return hours
}

func TestWatcherResumesOnOpeningAndStopsOnCancel(t *testing.T) {
	eng := engine.New()
	snap := models.NewSnapshot([]models.RosterEntry{{ID: "charles", Name: "Charles"}})
	snap = eng.SetPause(snap, "charles", "lunch")
	snap.BusinessHours = alwaysClosedWeek()

	fs := &fakeSession{current: snap}
	w := NewWatcher(fs, NewEvaluator(eng), 10*time.Millisecond, zerolog.Nop())

	opened := make(chan int, 1)
	w.OnOpen(func(resumed int) { opened <- resumed })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Let the first tick seed the closed state, then open the shop.
	time.Sleep(50 * time.Millisecond)
	fs.Update(ctx, func(s *models.Snapshot) *models.Snapshot {
		next := s.Clone()
		next.BusinessHours = alwaysOpenWeek()
		return next
	})

	select {
	case resumed := <-opened:
		assert.Equal(t, 1, resumed)
	case <-time.After(2 * time.Second):
		t.Fatal("opening transition never fired")
	}

	st := fs.snapshot().FindStaff("charles")
	require.NotNil(t, st)
	assert.Equal(t, models.StateAvailable, st.Status.State)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcherStaysSilentWhileNothingChanges(t *testing.T) {
	eng := engine.New()
	snap := models.NewSnapshot([]models.RosterEntry{{ID: "charles", Name: "Charles"}})
	snap.BusinessHours = alwaysOpenWeek()

	fs := &fakeSession{current: snap}
	w := NewWatcher(fs, NewEvaluator(eng), 10*time.Millisecond, zerolog.Nop())

	fired := false
	w.OnOpen(func(int) { fired = true })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	assert.False(t, fired, "an already-open shop must not trigger the callback")
	assert.Same(t, snap, fs.snapshot())
}
