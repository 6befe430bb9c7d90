package hours

import (
	"time"

	"barberline/internal/engine"
	"barberline/internal/models"
)

// Evaluator tracks the shop's open/closed state across evaluations and
// resumes paused staff on the closed-to-open edge. The first
// evaluation only seeds the previous state and never resumes anyone.
type Evaluator struct {
	engine   *engine.Engine
	seeded   bool
	prevOpen bool
}

// NewEvaluator creates an evaluator applying transitions through eng.
func NewEvaluator(eng *engine.Engine) *Evaluator {
	return &Evaluator{engine: eng}
}

// Evaluate returns the snapshot after processing the current instant,
// whether the shop is open, and how many staff members were
// auto-resumed. Only the closed-to-open transition has a side effect;
// closing does not pause anyone.
func (ev *Evaluator) Evaluate(s *models.Snapshot, now time.Time) (*models.Snapshot, bool, int) {
	open := ShopOpen(s, now)

	if !ev.seeded {
		ev.seeded = true
		ev.prevOpen = open
		return s, open, 0
	}

	wasOpen := ev.prevOpen
	ev.prevOpen = open

	if wasOpen || !open {
		return s, open, 0
	}

	next := s
	resumed := 0
	for _, st := range s.Staff {
		if st.Status.State == models.StatePaused {
			next = ev.engine.ResumeWork(next, st.ID)
			resumed++
		}
	}
	return next, open, resumed
}
