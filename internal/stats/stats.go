// Package stats derives wait-time estimates from a snapshot. All
// functions are read-only projections and safe to call on every
// render tick.
package stats

import (
	"time"

	"barberline/internal/models"
)

// DefaultServiceTime is the cold-start estimate used until a staff
// member has completed at least one service.
const DefaultServiceTime = 25 * time.Minute

// AverageServiceTime returns the staff member's historical average
// service duration, or DefaultServiceTime before any completion.
func AverageServiceTime(st models.Staff) time.Duration {
	if st.CompletedServices == 0 {
		return DefaultServiceTime
	}
	return st.TotalServiceTime / time.Duration(st.CompletedServices)
}

// EstimatedWait approximates how long a new client would wait for the
// staff member: the average service time multiplied by the queue
// length, counting the client currently in service.
func EstimatedWait(st models.Staff) time.Duration {
	pending := len(st.Queue)
	if st.CurrentClient != nil {
		pending++
	}
	return AverageServiceTime(st) * time.Duration(pending)
}

// OverallAverageServiceTime averages completed services across the
// whole roster, with the same cold-start default.
func OverallAverageServiceTime(s *models.Snapshot) time.Duration {
	var completed int
	var total time.Duration
	for _, st := range s.Staff {
		completed += st.CompletedServices
		total += st.TotalServiceTime
	}
	if completed == 0 {
		return DefaultServiceTime
	}
	return total / time.Duration(completed)
}
