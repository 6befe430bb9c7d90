// Package engine implements the queue state transitions. Every
// operation takes the current snapshot and returns the next one; when
// the operation has no effect (unknown id, empty queue) the input
// snapshot itself is returned, so callers can compare pointers to skip
// persistence. The engine never mutates its input and never errors.
package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"barberline/internal/models"
)

// Engine applies queue transitions. The clock and id generator are
// injectable so tests control both.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// New creates an engine with the wall clock and the default id scheme.
func New() *Engine {
	return &Engine{now: time.Now, newID: NewClientID}
}

// NewWithClock creates an engine with a custom clock and id generator.
// Nil arguments fall back to the defaults.
func NewWithClock(now func() time.Time, newID func() string) *Engine {
	e := New()
	if now != nil {
		e.now = now
	}
	if newID != nil {
		e.newID = newID
	}
	return e
}

// NewClientID returns a unique client id: the current time in
// milliseconds (base 36) plus a random suffix. The random part keeps
// ids unique even for calls within the same millisecond.
func NewClientID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return millis + "-" + uuid.NewString()[:8]
}

// Enqueue appends a new client to a staff member's personal queue, or
// to the general queue when staffID is empty. A blank name or unknown
// staff id is a no-op.
func (e *Engine) Enqueue(s *models.Snapshot, staffID, name string, kind models.ServiceKind) *models.Snapshot {
	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}

	client := models.Client{
		ID:          e.newID(),
		Name:        name,
		ServiceKind: kind,
		AddedAt:     e.now(),
	}

	if staffID == "" {
		next := s.Clone()
		next.GeneralQueue = append(next.GeneralQueue, client)
		return next
	}

	idx := s.StaffIndex(staffID)
	if idx < 0 {
		return s
	}
	next := s.Clone()
	next.Staff[idx].Queue = append(next.Staff[idx].Queue, client)
	return next
}

// StartService moves a client into the staff member's service slot.
// With a client id it searches the personal queue first, then the
// general queue. Without one it takes the head of the personal queue
// only. The resolved client gets StartedAt stamped and the staff
// member becomes busy. Unknown staff or no resolvable client is a
// no-op.
func (e *Engine) StartService(s *models.Snapshot, staffID, clientID string) *models.Snapshot {
	idx := s.StaffIndex(staffID)
	if idx < 0 {
		return s
	}

	next := s.Clone()
	st := &next.Staff[idx]

	var client *models.Client
	switch {
	case clientID != "":
		if i := indexOfClient(st.Queue, clientID); i >= 0 {
			c := st.Queue[i]
			st.Queue = append(st.Queue[:i], st.Queue[i+1:]...)
			client = &c
		} else if i := indexOfClient(next.GeneralQueue, clientID); i >= 0 {
			c := next.GeneralQueue[i]
			next.GeneralQueue = append(next.GeneralQueue[:i], next.GeneralQueue[i+1:]...)
			client = &c
		}
	case len(st.Queue) > 0:
		c := st.Queue[0]
		st.Queue = st.Queue[1:]
		client = &c
	}

	if client == nil {
		return s
	}

	started := e.now()
	client.StartedAt = &started
	st.CurrentClient = client
	st.Status = models.Busy()
	return next
}

// FinishService completes the staff member's current service: the
// elapsed duration is folded into the cumulative counters, the client
// is discarded, and the staff member becomes available. No current
// client is a no-op.
func (e *Engine) FinishService(s *models.Snapshot, staffID string) *models.Snapshot {
	idx := s.StaffIndex(staffID)
	if idx < 0 || s.Staff[idx].CurrentClient == nil {
		return s
	}

	next := s.Clone()
	st := &next.Staff[idx]

	var elapsed time.Duration
	if st.CurrentClient.StartedAt != nil {
		elapsed = e.now().Sub(*st.CurrentClient.StartedAt)
	}
	if elapsed < 0 {
		// Corrupt start time; count the service, not the duration.
		elapsed = 0
	}

	st.CompletedServices++
	st.TotalServiceTime += elapsed
	st.CurrentClient = nil
	st.Status = models.Available()
	return next
}

// RemoveFromQueue removes a client from a staff member's personal
// queue. An absent client or unknown staff id is a no-op.
func (e *Engine) RemoveFromQueue(s *models.Snapshot, staffID, clientID string) *models.Snapshot {
	idx := s.StaffIndex(staffID)
	if idx < 0 {
		return s
	}
	i := indexOfClient(s.Staff[idx].Queue, clientID)
	if i < 0 {
		return s
	}
	next := s.Clone()
	queue := next.Staff[idx].Queue
	next.Staff[idx].Queue = append(queue[:i], queue[i+1:]...)
	return next
}

// RemoveFromGeneralQueue removes a client from the general queue.
// An absent client id is a no-op.
func (e *Engine) RemoveFromGeneralQueue(s *models.Snapshot, clientID string) *models.Snapshot {
	i := indexOfClient(s.GeneralQueue, clientID)
	if i < 0 {
		return s
	}
	next := s.Clone()
	next.GeneralQueue = append(next.GeneralQueue[:i], next.GeneralQueue[i+1:]...)
	return next
}

// SetPause marks a staff member paused with a reason and the pause
// start time. Pausing a busy staff member is not rejected here;
// callers are expected to gate that.
func (e *Engine) SetPause(s *models.Snapshot, staffID, reason string) *models.Snapshot {
	idx := s.StaffIndex(staffID)
	if idx < 0 {
		return s
	}
	next := s.Clone()
	next.Staff[idx].Status = models.Paused(reason, e.now())
	return next
}

// ResumeWork clears a paused staff member back to available. A staff
// member that is not paused is a no-op.
func (e *Engine) ResumeWork(s *models.Snapshot, staffID string) *models.Snapshot {
	idx := s.StaffIndex(staffID)
	if idx < 0 || s.Staff[idx].Status.State != models.StatePaused {
		return s
	}
	next := s.Clone()
	next.Staff[idx].Status = models.Available()
	return next
}

// UpdateBusinessHours replaces the open flag for one weekday and any
// provided times, and marks the entry as manually overridden. Empty
// time arguments keep the existing values. An unknown weekday is a
// no-op.
func (e *Engine) UpdateBusinessHours(s *models.Snapshot, dayOfWeek int, isOpen bool, openTime, closeTime string) *models.Snapshot {
	entry := -1
	for i := range s.BusinessHours {
		if s.BusinessHours[i].DayOfWeek == dayOfWeek {
			entry = i
			break
		}
	}
	if entry < 0 {
		return s
	}

	next := s.Clone()
	h := &next.BusinessHours[entry]
	h.IsOpen = isOpen
	if openTime != "" {
		h.OpenTime = openTime
	}
	if closeTime != "" {
		h.CloseTime = closeTime
	}
	h.CustomOverride = true
	return next
}

func indexOfClient(clients []models.Client, clientID string) int {
	for i := range clients {
		if clients[i].ID == clientID {
			return i
		}
	}
	return -1
}
