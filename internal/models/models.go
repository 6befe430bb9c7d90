// Package models defines the barbershop domain: clients, staff,
// queues, business hours, and the snapshot that aggregates them.
package models

import "time"

// ServiceKind is the kind of service a client is waiting for.
type ServiceKind string

const (
	ServiceHaircut      ServiceKind = "haircut"
	ServiceBeard        ServiceKind = "beard"
	ServiceHaircutBeard ServiceKind = "haircut-beard"
)

// Client is a walk-in client waiting in a queue or being served.
// StartedAt is nil while queued and set exactly once when service starts.
type Client struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ServiceKind ServiceKind `json:"service_kind"`
	AddedAt     time.Time   `json:"added_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
}

// StaffState is the discriminant of a staff member's status.
type StaffState string

const (
	StateAvailable StaffState = "available"
	StateBusy      StaffState = "busy"
	StatePaused    StaffState = "paused"
)

// Status is a tagged status value. The pause fields carry payload only
// when State is StatePaused; use the constructors below so the other
// variants never carry stale pause data.
type Status struct {
	State       StaffState `json:"state"`
	PauseReason string     `json:"pause_reason,omitempty"`
	PausedSince *time.Time `json:"paused_since,omitempty"`
}

// Available returns the available status.
func Available() Status {
	return Status{State: StateAvailable}
}

// Busy returns the busy status.
func Busy() Status {
	return Status{State: StateBusy}
}

// Paused returns a paused status with reason and start time.
func Paused(reason string, since time.Time) Status {
	return Status{State: StatePaused, PauseReason: reason, PausedSince: &since}
}

// Staff is one staff member with a personal FIFO queue, at most one
// client in service, and cumulative service counters.
type Staff struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Queue             []Client      `json:"queue"`
	CurrentClient     *Client       `json:"current_client,omitempty"`
	Status            Status        `json:"status"`
	CompletedServices int           `json:"completed_services"`
	TotalServiceTime  time.Duration `json:"total_service_time"`
}

// BusinessHours is the opening window for one weekday.
// DayOfWeek follows time.Weekday numbering: 0 = Sunday.
type BusinessHours struct {
	DayOfWeek      int    `json:"day_of_week"`
	IsOpen         bool   `json:"is_open"`
	OpenTime       string `json:"open_time"`  // "10:00"
	CloseTime      string `json:"close_time"` // "20:00"
	CustomOverride bool   `json:"custom_override,omitempty"`
}

// Snapshot is the complete shop state at one instant. Engine operations
// treat snapshots as immutable: they clone, modify the clone, and
// return it, so a held snapshot is always safe to read.
type Snapshot struct {
	Staff         []Staff         `json:"staff"`
	GeneralQueue  []Client        `json:"general_queue"`
	BusinessHours []BusinessHours `json:"business_hours"`
}

// RosterEntry seeds one staff member at initialization.
type RosterEntry struct {
	ID   string
	Name string
}

// NewSnapshot builds the initial snapshot for a roster with empty
// queues and the default weekly schedule.
func NewSnapshot(roster []RosterEntry) *Snapshot {
	staff := make([]Staff, 0, len(roster))
	for _, r := range roster {
		staff = append(staff, Staff{
			ID:     r.ID,
			Name:   r.Name,
			Status: Available(),
		})
	}
	return &Snapshot{
		Staff:         staff,
		BusinessHours: DefaultBusinessHours(),
	}
}

// DefaultBusinessHours returns the default weekly schedule:
// closed Sunday and Monday, open Tuesday through Saturday 10:00-20:00.
func DefaultBusinessHours() []BusinessHours {
	hours := make([]BusinessHours, 7)
	for day := 0; day < 7; day++ {
		h := BusinessHours{DayOfWeek: day}
		if day >= 2 {
			h.IsOpen = true
			h.OpenTime = "10:00"
			h.CloseTime = "20:00"
		}
		hours[day] = h
	}
	return hours
}

// StaffIndex returns the index of the staff member with the given id,
// or -1 when unknown.
func (s *Snapshot) StaffIndex(staffID string) int {
	for i := range s.Staff {
		if s.Staff[i].ID == staffID {
			return i
		}
	}
	return -1
}

// FindStaff returns the staff member with the given id, or nil.
func (s *Snapshot) FindStaff(staffID string) *Staff {
	if i := s.StaffIndex(staffID); i >= 0 {
		return &s.Staff[i]
	}
	return nil
}

// HoursFor returns the schedule entry for a weekday (0 = Sunday).
func (s *Snapshot) HoursFor(dayOfWeek int) (BusinessHours, bool) {
	for _, h := range s.BusinessHours {
		if h.DayOfWeek == dayOfWeek {
			return h, true
		}
	}
	return BusinessHours{}, false
}

// Clone returns a deep copy of the snapshot. Pointer fields are copied
// so mutating the clone never leaks into the original.
func (s *Snapshot) Clone() *Snapshot {
	next := &Snapshot{
		Staff:         make([]Staff, len(s.Staff)),
		GeneralQueue:  cloneClients(s.GeneralQueue),
		BusinessHours: append([]BusinessHours(nil), s.BusinessHours...),
	}
	for i, st := range s.Staff {
		st.Queue = cloneClients(st.Queue)
		if st.CurrentClient != nil {
			current := cloneClient(*st.CurrentClient)
			st.CurrentClient = &current
		}
		st.Status = cloneStatus(st.Status)
		next.Staff[i] = st
	}
	return next
}

func cloneClients(clients []Client) []Client {
	if clients == nil {
		return nil
	}
	cloned := make([]Client, len(clients))
	for i, c := range clients {
		cloned[i] = cloneClient(c)
	}
	return cloned
}

func cloneClient(c Client) Client {
	if c.StartedAt != nil {
		started := *c.StartedAt
		c.StartedAt = &started
	}
	return c
}

func cloneStatus(st Status) Status {
	if st.PausedSince != nil {
		since := *st.PausedSince
		st.PausedSince = &since
	}
	return st
}
