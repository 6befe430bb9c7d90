// Package api exposes the queue operations over HTTP. Handlers call
// the engine through the session so every mutation is atomic and
// persisted; missing ids answer 200 with no effect, matching the
// engine's no-op semantics.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"barberline/internal/auth"
	"barberline/internal/engine"
	"barberline/internal/export"
	"barberline/internal/hours"
	"barberline/internal/metrics"
	"barberline/internal/models"
	"barberline/internal/notify"
	"barberline/internal/stats"
	"barberline/internal/store"
)

type Handlers struct {
	session  *store.Session
	engine   *engine.Engine
	auth     *auth.Service
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewHandlers(session *store.Session, eng *engine.Engine, authSvc *auth.Service, notifier notify.Notifier, logger zerolog.Logger) *Handlers {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Handlers{
		session:  session,
		engine:   eng,
		auth:     authSvc,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handlers) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	token, creds, ok := h.auth.Authenticate(req.Username, req.Password)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("invalid username or password"))
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "staff": creds})
}

func (h *Handlers) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Header.Get("X-Auth-Token"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) Enqueue(c echo.Context) error {
	var req struct {
		StaffID     string `json:"staff_id"`
		Name        string `json:"name"`
		ServiceKind string `json:"service_kind"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	// The created client is captured inside the closure, under the
	// session lock, so a concurrent enqueue cannot be misattributed.
	var created models.Client
	var queueName string
	next, changed := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		out := h.engine.Enqueue(s, req.StaffID, req.Name, models.ServiceKind(req.ServiceKind))
		if out != s {
			queueName, created = enqueuedTail(out, req.StaffID)
		}
		return out
	}, func() {
		metrics.IncEnqueued(queueLabel(req.StaffID))
	})

	if changed {
		h.notifier.ClientEnqueued(queueName, created)
	}
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) StartService(c echo.Context) error {
	staffID := c.Param("id")
	var req struct {
		ClientID string `json:"client_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.StartService(s, staffID, req.ClientID)
	}, metrics.IncServiceStarted)
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) FinishService(c echo.Context) error {
	staffID := c.Param("id")
	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.FinishService(s, staffID)
	}, metrics.IncServiceFinished)
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) Pause(c echo.Context) error {
	staffID := c.Param("id")
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.SetPause(s, staffID, req.Reason)
	}, metrics.IncPaused)
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) Resume(c echo.Context) error {
	staffID := c.Param("id")
	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.ResumeWork(s, staffID)
	}, func() {
		metrics.AddResumed("manual", 1)
	})
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) RemoveFromQueue(c echo.Context) error {
	staffID := c.Param("id")
	clientID := c.Param("clientID")
	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.RemoveFromQueue(s, staffID, clientID)
	}, func() {
		metrics.IncRemoved(queueLabel(staffID))
	})
	return c.JSON(http.StatusOK, h.board(next))
}

func (h *Handlers) RemoveFromGeneralQueue(c echo.Context) error {
	clientID := c.Param("clientID")
	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.RemoveFromGeneralQueue(s, clientID)
	}, func() {
		metrics.IncRemoved("general")
	})
	return c.JSON(http.StatusOK, h.board(next))
}

// UpdateHours is gated behind a staff login.
func (h *Handlers) UpdateHours(c echo.Context) error {
	if !h.auth.IsAuthenticated(c.Request().Header.Get("X-Auth-Token")) {
		return c.JSON(http.StatusUnauthorized, errorBody("login required"))
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid day"))
	}
	var req struct {
		IsOpen    bool   `json:"is_open"`
		OpenTime  string `json:"open_time"`
		CloseTime string `json:"close_time"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	next, _ := h.apply(c, func(s *models.Snapshot) *models.Snapshot {
		return h.engine.UpdateBusinessHours(s, day, req.IsOpen, req.OpenTime, req.CloseTime)
	}, nil)
	return c.JSON(http.StatusOK, map[string]any{"business_hours": next.BusinessHours})
}

func (h *Handlers) Board(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board(h.session.Snapshot()))
}

func (h *Handlers) ShopStatus(c echo.Context) error {
	snap := h.session.Snapshot()
	now := time.Now()
	today, _ := snap.HoursFor(int(now.Weekday()))
	return c.JSON(http.StatusOK, map[string]any{
		"open":  hours.ShopOpen(snap, now),
		"today": today,
	})
}

func (h *Handlers) Export(c echo.Context) error {
	snap := h.session.Snapshot()
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="barberline-report.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	if err := export.WriteReport(c.Response(), snap, time.Now()); err != nil {
		h.logger.Error().Err(err).Msg("report export failed")
		return err
	}
	return nil
}

// apply runs op through the session and, when it had an effect,
// records it and refreshes the queue gauges.
func (h *Handlers) apply(c echo.Context, op func(*models.Snapshot) *models.Snapshot, record func()) (*models.Snapshot, bool) {
	changed := false
	next := h.session.Update(c.Request().Context(), func(s *models.Snapshot) *models.Snapshot {
		out := op(s)
		changed = out != s
		return out
	})
	if changed {
		if record != nil {
			record()
		}
		observeQueues(next)
	}
	return next, changed
}

func observeQueues(s *models.Snapshot) {
	metrics.SetQueueLength("general", len(s.GeneralQueue))
	for _, st := range s.Staff {
		metrics.SetQueueLength(st.ID, len(st.Queue))
	}
}

// board projects the snapshot plus derived metrics for display.
func (h *Handlers) board(s *models.Snapshot) map[string]any {
	staff := make([]map[string]any, 0, len(s.Staff))
	for _, st := range s.Staff {
		staff = append(staff, map[string]any{
			"id":                     st.ID,
			"name":                   st.Name,
			"status":                 st.Status,
			"queue":                  clientsOrEmpty(st.Queue),
			"current_client":         st.CurrentClient,
			"completed_services":     st.CompletedServices,
			"average_service_time_s": int(stats.AverageServiceTime(st).Seconds()),
			"estimated_wait_s":       int(stats.EstimatedWait(st).Seconds()),
		})
	}
	return map[string]any{
		"staff":             staff,
		"general_queue":     clientsOrEmpty(s.GeneralQueue),
		"overall_average_s": int(stats.OverallAverageServiceTime(s).Seconds()),
		"open":              hours.ShopOpen(s, time.Now()),
	}
}

func clientsOrEmpty(clients []models.Client) []models.Client {
	if clients == nil {
		return []models.Client{}
	}
	return clients
}

func queueLabel(staffID string) string {
	if staffID == "" {
		return "general"
	}
	return staffID
}

// enqueuedTail returns the queue's display name and its newest member.
// Only valid on the snapshot an enqueue just produced.
func enqueuedTail(next *models.Snapshot, staffID string) (string, models.Client) {
	if staffID == "" {
		return "general", next.GeneralQueue[len(next.GeneralQueue)-1]
	}
	st := next.FindStaff(staffID)
	return st.Name, st.Queue[len(st.Queue)-1]
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
