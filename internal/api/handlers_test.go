package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberline/internal/auth"
	"barberline/internal/engine"
	"barberline/internal/models"
	"barberline/internal/store"
)

type nopStore struct{}

func (nopStore) Load(ctx context.Context) (*models.Snapshot, error) { return nil, nil }
func (nopStore) Save(ctx context.Context, s *models.Snapshot) error { return nil }

type recordingNotifier struct {
	mu      sync.Mutex
	clients []models.Client
	queues  []string
}

func (r *recordingNotifier) ClientEnqueued(queueName string, client models.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues = append(r.queues, queueName)
	r.clients = append(r.clients, client)
}

func (r *recordingNotifier) ShopOpened(int) {}

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	initial := models.NewSnapshot([]models.RosterEntry{
		{ID: "charles", Name: "Charles"},
		{ID: "paulo", Name: "Paulo"},
	})
	session := store.NewSession(context.Background(), nopStore{}, nil, initial, zerolog.Nop())
	authSvc := auth.NewService([]auth.Account{
		{ID: "charles", Username: "charles", Password: "pw", Name: "Charles"},
	})
	return NewHandlers(session, engine.New(), authSvc, nil, zerolog.Nop())
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	require.NoError(t, h(c))

	var payload map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	}
	return rec, payload
}

func TestEnqueueAndBoard(t *testing.T) {
	h := newTestHandlers(t)

	rec, body := doJSON(t, h.Enqueue, http.MethodPost, "/api/v1/queue",
		`{"staff_id":"charles","name":"Ana","service_kind":"haircut"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	staff := body["staff"].([]any)
	require.Len(t, staff, 2)

	charles := staff[0].(map[string]any)
	require.Equal(t, "charles", charles["id"])
	queue := charles["queue"].([]any)
	require.Len(t, queue, 1)
	assert.Equal(t, "Ana", queue[0].(map[string]any)["name"])

	// The snapshot behind the session advanced too.
	snap := h.session.Snapshot()
	require.Len(t, snap.FindStaff("charles").Queue, 1)
}

func TestEnqueue_GeneralQueue(t *testing.T) {
	h := newTestHandlers(t)

	rec, body := doJSON(t, h.Enqueue, http.MethodPost, "/api/v1/queue",
		`{"name":"Bruno","service_kind":"beard"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	general := body["general_queue"].([]any)
	require.Len(t, general, 1)
	assert.Equal(t, "Bruno", general[0].(map[string]any)["name"])
}

func TestStartAndFinishService(t *testing.T) {
	h := newTestHandlers(t)

	doJSON(t, h.Enqueue, http.MethodPost, "/", `{"staff_id":"charles","name":"Ana","service_kind":"haircut"}`, nil)

	rec, _ := doJSON(t, h.StartService, http.MethodPost, "/", `{}`, func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("charles")
	})
	require.Equal(t, http.StatusOK, rec.Code)

	st := h.session.Snapshot().FindStaff("charles")
	require.NotNil(t, st.CurrentClient)
	assert.Equal(t, models.StateBusy, st.Status.State)

	rec, _ = doJSON(t, h.FinishService, http.MethodPost, "/", "", func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("charles")
	})
	require.Equal(t, http.StatusOK, rec.Code)

	st = h.session.Snapshot().FindStaff("charles")
	assert.Nil(t, st.CurrentClient)
	assert.Equal(t, models.StateAvailable, st.Status.State)
	assert.Equal(t, 1, st.CompletedServices)
}

func TestUpdateHours_RequiresLogin(t *testing.T) {
	h := newTestHandlers(t)

	rec, _ := doJSON(t, h.UpdateHours, http.MethodPut, "/", `{"is_open":true}`, func(c echo.Context) {
		c.SetParamNames("day")
		c.SetParamValues("1")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateHours_Authenticated(t *testing.T) {
	h := newTestHandlers(t)
	token, _, ok := h.auth.Authenticate("charles", "pw")
	require.True(t, ok)

	rec, body := doJSON(t, h.UpdateHours, http.MethodPut, "/",
		`{"is_open":true,"open_time":"09:00","close_time":"18:00"}`, func(c echo.Context) {
			c.SetParamNames("day")
			c.SetParamValues("1")
			c.Request().Header.Set("X-Auth-Token", token)
		})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body["business_hours"])

	hoursEntry, ok := h.session.Snapshot().HoursFor(1)
	require.True(t, ok)
	assert.True(t, hoursEntry.IsOpen)
	assert.Equal(t, "09:00", hoursEntry.OpenTime)
	assert.True(t, hoursEntry.CustomOverride)
}

func TestLogin(t *testing.T) {
	h := newTestHandlers(t)

	rec, body := doJSON(t, h.Login, http.MethodPost, "/", `{"username":"charles","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, body = doJSON(t, h.Login, http.MethodPost, "/", `{"username":"charles","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid username or password", body["error"])
}

func TestEnqueueNotifiesTheCreatedClient(t *testing.T) {
	h := newTestHandlers(t)
	rec := &recordingNotifier{}
	h.notifier = rec

	doJSON(t, h.Enqueue, http.MethodPost, "/", `{"staff_id":"charles","name":"Ana","service_kind":"haircut"}`, nil)

	require.Len(t, rec.clients, 1)
	assert.Equal(t, "Charles", rec.queues[0])
	assert.Equal(t, h.session.Snapshot().FindStaff("charles").Queue[0].ID, rec.clients[0].ID)

	// A rejected enqueue must stay silent.
	doJSON(t, h.Enqueue, http.MethodPost, "/", `{"staff_id":"charles","name":"   ","service_kind":"haircut"}`, nil)
	assert.Len(t, rec.clients, 1)
}

func TestEnqueueNotificationsUnderConcurrency(t *testing.T) {
	h := newTestHandlers(t)
	rec := &recordingNotifier{}
	h.notifier = rec

	const n = 30
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"staff_id":"charles","name":"client-%d","service_kind":"haircut"}`, i)
			doJSON(t, h.Enqueue, http.MethodPost, "/", body, nil)
		}(i)
	}
	wg.Wait()

	require.Len(t, rec.clients, n)
	seen := make(map[string]bool, n)
	for _, c := range rec.clients {
		seen[c.Name] = true
	}
	// Every enqueue notified its own client, none was reported twice.
	for i := 0; i < n; i++ {
		assert.True(t, seen[fmt.Sprintf("client-%d", i)])
	}
}

func TestRemoveEndpointsAreNoOpSafe(t *testing.T) {
	h := newTestHandlers(t)
	before := h.session.Snapshot()

	rec, _ := doJSON(t, h.RemoveFromGeneralQueue, http.MethodDelete, "/", "", func(c echo.Context) {
		c.SetParamNames("clientID")
		c.SetParamValues("missing")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, before, h.session.Snapshot(), "missing ids leave the snapshot untouched")
}
