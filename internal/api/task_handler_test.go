package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	apimw "github.com/phrazzld/usertask-api/internal/api/middleware"
	"github.com/phrazzld/usertask-api/internal/api/shared"
	"github.com/phrazzld/usertask-api/internal/cache"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/events"
	"github.com/phrazzld/usertask-api/internal/platform/memory"
	"github.com/phrazzld/usertask-api/internal/service"
	"github.com/phrazzld/usertask-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// newTaskRouter mounts the handler the way the server does, with the task
// route behind the cache-aside decorator on backend.
func newTaskRouter(t *testing.T, svc service.TaskService, backend cache.Backend) http.Handler {
	t.Helper()

	h := NewTaskHandler(svc, nil)
	itemCache := apimw.CacheAside(
		cache.NewService(backend, time.Minute, nil),
		cache.NewPolicy(time.Minute, cache.SortedQueryKey),
		h.FindTask,
		h.WriteError,
	)

	r := chi.NewRouter()
	r.Get("/api/usertasks_bysorting", h.GetSorted)
	r.Get("/api/usertasks_grouping", h.GetGrouped)
	r.Get("/api/usertasks", h.ListTasks)
	r.Post("/api/usertask", h.CreateTask)
	r.Get("/api/usertask/{id}", itemCache)
	r.Put("/api/usertask/{id}", h.UpdateTask)
	r.Delete("/api/usertask/{id}", h.DeleteTask)
	return r
}

func newMemoryRouter(t *testing.T) (http.Handler, uuid.UUID) {
	t.Helper()

	db := memory.NewDB()
	owner := &domain.User{ID: uuid.New(), Firstname: "Ada", Lastname: "Lovelace"}
	_, err := db.Users().CreateIfAbsent(context.Background(), owner)
	require.NoError(t, err)

	backend := newTestBackend(t)
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(cache.NewInvalidator(backend, nil, TaskRoutePrefix), events.TypeTaskChanged)

	svc, err := service.NewTaskService(db.Tasks(), emitter, nil,
		service.WithClock(func() time.Time { return testToday }),
		service.WithLocation(time.UTC))
	require.NoError(t, err)

	return newTaskRouter(t, svc, backend), owner.ID
}

func newTestBackend(t *testing.T) cache.Backend {
	t.Helper()

	backend, err := cache.NewLocalBackend(cache.DefaultLocalConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, &buf))
	return w
}

func taskBody(userID uuid.UUID, date, start, end, subject string, current bool) TaskRequest {
	return TaskRequest{
		UserID:        userID.String(),
		CurrentDate:   date,
		StartTime:     start,
		EndTime:       end,
		Subject:       subject,
		IsCurrentDate: current,
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestTaskLifecycle(t *testing.T) {
	h, owner := newMemoryRouter(t)

	created := do(t, h, http.MethodPost, "/api/usertask",
		taskBody(owner, "2026-10-19", "09:00", "10:00", "Standup", false))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	task := decode[TaskResponse](t, created)
	assert.Equal(t, "/api/usertask/"+task.ID, created.Header().Get("Location"))
	assert.Equal(t, "09:00:00", task.StartTime)
	assert.Equal(t, "2026-10-19", task.CurrentDate)

	got := do(t, h, http.MethodGet, "/api/usertask/"+task.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, task, decode[TaskResponse](t, got))

	updated := do(t, h, http.MethodPut, "/api/usertask/"+task.ID,
		taskBody(owner, "2026-10-20", "11:00:00", "12:30:00", "Planning", true))
	require.Equal(t, http.StatusNoContent, updated.Code, updated.Body.String())

	after := decode[TaskResponse](t, do(t, h, http.MethodGet, "/api/usertask/"+task.ID, nil))
	assert.Equal(t, "Planning", after.Subject)
	assert.Equal(t, "12:30:00", after.EndTime)
	assert.True(t, after.IsCurrentDate)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/usertask/"+task.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/usertask/"+task.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/usertask/"+task.ID, nil).Code)
}

func TestGetTaskServedFromCache(t *testing.T) {
	h, owner := newMemoryRouter(t)

	created := do(t, h, http.MethodPost, "/api/usertask",
		taskBody(owner, "2026-10-19", "09:00", "10:00", "Standup", false))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	location := created.Header().Get("Location")

	miss := do(t, h, http.MethodGet, location, nil)
	hit := do(t, h, http.MethodGet, location, nil)

	assert.Equal(t, apimw.CacheHeader, "X-Cache")
	assert.Equal(t, "MISS", miss.Header().Get(apimw.CacheHeader))
	assert.Equal(t, "HIT", hit.Header().Get(apimw.CacheHeader))
	assert.Equal(t, miss.Body.String(), hit.Body.String())
}

func TestCreateTaskRejectsBadInput(t *testing.T) {
	h, owner := newMemoryRouter(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"malformed json", "not an object", http.StatusBadRequest},
		{"missing subject", taskBody(owner, "2026-10-19", "09:00", "10:00", "", false), http.StatusBadRequest},
		{"bad date", taskBody(owner, "19-10-2026", "09:00", "10:00", "s", false), http.StatusBadRequest},
		{"bad clock", taskBody(owner, "2026-10-19", "nine", "10:00", "s", false), http.StatusBadRequest},
		{"end before start", taskBody(owner, "2026-10-19", "11:00", "10:00", "s", false), http.StatusBadRequest},
		{"unknown user", taskBody(uuid.New(), "2026-10-19", "09:00", "10:00", "s", false), http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/usertask", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCreateTaskRejectsOversizedBody(t *testing.T) {
	h, owner := newMemoryRouter(t)

	body := taskBody(owner, "2026-10-19", "09:00:00", "10:00:00", "Standup", false)
	body.Description = strings.Repeat("x", shared.MaxRequestBodyBytes)

	w := do(t, h, http.MethodPost, "/api/usertask", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCreateTaskDuplicateID(t *testing.T) {
	h, owner := newMemoryRouter(t)

	body := taskBody(owner, "2026-10-19", "09:00", "10:00", "s", false)
	body.ID = uuid.NewString()

	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/usertask", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/usertask", body).Code)
}

func TestUpdateMissingTask(t *testing.T) {
	h, owner := newMemoryRouter(t)

	w := do(t, h, http.MethodPut, "/api/usertask/"+uuid.NewString(),
		taskBody(owner, "2026-10-19", "09:00", "10:00", "s", false))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidPathID(t *testing.T) {
	h, _ := newMemoryRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, method, "/api/usertask/not-a-uuid", nil).Code)
	}
}

func TestSortedAndGroupedQueries(t *testing.T) {
	h, owner := newMemoryRouter(t)

	seed := []TaskRequest{
		taskBody(owner, "2026-10-19", "14:00", "15:00", "late", false),
		taskBody(owner, "2026-10-19", "08:00", "09:00", "early", false),
		taskBody(owner, "2026-10-21", "10:00", "11:00", "later", false),
		taskBody(owner, "2026-10-01", "12:00", "13:00", "past pinned", true),
	}
	for _, body := range seed {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/usertask", body).Code)
	}

	sorted := decode[[]TaskResponse](t,
		do(t, h, http.MethodGet, "/api/usertasks_bysorting?date=2026-10-19&sortBy=StartTime&ascending=false", nil))
	subjects := make([]string, 0, len(sorted))
	for _, task := range sorted {
		subjects = append(subjects, task.Subject)
	}
	assert.Equal(t, []string{"late", "past pinned", "early"}, subjects)

	all := decode[[]TaskResponse](t, do(t, h, http.MethodGet, "/api/usertasks_bysorting", nil))
	assert.Len(t, all, 4)
	assert.Equal(t, "past pinned", all[0].Subject, "default order is by date ascending")

	groups := decode[[]TaskGroupResponse](t, do(t, h, http.MethodGet, "/api/usertasks_grouping", nil))
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-10-19", groups[0].Date)
	assert.Equal(t, "early", groups[0].Tasks[0].Subject)
	assert.Equal(t, "late", groups[0].Tasks[1].Subject)
	assert.Equal(t, "2026-10-21", groups[1].Date)

	list := decode[[]TaskResponse](t, do(t, h, http.MethodGet, "/api/usertasks", nil))
	assert.Len(t, list, 4)
}

func TestSortedQueryRejectsBadParameters(t *testing.T) {
	h, _ := newMemoryRouter(t)

	assert.Equal(t, http.StatusBadRequest,
		do(t, h, http.MethodGet, "/api/usertasks_bysorting?date=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, h, http.MethodGet, "/api/usertasks_bysorting?ascending=maybe", nil).Code)
}

func TestEmptyCollectionsAreArrays(t *testing.T) {
	h, _ := newMemoryRouter(t)

	for _, target := range []string{"/api/usertasks", "/api/usertasks_grouping", "/api/usertasks_bysorting"} {
		w := do(t, h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String(), target)
	}
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	svc := new(MockTaskService)
	unavailable := service.NewTaskServiceError("list_tasks", "failed", fmt.Errorf("%w: dial tcp", store.ErrUnavailable))
	svc.On("ListTasks", mock.Anything).Return(nil, unavailable)
	svc.On("GetTask", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil, unavailable)

	h := newTaskRouter(t, svc, newTestBackend(t))

	w := do(t, h, http.MethodGet, "/api/usertasks", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Service temporarily unavailable"}`, w.Body.String())

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/usertask/"+uuid.NewString(), nil).Code)
	svc.AssertExpectations(t)
}

func TestParseSortSpecDefaults(t *testing.T) {
	spec, err := parseSortSpec(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSortSpec(), spec)
}
