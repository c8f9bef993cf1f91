package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-backend/cache"
	"course-backend/models"
	"course-backend/repository"
	"course-backend/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:5173"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	diversity := cache.NewDiversityCache(cache.NewMemorySlot(), cache.DefaultTTL)
	svc := service.NewCourseService(repository.NewMemoryStore(), diversity)
	return NewRouter(NewCourseHandler(svc), NewStudentHandler(svc), NewHealthHandler(nil, "memory"), testOrigin)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCourseLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/course", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", decode[models.ErrorResponse](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/course", map[string]interface{}{
		"name": "Go 101", "description": "Intro", "maxStudents": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Course](t, rec)
	assert.True(t, created.Active)
	assert.Equal(t, 2, created.MaxStudents)

	rec = do(t, h, http.MethodPost, "/course", map[string]interface{}{"name": "Again", "maxStudents": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var index map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	assert.Equal(t, "0%", index["domainDiversity"])
	assert.EqualValues(t, 0, index["emailDomainsCount"])
	assert.EqualValues(t, 0, index["studentsCount"])
	assert.Equal(t, created.ID, index["course"].(map[string]interface{})["id"])

	rec = do(t, h, http.MethodPatch, "/course", map[string]interface{}{"description": "Updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Course](t, rec)
	assert.Equal(t, "Go 101", updated.Name)
	assert.Equal(t, "Updated", updated.Description)

	rec = do(t, h, http.MethodDelete, "/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[models.Course](t, rec)
	assert.Equal(t, created.ID, deleted.ID)
	assert.False(t, deleted.Active)

	rec = do(t, h, http.MethodDelete, "/course", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCourseValidation(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing name", map[string]interface{}{"maxStudents": 3}},
		{"zero capacity", map[string]interface{}{"name": "Go", "maxStudents": 0}},
		{"wrong type", map[string]interface{}{"name": "Go", "maxStudents": "three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/course", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[models.ErrorResponse](t, rec).Error)
		})
	}

	rec := do(t, h, http.MethodGet, "/course", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentsEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/course/students", map[string]string{"name": "a", "email": "a@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/course", map[string]interface{}{"name": "Go 101", "maxStudents": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	var ids []string
	for _, email := range []string{"a@x.com", "b@x.com", "c@y.com"} {
		rec = do(t, h, http.MethodPost, "/course/students", map[string]string{"name": "student", "email": email})
		require.Equal(t, http.StatusCreated, rec.Code)
		s := decode[models.Student](t, rec)
		assert.True(t, s.Active)
		ids = append(ids, s.ID)
	}

	rec = do(t, h, http.MethodPost, "/course/students", map[string]string{"name": "late", "email": "late@z.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Course is full", decode[models.ErrorResponse](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "67%", decode[models.CourseIndex](t, rec).DomainDiversity)

	rec = do(t, h, http.MethodDelete, "/course/students/"+ids[0], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Student](t, rec).Active)

	rec = do(t, h, http.MethodDelete, "/course/students/"+ids[0], nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/course/students", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	students := decode[[]models.Student](t, rec)
	require.Len(t, students, 2)
	assert.Equal(t, ids[1], students[0].ID)
	assert.Equal(t, ids[2], students[1].ID)

	rec = do(t, h, http.MethodGet, "/course", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	index := decode[models.CourseIndex](t, rec)
	assert.Equal(t, "100%", index.DomainDiversity)
	assert.Equal(t, 2, index.StudentsCount)

	rec = do(t, h, http.MethodPost, "/course/students", map[string]string{"name": "dup", "email": "a@x.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/course/students", map[string]string{"name": "bad", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodOptions, "/course/students", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := NewHealthHandler(fakePinger{err: errors.New("refused")}, "postgres")
	rec = httptest.NewRecorder()
	down.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "down", body["database"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrStudentNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrCourseExists))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.ErrCourseFull))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrEmailTaken))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.Invalid("op", "bad")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
