package repository

import (
	"context"
	"errors"
	"testing"

	"course-backend/models"
	"course-backend/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SingleActiveCourse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := &models.Course{Name: "A", MaxStudents: 1, Active: true}
	require.NoError(t, store.CreateCourse(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := store.CreateCourse(ctx, &models.Course{Name: "B", MaxStudents: 1, Active: true})
	assert.ErrorIs(t, err, service.ErrUniqueViolation)

	first.Active = false
	require.NoError(t, store.SaveCourse(ctx, first))
	require.NoError(t, store.CreateCourse(ctx, &models.Course{Name: "B", MaxStudents: 1, Active: true}))

	first.Active = true
	assert.ErrorIs(t, store.SaveCourse(ctx, first), service.ErrUniqueViolation)
}

func TestMemoryStore_FindActiveFiltersStudents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	course, err := store.FindActiveCourseWithStudents(ctx)
	require.NoError(t, err)
	assert.Nil(t, course)

	c := &models.Course{Name: "A", MaxStudents: 5, Active: true}
	require.NoError(t, store.CreateCourse(ctx, c))

	kept := &models.Student{Name: "kept", Email: "kept@x.com", Active: true, CourseID: c.ID}
	gone := &models.Student{Name: "gone", Email: "gone@x.com", Active: true, CourseID: c.ID}
	require.NoError(t, store.CreateStudent(ctx, kept))
	require.NoError(t, store.CreateStudent(ctx, gone))

	gone.Active = false
	require.NoError(t, store.SaveStudent(ctx, gone))

	found, err := store.FindActiveCourseWithStudents(ctx)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Students, 1)
	assert.Equal(t, kept.ID, found.Students[0].ID)

	// отдаются копии строк
	found.Students[0].Name = "changed"
	again, err := store.FindActiveCourseWithStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", again.Students[0].Name)
}

func TestMemoryStore_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateStudent(ctx, &models.Student{Email: "a@x.com", Active: false}))
	err := store.CreateStudent(ctx, &models.Student{Email: "a@x.com", Active: true})
	assert.ErrorIs(t, err, service.ErrUniqueViolation)
}

func TestMemoryStore_WithinLockRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.WithinLock(ctx, func(tx service.Store) error {
		require.NoError(t, tx.CreateCourse(ctx, &models.Course{Name: "A", MaxStudents: 1, Active: true}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	courses, students := store.Counts()
	assert.Zero(t, courses)
	assert.Zero(t, students)
}

func TestMemoryStore_SaveUnknownRow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Error(t, store.SaveCourse(ctx, &models.Course{ID: "missing"}))
	assert.Error(t, store.SaveStudent(ctx, &models.Student{ID: "missing"}))
}
