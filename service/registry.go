package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"course-backend/models"
)

// Registry управляет единственным активным курсом
type Registry struct {
	store Store
	cache Invalidator
}

func NewRegistry(store Store, cache Invalidator) *Registry {
	return &Registry{store: store, cache: cache}
}

// ResolveActive отдает активный курс с активными студентами
func (r *Registry) ResolveActive(ctx context.Context) (*models.Course, error) {
	return resolveActive(ctx, r.store)
}

func resolveActive(ctx context.Context, store Store) (*models.Course, error) {
	course, err := store.FindActiveCourseWithStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("find active course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// Create сохраняет новый активный курс. Пока активен другой курс,
// возвращает ErrConflict.
func (r *Registry) Create(ctx context.Context, name, description string, maxStudents int) (*models.Course, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Invalid("course.Create", "Name is required")
	}
	if maxStudents < 1 {
		return nil, Invalid("course.Create", "maxStudents must be at least 1")
	}

	var course *models.Course
	err := r.store.WithinLock(ctx, func(tx Store) error {
		existing, err := tx.FindActiveCourseWithStudents(ctx)
		if err != nil {
			return fmt.Errorf("find active course: %w", err)
		}
		if existing != nil {
			return ErrCourseExists
		}

		course = &models.Course{
			Name:        name,
			Description: description,
			MaxStudents: maxStudents,
			Active:      true,
			Students:    []models.Student{},
		}
		if err := tx.CreateCourse(ctx, course); err != nil {
			// гонку поймал частичный уникальный индекс
			if errors.Is(err, ErrUniqueViolation) {
				return ErrCourseExists
			}
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.Invalidate(ctx); err != nil {
		return nil, fmt.Errorf("invalidate domain diversity: %w", err)
	}

	log.Printf("✅ Course created: id=%s name='%s' maxStudents=%d", course.ID, course.Name, course.MaxStudents)
	return course, nil
}

// Update применяет заданные поля patch к активному курсу. Кэш не трогаем:
// метаданные курса на разнообразие доменов не влияют.
func (r *Registry) Update(ctx context.Context, patch models.CoursePatch) (*models.Course, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, Invalid("course.Update", "Name cannot be empty")
	}
	if patch.MaxStudents != nil && *patch.MaxStudents < 1 {
		return nil, Invalid("course.Update", "maxStudents must be at least 1")
	}

	var course *models.Course
	err := r.store.WithinLock(ctx, func(tx Store) error {
		var err error
		course, err = resolveActive(ctx, tx)
		if err != nil {
			return err
		}

		if patch.MaxStudents != nil && *patch.MaxStudents < len(course.ActiveStudents()) {
			return ErrCapacityTooLow
		}
		if patch.Name != nil {
			course.Name = *patch.Name
		}
		if patch.Description != nil {
			course.Description = *patch.Description
		}
		if patch.MaxStudents != nil {
			course.MaxStudents = *patch.MaxStudents
		}

		if err := tx.SaveCourse(ctx, course); err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Course updated: id=%s", course.ID)
	return course, nil
}

// Deactivate мягко удаляет активный курс и отдает его текущее состояние
func (r *Registry) Deactivate(ctx context.Context) (*models.Course, error) {
	var course *models.Course
	err := r.store.WithinLock(ctx, func(tx Store) error {
		var err error
		course, err = resolveActive(ctx, tx)
		if err != nil {
			return err
		}

		course.Active = false
		if err := tx.SaveCourse(ctx, course); err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.Invalidate(ctx); err != nil {
		return nil, fmt.Errorf("invalidate domain diversity: %w", err)
	}

	log.Printf("🗑️ Course deactivated: id=%s", course.ID)
	return course, nil
}
