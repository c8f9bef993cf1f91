package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"course-backend/models"
)

// Enrollment добавляет и удаляет студентов активного курса
type Enrollment struct {
	store Store
	cache Invalidator
}

func NewEnrollment(store Store, cache Invalidator) *Enrollment {
	return &Enrollment{store: store, cache: cache}
}

// AddStudent записывает студента на активный курс, если есть места
func (e *Enrollment) AddStudent(ctx context.Context, name, email string) (*models.Student, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, Invalid("course.AddStudent", "Name and email are required")
	}

	var student *models.Student
	err := e.store.WithinLock(ctx, func(tx Store) error {
		course, err := resolveActive(ctx, tx)
		if err != nil {
			return err
		}

		if len(course.ActiveStudents()) >= course.MaxStudents {
			return ErrCourseFull
		}

		student = &models.Student{
			Name:     name,
			Email:    email,
			Active:   true,
			CourseID: course.ID,
		}
		if err := tx.CreateStudent(ctx, student); err != nil {
			if errors.Is(err, ErrUniqueViolation) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.cache.Invalidate(ctx); err != nil {
		return nil, fmt.Errorf("invalidate domain diversity: %w", err)
	}

	log.Printf("✅ Student enrolled: id=%s email=%s course=%s", student.ID, student.Email, student.CourseID)
	return student, nil
}

// ListActive отдает активных студентов в порядке записи
func (e *Enrollment) ListActive(ctx context.Context) ([]models.Student, error) {
	course, err := resolveActive(ctx, e.store)
	if err != nil {
		return nil, err
	}
	return course.ActiveStudents(), nil
}

// RemoveStudent мягко удаляет студента из активного состава
func (e *Enrollment) RemoveStudent(ctx context.Context, id string) (*models.Student, error) {
	var student *models.Student
	err := e.store.WithinLock(ctx, func(tx Store) error {
		course, err := resolveActive(ctx, tx)
		if err != nil {
			return err
		}

		for _, s := range course.ActiveStudents() {
			if s.ID == id {
				found := s
				student = &found
				break
			}
		}
		if student == nil {
			return ErrStudentNotFound
		}

		student.Active = false
		if err := tx.SaveStudent(ctx, student); err != nil {
			return fmt.Errorf("save student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.cache.Invalidate(ctx); err != nil {
		return nil, fmt.Errorf("invalidate domain diversity: %w", err)
	}

	log.Printf("🗑️ Student removed: id=%s", student.ID)
	return student, nil
}
