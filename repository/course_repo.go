// Package repository хранит курсы и студентов.
package repository

import (
	"context"
	"errors"
	"fmt"

	"course-backend/models"
	"course-backend/service"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courseLockKey ключ advisory блокировки, под которой идут все проверки с записью
const courseLockKey int64 = 0x636f75727365

const uniqueViolation = "23505"

// CourseRepository хранилище в PostgreSQL через GORM
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) FindActiveCourseWithStudents(ctx context.Context) (*models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("created_at ASC, id ASC")
		}).
		Where("active = ?", true).
		Limit(1).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}

	course := courses[0]
	if course.Students == nil {
		course.Students = []models.Student{}
	}
	return &course, nil
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *CourseRepository) SaveCourse(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *CourseRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *CourseRepository) SaveStudent(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return translate(err)
	}
	return nil
}

// WithinLock выполняет fn в транзакции, которая сначала берет advisory блокировку.
// Блокировка снимается при commit или rollback.
func (r *CourseRepository) WithinLock(ctx context.Context, fn func(tx service.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", courseLockKey).Error; err != nil {
			return fmt.Errorf("acquire course lock: %w", err)
		}
		return fn(&CourseRepository{db: tx})
	})
}

func translate(err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", service.ErrUniqueViolation, err)
	}
	return err
}

// IsUniqueViolation проверяет, что ошибка от уникального ограничения
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
