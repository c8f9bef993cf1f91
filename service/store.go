package service

import (
	"context"

	"course-backend/models"
)

// Store хранилище курсов и студентов.
//
// Строки никогда не удаляются: Save* обновляют строку на месте, Create*
// вставляют новую и возвращают ErrUniqueViolation при нарушении уникальности.
type Store interface {
	// FindActiveCourseWithStudents отдает активный курс с активными студентами
	// в порядке записи, или nil, если курса нет
	FindActiveCourseWithStudents(ctx context.Context) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	SaveCourse(ctx context.Context, course *models.Course) error
	CreateStudent(ctx context.Context, student *models.Student) error
	SaveStudent(ctx context.Context, student *models.Student) error

	// WithinLock выполняет fn в транзакции под блокировкой курса.
	// Если fn вернула ошибку, ничего из записанного не сохраняется.
	WithinLock(ctx context.Context, fn func(tx Store) error) error
}

// Invalidator сбрасывает значения, посчитанные по составу
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
