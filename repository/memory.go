package repository

import (
	"context"
	"fmt"
	"sync"

	"course-backend/models"
	"course-backend/service"

	"github.com/google/uuid"
)

// MemoryStore держит курсы и студентов в памяти с теми же ограничениями,
// что и схема PostgreSQL. Для локального запуска и тестов.
type MemoryStore struct {
	// блокировка курса для WithinLock
	lock sync.Mutex

	mu       sync.RWMutex
	courses  []models.Course
	students []models.Student
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) FindActiveCourseWithStudents(ctx context.Context) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.courses {
		if !c.Active {
			continue
		}
		course := c
		course.Students = []models.Student{}
		for _, s := range m.students {
			if s.CourseID == course.ID && s.Active {
				course.Students = append(course.Students, s)
			}
		}
		return &course, nil
	}
	return nil, nil
}

func (m *MemoryStore) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if course.Active {
		for _, c := range m.courses {
			if c.Active {
				return fmt.Errorf("%w: courses_single_active", service.ErrUniqueViolation)
			}
		}
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	row := *course
	row.Students = nil
	m.courses = append(m.courses, row)
	return nil
}

func (m *MemoryStore) SaveCourse(ctx context.Context, course *models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.courses {
		if m.courses[i].ID != course.ID {
			continue
		}
		if course.Active {
			for j, c := range m.courses {
				if j != i && c.Active {
					return fmt.Errorf("%w: courses_single_active", service.ErrUniqueViolation)
				}
			}
		}
		row := *course
		row.Students = nil
		m.courses[i] = row
		return nil
	}
	return fmt.Errorf("course %s does not exist", course.ID)
}

func (m *MemoryStore) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.students {
		if s.Email == student.Email {
			return fmt.Errorf("%w: students_email", service.ErrUniqueViolation)
		}
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	m.students = append(m.students, *student)
	return nil
}

func (m *MemoryStore) SaveStudent(ctx context.Context, student *models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.students {
		if m.students[i].ID == student.ID {
			m.students[i] = *student
			return nil
		}
	}
	return fmt.Errorf("student %s does not exist", student.ID)
}

// WithinLock выполняет fn строго по очереди с другими вызовами.
// Записи упавшей fn откатываются.
func (m *MemoryStore) WithinLock(ctx context.Context, fn func(tx service.Store) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.mu.RLock()
	courses := append([]models.Course(nil), m.courses...)
	students := append([]models.Student(nil), m.students...)
	m.mu.RUnlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.courses, m.students = courses, students
		m.mu.Unlock()
		return err
	}
	return nil
}

// Counts число строк курсов и студентов, включая удаленные
func (m *MemoryStore) Counts() (courses, students int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.courses), len(m.students)
}
