package service

import (
	"context"

	"course-backend/cache"
	"course-backend/models"
)

// CourseService точка входа для HTTP обработчиков. Каждая операция, которая
// меняет состав или активный курс, сбрасывает разнообразие доменов до возврата.
type CourseService struct {
	registry   *Registry
	enrollment *Enrollment
	diversity  *cache.DiversityCache
}

func NewCourseService(store Store, diversity *cache.DiversityCache) *CourseService {
	return &CourseService{
		registry:   NewRegistry(store, diversity),
		enrollment: NewEnrollment(store, diversity),
		diversity:  diversity,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	return s.registry.Create(ctx, req.Name, req.Description, req.MaxStudents)
}

// ReadCourse отдает активный курс вместе с разнообразием доменов его студентов
func (s *CourseService) ReadCourse(ctx context.Context) (*models.CourseIndex, error) {
	course, err := s.registry.ResolveActive(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.diversity.Get(ctx, s.enrollment.ListActive)
	if err != nil {
		return nil, err
	}

	return &models.CourseIndex{
		Course:            course,
		DomainDiversity:   stats.Percent(),
		EmailDomainsCount: stats.UniqueDomains,
		StudentsCount:     stats.StudentsCount,
	}, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, patch models.CoursePatch) (*models.Course, error) {
	return s.registry.Update(ctx, patch)
}

func (s *CourseService) DeleteCourse(ctx context.Context) (*models.Course, error) {
	return s.registry.Deactivate(ctx)
}

func (s *CourseService) AddStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	return s.enrollment.AddStudent(ctx, req.Name, req.Email)
}

func (s *CourseService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.enrollment.ListActive(ctx)
}

func (s *CourseService) RemoveStudent(ctx context.Context, id string) (*models.Student, error) {
	return s.enrollment.RemoveStudent(ctx, id)
}
