package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course курс для записи студентов. Активным может быть не больше одного курса,
// удаление только снимает флаг.
type Course struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"not null;default:''"`
	MaxStudents int       `json:"maxStudents" gorm:"not null;check:chk_courses_max_students,max_students >= 1"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	Students    []Student `json:"students" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ActiveStudents отдает неудаленных студентов курса с сохранением порядка
func (c *Course) ActiveStudents() []Student {
	active := make([]Student, 0, len(c.Students))
	for _, s := range c.Students {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// CoursePatch поля частичного обновления курса. Nil поля не меняются.
type CoursePatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,min=1"`
}

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MaxStudents int    `json:"maxStudents" validate:"min=1"`
}

// CourseIndex ответ для чтения активного курса
type CourseIndex struct {
	Course            *Course `json:"course"`
	DomainDiversity   string  `json:"domainDiversity"`
	EmailDomainsCount int     `json:"emailDomainsCount"`
	StudentsCount     int     `json:"studentsCount"`
}
