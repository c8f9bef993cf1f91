package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student всегда принадлежит одному курсу. Email уникален по всем строкам,
// включая удаленных студентов.
type Student struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"not null;size:255;uniqueIndex:uq_students_email"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CourseID  string    `json:"-" gorm:"type:uuid;not null;index:idx_students_course_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type CreateStudentRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
