package service

import (
	"errors"
	"fmt"
)

// Виды ошибок, сравниваются через errors.Is
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDuplicateEmail   = errors.New("duplicate email")
	ErrValidation       = errors.New("validation error")
)

// ErrUniqueViolation Store возвращает при нарушении уникального ограничения
var ErrUniqueViolation = errors.New("unique constraint violation")

// Error результат операции с курсом, на который может отреагировать вызывающий
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func newError(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

var (
	ErrCourseNotFound  = newError("course.Resolve", ErrNotFound, "Course not found")
	ErrCourseExists    = newError("course.Create", ErrConflict, "Course already exists")
	ErrCourseFull      = newError("course.AddStudent", ErrCapacityExceeded, "Course is full")
	ErrCapacityTooLow  = newError("course.Update", ErrCapacityExceeded, "maxStudents is lower than the number of enrolled students")
	ErrStudentNotFound = newError("course.RemoveStudent", ErrNotFound, "Student not found")
	ErrEmailTaken      = newError("course.AddStudent", ErrDuplicateEmail, "Email is already registered")
)

// Invalid создает ошибку валидации для op
func Invalid(op, message string) *Error {
	return newError(op, ErrValidation, message)
}

// Message отдает сообщение для пользователя или общее, если его нет
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
