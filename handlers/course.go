package handlers

import (
	"log"
	"net/http"

	"course-backend/models"
	"course-backend/service"
)

type CourseHandler struct {
	svc *service.CourseService
}

func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// CreateCourse создает новый активный курс
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log.Printf("➕ Creating course: Name='%s', MaxStudents=%d", req.Name, req.MaxStudents)

	course, err := h.svc.CreateCourse(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// GetCourse возвращает активный курс и разнообразие email доменов
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	index, err := h.svc.ReadCourse(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, index)
}

// UpdateCourse меняет только переданные поля
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var patch models.CoursePatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}

	log.Printf("🔄 Updating active course")

	course, err := h.svc.UpdateCourse(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// DeleteCourse деактивирует курс, запись остается в базе
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Deactivating active course")

	course, err := h.svc.DeleteCourse(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}
