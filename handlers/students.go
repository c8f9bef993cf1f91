package handlers

import (
	"log"
	"net/http"

	"course-backend/models"
	"course-backend/service"

	"github.com/gorilla/mux"
)

type StudentHandler struct {
	svc *service.CourseService
}

func NewStudentHandler(svc *service.CourseService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.ListStudents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log.Printf("➕ Enrolling student: Name='%s', Email='%s'", req.Name, req.Email)

	student, err := h.svc.AddStudent(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// RemoveStudent помечает студента неактивным
func (h *StudentHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	log.Printf("🗑️ Removing student with ID: %s", id)

	student, err := h.svc.RemoveStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}
