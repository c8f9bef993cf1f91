package handlers

import (
	"net/http"

	"course-backend/middleware"

	"github.com/gorilla/mux"
)

func NewRouter(courseHandler *CourseHandler, studentHandler *StudentHandler,
	healthHandler *HealthHandler, corsOrigin string) *mux.Router {

	r := mux.NewRouter()

	r.Use(middleware.CORS(corsOrigin))
	r.Use(middleware.Logging)

	// Курс
	r.HandleFunc("/course", courseHandler.CreateCourse).Methods(http.MethodPost)
	r.HandleFunc("/course", courseHandler.GetCourse).Methods(http.MethodGet)
	r.HandleFunc("/course", courseHandler.UpdateCourse).Methods(http.MethodPatch)
	r.HandleFunc("/course", courseHandler.DeleteCourse).Methods(http.MethodDelete)

	// Студенты активного курса
	r.HandleFunc("/course/students", studentHandler.AddStudent).Methods(http.MethodPost)
	r.HandleFunc("/course/students", studentHandler.GetStudents).Methods(http.MethodGet)
	r.HandleFunc("/course/students/{id}", studentHandler.RemoveStudent).Methods(http.MethodDelete)

	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// OPTIONS для preflight запросов, заголовки ставит CORS middleware
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
