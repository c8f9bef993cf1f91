package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"course-backend/models"
	"course-backend/service"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// writeError переводит ошибку сервиса в HTTP ответ
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Internal error: %v", err)
	} else {
		log.Printf("⚠️ Request rejected (%d): %v", status, err)
	}
	writeMessage(w, status, service.Message(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate читает JSON тело и проверяет теги validate
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		log.Printf("❌ Validation failed: %v", err)
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
