package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
)

var (
	okColor          = color.New(color.FgGreen)
	clientErrorColor = color.New(color.FgYellow)
	serverErrorColor = color.New(color.FgRed, color.Bold)
)

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Обертка для response writer, чтобы захватить статус
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("📨 %s %s - %s (%v)", r.Method, r.URL.Path, statusColor(rw.statusCode).Sprint(rw.statusCode), duration)
	})
}

func statusColor(code int) *color.Color {
	switch {
	case code >= http.StatusInternalServerError:
		return serverErrorColor
	case code >= http.StatusBadRequest:
		return clientErrorColor
	default:
		return okColor
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
