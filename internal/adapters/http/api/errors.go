package api

import (
	"errors"
	"net/http"

	service "github.com/okian/bizdash/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrPanic = errors.New("handler panicked")
)

// statusForError maps a generation error to a status and error code.
func statusForError(err error) (int, string) {
	if errors.Is(err, service.ErrNotStarted) {
		return http.StatusServiceUnavailable, "service_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
