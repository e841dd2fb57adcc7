package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidEntryType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPasswordTooWeak):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNameTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailAlreadyUsed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyAdmin):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
