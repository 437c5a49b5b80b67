package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prudhvinik1/authflow/internal/models"
	"github.com/prudhvinik1/authflow/internal/services"
)

const msgInternal = "Internal server error"

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    *models.Account `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeError translates a service error into a client response. Internal
// details only reach the log.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, response{Message: msgInternal})
		return
	}
	writeJSON(w, statusFor(kind), response{Message: err.Error()})
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ErrMissingFields
	}
	return nil
}
