package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/avolkhin/noteboard/internal/errs"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeError maps sentinel errors to HTTP statuses. Unknown errors are
// logged and answered with an opaque 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, errs.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "access denied, admin only")
	case errors.Is(err, errs.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "email already registered")
	case errors.Is(err, errs.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, "too many attempts, try again later")
	default:
		s.log.Error("internal error", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON parses a request body into dst; failures are validation errors.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed json body", errs.ErrValidation)
	}
	return nil
}
