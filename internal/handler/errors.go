package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/render"
)

// writeError maps a service error onto the error envelope. notFound is the
// message used for domain.ErrNotFound because the handler is the layer that
// knows what was being looked up. Unrecognised errors are logged and become
// a 500 without leaking their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		render.Error(w, r, http.StatusNotFound, render.CodeNotFound, notFound)
	case errors.Is(err, domain.ErrValidation):
		render.Error(w, r, http.StatusUnprocessableEntity, render.CodeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrConflict):
		render.Error(w, r, http.StatusConflict, render.CodeConflict, unwrapMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrUnauthorized):
		render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrForbidden):
		render.Error(w, r, http.StatusForbidden, render.CodeForbidden, "not allowed")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		render.Error(w, r, http.StatusInternalServerError, render.CodeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.TripService.Create: validation error: destination is required" → "destination is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeBody decodes a JSON request body into v. It writes the error
// response itself and reports false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Error(w, r, http.StatusRequestEntityTooLarge, render.CodePayloadTooLarge, "request body too large")
			return false
		}
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
