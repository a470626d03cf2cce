package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chillele/studymate/internal/common"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeServiceErr maps service-layer sentinel errors to HTTP statuses.
// Anything unrecognized is reported as an opaque 500.
func writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthenticated):
		writeErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrUnknownAccount),
		errors.Is(err, common.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrDuplicateAccount),
		errors.Is(err, common.ErrAlreadyApplied):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidCode),
		errors.Is(err, common.ErrNotVerified),
		errors.Is(err, common.ErrInvalidEmailFormat),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, common.ErrOwnStudy):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
