package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmelnyk/contacts-api/internal/service"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteDetail(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteDetail writes an error response in the `{"detail": ...}` shape the
// API contract uses for every non-2xx body.
func WriteDetail(w http.ResponseWriter, code int, detail string) {
	WriteJSON(w, code, map[string]string{"detail": detail})
}

// WriteServiceError maps a business error to its transport status and
// writes it. Anything that is not a *service.Error is a fault and
// surfaces as an opaque 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	code := statusForKind(svcErr.Kind)
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteDetail(w, code, svcErr.Message)
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindConflict:
		return http.StatusConflict
	case service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
