package handler

// Response helpers shared by every handler in this package.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//
//	{"error": "not_found", "message": "snippet not found with id 7"}
//
// plus an optional "field" for validation failures. Clients always know what
// to expect, regardless of whether it's a 400, 403, or 500.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/service"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending field for validation errors
}

// listEnvelope wraps every paginated collection response. count is the total
// number of records before pagination — clients page with limit/offset and
// must not assume all results arrive at once.
type listEnvelope struct {
	Count   int `json:"count"`
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Results any `json:"results"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the body: once Encode calls Write,
// the headers are on the wire and further changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeHTML sends a raw HTML response. Used by the snippet highlight endpoint,
// which is the one place the API speaks text/html instead of JSON.
func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write HTML response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to the appropriate HTTP status code.
//
// This is the single place domain errors become HTTP. The service layer
// returns apperror sentinels; errors.Is walks the wrapped chain to find them:
//
//	service returns: fmt.Errorf("updating snippet: %w", apperror.Forbidden(...))
//	which wraps:     AppError{Err: ErrForbidden, ...}
//	errors.Is walks: outer error → AppError → ErrForbidden → 403
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error — generic 500. The raw message might contain SQL or file
	// paths; never expose it to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// idParam parses the {id} path parameter. A non-numeric id can't name any
// record, so it reports 404 (not 400) and returns ok=false — same as asking
// for an id that doesn't exist.
func idParam(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: resource + " not found with id " + raw,
		})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning 0 (which
// every consumer treats as "use the default") when absent or malformed.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// pageLimit and pageOffset echo back the pagination values the service
// actually used, applying the same clamping it does.

func pageLimit(limit int) int {
	if limit <= 0 {
		return service.DefaultListLimit
	}
	if limit > service.MaxListLimit {
		return service.MaxListLimit
	}
	return limit
}

func pageOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
