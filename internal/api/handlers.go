/**
 * @description
 * This file contains the shared pieces of the HTTP layer: the Handlers struct
 * holding the application service, the JSON response helpers, and the mapping
 * from application/store errors to HTTP status codes. Handlers parse requests,
 * call the service and write responses; no business rules live here.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/store: Service logic and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/store"
)

// Handlers holds the application service that all endpoint handlers use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps application and store errors to HTTP status codes.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrLoanNotFound),
		errors.Is(err, store.ErrSavingsNotFound),
		errors.Is(err, store.ErrPaymentNotFound),
		errors.Is(err, store.ErrShareNotFound),
		errors.Is(err, store.ErrTransactionNotFound),
		errors.Is(err, store.ErrSettingNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrMemberIDTaken),
		errors.Is(err, store.ErrSavingsPeriodExists):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, app.ErrInvalidLoanStatus):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrUserInactive):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrLoginThrottled):
		h.writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// idParam extracts a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// listOptions reads the skip/limit pagination query parameters. Absent or
// invalid values mean "from the start" and "no limit".
func listOptions(r *http.Request) store.ListOptions {
	var opts store.ListOptions
	if skip, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && skip > 0 {
		opts.Skip = skip
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	return opts
}
