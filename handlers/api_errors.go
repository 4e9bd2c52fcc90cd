package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, APIErrorDetail{Code: code, Detail: detail})
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, details ...APIErrorDetail) {
	for i := range details {
		details[i].Status = strconv.Itoa(httpStatus)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Errors: details})
}

var statusByKind = map[string]int{
	"not_authenticated":    http.StatusUnauthorized,
	"forbidden":            http.StatusForbidden,
	"not_found":            http.StatusNotFound,
	"validation_error":     http.StatusBadRequest,
	"duplicate_favorite":   http.StatusConflict,
	"conflict":             http.StatusConflict,
	"cascade_failure":      http.StatusInternalServerError,
	"upstream_unavailable": http.StatusServiceUnavailable,
	"timeout":              http.StatusGatewayTimeout,
}

// writeServiceError maps a service error onto the error envelope. Causes are logged,
// never sent to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	detail := "internal server error"
	field := ""
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		detail = appErr.Message
		field = appErr.Field
	}

	log := logging.Ctx(r.Context())
	if status >= 500 {
		log.Error().Err(err).Str("kind", kind).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", kind).Msg("request rejected")
	}
	writeAPIErrors(w, status, APIErrorDetail{Code: kind, Detail: detail, Field: field})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// decodeJSON reads a bounded JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload: "+err.Error())
		return false
	}
	return true
}

// uintParam parses a positive integer chi URL parameter, writing a 400 on failure.
func uintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}
