// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the JSON request/response helpers used by every
// feature handler: body decoding with size caps, response writing, and
// the apperr → HTTP status mapping.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ErrorBody wraps the error object in an HTTP response.
type ErrorBody struct {
	Error ErrorItem `json:"error"`
}

// ErrorItem carries the stable code and message for an error response.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Decode reads the request body into dst, capped at maxBytes. A body
// that fails to parse is reported as a validation error so handlers can
// pass it straight to Error.
func Decode(r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "BAD_JSON", "request body is not valid JSON", err)
	}
	return nil
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Precondition:
		return http.StatusConflict
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error response. Internal errors are logged
// and masked; taxonomy errors pass their code and message through.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := StatusFor(err)

	code := apperr.CodeOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("internal error", zap.Error(err))
		}
		code = "INTERNAL"
		msg = "internal error"
	}

	Write(w, status, ErrorBody{Error: ErrorItem{Code: code, Message: msg}})
}

// NotFoundIf converts a driver not-found sentinel into an apperr.NotFound
// for the named resource, passing other errors through.
func NotFoundIf(err error, sentinel error, resource string) error {
	if errors.Is(err, sentinel) {
		return apperr.Wrap(apperr.NotFound, "NOT_FOUND", resource+" not found", err)
	}
	return err
}
