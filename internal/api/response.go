// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/validation"
)

// APIResponse is the envelope of every JSON body. Exactly one of Data and
// Error is set.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries a stable machine code and a message safe to show users.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta is attached to every envelope.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = validation.CodeValidation
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeNoHistoryEntry     = "HISTORY_ENTRY_NOT_FOUND"
)

// encodeFailureBody is sent when an envelope cannot be marshaled.
var encodeFailureBody = []byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Failed to encode response"}}` + "\n")

// ResponseWriter writes envelopes for one request, timing it from creation.
type ResponseWriter struct {
	w       http.ResponseWriter
	r       *http.Request
	started time.Time
}

// NewResponseWriter starts the request clock.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, started: time.Now()}
}

// Success writes data with 200.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.send(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Created writes data with 201.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.send(http.StatusCreated, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Error writes an error envelope without details.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error envelope; the request ID is repeated in
// the error so clients can quote it.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	meta := rw.meta()
	rw.send(statusCode, APIResponse{
		Error: &APIError{Code: code, Message: message, Details: details, RequestID: meta.RequestID},
		Meta:  meta,
	})
}

// BadRequest writes 400 BAD_REQUEST.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes 404 with a resource specific code.
func (rw *ResponseWriter) NotFound(code, message string) {
	rw.Error(http.StatusNotFound, code, message)
}

// ServiceUnavailable writes 503.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// InternalError logs err with the request context and writes a 500 that
// carries only message.
func (rw *ResponseWriter) InternalError(message string, err error) {
	logging.CtxErr(rw.r.Context(), err).Msg(message)
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.started).Milliseconds(),
	}
}

// send marshals before touching the header so an encoding failure still
// yields a well-formed 500.
func (rw *ResponseWriter) send(statusCode int, body APIResponse) {
	payload, err := json.Marshal(body)
	if err != nil {
		logging.CtxErr(rw.r.Context(), err).Msg("Failed to encode JSON response")
		statusCode, payload = http.StatusInternalServerError, encodeFailureBody
	} else {
		payload = append(payload, '\n')
	}

	h := rw.w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(payload)))
	rw.w.WriteHeader(statusCode)
	_, _ = rw.w.Write(payload) // client went away
}

// WriteSuccess writes data with 200 outside a handler.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError writes an error envelope. Its signature matches auth.ErrorWriter.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	NewResponseWriter(w, r).Error(statusCode, code, message)
}
