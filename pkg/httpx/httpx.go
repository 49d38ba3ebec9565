package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MutationResponse is the body of every successful write
type MutationResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ID            uint   `json:"id,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

// WriteJSON sends a JSON response
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

// DecodeJSON decodes a single JSON object into dst, rejecting unknown fields
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperror.Validation("request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("request body is required")
		}
		return apperror.Validation("invalid request body: %s", describeDecodeError(err))
	}

	if dec.More() {
		return apperror.Validation("invalid request body: unexpected data after JSON object")
	}
	return nil
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return err.Error()
	}
}

// QueryID parses an optional unsigned integer query parameter
func QueryID(values url.Values, key string) (uint, bool, error) {
	if !values.Has(key) {
		return 0, false, nil
	}
	raw := strings.TrimSpace(values.Get(key))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, true, apperror.Validation("%s must be a positive integer", key)
	}
	return uint(id), true, nil
}

// ErrorWriter maps errors onto status codes and the error body
type ErrorWriter struct {
	// ExposeInternal passes internal error messages through instead of a generic text
	ExposeInternal bool
}

// StatusFor returns the HTTP status for an error
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Write logs err and answers the request with its status and message
func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	message := apperror.Message(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		if !e.ExposeInternal {
			message = "internal server error"
		}
	} else {
		logger.Debug(r.Context()).
			Err(err).
			Int("status", status).
			Msg("Request rejected")
	}

	WriteJSON(w, status, ErrorResponse{Error: message})
}

// MethodNotAllowed answers unsupported methods
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}
