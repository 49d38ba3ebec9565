package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-invoicing/pkg/apperror"
)

type sampleBody struct {
	ID   *uint   `json:"id"`
	Name *string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"id": 3, "name": "Widget"}`},
		{name: "empty body", body: ``, wantErr: "request body is required"},
		{name: "unknown field", body: `{"id": 1, "colour": "red"}`, wantErr: `unknown field "colour"`},
		{name: "wrong type", body: `{"id": "three"}`, wantErr: `field "id" must be uint`},
		{name: "malformed", body: `{"id": 1`, wantErr: "invalid request body"},
		{name: "trailing data", body: `{"id": 1} {"id": 2}`, wantErr: "unexpected data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body))

			var dst sampleBody
			err := DecodeJSON(req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, dst.ID)
				assert.Equal(t, uint(3), *dst.ID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQueryID(t *testing.T) {
	values := url.Values{"id": {"42"}, "bad": {"x"}, "zero": {"0"}}

	id, ok, err := QueryID(values, "id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	_, ok, err = QueryID(values, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = QueryID(values, "bad")
	assert.True(t, ok)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, _, err = QueryID(values, "zero")
	assert.Error(t, err)
}

func TestErrorWriter(t *testing.T) {
	tests := []struct {
		name        string
		expose      bool
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"validation", false, apperror.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", false, fmt.Errorf("lookup: %w", apperror.NotFound("invoice not found")), http.StatusNotFound, "invoice not found"},
		{"conflict", false, apperror.Conflict("customer has invoices"), http.StatusConflict, "customer has invoices"},
		{"internal sanitized", false, errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
		{"internal exposed", true, errors.New("pq: connection refused"), http.StatusInternalServerError, "pq: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)

			ErrorWriter{ExposeInternal: tt.expose}.Write(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error)
		})
	}
}

func TestMutationResponseOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(MutationResponse{Success: true, Message: "Customer updated successfully"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "message": "Customer updated successfully"}`, string(raw))
}
