package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("name is required"), KindValidation},
		{"not found", NotFound("product %d not found", 7), KindNotFound},
		{"conflict", Conflict("customer has invoices"), KindConflict},
		{"wrapped", fmt.Errorf("failed to delete customer: %w", Conflict("busy")), KindConflict},
		{"plain", errors.New("connection refused"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("failed to create invoice: %w", Validation("product %d not found", 3))
	assert.Equal(t, "product 3 not found", Message(err))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestSentinelIdentity(t *testing.T) {
	sentinel := NotFound("invoice not found")
	wrapped := fmt.Errorf("repository: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, NotFound("invoice not found")))
}
