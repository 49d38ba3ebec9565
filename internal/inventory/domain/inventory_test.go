package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minStock int
		want     Status
	}{
		{"empty", 0, 10, StatusOutOfStock},
		{"oversold", -3, 10, StatusOutOfStock},
		{"one left", 1, 10, StatusLowStock},
		{"just below threshold", 9, 10, StatusLowStock},
		{"at threshold", 10, 10, StatusOK},
		{"above threshold", 25, 10, StatusOK},
		{"zero threshold", 1, 0, StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.quantity, tt.minStock))
		})
	}
}

func TestRecordStatus(t *testing.T) {
	assert.Equal(t, StatusLowStock, Record{Quantity: 2, MinStock: 10}.Status())
}
