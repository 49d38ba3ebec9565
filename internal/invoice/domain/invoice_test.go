package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-invoicing/pkg/apperror"
)

func TestNextNumber(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last string
		want string
	}{
		{"first invoice", "", "FAC-2025-001"},
		{"increments", "FAC-2025-001", "FAC-2025-002"},
		{"carries over from previous year", "FAC-2024-041", "FAC-2025-042"},
		{"pads to three digits", "FAC-2025-099", "FAC-2025-100"},
		{"grows past 999", "FAC-2025-999", "FAC-2025-1000"},
		{"continues after 999", "FAC-2025-1000", "FAC-2025-1001"},
		{"malformed suffix restarts", "FAC-2025-abc", "FAC-2025-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(tt.last, now))
		})
	}
}

func TestCalculateTotals(t *testing.T) {
	inv := &Invoice{Items: []Item{
		{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("9.99")},
		{ProductID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("0.105")},
	}}

	inv.CalculateTotals()

	assert.True(t, decimal.RequireFromString("29.97").Equal(inv.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("0.11").Equal(inv.Items[1].UnitPrice))
	assert.True(t, decimal.RequireFromString("0.22").Equal(inv.Items[1].Subtotal))
	assert.True(t, decimal.RequireFromString("30.19").Equal(inv.Total))

	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(inv.Total))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Paid ")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status)

	_, err = ParseStatus("refunded")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.False(t, StatusCancelled.HoldsStock())
	assert.True(t, StatusPending.HoldsStock())
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)

	raw, err := json.Marshal(struct {
		InvoiceDate Date `json:"invoice_date"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice_date": "2025-03-14"}`, string(raw))

	var decoded struct {
		InvoiceDate Date `json:"invoice_date"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, d, decoded.InvoiceDate)

	assert.Error(t, json.Unmarshal([]byte(`{"invoice_date": "14/03/2025"}`), &decoded))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 3, 14, 0, 0, 0, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, "2025-03-14", d.String())

	require.NoError(t, d.Scan([]byte("2024-12-31T00:00:00Z")))
	assert.Equal(t, "2024-12-31", d.String())

	value, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", value)

	assert.Error(t, d.Scan(42))
}

func TestNewDateDropsTimeOfDay(t *testing.T) {
	d := NewDate(time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC))
	other, _ := ParseDate("2025-03-14")
	assert.Equal(t, other, d)
	assert.False(t, d.After(other))
	assert.False(t, d.Before(other))
}
