package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "inventory_invoicing")

	handler := m.Wrap("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodDelete, "/api/customers", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues(http.MethodDelete, "/api/customers", "409")))

	count, err := testutil.GatherAndCount(reg, "inventory_invoicing_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBusinessMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics(reg, "inventory_invoicing")

	m.InvoicesCreated.Inc()
	m.StatusChanges.WithLabelValues("paid").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("paid")))
}
