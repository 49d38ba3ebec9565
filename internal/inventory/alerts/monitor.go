package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

// Monitor checks the stock of products touched by invoice events
type Monitor struct {
	repo    domain.Repository
	deficit *prometheus.GaugeVec
}

// NewMonitor creates a monitor and registers its gauge
func NewMonitor(repo domain.Repository, reg prometheus.Registerer, namespace string) *Monitor {
	m := &Monitor{
		repo: repo,
		deficit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_deficit",
			Help:      "Units missing to reach the minimum stock, 0 when stocked",
		}, []string{"product_id"}),
	}
	reg.MustRegister(m.deficit)
	return m
}

// HandleInvoiceEvent is a kafka.EventHandler
func (m *Monitor) HandleInvoiceEvent(ctx context.Context, event kafka.InvoiceEvent) error {
	for _, line := range event.Lines {
		if err := m.check(ctx, line.ProductID, event.InvoiceNumber); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) check(ctx context.Context, productID uint, invoiceNumber string) error {
	record, err := m.repo.FindByProductID(ctx, productID)
	if errors.Is(err, domain.ErrInventoryNotFound) {
		m.deficit.DeleteLabelValues(label(productID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stock of product %d: %w", productID, err)
	}

	deficit := record.MinStock - record.Quantity
	if deficit < 0 {
		deficit = 0
	}
	m.deficit.WithLabelValues(label(productID)).Set(float64(deficit))

	if status := record.Status(); status != domain.StatusOK {
		logger.Warn(ctx).
			Uint("product_id", productID).
			Int("quantity", record.Quantity).
			Int("min_stock", record.MinStock).
			Str("status", string(status)).
			Str("invoice_number", invoiceNumber).
			Msg("Stock below minimum")
	}
	return nil
}

func label(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}
