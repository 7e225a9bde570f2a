package port

import (
	"context"

	"github.com/brightdesk/finance-api/internal/domain"
)

// RecordFetcher is the single point of contact with persisted state.
// Implementations must filter strictly by owner and by date within
// the half-open window, and must return empty slices (not errors)
// when nothing matches.
type RecordFetcher interface {
	FetchSales(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.SaleRecord, error)
	FetchExpenses(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.ExpenseRecord, error)
}

// SaleWriter covers the write operations the engine needs: dev
// seeding and cascade deletion of sale records by invoice.
type SaleWriter interface {
	InsertSale(ctx context.Context, data map[string]any) error
	DeleteSalesByInvoice(ctx context.Context, userID, invoiceID string) error
}

// Cache is a generic read-through cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
