// Package aggregate holds the pure folds over already-fetched record
// sets: revenue totals, expense totals and leaderboards. Nothing in
// this package performs I/O or authorization; callers pass in record
// sets that are already scoped to a single user.
package aggregate

import "github.com/brightdesk/finance-api/internal/domain"

// Revenue folds a set of sale records into period totals.
//
// Each record contributes its invoice total (sum of line items). If
// two sale records reference the same invoice, both are counted; that
// mirrors how sales are recognized upstream and is intentionally not
// deduplicated here.
func Revenue(records []domain.SaleRecord) domain.RevenueTotals {
	totals := domain.RevenueTotals{}
	for _, rec := range records {
		totals.TotalRevenue += rec.Invoice.Total()
		totals.InvoiceCount++
	}
	// Average is exactly 0 for an empty window, never NaN.
	if totals.InvoiceCount > 0 {
		totals.AverageInvoiceValue = totals.TotalRevenue / float64(totals.InvoiceCount)
	}
	return totals
}

// ExpenseTotal sums a set of expense records.
func ExpenseTotal(records []domain.ExpenseRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.Amount
	}
	return sum
}

// FilterOwned drops sale records whose owner or invoice creator does
// not match userID, returning the kept records and the skipped count.
// The fetcher already scopes queries by owner, so a non-zero skip
// count points at an upstream filtering bug worth logging.
func FilterOwned(records []domain.SaleRecord, userID string) ([]domain.SaleRecord, int) {
	kept := make([]domain.SaleRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.OwnerID != userID || rec.Invoice.CreatorID != userID {
			skipped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, skipped
}

// FilterOwnedExpenses is the expense-side counterpart of FilterOwned.
func FilterOwnedExpenses(records []domain.ExpenseRecord, userID string) ([]domain.ExpenseRecord, int) {
	kept := make([]domain.ExpenseRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.OwnerID != userID {
			skipped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, skipped
}
