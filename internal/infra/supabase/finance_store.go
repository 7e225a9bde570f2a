package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// saleSelect is the embedded PostgREST projection for sale records:
// each sale joined with its invoice, the invoice's client/project ids
// and its line items. Names are resolved separately through the
// reference-data cache.
const saleSelect = "id,owner_id,date,invoice:invoices(id,number,creator_id,client_id,project_id,line_items(id,amount))"

// --- Row mappings (Supabase table columns) ---

type lineItemRow struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

type invoiceRow struct {
	ID        string        `json:"id"`
	Number    string        `json:"number"`
	CreatorID string        `json:"creator_id"`
	ClientID  string        `json:"client_id"`
	ProjectID string        `json:"project_id"`
	LineItems []lineItemRow `json:"line_items"`
}

type saleRow struct {
	ID      string      `json:"id"`
	OwnerID string      `json:"owner_id"`
	Date    string      `json:"date"`
	Invoice *invoiceRow `json:"invoice"`
}

type expenseRow struct {
	ID       string  `json:"id"`
	OwnerID  string  `json:"owner_id"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

type nameRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchSales fetches the user's sale records inside the window
// (implements port.RecordFetcher). The window is half-open: the lower
// edge is a gte filter and the upper edge an lt filter; an unbounded
// window omits the lower edge.
func (c *Client) FetchSales(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.SaleRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.FetchSales")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var records []domain.SaleRecord

	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("sales?owner_id=eq.%s%s&select=%s&order=date.asc", userID, windowFilter(window), saleSelect)
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		if body == nil || string(body) == "[]" {
			records = []domain.SaleRecord{}
			return nil
		}

		var rows []saleRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode sales: %w", err)
		}

		records = make([]domain.SaleRecord, 0, len(rows))
		for _, r := range rows {
			if r.Invoice == nil {
				c.logger.Warn("supabase: sale row without invoice, skipping",
					zap.String("sale_id", r.ID),
				)
				continue
			}
			items := make([]domain.LineItem, 0, len(r.Invoice.LineItems))
			for _, li := range r.Invoice.LineItems {
				items = append(items, domain.LineItem{ID: li.ID, Amount: li.Amount})
			}
			records = append(records, domain.SaleRecord{
				ID:      r.ID,
				OwnerID: r.OwnerID,
				Date:    parseDate(r.Date),
				Invoice: domain.Invoice{
					ID:        r.Invoice.ID,
					Number:    r.Invoice.Number,
					CreatorID: r.Invoice.CreatorID,
					Client:    domain.ClientRef{ID: r.Invoice.ClientID, Name: c.lookupName(ctx, "clients", r.Invoice.ClientID)},
					Project:   domain.ProjectRef{ID: r.Invoice.ProjectID, Name: c.lookupName(ctx, "projects", r.Invoice.ProjectID)},
					Items:     items,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FetchExpenses fetches the user's expense records inside the window
// (implements port.RecordFetcher).
func (c *Client) FetchExpenses(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.ExpenseRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.FetchExpenses")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var records []domain.ExpenseRecord

	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("expenses?owner_id=eq.%s%s&order=date.asc", userID, windowFilter(window))
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		if body == nil || string(body) == "[]" {
			records = []domain.ExpenseRecord{}
			return nil
		}

		var rows []expenseRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode expenses: %w", err)
		}

		records = make([]domain.ExpenseRecord, 0, len(rows))
		for _, r := range rows {
			records = append(records, domain.ExpenseRecord{
				ID:       r.ID,
				OwnerID:  r.OwnerID,
				Date:     parseDate(r.Date),
				Amount:   r.Amount,
				Category: r.Category,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// InsertSale inserts one synthetic sale bundle via the dev_insert_sale
// RPC, which unpacks the nested invoice/client/project/line_items into
// their tables (implements port.SaleWriter). Dev seeding only.
func (c *Client) InsertSale(ctx context.Context, sale map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.InsertSale")
	defer span.End()

	payload, err := json.Marshal(map[string]any{"sale": sale})
	if err != nil {
		return fmt.Errorf("failed to encode sale: %w", err)
	}

	return c.execute(ctx, func() error {
		_, err := c.doRequest(ctx, http.MethodPost, "rpc/dev_insert_sale", payload)
		return err
	})
}

// DeleteSalesByInvoice removes the user's sale records recognized
// against an invoice (implements port.SaleWriter).
func (c *Client) DeleteSalesByInvoice(ctx context.Context, userID, invoiceID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSalesByInvoice")
	defer span.End()
	span.SetAttributes(attribute.String("invoice.id", invoiceID))

	return c.execute(ctx, func() error {
		path := fmt.Sprintf("sales?owner_id=eq.%s&invoice_id=eq.%s", userID, invoiceID)
		_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
		return err
	})
}

// lookupName resolves a client or project display name through the
// reference-data cache. A failed or empty lookup returns "" and the
// aggregation layer falls back to its placeholder label; a name lookup
// must never fail a report.
func (c *Client) lookupName(ctx context.Context, table, id string) string {
	if id == "" {
		return ""
	}

	key := table + ":" + id
	if name, ok := c.names.Get(key); ok {
		c.metrics.IncrCacheHit("names")
		return name
	}
	c.metrics.IncrCacheMiss("names")

	path := fmt.Sprintf("%s?id=eq.%s&select=id,name&limit=1", table, id)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil || body == nil || string(body) == "[]" {
		c.logger.Warn("supabase: name lookup failed",
			zap.String("table", table),
			zap.String("id", id),
			zap.Error(err),
		)
		return ""
	}

	var rows []nameRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return ""
	}

	c.names.Set(key, rows[0].Name)
	return rows[0].Name
}

// windowFilter renders the half-open window as PostgREST date filters.
func windowFilter(window domain.PeriodWindow) string {
	filter := fmt.Sprintf("&date=lt.%s", window.To.UTC().Format(time.RFC3339))
	if !window.Unbounded() {
		filter = fmt.Sprintf("&date=gte.%s%s", window.From.UTC().Format(time.RFC3339), filter)
	}
	return filter
}

func parseDate(raw string) time.Time {
	t, _ := time.Parse(time.RFC3339, raw)
	if t.IsZero() {
		t, _ = time.Parse("2006-01-02", raw)
	}
	return t
}
