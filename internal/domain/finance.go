package domain

import "time"

// ============================================================
// Period windows
// ============================================================

// PeriodWindow is a half-open time range [From, To).
// A zero From means the window has no lower bound (all-time).
type PeriodWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window.
func (w PeriodWindow) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	return t.Before(w.To)
}

// Unbounded reports whether the window has no lower bound.
func (w PeriodWindow) Unbounded() bool {
	return w.From.IsZero()
}

// ============================================================
// Sales records (as returned by the record fetcher)
// ============================================================

// ClientRef identifies the client an invoice was issued to.
type ClientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectRef identifies the project an invoice was billed under.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineItem is a single billed position on an invoice.
// Amount is a non-negative monetary value.
type LineItem struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

// Invoice is the billing document a sale was recognized against,
// joined with its client, project and line items.
type Invoice struct {
	ID        string     `json:"id"`
	Number    string     `json:"number"`
	CreatorID string     `json:"creator_id"`
	Client    ClientRef  `json:"client"`
	Project   ProjectRef `json:"project"`
	Items     []LineItem `json:"items"`
}

// Total returns the invoice total: the sum of its line item amounts.
// This is always derived, never stored.
func (inv Invoice) Total() float64 {
	var sum float64
	for _, it := range inv.Items {
		sum += it.Amount
	}
	return sum
}

// SaleRecord is one recognized sale event. Date is the recognition
// date, which is not necessarily the invoice date.
type SaleRecord struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Date    time.Time `json:"date"`
	Invoice Invoice   `json:"invoice"`
}

// ExpenseRecord is one recorded cost event.
type ExpenseRecord struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"owner_id"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category,omitempty"`
}

// ============================================================
// Aggregation results
// ============================================================

// RevenueTotals is the fold of a set of sale records.
type RevenueTotals struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	InvoiceCount        int     `json:"invoiceCount"`
	AverageInvoiceValue float64 `json:"averageInvoiceValue"`
}

// LeaderboardEntry is one client or project with its revenue total
// for the requested period.
type LeaderboardEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// PeriodSummary is the derived summary for a single period.
// It is recomputed on every request and never cached.
type PeriodSummary struct {
	Period string       `json:"period"`
	Window PeriodWindow `json:"window"`
	RevenueTotals
	BestClient  *LeaderboardEntry `json:"bestClient"`
	BestProject *LeaderboardEntry `json:"bestProject"`
}

// ComparisonDiff holds absolute and percentage deltas between two
// period summaries (B minus A). Percentage fields are nil when the
// base value is zero: "undefined" must stay distinguishable from an
// actual 0% change.
type ComparisonDiff struct {
	Revenue                float64  `json:"revenue"`
	RevenuePct             *float64 `json:"revenuePct"`
	InvoiceCount           int      `json:"invoiceCount"`
	InvoiceCountPct        *float64 `json:"invoiceCountPct"`
	AverageInvoiceValue    float64  `json:"averageInvoiceValue"`
	AverageInvoiceValuePct *float64 `json:"averageInvoiceValuePct"`
}

// ComparisonResult pairs two period summaries with their deltas.
type ComparisonResult struct {
	PeriodA     PeriodSummary  `json:"periodA"`
	PeriodB     PeriodSummary  `json:"periodB"`
	Differences ComparisonDiff `json:"differences"`
}

// ============================================================
// Rolling totals
// ============================================================

// Buckets holds one value per rolling reporting window.
type Buckets struct {
	Today   float64 `json:"today"`
	Week    float64 `json:"week"`
	Month   float64 `json:"month"`
	Year    float64 `json:"year"`
	AllTime float64 `json:"allTime"`
}

// RollingTotals is the multi-bucket report: digital sales revenue,
// expenses, and profit (revenue minus expense, pointwise per bucket).
type RollingTotals struct {
	SalesDigital Buckets `json:"salesDigital"`
	Expense      Buckets `json:"expense"`
	Profit       Buckets `json:"profit"`
}

// ============================================================
// Operational types
// ============================================================

// ReportMetrics is a snapshot of report-engine counters for the
// GET /v1/metrics/reports endpoint.
type ReportMetrics struct {
	TotalRequests   int64   `json:"totalRequests"`
	ErrorRate       float64 `json:"errorRate"`
	DegradedBuckets int64   `json:"degradedBuckets"`
	SkippedRecords  int64   `json:"skippedRecords"`
	CacheHitRate    float64 `json:"cacheHitRate"`
	Period          string  `json:"period"`
}

// ServiceHealth reports the status of one dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

// HealthStatus is the aggregate health response.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}
