package service

import (
	"context"
	"errors"
	"time"

	"github.com/brightdesk/finance-api/internal/aggregate"
	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/infra/observability"
	"github.com/brightdesk/finance-api/internal/period"
	"github.com/brightdesk/finance-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/report")

// ReportService computes period summaries, comparisons, leaderboards
// and rolling totals over records provided by the record fetcher.
// It holds no per-request state: every call fetches and folds its own
// record set, so a summary built standalone is identical to one built
// as a comparison side.
type ReportService struct {
	fetcher      port.RecordFetcher
	writer       port.SaleWriter
	metrics      *observability.Metrics
	logger       *zap.Logger
	fetchTimeout time.Duration
}

// NewReportService creates the report service with all dependencies injected.
func NewReportService(
	fetcher port.RecordFetcher,
	writer port.SaleWriter,
	metrics *observability.Metrics,
	logger *zap.Logger,
	fetchTimeout time.Duration,
) *ReportService {
	return &ReportService{
		fetcher:      fetcher,
		writer:       writer,
		metrics:      metrics,
		logger:       logger,
		fetchTimeout: fetchTimeout,
	}
}

// BuildSummary resolves the period window, fetches the user's sale
// records and folds them into a single period summary.
func (s *ReportService) BuildSummary(ctx context.Context, userID string, kind period.Kind, reference time.Time) (*domain.PeriodSummary, error) {
	ctx, span := tracer.Start(ctx, "ReportService.BuildSummary")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("period.kind", string(kind)))

	window, err := period.Resolve(kind, reference)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchOwnedSales(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	summary := &domain.PeriodSummary{
		Period:        string(kind),
		Window:        window,
		RevenueTotals: aggregate.Revenue(records),
		BestClient:    aggregate.BestClient(records),
		BestProject:   aggregate.BestProject(records),
	}
	return summary, nil
}

// Compare builds the summaries for two reference dates of the same
// period kind and computes their deltas. Both dates are validated
// before any fetch; a fetch failure on either side fails the whole
// comparison, because a half-computed comparison is misleading.
func (s *ReportService) Compare(ctx context.Context, userID string, kind period.Kind, dateA, dateB time.Time) (*domain.ComparisonResult, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Compare")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	// Fail fast before any aggregation work.
	if _, err := period.Resolve(kind, dateA); err != nil {
		return nil, err
	}
	if _, err := period.Resolve(kind, dateB); err != nil {
		return nil, err
	}

	var summaryA, summaryB *domain.PeriodSummary

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.BuildSummary(gCtx, userID, kind, dateA)
		summaryA = sum
		return err
	})
	g.Go(func() error {
		sum, err := s.BuildSummary(gCtx, userID, kind, dateB)
		summaryB = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ComparisonResult{
		PeriodA:     *summaryA,
		PeriodB:     *summaryB,
		Differences: diff(summaryA, summaryB),
	}, nil
}

// TopClients returns the client leaderboard for one period.
func (s *ReportService) TopClients(ctx context.Context, userID string, kind period.Kind, reference time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.TopClients")
	defer span.End()

	records, err := s.fetchForLeaderboard(ctx, userID, kind, reference)
	if err != nil {
		return nil, err
	}
	return aggregate.TopClients(records, limit), nil
}

// TopProjects returns the project leaderboard for one period.
func (s *ReportService) TopProjects(ctx context.Context, userID string, kind period.Kind, reference time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.TopProjects")
	defer span.End()

	records, err := s.fetchForLeaderboard(ctx, userID, kind, reference)
	if err != nil {
		return nil, err
	}
	return aggregate.TopProjects(records, limit), nil
}

// DeleteSalesByInvoice removes all of a user's sale records that were
// recognized against the given invoice.
func (s *ReportService) DeleteSalesByInvoice(ctx context.Context, userID, invoiceID string) error {
	ctx, span := tracer.Start(ctx, "ReportService.DeleteSalesByInvoice")
	defer span.End()

	if invoiceID == "" {
		return &domain.ErrValidation{Field: "invoice_id", Message: "required"}
	}
	return s.writer.DeleteSalesByInvoice(ctx, userID, invoiceID)
}

func (s *ReportService) fetchForLeaderboard(ctx context.Context, userID string, kind period.Kind, reference time.Time) ([]domain.SaleRecord, error) {
	window, err := period.Resolve(kind, reference)
	if err != nil {
		return nil, err
	}
	return s.fetchOwnedSales(ctx, userID, window)
}

// fetchOwnedSales fetches the window's sale records with the per-call
// timeout applied and drops anything the ownership check rejects.
func (s *ReportService) fetchOwnedSales(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.SaleRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	records, err := s.fetcher.FetchSales(fetchCtx, userID, window)
	if err != nil {
		s.metrics.IncrFetchError("sales")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: "fetch sales"}
		}
		return nil, &domain.ErrUpstreamFetch{Op: "sales", Err: err}
	}

	owned, skipped := aggregate.FilterOwned(records, userID)
	if skipped > 0 {
		s.logger.Warn("dropped records failing ownership check",
			zap.String("user_id", userID),
			zap.Int("skipped", skipped),
		)
		s.metrics.AddSkippedRecords(skipped)
	}
	return owned, nil
}

func (s *ReportService) fetchOwnedExpenses(ctx context.Context, userID string, window domain.PeriodWindow) ([]domain.ExpenseRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	records, err := s.fetcher.FetchExpenses(fetchCtx, userID, window)
	if err != nil {
		s.metrics.IncrFetchError("expenses")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: "fetch expenses"}
		}
		return nil, &domain.ErrUpstreamFetch{Op: "expenses", Err: err}
	}

	owned, skipped := aggregate.FilterOwnedExpenses(records, userID)
	if skipped > 0 {
		s.logger.Warn("dropped expenses failing ownership check",
			zap.String("user_id", userID),
			zap.Int("skipped", skipped),
		)
		s.metrics.AddSkippedRecords(skipped)
	}
	return owned, nil
}

// diff computes B minus A. Percentage deltas are nil when the base is
// zero so "undefined" stays distinguishable from an actual 0% change.
func diff(a, b *domain.PeriodSummary) domain.ComparisonDiff {
	return domain.ComparisonDiff{
		Revenue:                b.TotalRevenue - a.TotalRevenue,
		RevenuePct:             pctDiff(a.TotalRevenue, b.TotalRevenue-a.TotalRevenue),
		InvoiceCount:           b.InvoiceCount - a.InvoiceCount,
		InvoiceCountPct:        pctDiff(float64(a.InvoiceCount), float64(b.InvoiceCount-a.InvoiceCount)),
		AverageInvoiceValue:    b.AverageInvoiceValue - a.AverageInvoiceValue,
		AverageInvoiceValuePct: pctDiff(a.AverageInvoiceValue, b.AverageInvoiceValue-a.AverageInvoiceValue),
	}
}

func pctDiff(base, delta float64) *float64 {
	if base == 0 {
		return nil
	}
	pct := delta / base * 100
	return &pct
}
