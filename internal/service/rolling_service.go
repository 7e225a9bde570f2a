package service

import (
	"context"
	"time"

	"github.com/brightdesk/finance-api/internal/aggregate"
	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/period"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// bucketSpec names one rolling window and knows where its values live
// inside a Buckets struct.
type bucketSpec struct {
	name string
	set  func(*domain.Buckets, float64)
}

var bucketSpecs = []bucketSpec{
	{"today", func(b *domain.Buckets, v float64) { b.Today = v }},
	{"week", func(b *domain.Buckets, v float64) { b.Week = v }},
	{"month", func(b *domain.Buckets, v float64) { b.Month = v }},
	{"year", func(b *domain.Buckets, v float64) { b.Year = v }},
	{"allTime", func(b *domain.Buckets, v float64) { b.AllTime = v }},
}

// RollingTotals computes the today/week/month/year/all-time revenue
// and expense totals, plus pointwise profit. Buckets are independent
// and fetched concurrently; a failed bucket degrades to zero instead
// of failing the whole report, so a single persistence hiccup does not
// take down the dashboard.
func (s *ReportService) RollingTotals(ctx context.Context, userID string) (*domain.RollingTotals, error) {
	ctx, span := tracer.Start(ctx, "ReportService.RollingTotals")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("rolling_totals", time.Since(start))
	}()

	now := time.Now().UTC()
	windows, err := rollingWindows(now)
	if err != nil {
		return nil, err
	}

	totals := &domain.RollingTotals{}

	// One goroutine per bucket and side; each writes only its own
	// slot, so no locking is needed.
	revenue := make([]float64, len(bucketSpecs))
	expense := make([]float64, len(bucketSpecs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, spec := range bucketSpecs {
		i, spec := i, spec
		window := windows[i]

		g.Go(func() error {
			records, err := s.fetchOwnedSales(gCtx, userID, window)
			if err != nil {
				s.degradeBucket(userID, spec.name, "sales", err)
				return nil
			}
			revenue[i] = aggregate.Revenue(records).TotalRevenue
			return nil
		})
		g.Go(func() error {
			records, err := s.fetchOwnedExpenses(gCtx, userID, window)
			if err != nil {
				s.degradeBucket(userID, spec.name, "expenses", err)
				return nil
			}
			expense[i] = aggregate.ExpenseTotal(records)
			return nil
		})
	}
	// Bucket goroutines swallow their own errors, so Wait only fails
	// on context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, spec := range bucketSpecs {
		spec.set(&totals.SalesDigital, revenue[i])
		spec.set(&totals.Expense, expense[i])
		spec.set(&totals.Profit, revenue[i]-expense[i])
	}
	return totals, nil
}

func (s *ReportService) degradeBucket(userID, bucket, side string, err error) {
	s.logger.Warn("rolling bucket degraded to zero",
		zap.String("user_id", userID),
		zap.String("bucket", bucket),
		zap.String("side", side),
		zap.Error(err),
	)
	s.metrics.IncrDegradedBucket(bucket)
}

// rollingWindows resolves the five bucket windows against now, in the
// same order as bucketSpecs.
func rollingWindows(now time.Time) ([]domain.PeriodWindow, error) {
	kinds := []period.Kind{period.Day, period.Week, period.Month, period.Year}
	windows := make([]domain.PeriodWindow, 0, len(bucketSpecs))
	for _, kind := range kinds {
		w, err := period.Resolve(kind, now)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	windows = append(windows, period.AllTime(now))
	return windows, nil
}
