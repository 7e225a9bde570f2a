package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/infra/observability"
	"github.com/brightdesk/finance-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger checks reachability of the persistence backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
// All report routes require a Bearer token; the user ID comes from the
// token subject, never from the URL.
func NewRouter(svc *service.ReportService, pinger Pinger, metrics *observability.Metrics, jwtSecret []byte, defaultLimit int, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(pinger))
	r.Get("/readyz", readyzHandler(pinger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/reports", reportMetricsHandler(metrics))

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(jwtSecret, logger))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", summaryHandler(svc, metrics, logger))
				r.Get("/comparison", comparisonHandler(svc, metrics, logger))
				r.Get("/totals", totalsHandler(svc, metrics, logger))
				r.Get("/top-clients", topClientsHandler(svc, metrics, defaultLimit, logger))
				r.Get("/top-projects", topProjectsHandler(svc, metrics, defaultLimit, logger))
			})

			r.Delete("/sales/by-invoice/{invoiceId}", deleteSalesByInvoiceHandler(svc, logger))

			r.Post("/dev/generate-sales", devGenerateSalesHandler(svc, logger))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "finance-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if pinger != nil {
			start := time.Now()
			err := pinger.Ping(r.Context())
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "persistence backend unreachable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func reportMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetReportSnapshot())
	}
}
