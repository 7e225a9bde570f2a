package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/brightdesk/finance-api/internal/infra/observability"
	"github.com/brightdesk/finance-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Reports — GET /v1/reports/*
// ============================================================

func summaryHandler(svc *service.ReportService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/summary")
		defer span.End()

		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID))

		kind, err := parsePeriodKind(r)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		ref, err := parseDate(r, "date")
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		start := time.Now()
		summary, err := svc.BuildSummary(ctx, userID, kind, ref)
		metrics.RecordRequestDuration("summary", time.Since(start))
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, summary)
	}
}

func comparisonHandler(svc *service.ReportService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/comparison")
		defer span.End()

		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID))

		kind, err := parsePeriodKind(r)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		dateA, err := requireDate(r, "dateA")
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		dateB, err := requireDate(r, "dateB")
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		start := time.Now()
		result, err := svc.Compare(ctx, userID, kind, dateA, dateB)
		metrics.RecordRequestDuration("comparison", time.Since(start))
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, result)
	}
}

func totalsHandler(svc *service.ReportService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/totals")
		defer span.End()

		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID))

		totals, err := svc.RollingTotals(ctx, userID)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, totals)
	}
}

func topClientsHandler(svc *service.ReportService, metrics *observability.Metrics, defaultLimit int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/top-clients")
		defer span.End()

		userID := UserIDFromContext(ctx)

		kind, err := parsePeriodKind(r)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		ref, err := parseDate(r, "date")
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		limit := parseLimit(r, defaultLimit)

		entries, err := svc.TopClients(ctx, userID, kind, ref, limit)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, map[string]any{"clients": entries})
	}
}

func topProjectsHandler(svc *service.ReportService, metrics *observability.Metrics, defaultLimit int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/top-projects")
		defer span.End()

		userID := UserIDFromContext(ctx)

		kind, err := parsePeriodKind(r)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		ref, err := parseDate(r, "date")
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		limit := parseLimit(r, defaultLimit)

		entries, err := svc.TopProjects(ctx, userID, kind, ref, limit)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, map[string]any{"projects": entries})
	}
}

// ============================================================
// Sales — DELETE /v1/sales/by-invoice/{invoiceId}
// ============================================================

func deleteSalesByInvoiceHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/sales/by-invoice/{invoiceId}")
		defer span.End()

		userID := UserIDFromContext(ctx)
		invoiceID := chi.URLParam(r, "invoiceId")
		span.SetAttributes(attribute.String("invoice.id", invoiceID))

		if err := svc.DeleteSalesByInvoice(ctx, userID, invoiceID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Dev Tools — POST /v1/dev/generate-sales
// ============================================================

func devGenerateSalesHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dev/generate-sales")
		defer span.End()

		userID := UserIDFromContext(ctx)

		var req struct {
			Count int `json:"count"`
		}
		if r.Body != nil {
			// An empty body means "use the default count".
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		inserted, err := svc.DevGenerateSales(ctx, userID, req.Count)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"inserted": inserted,
			"message":  "synthetic sales generated",
		})
	}
}
