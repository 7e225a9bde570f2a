package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/period"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePeriodKind reads the ?period= query parameter, defaulting to
// month when absent.
func parsePeriodKind(r *http.Request) (period.Kind, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		raw = "month"
	}
	return period.ParseKind(raw)
}

// parseDate reads an RFC 3339 date query parameter. A missing value
// defaults to the current instant; an unparseable one is an
// ErrInvalidDate, never silently "now".
func parseDate(r *http.Request, param string) (time.Time, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Accept plain dates too.
		t, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return time.Time{}, &domain.ErrInvalidDate{Value: raw}
	}
	return t, nil
}

// requireDate is like parseDate but the parameter must be present.
func requireDate(r *http.Request, param string) (time.Time, error) {
	if r.URL.Query().Get(param) == "" {
		return time.Time{}, &domain.ErrValidation{Field: param, Message: "required"}
	}
	return parseDate(r, param)
}

func parseLimit(r *http.Request, fallback int) int {
	limit := fallback
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var invalidPeriod *domain.ErrInvalidPeriod
	var invalidDate *domain.ErrInvalidDate
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var upstream *domain.ErrUpstreamFetch

	switch {
	case errors.As(err, &invalidPeriod):
		logger.Debug("invalid period", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invalidDate):
		logger.Debug("invalid date", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &upstream):
		logger.Error("upstream fetch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
