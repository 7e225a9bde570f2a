package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/handler"
	"github.com/brightdesk/finance-api/internal/infra/observability"
	"github.com/brightdesk/finance-api/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var testSecret = []byte("router-test-secret")

type stubFetcher struct {
	sales []domain.SaleRecord
}

func (s *stubFetcher) FetchSales(_ context.Context, _ string, _ domain.PeriodWindow) ([]domain.SaleRecord, error) {
	return s.sales, nil
}

func (s *stubFetcher) FetchExpenses(_ context.Context, _ string, _ domain.PeriodWindow) ([]domain.ExpenseRecord, error) {
	return nil, nil
}

type stubWriter struct {
	deleted []string
}

func (s *stubWriter) InsertSale(_ context.Context, _ map[string]any) error { return nil }

func (s *stubWriter) DeleteSalesByInvoice(_ context.Context, _, invoiceID string) error {
	s.deleted = append(s.deleted, invoiceID)
	return nil
}

func newTestRouter(fetcher *stubFetcher, writer *stubWriter) http.Handler {
	if fetcher == nil {
		fetcher = &stubFetcher{}
	}
	if writer == nil {
		writer = &stubWriter{}
	}
	metrics := observability.NewMetrics()
	svc := service.NewReportService(fetcher, writer, metrics, zap.NewNop(), time.Second)
	return handler.NewRouter(svc, nil, metrics, testSecret, 5, zap.NewNop())
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1"))
	return req
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReportMetricsSnapshot(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics/reports", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var snapshot domain.ReportMetrics
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
}

func TestSummary_RequiresAuth(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestSummary_RejectsBadToken(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed token, got %d", rec.Code)
	}
}

func TestSummary_RoundTrip(t *testing.T) {
	fetcher := &stubFetcher{
		sales: []domain.SaleRecord{
			{
				ID: "s1", OwnerID: "u1",
				Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				Invoice: domain.Invoice{
					ID: "inv1", CreatorID: "u1",
					Client: domain.ClientRef{ID: "c1", Name: "Acme Corp"},
					Items:  []domain.LineItem{{Amount: 70}, {Amount: 50}},
				},
			},
		},
	}
	router := newTestRouter(fetcher, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/summary?period=month&date=2024-03-15")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary domain.PeriodSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.TotalRevenue != 120 {
		t.Errorf("expected total revenue 120, got %v", summary.TotalRevenue)
	}
	if summary.BestClient == nil || summary.BestClient.Name != "Acme Corp" {
		t.Errorf("expected best client Acme Corp, got %+v", summary.BestClient)
	}
}

func TestSummary_InvalidPeriodIs400(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/summary?period=quarter")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown period kind, got %d", rec.Code)
	}
}

func TestSummary_InvalidDateIs400(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/summary?period=month&date=not-a-date")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestComparison_RequiresBothDates(t *testing.T) {
	router := newTestRouter(nil, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/comparison?period=month&dateA=2024-03-15")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when dateB is missing, got %d", rec.Code)
	}
}

func TestTotals_RoundTrip(t *testing.T) {
	fetcher := &stubFetcher{
		sales: []domain.SaleRecord{
			{
				ID: "s1", OwnerID: "u1",
				Date: time.Now().UTC(),
				Invoice: domain.Invoice{
					ID: "inv1", CreatorID: "u1",
					Items: []domain.LineItem{{Amount: 250}},
				},
			},
		},
	}
	router := newTestRouter(fetcher, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/totals")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var totals domain.RollingTotals
	if err := json.NewDecoder(rec.Body).Decode(&totals); err != nil {
		t.Fatalf("failed to decode totals: %v", err)
	}
	if totals.SalesDigital.AllTime != 250 {
		t.Errorf("expected all-time revenue 250, got %v", totals.SalesDigital.AllTime)
	}
	if totals.Profit.AllTime != 250 {
		t.Errorf("expected all-time profit 250, got %v", totals.Profit.AllTime)
	}
}

func TestTopClients_RoundTrip(t *testing.T) {
	fetcher := &stubFetcher{
		sales: []domain.SaleRecord{
			{
				ID: "s1", OwnerID: "u1",
				Date: time.Now().UTC(),
				Invoice: domain.Invoice{
					ID: "inv1", CreatorID: "u1",
					Client: domain.ClientRef{ID: "c1", Name: "Acme Corp"},
					Items:  []domain.LineItem{{Amount: 90}},
				},
			},
		},
	}
	router := newTestRouter(fetcher, nil)

	req := authedRequest(t, http.MethodGet, "/v1/reports/top-clients?period=year&limit=3")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Clients []domain.LeaderboardEntry `json:"clients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode leaderboard: %v", err)
	}
	if len(body.Clients) != 1 || body.Clients[0].Name != "Acme Corp" {
		t.Errorf("expected single Acme Corp entry, got %+v", body.Clients)
	}
}

func TestDeleteSalesByInvoice_RoundTrip(t *testing.T) {
	writer := &stubWriter{}
	router := newTestRouter(nil, writer)

	req := authedRequest(t, http.MethodDelete, "/v1/sales/by-invoice/inv-42")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(writer.deleted) != 1 || writer.deleted[0] != "inv-42" {
		t.Errorf("expected delete of inv-42, got %v", writer.deleted)
	}
}
