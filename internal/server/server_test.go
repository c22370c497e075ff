package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/bank-calculators/internal/calculator"
	"github.com/iwvelando/bank-calculators/internal/config"
	"github.com/iwvelando/bank-calculators/pkg/output"
	"github.com/iwvelando/bank-calculators/pkg/validation"
	"go.uber.org/zap"
)

func newTestHandler(maxRequestSize int64) http.Handler {
	svc := calculator.NewService(zap.NewNop(), validation.DefaultLimits(), nil)
	return NewHandler(zap.NewNop(), svc, maxRequestSize, "1.2.3")
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response %q: %v", rr.Body.String(), err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in response, got %q", rr.Body.String())
	}
	return resp["error"]
}

const emiBody = `{
  "principal": 120000,
  "annualRatePercent": 12,
  "instalmentCount": 12,
  "instalmentFrequency": "monthly",
  "compounding": "monthly",
  "sanctionDate": "15/12/2024",
  "startDate": "01/01/2025"
}`

func TestHandleEMISuccess(t *testing.T) {
	rr := post(t, newTestHandler(0), "/api/emi", emiBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %s", ct)
	}

	var resp output.ScheduleDocument
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Instalment != 10661.85 {
		t.Errorf("instalment = %.2f, expected 10661.85", resp.Instalment)
	}
	if len(resp.Rows) != 12 {
		t.Fatalf("rows = %d, expected 12", len(resp.Rows))
	}
	if resp.Rows[0].DueDate != "01/01/2025" {
		t.Errorf("first due date = %s, expected 01/01/2025", resp.Rows[0].DueDate)
	}
}

func TestHandleDepositSuccess(t *testing.T) {
	rr := post(t, newTestHandler(0), "/api/deposit", `{
		"principal": 100000, "termMonths": 12, "annualRatePercent": 12,
		"compounding": "monthly", "payout": "maturity", "startDate": "01/01/2025"
	}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp output.DepositDocument
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MaturityValue != 112682.50 {
		t.Errorf("maturity value = %.2f, expected 112682.50", resp.MaturityValue)
	}
	if resp.MaturityDate != "01/01/2026" {
		t.Errorf("maturity date = %s, expected 01/01/2026", resp.MaturityDate)
	}
}

func TestHandleDCBSuccess(t *testing.T) {
	body := strings.TrimSuffix(strings.TrimSpace(emiBody), "}") +
		`, "asOfDate": "15/06/2025", "mode": "instalments", "instalmentsPaid": 4}`
	rr := post(t, newTestHandler(0), "/api/dcb", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp calculator.DCBResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DCB.InstalmentsOverdue != 2 || resp.DCB.OverdueSince != "01/05/2025" {
		t.Errorf("dcb = %+v", resp.DCB)
	}
	if resp.DCB.OverdueDays == nil || *resp.DCB.OverdueDays != 45 {
		t.Errorf("overdue days = %v, expected 45", resp.DCB.OverdueDays)
	}
	if len(resp.Schedule.Rows) != 12 {
		t.Errorf("schedule rows = %d, expected 12", len(resp.Schedule.Rows))
	}
}

func TestHandleRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"Validation failure", "/api/emi", `{"principal": 0}`, http.StatusBadRequest, "principal"},
		{"Malformed JSON", "/api/emi", `{"principal":`, http.StatusBadRequest, "failed to decode request"},
		{"Empty body", "/api/deposit", ``, http.StatusBadRequest, "request body is required"},
		{"Unknown field", "/api/deposit", `{"principle": 100}`, http.StatusBadRequest, "principle"},
		{"Wrong type", "/api/emi", `{"instalmentCount": 12.5}`, http.StatusBadRequest, "failed to decode request"},
		{"Trailing data", "/api/emi", `{} {}`, http.StatusBadRequest, "single JSON object"},
		{"Unknown DCB mode", "/api/dcb", `{"mode": "arrears"}`, http.StatusBadRequest, "mode"},
	}

	h := newTestHandler(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			if msg := decodeError(t, rr); !strings.Contains(msg, tt.message) {
				t.Errorf("error %q does not mention %q", msg, tt.message)
			}
		})
	}
}

func TestHandleRequestTooLarge(t *testing.T) {
	h := newTestHandler(64)
	rr := post(t, h, "/api/emi", emiBody)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
	decodeError(t, rr)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(0)
	for _, path := range []string{"/api/emi", "/api/deposit", "/api/dcb"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: expected status 405, got %d", path, rr.Code)
			continue
		}
		decodeError(t, rr)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/version", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/version: expected status 405, got %d", rr.Code)
	}
}

func TestNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler(0).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	decodeError(t, rr)
}

func TestHandleVersionAndHealth(t *testing.T) {
	h := newTestHandler(0)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	var version map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &version); err != nil {
		t.Fatalf("failed to decode version: %v", err)
	}
	if version["version"] != "1.2.3" {
		t.Errorf("version = %s, expected 1.2.3", version["version"])
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("health = %d %s", rr.Code, rr.Body.String())
	}
}

func TestDefaultVersion(t *testing.T) {
	h := NewHandler(nil, calculator.NewService(nil, validation.Limits{}, nil), 0, "  ")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Errorf("expected dev version, got %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(0)
	post(t, h, "/api/emi", emiBody)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	for _, want := range []string{"bankcalc_http_requests_total", `route="/api/emi"`, "bankcalc_calculations_total"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

type failingCalculator struct{}

func (failingCalculator) CalculateEMI(context.Context, calculator.LoanRequest) (output.ScheduleDocument, error) {
	return output.ScheduleDocument{}, errors.New("engine unavailable")
}

func (failingCalculator) CalculateDeposit(context.Context, calculator.DepositRequest) (output.DepositDocument, error) {
	return output.DepositDocument{}, fmt.Errorf("term: %w", validation.ErrInvalidInput)
}

func (failingCalculator) CalculateDCB(context.Context, calculator.DCBRequest) (calculator.DCBResponse, error) {
	return calculator.DCBResponse{}, errors.New("engine unavailable")
}

func TestCalculatorErrorMapping(t *testing.T) {
	h := NewHandler(zap.NewNop(), failingCalculator{}, 0, "test")

	if rr := post(t, h, "/api/emi", `{}`); rr.Code != http.StatusInternalServerError {
		t.Errorf("unexpected status for internal failure: %d", rr.Code)
	}
	if rr := post(t, h, "/api/deposit", `{}`); rr.Code != http.StatusBadRequest {
		t.Errorf("unexpected status for invalid input: %d", rr.Code)
	}
}

func TestRunGracefulShutdown(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{Address: "127.0.0.1:0", ShutdownTimeoutSeconds: 1})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, newTestHandler(0), zap.NewNop(), ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunListenError(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{Address: "256.0.0.1:bad"})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if err := Run(context.Background(), cfg, newTestHandler(0), nil, nil); err == nil {
		t.Error("expected listen error")
	}
}
