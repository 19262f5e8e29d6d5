package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/service"
)

type mockScreener struct {
	screenResp *dto.ScreenResponse
	screenErr  error
	quoteResp  *dto.QuoteResponse
	quoteErr   error
}

func (m *mockScreener) Screen(context.Context, dto.ScreenRequest) (*dto.ScreenResponse, error) {
	return m.screenResp, m.screenErr
}

func (m *mockScreener) Quote(context.Context, string) (*dto.QuoteResponse, error) {
	return m.quoteResp, m.quoteErr
}

type mockUpdater struct {
	resp *dto.UpdateResponse
	err  error
}

func (m *mockUpdater) Update(context.Context, dto.UpdateRequest) (*dto.UpdateResponse, error) {
	return m.resp, m.err
}

type mockMonitor struct {
	resp *dto.MonitorResponse
	err  error
}

func (m *mockMonitor) Snapshot(context.Context) (*dto.MonitorResponse, error) {
	return m.resp, m.err
}

var (
	_ service.ScreenerService = (*mockScreener)(nil)
	_ service.UpdateService   = (*mockUpdater)(nil)
	_ service.MonitorService  = (*mockMonitor)(nil)
)

func setupRouterWithMocks(s service.ScreenerService, u service.UpdateService, m service.MonitorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, u, m)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/screener", h.Screen)
	v1.POST("/update", h.Update)
	v1.GET("/quote", h.Quote)
	v1.GET("/monitor", h.Monitor)
	return r
}

func TestScreen_TableDriven(t *testing.T) {
	okResp := &dto.ScreenResponse{
		Stocks: []models.Quote{{Symbol: "AAPL", Price: models.F(190.0), Volume: models.I(100)}},
		Count:  1, TotalMatched: 1, TotalChecked: 5, Source: "hybrid",
	}

	cases := []struct {
		name   string
		svc    *mockScreener
		body   string
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "malformed body",
			svc:    &mockScreener{},
			body:   `{"symbols": not json`,
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid comparison",
			svc:    &mockScreener{screenErr: fmt.Errorf("%w: unknown comparison field", service.ErrInvalidRequest)},
			body:   `{"symbols":["AAPL"]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "backend failure",
			svc:    &mockScreener{screenErr: errors.New("db down")},
			body:   `{"symbols":["AAPL"]}`,
			status: http.StatusInternalServerError,
		},
		{
			name:   "success",
			svc:    &mockScreener{screenResp: okResp},
			body:   `{"symbols":["AAPL"],"filters":{"price_min":1}}`,
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ScreenResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Count != 1 || out.Source != "hybrid" || out.Stocks[0].Symbol != "AAPL" {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMocks(tc.svc, &mockUpdater{}, &mockMonitor{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/screener", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body %s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestUpdate_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockUpdater
		body   string
		status int
	}{
		{
			name:   "malformed body",
			svc:    &mockUpdater{},
			body:   `{"mode":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown mode",
			svc:    &mockUpdater{err: fmt.Errorf("%w: unknown update mode", service.ErrInvalidRequest)},
			body:   `{"mode":"sideways"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "backend failure",
			svc:    &mockUpdater{err: errors.New("db down")},
			body:   `{"mode":"delta"}`,
			status: http.StatusInternalServerError,
		},
		{
			name:   "success",
			svc:    &mockUpdater{resp: &dto.UpdateResponse{Mode: "delta", Requested: 500, Updated: 480, Failed: 20}},
			body:   `{"mode":"delta"}`,
			status: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMocks(&mockScreener{}, tc.svc, &mockMonitor{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/update", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body %s)", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestQuote_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockScreener
		query  string
		status int
	}{
		{
			name:   "missing symbol",
			svc:    &mockScreener{},
			query:  "/api/v1/quote",
			status: http.StatusBadRequest,
		},
		{
			name:   "not found",
			svc:    &mockScreener{quoteResp: nil},
			query:  "/api/v1/quote?symbol=GONE",
			status: http.StatusNotFound,
		},
		{
			name:   "backend failure",
			svc:    &mockScreener{quoteErr: errors.New("db down")},
			query:  "/api/v1/quote?symbol=AAPL",
			status: http.StatusInternalServerError,
		},
		{
			name: "success",
			svc: &mockScreener{quoteResp: &dto.QuoteResponse{
				Quote:  models.Quote{Symbol: "AAPL", Price: models.F(190.0)},
				Source: "cache",
			}},
			query:  "/api/v1/quote?symbol=aapl",
			status: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMocks(tc.svc, &mockUpdater{}, &mockMonitor{})
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestMonitor(t *testing.T) {
	resp := &dto.MonitorResponse{
		Freshness: models.FreshnessBuckets{VeryFresh5Min: 10},
		Coverage:  models.Coverage{TotalTickers: 100, StocksTracked: 40, CoveragePercent: 40},
	}
	r := setupRouterWithMocks(&mockScreener{}, &mockUpdater{}, &mockMonitor{resp: resp})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/monitor", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	var out dto.MonitorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Freshness.VeryFresh5Min != 10 || out.Coverage.CoveragePercent != 40 {
		t.Fatalf("unexpected body: %+v", out)
	}

	failing := setupRouterWithMocks(&mockScreener{}, &mockUpdater{}, &mockMonitor{err: errors.New("db down")})
	w = httptest.NewRecorder()
	failing.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/monitor", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d, want 500", w.Code)
	}
}
