package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

var testDashboardConfig = config.DashboardConfig{DefaultTopN: 5, Currency: "R$"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Test helper to create a dashboard with a computed report
func newTestDashboard(t *testing.T) *services.Dashboard {
	t.Helper()
	d := services.NewDashboard(nil, testDashboardConfig.DefaultTopN, testLogger())
	raw := []models.RawSale{
		{Price: decimal.NewFromInt(100), PurchaseDate: "15/01/2023", Location: "SP", Lat: -23.5, Lon: -46.6, Category: "eletronicos", Seller: "Ana"},
		{Price: decimal.RequireFromString("59.98"), PurchaseDate: "10/02/2023", Location: "RJ", Lat: -22.9, Lon: -43.2, Category: "livros", Seller: "Bruno"},
		{Price: decimal.RequireFromString("79.99"), PurchaseDate: "05/03/2023", Location: "MG", Lat: -18.1, Lon: -44.3, Category: "eletronicos", Seller: "Carla"},
	}
	if err := d.SetRecords(context.Background(), raw); err != nil {
		t.Fatalf("SetRecords() error = %v", err)
	}
	return d
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	templateHandlers := &server.TemplateHandlers{Dashboard: newDashboardHandler(testDashboardConfig)}
	return server.NewServer(newTestDashboard(t), testDashboardConfig, testLogger(), templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/summary", http.StatusOK, "application/json"},
		{"/api/revenue/states", http.StatusOK, "application/json"},
		{"/api/revenue/months", http.StatusOK, "application/json"},
		{"/api/revenue/categories", http.StatusOK, "application/json"},
		{"/api/sales/states", http.StatusOK, "application/json"},
		{"/api/sales/months", http.StatusOK, "application/json"},
		{"/api/sales/month-names", http.StatusOK, "application/json"},
		{"/api/sales/categories", http.StatusOK, "application/json"},
		{"/api/sellers", http.StatusOK, "application/json"},
		{"/api/sellers/top?n=2", http.StatusOK, "application/json"},
		{"/api/sellers/top?n=20", http.StatusBadRequest, "application/json"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/unknown", http.StatusNotFound, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			// Validate JSON responses
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

// Test JSON API responses
func TestServer_JSONResponse(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/revenue/categories", nil)
	srv.ServeHTTP(w, r)

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].([]any)
	if !ok {
		t.Fatalf("expected data array in response")
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(data))
	}

	item, ok := data[0].(map[string]any)
	if !ok {
		t.Fatal("invalid category structure")
	}
	if item["category"] != "eletronicos" {
		t.Errorf("first category = %v, want eletronicos", item["category"])
	}
	if revenue, ok := item["revenue"].(float64); !ok || revenue != 179.99 {
		t.Errorf("revenue = %v, want 179.99 as a JSON number", item["revenue"])
	}
}

// Test Server-Sent Events routes
func TestServer_SSERoutes(t *testing.T) {
	srv := newTestServer(t)

	sseRoutes := []string{
		"/sse/revenue",
		"/sse/sales",
		"/sse/sellers",
		"/sse/refresh-all",
	}

	for _, route := range sseRoutes {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", route, nil)

			srv.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
				t.Errorf("cache-control = %q, want 'no-cache'", cc)
			}
		})
	}
}

// Test error handling for invalid methods
func TestServer_ErrorHandling(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/api/revenue/states", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"PATCH", "/api/sellers/top", http.StatusMethodNotAllowed},
		{"GET", "/admin/refresh", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

// Test dashboard template rendering
func TestDashboardTemplate(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	newDashboardHandler(testDashboardConfig)(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
		t.Errorf("cache-control = %q, want %q", cc, cacheMaxAge)
	}

	body := w.Body.String()
	if !strings.Contains(body, pageTitle) {
		t.Error("dashboard should contain title")
	}

	expectedComponents := []string{
		"Receita",
		"Quantidade de vendas",
		"Vendedores",
		"/sse/refresh-all",
		"/sse/sellers",
		"topN: 5",
	}

	for _, component := range expectedComponents {
		if !strings.Contains(body, component) {
			t.Errorf("dashboard should contain '%s'", component)
		}
	}
}
