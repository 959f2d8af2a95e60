package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/config"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		catalog.BusinessesFile:    `[{"id": 1, "name": "Arepas La 70", "delivery_time": 25, "latitude": 6.2442, "longitude": -75.5812}]`,
		catalog.ProductsFile:      `[{"id": 10, "business_id": 1, "name": "Arepa", "price": 5000}]`,
		catalog.JumboProductsFile: `[]`,
		catalog.CouriersFile:      `[{"id": 1, "name": "Juan", "lat": 6.245, "lng": -75.58, "available": true}]`,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestApp_ServesMockBackend(t *testing.T) {
	dir := writeCatalog(t)
	cfg := &config.Config{
		RunAddress:     "localhost:0",
		StorePath:      filepath.Join(t.TempDir(), "store.db"),
		CatalogSource:  dir,
		CatalogTimeout: time.Second,
		KafkaTopic:     "parcerogo.orders",
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
	})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
		wantBody string
	}{
		{"businesses", http.MethodGet, "/api/delivery/businesses", "", http.StatusOK, `"Arepas La 70"`},
		{"create order", http.MethodPost, "/api/delivery/orders", `{"business_id":1,"products":[{"product_id":10}],"customer_lat":6.25,"customer_lng":-75.57}`, http.StatusOK, `"Pedido creado exitosamente"`},
		{"stored order", http.MethodGet, "/api/delivery/orders/1", "", http.StatusOK, `"status":"pendiente"`},
		{"unknown route", http.MethodGet, "/api/delivery/cart", "", http.StatusNotFound, `"detail"`},
		{"reference data", http.MethodGet, "/data/" + catalog.CouriersFile, "", http.StatusOK, `"Juan"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, `route="list_businesses"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			app.echo.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %s", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Error("X-Request-Id header is missing")
			}
		})
	}
}

func newRunnableApp(t *testing.T, addr string) *App {
	t.Helper()
	cfg := &config.Config{
		RunAddress:     addr,
		StorePath:      filepath.Join(t.TempDir(), "store.db"),
		CatalogSource:  writeCatalog(t),
		CatalogTimeout: time.Second,
		KafkaTopic:     "parcerogo.orders",
	}
	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestRun_StopsWhenAddressBusy(t *testing.T) {
	busy, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	app := newRunnableApp(t, busy.Addr().String())

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), app, time.Second) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("run() = nil, want listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() kept waiting for a signal after the server failed to start")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := newRunnableApp(t, "localhost:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, app, time.Second) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not stop after cancel")
	}
}
