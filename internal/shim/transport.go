// Package shim подменяет сетевой вызов клиента: распознанные запросы обслуживает
// мок-бэкенд в процессе, остальные уходят в настоящую сеть без изменений.
package shim

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/agamariel/parcerogo/internal/router"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport - http.RoundTripper, который отвечает на маршруты мок-бэкенда сам.
type Transport struct {
	backend http.Handler
	next    http.RoundTripper
	hosts   map[string]struct{}
}

// NewTransport оборачивает next. Если next равен nil, используется http.DefaultTransport.
// Сквозные запросы проходят через otelhttp. Пустой hosts означает перехват на любом хосте.
func NewTransport(backend http.Handler, next http.RoundTripper, hosts ...string) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	t := &Transport{
		backend: backend,
		next:    otelhttp.NewTransport(next),
	}
	if len(hosts) > 0 {
		t.hosts = make(map[string]struct{}, len(hosts))
		for _, h := range hosts {
			t.hosts[strings.ToLower(h)] = struct{}{}
		}
	}
	return t
}

// NewClient возвращает http.Client поверх Transport.
func NewClient(backend http.Handler, next http.RoundTripper, hosts ...string) *http.Client {
	return &http.Client{Transport: NewTransport(backend, next, hosts...)}
}

// RoundTrip реализует http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.intercepts(req) {
		return t.next.RoundTrip(req)
	}
	return t.serve(req)
}

func (t *Transport) intercepts(req *http.Request) bool {
	if req.URL == nil {
		return false
	}
	if t.hosts != nil && req.URL.Host != "" {
		if _, ok := t.hosts[strings.ToLower(req.URL.Host)]; !ok {
			return false
		}
	}
	_, ok := router.Match(req.Method, req.URL.Path, req.URL.Query())
	return ok
}

func (t *Transport) serve(req *http.Request) (*http.Response, error) {
	inner := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		// RoundTripper обязан закрыть тело запроса
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		inner.Body = io.NopCloser(bytes.NewReader(body))
		inner.ContentLength = int64(len(body))
		if len(body) > 0 && inner.Header.Get(echo.HeaderContentType) == "" {
			inner.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
	}
	inner.RequestURI = inner.URL.RequestURI()

	rec := httptest.NewRecorder()
	t.backend.ServeHTTP(rec, inner)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
