package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/agamariel/parcerogo/internal/router"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/agamariel/parcerogo/internal/telemetry"

// unmatchedRoute - значение атрибута route для запросов вне таблицы маршрутов.
const unmatchedRoute = "unmatched"

// Metrics считает запросы к мок-бэкенду по операциям.
type Metrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	tracer   trace.Tracer
}

// NewMetrics создаёт инструменты на meter. При nil берётся глобальный MeterProvider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	requests, err := meter.Int64Counter("parcerogo.requests",
		metric.WithDescription("Requests answered by the mock backend"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("parcerogo.request.duration",
		metric.WithDescription("Mock backend request duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests: requests,
		duration: duration,
		tracer:   otel.Tracer(instrumentationName),
	}, nil
}

// Middleware открывает span на запрос и записывает счётчик и длительность
// с атрибутами route и status.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, span := m.tracer.Start(req.Context(), "mock "+req.Method)
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
				span.RecordError(err)
				if status >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, err.Error())
				}
			}

			name := unmatchedRoute
			if r, ok := router.FromContext(c); ok {
				name = r.Kind.String()
			}
			span.SetName("mock " + name)

			attrs := metric.WithAttributes(
				attribute.String("route", name),
				attribute.Int("status", status),
			)
			m.requests.Add(ctx, 1, attrs)
			m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)

			return err
		}
	}
}

// statusOf возвращает код, с которым ErrorHandler ответит на err.
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
