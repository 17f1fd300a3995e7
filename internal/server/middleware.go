package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"supplyhub/internal/commons"
	"supplyhub/internal/infrastructure/logger"
	"supplyhub/internal/infrastructure/telemetry"
)

const HeaderRequestID = "X-Request-ID"

// RequestContext continues the caller's W3C trace, assigns the request trace
// id and stores a request-scoped logger in the context.
func RequestContext(log *zap.Logger) func(http.Handler) http.Handler {
	tracer := otel.Tracer("supplyhub/http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			traceID := r.Header.Get(HeaderRequestID)
			if traceID == "" {
				if sc := span.SpanContext(); sc.HasTraceID() {
					traceID = sc.TraceID().String()
				} else {
					traceID = uuid.New().String()
				}
			}
			w.Header().Set(HeaderRequestID, traceID)

			fields := []zap.Field{zap.String("traceId", traceID)}
			if sc := span.SpanContext(); sc.IsValid() {
				fields = append(fields, zap.String("otelTraceId", sc.TraceID().String()), zap.String("spanId", sc.SpanID().String()))
			}

			ctx = commons.WithTraceID(ctx, traceID)
			ctx = logger.WithContext(ctx, log.With(fields...))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.response.status_code", ww.Status()))
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			}
		})
	}
}

// Observe records HTTP RED metrics per route pattern and logs the request.
func Observe(metrics *telemetry.Metrics, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			metrics.ObserveHTTP(r.Method, route, status, elapsed)
			logger.FromContext(r.Context(), log).Info("request completed",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
			)
		})
	}
}
