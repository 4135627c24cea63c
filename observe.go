package appsearch

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	logpkg "github.com/swiftype/app-search-go/internal/logger"
	"github.com/swiftype/app-search-go/internal/metrics"
)

const tracerName = "github.com/swiftype/app-search-go"

// sdkMetrics holds prometheus metrics registered for client operations.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Total client operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Client operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := metrics.RegisterOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := metrics.RegisterOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// observer provides logging, metrics and tracing for client operations.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
	tracer  trace.Tracer
}

func newObserver(
	logger *zap.Logger, reg prometheus.Registerer, tp trace.TracerProvider,
) (*observer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m, tracer: tp.Tracer(tracerName)}, nil
}

// start opens a span for op and carries an op-scoped logger in the returned
// context. The returned func must be called with the operation's error.
func (o *observer) start(
	ctx context.Context, op string, attrs ...attribute.KeyValue,
) (context.Context, func(error)) {
	if o == nil {
		return ctx, func(error) {}
	}
	begin := time.Now()

	ctx, span := o.tracer.Start(ctx, "appsearch."+op, trace.WithAttributes(attrs...))
	log := o.logger.With(zap.String("op", op))
	ctx = logpkg.ContextWithLogger(ctx, log)

	return ctx, func(err error) {
		dur := time.Since(begin)

		if o.metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			o.metrics.operations.WithLabelValues(op, status).Inc()
			o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Warn("operation failed",
				zap.Duration("duration", dur),
				zap.Error(err),
			)
		} else {
			log.Debug("operation completed",
				zap.Duration("duration", dur),
			)
		}
		span.End()
	}
}
