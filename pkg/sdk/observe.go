package gigmarket

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

// Operation outcomes, used as the status label.
const (
	outcomeOK            = "ok"
	outcomeNotFound      = "not_found"
	outcomeInvalid       = "invalid"
	outcomeQuotaExceeded = "quota_exceeded"
	outcomeProviderError = "provider_error"
	outcomeError         = "error"
)

// outcome classifies err. Caller mistakes are kept apart from real failures
// so alerts can key on "error" and "provider_error" alone.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrGigNotFound), errors.Is(err, domain.ErrUserNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrValidation):
		return outcomeInvalid
	case errors.Is(err, domain.ErrAssistantQuotaExceeded):
		return outcomeQuotaExceeded
	case errors.Is(err, domain.ErrAssistantProviderError):
		return outcomeProviderError
	}
	return outcomeError
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigmarket",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gigmarket",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call latency. Recommend includes the keyword completion.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse lets several clients share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("gigmarket: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("gigmarket: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK calls. A nil observer does nothing.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	fields := []zap.Field{zap.String("op", op), zap.String("status", status), zap.Duration("duration", dur)}
	switch status {
	case outcomeOK:
		o.logger.Debug("Operation completed", fields...)
	case outcomeNotFound, outcomeInvalid:
		o.logger.Debug("Operation rejected", append(fields, zap.Error(err))...)
	default:
		o.logger.Warn("Operation failed", append(fields, zap.Error(err))...)
	}
}
