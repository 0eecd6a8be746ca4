package prometheus

import (
	"errors"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/simplecdn/core/storage"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "simplecdn_storage"

var _ storage.Observer = (*Observer)(nil)

// Observer records storage operation latency, failures and uploaded bytes.
type Observer struct {
	duration    *promclient.HistogramVec
	failures    *promclient.CounterVec
	uploadBytes promclient.Counter
}

// NewObserver registers the storage metrics on reg. An empty namespace means
// DefaultNamespace and a nil reg means the default registerer.
func NewObserver(namespace string, reg promclient.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}

	duration, err := register(reg, promclient.NewHistogramVec(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of storage operations.",
		Buckets:   promclient.DefBuckets,
	}, []string{"operation"}))
	if err != nil {
		return nil, fmt.Errorf("register storage histogram: %w", err)
	}

	errs, err := register(reg, promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Count of failed storage operations.",
	}, []string{"operation", "reason"}))
	if err != nil {
		return nil, fmt.Errorf("register storage error counter: %w", err)
	}

	uploadBytes, err := register(reg, promclient.NewCounter(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_bytes_total",
		Help:      "Bytes successfully written by uploads.",
	}))
	if err != nil {
		return nil, fmt.Errorf("register uploaded bytes counter: %w", err)
	}

	return &Observer{duration: duration, failures: errs, uploadBytes: uploadBytes}, nil
}

// RecordOperation implements storage.Observer.
func (o *Observer) RecordOperation(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues(op, reason(err)).Inc()
	}
}

// RecordUpload implements storage.Observer.
func (o *Observer) RecordUpload(duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(storage.OpSave).Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues(storage.OpSave, reason(err)).Inc()
		return
	}
	if sizeBytes > 0 {
		o.uploadBytes.Add(float64(sizeBytes))
	}
}

// reason buckets errors into a small, fixed label set.
func reason(err error) string {
	switch {
	case errors.Is(err, storage.ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, storage.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrNotDirectory):
		return "not_directory"
	default:
		return "internal"
	}
}

// register registers c or returns the collector already registered under the
// same descriptor.
func register[T promclient.Collector](reg promclient.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are promclient.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}
