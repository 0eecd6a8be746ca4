// Package prometheus exports storage telemetry as Prometheus metrics.
//
// Observer implements storage.Observer:
//
//	obs, err := prometheus.NewObserver("", promclient.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//	store, err := storage.NewLocal(root, storage.WithObserver(obs))
//
// Metrics (default namespace "simplecdn_storage"):
//
//	operation_duration_seconds{operation}   histogram
//	operation_errors_total{operation,reason} counter
//	uploaded_bytes_total                    counter
//
// Registering twice against the same registerer reuses the existing
// collectors, so several observers may share one registry.
package prometheus
