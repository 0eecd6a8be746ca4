package storage

import "time"

// Operation names reported to an Observer.
const (
	OpList   = "list"
	OpMkdir  = "mkdir"
	OpSave   = "save"
	OpDelete = "delete"
	OpOpen   = "open"
)

// Observer captures telemetry for storage operations.
type Observer interface {
	RecordOperation(op string, duration time.Duration, err error)
	RecordUpload(duration time.Duration, sizeBytes int64, err error)
}

type noopObserver struct{}

func (noopObserver) RecordOperation(string, time.Duration, error) {}
func (noopObserver) RecordUpload(time.Duration, int64, error) {}
