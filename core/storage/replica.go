package storage

import "context"

// Replica receives a copy of every successful mutation. Failures are logged
// and reported to the Observer but never fail the local operation.
type Replica interface {
	PutFile(ctx context.Context, rel, localPath string) error
	MakeDir(ctx context.Context, rel string) error
	Delete(ctx context.Context, rel string, isDir bool) error
}
