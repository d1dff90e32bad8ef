package worker

import (
	"context"
)

// Worker - фоновый потребитель Redis Stream
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop просит воркер завершиться
	Stop() error

	Name() string
}
