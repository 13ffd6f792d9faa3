// Package storage provides durable sinks for generated documents.
package storage

import (
	"context"
	"io"
)

// Store creates named write streams. Data is durable once Close returns nil.
type Store interface {
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}
