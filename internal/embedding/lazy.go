package embedding

import (
	"context"
	"sync"
)

// Lazy defers construction of an Embedder until the first Embed call and
// guards it with a one-time-initialization lock, so the underlying model
// client is built once and treated as shared read-only state afterwards.
type Lazy struct {
	once    sync.Once
	build   func() (Embedder, error)
	inner   Embedder
	initErr error
}

// NewLazy wraps a constructor in a lazily-initialized embedder.
func NewLazy(build func() (Embedder, error)) *Lazy {
	return &Lazy{build: build}
}

// Embed initializes the underlying embedder on first use and delegates.
// A failed initialization is sticky: every subsequent call returns the
// same error.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	l.once.Do(func() {
		l.inner, l.initErr = l.build()
	})
	if l.initErr != nil {
		return nil, l.initErr
	}
	return l.inner.Embed(ctx, texts)
}
