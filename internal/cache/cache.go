package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values by key. A miss is reported as
// (false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Noop never stores anything and always misses.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) Get(context.Context, string, interface{}) (bool, error) {
	return false, nil
}

func (Noop) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
