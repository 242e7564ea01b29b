package cache

import (
	"context"
	"errors"

	"bdget/kv"
)

// Client layers multiple stores: reads return the first hit in order,
// writes and deletes go to every store. Backing for the degraded
// fallback response ("cached data") served when the primary path fails.
type Client interface {
	kv.Store
}

var _ Client = (*clientImpl)(nil)

type clientImpl struct {
	stores []kv.Store
}

func NewClient(stores ...kv.Store) Client {
	return &clientImpl{
		stores: stores,
	}
}

func (c *clientImpl) Get(ctx context.Context, key []byte) ([]byte, error) {
	for _, store := range c.stores {
		value, err := store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}
		return value, nil
	}

	return nil, kv.ErrNotFound
}

func (c *clientImpl) Set(ctx context.Context, key []byte, value []byte) error {
	var firstErr error
	for _, store := range c.stores {
		if err := store.Set(ctx, key, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (c *clientImpl) Delete(ctx context.Context, key []byte) error {
	var firstErr error
	for _, store := range c.stores {
		if err := store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
