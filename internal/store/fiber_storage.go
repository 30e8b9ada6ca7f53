package store

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const pingKey = "__ping__"

// FiberStorage adapts a fiber.Storage driver (memory, redis...) to Storage.
// fiber drivers are not context aware, so ctx is only checked before each call.
type FiberStorage struct {
	storage fiber.Storage
}

func (s *FiberStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, err := s.storage.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrNotFound
	}
	return val, nil
}

func (s *FiberStorage) Set(ctx context.Context, key string, val []byte, expiresIn time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if expiresIn < 0 {
		expiresIn = 0
	}
	return s.storage.Set(key, val, expiresIn)
}

func (s *FiberStorage) Delete(ctx context.Context, key string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.storage.Delete(key)
}

func (s *FiberStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *FiberStorage) Ping(ctx context.Context) error {
	_, err := s.Get(ctx, pingKey)
	if err == ErrNotFound {
		return nil
	}
	return err
}

func (s *FiberStorage) Close() error {
	return s.storage.Close()
}

func NewFiberStorage(storage fiber.Storage) *FiberStorage {
	return &FiberStorage{
		storage: storage,
	}
}
