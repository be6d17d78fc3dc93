package store

import (
	"context"
	"fmt"

	"github.com/hyakkun/data-dashboard/internal/traffic/usecase"
)

var (
	_ usecase.Store = (*InMemoryStore)(nil)
	_ usecase.Store = (*SQLStore)(nil)
)

// Open returns the metadata store for driver ("memory", "sqlite" or
// "postgres") and a function releasing its resources.
func Open(ctx context.Context, driver, dsn string) (usecase.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch driver {
	case "", "memory":
		return NewInMemoryStore(), noop, nil
	case "sqlite":
		s, err := NewSQLite(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, func(context.Context) error { return s.Close() }, nil
	case "postgres":
		s, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, func(context.Context) error { return s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", driver)
	}
}
