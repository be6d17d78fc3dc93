package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for duplicate keys.
const uniqueViolation = "23505"

// NewPostgres opens a PostgreSQL backed store using lib/pq.
func NewPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s, err := newSQLStore(ctx, db, dialect{
		name:        "postgres",
		placeholder: dollarPlaceholder,
		isConflict: func(err error) bool {
			var pqErr *pq.Error
			return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
		},
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}
