package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// NewSQLite opens a SQLite backed store using the pure Go modernc driver.
// dsn is a file path or a "file:" URI; ":memory:" keeps everything in memory.
func NewSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers and every ":memory:" connection is its own database.
	db.SetMaxOpenConns(1)

	s, err := newSQLStore(ctx, db, dialect{
		name:        "sqlite",
		placeholder: func(int) string { return "?" },
		isConflict: func(err error) bool {
			var sqErr *sqlite.Error
			if !errors.As(err, &sqErr) {
				return false
			}
			code := sqErr.Code()
			return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
		},
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}
