package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

// dialect captures the few differences between the SQL backends.
type dialect struct {
	name        string
	placeholder func(n int) string
	isConflict  func(err error) bool
}

func dollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

const createTableQuery = `
CREATE TABLE IF NOT EXISTS uploaded_files (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	uploaded_at BIGINT NOT NULL,
	filesize    BIGINT NOT NULL,
	row_count   BIGINT NULL,
	columns     TEXT NOT NULL
)`

// SQLStore keeps file metadata in a relational database. uploaded_at is
// stored as Unix microseconds and columns as a JSON array.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", d.name, err)
	}

	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", d.name, err)
	}

	return &SQLStore{db: db, dialect: d}, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) CreateFile(ctx context.Context, file entity.UploadedFile) error {
	columns, err := json.Marshal(file.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	var rowCount sql.NullInt64
	if file.RowCount != nil {
		rowCount = sql.NullInt64{Int64: *file.RowCount, Valid: true}
	}

	p := s.dialect.placeholder
	q := `INSERT INTO uploaded_files (id, filename, uploaded_at, filesize, row_count, columns)
		VALUES (` + p(1) + `, ` + p(2) + `, ` + p(3) + `, ` + p(4) + `, ` + p(5) + `, ` + p(6) + `)`

	_, err = s.db.ExecContext(ctx, q,
		file.ID,
		file.Filename,
		file.UploadedAt.UnixMicro(),
		file.Filesize,
		rowCount,
		string(columns),
	)
	if err != nil {
		if s.dialect.isConflict != nil && s.dialect.isConflict(err) {
			return pkgerror.NewBusiness("file already exists", pkgerror.CodeConflict)
		}
		return fmt.Errorf("failed to insert uploaded file: %w", err)
	}

	return nil
}

func (s *SQLStore) GetFile(ctx context.Context, id string) (entity.UploadedFile, error) {
	q := `SELECT id, filename, uploaded_at, filesize, row_count, columns
		FROM uploaded_files
		WHERE id = ` + s.dialect.placeholder(1)

	file, err := scanFile(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.UploadedFile{}, pkgerror.ErrNotFound
		}
		return entity.UploadedFile{}, fmt.Errorf("failed to get uploaded file: %w", err)
	}

	return file, nil
}

func (s *SQLStore) ListFiles(ctx context.Context) ([]entity.UploadedFile, error) {
	const q = `SELECT id, filename, uploaded_at, filesize, row_count, columns
		FROM uploaded_files
		ORDER BY uploaded_at, id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploaded files: %w", err)
	}
	defer rows.Close()

	files := []entity.UploadedFile{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan uploaded file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploaded files: %w", err)
	}

	return files, nil
}

func (s *SQLStore) DeleteFile(ctx context.Context, id string) error {
	q := `DELETE FROM uploaded_files WHERE id = ` + s.dialect.placeholder(1)

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete uploaded file: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return pkgerror.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (entity.UploadedFile, error) {
	var (
		file       entity.UploadedFile
		uploadedAt int64
		rowCount   sql.NullInt64
		columns    string
	)

	if err := row.Scan(&file.ID, &file.Filename, &uploadedAt, &file.Filesize, &rowCount, &columns); err != nil {
		return entity.UploadedFile{}, err
	}

	if err := json.Unmarshal([]byte(columns), &file.Columns); err != nil {
		return entity.UploadedFile{}, fmt.Errorf("unmarshal columns: %w", err)
	}

	file.UploadedAt = time.UnixMicro(uploadedAt).UTC()
	if rowCount.Valid {
		n := rowCount.Int64
		file.RowCount = &n
	}

	return file, nil
}
