package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgerror"
	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	name        TEXT PRIMARY KEY,
	file_name   TEXT NOT NULL DEFAULT '',
	file_path   TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	uploaded_at INTEGER NOT NULL DEFAULT 0,
	stats       TEXT NOT NULL,
	meta        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	batch      TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	name       TEXT NOT NULL,
	department TEXT NOT NULL,
	company    TEXT NOT NULL,
	package    TEXT NOT NULL,
	status     TEXT NOT NULL,
	PRIMARY KEY (batch, seq)
);
`

// SQLiteStore keeps batches in a single SQLite file. Statistics and parse
// metadata are stored as JSON next to the batch row; records get their own
// table so they can be filtered and paged in SQL.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindBatch(ctx context.Context, name string) (entity.Batch, error) {
	return findBatch(ctx, s.db, name)
}

func (s *SQLiteStore) InsertBatch(ctx context.Context, batch entity.Batch) error {
	statsJSON, metaJSON, err := encodeBatch(batch)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO batches (name, file_name, file_path, created_at, uploaded_at, stats, meta)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO NOTHING`,
			batch.Name, batch.FileName, batch.FilePath, batch.CreatedAt, batch.UploadedAt, statsJSON, metaJSON,
		)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return pkgerror.ErrConflict
		}

		return insertRecords(ctx, tx, batch.Name, batch.Records)
	})
}

func (s *SQLiteStore) ReplaceBatch(ctx context.Context, batch entity.Batch) error {
	statsJSON, metaJSON, err := encodeBatch(batch)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE batches
			SET file_name = ?, file_path = ?, created_at = ?, uploaded_at = ?, stats = ?, meta = ?
			WHERE name = ?`,
			batch.FileName, batch.FilePath, batch.CreatedAt, batch.UploadedAt, statsJSON, metaJSON, batch.Name,
		)
		if err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return pkgerror.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE batch = ?`, batch.Name); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}

		return insertRecords(ctx, tx, batch.Name, batch.Records)
	})
}

func (s *SQLiteStore) ListBatchNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM batches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan batch name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (s *SQLiteStore) ListRecords(ctx context.Context, name string, filter usecase.RecordFilter, page, pageSize int) ([]entity.StudentRecord, int, error) {
	if _, err := findBatch(ctx, s.db, name); err != nil {
		return nil, 0, err
	}

	where, args := recordWhere(name, filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, department, company, package, status
		FROM records
		WHERE `+where+`
		ORDER BY seq
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	items := make([]entity.StudentRecord, 0, pageSize)
	for rows.Next() {
		var (
			rec    entity.StudentRecord
			status string
		)
		if err := rows.Scan(&rec.Name, &rec.Department, &rec.Company, &rec.Package, &status); err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		rec.Status = entity.Status(status)
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *SQLiteStore) DeleteBatch(ctx context.Context, name string) (entity.Batch, error) {
	var batch entity.Batch
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		batch, err = findBatch(ctx, tx, name)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE batch = ?`, name); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE name = ?`, name); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}
		return nil
	})

	return batch, err
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findBatch(ctx context.Context, q queryRower, name string) (entity.Batch, error) {
	var (
		batch               entity.Batch
		statsJSON, metaJSON string
	)

	err := q.QueryRowContext(ctx, `
		SELECT name, file_name, file_path, created_at, uploaded_at, stats, meta
		FROM batches WHERE name = ?`, name,
	).Scan(&batch.Name, &batch.FileName, &batch.FilePath, &batch.CreatedAt, &batch.UploadedAt, &statsJSON, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Batch{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Batch{}, fmt.Errorf("find batch: %w", err)
	}

	if err := json.Unmarshal([]byte(statsJSON), &batch.Statistics); err != nil {
		return entity.Batch{}, fmt.Errorf("decode stats: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &batch.Meta); err != nil {
		return entity.Batch{}, fmt.Errorf("decode meta: %w", err)
	}

	return batch, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, batch string, records []entity.StudentRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (batch, seq, name, department, company, package, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, batch, i, rec.Name, rec.Department, rec.Company, rec.Package, string(rec.Status)); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return nil
}

func encodeBatch(batch entity.Batch) (string, string, error) {
	statsJSON, err := json.Marshal(batch.Statistics)
	if err != nil {
		return "", "", fmt.Errorf("encode stats: %w", err)
	}
	metaJSON, err := json.Marshal(batch.Meta)
	if err != nil {
		return "", "", fmt.Errorf("encode meta: %w", err)
	}
	return string(statsJSON), string(metaJSON), nil
}

func recordWhere(batch string, filter usecase.RecordFilter) (string, []any) {
	clauses := []string{"batch = ?"}
	args := []any{batch}

	if len(filter.Statuses) > 0 {
		marks := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			marks = append(marks, "?")
			args = append(args, string(st))
		}
		clauses = append(clauses, "status IN ("+strings.Join(marks, ", ")+")")
	}

	if dept := strings.TrimSpace(filter.Department); dept != "" {
		clauses = append(clauses, "LOWER(TRIM(department)) = LOWER(?)")
		args = append(args, dept)
	}

	return strings.Join(clauses, " AND "), args
}
