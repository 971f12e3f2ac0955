// Package store handles SQLite persistence of finished runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/libsim/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the run archive. Only completed runs are
// written; in-flight simulation state never touches disk.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			days INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			p_borrow REAL NOT NULL,
			p_return REAL NOT NULL,
			min_loan INTEGER NOT NULL,
			max_loan INTEGER NOT NULL,
			catalog_path TEXT NOT NULL,
			total_borrows INTEGER NOT NULL,
			total_returns INTEGER NOT NULL,
			unreturned INTEGER NOT NULL,
			most_borrowed_title TEXT NOT NULL,
			most_borrowed_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_books (
			run_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			borrows INTEGER NOT NULL,
			PRIMARY KEY (run_id, title)
		);`,
		`CREATE TABLE IF NOT EXISTS run_days (
			run_id INTEGER NOT NULL,
			day INTEGER NOT NULL,
			borrowed_title TEXT NOT NULL,
			returned_title TEXT NOT NULL,
			PRIMARY KEY (run_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_run_books_title ON run_books(title);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run with its per-book tallies and day records.
func (s *Store) InsertRun(ctx context.Context, summary model.RunSummary, tallies []model.BookTally, records []model.DayRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, days, seed, p_borrow, p_return, min_loan, max_loan, catalog_path, total_borrows, total_returns, unreturned, most_borrowed_title, most_borrowed_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.StartedAt.Format(time.RFC3339Nano),
		summary.EndedAt.Format(time.RFC3339Nano),
		summary.Days,
		summary.Seed,
		summary.PBorrow,
		summary.PReturn,
		summary.MinLoan,
		summary.MaxLoan,
		summary.CatalogPath,
		summary.TotalBorrows,
		summary.TotalReturns,
		summary.Unreturned,
		summary.MostBorrowedTitle,
		summary.MostBorrowedCount,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(tallies) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_books (run_id, title, author, borrows) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, tally := range tallies {
			if _, err := stmt.ExecContext(ctx, id, tally.Title, tally.Author, tally.Borrows); err != nil {
				return 0, err
			}
		}
	}

	if len(records) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_days (run_id, day, borrowed_title, returned_title) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, id, rec.Day, rec.BorrowedTitle, rec.ReturnedTitle); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns archived run aggregates filtered by stats config.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, days, total_borrows, total_returns, unreturned, most_borrowed_title, most_borrowed_count
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Days, &agg.TotalBorrows, &agg.TotalReturns, &agg.Unreturned, &agg.MostBorrowedTitle, &agg.MostBorrowedCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListBookTalliesForRuns sums per-book borrow counts across the given runs,
// ordered by first appearance so ties keep catalog order.
func (s *Store) ListBookTalliesForRuns(ctx context.Context, runIDs []int64) ([]model.BookTally, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(runIDs))
	args := make([]any, len(runIDs))
	for i, id := range runIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT title, author, SUM(borrows) AS borrows
		FROM run_books
		WHERE run_id IN (%s)
		GROUP BY title, author
		ORDER BY MIN(rowid)`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var tallies []model.BookTally
	for rows.Next() {
		var tally model.BookTally
		if err := rows.Scan(&tally.Title, &tally.Author, &tally.Borrows); err != nil {
			return nil, err
		}
		tallies = append(tallies, tally)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tallies, nil
}

// ListDayRecords returns the day log of one archived run in day order.
func (s *Store) ListDayRecords(ctx context.Context, runID int64) ([]model.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, borrowed_title, returned_title FROM run_days WHERE run_id = ? ORDER BY day ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.DayRecord
	for rows.Next() {
		var rec model.DayRecord
		if err := rows.Scan(&rec.Day, &rec.BorrowedTitle, &rec.ReturnedTitle); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
