// Package store persists the analysis run log in SQLite: one row per
// analyzed document and one row per ticket created from it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run represents a row in the runs table.
type Run struct {
	ID            int64  `json:"id"`
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	ContentHash   string `json:"content_hash"`
	BlockCount    int    `json:"block_count"`
	IssueCount    int    `json:"issue_count"`
	ImageCount    int    `json:"image_count"`
	LinkCount     int    `json:"link_count"`
	TableCount    int    `json:"table_count"`
	InsightStatus string `json:"insight_status"`
	CreatedAt     string `json:"created_at"`
}

// Ticket represents a row in the tickets table.
type Ticket struct {
	ID           int64  `json:"id"`
	RunID        int64  `json:"run_id"`
	IssueTitle   string `json:"issue_title"`
	TicketKey    string `json:"ticket_key,omitempty"`
	Status       string `json:"status"`
	Attached     int    `json:"attached"`
	AttachErrors int    `json:"attach_errors"`
	Error        string `json:"error,omitempty"`
}

// Store wraps the SQLite database holding the run log.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RecordRun inserts one run record and returns its ID.
func (s *Store) RecordRun(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (path, filename, content_hash, block_count, issue_count,
			image_count, link_count, table_count, insight_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Path, r.Filename, r.ContentHash, r.BlockCount, r.IssueCount,
		r.ImageCount, r.LinkCount, r.TableCount, r.InsightStatus)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordTickets inserts the ticket outcomes of one submission run in a
// single transaction.
func (s *Store) RecordTickets(ctx context.Context, runID int64, tickets []Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tickets (run_id, issue_title, ticket_key, status, attached, attach_errors, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range tickets {
			if _, err := stmt.ExecContext(ctx, runID, t.IssueTitle, t.TicketKey,
				t.Status, t.Attached, t.AttachErrors, t.Error); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, filename, content_hash, block_count, issue_count,
			image_count, link_count, table_count, insight_status, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Path, &r.Filename, &r.ContentHash, &r.BlockCount,
		&r.IssueCount, &r.ImageCount, &r.LinkCount, &r.TableCount,
		&r.InsightStatus, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, filename, content_hash, block_count, issue_count,
			image_count, link_count, table_count, insight_status, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Path, &r.Filename, &r.ContentHash,
			&r.BlockCount, &r.IssueCount, &r.ImageCount, &r.LinkCount,
			&r.TableCount, &r.InsightStatus, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TicketsForRun returns all ticket outcomes recorded for one run.
func (s *Store) TicketsForRun(ctx context.Context, runID int64) ([]Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, issue_title, ticket_key, status, attached, attach_errors, error
		FROM tickets WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var key, errMsg sql.NullString
		if err := rows.Scan(&t.ID, &t.RunID, &t.IssueTitle, &key,
			&t.Status, &t.Attached, &t.AttachErrors, &errMsg); err != nil {
			return nil, err
		}
		t.TicketKey = key.String
		t.Error = errMsg.String
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
