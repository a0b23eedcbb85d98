package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/pulse/internal/model"
)

// LogStore appends to and reads the audit trail. Rows are never updated
// or deleted.
type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

func scanLogEntry(scanner interface{ Scan(...any) error }) (*model.LogEntry, error) {
	var e model.LogEntry
	err := scanner.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.Timestamp)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const logCols = `id, user_id, action, details, timestamp`

func (s *LogStore) Append(userID int64, action, details string) error {
	_, err := s.db.Exec(
		`INSERT INTO logs (user_id, action, details) VALUES (?, ?, ?)`,
		userID, action, details,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// List returns audit entries, newest first.
func (s *LogStore) List() ([]model.LogEntry, error) {
	rows, err := s.db.Query(`SELECT ` + logCols + ` FROM logs ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListByUser returns one user's audit entries, newest first.
func (s *LogStore) ListByUser(userID int64) ([]model.LogEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+logCols+` FROM logs WHERE user_id = ? ORDER BY timestamp DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list log entries by user: %w", err)
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
