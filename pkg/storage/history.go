package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/oarkflow/cash/pkg/events"
)

// StatementRecord is one executed top-level statement.
type StatementRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	Source     string    `json:"source"`
	Line       int       `json:"line"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordStatement stores the outcome of a statement.
func (s *Store) RecordStatement(ctx context.Context, entry StatementRecord) (StatementRecord, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO statement_history (
            id, session_id, source, line, success, error, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullString(entry.SessionID),
		entry.Source,
		entry.Line,
		boolToInt(entry.Success),
		nullString(entry.Error),
		entry.DurationMS,
		entry.CreatedAt,
	)
	if err != nil {
		return StatementRecord{}, err
	}
	return entry, nil
}

// ListHistory returns the most recent statements up to the provided limit.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]StatementRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, source, line, success, error, duration_ms, created_at
        FROM statement_history
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []StatementRecord
	for rows.Next() {
		var (
			sessionID sql.NullString
			success   int
			errText   sql.NullString
		)
		rec := StatementRecord{}
		if err := rows.Scan(&rec.ID, &sessionID, &rec.Source, &rec.Line, &success, &errText, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if sessionID.Valid {
			rec.SessionID = sessionID.String
		}
		rec.Success = success == 1
		if errText.Valid {
			rec.Error = errText.String
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}

// ClearHistory removes all stored statements.
func (s *Store) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM statement_history`)
	return err
}

// HandleEvent records statement events published on an events.Bus.
func (s *Store) HandleEvent(ctx context.Context, event events.Event) error {
	rec := StatementRecord{
		SessionID:  event.SessionID,
		Source:     event.Source,
		Line:       event.Line,
		Success:    event.Type == events.EventStatementExecuted,
		DurationMS: float64(event.Duration) / float64(time.Millisecond),
		CreatedAt:  event.Timestamp.UTC(),
	}
	if event.Err != nil {
		rec.Error = event.Err.Error()
	}
	_, err := s.RecordStatement(ctx, rec)
	return err
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
