package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"askbuilding/internal/model"
)

// AuditLog is the optional Postgres trail of generated queries. Because the
// router executes language-model output verbatim, every execution is recorded
// with its outcome so the trust boundary is at least observable.
type AuditLog struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS query_audit (
	id          UUID PRIMARY KEY,
	asked_at    TIMESTAMPTZ NOT NULL,
	question    TEXT NOT NULL,
	intent      TEXT NOT NULL,
	dialect     TEXT NOT NULL,
	query_text  TEXT NOT NULL,
	row_count   INT NOT NULL DEFAULT 0,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	error_text  TEXT NOT NULL DEFAULT ''
)`

// NewAuditLog connects to Postgres and ensures the audit table exists.
func NewAuditLog(dsn string, log *zap.SugaredLogger) (*AuditLog, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure audit schema: %w", err)
	}
	return &AuditLog{db: db, log: log}, nil
}

// Close closes the database connection.
func (a *AuditLog) Close() error {
	return a.db.Close()
}

// Record writes one audit entry.
func (a *AuditLog) Record(ctx context.Context, e model.AuditEntry) error {
	query := `
		INSERT INTO query_audit (id, asked_at, question, intent, dialect, query_text, row_count, duration_ms, error_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := a.db.ExecContext(ctx, query,
		e.ID, e.AskedAt, e.Question, string(e.Intent), string(e.Dialect),
		e.QueryText, e.RowCount, e.Duration.Milliseconds(), e.ErrorText)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries, for the inspection endpoint.
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	query := `
		SELECT id, asked_at, question, intent, dialect, query_text, row_count, error_text
		FROM query_audit
		ORDER BY asked_at DESC
		LIMIT $1
	`
	var entries []model.AuditEntry
	if err := a.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	return entries, nil
}
