package postgres

import (
	"context"
	"database/sql"

	"snapland/internal/core/domain"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) InsertEntry(ctx context.Context, e *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, user_id, action, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`
	exec := getExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, e.ID, e.UserID, e.Action, e.Metadata, e.OccurredAt)
	return err
}
