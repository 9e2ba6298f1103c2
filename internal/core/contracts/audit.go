package contracts

import (
	"context"

	"github.com/google/uuid"
)

// AuditTrail records user actions for later inspection. Recording is
// best-effort and must never block or fail the calling path.
type AuditTrail interface {
	Record(ctx context.Context, userID uuid.UUID, action, metadata string)
}

// AuditWorker drains the audit stream into the persistent store.
type AuditWorker interface {
	// Run starts the consumer loop. Blocks until ctx is cancelled.
	Run(ctx context.Context) error
	// ProcessEntry persists one audit event and acknowledges it.
	ProcessEntry(ctx context.Context, msgID string, raw []byte) error
}
