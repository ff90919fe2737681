package sqlite

import (
	"context"

	"github.com/example/strat/internal/ctxutil"
	"github.com/example/strat/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using AuditLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.AuditLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.AuditLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	id, err := w.logRepo.GetNextID(ctx)
	if err != nil {
		return err
	}

	entry := &secondary.AuditEntry{
		ID:         id,
		ActorID:    ctxutil.ActorFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	return w.logRepo.Append(ctx, entry)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
