package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error
}

// AuditEntry represents one audit log record.
type AuditEntry struct {
	ID         string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// AuditLogRepository defines the secondary port for audit log persistence.
type AuditLogRepository interface {
	// Append persists a log entry.
	Append(ctx context.Context, entry *AuditEntry) error

	// GetNextID returns the next available log entry ID.
	GetNextID(ctx context.Context) (string, error)

	// ListByEntity retrieves log entries for an entity, oldest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*AuditEntry, error)
}
