package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append persists a log entry.
func (r *AuditLogRepository) Append(ctx context.Context, entry *secondary.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullableString(entry.ActorID),
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		nullableString(entry.FieldName),
		nullableString(entry.OldValue),
		nullableString(entry.NewValue),
	)
	if err != nil {
		return apperr.Persistence("append audit entry", err)
	}
	return nil
}

// GetNextID returns the next available log entry ID.
func (r *AuditLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM audit_log",
	).Scan(&maxID)
	if err != nil {
		return "", apperr.Persistence("get next audit entry ID", err)
	}
	return fmt.Sprintf("LOG-%06d", maxID+1), nil
}

// ListByEntity retrieves log entries for an entity, oldest first.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at
		 FROM audit_log WHERE entity_type = ? AND entity_id = ?
		 ORDER BY created_at ASC, id ASC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, apperr.Persistence("list audit entries", err)
	}
	defer rows.Close()

	var entries []*secondary.AuditEntry
	for rows.Next() {
		var (
			entry     secondary.AuditEntry
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)
		err := rows.Scan(&entry.ID, &actorID, &entry.EntityType, &entry.EntityID,
			&entry.Action, &fieldName, &oldValue, &newValue, &createdAt)
		if err != nil {
			return nil, apperr.Persistence("scan audit entry", err)
		}
		entry.ActorID = actorID.String
		entry.FieldName = fieldName.String
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list audit entries", err)
	}
	return entries, nil
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
