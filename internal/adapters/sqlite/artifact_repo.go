// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/ports/secondary"
)

// ArtifactRepository implements secondary.ArtifactRepository with SQLite.
type ArtifactRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewArtifactRepository creates a new SQLite artifact repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewArtifactRepository(db *sql.DB, logWriter secondary.LogWriter) *ArtifactRepository {
	return &ArtifactRepository{db: db, logWriter: logWriter}
}

// Get retrieves the record for a (project, type) slot.
func (r *ArtifactRepository) Get(ctx context.Context, projectID, artifactType string) (*secondary.ArtifactRecord, bool, error) {
	record, err := scanArtifact(r.db.QueryRowContext(ctx,
		`SELECT project_id, artifact_type, status, payload, version, user_notes, created_at, updated_at
		 FROM artifacts WHERE project_id = ? AND artifact_type = ?`,
		projectID, artifactType,
	))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.Persistence("get artifact", err)
	}
	return record, true, nil
}

// Put writes the record atomically under optimistic concurrency control.
// baseVersion 0 means the slot must not exist yet; any other value must
// match the stored version or the write is rejected.
func (r *ArtifactRepository) Put(ctx context.Context, record *secondary.ArtifactRecord, baseVersion int) error {
	if baseVersion == 0 {
		return r.insert(ctx, record)
	}
	return r.update(ctx, record, baseVersion)
}

func (r *ArtifactRepository) insert(ctx context.Context, record *secondary.ArtifactRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO artifacts (project_id, artifact_type, status, payload, version, user_notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ProjectID,
		record.ArtifactType,
		record.Status,
		string(record.Payload),
		record.Version,
		nullableString(record.UserNotes),
	)
	if err != nil {
		// A unique-key conflict means another writer claimed the slot
		// after our read
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
			return apperr.Concurrency(record.ProjectID, record.ArtifactType, 0)
		}
		return apperr.Persistence("insert artifact", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "artifact", record.ProjectID+"/"+record.ArtifactType)
	}
	return nil
}

func (r *ArtifactRepository) update(ctx context.Context, record *secondary.ArtifactRecord, baseVersion int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE artifacts
		 SET status = ?, payload = ?, version = ?, user_notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE project_id = ? AND artifact_type = ? AND version = ?`,
		record.Status,
		string(record.Payload),
		record.Version,
		nullableString(record.UserNotes),
		record.ProjectID,
		record.ArtifactType,
		baseVersion,
	)
	if err != nil {
		return apperr.Persistence("update artifact", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("update artifact", err)
	}
	if affected == 0 {
		return apperr.Concurrency(record.ProjectID, record.ArtifactType, baseVersion)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "artifact", record.ProjectID+"/"+record.ArtifactType,
			"version", strconv.Itoa(baseVersion), strconv.Itoa(record.Version))
	}
	return nil
}

// ListByProject retrieves every artifact record of a project, ordered by
// artifact type for stable output.
func (r *ArtifactRepository) ListByProject(ctx context.Context, projectID string) ([]*secondary.ArtifactRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, artifact_type, status, payload, version, user_notes, created_at, updated_at
		 FROM artifacts WHERE project_id = ? ORDER BY artifact_type`,
		projectID,
	)
	if err != nil {
		return nil, apperr.Persistence("list artifacts", err)
	}
	defer rows.Close()

	var records []*secondary.ArtifactRecord
	for rows.Next() {
		record, err := scanArtifact(rows)
		if err != nil {
			return nil, apperr.Persistence("scan artifact", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list artifacts", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (*secondary.ArtifactRecord, error) {
	var (
		record    secondary.ArtifactRecord
		payload   string
		userNotes sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&record.ProjectID,
		&record.ArtifactType,
		&record.Status,
		&payload,
		&record.Version,
		&userNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Payload = []byte(payload)
	record.UserNotes = userNotes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &record, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure ArtifactRepository implements the interface
var _ secondary.ArtifactRepository = (*ArtifactRepository)(nil)
