package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/ports/secondary"
)

// ProjectRepository implements secondary.ProjectRepository with SQLite.
type ProjectRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewProjectRepository creates a new SQLite project repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewProjectRepository(db *sql.DB, logWriter secondary.LogWriter) *ProjectRepository {
	return &ProjectRepository{db: db, logWriter: logWriter}
}

// Create persists a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *secondary.ProjectRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (id) VALUES (?)", project.ID)
	if err != nil {
		return apperr.Persistence("create project", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "project", project.ID)
	}
	return nil
}

// Exists checks if a project exists.
func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, apperr.Persistence("check project existence", err)
	}
	return count > 0, nil
}

// List retrieves all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*secondary.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created_at FROM projects ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, apperr.Persistence("list projects", err)
	}
	defer rows.Close()

	var records []*secondary.ProjectRecord
	for rows.Next() {
		var (
			record    secondary.ProjectRecord
			createdAt time.Time
		)
		if err := rows.Scan(&record.ID, &createdAt); err != nil {
			return nil, apperr.Persistence("scan project", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list projects", err)
	}
	return records, nil
}

// Ensure ProjectRepository implements the interface
var _ secondary.ProjectRepository = (*ProjectRepository)(nil)
