// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// drives external systems.
package secondary

import "context"

// ArtifactRecord represents an artifact as stored in persistence. One
// record exists per (project, type); re-runs overwrite the slot under a
// new version instead of adding rows.
type ArtifactRecord struct {
	ProjectID    string
	ArtifactType string
	Status       string
	Payload      []byte // stage-owned JSON blob, opaque here
	Version      int
	CreatedAt    string
	UpdatedAt    string
	UserNotes    string
}

// ArtifactRepository defines the secondary port for artifact persistence.
type ArtifactRepository interface {
	// Get retrieves the record for a (project, type) slot.
	// The bool reports whether the slot exists.
	Get(ctx context.Context, projectID, artifactType string) (*ArtifactRecord, bool, error)

	// Put writes the record atomically. baseVersion is the version the
	// caller read before mutating (0 for a first write); a mismatch with
	// the stored version fails with a concurrency error and leaves the
	// previous record unchanged.
	Put(ctx context.Context, record *ArtifactRecord, baseVersion int) error

	// ListByProject retrieves every artifact record of a project.
	ListByProject(ctx context.Context, projectID string) ([]*ArtifactRecord, error)
}

// ProjectRecord represents a project as stored in persistence.
type ProjectRecord struct {
	ID        string
	CreatedAt string
}

// ProjectRepository defines the secondary port for project persistence.
type ProjectRepository interface {
	// Create persists a new project.
	Create(ctx context.Context, project *ProjectRecord) error

	// Exists checks if a project exists.
	Exists(ctx context.Context, id string) (bool, error)

	// List retrieves all projects, newest first.
	List(ctx context.Context) ([]*ProjectRecord, error)
}
