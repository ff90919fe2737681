package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests build
// their in-memory databases from GetSchemaSQL() instead of hardcoding
// CREATE TABLE statements, so repository code that references a column
// missing here fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Projects
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Artifacts (one slot per project and type; re-runs bump version in place)
CREATE TABLE IF NOT EXISTS artifacts (
	project_id TEXT NOT NULL,
	artifact_type TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('draft', 'approved', 'rejected')) DEFAULT 'draft',
	payload TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1,
	user_notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (project_id, artifact_type),
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_artifacts_status ON artifacts(status);

-- Audit log (who changed which artifact slot, field by field)
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the full schema and mark every migration
		// as applied so RunMigrations skips them
		if _, err = db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
