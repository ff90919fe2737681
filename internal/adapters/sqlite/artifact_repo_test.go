package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/strat/internal/adapters/sqlite"
	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/ports/secondary"
)

func TestArtifactRepository_PutAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	ctx := context.Background()
	projectID := seedProject(t, db, "")

	record := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{"title":"Sepsis Detection"}`),
		Version:      1,
	}
	if err := repo.Put(ctx, record, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := repo.Get(ctx, projectID, "ProjectContext")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected artifact to exist")
	}
	if got.Status != "draft" {
		t.Errorf("status = %q, want draft", got.Status)
	}
	if got.Version != 1 {
		t.Errorf("version = %d, want 1", got.Version)
	}
	if string(got.Payload) != `{"title":"Sepsis Detection"}` {
		t.Errorf("payload = %s", got.Payload)
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestArtifactRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	projectID := seedProject(t, db, "")

	_, found, err := repo.Get(context.Background(), projectID, "ProblemFraming")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected artifact to not exist")
	}
}

func TestArtifactRepository_UpdateBumpsVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	ctx := context.Background()
	projectID := seedProject(t, db, "")

	record := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{}`),
		Version:      1,
	}
	if err := repo.Put(ctx, record, 0); err != nil {
		t.Fatalf("initial Put failed: %v", err)
	}

	record.Status = "approved"
	record.Version = 2
	record.UserNotes = "looks good"
	if err := repo.Put(ctx, record, 1); err != nil {
		t.Fatalf("update Put failed: %v", err)
	}

	got, _, err := repo.Get(ctx, projectID, "ProjectContext")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != "approved" || got.Version != 2 {
		t.Errorf("got status=%q version=%d, want approved/2", got.Status, got.Version)
	}
	if got.UserNotes != "looks good" {
		t.Errorf("user notes = %q", got.UserNotes)
	}
}

func TestArtifactRepository_StaleBaseVersionRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	ctx := context.Background()
	projectID := seedProject(t, db, "")

	record := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{"v":"first"}`),
		Version:      1,
	}
	if err := repo.Put(ctx, record, 0); err != nil {
		t.Fatalf("initial Put failed: %v", err)
	}

	// Writer A wins
	winner := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{"v":"winner"}`),
		Version:      2,
	}
	if err := repo.Put(ctx, winner, 1); err != nil {
		t.Fatalf("winner Put failed: %v", err)
	}

	// Writer B read version 1 and must lose
	loser := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{"v":"loser"}`),
		Version:      2,
	}
	err := repo.Put(ctx, loser, 1)
	if !errors.Is(err, apperr.ErrConcurrency) {
		t.Fatalf("error = %v, want ErrConcurrency", err)
	}

	// Winner's write must be untouched
	got, _, err := repo.Get(ctx, projectID, "ProjectContext")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Payload) != `{"v":"winner"}` {
		t.Errorf("payload = %s, want winner's write preserved", got.Payload)
	}
	if got.Version != 2 {
		t.Errorf("version = %d, want 2", got.Version)
	}
}

func TestArtifactRepository_DuplicateInsertRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	ctx := context.Background()
	projectID := seedProject(t, db, "")

	record := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{}`),
		Version:      1,
	}
	if err := repo.Put(ctx, record, 0); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}

	err := repo.Put(ctx, record, 0)
	if !errors.Is(err, apperr.ErrConcurrency) {
		t.Fatalf("error = %v, want ErrConcurrency", err)
	}
}

func TestArtifactRepository_ListByProject(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewArtifactRepository(db, nil)
	ctx := context.Background()
	projectID := seedProject(t, db, "")
	otherID := seedProject(t, db, "project_0002")

	for _, artifactType := range []string{"ProjectContext", "ProblemFraming"} {
		record := &secondary.ArtifactRecord{
			ProjectID:    projectID,
			ArtifactType: artifactType,
			Status:       "draft",
			Payload:      []byte(`{}`),
			Version:      1,
		}
		if err := repo.Put(ctx, record, 0); err != nil {
			t.Fatalf("Put %s failed: %v", artifactType, err)
		}
	}
	other := &secondary.ArtifactRecord{
		ProjectID:    otherID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{}`),
		Version:      1,
	}
	if err := repo.Put(ctx, other, 0); err != nil {
		t.Fatalf("Put other failed: %v", err)
	}

	records, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	// Ordered by artifact type
	if records[0].ArtifactType != "ProblemFraming" || records[1].ArtifactType != "ProjectContext" {
		t.Errorf("order = [%s, %s]", records[0].ArtifactType, records[1].ArtifactType)
	}
}

func TestArtifactRepository_AuditTrail(t *testing.T) {
	db := setupTestDB(t)
	logRepo := sqlite.NewAuditLogRepository(db)
	repo := sqlite.NewArtifactRepository(db, sqlite.NewLogWriterAdapter(logRepo))
	ctx := context.Background()
	projectID := seedProject(t, db, "")

	record := &secondary.ArtifactRecord{
		ProjectID:    projectID,
		ArtifactType: "ProjectContext",
		Status:       "draft",
		Payload:      []byte(`{}`),
		Version:      1,
	}
	if err := repo.Put(ctx, record, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	record.Version = 2
	if err := repo.Put(ctx, record, 1); err != nil {
		t.Fatalf("update Put failed: %v", err)
	}

	entries, err := logRepo.ListByEntity(ctx, "artifact", projectID+"/ProjectContext")
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].Action != "create" {
		t.Errorf("first action = %q, want create", entries[0].Action)
	}
	if entries[1].Action != "update" || entries[1].FieldName != "version" {
		t.Errorf("second entry = %+v, want version update", entries[1])
	}
}
