package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/portico/backend/internal/models"
	"github.com/portico/backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSeedService(t *testing.T) (*SeedService, *gorm.DB, string) {
	t.Helper()
	db := newTestDB(t)
	cfg, _ := newTestConfig(t)
	cfg.SeedRoot = t.TempDir()
	backend, err := storage.NewLocalBackend(cfg.LocalUploadRoot, cfg.PublicUploadBaseURL)
	require.NoError(t, err)
	return NewSeedService(db, cfg, backend), db, cfg.SeedRoot
}

func writeSeedSource(t *testing.T, seedRoot, env, kind string, records interface{}) {
	t.Helper()
	dir := filepath.Join(seedRoot, env)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, kind+".json"), data, 0o644))
}

func writeSeedMedia(t *testing.T, seedRoot, name string, content []byte) {
	t.Helper()
	dir := filepath.Join(seedRoot, "media")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
}

func TestReconcileGalleryScenario(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	writeSeedSource(t, seedRoot, "shared", "gallery", []map[string]interface{}{
		{"id": "g1", "title": "Opening", "path": "opening.jpg"},
		{"id": "g2", "title": "Workshop", "path": "workshop.jpg"},
	})
	writeSeedMedia(t, seedRoot, "opening.jpg", []byte("jpeg one"))
	writeSeedMedia(t, seedRoot, "workshop.jpg", []byte("jpeg two"))

	report, err := svc.Reconcile(context.Background(), KindGallery, "development")
	require.NoError(t, err)
	require.Equal(t, 2, report.Merged)
	require.Equal(t, 2, report.Inserted)
	require.Equal(t, 2, report.FilesCopied)
	require.Zero(t, report.FilesSkipped)

	var items []models.GalleryItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Contains(t, item.Path, "/uploads/images/")
	}

	// Second run: same row count, nothing copied, both files skipped.
	report, err = svc.Reconcile(context.Background(), KindGallery, "development")
	require.NoError(t, err)
	require.Zero(t, report.Inserted)
	require.Zero(t, report.FilesCopied)
	require.Equal(t, 2, report.FilesSkipped)

	var count int64
	require.NoError(t, db.Model(&models.GalleryItem{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestReconcileMergesSourcesWithDuplicateIDs(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	writeSeedSource(t, seedRoot, "shared", "members", []map[string]interface{}{
		{"id": "jane", "name": "Jane Doe", "role": "Director"},
	})
	writeSeedSource(t, seedRoot, "development", "members", []map[string]interface{}{
		{"id": "jane", "name": "Jane Doe (dev)", "role": "Director"},
		{"id": "john", "name": "John Smith", "role": "Researcher"},
	})

	report, err := svc.Reconcile(context.Background(), KindMembers, "development")
	require.NoError(t, err)
	require.Equal(t, 2, report.Merged)
	require.Equal(t, 1, report.Duplicates)
	require.NotEmpty(t, report.Warnings)

	// First occurrence wins.
	var jane models.Member
	require.NoError(t, db.First(&jane, "id = ?", "jane").Error)
	require.Equal(t, "Jane Doe", jane.Name)
}

func TestReconcileValidationIsFatalForKind(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	writeSeedSource(t, seedRoot, "shared", "members", []map[string]interface{}{
		{"id": "jane", "name": "Jane Doe", "role": "Director"},
		{"id": "nameless", "role": "Researcher"},
	})

	_, err := svc.Reconcile(context.Background(), KindMembers, "development")
	var vErr *SeedValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "members", vErr.Kind)
	require.Equal(t, "name", vErr.Field)
	require.Equal(t, "nameless", vErr.RecordID)

	// All-or-nothing: the valid record must not have been inserted either.
	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestReconcileMissingFileIsAWarningNotAnError(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	writeSeedSource(t, seedRoot, "shared", "members", []map[string]interface{}{
		{"id": "jane", "name": "Jane Doe", "role": "Director", "photo": "missing.jpg"},
	})

	report, err := svc.Reconcile(context.Background(), KindMembers, "development")
	require.NoError(t, err)
	require.Equal(t, 1, report.Inserted)
	require.Equal(t, 1, report.FilesMissing)
	require.NotEmpty(t, report.Warnings)

	// The dangling reference stays as-is; rendering tolerates it downstream.
	var jane models.Member
	require.NoError(t, db.First(&jane, "id = ?", "jane").Error)
	require.Equal(t, "missing.jpg", jane.PhotoPath)
}

func TestReconcileResolvesFromCategoryDirectory(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	writeSeedSource(t, seedRoot, "shared", "publications", []map[string]interface{}{
		{"id": "p1", "title": "Annual Report", "filePath": "Annual Report (2024).pdf"},
	})
	dir := filepath.Join(seedRoot, "media", "documents")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Annual Report (2024).pdf"), []byte("%PDF"), 0o644))

	report, err := svc.Reconcile(context.Background(), KindPublications, "development")
	require.NoError(t, err)
	require.Equal(t, 1, report.FilesCopied)

	// Keys are sanitized before either backend sees them.
	var pub models.Publication
	require.NoError(t, db.First(&pub, "id = ?", "p1").Error)
	require.Equal(t, "/uploads/documents/annual-report-2024.pdf", pub.FilePath)
}

func TestReconcileRejectsUnknownKind(t *testing.T) {
	svc, _, _ := newTestSeedService(t)

	// A mistyped kind has no source files, so without the up-front check it
	// would succeed with an empty report.
	_, err := svc.Reconcile(context.Background(), Kind("podcasts"), "development")
	require.Error(t, err)
}

func TestReconcileMissingSourcesYieldEmptyReport(t *testing.T) {
	svc, _, _ := newTestSeedService(t)

	report, err := svc.Reconcile(context.Background(), KindEvents, "development")
	require.NoError(t, err)
	require.Zero(t, report.Merged)
	require.Zero(t, report.Inserted)
}

func TestReconcileAllContinuesPastFatalKind(t *testing.T) {
	svc, db, seedRoot := newTestSeedService(t)

	// members is broken, events is fine and ordered after members
	writeSeedSource(t, seedRoot, "shared", "members", []map[string]interface{}{
		{"id": "broken"},
	})
	writeSeedSource(t, seedRoot, "shared", "events", []map[string]interface{}{
		{"id": "e1", "title": "Open Day", "date": "2026-09-12"},
	})

	reports, err := svc.ReconcileAll(context.Background(), "development")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "a fatal kind must not stop later kinds")

	kinds := map[string]bool{}
	for _, r := range reports {
		kinds[r.Kind] = true
	}
	require.True(t, kinds["events"])
	require.False(t, kinds["members"])
}
