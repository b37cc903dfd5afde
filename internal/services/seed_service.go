package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/portico/backend/internal/config"
	"github.com/portico/backend/internal/storage"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadReport summarizes one reconciliation pass for a kind.
type LoadReport struct {
	Kind       string   `json:"kind"`
	Merged     int      `json:"merged"`
	Duplicates int      `json:"duplicates"`
	Inserted   int      `json:"inserted"`

	FilesCopied  int `json:"files_copied"`
	FilesSkipped int `json:"files_skipped"`
	FilesMissing int `json:"files_missing"`
	FilesErrored int `json:"files_errored"`

	Warnings []string `json:"warnings,omitempty"`
}

func (r *LoadReport) String() string {
	return fmt.Sprintf("%s: merged=%d duplicates=%d inserted=%d files copied=%d skipped=%d missing=%d errored=%d warnings=%d",
		r.Kind, r.Merged, r.Duplicates, r.Inserted, r.FilesCopied, r.FilesSkipped, r.FilesMissing, r.FilesErrored, len(r.Warnings))
}

// SeedService performs idempotent bulk loading of seed records and their
// referenced media files. A reconciliation pass for a kind is all-or-nothing
// on the relational side: validation and insert failures abort the kind before
// any row is written. Individual file copy failures are recoverable and only
// recorded in the report.
type SeedService struct {
	db      *gorm.DB
	cfg     *config.Config
	backend storage.Backend
}

func NewSeedService(db *gorm.DB, cfg *config.Config, backend storage.Backend) *SeedService {
	return &SeedService{db: db, cfg: cfg, backend: backend}
}

// Reconcile merges the seed sources for kind, validates every record,
// materializes referenced files on the active backend and bulk-inserts the
// rows with conflict-ignore semantics so repeated runs neither fail nor
// duplicate.
func (s *SeedService) Reconcile(ctx context.Context, kind Kind, env string) (*LoadReport, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	report := &LoadReport{Kind: string(kind)}

	records, err := s.mergeSources(kind, env, report)
	if err != nil {
		return nil, err
	}
	report.Merged = len(records)

	for _, rec := range records {
		if err := rec.Validate(kind); err != nil {
			return nil, err
		}
	}

	if err := s.materializeFiles(ctx, records, report); err != nil {
		return nil, err
	}

	if len(records) > 0 {
		rows, err := buildRows(kind, records)
		if err != nil {
			return nil, &BulkInsertError{Kind: string(kind), Err: err}
		}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows)
		if res.Error != nil {
			return nil, &BulkInsertError{Kind: string(kind), Err: res.Error}
		}
		report.Inserted = int(res.RowsAffected)
	}

	return report, nil
}

// ReconcileAll runs every kind in dependency order. A fatal error in one kind
// is logged and does not stop later kinds; the first error is returned after
// all kinds ran.
func (s *SeedService) ReconcileAll(ctx context.Context, env string) ([]*LoadReport, error) {
	var reports []*LoadReport
	var firstErr error
	for _, kind := range KindOrder {
		report, err := s.Reconcile(ctx, kind, env)
		if err != nil {
			log.Printf("seed: reconcile %s failed: %v", kind, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Printf("seed: %s", report)
		reports = append(reports, report)
	}
	return reports, firstErr
}

// mergeSources concatenates the shared source and the environment-specific
// source for kind, deduplicating by record id. The first occurrence wins and
// later duplicates are demoted to warnings.
func (s *SeedService) mergeSources(kind Kind, env string, report *LoadReport) ([]seedRecord, error) {
	sources := []string{
		filepath.Join(s.cfg.SeedRoot, "shared", string(kind)+".json"),
		filepath.Join(s.cfg.SeedRoot, env, string(kind)+".json"),
	}

	seen := map[string]bool{}
	var merged []seedRecord
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read seed source %s: %w", src, err)
		}
		records, err := decodeSeedRecords(kind, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		for _, rec := range records {
			if seen[rec.RecordID()] {
				report.Duplicates++
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("duplicate id %q in %s, keeping first occurrence", rec.RecordID(), src))
				continue
			}
			seen[rec.RecordID()] = true
			merged = append(merged, rec)
		}
	}
	return merged, nil
}

// materializeFiles resolves and uploads/copies every file reference. Files are
// independent of each other, so the work fans out across a bounded worker
// group; only context cancellation aborts the pass.
func (s *SeedService) materializeFiles(ctx context.Context, records []seedRecord, report *LoadReport) error {
	var refs []fileRef
	for _, rec := range records {
		refs = append(refs, rec.FileRefs()...)
	}
	if len(refs) == 0 {
		return nil
	}

	workers := s.cfg.SeedWorkers
	if workers <= 0 {
		workers = 4
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, url, warn := s.materializeOne(gctx, ref)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case fileCopied:
				report.FilesCopied++
				*ref.Path = url
			case fileSkipped:
				report.FilesSkipped++
				*ref.Path = url
			case fileMissing:
				report.FilesMissing++
				report.Warnings = append(report.Warnings, warn)
			case fileErrored:
				report.FilesErrored++
				report.Warnings = append(report.Warnings, warn)
			}
			return nil
		})
	}
	return g.Wait()
}

type fileOutcome int

const (
	fileCopied fileOutcome = iota
	fileSkipped
	fileMissing
	fileErrored
)

func (s *SeedService) materializeOne(ctx context.Context, ref fileRef) (fileOutcome, string, string) {
	name := filepath.Base(filepath.FromSlash(*ref.Path))
	key := storage.SanitizeFilename(name)
	contentType := contentTypeForSeedFile(name)
	// Same routing table as the upload pipeline, so seeded files land next to
	// interactively uploaded ones.
	category := storage.CategoryFor(contentType, name)

	// Seed files keep their (sanitized) names as keys, so a re-run finds the
	// object from the previous run and skips it.
	exists, err := s.backend.Exists(ctx, key, category)
	if err != nil {
		return fileErrored, "", fmt.Sprintf("failed to check %s on %s backend: %v", key, s.backend.Name(), err)
	}
	if exists {
		return fileSkipped, s.backend.PublicURL(key, category), ""
	}

	src := s.resolveCandidate(name, category)
	if src == "" {
		return fileMissing, "", fmt.Sprintf("referenced file %q not found in any candidate directory", *ref.Path)
	}

	f, err := os.Open(src)
	if err != nil {
		return fileErrored, "", fmt.Sprintf("failed to open %s: %v", src, err)
	}
	defer f.Close()

	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageWriteTimeout)
	defer cancel()
	obj, err := s.backend.Store(writeCtx, key, f, contentType, category)
	if err != nil {
		return fileErrored, "", fmt.Sprintf("failed to store %s on %s backend: %v", src, s.backend.Name(), err)
	}
	return fileCopied, obj.PublicURL, ""
}

// resolveCandidate searches the ordered candidate directories for a file with
// the referenced name. The first match wins.
func (s *SeedService) resolveCandidate(name string, category storage.Category) string {
	candidates := []string{
		filepath.Join(s.cfg.SeedRoot, "media"),
		filepath.Join(s.cfg.SeedRoot, "media", string(category)),
		filepath.Join(s.cfg.SeedRoot, "fixtures"),
	}
	for _, dir := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func contentTypeForSeedFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
