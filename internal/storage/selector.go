package storage

import (
	"log"
	"sync"

	"github.com/portico/backend/internal/config"
)

// Selector decides between the S3 and local disk backends. The decision is a
// pure function of configuration and is evaluated at most once per process:
// switching backends mid-run would split an asset and its thumbnail across two
// stores, so every caller sharing a Selector sees the same Backend value.
type Selector struct {
	cfg *config.Config

	once    sync.Once
	backend Backend
	err     error
}

func NewSelector(cfg *config.Config) *Selector {
	return &Selector{cfg: cfg}
}

// Backend returns the process-wide backend, constructing it on first use.
// S3 is chosen only when the full credential set (endpoint, access key,
// secret key) is present; anything missing falls back to local disk.
func (s *Selector) Backend() (Backend, error) {
	s.once.Do(func() {
		if s.cfg.ObjectStorageConfigured() {
			backend, err := NewS3Backend(s.cfg)
			if err != nil {
				s.err = err
				return
			}
			log.Printf("storage: object storage backend selected (endpoint=%s)", s.cfg.StorageS3Endpoint)
			s.backend = backend
			return
		}
		backend, err := NewLocalBackend(s.cfg.LocalUploadRoot, s.cfg.PublicUploadBaseURL)
		if err != nil {
			s.err = err
			return
		}
		log.Printf("storage: local disk backend selected (root=%s)", s.cfg.LocalUploadRoot)
		s.backend = backend
	})
	return s.backend, s.err
}
