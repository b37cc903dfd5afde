package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the upload pipeline. Handlers branch on these with
// errors.Is and surface them verbatim to the submitting form.
var (
	ErrTypeNotAllowed   = errors.New("content type not allowed")
	ErrSizeExceeded     = errors.New("file exceeds the size limit")
	ErrDuplicateContent = errors.New("identical file content is already stored")
)

// UploadError wraps a pipeline failure with the file context needed to act on
// it in logs and form-level messages.
type UploadError struct {
	Filename    string
	ContentType string
	Err         error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q (%s) rejected: %v", e.Filename, e.ContentType, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// SeedValidationError is fatal for the kind being reconciled: a record is
// missing a required field, and partially seeded state is worse than a clear
// startup failure.
type SeedValidationError struct {
	Kind     string
	RecordID string
	Field    string
}

func (e *SeedValidationError) Error() string {
	return fmt.Sprintf("seed validation failed for kind %s: record %q is missing required field %q", e.Kind, e.RecordID, e.Field)
}

// BulkInsertError is fatal for the kind being reconciled.
type BulkInsertError struct {
	Kind string
	Err  error
}

func (e *BulkInsertError) Error() string {
	return fmt.Sprintf("bulk insert failed for kind %s: %v", e.Kind, e.Err)
}

func (e *BulkInsertError) Unwrap() error { return e.Err }
