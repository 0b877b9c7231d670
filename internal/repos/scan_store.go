package repos

import (
	"errors"
	"fmt"

	"royalsmart/internal/domain"
)

// ErrScanNotFound is returned when a scan id does not resolve to a visible
// record. ErrScanPublished wraps it: published scans have logically moved to
// the listings domain and are equally invisible to scan lookups, but callers
// that care (logging, metrics) can tell the two apart with errors.Is.
var (
	ErrScanNotFound  = errors.New("scan not found")
	ErrScanPublished = fmt.Errorf("%w: already published", ErrScanNotFound)
)

// ScanStore persists hardware scan records keyed by id. Two interchangeable
// implementations exist: sqlite-backed (ScanRepo) and JSON-file-backed
// (FileScanStore); the active one is chosen at startup by config.
//
// Contract notes:
//   - Get/GetLatest never return records with status=published; they report
//     ErrScanNotFound (or the wrapping ErrScanPublished) instead.
//   - Update merges only the set fields of the patch.
//   - Delete is idempotent.
type ScanStore interface {
	Put(id string, rec domain.ScanRecord) error
	Get(id string) (*domain.ScanRecord, error)
	GetLatest() (*domain.ScanRecord, error)
	GetAll() ([]domain.ScanRecord, error)
	Update(id string, patch domain.ScanPatch) (*domain.ScanRecord, error)
	Delete(id string) error
}
