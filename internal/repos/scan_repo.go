package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"royalsmart/internal/domain"
)

// ScanRepo is the sqlite-backed ScanStore.
type ScanRepo struct{ db *sqlx.DB }

func NewScanRepo(db *sqlx.DB) *ScanRepo { return &ScanRepo{db: db} }

const scanCols = `
  id, brand, model, cpu, cores, threads, base_speed_mhz,
  ram_gb, ram_speed_mhz, ram_type, storage_json, gpu,
  display_resolution, screen_size_inch, os, scan_time,
  title, price, status, published_at, created_at,
  COALESCE(updated_at,'') AS updated_at`

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

func packStorage(rec *domain.ScanRecord) {
	if rec.Storage == nil {
		rec.Storage = []domain.StorageDevice{}
	}
	b, _ := json.Marshal(rec.Storage)
	rec.StorageJSON = string(b)
}

func unpackStorage(rec *domain.ScanRecord) {
	rec.Storage = []domain.StorageDevice{}
	if rec.StorageJSON != "" {
		_ = json.Unmarshal([]byte(rec.StorageJSON), &rec.Storage)
	}
}

// Put creates or fully replaces the record at id. Store-assigned defaults:
// created_at when absent, status pending when absent.
func (r *ScanRepo) Put(id string, rec domain.ScanRecord) error {
	rec.ID = id
	if rec.Status == "" {
		rec.Status = domain.ScanPending
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = nowISO()
	}
	packStorage(&rec)
	_, err := r.db.NamedExec(`
	  INSERT OR REPLACE INTO scans(
	    id, brand, model, cpu, cores, threads, base_speed_mhz,
	    ram_gb, ram_speed_mhz, ram_type, storage_json, gpu,
	    display_resolution, screen_size_inch, os, scan_time,
	    title, price, status, published_at, created_at, updated_at
	  ) VALUES (
	    :id, :brand, :model, :cpu, :cores, :threads, :base_speed_mhz,
	    :ram_gb, :ram_speed_mhz, :ram_type, :storage_json, :gpu,
	    :display_resolution, :screen_size_inch, :os, :scan_time,
	    :title, :price, :status, :published_at, :created_at, :updated_at
	  )`, rec)
	return err
}

// Get returns the record at id. Published scans are not scans anymore; they
// come back as ErrScanPublished, which callers treat as not-found.
func (r *ScanRepo) Get(id string) (*domain.ScanRecord, error) {
	var rec domain.ScanRecord
	err := r.db.Get(&rec, `SELECT `+scanCols+` FROM scans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.ScanPublished {
		return nil, ErrScanPublished
	}
	unpackStorage(&rec)
	return &rec, nil
}

// GetLatest returns the newest non-published record by created_at.
func (r *ScanRepo) GetLatest() (*domain.ScanRecord, error) {
	var rec domain.ScanRecord
	err := r.db.Get(&rec, `
	  SELECT `+scanCols+` FROM scans
	  WHERE status != ?
	  ORDER BY created_at DESC
	  LIMIT 1`, domain.ScanPublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	unpackStorage(&rec)
	return &rec, nil
}

// GetAll returns every record regardless of status; callers re-sort.
func (r *ScanRepo) GetAll() ([]domain.ScanRecord, error) {
	var out []domain.ScanRecord
	if err := r.db.Select(&out, `SELECT `+scanCols+` FROM scans`); err != nil {
		return nil, err
	}
	for i := range out {
		unpackStorage(&out[i])
	}
	return out, nil
}

// Update merges the set fields of patch into the stored record and returns
// the result. Unlike Get it sees published rows: the publish pipeline is the
// one writer that flips a row across that boundary.
func (r *ScanRepo) Update(id string, patch domain.ScanPatch) (*domain.ScanRecord, error) {
	var rec domain.ScanRecord
	err := r.db.Get(&rec, `SELECT `+scanCols+` FROM scans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	unpackStorage(&rec)

	patch.Apply(&rec)
	rec.UpdatedAt = nowISO()
	packStorage(&rec)

	if _, err := r.db.NamedExec(`
	  UPDATE scans SET
	    brand=:brand, model=:model, cpu=:cpu, cores=:cores, threads=:threads,
	    base_speed_mhz=:base_speed_mhz, ram_gb=:ram_gb, ram_speed_mhz=:ram_speed_mhz,
	    ram_type=:ram_type, storage_json=:storage_json, gpu=:gpu,
	    display_resolution=:display_resolution, screen_size_inch=:screen_size_inch,
	    os=:os, scan_time=:scan_time, title=:title, price=:price,
	    status=:status, published_at=:published_at, updated_at=:updated_at
	  WHERE id=:id`, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes the record; deleting an unknown id is not an error.
func (r *ScanRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM scans WHERE id = ?`, id)
	return err
}
