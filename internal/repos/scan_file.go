package repos

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"royalsmart/internal/domain"
)

// FileScanStore is the flat-file ScanStore: a single JSON object keyed by
// scan id, each value a full record. Meant for single-process/dev use; the
// mutex serializes the read-modify-write cycle so concurrent writers within
// this process cannot lose updates.
type FileScanStore struct {
	mu   sync.Mutex
	path string
}

// NewFileScanStore creates the data directory and an empty store file ({})
// if absent. Done here, once, rather than as an import side effect.
func NewFileScanStore(path string) (*FileScanStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return &FileScanStore{path: path}, nil
}

func (s *FileScanStore) read() (map[string]domain.ScanRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	m := map[string]domain.ScanRecord{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *FileScanStore) write(m map[string]domain.ScanRecord) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileScanStore) Put(id string, rec domain.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	rec.ID = id
	if rec.Status == "" {
		rec.Status = domain.ScanPending
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = nowISO()
	}
	if rec.Storage == nil {
		rec.Storage = []domain.StorageDevice{}
	}
	m[id] = rec
	return s.write(m)
}

func (s *FileScanStore) Get(id string) (*domain.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := m[id]
	if !ok {
		return nil, ErrScanNotFound
	}
	if rec.Status == domain.ScanPublished {
		return nil, ErrScanPublished
	}
	return &rec, nil
}

func (s *FileScanStore) GetLatest() (*domain.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	var latest *domain.ScanRecord
	for id := range m {
		rec := m[id]
		if rec.Status == domain.ScanPublished {
			continue
		}
		if latest == nil || rec.CreatedAt > latest.CreatedAt {
			cp := rec
			latest = &cp
		}
	}
	if latest == nil {
		return nil, ErrScanNotFound
	}
	return latest, nil
}

func (s *FileScanStore) GetAll() ([]domain.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ScanRecord, 0, len(m))
	for id := range m {
		out = append(out, m[id])
	}
	return out, nil
}

func (s *FileScanStore) Update(id string, patch domain.ScanPatch) (*domain.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := m[id]
	if !ok {
		return nil, ErrScanNotFound
	}
	patch.Apply(&rec)
	rec.UpdatedAt = nowISO()
	m[id] = rec
	if err := s.write(m); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileScanStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return s.write(m)
}
