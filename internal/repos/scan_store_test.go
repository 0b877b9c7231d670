package repos_test

import (
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
)

// Both ScanStore backends must satisfy the same contract; every test here
// runs against each.
func scanBackends(t *testing.T) map[string]repos.ScanStore {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	fs, err := repos.NewFileScanStore(filepath.Join(t.TempDir(), "scans.json"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]repos.ScanStore{
		"db":   repos.NewScanRepo(db),
		"file": fs,
	}
}

func sampleScan() domain.ScanRecord {
	return domain.ScanRecord{
		Brand:        "HP",
		Model:        "Victus",
		CPU:          "Ryzen 5 5600H",
		Cores:        "6",
		Threads:      "12",
		BaseSpeedMHz: "3300",
		RAMGB:        "16",
		RAMType:      "DDR4",
		RAMSpeedMHz:  "3200",
		Storage: []domain.StorageDevice{
			{Model: "SN530", SizeGB: 512, Type: "SSD", BusType: "NVMe"},
		},
		GPU:               "RTX 3050",
		DisplayResolution: "1920x1080",
		ScreenSizeInch:    15.6,
		OS:                "Windows 11",
		ScanTime:          "2025-01-01T10:00:00Z",
		Status:            domain.ScanPending,
		CreatedAt:         "2025-01-01T00:00:00Z",
	}
}

func TestScanStore_PutThenGet(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("scan-1", sampleScan()); err != nil {
				t.Fatal(err)
			}
			got, err := store.Get("scan-1")
			if err != nil {
				t.Fatal(err)
			}
			want := sampleScan()
			if got.Brand != want.Brand || got.Model != want.Model || got.CPU != want.CPU ||
				got.RAMGB != want.RAMGB || got.OS != want.OS || got.ScanTime != want.ScanTime ||
				got.CreatedAt != want.CreatedAt || got.Status != domain.ScanPending {
				t.Fatalf("round trip mismatch: %+v", got)
			}
			if len(got.Storage) != 1 || got.Storage[0].SizeGB != 512 || got.Storage[0].BusType != "NVMe" {
				t.Fatalf("storage mismatch: %+v", got.Storage)
			}
		})
	}
}

func TestScanStore_GetUnknownIsAbsent(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("nope")
			if !errors.Is(err, repos.ErrScanNotFound) {
				t.Fatalf("want ErrScanNotFound, got %v", err)
			}
		})
	}
}

func TestScanStore_PublishedIsInvisible(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleScan()
			rec.Status = domain.ScanPublished
			if err := store.Put("scan-pub", rec); err != nil {
				t.Fatal(err)
			}
			_, err := store.Get("scan-pub")
			if !errors.Is(err, repos.ErrScanNotFound) {
				t.Fatalf("want not-found for published scan, got %v", err)
			}
			if !errors.Is(err, repos.ErrScanPublished) {
				t.Fatalf("want the published flavor internally, got %v", err)
			}
		})
	}
}

func TestScanStore_GetLatest(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			old := sampleScan()
			old.CreatedAt = "2025-01-01T00:00:00Z"
			newer := sampleScan()
			newer.Model = "Pavilion"
			newer.CreatedAt = "2025-02-01T00:00:00Z"
			published := sampleScan()
			published.Status = domain.ScanPublished
			published.CreatedAt = "2025-03-01T00:00:00Z"

			if err := store.Put("s-old", old); err != nil {
				t.Fatal(err)
			}
			if err := store.Put("s-new", newer); err != nil {
				t.Fatal(err)
			}
			if err := store.Put("s-pub", published); err != nil {
				t.Fatal(err)
			}

			got, err := store.GetLatest()
			if err != nil {
				t.Fatal(err)
			}
			if got.ID != "s-new" {
				t.Fatalf("want newest non-published s-new, got %s", got.ID)
			}
		})
	}
}

func TestScanStore_GetLatestAllPublished(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleScan()
			rec.Status = domain.ScanPublished
			if err := store.Put("s-1", rec); err != nil {
				t.Fatal(err)
			}
			if _, err := store.GetLatest(); !errors.Is(err, repos.ErrScanNotFound) {
				t.Fatalf("want not-found when everything is published, got %v", err)
			}
		})
	}
}

func TestScanStore_GetAllSeesEveryStatus(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			pending := sampleScan()
			published := sampleScan()
			published.Status = domain.ScanPublished
			if err := store.Put("s-a", pending); err != nil {
				t.Fatal(err)
			}
			if err := store.Put("s-b", published); err != nil {
				t.Fatal(err)
			}
			all, err := store.GetAll()
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 2 {
				t.Fatalf("want 2 records, got %d", len(all))
			}
		})
	}
}

func TestScanStore_UpdateMergesOnlySuppliedFields(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("scan-1", sampleScan()); err != nil {
				t.Fatal(err)
			}
			gpu := "RTX 4060"
			got, err := store.Update("scan-1", domain.ScanPatch{GPU: &gpu})
			if err != nil {
				t.Fatal(err)
			}
			if got.GPU != "RTX 4060" {
				t.Fatalf("patched field not applied: %+v", got)
			}
			want := sampleScan()
			if got.Brand != want.Brand || got.Model != want.Model || got.RAMGB != want.RAMGB ||
				got.CreatedAt != want.CreatedAt || got.Status != domain.ScanPending {
				t.Fatalf("untouched fields changed: %+v", got)
			}
		})
	}
}

func TestScanStore_UpdateUnknownID(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			brand := "Dell"
			if _, err := store.Update("nope", domain.ScanPatch{Brand: &brand}); !errors.Is(err, repos.ErrScanNotFound) {
				t.Fatalf("want ErrScanNotFound, got %v", err)
			}
		})
	}
}

func TestScanStore_DeleteIsIdempotent(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("scan-1", sampleScan()); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete("scan-1"); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete("scan-1"); err != nil {
				t.Fatalf("second delete should be a no-op, got %v", err)
			}
			if _, err := store.Get("scan-1"); !errors.Is(err, repos.ErrScanNotFound) {
				t.Fatalf("want not-found after delete, got %v", err)
			}
		})
	}
}

func TestScanStore_PutAssignsCreatedAt(t *testing.T) {
	for name, store := range scanBackends(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleScan()
			rec.CreatedAt = ""
			if err := store.Put("scan-1", rec); err != nil {
				t.Fatal(err)
			}
			got, err := store.Get("scan-1")
			if err != nil {
				t.Fatal(err)
			}
			if got.CreatedAt == "" {
				t.Fatal("store should assign created_at when absent")
			}
		})
	}
}
