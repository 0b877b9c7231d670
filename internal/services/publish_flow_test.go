package services_test

import (
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"
)

func publishFixture(t *testing.T) (repos.ScanStore, *repos.ListingRepo, *services.PublishService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	scans := repos.NewScanRepo(db)
	listings := repos.NewListingRepo(db)
	return scans, listings, services.NewPublishService(scans, listings)
}

func TestPublish_HappyPath(t *testing.T) {
	scans, listings, svc := publishFixture(t)

	if err := scans.Put("scan-1", domain.ScanRecord{
		Brand:     "HP",
		Model:     "Victus",
		Status:    domain.ScanPending,
		CreatedAt: "2025-01-01T00:00:00Z",
	}); err != nil {
		t.Fatal(err)
	}

	price := 799.0
	updated, err := svc.Publish("u-seller", "scan-1", "", &price, domain.ScanPatch{})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.ScanPublished {
		t.Fatalf("want published, got %s", updated.Status)
	}
	if updated.Title != "HP Victus" {
		t.Fatalf("want defaulted title, got %q", updated.Title)
	}
	if updated.Price != "799" {
		t.Fatalf("want price 799, got %q", updated.Price)
	}
	if updated.PublishedAt == "" {
		t.Fatal("publishedAt should be stamped")
	}

	// the scan is no longer retrievable as a scan
	if _, err := scans.Get("scan-1"); !errors.Is(err, repos.ErrScanNotFound) {
		t.Fatalf("published scan still visible: %v", err)
	}

	// the listing reuses the scan id and carries the commerce fields
	l, err := listings.Get("scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if l.Status != domain.ListingPublished || l.UserID != "u-seller" {
		t.Fatalf("unexpected listing: %+v", l)
	}
	if !l.Price.Valid || l.Price.Float64 != 799 {
		t.Fatalf("listing price mismatch: %+v", l.Price)
	}
	if l.Brand != "HP" || l.Model != "Victus" {
		t.Fatalf("hardware fields not copied: %+v", l)
	}
}

func TestPublish_UnknownScan(t *testing.T) {
	_, listings, svc := publishFixture(t)

	if _, err := svc.Publish("u-seller", "nope", "", nil, domain.ScanPatch{}); !errors.Is(err, repos.ErrScanNotFound) {
		t.Fatalf("want ErrScanNotFound, got %v", err)
	}
	// and no listing materialized
	if _, err := listings.Get("nope"); !errors.Is(err, repos.ErrListingNotFound) {
		t.Fatalf("phantom listing created: %v", err)
	}
}

func TestPublish_TwiceCollapsesToNotFound(t *testing.T) {
	scans, _, svc := publishFixture(t)

	if err := scans.Put("scan-1", domain.ScanRecord{Brand: "Dell", Model: "XPS 13", Status: domain.ScanPending}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish("u-seller", "scan-1", "", nil, domain.ScanPatch{}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Publish("u-seller", "scan-1", "", nil, domain.ScanPatch{})
	if !errors.Is(err, repos.ErrScanNotFound) {
		t.Fatalf("second publish should be not-found, got %v", err)
	}
	if !errors.Is(err, repos.ErrScanPublished) {
		t.Fatalf("internally it should still read as already-published, got %v", err)
	}
}

func TestPublish_ExtrasMergeAndTitleOverride(t *testing.T) {
	scans, _, svc := publishFixture(t)

	if err := scans.Put("scan-1", domain.ScanRecord{Brand: "HP", Model: "Victus", GPU: "RTX 3050", Status: domain.ScanPending}); err != nil {
		t.Fatal(err)
	}
	gpu := "RTX 3050 Ti"
	updated, err := svc.Publish("u-seller", "scan-1", "HP Victus (refurb)", nil, domain.ScanPatch{GPU: &gpu})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "HP Victus (refurb)" {
		t.Fatalf("caller title should win, got %q", updated.Title)
	}
	if updated.GPU != "RTX 3050 Ti" {
		t.Fatalf("extras not merged, got %q", updated.GPU)
	}
	if updated.Price != "" {
		t.Fatalf("unset price should store empty, got %q", updated.Price)
	}
}
