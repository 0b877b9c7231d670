package repos_test

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
)

func listingRepo(t *testing.T) *repos.ListingRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return repos.NewListingRepo(db)
}

func sampleListing(id, status, createdAt string) domain.Listing {
	return domain.Listing{
		ID:          id,
		UserID:      "u-seller",
		Title:       "HP Victus",
		Brand:       "HP",
		Model:       "Victus",
		CPU:         "Ryzen 5 5600H",
		RAMGB:       "16",
		RAMType:     "DDR4",
		RAMSpeedMHz: "3200",
		GPU:         "RTX 3050",
		OS:          "Windows 11",
		Price:       sql.NullFloat64{Float64: 799, Valid: true},
		Status:      status,
		CreatedAt:   createdAt,
	}
}

func TestListingRepo_CreateAndGet(t *testing.T) {
	r := listingRepo(t)
	if err := r.Create(sampleListing("l-1", domain.ListingPublished, "2025-01-01T00:00:00Z")); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get("l-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Brand != "HP" || got.Status != domain.ListingPublished || !got.Price.Valid || got.Price.Float64 != 799 {
		t.Fatalf("unexpected listing: %+v", got)
	}

	if _, err := r.Get("missing"); !errors.Is(err, repos.ErrListingNotFound) {
		t.Fatalf("want ErrListingNotFound, got %v", err)
	}
}

func TestListingRepo_ListPublishedFiltersAndOrders(t *testing.T) {
	r := listingRepo(t)
	rows := []domain.Listing{
		sampleListing("l-draft", domain.ListingDraft, "2025-04-01T00:00:00Z"),
		sampleListing("l-sold", domain.ListingSold, "2025-03-01T00:00:00Z"),
		sampleListing("l-old", domain.ListingPublished, "2025-01-01T00:00:00Z"),
		sampleListing("l-new", domain.ListingPublished, "2025-02-01T00:00:00Z"),
	}
	for _, l := range rows {
		if err := r.Create(l); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 published rows, got %d", len(got))
	}
	if got[0].ID != "l-new" || got[1].ID != "l-old" {
		t.Fatalf("want newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestListingRepo_UpdateFields(t *testing.T) {
	r := listingRepo(t)
	if err := r.Create(sampleListing("l-1", domain.ListingPublished, "2025-01-01T00:00:00Z")); err != nil {
		t.Fatal(err)
	}

	gpu := "RTX 4060"
	price := 899.0
	got, err := r.UpdateFields("l-1", domain.ListingPatch{GPU: &gpu, Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if got.GPU != "RTX 4060" || got.Price.Float64 != 899 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Brand != "HP" || got.RAMGB != "16" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Fatal("updated_at should be stamped on update")
	}

	if _, err := r.UpdateFields("missing", domain.ListingPatch{GPU: &gpu}); !errors.Is(err, repos.ErrListingNotFound) {
		t.Fatalf("want ErrListingNotFound, got %v", err)
	}
}

func TestListingRepo_SetStatus(t *testing.T) {
	r := listingRepo(t)
	if err := r.Create(sampleListing("l-1", domain.ListingPublished, "2025-01-01T00:00:00Z")); err != nil {
		t.Fatal(err)
	}
	if err := r.SetStatus("l-1", domain.ListingSold); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get("l-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.ListingSold {
		t.Fatalf("want sold, got %s", got.Status)
	}

	published, err := r.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 0 {
		t.Fatalf("sold listing still published: %+v", published)
	}
}
