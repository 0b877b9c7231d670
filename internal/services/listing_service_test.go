package services_test

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"
)

func listingFixture(t *testing.T) (*repos.ListingRepo, *services.ListingService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	r := repos.NewListingRepo(db)
	return r, services.NewListingService(r, "/media")
}

func TestResolveImageURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"listings/l-1/cover.jpg", "/media/listings/l-1/cover.jpg"},
		{"/media/listings/l-1/cover.jpg", "/media/listings/l-1/cover.jpg"},
		{"https://cdn.example.com/cover.jpg", "https://cdn.example.com/cover.jpg"},
	}
	for _, tc := range cases {
		if got := services.ResolveImageURL("/media", tc.in); got != tc.want {
			t.Fatalf("ResolveImageURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	// idempotent: resolving a resolved URL changes nothing
	once := services.ResolveImageURL("/media", "listings/l-1/cover.jpg")
	if twice := services.ResolveImageURL("/media", once); twice != once {
		t.Fatalf("resolution not idempotent: %q vs %q", once, twice)
	}
}

func TestListingService_ViewShape(t *testing.T) {
	r, svc := listingFixture(t)
	err := r.Create(domain.Listing{
		ID:          "l-1",
		UserID:      "u-seller",
		Brand:       "HP",
		Model:       "Victus",
		StorageJSON: `[{"Model":"SN530","Size_GB":512,"Type":"SSD","BusType":"NVMe"}]`,
		ImagesJSON:  `["listings/l-1/cover.jpg","https://cdn.example.com/side.jpg"]`,
		Price:       sql.NullFloat64{Float64: 799, Valid: true},
		Status:      domain.ListingPublished,
	})
	if err != nil {
		t.Fatal(err)
	}

	views, err := svc.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 view, got %d", len(views))
	}
	v := views[0]
	if v.ImageURL != "/media/listings/l-1/cover.jpg" {
		t.Fatalf("cover not resolved: %q", v.ImageURL)
	}
	if len(v.Images) != 2 || v.Images[1] != "https://cdn.example.com/side.jpg" {
		t.Fatalf("images mismatch: %+v", v.Images)
	}
	if len(v.Storage) != 1 || v.Storage[0].SizeGB != 512 {
		t.Fatalf("storage mismatch: %+v", v.Storage)
	}
	if v.Price == nil || *v.Price != 799 {
		t.Fatalf("price mismatch: %+v", v.Price)
	}
}

func TestListingService_UpdateEnforcesOwnership(t *testing.T) {
	r, svc := listingFixture(t)
	if err := r.Create(domain.Listing{ID: "l-1", UserID: "u-seller", Brand: "HP", Status: domain.ListingPublished}); err != nil {
		t.Fatal(err)
	}

	brand := "HP Inc."
	patch := domain.ListingPatch{Brand: &brand}

	stranger := &domain.User{ID: "u-other", Role: "USER"}
	if _, err := svc.Update(stranger, "l-1", patch); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("want ErrForbidden for non-owner, got %v", err)
	}

	owner := &domain.User{ID: "u-seller", Role: "USER"}
	v, err := svc.Update(owner, "l-1", patch)
	if err != nil {
		t.Fatal(err)
	}
	if v.Brand != "HP Inc." {
		t.Fatalf("owner update not applied: %+v", v)
	}

	admin := &domain.User{ID: "u-admin", Role: "ADMIN"}
	if _, err := svc.Update(admin, "l-1", patch); err != nil {
		t.Fatalf("admin should bypass ownership, got %v", err)
	}
}

func TestListingService_MarkSold(t *testing.T) {
	r, svc := listingFixture(t)
	if err := r.Create(domain.Listing{ID: "l-1", UserID: "u-seller", Status: domain.ListingPublished}); err != nil {
		t.Fatal(err)
	}
	owner := &domain.User{ID: "u-seller", Role: "USER"}
	if err := svc.MarkSold(owner, "l-1"); err != nil {
		t.Fatal(err)
	}
	views, err := svc.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Fatalf("sold listing still in catalog: %+v", views)
	}
}
