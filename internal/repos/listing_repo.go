package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"royalsmart/internal/domain"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
  id, user_id, title, brand, model, cpu, ram_gb, ram_type, ram_speed_mhz,
  storage_json, gpu, display_resolution, screen_size_inch, os,
  price, description, images_json, status, created_at,
  COALESCE(updated_at,'') AS updated_at`

// Create inserts a listing. Only the publish pipeline calls this; created_at
// is stamped here if the caller left it empty.
func (r *ListingRepo) Create(l domain.Listing) error {
	if l.CreatedAt == "" {
		l.CreatedAt = nowISO()
	}
	if l.Status == "" {
		l.Status = domain.ListingDraft
	}
	if l.StorageJSON == "" {
		l.StorageJSON = "[]"
	}
	if l.ImagesJSON == "" {
		l.ImagesJSON = "[]"
	}
	_, err := r.db.NamedExec(`
	  INSERT INTO listings(
	    id, user_id, title, brand, model, cpu, ram_gb, ram_type, ram_speed_mhz,
	    storage_json, gpu, display_resolution, screen_size_inch, os,
	    price, description, images_json, status, created_at, updated_at
	  ) VALUES (
	    :id, :user_id, :title, :brand, :model, :cpu, :ram_gb, :ram_type, :ram_speed_mhz,
	    :storage_json, :gpu, :display_resolution, :screen_size_inch, :os,
	    :price, :description, :images_json, :status, :created_at, :updated_at
	  )`, l)
	return err
}

// Get is a point lookup; ErrListingNotFound is a distinct signal from a
// backend failure so callers can answer 404 instead of 500.
func (r *ListingRepo) Get(id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListPublished returns published listings only, newest first.
func (r *ListingRepo) ListPublished() ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+` FROM listings
	  WHERE status = ?
	  ORDER BY created_at DESC`, domain.ListingPublished)
	return out, err
}

// ListByUser returns a seller's listings in every status, newest first.
func (r *ListingRepo) ListByUser(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+` FROM listings
	  WHERE user_id = ?
	  ORDER BY created_at DESC`, userID)
	return out, err
}

// UpdateFields applies the whitelisted fields of patch and stamps
// updated_at. Fields not represented in ListingPatch cannot reach this
// statement at all.
func (r *ListingRepo) UpdateFields(id string, patch domain.ListingPatch) (*domain.Listing, error) {
	set := `updated_at = ?`
	args := []any{nowISO()}

	add := func(col string, v any) {
		set += `, ` + col + ` = ?`
		args = append(args, v)
	}
	if patch.Brand != nil {
		add("brand", *patch.Brand)
	}
	if patch.Model != nil {
		add("model", *patch.Model)
	}
	if patch.CPU != nil {
		add("cpu", *patch.CPU)
	}
	if patch.RAMGB != nil {
		add("ram_gb", *patch.RAMGB)
	}
	if patch.RAMType != nil {
		add("ram_type", *patch.RAMType)
	}
	if patch.RAMSpeedMHz != nil {
		add("ram_speed_mhz", *patch.RAMSpeedMHz)
	}
	if patch.GPU != nil {
		add("gpu", *patch.GPU)
	}
	if patch.ScreenSizeInch != nil {
		add("screen_size_inch", *patch.ScreenSizeInch)
	}
	if patch.DisplayResolution != nil {
		add("display_resolution", *patch.DisplayResolution)
	}
	if patch.OS != nil {
		add("os", *patch.OS)
	}
	if patch.Storage != nil {
		b, _ := json.Marshal(*patch.Storage)
		add("storage_json", string(b))
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}

	res, err := r.db.Exec(`UPDATE listings SET `+set+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrListingNotFound
	}
	return r.Get(id)
}

// SetStatus moves a listing between draft/published/sold.
func (r *ListingRepo) SetStatus(id, status string) error {
	res, err := r.db.Exec(`
	  UPDATE listings SET status = ?, updated_at = ? WHERE id = ?`,
		status, nowISO(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrListingNotFound
	}
	return nil
}
