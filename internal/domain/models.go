package domain

import "database/sql"

// Scan/listing status values.
const (
	ScanPending   = "pending"
	ScanPublished = "published"

	ListingDraft     = "draft"
	ListingPublished = "published"
	ListingSold      = "sold"
)

// StorageDevice is one drive reported by the scanner.
// JSON keys match the scanner's payload verbatim.
type StorageDevice struct {
	Model   string `json:"Model"`
	SizeGB  int    `json:"Size_GB"`
	Type    string `json:"Type"`
	BusType string `json:"BusType"`
}

// ScanRecord is a captured hardware profile awaiting conversion into a
// listing. The JSON tags are the scanner's PascalCase wire shape; the db
// tags are the snake_case sqlite columns.
type ScanRecord struct {
	ID                string          `db:"id" json:"id"`
	Brand             string          `db:"brand" json:"Brand"`
	Model             string          `db:"model" json:"Model"`
	CPU               string          `db:"cpu" json:"CPU"`
	Cores             string          `db:"cores" json:"Cores"`
	Threads           string          `db:"threads" json:"Threads"`
	BaseSpeedMHz      string          `db:"base_speed_mhz" json:"BaseSpeed_MHz"`
	RAMGB             string          `db:"ram_gb" json:"RAM_GB"`
	RAMSpeedMHz       string          `db:"ram_speed_mhz" json:"RAM_Speed_MHz"`
	RAMType           string          `db:"ram_type" json:"RAM_Type"`
	Storage           []StorageDevice `db:"-" json:"Storage"`
	StorageJSON       string          `db:"storage_json" json:"-"`
	GPU               string          `db:"gpu" json:"GPU"`
	DisplayResolution string          `db:"display_resolution" json:"Display_Resolution"`
	ScreenSizeInch    float64         `db:"screen_size_inch" json:"Screen_Size_inch"`
	OS                string          `db:"os" json:"OS"`
	ScanTime          string          `db:"scan_time" json:"Scan_Time"`
	Title             string          `db:"title" json:"title,omitempty"`
	Price             string          `db:"price" json:"price,omitempty"`
	Status            string          `db:"status" json:"status"`
	PublishedAt       string          `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt         string          `db:"created_at" json:"createdAt"`
	UpdatedAt         string          `db:"updated_at" json:"-"`
}

// ScanPatch is a partial update of a ScanRecord; nil fields are left
// untouched by Apply.
type ScanPatch struct {
	Brand             *string
	Model             *string
	CPU               *string
	Cores             *string
	Threads           *string
	BaseSpeedMHz      *string
	RAMGB             *string
	RAMSpeedMHz       *string
	RAMType           *string
	Storage           *[]StorageDevice
	GPU               *string
	DisplayResolution *string
	ScreenSizeInch    *float64
	OS                *string
	ScanTime          *string
	Title             *string
	Price             *string
	Status            *string
	PublishedAt       *string
}

// Apply merges the set fields of the patch into rec.
func (p ScanPatch) Apply(rec *ScanRecord) {
	if p.Brand != nil {
		rec.Brand = *p.Brand
	}
	if p.Model != nil {
		rec.Model = *p.Model
	}
	if p.CPU != nil {
		rec.CPU = *p.CPU
	}
	if p.Cores != nil {
		rec.Cores = *p.Cores
	}
	if p.Threads != nil {
		rec.Threads = *p.Threads
	}
	if p.BaseSpeedMHz != nil {
		rec.BaseSpeedMHz = *p.BaseSpeedMHz
	}
	if p.RAMGB != nil {
		rec.RAMGB = *p.RAMGB
	}
	if p.RAMSpeedMHz != nil {
		rec.RAMSpeedMHz = *p.RAMSpeedMHz
	}
	if p.RAMType != nil {
		rec.RAMType = *p.RAMType
	}
	if p.Storage != nil {
		rec.Storage = *p.Storage
	}
	if p.GPU != nil {
		rec.GPU = *p.GPU
	}
	if p.DisplayResolution != nil {
		rec.DisplayResolution = *p.DisplayResolution
	}
	if p.ScreenSizeInch != nil {
		rec.ScreenSizeInch = *p.ScreenSizeInch
	}
	if p.OS != nil {
		rec.OS = *p.OS
	}
	if p.ScanTime != nil {
		rec.ScanTime = *p.ScanTime
	}
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.PublishedAt != nil {
		rec.PublishedAt = *p.PublishedAt
	}
}

// Listing is a marketplace entry derived from a scan plus seller-supplied
// commerce fields. Hardware fields are copied from the scan, never
// referenced, so listing edits cannot mutate the originating scan.
type Listing struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	Title             string          `db:"title"`
	Brand             string          `db:"brand"`
	Model             string          `db:"model"`
	CPU               string          `db:"cpu"`
	RAMGB             string          `db:"ram_gb"`
	RAMType           string          `db:"ram_type"`
	RAMSpeedMHz       string          `db:"ram_speed_mhz"`
	StorageJSON       string          `db:"storage_json"`
	GPU               string          `db:"gpu"`
	DisplayResolution string          `db:"display_resolution"`
	ScreenSizeInch    float64         `db:"screen_size_inch"`
	OS                string          `db:"os"`
	Price             sql.NullFloat64 `db:"price"`
	Description       string          `db:"description"`
	ImagesJSON        string          `db:"images_json"`
	Status            string          `db:"status"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

// ListingView is the external shape buyer-facing pages consume:
// PascalCase hardware keys plus imageUrl for the cover image.
type ListingView struct {
	ID                string          `json:"id"`
	Title             string          `json:"title,omitempty"`
	Brand             string          `json:"Brand"`
	Model             string          `json:"Model"`
	CPU               string          `json:"CPU"`
	RAMGB             string          `json:"RAM_GB"`
	RAMType           string          `json:"RAM_Type"`
	RAMSpeedMHz       string          `json:"RAM_Speed_MHz"`
	Storage           []StorageDevice `json:"Storage"`
	GPU               string          `json:"GPU"`
	DisplayResolution string          `json:"Display_Resolution"`
	ScreenSizeInch    float64         `json:"Screen_Size_inch"`
	OS                string          `json:"OS"`
	Price             *float64        `json:"price"`
	Description       string          `json:"description"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"createdAt"`
	Images            []string        `json:"images"`
	ImageURL          string          `json:"imageUrl,omitempty"`
}

// ListingPatch is the fixed set of listing fields a seller may update.
// Anything outside this set never reaches the store.
type ListingPatch struct {
	Brand             *string
	Model             *string
	CPU               *string
	RAMGB             *string
	RAMType           *string
	RAMSpeedMHz       *string
	GPU               *string
	ScreenSizeInch    *float64
	DisplayResolution *string
	OS                *string
	Storage           *[]StorageDevice
	Price             *float64
}
