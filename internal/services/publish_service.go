package services

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
)

// PublishService moves scans through pending -> published and materializes
// the marketplace listing for the published scan. The listing reuses the
// scan id, so a scan publishes at most once.
type PublishService struct {
	Scans    repos.ScanStore
	Listings *repos.ListingRepo
}

func NewPublishService(scans repos.ScanStore, listings *repos.ListingRepo) *PublishService {
	return &PublishService{Scans: scans, Listings: listings}
}

// Publish flips the scan to published, merging the caller's edits, then
// creates the listing. A scan that does not exist and a scan that was
// already published both surface as repos.ErrScanNotFound to the caller;
// the latter additionally matches repos.ErrScanPublished.
//
// No rollback: if the listing insert fails after the scan update, the scan
// stays published and the caller gets the backend error.
func (s *PublishService) Publish(userID, id, title string, price *float64, extras domain.ScanPatch) (*domain.ScanRecord, error) {
	existing, err := s.Scans.Get(id)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = strings.TrimSpace(existing.Brand + " " + existing.Model)
	}
	priceStr := ""
	if price != nil {
		priceStr = strconv.FormatFloat(*price, 'f', -1, 64)
	}
	status := domain.ScanPublished
	publishedAt := time.Now().UTC().Format(time.RFC3339)

	patch := extras
	patch.Status = &status
	patch.Title = &title
	patch.Price = &priceStr
	patch.PublishedAt = &publishedAt

	updated, err := s.Scans.Update(id, patch)
	if err != nil {
		return nil, err
	}

	storageJSON := "[]"
	if len(updated.Storage) > 0 {
		if b, err := json.Marshal(updated.Storage); err == nil {
			storageJSON = string(b)
		}
	}

	l := domain.Listing{
		ID:                updated.ID,
		UserID:            userID,
		Title:             updated.Title,
		Brand:             updated.Brand,
		Model:             updated.Model,
		CPU:               updated.CPU,
		RAMGB:             updated.RAMGB,
		RAMType:           updated.RAMType,
		RAMSpeedMHz:       updated.RAMSpeedMHz,
		StorageJSON:       storageJSON,
		GPU:               updated.GPU,
		DisplayResolution: updated.DisplayResolution,
		ScreenSizeInch:    updated.ScreenSizeInch,
		OS:                updated.OS,
		Status:            domain.ListingPublished,
	}
	if price != nil {
		l.Price = sql.NullFloat64{Float64: *price, Valid: true}
	}
	if err := s.Listings.Create(l); err != nil {
		return nil, err
	}

	return updated, nil
}
