package services

import (
	"encoding/json"
	"errors"
	"strings"

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
)

// ErrForbidden reports a mutation attempt by someone other than the
// listing's owner.
var ErrForbidden = errors.New("not the listing owner")

// ListingService shapes stored listing rows into the external view and
// enforces ownership on mutation.
type ListingService struct {
	Listings     *repos.ListingRepo
	MediaBaseURL string
}

func NewListingService(listings *repos.ListingRepo, mediaBaseURL string) *ListingService {
	return &ListingService{Listings: listings, MediaBaseURL: mediaBaseURL}
}

// ResolveImageURL turns a bare storage key into a fetchable URL. Idempotent:
// already-resolved URLs pass through unchanged.
func ResolveImageURL(base, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") || strings.HasPrefix(key, "/") {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + key
}

func (s *ListingService) view(l domain.Listing) domain.ListingView {
	v := domain.ListingView{
		ID:                l.ID,
		Title:             l.Title,
		Brand:             l.Brand,
		Model:             l.Model,
		CPU:               l.CPU,
		RAMGB:             l.RAMGB,
		RAMType:           l.RAMType,
		RAMSpeedMHz:       l.RAMSpeedMHz,
		Storage:           []domain.StorageDevice{},
		GPU:               l.GPU,
		DisplayResolution: l.DisplayResolution,
		ScreenSizeInch:    l.ScreenSizeInch,
		OS:                l.OS,
		Description:       l.Description,
		Status:            l.Status,
		CreatedAt:         l.CreatedAt,
		Images:            []string{},
	}
	if l.StorageJSON != "" {
		_ = json.Unmarshal([]byte(l.StorageJSON), &v.Storage)
	}
	if l.ImagesJSON != "" {
		_ = json.Unmarshal([]byte(l.ImagesJSON), &v.Images)
	}
	for i := range v.Images {
		v.Images[i] = ResolveImageURL(s.MediaBaseURL, v.Images[i])
	}
	if len(v.Images) > 0 {
		v.ImageURL = v.Images[0]
	}
	if l.Price.Valid {
		p := l.Price.Float64
		v.Price = &p
	}
	return v
}

// ListPublished returns the buyer-facing catalog: published rows only,
// newest first, in the external shape.
func (s *ListingService) ListPublished() ([]domain.ListingView, error) {
	rows, err := s.Listings.ListPublished()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ListingView, 0, len(rows))
	for _, l := range rows {
		out = append(out, s.view(l))
	}
	return out, nil
}

func (s *ListingService) Get(id string) (*domain.ListingView, error) {
	l, err := s.Listings.Get(id)
	if err != nil {
		return nil, err
	}
	v := s.view(*l)
	return &v, nil
}

// ListByUser returns a seller's own listings in every status.
func (s *ListingService) ListByUser(userID string) ([]domain.ListingView, error) {
	rows, err := s.Listings.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ListingView, 0, len(rows))
	for _, l := range rows {
		out = append(out, s.view(l))
	}
	return out, nil
}

func (s *ListingService) canMutate(l *domain.Listing, u *domain.User) bool {
	if u == nil {
		return false
	}
	return u.Role == "ADMIN" || l.UserID == "" || l.UserID == u.ID
}

// Update applies the whitelisted patch, but only for the listing's owner
// (or an admin).
func (s *ListingService) Update(u *domain.User, id string, patch domain.ListingPatch) (*domain.ListingView, error) {
	l, err := s.Listings.Get(id)
	if err != nil {
		return nil, err
	}
	if !s.canMutate(l, u) {
		return nil, ErrForbidden
	}
	updated, err := s.Listings.UpdateFields(id, patch)
	if err != nil {
		return nil, err
	}
	v := s.view(*updated)
	return &v, nil
}

// MarkSold transitions published -> sold, ownership-guarded.
func (s *ListingService) MarkSold(u *domain.User, id string) error {
	l, err := s.Listings.Get(id)
	if err != nil {
		return err
	}
	if !s.canMutate(l, u) {
		return ErrForbidden
	}
	return s.Listings.SetStatus(id, domain.ListingSold)
}
