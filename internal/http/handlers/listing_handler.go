package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"royalsmart/internal/domain"
	applog "royalsmart/internal/log"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"
	"royalsmart/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
	Publish  *services.PublishService
}

// decodeListingPatch maps a raw JSON body onto the fixed update whitelist.
// strict=true rejects unknown keys (publish extras); strict=false drops them
// silently (the PUT update contract).
func decodeListingPatch(body []byte, strict bool) (domain.ListingPatch, error) {
	var raw map[string]json.RawMessage
	var patch domain.ListingPatch
	if len(body) == 0 {
		return patch, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return patch, err
	}

	str := func(v json.RawMessage) (*string, error) {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}

	for k, v := range raw {
		var err error
		switch k {
		case "brand":
			patch.Brand, err = str(v)
		case "model":
			patch.Model, err = str(v)
		case "cpu":
			patch.CPU, err = str(v)
		case "ram_gb":
			patch.RAMGB, err = str(v)
		case "ram_type":
			patch.RAMType, err = str(v)
		case "ram_speed_mhz":
			patch.RAMSpeedMHz, err = str(v)
		case "gpu":
			patch.GPU, err = str(v)
		case "display_resolution":
			patch.DisplayResolution, err = str(v)
		case "os":
			patch.OS, err = str(v)
		case "screen_size_inch":
			var f float64
			if err = json.Unmarshal(v, &f); err == nil {
				patch.ScreenSizeInch = &f
			}
		case "storage":
			var devs []domain.StorageDevice
			if err = json.Unmarshal(v, &devs); err == nil {
				patch.Storage = &devs
			}
		case "price":
			var f float64
			if err = json.Unmarshal(v, &f); err == nil {
				patch.Price = &f
			}
		default:
			if strict {
				return patch, fmt.Errorf("unknown field %q", k)
			}
		}
		if err != nil {
			return patch, fmt.Errorf("field %q: %w", k, err)
		}
	}
	return patch, nil
}

// scanExtras carries the whitelisted hardware edits from a publish request
// into the scan patch.
func scanExtras(p domain.ListingPatch) domain.ScanPatch {
	return domain.ScanPatch{
		Brand:             p.Brand,
		Model:             p.Model,
		CPU:               p.CPU,
		RAMGB:             p.RAMGB,
		RAMType:           p.RAMType,
		RAMSpeedMHz:       p.RAMSpeedMHz,
		Storage:           p.Storage,
		GPU:               p.GPU,
		DisplayResolution: p.DisplayResolution,
		ScreenSizeInch:    p.ScreenSizeInch,
		OS:                p.OS,
	}
}

// List is the buyer-facing catalog feed.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	noCache(c)
	views, err := h.Listings.ListPublished()
	if err != nil {
		applog.Error(c, "listings.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Failed to load listings")
	}
	return ok(c, views)
}

func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "Listing not found")
	}
	v, err := h.Listings.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrListingNotFound) {
			return fail(c, fiber.StatusNotFound, "Listing not found")
		}
		applog.Error(c, "listings.get.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to load listing")
	}
	return ok(c, v)
}

// Update applies whitelisted fields; anything else in the body is ignored.
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "Listing not found")
	}
	patch, err := decodeListingPatch(c.Body(), false)
	if err != nil {
		applog.Security(c, "listings.update.badbody", map[string]any{"id": id, "err": err.Error()})
		return fail(c, fiber.StatusBadRequest, "Invalid update payload")
	}
	v, err := h.Listings.Update(u, id, patch)
	switch {
	case errors.Is(err, repos.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "Listing not found")
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, "listings.update.denied", map[string]any{"id": id})
		return fail(c, fiber.StatusForbidden, "Not your listing")
	case err != nil:
		applog.Error(c, "listings.update.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to update listing")
	}
	applog.Audit(c, "listings.update", map[string]any{"id": id})
	return ok(c, v)
}

// MarkSold transitions a listing to sold.
func (h *ListingHandler) MarkSold(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "Listing not found")
	}
	err := h.Listings.MarkSold(u, id)
	switch {
	case errors.Is(err, repos.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "Listing not found")
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, "listings.sold.denied", map[string]any{"id": id})
		return fail(c, fiber.StatusForbidden, "Not your listing")
	case err != nil:
		applog.Error(c, "listings.sold.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to update listing")
	}
	applog.Audit(c, "listings.sold", map[string]any{"id": id})
	return ok(c, fiber.Map{"id": id, "status": domain.ListingSold})
}

type publishRequest struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Price  *float64        `json:"price"`
	Extras json.RawMessage `json:"extras"`
}

// PublishScan turns a pending scan into a live listing.
func (h *ListingHandler) PublishScan(c *fiber.Ctx) error {
	u := currentUser(c)
	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid publish payload")
	}
	if req.ID == "" {
		return fail(c, fiber.StatusBadRequest, "Missing id")
	}
	id, okID := validate.ID(req.ID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "Missing id")
	}

	extras, err := decodeListingPatch(req.Extras, true)
	if err != nil {
		applog.Security(c, "publish.badextras", map[string]any{"id": id, "err": err.Error()})
		return fail(c, fiber.StatusBadRequest, "Invalid extra fields")
	}

	userID := ""
	if u != nil {
		userID = u.ID
	}
	updated, err := h.Publish.Publish(userID, id, req.Title, req.Price, scanExtras(extras))
	if err != nil {
		if errors.Is(err, repos.ErrScanNotFound) {
			// "never existed" and "already published" collapse to the same
			// external signal; keep them apart in the log
			if errors.Is(err, repos.ErrScanPublished) {
				applog.Info(c, "publish.already_published", map[string]any{"id": id})
			}
			return fail(c, fiber.StatusNotFound, "Scan not found")
		}
		applog.Error(c, "publish.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to publish")
	}
	applog.Audit(c, "publish.ok", map[string]any{"id": id})
	return ok(c, updated)
}
