package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"royalsmart/internal/domain"
	applog "royalsmart/internal/log"
	"royalsmart/internal/repos"
	"royalsmart/internal/validate"
)

type ScanHandler struct {
	Scans repos.ScanStore
}

// Ingest stores a scanner-produced record. The scanner usually supplies the
// id; one is assigned if missing.
func (h *ScanHandler) Ingest(c *fiber.Ctx) error {
	var rec domain.ScanRecord
	if err := c.BodyParser(&rec); err != nil {
		applog.Security(c, "scan.ingest.badbody", map[string]any{"err": err.Error()})
		return fail(c, fiber.StatusBadRequest, "Invalid scan payload")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, okID := validate.ID(rec.ID); !okID {
		return fail(c, fiber.StatusBadRequest, "Invalid scan id")
	}
	if rec.Status == "" {
		rec.Status = domain.ScanPending
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := h.Scans.Put(rec.ID, rec); err != nil {
		applog.Error(c, "scan.ingest.fail", err, map[string]any{"id": rec.ID})
		return fail(c, fiber.StatusInternalServerError, "Failed to store scan")
	}
	applog.Info(c, "scan.ingest", map[string]any{"id": rec.ID})
	return ok(c, rec)
}

func (h *ScanHandler) GetByID(c *fiber.Ctx) error {
	noCache(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "No scan ID provided")
	}
	rec, err := h.Scans.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrScanPublished) {
			applog.Info(c, "scan.get.published", map[string]any{"id": id})
		} else if !errors.Is(err, repos.ErrScanNotFound) {
			applog.Error(c, "scan.get.fail", err, map[string]any{"id": id})
		}
		// backend errors degrade to not-found here by policy
		return fail(c, fiber.StatusNotFound, "Scan not found")
	}
	return ok(c, rec)
}

func (h *ScanHandler) Latest(c *fiber.Ctx) error {
	noCache(c)
	rec, err := h.Scans.GetLatest()
	if err != nil {
		if !errors.Is(err, repos.ErrScanNotFound) {
			applog.Error(c, "scan.latest.fail", err, nil)
		}
		return fail(c, fiber.StatusNotFound, "No scans available")
	}
	return ok(c, rec)
}

// Discard drops a pending scan. Idempotent: deleting an unknown id is fine.
func (h *ScanHandler) Discard(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "No scan ID provided")
	}
	if err := h.Scans.Delete(id); err != nil {
		applog.Error(c, "scan.delete.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to delete scan")
	}
	applog.Audit(c, "scan.delete", map[string]any{"id": id})
	return ok(c, fiber.Map{"id": id})
}
