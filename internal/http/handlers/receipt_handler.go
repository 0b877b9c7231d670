package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "royalsmart/internal/log"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"
	"royalsmart/internal/validate"
)

type ReceiptHandler struct {
	Receipts *services.ReceiptService
}

func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in services.ReceiptInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid receipt payload")
	}
	v, err := h.Receipts.Create(in)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			applog.Security(c, "receipt.create.invalid", map[string]any{"err": err.Error()})
			return fail(c, fiber.StatusBadRequest, "Missing required fields")
		}
		applog.Error(c, "receipt.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Failed to create receipt")
	}
	applog.Audit(c, "receipt.create", map[string]any{"id": v.ID, "receipt_number": v.ReceiptNumber})
	return ok(c, v)
}

func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "Receipt not found")
	}
	v, err := h.Receipts.Get(id, c.Query("deleted") == "true")
	if err != nil {
		if errors.Is(err, repos.ErrReceiptNotFound) {
			return fail(c, fiber.StatusNotFound, "Receipt not found")
		}
		applog.Error(c, "receipt.get.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch receipt")
	}
	return ok(c, v)
}

func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	out, err := h.Receipts.List(c.Query("deleted") == "true")
	if err != nil {
		applog.Error(c, "receipt.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch receipts")
	}
	return ok(c, out)
}

// Delete soft-deletes; the row stays reachable with ?deleted=true.
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "Receipt not found")
	}
	if err := h.Receipts.Delete(id); err != nil {
		if errors.Is(err, repos.ErrReceiptNotFound) {
			return fail(c, fiber.StatusNotFound, "Receipt not found")
		}
		applog.Error(c, "receipt.delete.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Failed to delete receipt")
	}
	applog.Audit(c, "receipt.delete", map[string]any{"id": id})
	return ok(c, fiber.Map{"id": id})
}
