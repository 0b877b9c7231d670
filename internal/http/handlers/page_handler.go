package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "royalsmart/internal/log"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"
	"royalsmart/internal/validate"
)

// PageHandler serves the server-rendered pages: buyer catalog, listing
// detail, seller dashboard and the printable receipt view.
type PageHandler struct {
	Listings *services.ListingService
	Receipts *services.ReceiptService
	Scans    repos.ScanStore
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	views, err := h.Listings.ListPublished()
	if err != nil {
		applog.Error(c, "page.home.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return render(c, "home", fiber.Map{"Listings": views})
}

func (h *PageHandler) ListingDetail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	v, err := h.Listings.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	return render(c, "listing", fiber.Map{"L": v})
}

// Dashboard shows the seller's own listings plus the newest pending scan
// waiting to be published.
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	views, err := h.Listings.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "page.dashboard.fail", err, nil)
		views = nil
	}
	data := fiber.Map{"Listings": views}
	if scan, err := h.Scans.GetLatest(); err == nil {
		data["Scan"] = scan
	} else if !errors.Is(err, repos.ErrScanNotFound) {
		applog.Error(c, "page.dashboard.scan.fail", err, nil)
	}
	return render(c, "dashboard", data)
}

func (h *PageHandler) ReceiptPage(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	v, err := h.Receipts.Get(id, false)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	return render(c, "receipt", fiber.Map{"R": v})
}
