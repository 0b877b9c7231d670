package handlers

import "github.com/gofiber/fiber/v2"

// The API speaks one envelope: {"status":"ok","data":...} on success and
// {"status":"error","error":...} on failure, alongside the HTTP code.

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"status": "ok", "data": data})
}

func fail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"status": "error", "error": msg})
}

// noCache keeps scanners and dashboards from ever seeing a stale scan or
// catalog through intermediaries.
func noCache(c *fiber.Ctx) {
	c.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Set("Pragma", "no-cache")
	c.Set("Expires", "0")
	c.Set("Surrogate-Control", "no-store")
}
