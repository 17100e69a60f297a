package network

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, idx *Index) {
	r.Get("/segments", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"count": idx.Len(), "segments": idx.All()})
	})

	r.Get("/segments/:id", func(c *fiber.Ctx) error {
		seg, ok := idx.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown segment")
		}
		return c.JSON(seg)
	})

	// Distinct tag values for the dashboard filter checkboxes.
	r.Get("/filters", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"polygons": idx.Polygons(),
			"highways": idx.Highways(),
			"statuses": idx.Statuses(),
		})
	})
}
