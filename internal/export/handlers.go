package export

import (
	"errors"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/network"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *coverage.Store, index *network.Index) {
	r.Get("/:format", func(c *fiber.Ctx) error {
		format := c.Params("format")
		payload, contentType, err := Export(store.Snapshot(), index, format)
		if err != nil {
			if errors.Is(err, ErrUnsupportedFormat) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set("Content-Type", contentType)
		c.Set("Content-Disposition", "attachment; filename=covered_roads."+format)
		return c.Send(payload)
	})
}
