package history

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, repo *Repository) {
	r.Get("/", func(c *fiber.Ctx) error {
		filter := PassFilter{
			FeatureID: c.Query("feature_id"),
			Limit:     c.QueryInt("limit", 1000),
		}
		if v := c.Query("start_date"); v != "" {
			start, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be RFC3339")
			}
			filter.Start = start
		}
		if v := c.Query("end_date"); v != "" {
			end, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date must be RFC3339")
			}
			filter.End = end
		}

		passes, err := repo.Passes(c.Context(), filter)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if passes == nil {
			passes = []PassRow{}
		}
		return c.JSON(fiber.Map{"history": passes})
	})
}
