package recording

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	FeatureID string `json:"feature_id" validate:"required"`
	VideoFile string `json:"video_file"`
}

type closeRequest struct {
	CoveragePercent float64 `json:"coverage_percent" validate:"gte=0,lte=100"`
}

var validate = validator.New()

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rec, err := svc.Start(c.Context(), req.FeatureID, req.VideoFile)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Post("/:id/close", authMiddleware, func(c *fiber.Ctx) error {
		var req closeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rec, err := svc.Close(c.Context(), c.Params("id"), req.CoveragePercent)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Get("/recent", func(c *fiber.Ctx) error {
		recordings, err := svc.Recent(c.Context(), c.QueryInt("limit", 5))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if recordings == nil {
			recordings = []Recording{}
		}
		return c.JSON(recordings)
	})
}
