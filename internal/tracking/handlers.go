package tracking

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type fixRequest struct {
	Lat         *float64  `json:"lat" validate:"required"`
	Lon         *float64  `json:"lon" validate:"required"`
	Accuracy    float64   `json:"accuracy"`
	Heading     float64   `json:"heading"`
	Orientation string    `json:"orientation"`
	Ts          time.Time `json:"ts"`
}

type statePostRequest struct {
	Lat         *float64  `json:"lat" validate:"required"`
	Lon         *float64  `json:"lon" validate:"required"`
	Heading     float64   `json:"heading"`
	Orientation string    `json:"orientation"`
	Ts          time.Time `json:"ts"`
}

var validate = validator.New()

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var req fixRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		covered, err := svc.HandleFix(c.Context(), PositionFix{
			Lat:         *req.Lat,
			Lon:         *req.Lon,
			Accuracy:    req.Accuracy,
			Heading:     req.Heading,
			Orientation: req.Orientation,
			Ts:          req.Ts,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidFix) {
				// Dropped fix, not a server fault. Remaining fixes keep flowing.
				log.Printf("dropped fix: %v", err)
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if covered == nil {
			covered = []string{}
		}
		return c.JSON(fiber.Map{"status": "ok", "newly_covered": covered})
	})

	// Live recorder readout. The recorder process posts here directly,
	// independent of fix ingestion.
	r.Post("/recorder-state", authMiddleware, func(c *fiber.Ctx) error {
		var req statePostRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		svc.SetRecorderState(RecorderState{
			Lat:         *req.Lat,
			Lon:         *req.Lon,
			Heading:     req.Heading,
			Orientation: req.Orientation,
			Ts:          req.Ts,
		})
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/recorder-state", func(c *fiber.Ctx) error {
		state, ok := svc.RecorderState()
		if !ok {
			return c.JSON(fiber.Map{})
		}
		return c.JSON(state)
	})
}
