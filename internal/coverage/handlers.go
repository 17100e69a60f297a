package coverage

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MarkSink receives manual marks for durable storage. May be nil when the
// backend runs without a database.
type MarkSink interface {
	SaveManualMark(ctx context.Context, segmentID, status string) error
}

type manualMarkRequest struct {
	FeatureID string `json:"feature_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=complete incomplete"`
}

var validate = validator.New()

func RegisterRoutes(r fiber.Router, store *Store, sink MarkSink, authMiddleware fiber.Handler) {
	// Combined covered list: auto-covered and manually completed segments.
	r.Get("/covered", func(c *fiber.Ctx) error {
		var covered []string
		for id, rec := range store.Snapshot() {
			if st := rec.Display(); st == StatusCovered || st == StatusComplete {
				covered = append(covered, id)
			}
		}
		if covered == nil {
			covered = []string{}
		}
		return c.JSON(fiber.Map{"covered": covered})
	})

	r.Get("/statuses", func(c *fiber.Ctx) error {
		statuses := make(map[string]DisplayStatus)
		for id, rec := range store.Snapshot() {
			statuses[id] = rec.Display()
		}
		return c.JSON(statuses)
	})

	r.Get("/segments/:id", func(c *fiber.Ctx) error {
		status, err := store.DisplayStatus(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"segment_id": c.Params("id"), "status": status})
	})

	r.Post("/manual-mark", authMiddleware, func(c *fiber.Ctx) error {
		var req manualMarkRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := store.SetManual(req.FeatureID, ManualStatus(req.Status)); err != nil {
			if errors.Is(err, ErrUnknownSegment) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if sink != nil {
			if err := sink.SaveManualMark(c.Context(), req.FeatureID, req.Status); err != nil {
				log.Printf("manual mark persist failed for %s: %v", req.FeatureID, err)
			}
		}
		return c.JSON(fiber.Map{"feature_id": req.FeatureID, "status": req.Status})
	})

	r.Get("/manual-marks", func(c *fiber.Ctx) error {
		return c.JSON(store.ManualMarks())
	})
}
