package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type AwayHandler struct {
	s service.AwayService
}

func NewAwayHandler(s service.AwayService) *AwayHandler {
	return &AwayHandler{s: s}
}

func (h *AwayHandler) ListAwayDays(c *fiber.Ctx) error {
	days, err := h.s.List(c.Context())
	if err != nil {
		return err
	}
	if days == nil {
		days = []*models.AwayDay{}
	}
	return c.JSON(fiber.Map{"awayDays": days})
}

// ReplaceAwayDays swaps the full set; posting two different sets in a
// row leaves only the second one stored.
func (h *AwayHandler) ReplaceAwayDays(c *fiber.Ctx) error {
	var req transfer.AwayDaysReplace
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	days, err := h.s.Replace(c.Context(), req.AwayDates)
	if err != nil {
		return err
	}
	if days == nil {
		days = []*models.AwayDay{}
	}
	return c.JSON(fiber.Map{"awayDays": days})
}

func (h *AwayHandler) ClearAwayDays(c *fiber.Ctx) error {
	if err := h.s.Clear(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Away days cleared"})
}
