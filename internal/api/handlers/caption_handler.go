package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type CaptionHandler struct {
	s service.CaptionService
}

func NewCaptionHandler(s service.CaptionService) *CaptionHandler {
	return &CaptionHandler{s: s}
}

func (h *CaptionHandler) Rewrite(c *fiber.Ctx) error {
	var req transfer.CaptionRewriteRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.s.Rewrite(c.Context(), req.Caption, req.Instruction)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *CaptionHandler) Edit(c *fiber.Ctx) error {
	var req transfer.CaptionEditRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.s.Edit(c.Context(), req.Caption, req.Instruction)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
