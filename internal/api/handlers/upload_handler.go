package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type UploadHandler struct {
	s service.StorageService
}

func NewUploadHandler(s service.StorageService) *UploadHandler {
	return &UploadHandler{s: s}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	var req transfer.UploadRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.s.UploadDataURL(c.Context(), req.DataURL)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
