package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/service"
)

// MaintenanceHandler groups the operational endpoints: bulk lifecycle
// transitions, reconciliation against the external scheduler, data
// repairs and the content-availability probe.
type MaintenanceHandler struct {
	s service.LifecycleService
}

func NewMaintenanceHandler(s service.LifecycleService) *MaintenanceHandler {
	return &MaintenanceHandler{s: s}
}

func (h *MaintenanceHandler) BulkMoveToPending(c *fiber.Ctx) error {
	result, err := h.s.BulkApprovedToPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *MaintenanceHandler) SyncLateIDs(c *fiber.Ctx) error {
	result, err := h.s.ReconcileLateIDs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *MaintenanceHandler) CleanupOrphaned(c *fiber.Ctx) error {
	cleaned, err := h.s.CleanupOrphaned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cleanedCount": cleaned})
}

func (h *MaintenanceHandler) CheckAvailability(c *fiber.Ctx) error {
	result, err := h.s.CheckAvailability(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *MaintenanceHandler) FixHTTPURLs(c *fiber.Ctx) error {
	fixed, err := h.s.FixHTTPImageURLs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"fixedCount": fixed})
}
