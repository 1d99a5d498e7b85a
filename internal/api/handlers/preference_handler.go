package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type PreferenceHandler struct {
	s service.PreferenceService
}

func NewPreferenceHandler(s service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{s: s}
}

func (h *PreferenceHandler) ListPreferences(c *fiber.Ctx) error {
	prefs, err := h.s.List(c.Context())
	if err != nil {
		return err
	}
	if prefs == nil {
		prefs = []*models.UserPreference{}
	}
	return c.JSON(prefs)
}

func (h *PreferenceHandler) UpsertPreference(c *fiber.Ctx) error {
	var req transfer.PreferenceUpdate
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	pref, err := h.s.Upsert(c.Context(), req.Key, req.Value, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(pref)
}
