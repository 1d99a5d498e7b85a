package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type LateHandler struct {
	cfg  config.Config
	late service.LateService
	lc   service.LifecycleService
	away service.AwayService
}

func NewLateHandler(cfg config.Config, late service.LateService, lc service.LifecycleService, away service.AwayService) *LateHandler {
	return &LateHandler{cfg: cfg, late: late, lc: lc, away: away}
}

func (h *LateHandler) GetAccounts(c *fiber.Ctx) error {
	accounts, err := h.late.GetAccounts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

func (h *LateHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.late.ListPosts(c.Context(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *LateHandler) GetPost(c *fiber.Ctx) error {
	body, err := h.late.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// SchedulePost commits a post to the external queue. The away-day
// coverage check runs just-in-time before the external create; its
// outcome is reported alongside the created post but never blocks it.
func (h *LateHandler) SchedulePost(c *fiber.Ctx) error {
	var req transfer.SchedulePostRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	coverage := h.away.EnsureCoverage(c.Context(), req.ScheduledFor)

	created, err := h.late.CreatePost(c.Context(), transfer.LatePostCreation{
		Content:      req.Content,
		ScheduledFor: req.ScheduledFor.Format(time.RFC3339),
		Platforms:    req.Platforms,
		Timezone:     req.Timezone,
	})
	if err != nil {
		return err
	}

	if req.PostID != 0 {
		if err := h.lc.LinkLatePost(c.Context(), req.PostID, created); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(transfer.SchedulePostResponse{
		Post:     created,
		Coverage: &coverage,
	})
}

func (h *LateHandler) UpdatePost(c *fiber.Ctx) error {
	body, err := h.late.UpdatePost(c.Context(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *LateHandler) GetNextQueueSlot(c *fiber.Ctx) error {
	slot, err := h.late.GetNextQueueSlot(c.Context(), c.Query("profileId", h.cfg.Late.ProfileID))
	if err != nil {
		return err
	}
	return c.JSON(slot)
}

func (h *LateHandler) GetQueuePreview(c *fiber.Ctx) error {
	body, err := h.late.GetQueuePreview(c.Context(), c.Query("profileId", h.cfg.Late.ProfileID))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *LateHandler) GetQueueSlots(c *fiber.Ctx) error {
	body, err := h.late.GetQueueSlots(c.Context(), c.Query("profileId", h.cfg.Late.ProfileID))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *LateHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(transfer.LateConfigInfo{
		BaseURL:       h.cfg.Late.BaseURL,
		ProfileID:     h.cfg.Late.ProfileID,
		KeyConfigured: h.cfg.Late.APIKey != "",
	})
}

// TestConnection verifies the credential by listing accounts.
func (h *LateHandler) TestConnection(c *fiber.Ctx) error {
	accounts, err := h.late.GetAccounts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"ok":           true,
		"accountCount": len(accounts),
	})
}
