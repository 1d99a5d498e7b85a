package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

type PostHandler struct {
	s service.LifecycleService
}

func NewPostHandler(s service.LifecycleService) *PostHandler {
	return &PostHandler{s: s}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req transfer.PostCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.s.Create(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	post, err := h.s.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// UpdatePost drives the approval workflow: a status change dispatches
// to the matching lifecycle transition, anything else is a plain edit.
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var fields transfer.PostEditFields
	if err := parseAndValidate(c, &fields); err != nil {
		return err
	}

	if fields.ApprovalStatus != nil {
		status := *fields.ApprovalStatus
		fields.ApprovalStatus = nil
		switch status {
		case models.ApprovalStatusApproved:
			if err := h.s.Approve(c.Context(), id, GetActor(c)); err != nil {
				return err
			}
		case models.ApprovalStatusRejected:
			reason := ""
			if fields.RejectionReason != nil {
				reason = *fields.RejectionReason
				fields.RejectionReason = nil
			}
			if err := h.s.Reject(c.Context(), id, reason); err != nil {
				return err
			}
		case models.ApprovalStatusPending:
			if err := h.s.RevertToPending(c.Context(), id); err != nil {
				return err
			}
		}
	}

	if hasEditFields(&fields) {
		post, err := h.s.Edit(c.Context(), id, &fields)
		if err != nil {
			return err
		}
		return c.JSON(post)
	}

	post, err := h.s.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func hasEditFields(f *transfer.PostEditFields) bool {
	return f.Title != nil || f.Snippet != nil || f.Caption != nil || f.Hashtags != nil ||
		f.MainImageURL != nil || f.RejectionReason != nil || f.LatePostID != nil ||
		f.LateStatus != nil || f.ScheduledFor != nil || f.ContentProcessed != nil
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.s.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (h *PostHandler) EditPost(c *fiber.Ctx) error {
	var req transfer.PostEdit
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.s.Edit(c.Context(), req.PostID, req.Updates)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *PostHandler) RejectPost(c *fiber.Ctx) error {
	var req transfer.PostRejection
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.s.Reject(c.Context(), req.PostID, req.Reason); err != nil {
		return err
	}

	post, err := h.s.Get(c.Context(), req.PostID)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *PostHandler) SendToPending(c *fiber.Ctx) error {
	var req transfer.PostSendToPending
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.s.RevertToPending(c.Context(), req.PostID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post moved to pending"})
}

func (h *PostHandler) ListSearchResults(c *fiber.Ctx) error {
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	posts, err := h.s.List(c.Context(), status, limit, offset)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(posts)
}

func (h *PostHandler) GetSearchResult(c *fiber.Ctx) error {
	return h.GetPost(c)
}

func (h *PostHandler) DeleteSearchResult(c *fiber.Ctx) error {
	return h.DeletePost(c)
}
