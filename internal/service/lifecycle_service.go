package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/repository"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// captionMatchLen is how many characters of the stored caption are
// compared against external post content when reconciling ids. The
// external system never learns our ids at creation time, so a prefix
// match is the only join available.
const captionMatchLen = 100

// LifecycleService owns the approval state machine of a post and its
// linkage to the external scheduler.
type LifecycleService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id int64) error

	Approve(ctx context.Context, id int64, actor string) error
	Reject(ctx context.Context, id int64, reason string) error
	RevertToPending(ctx context.Context, id int64) error
	BulkApprovedToPending(ctx context.Context) (*transfer.BulkPendingResult, error)
	Edit(ctx context.Context, id int64, fields *transfer.PostEditFields) (*models.Post, error)

	ReconcileLateIDs(ctx context.Context) (*transfer.SyncResult, error)
	CleanupOrphaned(ctx context.Context) (int64, error)
	CheckAvailability(ctx context.Context) (*transfer.AvailabilityResult, error)
	FixHTTPImageURLs(ctx context.Context) (int64, error)
	LinkLatePost(ctx context.Context, id int64, latePost *transfer.LatePost) error
}

type lifecycleService struct {
	cfg    config.Config
	pr     repository.PostRepository
	late   LateService
	notify NotificationService
}

func NewLifecycleService(cfg config.Config, pr repository.PostRepository, late LateService, notify NotificationService) LifecycleService {
	return &lifecycleService{
		cfg:    cfg,
		pr:     pr,
		late:   late,
		notify: notify,
	}
}

func (s *lifecycleService) Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error) {
	post := &models.Post{
		Title:          pc.Title,
		Snippet:        pc.Snippet,
		Caption:        pc.Caption,
		Hashtags:       pq.StringArray(pc.Hashtags),
		MainImageURL:   pc.MainImageURL,
		RawData:        pc.RawData,
		ApprovalStatus: models.ApprovalStatusPending,
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.pr.GetByID(ctx, id)
}

func (s *lifecycleService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return post, nil
}

func (s *lifecycleService) List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.pr.List(ctx, status, limit, offset)
}

func (s *lifecycleService) Delete(ctx context.Context, id int64) error {
	found, err := s.pr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return nil
}

func (s *lifecycleService) Approve(ctx context.Context, id int64, actor string) error {
	found, err := s.pr.Approve(ctx, id, actor)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return nil
}

// Reject is idempotent: re-rejecting overwrites the stored reason.
func (s *lifecycleService) Reject(ctx context.Context, id int64, reason string) error {
	if reason == "" {
		reason = models.DefaultRejectionReason
	}
	found, err := s.pr.Reject(ctx, id, reason)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return nil
}

func (s *lifecycleService) RevertToPending(ctx context.Context, id int64) error {
	found, err := s.pr.RevertToPending(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return nil
}

// BulkApprovedToPending moves every approved post back to pending in
// one batch. Posts still linked to the external scheduler are counted
// and flagged but not cancelled; they will publish regardless of the
// local status change.
func (s *lifecycleService) BulkApprovedToPending(ctx context.Context) (*transfer.BulkPendingResult, error) {
	stillScheduled, err := s.pr.CountApprovedWithLateID(ctx)
	if err != nil {
		return nil, err
	}

	moved, err := s.pr.BulkApprovedToPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &transfer.BulkPendingResult{
		MovedCount:          moved,
		StillScheduledCount: stillScheduled,
	}
	if stillScheduled > 0 {
		result.Warning = fmt.Sprintf(
			"%d post(s) are still scheduled on the external scheduler and will publish regardless", stillScheduled)
		log.Warn().Int("still_scheduled", stillScheduled).Msg("bulk move to pending left live scheduled posts")
	}
	return result, nil
}

func (s *lifecycleService) Edit(ctx context.Context, id int64, fields *transfer.PostEditFields) (*models.Post, error) {
	updates := buildEditUpdates(fields)
	updates["is_edited"] = true

	found, err := s.pr.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound("post", strconv.FormatInt(id, 10))
	}
	return s.pr.GetByID(ctx, id)
}

func buildEditUpdates(fields *transfer.PostEditFields) map[string]any {
	updates := make(map[string]any)
	if fields == nil {
		return updates
	}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Snippet != nil {
		updates["snippet"] = *fields.Snippet
	}
	if fields.Caption != nil {
		updates["caption"] = *fields.Caption
	}
	if fields.Hashtags != nil {
		updates["hashtags"] = pq.StringArray(*fields.Hashtags)
	}
	if fields.MainImageURL != nil {
		updates["main_image_url"] = *fields.MainImageURL
	}
	if fields.ApprovalStatus != nil {
		updates["approval_status"] = *fields.ApprovalStatus
	}
	if fields.RejectionReason != nil {
		updates["rejection_reason"] = *fields.RejectionReason
	}
	if fields.LatePostID != nil {
		updates["late_post_id"] = *fields.LatePostID
	}
	if fields.LateStatus != nil {
		updates["late_status"] = *fields.LateStatus
	}
	if fields.ScheduledFor != nil {
		updates["scheduled_for"] = *fields.ScheduledFor
	}
	if fields.ContentProcessed != nil {
		updates["content_processed"] = *fields.ContentProcessed
	}
	return updates
}

// ReconcileLateIDs relinks approved posts that lost their external id
// by joining on the first hundred characters of the caption against
// externally scheduled content. First match wins; an external id is
// never assigned to two posts; a missing match is a no-op.
func (s *lifecycleService) ReconcileLateIDs(ctx context.Context) (*transfer.SyncResult, error) {
	dbPosts, err := s.pr.ListApprovedUnlinked(ctx)
	if err != nil {
		return nil, err
	}

	latePosts, err := s.late.ListPosts(ctx, models.LateStatusScheduled)
	if err != nil {
		return nil, err
	}

	byPrefix := lo.GroupBy(latePosts, func(lp transfer.LatePost) string {
		return captionPrefix(lp.Content)
	})

	result := &transfer.SyncResult{
		DBCandidates:   len(dbPosts),
		LateCandidates: len(latePosts),
	}

	claimed := make(map[string]bool)
	for _, post := range dbPosts {
		prefix := captionPrefix(post.Caption)
		if prefix == "" {
			continue
		}

		candidates := byPrefix[prefix]
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) > 1 {
			log.Warn().
				Int64("post_id", post.ID).
				Int("candidates", len(candidates)).
				Msg("multiple scheduled posts share a caption prefix, taking the first unclaimed")
		}

		match, ok := lo.Find(candidates, func(lp transfer.LatePost) bool {
			return lp.ID != "" && !claimed[lp.ID]
		})
		if !ok {
			continue
		}

		if err := s.pr.SetLateLink(ctx, post.ID, match.ID, match.Status, match.ScheduledFor); err != nil {
			log.Error().Err(err).Int64("post_id", post.ID).Str("late_post_id", match.ID).Msg("failed to relink post")
			continue
		}
		claimed[match.ID] = true
		result.Matched++
	}

	log.Info().
		Int("db_candidates", result.DBCandidates).
		Int("late_candidates", result.LateCandidates).
		Int("matched", result.Matched).
		Msg("late id reconciliation finished")
	return result, nil
}

func captionPrefix(caption string) string {
	runes := []rune(caption)
	if len(runes) > captionMatchLen {
		runes = runes[:captionMatchLen]
	}
	return string(runes)
}

func (s *lifecycleService) CleanupOrphaned(ctx context.Context) (int64, error) {
	return s.pr.CleanupOrphaned(ctx)
}

// CheckAvailability probes approved content supply. When nothing is
// left to schedule it looks up the next open queue slot and notifies
// the operator; a notification failure never fails the probe.
func (s *lifecycleService) CheckAvailability(ctx context.Context) (*transfer.AvailabilityResult, error) {
	approvedCount, err := s.pr.CountApprovedUnlinked(ctx)
	if err != nil {
		return nil, err
	}
	pendingCount, err := s.pr.CountByApprovalStatus(ctx, models.ApprovalStatusPending)
	if err != nil {
		return nil, err
	}

	result := &transfer.AvailabilityResult{
		ApprovedCount: approvedCount,
		PendingCount:  pendingCount,
	}

	if approvedCount == 0 {
		slot, err := s.late.GetNextQueueSlot(ctx, s.cfg.Late.ProfileID)
		if err != nil {
			log.Warn().Err(err).Msg("could not fetch next queue slot for availability notice")
		} else if slot != nil {
			result.NextQueueSlot = &slot.ScheduledFor
		}

		s.notify.NotifyNoPostsAvailable(pendingCount, result.NextQueueSlot)
		result.NotificationSent = true
	}

	return result, nil
}

func (s *lifecycleService) FixHTTPImageURLs(ctx context.Context) (int64, error) {
	return s.pr.FixHTTPImageURLs(ctx)
}

func (s *lifecycleService) LinkLatePost(ctx context.Context, id int64, latePost *transfer.LatePost) error {
	if latePost == nil || latePost.ID == "" || latePost.ID == models.OrphanSentinel {
		return apperrors.Validation("late_post_id", "external scheduler returned an unusable post id")
	}

	status := latePost.Status
	if status == "" {
		status = models.LateStatusScheduled
	}
	return s.pr.SetLateLink(ctx, id, latePost.ID, status, latePost.ScheduledFor)
}
