package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

func newLifecycleFixture(late *fakeLateService) (LifecycleService, *fakePostRepo, *fakeNotifier) {
	repo := newFakePostRepo()
	notifier := &fakeNotifier{}
	if late == nil {
		late = &fakeLateService{}
	}
	svc := NewLifecycleService(config.Config{}, repo, late, notifier)
	return svc, repo, notifier
}

func strPtr(s string) *string { return &s }

func TestApproveUnknownPost(t *testing.T) {
	svc, _, _ := newLifecycleFixture(nil)

	err := svc.Approve(context.Background(), 42, "admin")

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRejectDefaultsReason(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	post := repo.add(&models.Post{Caption: "c", ApprovalStatus: models.ApprovalStatusPending})

	require.NoError(t, svc.Reject(context.Background(), post.ID, ""))

	assert.Equal(t, models.ApprovalStatusRejected, post.ApprovalStatus)
	require.NotNil(t, post.RejectionReason)
	assert.Equal(t, models.DefaultRejectionReason, *post.RejectionReason)
}

func TestRejectKeepsExplicitReason(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	post := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})

	require.NoError(t, svc.Reject(context.Background(), post.ID, "off topic"))

	require.NotNil(t, post.RejectionReason)
	assert.Equal(t, "off topic", *post.RejectionReason)
}

func TestBulkApprovedToPendingFlagsLiveSchedules(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved, LatePostID: strPtr("late-1")})
	rejected := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusRejected})

	result, err := svc.BulkApprovedToPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.MovedCount)
	assert.Equal(t, 1, result.StillScheduledCount)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, models.ApprovalStatusRejected, rejected.ApprovalStatus)
}

func TestBulkApprovedToPendingNoWarningWhenUnlinked(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})

	result, err := svc.BulkApprovedToPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.MovedCount)
	assert.Zero(t, result.StillScheduledCount)
	assert.Empty(t, result.Warning)
}

func TestEditMarksPostEdited(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	post := repo.add(&models.Post{Caption: "before"})

	updated, err := svc.Edit(context.Background(), post.ID, &transfer.PostEditFields{Caption: strPtr("after")})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Caption)
	assert.True(t, updated.IsEdited)
}

func TestReconcileLateIDsMatchesOnCaptionPrefix(t *testing.T) {
	longCaption := strings.Repeat("x", 100) + " local tail that the scheduler never saw"
	lateContent := strings.Repeat("x", 100) + " remote tail trimmed by the platform"

	late := &fakeLateService{posts: []transfer.LatePost{
		{ID: "late-9", Content: lateContent, Status: models.LateStatusScheduled},
	}}
	svc, repo, _ := newLifecycleFixture(late)
	matched := repo.add(&models.Post{Caption: longCaption, ApprovalStatus: models.ApprovalStatusApproved})
	unmatched := repo.add(&models.Post{Caption: "something else entirely", ApprovalStatus: models.ApprovalStatusApproved})

	result, err := svc.ReconcileLateIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.DBCandidates)
	assert.Equal(t, 1, result.LateCandidates)
	assert.Equal(t, 1, result.Matched)
	require.NotNil(t, matched.LatePostID)
	assert.Equal(t, "late-9", *matched.LatePostID)
	assert.Nil(t, unmatched.LatePostID)
}

func TestReconcileLateIDsNeverAssignsAnIDTwice(t *testing.T) {
	shared := strings.Repeat("y", 120)
	late := &fakeLateService{posts: []transfer.LatePost{
		{ID: "late-1", Content: shared, Status: models.LateStatusScheduled},
	}}
	svc, repo, _ := newLifecycleFixture(late)
	first := repo.add(&models.Post{Caption: shared, ApprovalStatus: models.ApprovalStatusApproved})
	second := repo.add(&models.Post{Caption: shared, ApprovalStatus: models.ApprovalStatusApproved})

	result, err := svc.ReconcileLateIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	require.NotNil(t, first.LatePostID)
	assert.Equal(t, "late-1", *first.LatePostID)
	assert.Nil(t, second.LatePostID)
}

func TestReconcileLateIDsSkipsEmptyCaptions(t *testing.T) {
	late := &fakeLateService{posts: []transfer.LatePost{
		{ID: "late-1", Content: "", Status: models.LateStatusScheduled},
	}}
	svc, repo, _ := newLifecycleFixture(late)
	repo.add(&models.Post{Caption: "", ApprovalStatus: models.ApprovalStatusApproved})

	result, err := svc.ReconcileLateIDs(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
}

func TestCleanupOrphanedIsIdempotent(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	repo.add(&models.Post{LatePostID: strPtr("")})
	repo.add(&models.Post{LatePostID: strPtr(models.OrphanSentinel)})
	linked := repo.add(&models.Post{LatePostID: strPtr("late-3")})

	cleaned, err := svc.CleanupOrphaned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleaned)
	require.NotNil(t, linked.LatePostID)

	cleaned, err = svc.CleanupOrphaned(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cleaned)
}

func TestCheckAvailabilityNotifiesWhenSupplyIsEmpty(t *testing.T) {
	slot := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := &fakeLateService{nextSlot: &transfer.QueueSlot{ScheduledFor: slot}}
	svc, repo, notifier := newLifecycleFixture(late)
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusPending})
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusPending})

	result, err := svc.CheckAvailability(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.ApprovedCount)
	assert.Equal(t, 2, result.PendingCount)
	assert.True(t, result.NotificationSent)
	require.NotNil(t, result.NextQueueSlot)
	assert.Equal(t, slot, *result.NextQueueSlot)
	require.Len(t, notifier.noPostsCalls, 1)
	assert.Equal(t, 2, notifier.noPostsCalls[0])
}

func TestCheckAvailabilityStaysQuietWithSupply(t *testing.T) {
	svc, repo, notifier := newLifecycleFixture(nil)
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})

	result, err := svc.CheckAvailability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ApprovedCount)
	assert.False(t, result.NotificationSent)
	assert.Empty(t, notifier.noPostsCalls)
}

func TestLinkLatePostRejectsSentinelIDs(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(nil)
	post := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})

	var validation *apperrors.ValidationError

	err := svc.LinkLatePost(context.Background(), post.ID, nil)
	require.ErrorAs(t, err, &validation)

	err = svc.LinkLatePost(context.Background(), post.ID, &transfer.LatePost{ID: models.OrphanSentinel})
	require.ErrorAs(t, err, &validation)

	err = svc.LinkLatePost(context.Background(), post.ID, &transfer.LatePost{ID: "late-7"})
	require.NoError(t, err)
	require.NotNil(t, post.LateStatus)
	assert.Equal(t, models.LateStatusScheduled, *post.LateStatus)
}
