package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

func TestEnsureCoverageIgnoresRegularDays(t *testing.T) {
	repo := newFakePostRepo()
	notifier := &fakeNotifier{}
	svc := NewAwayService(newFakeAwayRepo(), repo, notifier)

	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC))

	assert.Equal(t, transfer.CoverageResult{}, result)
	assert.Empty(t, notifier.autoApprovals)
}

func TestEnsureCoverageAlreadyCovered(t *testing.T) {
	repo := newFakePostRepo()
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})
	pending := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusPending})
	notifier := &fakeNotifier{}
	svc := NewAwayService(newFakeAwayRepo("2026-03-14"), repo, notifier)

	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC))

	assert.True(t, result.IsAwayDay)
	assert.False(t, result.AutoApproved)
	assert.Equal(t, models.ApprovalStatusPending, pending.ApprovalStatus)
	assert.Empty(t, notifier.autoApprovals)
}

func TestEnsureCoveragePromotesOldestPending(t *testing.T) {
	repo := newFakePostRepo()
	oldest := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusPending})
	newer := repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusPending})
	notifier := &fakeNotifier{}
	svc := NewAwayService(newFakeAwayRepo("2026-03-14"), repo, notifier)

	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))

	assert.True(t, result.IsAwayDay)
	assert.True(t, result.AutoApproved)
	assert.Equal(t, 1, result.AutoApprovedCount)

	assert.Equal(t, models.ApprovalStatusApproved, oldest.ApprovalStatus)
	require.NotNil(t, oldest.ApprovedBy)
	assert.Equal(t, models.AutoApprovalActor, *oldest.ApprovedBy)
	assert.Equal(t, models.ApprovalStatusPending, newer.ApprovalStatus)

	require.Len(t, notifier.autoApprovals, 1)
	assert.Equal(t, 1, notifier.autoApprovals[0])
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), notifier.lastAwayDay)
}

func TestEnsureCoverageWithNothingToPromote(t *testing.T) {
	repo := newFakePostRepo()
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusRejected})
	notifier := &fakeNotifier{}
	svc := NewAwayService(newFakeAwayRepo("2026-03-14"), repo, notifier)

	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC))

	assert.True(t, result.IsAwayDay)
	assert.False(t, result.AutoApproved)
	assert.Empty(t, notifier.autoApprovals)
}

func TestEnsureCoverageSwallowsRepositoryErrors(t *testing.T) {
	awayRepo := newFakeAwayRepo("2026-03-14")
	awayRepo.err = errors.New("connection refused")
	svc := NewAwayService(awayRepo, newFakePostRepo(), &fakeNotifier{})

	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, transfer.CoverageResult{}, result)
}

func TestEnsureCoverageNormalizesToUTCDay(t *testing.T) {
	repo := newFakePostRepo()
	repo.add(&models.Post{ApprovalStatus: models.ApprovalStatusApproved})
	svc := NewAwayService(newFakeAwayRepo("2026-03-15"), repo, &fakeNotifier{})

	// 23:30 UTC-3 on the 14th is already the 15th in UTC.
	loc := time.FixedZone("UTC-3", -3*60*60)
	result := svc.EnsureCoverage(context.Background(), time.Date(2026, 3, 14, 23, 30, 0, 0, loc))

	assert.True(t, result.IsAwayDay)
}

func TestReplaceDedupsAndSkipsInvalidDates(t *testing.T) {
	awayRepo := newFakeAwayRepo()
	svc := NewAwayService(awayRepo, newFakePostRepo(), &fakeNotifier{})

	days, err := svc.Replace(context.Background(), []string{
		"2099-04-01", "2099-04-01", "not-a-date", "2099-04-02",
	})
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "2099-04-01", days[0].AwayDate.Format("2006-01-02"))
	assert.Equal(t, "2099-04-02", days[1].AwayDate.Format("2006-01-02"))
}

func TestReplaceDropsPastSelections(t *testing.T) {
	awayRepo := newFakeAwayRepo("2020-01-01")
	svc := NewAwayService(awayRepo, newFakePostRepo(), &fakeNotifier{})

	days, err := svc.Replace(context.Background(), []string{"2020-01-01"})
	require.NoError(t, err)

	// The stale date is stored but List only reports today onward.
	assert.Empty(t, days)
}

func TestClearRemovesEveryAwayDay(t *testing.T) {
	awayRepo := newFakeAwayRepo("2099-04-01", "2099-04-02")
	svc := NewAwayService(awayRepo, newFakePostRepo(), &fakeNotifier{})

	require.NoError(t, svc.Clear(context.Background()))

	days, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, days)
}
