package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// fakePostRepo is an in-memory PostRepository mirroring the SQL
// semantics the services rely on.
type fakePostRepo struct {
	nextID int64
	posts  map[int64]*models.Post
	err    error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post)}
}

func (r *fakePostRepo) add(post *models.Post) *models.Post {
	r.nextID++
	post.ID = r.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Unix(r.nextID, 0)
	}
	r.posts[post.ID] = post
	return post
}

func (r *fakePostRepo) sorted() []*models.Post {
	posts := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts
}

func hasValidLateID(p *models.Post) bool {
	return p.LatePostID != nil && *p.LatePostID != "" && *p.LatePostID != models.OrphanSentinel
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.add(post).ID, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.posts[id], nil
}

func (r *fakePostRepo) List(_ context.Context, status string, limit, offset int) ([]*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Post
	for _, p := range r.sorted() {
		if status == "" || p.ApprovalStatus == status {
			out = append(out, p)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.posts[id]
	delete(r.posts, id)
	return ok, nil
}

func (r *fakePostRepo) UpdateFields(_ context.Context, id int64, fields map[string]any) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	if caption, ok := fields["caption"].(string); ok {
		p.Caption = caption
	}
	if title, ok := fields["title"].(string); ok {
		p.Title = title
	}
	if edited, ok := fields["is_edited"].(bool); ok {
		p.IsEdited = edited
	}
	return true, nil
}

func (r *fakePostRepo) Approve(_ context.Context, id int64, actor string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	p.ApprovalStatus = models.ApprovalStatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &actor
	return true, nil
}

func (r *fakePostRepo) Reject(_ context.Context, id int64, reason string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	p.ApprovalStatus = models.ApprovalStatusRejected
	p.RejectionReason = &reason
	p.ApprovedAt = nil
	p.ApprovedBy = nil
	return true, nil
}

func (r *fakePostRepo) RevertToPending(_ context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	p.ApprovalStatus = models.ApprovalStatusPending
	p.ApprovedAt = nil
	p.ApprovedBy = nil
	return true, nil
}

func (r *fakePostRepo) ApproveMany(_ context.Context, ids []int64, actor string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			p.ApprovalStatus = models.ApprovalStatusApproved
			p.ApprovedBy = &actor
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) BulkApprovedToPending(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, p := range r.posts {
		if p.ApprovalStatus == models.ApprovalStatusApproved {
			p.ApprovalStatus = models.ApprovalStatusPending
			p.ApprovedAt = nil
			p.ApprovedBy = nil
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) CountByApprovalStatus(_ context.Context, status string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int
	for _, p := range r.posts {
		if p.ApprovalStatus == status {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) CountApprovedUnlinked(_ context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int
	for _, p := range r.posts {
		if p.ApprovalStatus == models.ApprovalStatusApproved && !hasValidLateID(p) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) CountApprovedWithLateID(_ context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int
	for _, p := range r.posts {
		if p.ApprovalStatus == models.ApprovalStatusApproved && hasValidLateID(p) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) ListApprovedUnlinked(_ context.Context) ([]*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Post
	for _, p := range r.sorted() {
		if p.ApprovalStatus == models.ApprovalStatusApproved && !hasValidLateID(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListOldestPending(_ context.Context, limit int) ([]*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Post
	for _, p := range r.sorted() {
		if p.ApprovalStatus == models.ApprovalStatusPending {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakePostRepo) SetLateLink(_ context.Context, id int64, latePostID, lateStatus string, scheduledFor *time.Time) error {
	if r.err != nil {
		return r.err
	}
	for otherID, p := range r.posts {
		if otherID != id && p.LatePostID != nil && *p.LatePostID == latePostID {
			return errors.New("duplicate late_post_id")
		}
	}
	p, ok := r.posts[id]
	if !ok {
		return errors.New("post not found")
	}
	p.LatePostID = &latePostID
	p.LateStatus = &lateStatus
	p.LateScheduledFor = scheduledFor
	return nil
}

func (r *fakePostRepo) CleanupOrphaned(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, p := range r.posts {
		if p.LatePostID != nil && (*p.LatePostID == "" || *p.LatePostID == models.OrphanSentinel) {
			p.LatePostID = nil
			p.LateStatus = nil
			p.LateScheduledFor = nil
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) FixHTTPImageURLs(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, p := range r.posts {
		if len(p.MainImageURL) >= 7 && p.MainImageURL[:7] == "http://" {
			p.MainImageURL = "https://" + p.MainImageURL[7:]
			n++
		}
	}
	return n, nil
}

// fakeLateService stubs the external scheduler with canned responses.
type fakeLateService struct {
	posts    []transfer.LatePost
	nextSlot *transfer.QueueSlot
	err      error
}

func (s *fakeLateService) GetAccounts(context.Context) ([]transfer.LateAccount, error) {
	return nil, s.err
}

func (s *fakeLateService) ListPosts(context.Context, string) ([]transfer.LatePost, error) {
	return s.posts, s.err
}

func (s *fakeLateService) GetPost(context.Context, string) (transfer.RawJSON, error) {
	return nil, s.err
}

func (s *fakeLateService) CreatePost(context.Context, transfer.LatePostCreation) (*transfer.LatePost, error) {
	return nil, s.err
}

func (s *fakeLateService) UpdatePost(context.Context, string, transfer.RawJSON) (transfer.RawJSON, error) {
	return nil, s.err
}

func (s *fakeLateService) GetNextQueueSlot(context.Context, string) (*transfer.QueueSlot, error) {
	return s.nextSlot, s.err
}

func (s *fakeLateService) GetQueuePreview(context.Context, string) (transfer.RawJSON, error) {
	return nil, s.err
}

func (s *fakeLateService) GetQueueSlots(context.Context, string) (transfer.RawJSON, error) {
	return nil, s.err
}

// fakeNotifier records every notification instead of enqueueing mail.
type fakeNotifier struct {
	noPostsCalls  []int
	lastNextSlot  *time.Time
	autoApprovals []int
	lastAwayDay   time.Time
}

func (n *fakeNotifier) NotifyNoPostsAvailable(pendingCount int, nextSlot *time.Time) {
	n.noPostsCalls = append(n.noPostsCalls, pendingCount)
	n.lastNextSlot = nextSlot
}

func (n *fakeNotifier) NotifyAutoApproval(count int, day time.Time) {
	n.autoApprovals = append(n.autoApprovals, count)
	n.lastAwayDay = day
}

// fakeAwayRepo is an in-memory AwayDayRepository keyed by date.
type fakeAwayRepo struct {
	days map[string]*models.AwayDay
	err  error
}

func newFakeAwayRepo(dates ...string) *fakeAwayRepo {
	r := &fakeAwayRepo{days: make(map[string]*models.AwayDay)}
	for i, d := range dates {
		day, _ := time.ParseInLocation("2006-01-02", d, time.UTC)
		r.days[d] = &models.AwayDay{ID: int64(i + 1), AwayDate: day}
	}
	return r
}

func (r *fakeAwayRepo) GetByDate(_ context.Context, day time.Time) (*models.AwayDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.days[day.Format("2006-01-02")], nil
}

func (r *fakeAwayRepo) ListFromDate(_ context.Context, from time.Time) ([]*models.AwayDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.AwayDay
	for _, d := range r.days {
		if !d.AwayDate.Before(from) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwayDate.Before(out[j].AwayDate) })
	return out, nil
}

func (r *fakeAwayRepo) ReplaceAll(_ context.Context, dates []time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.days = make(map[string]*models.AwayDay)
	for i, d := range dates {
		r.days[d.Format("2006-01-02")] = &models.AwayDay{ID: int64(i + 1), AwayDate: d}
	}
	return nil
}

func (r *fakeAwayRepo) DeleteAll(context.Context) error {
	if r.err != nil {
		return r.err
	}
	r.days = make(map[string]*models.AwayDay)
	return nil
}
