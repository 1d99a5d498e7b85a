package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id int64) (bool, error)

	UpdateFields(ctx context.Context, id int64, fields map[string]any) (bool, error)

	Approve(ctx context.Context, id int64, actor string) (bool, error)
	Reject(ctx context.Context, id int64, reason string) (bool, error)
	RevertToPending(ctx context.Context, id int64) (bool, error)
	ApproveMany(ctx context.Context, ids []int64, actor string) (int64, error)
	BulkApprovedToPending(ctx context.Context) (int64, error)

	CountByApprovalStatus(ctx context.Context, status string) (int, error)
	CountApprovedUnlinked(ctx context.Context) (int, error)
	CountApprovedWithLateID(ctx context.Context) (int, error)
	ListApprovedUnlinked(ctx context.Context) ([]*models.Post, error)
	ListOldestPending(ctx context.Context, limit int) ([]*models.Post, error)

	SetLateLink(ctx context.Context, id int64, latePostID, lateStatus string, scheduledFor *time.Time) error
	CleanupOrphaned(ctx context.Context) (int64, error)
	FixHTTPImageURLs(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, snippet, caption, hashtags, main_image_url, raw_data,
	approval_status, rejection_reason, approved_at, approved_by,
	late_post_id, late_status, late_scheduled_for, late_published_at, late_platforms,
	posted_on_instagram, posted_on_facebook, instagram_posted_at, facebook_posted_at,
	scheduled_for, is_edited, content_processed, created_at, updated_at`

// validLateIDCond matches rows holding a usable external id. "" and
// "undefined" are known orphan sentinels and count as unlinked.
const validLateIDCond = `late_post_id IS NOT NULL AND late_post_id NOT IN ('', 'undefined')`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Snippet, &p.Caption, &p.Hashtags, &p.MainImageURL, &p.RawData,
		&p.ApprovalStatus, &p.RejectionReason, &p.ApprovedAt, &p.ApprovedBy,
		&p.LatePostID, &p.LateStatus, &p.LateScheduledFor, &p.LatePublishedAt, &p.LatePlatforms,
		&p.PostedOnInstagram, &p.PostedOnFacebook, &p.InstagramPostedAt, &p.FacebookPostedAt,
		&p.ScheduledFor, &p.IsEdited, &p.ContentProcessed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO search_results (title, snippet, caption, hashtags, main_image_url, raw_data, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	status := post.ApprovalStatus
	if status == "" {
		status = models.ApprovalStatusPending
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Snippet, post.Caption, post.Hashtags, post.MainImageURL, nullableJSON(post.RawData), status,
	).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert post")
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM search_results WHERE id = $1`, postColumns)
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int64("post_id", id).Msg("failed to load post")
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		query := fmt.Sprintf(`SELECT %s FROM search_results WHERE approval_status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, postColumns)
		rows, err = r.db.QueryContext(ctx, query, status, limit, offset)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM search_results ORDER BY created_at DESC LIMIT $1 OFFSET $2`, postColumns)
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM search_results WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("failed to delete post")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// updatableColumns is the allow-list for partial updates. Anything
// outside this set is rejected before touching the database.
var updatableColumns = map[string]struct{}{
	"title":               {},
	"snippet":             {},
	"caption":             {},
	"hashtags":            {},
	"main_image_url":      {},
	"approval_status":     {},
	"rejection_reason":    {},
	"approved_at":         {},
	"approved_by":         {},
	"late_post_id":        {},
	"late_status":         {},
	"late_scheduled_for":  {},
	"late_published_at":   {},
	"late_platforms":      {},
	"scheduled_for":       {},
	"posted_on_instagram": {},
	"posted_on_facebook":  {},
	"instagram_posted_at": {},
	"facebook_posted_at":  {},
	"is_edited":           {},
	"content_processed":   {},
}

func (r *postRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if _, ok := updatableColumns[col]; !ok {
			return false, apperrors.Validation(col, "field is not updatable")
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE search_results SET %s WHERE id = $%d`,
		strings.Join(setClauses, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			field := "late_post_id"
			if !strings.Contains(pqErr.Constraint, "late_post_id") {
				field = pqErr.Constraint
			}
			return false, apperrors.Conflict(field, "value already belongs to another post")
		}
		log.Error().Err(err).Int64("post_id", id).Msg("failed to update post")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postRepository) Approve(ctx context.Context, id int64, actor string) (bool, error) {
	query := `
		UPDATE search_results
		SET approval_status = $1, approved_at = NOW(), approved_by = $2, updated_at = NOW()
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, models.ApprovalStatusApproved, actor, id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("failed to approve post")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postRepository) Reject(ctx context.Context, id int64, reason string) (bool, error) {
	query := `
		UPDATE search_results
		SET approval_status = $1, rejection_reason = $2, approved_at = NULL, approved_by = NULL, updated_at = NOW()
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, models.ApprovalStatusRejected, reason, id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("failed to reject post")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postRepository) RevertToPending(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE search_results
		SET approval_status = $1, approved_at = NULL, approved_by = NULL, updated_at = NOW()
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, query, models.ApprovalStatusPending, id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("failed to revert post to pending")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postRepository) ApproveMany(ctx context.Context, ids []int64, actor string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE search_results
		SET approval_status = $1, approved_at = NOW(), approved_by = $2, updated_at = NOW()
		WHERE id = ANY($3)
	`
	res, err := r.db.ExecContext(ctx, query, models.ApprovalStatusApproved, actor, pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Msg("failed to approve posts in batch")
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postRepository) BulkApprovedToPending(ctx context.Context) (int64, error) {
	query := `
		UPDATE search_results
		SET approval_status = $1, approved_at = NULL, approved_by = NULL, updated_at = NOW()
		WHERE approval_status = $2
	`
	res, err := r.db.ExecContext(ctx, query, models.ApprovalStatusPending, models.ApprovalStatusApproved)
	if err != nil {
		log.Error().Err(err).Msg("failed to move approved posts to pending")
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postRepository) CountByApprovalStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_results WHERE approval_status = $1`, status).Scan(&count)
	if err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to count posts")
		return 0, err
	}
	return count, nil
}

func (r *postRepository) CountApprovedUnlinked(ctx context.Context) (int, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM search_results WHERE approval_status = $1 AND NOT (%s)`, validLateIDCond)
	var count int
	err := r.db.QueryRowContext(ctx, query, models.ApprovalStatusApproved).Scan(&count)
	if err != nil {
		log.Error().Err(err).Msg("failed to count approved unscheduled posts")
		return 0, err
	}
	return count, nil
}

func (r *postRepository) CountApprovedWithLateID(ctx context.Context) (int, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM search_results WHERE approval_status = $1 AND %s`, validLateIDCond)
	var count int
	err := r.db.QueryRowContext(ctx, query, models.ApprovalStatusApproved).Scan(&count)
	if err != nil {
		log.Error().Err(err).Msg("failed to count approved scheduled posts")
		return 0, err
	}
	return count, nil
}

func (r *postRepository) ListApprovedUnlinked(ctx context.Context) ([]*models.Post, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM search_results WHERE approval_status = $1 AND NOT (%s) ORDER BY created_at ASC`,
		postColumns, validLateIDCond)
	rows, err := r.db.QueryContext(ctx, query, models.ApprovalStatusApproved)
	if err != nil {
		log.Error().Err(err).Msg("failed to list approved unscheduled posts")
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *postRepository) ListOldestPending(ctx context.Context, limit int) ([]*models.Post, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM search_results WHERE approval_status = $1 ORDER BY created_at ASC LIMIT $2`,
		postColumns)
	rows, err := r.db.QueryContext(ctx, query, models.ApprovalStatusPending, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list oldest pending posts")
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *postRepository) SetLateLink(ctx context.Context, id int64, latePostID, lateStatus string, scheduledFor *time.Time) error {
	query := `
		UPDATE search_results
		SET late_post_id = $1, late_status = $2, late_scheduled_for = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, latePostID, lateStatus, scheduledFor, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("late_post_id", "value already belongs to another post")
		}
		log.Error().Err(err).Int64("post_id", id).Str("late_post_id", latePostID).Msg("failed to link post to scheduler")
		return err
	}
	return nil
}

func (r *postRepository) CleanupOrphaned(ctx context.Context) (int64, error) {
	query := `
		UPDATE search_results
		SET late_post_id = NULL, late_status = NULL, late_scheduled_for = NULL,
			late_published_at = NULL, late_platforms = NULL, updated_at = NOW()
		WHERE late_post_id IN ('', $1)
	`
	res, err := r.db.ExecContext(ctx, query, models.OrphanSentinel)
	if err != nil {
		log.Error().Err(err).Msg("failed to clean up orphaned posts")
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postRepository) FixHTTPImageURLs(ctx context.Context) (int64, error) {
	query := `
		UPDATE search_results
		SET main_image_url = REPLACE(main_image_url, 'http://', 'https://'), updated_at = NOW()
		WHERE main_image_url LIKE 'http://%'
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to rewrite image urls")
		return 0, err
	}
	return res.RowsAffected()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
