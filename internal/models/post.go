package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Post is a row of the search_results table: a piece of discovered or
// manually created content moving through the approval workflow.
type Post struct {
	ID           int64           `db:"id" json:"id"`
	Title        string          `db:"title" json:"title"`
	Snippet      string          `db:"snippet" json:"snippet"`
	Caption      string          `db:"caption" json:"caption"`
	Hashtags     pq.StringArray  `db:"hashtags" json:"hashtags"`
	MainImageURL string          `db:"main_image_url" json:"main_image_url"`
	RawData      json.RawMessage `db:"raw_data" json:"raw_data,omitempty"`

	ApprovalStatus  string     `db:"approval_status" json:"approval_status"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *string    `db:"approved_by" json:"approved_by,omitempty"`

	LatePostID       *string         `db:"late_post_id" json:"late_post_id,omitempty"`
	LateStatus       *string         `db:"late_status" json:"late_status,omitempty"`
	LateScheduledFor *time.Time      `db:"late_scheduled_for" json:"late_scheduled_for,omitempty"`
	LatePublishedAt  *time.Time      `db:"late_published_at" json:"late_published_at,omitempty"`
	LatePlatforms    json.RawMessage `db:"late_platforms" json:"late_platforms,omitempty"`

	PostedOnInstagram bool       `db:"posted_on_instagram" json:"posted_on_instagram"`
	PostedOnFacebook  bool       `db:"posted_on_facebook" json:"posted_on_facebook"`
	InstagramPostedAt *time.Time `db:"instagram_posted_at" json:"instagram_posted_at,omitempty"`
	FacebookPostedAt  *time.Time `db:"facebook_posted_at" json:"facebook_posted_at,omitempty"`
	ScheduledFor      *time.Time `db:"scheduled_for" json:"scheduled_for,omitempty"`

	IsEdited         bool      `db:"is_edited" json:"is_edited"`
	ContentProcessed bool      `db:"content_processed" json:"content_processed"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"

	LateStatusScheduled = "scheduled"
	LateStatusPublished = "published"
)

// AutoApprovalActor marks approvals performed by the away-mode
// reconciler instead of a human operator.
const AutoApprovalActor = "away_mode_auto"

const DefaultRejectionReason = "No reason provided"

// OrphanSentinel is the known bad late_post_id value written by a prior
// failed external call; "" is treated the same way.
const OrphanSentinel = "undefined"
