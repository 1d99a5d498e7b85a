package transfer

import (
	"encoding/json"
	"time"
)

type PostCreation struct {
	Title        string          `json:"title"`
	Snippet      string          `json:"snippet"`
	Caption      string          `json:"caption" validate:"required"`
	Hashtags     []string        `json:"hashtags"`
	MainImageURL string          `json:"main_image_url"`
	RawData      json.RawMessage `json:"raw_data"`
}

type PostRejection struct {
	PostID int64  `json:"postId" validate:"required"`
	Reason string `json:"reason"`
}

type PostSendToPending struct {
	PostID int64 `json:"postId" validate:"required"`
}

// PostEditFields is the allow-listed partial update payload. Only
// non-nil fields are written; anything else on the row is untouched.
type PostEditFields struct {
	Title            *string    `json:"title"`
	Snippet          *string    `json:"snippet"`
	Caption          *string    `json:"caption"`
	Hashtags         *[]string  `json:"hashtags"`
	MainImageURL     *string    `json:"main_image_url"`
	ApprovalStatus   *string    `json:"approval_status" validate:"omitempty,oneof=pending approved rejected"`
	RejectionReason  *string    `json:"rejection_reason"`
	LatePostID       *string    `json:"late_post_id"`
	LateStatus       *string    `json:"late_status"`
	ScheduledFor     *time.Time `json:"scheduled_for"`
	ContentProcessed *bool      `json:"content_processed"`
}

type PostEdit struct {
	PostID  int64           `json:"postId" validate:"required"`
	Updates *PostEditFields `json:"updates" validate:"required"`
}

type BulkPendingResult struct {
	MovedCount int64 `json:"movedCount"`
	// StillScheduledCount posts moved back to pending that still carry a
	// live external id and will publish regardless of local status.
	StillScheduledCount int `json:"stillScheduledCount"`
	Warning             string `json:"warning,omitempty"`
}

type SyncResult struct {
	DBCandidates   int `json:"dbCandidates"`
	LateCandidates int `json:"lateCandidates"`
	Matched        int `json:"matched"`
}

type AvailabilityResult struct {
	ApprovedCount    int        `json:"approvedCount"`
	PendingCount     int        `json:"pendingCount"`
	NotificationSent bool       `json:"notificationSent"`
	NextQueueSlot    *time.Time `json:"nextQueueSlot,omitempty"`
}
