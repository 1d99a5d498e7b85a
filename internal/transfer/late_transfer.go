package transfer

import (
	"encoding/json"
	"time"
)

type LateAccount struct {
	ID       string `json:"_id"`
	Platform string `json:"platform"`
	Username string `json:"username"`
}

type LatePlatform struct {
	Platform  string `json:"platform"`
	AccountID string `json:"accountId"`
}

type LatePost struct {
	ID           string         `json:"_id"`
	Content      string         `json:"content"`
	Status       string         `json:"status"`
	ScheduledFor *time.Time     `json:"scheduledFor"`
	PublishedAt  *time.Time     `json:"publishedAt"`
	Platforms    []LatePlatform `json:"platforms"`
}

type LatePostsResponse struct {
	Posts []LatePost `json:"posts"`
}

type LatePostCreation struct {
	Content      string         `json:"content"`
	ScheduledFor string         `json:"scheduledFor,omitempty"`
	Platforms    []LatePlatform `json:"platforms"`
	Timezone     string         `json:"timezone,omitempty"`
}

type QueueSlot struct {
	ScheduledFor time.Time `json:"scheduledFor"`
}

// SchedulePostRequest drives the POST /late/posts flow: create the post
// on the external scheduler and, when postId is given, link the local
// row to the created external post.
type SchedulePostRequest struct {
	PostID       int64          `json:"postId"`
	Content      string         `json:"content" validate:"required"`
	ScheduledFor time.Time      `json:"scheduledFor" validate:"required"`
	Platforms    []LatePlatform `json:"platforms"`
	Timezone     string         `json:"timezone"`
}

type SchedulePostResponse struct {
	Post     *LatePost       `json:"post"`
	Coverage *CoverageResult `json:"coverage"`
}

type LateConfigInfo struct {
	BaseURL       string `json:"baseUrl"`
	ProfileID     string `json:"profileId,omitempty"`
	KeyConfigured bool   `json:"keyConfigured"`
}

// RawJSON is used for passthrough endpoints whose payload shape is
// owned entirely by the external scheduler.
type RawJSON = json.RawMessage
