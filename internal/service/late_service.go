package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/metrics"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// LateService wraps the external post-scheduling API. Every call is
// attempted exactly once; a non-2xx response surfaces as an
// UpstreamError carrying the upstream message.
type LateService interface {
	GetAccounts(ctx context.Context) ([]transfer.LateAccount, error)
	ListPosts(ctx context.Context, status string) ([]transfer.LatePost, error)
	GetPost(ctx context.Context, id string) (transfer.RawJSON, error)
	CreatePost(ctx context.Context, payload transfer.LatePostCreation) (*transfer.LatePost, error)
	UpdatePost(ctx context.Context, id string, payload transfer.RawJSON) (transfer.RawJSON, error)
	GetNextQueueSlot(ctx context.Context, profileID string) (*transfer.QueueSlot, error)
	GetQueuePreview(ctx context.Context, profileID string) (transfer.RawJSON, error)
	GetQueueSlots(ctx context.Context, profileID string) (transfer.RawJSON, error)
}

type lateService struct {
	cfg    config.Config
	client *http.Client
}

func NewLateService(cfg config.Config) LateService {
	return &lateService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *lateService) doRequest(ctx context.Context, operation, method, path string, query url.Values, body any) ([]byte, error) {
	if s.cfg.Late.APIKey == "" {
		return nil, apperrors.MissingConfig("LATE_API_KEY")
	}

	endpoint := s.cfg.Late.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Late.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.LateRequestDuration.WithLabelValues(operation, "transport_error").Observe(time.Since(start).Seconds())
		return nil, apperrors.Upstream("late", 0, err.Error())
	}
	defer resp.Body.Close()
	metrics.LateRequestDuration.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("late", resp.StatusCode, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Upstream("late", resp.StatusCode, upstreamMessage(respBody))
	}

	return respBody, nil
}

// upstreamMessage extracts an error message from a failure body, which
// the scheduler returns either as JSON or as plain text.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return string(body)
}

func (s *lateService) GetAccounts(ctx context.Context) ([]transfer.LateAccount, error) {
	body, err := s.doRequest(ctx, "get_accounts", http.MethodGet, "/accounts", nil, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Accounts []transfer.LateAccount `json:"accounts"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.Upstream("late", 0, fmt.Sprintf("unexpected accounts payload: %v", err))
	}
	return parsed.Accounts, nil
}

func (s *lateService) ListPosts(ctx context.Context, status string) ([]transfer.LatePost, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	body, err := s.doRequest(ctx, "list_posts", http.MethodGet, "/posts", query, nil)
	if err != nil {
		return nil, err
	}

	var parsed transfer.LatePostsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.Upstream("late", 0, fmt.Sprintf("unexpected posts payload: %v", err))
	}
	return parsed.Posts, nil
}

func (s *lateService) GetPost(ctx context.Context, id string) (transfer.RawJSON, error) {
	return s.doRequest(ctx, "get_post", http.MethodGet, "/posts/"+url.PathEscape(id), nil, nil)
}

func (s *lateService) CreatePost(ctx context.Context, payload transfer.LatePostCreation) (*transfer.LatePost, error) {
	body, err := s.doRequest(ctx, "create_post", http.MethodPost, "/posts", nil, payload)
	if err != nil {
		return nil, err
	}

	// Some responses wrap the created post, some return it bare.
	var wrapped struct {
		Post *transfer.LatePost `json:"post"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Post != nil && wrapped.Post.ID != "" {
		return wrapped.Post, nil
	}
	var post transfer.LatePost
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, apperrors.Upstream("late", 0, fmt.Sprintf("unexpected create payload: %v", err))
	}
	return &post, nil
}

func (s *lateService) UpdatePost(ctx context.Context, id string, payload transfer.RawJSON) (transfer.RawJSON, error) {
	return s.doRequest(ctx, "update_post", http.MethodPut, "/posts/"+url.PathEscape(id), nil, payload)
}

func (s *lateService) GetNextQueueSlot(ctx context.Context, profileID string) (*transfer.QueueSlot, error) {
	query := url.Values{}
	if profileID != "" {
		query.Set("profileId", profileID)
	}
	body, err := s.doRequest(ctx, "next_queue_slot", http.MethodGet, "/queue/next-slot", query, nil)
	if err != nil {
		return nil, err
	}

	var slot transfer.QueueSlot
	if err := json.Unmarshal(body, &slot); err != nil {
		return nil, apperrors.Upstream("late", 0, fmt.Sprintf("unexpected queue slot payload: %v", err))
	}
	return &slot, nil
}

func (s *lateService) GetQueuePreview(ctx context.Context, profileID string) (transfer.RawJSON, error) {
	query := url.Values{}
	if profileID != "" {
		query.Set("profileId", profileID)
	}
	return s.doRequest(ctx, "queue_preview", http.MethodGet, "/queue/preview", query, nil)
}

func (s *lateService) GetQueueSlots(ctx context.Context, profileID string) (transfer.RawJSON, error) {
	query := url.Values{}
	if profileID != "" {
		query.Set("profileId", profileID)
	}
	return s.doRequest(ctx, "queue_slots", http.MethodGet, "/queue/slots", query, nil)
}
