package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

func lateServiceFor(t *testing.T, handler http.HandlerFunc) LateService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewLateService(config.Config{
		Late: config.Late{BaseURL: server.URL, APIKey: "test-key"},
	})
}

func TestGetAccountsSendsBearerToken(t *testing.T) {
	var gotAuth string
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"accounts":[{"_id":"a1","platform":"instagram","username":"wellbeat"}]}`))
	})

	accounts, err := svc.GetAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, accounts, 1)
	assert.Equal(t, "instagram", accounts[0].Platform)
}

func TestDoRequestWithoutAPIKey(t *testing.T) {
	svc := NewLateService(config.Config{})

	_, err := svc.GetAccounts(context.Background())

	var configErr *apperrors.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestDoRequestSurfacesJSONError(t *testing.T) {
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"content is required"}`))
	})

	_, err := svc.ListPosts(context.Background(), "")

	var upstream *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.Equal(t, "content is required", upstream.Message)
}

func TestDoRequestSurfacesPlainTextError(t *testing.T) {
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timed out"))
	})

	_, err := svc.ListPosts(context.Background(), "")

	var upstream *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "upstream timed out", upstream.Message)
}

func TestListPostsForwardsStatusFilter(t *testing.T) {
	var gotStatus string
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		w.Write([]byte(`{"posts":[{"_id":"p1","content":"hello","status":"scheduled"}]}`))
	})

	posts, err := svc.ListPosts(context.Background(), "scheduled")
	require.NoError(t, err)

	assert.Equal(t, "scheduled", gotStatus)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestCreatePostUnwrapsWrappedResponse(t *testing.T) {
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"post":{"_id":"p2","content":"hi","status":"scheduled"}}`))
	})

	post, err := svc.CreatePost(context.Background(), transfer.LatePostCreation{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "p2", post.ID)
}

func TestCreatePostAcceptsBareResponse(t *testing.T) {
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id":"p3","content":"hi","status":"draft"}`))
	})

	post, err := svc.CreatePost(context.Background(), transfer.LatePostCreation{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "p3", post.ID)
	assert.Equal(t, "draft", post.Status)
}

func TestGetNextQueueSlotForwardsProfile(t *testing.T) {
	var gotProfile string
	svc := lateServiceFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotProfile = r.URL.Query().Get("profileId")
		w.Write([]byte(`{"scheduledFor":"2026-03-01T09:00:00Z"}`))
	})

	slot, err := svc.GetNextQueueSlot(context.Background(), "prof-1")
	require.NoError(t, err)

	assert.Equal(t, "prof-1", gotProfile)
	assert.Equal(t, 2026, slot.ScheduledFor.Year())
}
