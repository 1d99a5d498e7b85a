package service

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/metrics"
	"github.com/wellbeat/awareness-api/internal/queue"
)

// NotificationService is the fire-and-forget operator mail sink. A
// failed enqueue is logged and swallowed; it must never fail the
// operation that triggered it.
type NotificationService interface {
	NotifyNoPostsAvailable(pendingCount int, nextSlot *time.Time)
	NotifyAutoApproval(count int, day time.Time)
}

type notificationService struct {
	client *asynq.Client
}

func NewNotificationService(client *asynq.Client) NotificationService {
	return &notificationService{client: client}
}

func (s *notificationService) NotifyNoPostsAvailable(pendingCount int, nextSlot *time.Time) {
	body := fmt.Sprintf("There are no approved posts left to schedule. Pending posts awaiting review: %d.", pendingCount)
	if nextSlot != nil {
		body += fmt.Sprintf("\nThe next open queue slot is %s.", nextSlot.Format(time.RFC1123))
	}

	s.enqueue(queue.EmailPayload{
		Event:   queue.EventLowContent,
		Subject: "No posts available for scheduling",
		Body:    body,
	})
}

func (s *notificationService) NotifyAutoApproval(count int, day time.Time) {
	s.enqueue(queue.EmailPayload{
		Event:   queue.EventAutoApproval,
		Subject: "Away mode auto-approved posts",
		Body: fmt.Sprintf("Away mode promoted %d pending post(s) to approved to cover %s.",
			count, day.Format("2006-01-02")),
	})
}

func (s *notificationService) enqueue(payload queue.EmailPayload) {
	if s.client == nil {
		log.Warn().Str("event", payload.Event).Msg("notification queue not configured, skipping")
		metrics.NotificationsEnqueued.WithLabelValues(payload.Event, "skipped").Inc()
		return
	}
	if err := queue.EnqueueEmail(s.client, payload); err != nil {
		log.Error().Err(err).Str("event", payload.Event).Msg("failed to enqueue notification")
		metrics.NotificationsEnqueued.WithLabelValues(payload.Event, "error").Inc()
		return
	}
	metrics.NotificationsEnqueued.WithLabelValues(payload.Event, "ok").Inc()
}
