package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	config "github.com/wellbeat/awareness-api/configs"
)

const resendEndpoint = "https://api.resend.com/emails"

type Worker struct {
	cfg    config.Config
	client *http.Client
}

func NewWorker(cfg config.Config) *Worker {
	return &Worker{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *Worker) HandleNotifyEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if w.cfg.Mail.ResendAPIKey == "" || w.cfg.Mail.To == "" {
		// Mail is optional; drop the task instead of retrying forever.
		log.Warn().Str("event", payload.Event).Msg("mail not configured, dropping notification")
		return nil
	}

	return w.sendEmail(ctx, payload)
}

func (w *Worker) sendEmail(ctx context.Context, payload EmailPayload) error {
	body, err := json.Marshal(map[string]any{
		"from":    w.cfg.Mail.From,
		"to":      []string{w.cfg.Mail.To},
		"subject": payload.Subject,
		"text":    payload.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.Mail.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, string(respBody))
	}

	log.Info().Str("event", payload.Event).Msg("notification email sent")
	return nil
}
