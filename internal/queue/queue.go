// Package queue carries operator notifications out of the request
// path. Handlers enqueue mail tasks fire-and-forget; the asynq worker
// delivers them.
package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskTypeNotifyEmail = "notify:email"

const (
	EventLowContent   = "no-posts-available"
	EventAutoApproval = "away-mode-auto-approval"
)

type EmailPayload struct {
	Event   string `json:"event"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func EnqueueEmail(client *asynq.Client, payload EmailPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeNotifyEmail, taskPayload)

	_, err = client.Enqueue(task, asynq.MaxRetry(3))
	return err
}
