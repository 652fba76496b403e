package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskInquiryReceived is the job type name stored in Redis.
	TaskInquiryReceived = "email:inquiry_received"
)

// InquiryReceivedPayload is the JSON payload of TaskInquiryReceived.
type InquiryReceivedPayload struct {
	InquiryID string `json:"inquiry_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// NewInquiryReceivedTask builds the notification task for a stored inquiry.
// It retries up to 3 times on the default queue with a 30s timeout.
func NewInquiryReceivedTask(inquiryID string, inquiry *model.Inquiry) (*asynq.Task, error) {
	payload, err := json.Marshal(InquiryReceivedPayload{
		InquiryID: inquiryID,
		Name:      inquiry.Name,
		Email:     inquiry.Email,
		Message:   inquiry.Message,
		Source:    inquiry.Source,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskInquiryReceived,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueInquiryReceived queues the notification email for a stored inquiry.
func (j *JobService) EnqueueInquiryReceived(ctx context.Context, inquiryID string, inquiry *model.Inquiry) error {
	task, err := NewInquiryReceivedTask(inquiryID, inquiry)
	if err != nil {
		return fmt.Errorf("building inquiry task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing inquiry task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("inquiry_id", inquiryID).
		Msg("inquiry notification enqueued")

	return nil
}
