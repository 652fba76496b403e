package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/aurelia-api/internal/lib/email"
	"github.com/hibiken/asynq"
)

// handleInquiryReceivedTask sends the studio notification for an inquiry.
// A returned error makes Asynq schedule a retry; a malformed payload is
// never retried.
func (j *JobService) handleInquiryReceivedTask(ctx context.Context, t *asynq.Task) error {
	var p InquiryReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskInquiryReceived).
		Str("inquiry_id", p.InquiryID).
		Msg("processing inquiry notification task")

	err := j.notifier.SendInquiryReceived(j.notifyTo, email.InquiryData{
		InquiryID: p.InquiryID,
		Name:      p.Name,
		Email:     p.Email,
		Message:   p.Message,
		Source:    p.Source,
	})
	if err != nil {
		j.logger.Error().
			Str("type", TaskInquiryReceived).
			Str("inquiry_id", p.InquiryID).
			Err(err).
			Msg("failed to send inquiry notification")
		return err
	}

	j.logger.Info().
		Str("type", TaskInquiryReceived).
		Str("inquiry_id", p.InquiryID).
		Msg("sent inquiry notification")

	return nil
}
