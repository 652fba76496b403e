package service

import (
	"context"
	"errors"

	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/metrics"
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// InquiryNotifier queues the studio notification for a stored inquiry.
// *job.JobService implements it.
type InquiryNotifier interface {
	EnqueueInquiryReceived(ctx context.Context, inquiryID string, inquiry *model.Inquiry) error
}

type InquiryService struct {
	repo     *repository.InquiryRepository
	notifier InquiryNotifier
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

func NewInquiryService(s *server.Server, repo *repository.InquiryRepository) *InquiryService {
	return &InquiryService{
		repo:    repo,
		metrics: s.Metrics,
		logger:  s.Logger,
	}
}

// Create validates and stores a contact-form submission and returns its id.
// Validation errors are validator.ValidationErrors and never reach the store.
// Notification failures are logged and do not fail the call.
func (s *InquiryService) Create(ctx context.Context, name, email, message, source string) (string, error) {
	inquiry, err := model.NewInquiry(name, email, message, source)
	if err != nil {
		s.metrics.InquiryResult(metrics.ResultInvalid)
		return "", err
	}

	id, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			s.metrics.InquiryResult(metrics.ResultUnavailable)
		} else {
			s.metrics.InquiryResult(metrics.ResultFailed)
		}
		s.logger.Error().Err(err).Str("source", inquiry.Source).Msg("failed to store inquiry")
		return "", err
	}

	s.metrics.InquiryResult(metrics.ResultStored)
	s.logger.Info().Str("inquiry_id", id).Str("source", inquiry.Source).Msg("inquiry stored")

	s.notify(ctx, id, inquiry)

	return id, nil
}

func (s *InquiryService) notify(ctx context.Context, id string, inquiry *model.Inquiry) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.EnqueueInquiryReceived(ctx, id, inquiry); err != nil {
		s.metrics.NotificationResult(metrics.NotificationEnqueueErr)
		s.logger.Warn().Err(err).Str("inquiry_id", id).Msg("failed to enqueue inquiry notification")
		return
	}
	s.metrics.NotificationResult(metrics.NotificationEnqueued)
}

// IsValidationError reports whether err came from inquiry validation.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
