package services

import (
	"context"
	"strings"
	"time"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/notify"
	"saldo/internal/pagination"
	"saldo/internal/store"
	"saldo/internal/uuid"
)

// maxFeedbackLength bounds a single feedback message.
const maxFeedbackLength = 2000

// feedbackService stores user feedback for the admin review screen.
type feedbackService struct {
	store  *store.Store
	broker *notify.Broker
}

// NewFeedbackService creates a new FeedbackServicer.
func NewFeedbackService(st *store.Store, broker *notify.Broker) FeedbackServicer {
	return &feedbackService{store: st, broker: broker}
}

// SubmitFeedback stores one feedback entry.
func (s *feedbackService) SubmitFeedback(ctx context.Context, userID, page, message string) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Feedback message is required")
	}
	if len(message) > maxFeedbackLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Feedback message is too long")
	}

	fb := &models.Feedback{
		ID:        uuid.New(),
		UserID:    userID,
		Page:      strings.TrimSpace(page),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.PutFeedback(ctx, fb); err != nil {
		return nil, err
	}

	s.broker.Publish(notify.Event{
		Type:    notify.EventFeedbackReceived,
		Message: "Feedback received on " + fb.Page,
	})
	return fb, nil
}

// ListFeedback returns feedback entries in submission order, paginated.
func (s *feedbackService) ListFeedback(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Feedback], error) {
	page.Defaults()

	entries, totalItems, err := s.store.ListFeedback(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteFeedback removes one feedback entry.
func (s *feedbackService) DeleteFeedback(ctx context.Context, id string) error {
	return s.store.DeleteFeedback(ctx, id)
}
