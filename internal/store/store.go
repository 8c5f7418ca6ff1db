// Package store maps raw documents to domain models. It owns the JSON
// encoding of budgets, months and feedback, the owner strings used for
// member-scoped listing, and the translation of docstore failures into
// application errors.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"saldo/internal/docstore"
	apperrors "saldo/internal/errors"
	"saldo/internal/models"
)

// Store provides typed access to the document collections.
type Store struct {
	docs docstore.Store
}

// New creates a typed store over the given document store.
func New(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// Docs exposes the underlying document store for partial-field updates that
// have no typed wrapper.
func (s *Store) Docs() docstore.Store {
	return s.docs
}

func storeErr(err error) error {
	return apperrors.Wrap(apperrors.ErrStoreFailure, err)
}

// budgetOwner builds the member list a budget document is listed under.
func budgetOwner(b *models.Budget) string {
	members := append([]string{b.OwnerID}, b.ParticipantIDs...)
	return strings.Join(members, " ")
}

// GetBudget loads a budget document.
func (s *Store) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	doc, err := s.docs.Read(ctx, docstore.CollectionBudgets, budgetID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !doc.Exists {
		return nil, apperrors.ErrBudgetNotFound
	}

	var budget models.Budget
	if err := json.Unmarshal(doc.Data, &budget); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// PutBudget writes the full budget document, refreshing its updated_at.
func (s *Store) PutBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(budget)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.docs.Set(ctx, docstore.CollectionBudgets, budget.ID, budgetOwner(budget), data); err != nil {
		return storeErr(err)
	}
	return nil
}

// UpdateBudgetFields merges top-level fields into a budget document without
// rewriting it.
func (s *Store) UpdateBudgetFields(ctx context.Context, budgetID string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	err := s.docs.Update(ctx, docstore.CollectionBudgets, budgetID, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.ErrBudgetNotFound
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteBudget removes a budget and all of its month documents.
func (s *Store) DeleteBudget(ctx context.Context, budgetID string) error {
	if err := s.docs.DeleteByPrefix(ctx, docstore.CollectionMonths, budgetID+"_"); err != nil {
		return storeErr(err)
	}
	if err := s.docs.Delete(ctx, docstore.CollectionBudgets, budgetID); err != nil {
		return storeErr(err)
	}
	return nil
}

// ListBudgets returns the budgets the given user is a member of, ordered by
// id, plus the total count before paging.
func (s *Store) ListBudgets(ctx context.Context, member string, limit, offset int) ([]models.Budget, int64, error) {
	docs, total, err := s.docs.List(ctx, docstore.CollectionBudgets, member, limit, offset)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	budgets := make([]models.Budget, 0, len(docs))
	for _, doc := range docs {
		var budget models.Budget
		if err := json.Unmarshal(doc.Data, &budget); err != nil {
			return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		budgets = append(budgets, budget)
	}
	return budgets, total, nil
}

// GetMonth loads one month document. A month that has never been visited
// reports exists=false rather than an error.
func (s *Store) GetMonth(ctx context.Context, budgetID, monthKey string) (*models.Month, bool, error) {
	doc, err := s.docs.Read(ctx, docstore.CollectionMonths, models.MonthDocKey(budgetID, monthKey))
	if err != nil {
		return nil, false, storeErr(err)
	}
	if !doc.Exists {
		return nil, false, nil
	}

	var month models.Month
	if err := json.Unmarshal(doc.Data, &month); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &month, true, nil
}

// PutMonth writes the full month document.
func (s *Store) PutMonth(ctx context.Context, month *models.Month) error {
	month.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(month)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	key := models.MonthDocKey(month.BudgetID, month.Key)
	if err := s.docs.Set(ctx, docstore.CollectionMonths, key, month.BudgetID, data); err != nil {
		return storeErr(err)
	}
	return nil
}

// UpdateMonthFields merges top-level fields into an existing month document.
func (s *Store) UpdateMonthFields(ctx context.Context, budgetID, monthKey string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	err := s.docs.Update(ctx, docstore.CollectionMonths, models.MonthDocKey(budgetID, monthKey), fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.ErrMonthNotFound
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// PutFeedback stores one feedback entry.
func (s *Store) PutFeedback(ctx context.Context, fb *models.Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.docs.Set(ctx, docstore.CollectionFeedback, fb.ID, fb.UserID, data); err != nil {
		return storeErr(err)
	}
	return nil
}

// ListFeedback returns all feedback entries ordered by id, plus the total
// count before paging. Feedback ids are time-ordered, so this is submission
// order.
func (s *Store) ListFeedback(ctx context.Context, limit, offset int) ([]models.Feedback, int64, error) {
	docs, total, err := s.docs.List(ctx, docstore.CollectionFeedback, "", limit, offset)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	entries := make([]models.Feedback, 0, len(docs))
	for _, doc := range docs {
		var fb models.Feedback
		if err := json.Unmarshal(doc.Data, &fb); err != nil {
			return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		entries = append(entries, fb)
	}
	return entries, total, nil
}

// DeleteFeedback removes one feedback entry.
func (s *Store) DeleteFeedback(ctx context.Context, id string) error {
	doc, err := s.docs.Read(ctx, docstore.CollectionFeedback, id)
	if err != nil {
		return storeErr(err)
	}
	if !doc.Exists {
		return apperrors.ErrFeedbackNotFound
	}
	if err := s.docs.Delete(ctx, docstore.CollectionFeedback, id); err != nil {
		return storeErr(err)
	}
	return nil
}
