package services

import (
	"context"

	"saldo/internal/logger"
	"saldo/internal/models"
	"saldo/internal/notify"
	"saldo/internal/rollup"
	"saldo/internal/store"

	"golang.org/x/sync/singleflight"
)

// recalculationService rebuilds a budget's cached aggregates from the raw
// month documents. Rebuilds run lazily: nothing here fires until a month
// view finds a staleness flag set.
type recalculationService struct {
	store  *store.Store
	broker *notify.Broker
	group  singleflight.Group
}

// NewRecalculationService creates a new RecalculationServicer.
func NewRecalculationService(st *store.Store, broker *notify.Broker) RecalculationServicer {
	return &recalculationService{store: st, broker: broker}
}

// EnsureFresh recalculates when the budget or the given month is flagged
// stale. Concurrent month views of the same budget share one rebuild via
// singleflight; each caller then reloads its own copy of the fresh budget.
func (s *recalculationService) EnsureFresh(ctx context.Context, budget *models.Budget, monthKey string) (*models.Budget, bool, error) {
	stale := budget.IsNeedsRecalculation || budget.MonthMap[monthKey].NeedsRecalculation
	if !stale {
		return budget, false, nil
	}

	_, err, _ := s.group.Do(budget.ID, func() (any, error) {
		return s.Recalculate(ctx, budget.ID)
	})
	if err != nil {
		return nil, false, err
	}

	// Callers go on to mutate the budget they get back, so the shared
	// rebuild result must not be handed to more than one of them.
	fresh, err := s.store.GetBudget(ctx, budget.ID)
	if err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

// Recalculate unconditionally rebuilds the budget's caches: every category
// balance from raw transactions and allocations, then the on-budget total,
// then the staleness flags clear and the budget persists. Month documents
// are read sequentially in key order; a read failure aborts the rebuild
// with every flag still set, so the next month view retries.
func (s *recalculationService) Recalculate(ctx context.Context, budgetID string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	keys := budget.SortedMonthKeys()
	months := make([]*models.Month, 0, len(keys))
	for _, key := range keys {
		month, exists, err := s.store.GetMonth(ctx, budgetID, key)
		if err != nil {
			return nil, err
		}
		if exists {
			months = append(months, month)
		}
	}

	balances := rollup.CategoryBalances(budget, months)
	for i := range budget.Categories {
		budget.Categories[i].Balance = balances[budget.Categories[i].ID]
	}
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)

	for key := range budget.MonthMap {
		budget.MonthMap[key] = models.MonthStatus{}
	}
	budget.IsNeedsRecalculation = false

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}

	logger.Named("recalc").Infow("budget caches rebuilt",
		"budget_id", budgetID, "months", len(months))
	s.broker.Publish(notify.Event{
		Type:     notify.EventRecalculated,
		BudgetID: budgetID,
		Message:  "Budget totals recalculated",
	})
	return budget, nil
}
