package services

import (
	"context"

	apperrors "saldo/internal/errors"
	"saldo/internal/logger"
	"saldo/internal/models"
	"saldo/internal/notify"
	"saldo/internal/rollup"
	"saldo/internal/store"

	"github.com/shopspring/decimal"
)

// allocationService handles the allocation lifecycle for a month: draft
// saves, finalize, unfinalize. Drafts never move balances; only the
// finalized flag decides whether a month's allocations count.
type allocationService struct {
	store  *store.Store
	recalc RecalculationServicer
	broker *notify.Broker
}

// NewAllocationService creates a new AllocationServicer.
func NewAllocationService(st *store.Store, recalc RecalculationServicer, broker *notify.Broker) AllocationServicer {
	return &allocationService{store: st, recalc: recalc, broker: broker}
}

// validateEntries checks a submitted allocation list: every category must
// exist on the budget and no amount may be negative. Zero amounts are
// accepted here and dropped at persistence.
func validateEntries(budget *models.Budget, entries []models.CategoryAllocation) error {
	for _, e := range entries {
		if budget.CategoryByID(e.CategoryID) == nil {
			return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Unknown category in allocations: "+e.CategoryID)
		}
		if e.Amount.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Allocation amounts must not be negative")
		}
	}
	return nil
}

// buildWorkspace assembles the allocations screen for a month. Rows follow
// the budget's category order; each carries the persisted draft amount or,
// absent one, the category's default suggestion. Percentage defaults derive
// from the previous month's income every time, never from a stored number.
func buildWorkspace(budget *models.Budget, month *models.Month, prevIncome decimal.Decimal) *AllocationWorkspace {
	rows := make([]AllocationRow, 0, len(budget.Categories))
	draftTotal := decimal.Zero

	for _, category := range budget.Categories {
		row := AllocationRow{CategoryID: category.ID, Name: category.Name, Source: "none"}

		if amount, ok := month.AllocationFor(category.ID); ok {
			row.Amount = amount
			row.Source = "saved"
		} else {
			switch category.DefaultMonthlyType {
			case models.AllocationFixed:
				row.Amount = category.DefaultMonthlyAmount
				row.Source = "default_fixed"
			case models.AllocationPercentage:
				row.Amount = rollup.PercentageAmount(category.DefaultMonthlyAmount, prevIncome)
				row.Source = "default_percentage"
			}
		}

		draftTotal = draftTotal.Add(row.Amount)
		rows = append(rows, row)
	}

	finalizedTotal := decimal.Zero
	if month.AllocationsFinalized {
		finalizedTotal = rollup.AllocationTotal(month.Allocations)
	}

	balances := make(map[string]decimal.Decimal, len(budget.Categories))
	for _, category := range budget.Categories {
		balances[category.ID] = category.Balance
	}
	availableNow := rollup.AvailableNow(budget.TotalAvailable, balances)

	return &AllocationWorkspace{
		BudgetID:            budget.ID,
		MonthKey:            month.Key,
		Rows:                rows,
		DraftTotal:          draftTotal,
		FinalizedTotal:      finalizedTotal,
		AvailableNow:        availableNow,
		AvailableAfterApply: rollup.AvailableAfterApply(availableNow, draftTotal, finalizedTotal),
		Finalized:           month.AllocationsFinalized,
		Stale:               budget.IsNeedsRecalculation,
	}
}

// loadWorkspace fetches everything a workspace needs: the fresh budget, the
// month (created on first visit) and the previous month's income total.
func (s *allocationService) loadWorkspace(ctx context.Context, userID, budgetID, monthKey string) (*models.Budget, *models.Month, decimal.Decimal, error) {
	budget, month, _, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	prevIncome := decimal.Zero
	if prevKey := models.PrevMonthKey(monthKey); prevKey != "" {
		prev, exists, err := s.store.GetMonth(ctx, budgetID, prevKey)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		if exists {
			prevIncome = rollup.MonthIncomeTotal(prev)
		}
	}
	return budget, month, prevIncome, nil
}

// GetWorkspace returns the computed allocations screen for a month.
func (s *allocationService) GetWorkspace(ctx context.Context, userID, budgetID, monthKey string) (*AllocationWorkspace, error) {
	budget, month, prevIncome, err := s.loadWorkspace(ctx, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	return buildWorkspace(budget, month, prevIncome), nil
}

// SaveDraft persists the submitted allocation list without touching the
// finalized flag or any balance. Saving over a finalized month leaves the
// cached category balances describing the previous list, so that month is
// flagged for recalculation instead of silently diverging.
func (s *allocationService) SaveDraft(ctx context.Context, userID, budgetID, monthKey string, entries []models.CategoryAllocation) (*AllocationWorkspace, error) {
	budget, month, prevIncome, err := s.loadWorkspace(ctx, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(budget, entries); err != nil {
		return nil, err
	}

	month.SetAllocations(entries)

	if !month.AllocationsFinalized {
		if err := s.store.PutMonth(ctx, month); err != nil {
			return nil, err
		}
		return buildWorkspace(budget, month, prevIncome), nil
	}

	budget.MonthMap[monthKey] = models.MonthStatus{NeedsRecalculation: true}
	budget.IsNeedsRecalculation = true
	if err := s.applyLifecycle(ctx, budget, month); err != nil {
		return nil, err
	}
	return buildWorkspace(budget, month, prevIncome), nil
}

// Finalize commits the submitted allocations: an implicit draft save, then
// the finalized flag, then the amounts land on the category balances.
func (s *allocationService) Finalize(ctx context.Context, userID, budgetID, monthKey string, entries []models.CategoryAllocation) (*AllocationWorkspace, error) {
	budget, month, prevIncome, err := s.loadWorkspace(ctx, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if month.AllocationsFinalized {
		return nil, apperrors.ErrAlreadyFinalized
	}
	if err := validateEntries(budget, entries); err != nil {
		return nil, err
	}

	month.SetAllocations(entries)
	month.AllocationsFinalized = true

	for _, a := range month.Allocations {
		if category := budget.CategoryByID(a.CategoryID); category != nil {
			category.Balance = category.Balance.Add(a.Amount)
		}
	}

	if err := s.applyLifecycle(ctx, budget, month); err != nil {
		return nil, err
	}

	s.broker.Publish(notify.Event{
		Type:     notify.EventMonthFinalized,
		BudgetID: budget.ID,
		MonthKey: monthKey,
		Message:  "Allocations for " + monthKey + " finalized",
	})
	return buildWorkspace(budget, month, prevIncome), nil
}

// Unfinalize reopens a month's allocations as a draft, removing their
// amounts from the category balances immediately.
func (s *allocationService) Unfinalize(ctx context.Context, userID, budgetID, monthKey string) (*AllocationWorkspace, error) {
	budget, month, prevIncome, err := s.loadWorkspace(ctx, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if !month.AllocationsFinalized {
		return nil, apperrors.ErrNotFinalized
	}

	month.AllocationsFinalized = false
	for _, a := range month.Allocations {
		if category := budget.CategoryByID(a.CategoryID); category != nil {
			category.Balance = category.Balance.Sub(a.Amount)
		}
	}

	if err := s.applyLifecycle(ctx, budget, month); err != nil {
		return nil, err
	}

	s.broker.Publish(notify.Event{
		Type:     notify.EventMonthUnfinalized,
		BudgetID: budget.ID,
		MonthKey: monthKey,
		Message:  "Allocations for " + monthKey + " reopened",
	})
	return buildWorkspace(budget, month, prevIncome), nil
}

// applyLifecycle writes the month and then the budget. The two documents
// have no shared transaction; a failure after the month landed flags the
// budget stale so the caches rebuild on the next month view.
func (s *allocationService) applyLifecycle(ctx context.Context, budget *models.Budget, month *models.Month) error {
	var ws store.WriteSet
	ws.Stage("month "+month.Key, func(ctx context.Context) error {
		return s.store.PutMonth(ctx, month)
	})
	ws.Stage("budget "+budget.ID, func(ctx context.Context) error {
		return s.store.PutBudget(ctx, budget)
	})
	ws.OnPartial(func(ctx context.Context, applied []string) {
		err := s.store.UpdateBudgetFields(ctx, budget.ID, map[string]any{
			"is_needs_recalculation": true,
		})
		if err != nil {
			logger.Named("allocations").Errorw("failed to flag budget stale after partial write",
				"budget_id", budget.ID, "applied", applied, "error", err)
		}
	})
	return ws.Apply(ctx)
}
