package services

import (
	"context"
	"time"

	apperrors "saldo/internal/errors"
	"saldo/internal/logger"
	"saldo/internal/models"
	"saldo/internal/rollup"
	"saldo/internal/store"
	"saldo/internal/uuid"

	"github.com/shopspring/decimal"
)

// monthService handles month views and the income and expense entries
// within a month. Opening a month is the one place lazy recalculation
// fires; loading the budget shell never does.
type monthService struct {
	store  *store.Store
	recalc RecalculationServicer
}

// NewMonthService creates a new MonthServicer.
func NewMonthService(st *store.Store, recalc RecalculationServicer) MonthServicer {
	return &monthService{store: st, recalc: recalc}
}

// loadMonth fetches the budget and month for a request, creating and
// registering the month document on first visit, then brings stale caches
// up to date. Returns the fresh budget, the month, and whether a rebuild
// ran.
func loadMonth(ctx context.Context, st *store.Store, recalc RecalculationServicer, userID, budgetID, monthKey string) (*models.Budget, *models.Month, bool, error) {
	if !models.ValidMonthKey(monthKey) {
		return nil, nil, false, apperrors.ErrInvalidMonthKey
	}

	budget, err := loadBudget(ctx, st, userID, budgetID)
	if err != nil {
		return nil, nil, false, err
	}

	month, exists, err := st.GetMonth(ctx, budgetID, monthKey)
	if err != nil {
		return nil, nil, false, err
	}
	if !exists {
		month = &models.Month{
			BudgetID:  budgetID,
			Key:       monthKey,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.PutMonth(ctx, month); err != nil {
			return nil, nil, false, err
		}
		budget.EnsureMonth(monthKey)
		if err := st.PutBudget(ctx, budget); err != nil {
			return nil, nil, false, err
		}
	}

	budget, recalculated, err := recalc.EnsureFresh(ctx, budget, monthKey)
	if err != nil {
		return nil, nil, false, err
	}
	return budget, month, recalculated, nil
}

// monthView assembles the computed payload for a month.
func monthView(budget *models.Budget, month *models.Month, recalculated bool) *MonthView {
	spent := rollup.MonthSpent(month)
	spentTotal := decimal.Zero
	for _, amount := range spent {
		spentTotal = spentTotal.Add(amount)
	}

	return &MonthView{
		Budget:              budget,
		Month:               month,
		IncomeTotal:         rollup.MonthIncomeTotal(month),
		SpentTotal:          spentTotal,
		SpentByCategory:     spent,
		AllocatedByCategory: rollup.MonthAllocated(month),
		Recalculated:        recalculated,
	}
}

// GetMonth returns the computed view for a month, creating the document on
// first navigation.
func (s *monthService) GetMonth(ctx context.Context, userID, budgetID, monthKey string) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// validateIncome rejects bad income input before any write is attempted.
func validateIncome(budget *models.Budget, input TransactionInput) error {
	if !input.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if input.AccountID != "" && budget.AccountByID(input.AccountID) == nil {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// validateExpense rejects bad expense input. Standard entries must be
// positive; adjustment entries carry a user-toggled sign but may not be
// zero.
func validateExpense(budget *models.Budget, input ExpenseInput) error {
	switch input.Kind {
	case models.ExpenseStandard:
		if !input.Amount.IsPositive() {
			return apperrors.ErrInvalidAmount
		}
	case models.ExpenseAdjustment:
		if input.Amount.IsZero() {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Adjustment amount must not be zero")
		}
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense kind must be standard or adjustment")
	}
	if input.CategoryID != "" && budget.CategoryByID(input.CategoryID) == nil {
		return apperrors.ErrCategoryNotFound
	}
	if input.AccountID != "" && budget.AccountByID(input.AccountID) == nil {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// saveMonthAndBudget stages the month write, and the budget write when the
// mutation touched cached balances, then applies them in order. A failure
// after the month landed flags the budget stale so the next month view
// reconciles the caches instead of trusting them.
func (s *monthService) saveMonthAndBudget(ctx context.Context, budget *models.Budget, month *models.Month, budgetDirty bool) error {
	var ws store.WriteSet
	ws.Stage("month "+month.Key, func(ctx context.Context) error {
		return s.store.PutMonth(ctx, month)
	})
	if budgetDirty {
		ws.Stage("budget "+budget.ID, func(ctx context.Context) error {
			return s.store.PutBudget(ctx, budget)
		})
	}
	ws.OnPartial(func(ctx context.Context, applied []string) {
		err := s.store.UpdateBudgetFields(ctx, budget.ID, map[string]any{
			"is_needs_recalculation": true,
		})
		if err != nil {
			logger.Named("months").Errorw("failed to flag budget stale after partial write",
				"budget_id", budget.ID, "applied", applied, "error", err)
		}
	})
	return ws.Apply(ctx)
}

// AddIncome appends an income entry and credits its account.
func (s *monthService) AddIncome(ctx context.Context, userID, budgetID, monthKey string, input TransactionInput) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if err := validateIncome(budget, input); err != nil {
		return nil, err
	}

	month.Income = append(month.Income, models.IncomeTransaction{
		ID:          uuid.New(),
		Amount:      input.Amount,
		Date:        input.Date,
		Payee:       input.Payee,
		Description: input.Description,
		AccountID:   input.AccountID,
		Cleared:     input.Cleared,
	})

	budgetDirty := false
	if account := budget.AccountByID(input.AccountID); account != nil {
		account.Balance = account.Balance.Add(input.Amount)
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
		budgetDirty = true
	}

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// UpdateIncome replaces an income entry, moving its amount between accounts
// when the account reference changed.
func (s *monthService) UpdateIncome(ctx context.Context, userID, budgetID, monthKey, transactionID string, input TransactionInput) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if err := validateIncome(budget, input); err != nil {
		return nil, err
	}

	_, entry := month.FindIncome(transactionID)
	if entry == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	budgetDirty := false
	if account := budget.AccountByID(entry.AccountID); account != nil {
		account.Balance = account.Balance.Sub(entry.Amount)
		budgetDirty = true
	}
	if account := budget.AccountByID(input.AccountID); account != nil {
		account.Balance = account.Balance.Add(input.Amount)
		budgetDirty = true
	}
	if budgetDirty {
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
	}

	entry.Amount = input.Amount
	entry.Date = input.Date
	entry.Payee = input.Payee
	entry.Description = input.Description
	entry.AccountID = input.AccountID
	entry.Cleared = input.Cleared

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// DeleteIncome removes an income entry and debits its account.
func (s *monthService) DeleteIncome(ctx context.Context, userID, budgetID, monthKey, transactionID string) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}

	idx, entry := month.FindIncome(transactionID)
	if entry == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	budgetDirty := false
	if account := budget.AccountByID(entry.AccountID); account != nil {
		account.Balance = account.Balance.Sub(entry.Amount)
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
		budgetDirty = true
	}
	month.Income = append(month.Income[:idx], month.Income[idx+1:]...)

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// AddExpense appends an expense entry, debiting its account and category.
func (s *monthService) AddExpense(ctx context.Context, userID, budgetID, monthKey string, input ExpenseInput) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if err := validateExpense(budget, input); err != nil {
		return nil, err
	}

	month.Expenses = append(month.Expenses, models.ExpenseTransaction{
		ID:          uuid.New(),
		Amount:      input.Amount,
		Kind:        input.Kind,
		Date:        input.Date,
		Payee:       input.Payee,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		AccountID:   input.AccountID,
		Cleared:     input.Cleared,
	})

	budgetDirty := false
	if account := budget.AccountByID(input.AccountID); account != nil {
		account.Balance = account.Balance.Sub(input.Amount)
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
		budgetDirty = true
	}
	if category := budget.CategoryByID(input.CategoryID); category != nil {
		category.Balance = category.Balance.Sub(input.Amount)
		budgetDirty = true
	}

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// UpdateExpense replaces an expense entry, reverting the old entry's effect
// on cached balances before applying the new one.
func (s *monthService) UpdateExpense(ctx context.Context, userID, budgetID, monthKey, transactionID string, input ExpenseInput) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}
	if err := validateExpense(budget, input); err != nil {
		return nil, err
	}

	_, entry := month.FindExpense(transactionID)
	if entry == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	budgetDirty := false
	if account := budget.AccountByID(entry.AccountID); account != nil {
		account.Balance = account.Balance.Add(entry.Amount)
		budgetDirty = true
	}
	if category := budget.CategoryByID(entry.CategoryID); category != nil {
		category.Balance = category.Balance.Add(entry.Amount)
		budgetDirty = true
	}
	if account := budget.AccountByID(input.AccountID); account != nil {
		account.Balance = account.Balance.Sub(input.Amount)
		budgetDirty = true
	}
	if category := budget.CategoryByID(input.CategoryID); category != nil {
		category.Balance = category.Balance.Sub(input.Amount)
		budgetDirty = true
	}
	if budgetDirty {
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
	}

	entry.Amount = input.Amount
	entry.Kind = input.Kind
	entry.Date = input.Date
	entry.Payee = input.Payee
	entry.Description = input.Description
	entry.CategoryID = input.CategoryID
	entry.AccountID = input.AccountID
	entry.Cleared = input.Cleared

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}

// DeleteExpense removes an expense entry, crediting its account and
// category back.
func (s *monthService) DeleteExpense(ctx context.Context, userID, budgetID, monthKey, transactionID string) (*MonthView, error) {
	budget, month, recalculated, err := loadMonth(ctx, s.store, s.recalc, userID, budgetID, monthKey)
	if err != nil {
		return nil, err
	}

	idx, entry := month.FindExpense(transactionID)
	if entry == nil {
		return nil, apperrors.ErrTransactionNotFound
	}

	budgetDirty := false
	if account := budget.AccountByID(entry.AccountID); account != nil {
		account.Balance = account.Balance.Add(entry.Amount)
		budgetDirty = true
	}
	if category := budget.CategoryByID(entry.CategoryID); category != nil {
		category.Balance = category.Balance.Add(entry.Amount)
		budgetDirty = true
	}
	if budgetDirty {
		budget.TotalAvailable = rollup.OnBudgetTotal(budget)
	}
	month.Expenses = append(month.Expenses[:idx], month.Expenses[idx+1:]...)

	if err := s.saveMonthAndBudget(ctx, budget, month, budgetDirty); err != nil {
		return nil, err
	}
	return monthView(budget, month, recalculated), nil
}
