package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"saldo/internal/models"
	"saldo/internal/store"
	"saldo/internal/uuid"

	"github.com/shopspring/decimal"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// BoolPtr returns a pointer to b, for tri-state account flags.
func BoolPtr(b bool) *bool {
	return &b
}

// CreateTestBudget creates and persists a budget with one on-budget account
// holding 1000 and two categories (Groceries with a fixed 200 default, Rent
// with none). TotalAvailable starts coherent with the account balance.
func CreateTestBudget(t *testing.T, st *store.Store, ownerID string) *models.Budget {
	t.Helper()

	n := nextID()
	budget := &models.Budget{
		ID:      uuid.New(),
		Name:    fmt.Sprintf("Test Budget %d", n),
		OwnerID: ownerID,
		Accounts: []models.Account{
			{ID: uuid.New(), Name: fmt.Sprintf("Checking %d", n), Balance: decimal.NewFromInt(1000)},
		},
		Categories: []models.Category{
			{
				ID:                   uuid.New(),
				Name:                 "Groceries",
				DefaultMonthlyAmount: decimal.NewFromInt(200),
				DefaultMonthlyType:   models.AllocationFixed,
			},
			{ID: uuid.New(), Name: "Rent", Position: 1},
		},
		MonthMap:       map[string]models.MonthStatus{},
		TotalAvailable: decimal.NewFromInt(1000),
		CreatedAt:      time.Now().UTC(),
	}
	if err := st.PutBudget(context.Background(), budget); err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestMonth creates and persists an empty month document and registers
// it in the budget's month map.
func CreateTestMonth(t *testing.T, st *store.Store, budget *models.Budget, monthKey string) *models.Month {
	t.Helper()

	month := &models.Month{
		BudgetID:  budget.ID,
		Key:       monthKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.PutMonth(context.Background(), month); err != nil {
		t.Fatalf("failed to create test month: %v", err)
	}

	budget.EnsureMonth(monthKey)
	if err := st.PutBudget(context.Background(), budget); err != nil {
		t.Fatalf("failed to register test month: %v", err)
	}
	return month
}

// NewTestIncome builds an income transaction of the given amount.
func NewTestIncome(amount string) models.IncomeTransaction {
	return models.IncomeTransaction{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString(amount),
		Date:   time.Now().UTC(),
		Payee:  fmt.Sprintf("Employer %d", nextID()),
	}
}

// NewTestExpense builds a standard expense against the given category.
func NewTestExpense(categoryID, amount string) models.ExpenseTransaction {
	return models.ExpenseTransaction{
		ID:         uuid.New(),
		Amount:     decimal.RequireFromString(amount),
		Kind:       models.ExpenseStandard,
		Date:       time.Now().UTC(),
		Payee:      fmt.Sprintf("Shop %d", nextID()),
		CategoryID: categoryID,
	}
}
