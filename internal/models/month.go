package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseKind distinguishes ordinary spending from balance adjustments.
type ExpenseKind string

const (
	// ExpenseStandard is an ordinary outflow; amounts must be positive.
	ExpenseStandard ExpenseKind = "standard"
	// ExpenseAdjustment is a correction entry whose sign the user
	// toggles; a negative amount increases the account balance.
	ExpenseAdjustment ExpenseKind = "adjustment"
)

// Month is one budget month's document: its income, spending and the
// category allocations with their draft/finalized state.
type Month struct {
	BudgetID string `json:"budget_id"`
	Key      string `json:"month"`

	Income      []IncomeTransaction  `json:"income"`
	Expenses    []ExpenseTransaction `json:"expenses"`
	Allocations []CategoryAllocation `json:"allocations"`

	// AllocationsFinalized gates whether this month's allocations count
	// toward category balances. False means the list is a draft.
	AllocationsFinalized bool `json:"allocations_finalized"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IncomeTransaction is money entering the budget in a month.
type IncomeTransaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Payee       string          `json:"payee,omitempty"`
	Description string          `json:"description,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
	Cleared     bool            `json:"cleared"`
}

// ExpenseTransaction is money leaving the budget in a month. Amount is
// the outflow: positive reduces the account balance and counts as
// category spend. Adjustment entries may carry a negative amount.
type ExpenseTransaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        ExpenseKind     `json:"kind"`
	Date        time.Time       `json:"date"`
	Payee       string          `json:"payee,omitempty"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
	Cleared     bool            `json:"cleared"`
}

// CategoryAllocation assigns an amount to a category for one month.
// Only amounts greater than zero are persisted.
type CategoryAllocation struct {
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// FindIncome returns the index and entry for an income id, or -1, nil.
func (m *Month) FindIncome(id string) (int, *IncomeTransaction) {
	for i := range m.Income {
		if m.Income[i].ID == id {
			return i, &m.Income[i]
		}
	}
	return -1, nil
}

// FindExpense returns the index and entry for an expense id, or -1, nil.
func (m *Month) FindExpense(id string) (int, *ExpenseTransaction) {
	for i := range m.Expenses {
		if m.Expenses[i].ID == id {
			return i, &m.Expenses[i]
		}
	}
	return -1, nil
}

// AllocationFor returns the persisted allocation amount for a category.
func (m *Month) AllocationFor(categoryID string) (decimal.Decimal, bool) {
	for _, a := range m.Allocations {
		if a.CategoryID == categoryID {
			return a.Amount, true
		}
	}
	return decimal.Zero, false
}

// SetAllocations replaces the allocation list, dropping non-positive
// amounts. Entry order follows the input.
func (m *Month) SetAllocations(entries []CategoryAllocation) {
	kept := make([]CategoryAllocation, 0, len(entries))
	for _, e := range entries {
		if e.Amount.IsPositive() {
			kept = append(kept, e)
		}
	}
	m.Allocations = kept
}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonthKey reports whether s is a YYYY-MM month key.
func ValidMonthKey(s string) bool {
	return monthKeyPattern.MatchString(s)
}

// MonthKeyOf formats a time as a month key.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// PrevMonthKey returns the key of the month before the given key.
// Invalid keys return an empty string.
func PrevMonthKey(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// NextMonthKey returns the key of the month after the given key.
// Invalid keys return an empty string.
func NextMonthKey(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 1, 0).Format("2006-01")
}

// MonthDocKey builds the document key for a month within a budget.
func MonthDocKey(budgetID, monthKey string) string {
	return budgetID + "_" + monthKey
}
