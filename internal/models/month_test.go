package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidMonthKey(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	invalid := []string{"2025-13", "2025-00", "2025-1", "25-01", "2025/01", "", "2025-01-01"}

	for _, key := range valid {
		if !ValidMonthKey(key) {
			t.Errorf("expected %q to be a valid month key", key)
		}
	}
	for _, key := range invalid {
		if ValidMonthKey(key) {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}

func TestMonthKeyNeighbours(t *testing.T) {
	tests := []struct {
		key  string
		prev string
		next string
	}{
		{"2025-06", "2025-05", "2025-07"},
		{"2025-01", "2024-12", "2025-02"},
		{"2024-12", "2024-11", "2025-01"},
	}

	for _, tt := range tests {
		if got := PrevMonthKey(tt.key); got != tt.prev {
			t.Errorf("PrevMonthKey(%q) = %q, want %q", tt.key, got, tt.prev)
		}
		if got := NextMonthKey(tt.key); got != tt.next {
			t.Errorf("NextMonthKey(%q) = %q, want %q", tt.key, got, tt.next)
		}
	}
}

func TestMonthKeyOf(t *testing.T) {
	ts := time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC)
	if got := MonthKeyOf(ts); got != "2025-03" {
		t.Errorf("MonthKeyOf = %q, want 2025-03", got)
	}
}

func TestMonthDocKey(t *testing.T) {
	if got := MonthDocKey("b1", "2025-06"); got != "b1_2025-06" {
		t.Errorf("MonthDocKey = %q", got)
	}
}

func TestFindTransactions(t *testing.T) {
	month := &Month{
		Income: []IncomeTransaction{
			{ID: "i1", Amount: decimal.NewFromInt(100)},
			{ID: "i2", Amount: decimal.NewFromInt(200)},
		},
		Expenses: []ExpenseTransaction{
			{ID: "e1", Amount: decimal.NewFromInt(50)},
		},
	}

	idx, tx := month.FindIncome("i2")
	if idx != 1 || tx == nil {
		t.Fatalf("FindIncome(i2) = %d, %v", idx, tx)
	}
	tx.Amount = decimal.NewFromInt(250)
	if !month.Income[1].Amount.Equal(decimal.NewFromInt(250)) {
		t.Error("expected FindIncome to return a live pointer")
	}

	if idx, tx := month.FindIncome("missing"); idx != -1 || tx != nil {
		t.Error("expected -1, nil for unknown income id")
	}
	if idx, tx := month.FindExpense("e1"); idx != 0 || tx == nil {
		t.Error("expected to find expense e1")
	}
}

func TestSetAllocations(t *testing.T) {
	month := &Month{}
	month.SetAllocations([]CategoryAllocation{
		{CategoryID: "c1", Amount: decimal.NewFromInt(100)},
		{CategoryID: "c2", Amount: decimal.Zero},
		{CategoryID: "c3", Amount: decimal.NewFromInt(-5)},
		{CategoryID: "c4", Amount: decimal.RequireFromString("12.50")},
	})

	if len(month.Allocations) != 2 {
		t.Fatalf("expected non-positive allocations to be dropped, got %d entries", len(month.Allocations))
	}
	if amount, ok := month.AllocationFor("c1"); !ok || !amount.Equal(decimal.NewFromInt(100)) {
		t.Error("missing allocation for c1")
	}
	if amount, ok := month.AllocationFor("c4"); !ok || !amount.Equal(decimal.RequireFromString("12.50")) {
		t.Error("missing allocation for c4")
	}
	if amount, ok := month.AllocationFor("c2"); ok || !amount.IsZero() {
		t.Error("expected zero, not-found for a dropped allocation")
	}
}
