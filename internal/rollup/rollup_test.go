package rollup

import (
	"testing"

	"saldo/internal/models"
	"saldo/internal/testutil"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOnBudgetTotal(t *testing.T) {
	offBudget := false
	inactive := false
	budget := &models.Budget{
		AccountGroups: []models.AccountGroup{
			{ID: "g-off", Name: "Tracking", OnBudget: &offBudget},
		},
		Accounts: []models.Account{
			{ID: "a1", Balance: dec("1000")},
			{ID: "a2", Balance: dec("250.50")},
			{ID: "a3", Balance: dec("9999"), OnBudget: &offBudget},
			{ID: "a4", Balance: dec("500"), IsActive: &inactive},
			{ID: "a5", Balance: dec("777"), GroupID: "g-off"},
			{ID: "a6", Balance: dec("-150")},
		},
	}

	testutil.AssertDecimal(t, "on_budget_total", OnBudgetTotal(budget), "1100.50")
}

func TestMonthAllocatedGatedByFinalized(t *testing.T) {
	month := &models.Month{
		Allocations: []models.CategoryAllocation{
			{CategoryID: "c1", Amount: dec("200")},
			{CategoryID: "c2", Amount: dec("50.25")},
		},
	}

	if got := MonthAllocated(month); len(got) != 0 {
		t.Errorf("draft month contributed allocations: %v", got)
	}

	month.AllocationsFinalized = true
	got := MonthAllocated(month)
	testutil.AssertDecimal(t, "c1 allocated", got["c1"], "200")
	testutil.AssertDecimal(t, "c2 allocated", got["c2"], "50.25")
}

func TestMonthSpent(t *testing.T) {
	month := &models.Month{
		Expenses: []models.ExpenseTransaction{
			{ID: "e1", CategoryID: "c1", Kind: models.ExpenseStandard, Amount: dec("30")},
			{ID: "e2", CategoryID: "c1", Kind: models.ExpenseStandard, Amount: dec("12.34")},
			{ID: "e3", CategoryID: "c2", Kind: models.ExpenseAdjustment, Amount: dec("-20")},
			{ID: "e4", Kind: models.ExpenseStandard, Amount: dec("5")},
		},
	}

	spent := MonthSpent(month)
	testutil.AssertDecimal(t, "c1 spent", spent["c1"], "42.34")
	testutil.AssertDecimal(t, "c2 spent", spent["c2"], "-20")
	testutil.AssertDecimal(t, "uncategorized spent", spent[""], "5")
}

func TestCategoryBalancesCarryOver(t *testing.T) {
	budget := &models.Budget{
		Categories: []models.Category{
			{ID: "c1", Name: "Groceries"},
			{ID: "c2", Name: "Rent"},
		},
	}
	months := []*models.Month{
		// Given out of order on purpose.
		{
			Key:                  "2025-02",
			AllocationsFinalized: true,
			Allocations:          []models.CategoryAllocation{{CategoryID: "c1", Amount: dec("200")}},
			Expenses: []models.ExpenseTransaction{
				{CategoryID: "c1", Kind: models.ExpenseStandard, Amount: dec("250")},
			},
		},
		{
			Key:                  "2025-01",
			AllocationsFinalized: true,
			Allocations: []models.CategoryAllocation{
				{CategoryID: "c1", Amount: dec("100")},
				{CategoryID: "c2", Amount: dec("800")},
			},
			Expenses: []models.ExpenseTransaction{
				{CategoryID: "c1", Kind: models.ExpenseStandard, Amount: dec("40")},
			},
		},
	}

	balances := CategoryBalances(budget, months)
	// c1: (100-40) carried into February, then +200-250.
	testutil.AssertDecimal(t, "c1 balance", balances["c1"], "10")
	testutil.AssertDecimal(t, "c2 balance", balances["c2"], "800")
}

func TestCategoryBalancesExcludesOrphans(t *testing.T) {
	budget := &models.Budget{
		Categories: []models.Category{{ID: "c1", Name: "Groceries"}},
	}
	months := []*models.Month{
		{
			Key:                  "2025-01",
			AllocationsFinalized: true,
			Allocations: []models.CategoryAllocation{
				{CategoryID: "c1", Amount: dec("100")},
				{CategoryID: "deleted", Amount: dec("500")},
			},
			Expenses: []models.ExpenseTransaction{
				{CategoryID: "deleted", Kind: models.ExpenseStandard, Amount: dec("50")},
			},
		},
	}

	balances := CategoryBalances(budget, months)
	if len(balances) != 1 {
		t.Fatalf("expected only known categories, got %v", balances)
	}
	testutil.AssertDecimal(t, "c1 balance", balances["c1"], "100")
}

func TestCategoryBalancesZeroFillsKnownCategories(t *testing.T) {
	budget := &models.Budget{
		Categories: []models.Category{
			{ID: "c1", Name: "Groceries", Balance: dec("99")},
		},
	}

	balances := CategoryBalances(budget, nil)
	amount, ok := balances["c1"]
	if !ok {
		t.Fatal("expected an entry for every known category")
	}
	testutil.AssertDecimal(t, "c1 balance", amount, "0")
}

func TestPercentageAmount(t *testing.T) {
	tests := []struct {
		name       string
		pct        string
		prevIncome string
		want       string
	}{
		{"ten percent of 3000", "10", "3000", "300.00"},
		{"cents rounding", "12.5", "1234.56", "154.32"},
		{"zero income", "10", "0", "0"},
		{"negative income", "10", "-500", "0"},
		{"zero percentage", "0", "3000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentageAmount(dec(tt.pct), dec(tt.prevIncome))
			testutil.AssertDecimal(t, "amount", got, tt.want)
		})
	}
}

func TestAvailableNow(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"c1": dec("200"),
		"c2": dec("-15.50"),
	}
	testutil.AssertDecimal(t, "available_now", AvailableNow(dec("1000"), balances), "815.50")
}

func TestAvailableAfterApply(t *testing.T) {
	tests := []struct {
		name      string
		available string
		draft     string
		finalized string
		want      string
	}{
		{"fresh draft", "1000", "200", "0", "800"},
		{"replacing finalized", "800", "300", "200", "700"},
		{"identical apply is neutral", "800", "200", "200", "800"},
		{"all zero", "0", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableAfterApply(dec(tt.available), dec(tt.draft), dec(tt.finalized))
			testutil.AssertDecimal(t, "available_after_apply", got, tt.want)
		})
	}
}

// Account holds 1000 on budget, category C has a 200 draft: available-now
// ignores the draft, finalizing moves 200 into C.
func TestDraftThenFinalizeScenario(t *testing.T) {
	budget := &models.Budget{
		Accounts:   []models.Account{{ID: "a1", Balance: dec("1000")}},
		Categories: []models.Category{{ID: "C", Name: "Holidays"}},
	}
	month := &models.Month{
		Key:         "2025-06",
		Allocations: []models.CategoryAllocation{{CategoryID: "C", Amount: dec("200")}},
	}

	total := OnBudgetTotal(budget)
	balances := CategoryBalances(budget, []*models.Month{month})
	testutil.AssertDecimal(t, "C before finalize", balances["C"], "0")
	testutil.AssertDecimal(t, "available_now before", AvailableNow(total, balances), "1000")

	draftTotal := AllocationTotal(month.Allocations)
	testutil.AssertDecimal(t, "available_after_apply",
		AvailableAfterApply(AvailableNow(total, balances), draftTotal, decimal.Zero), "800")

	month.AllocationsFinalized = true
	balances = CategoryBalances(budget, []*models.Month{month})
	testutil.AssertDecimal(t, "C after finalize", balances["C"], "200")
	testutil.AssertDecimal(t, "available_now after", AvailableNow(total, balances), "800")
}

func TestMonthIncomeTotal(t *testing.T) {
	month := &models.Month{
		Income: []models.IncomeTransaction{
			{Amount: dec("2500")},
			{Amount: dec("499.99")},
		},
	}
	testutil.AssertDecimal(t, "income_total", MonthIncomeTotal(month), "2999.99")
	testutil.AssertDecimal(t, "nil month income", MonthIncomeTotal(nil), "0")
}
