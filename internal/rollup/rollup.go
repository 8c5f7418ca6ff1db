// Package rollup computes derived budget totals from raw documents. Every
// function is pure: inputs are in-memory snapshots, outputs are fresh
// values, and data oddities (unknown categories, missing groups) degrade to
// sensible defaults instead of errors. Persistence of the results belongs
// to the services.
package rollup

import (
	"sort"

	"saldo/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OnBudgetTotal sums the balances of accounts that are effectively active
// and effectively on budget.
func OnBudgetTotal(b *models.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, account := range b.Accounts {
		active, onBudget := b.EffectiveAccountFlags(account)
		if active && onBudget {
			total = total.Add(account.Balance)
		}
	}
	return total
}

// MonthIncomeTotal sums a month's income transactions.
func MonthIncomeTotal(m *models.Month) decimal.Decimal {
	total := decimal.Zero
	if m == nil {
		return total
	}
	for _, tx := range m.Income {
		total = total.Add(tx.Amount)
	}
	return total
}

// MonthAllocated returns the month's allocation amounts per category.
// A month whose allocations are not finalized contributes nothing.
func MonthAllocated(m *models.Month) map[string]decimal.Decimal {
	allocated := make(map[string]decimal.Decimal)
	if m == nil || !m.AllocationsFinalized {
		return allocated
	}
	for _, a := range m.Allocations {
		allocated[a.CategoryID] = allocated[a.CategoryID].Add(a.Amount)
	}
	return allocated
}

// MonthSpent returns the month's expense outflow per category id. Expenses
// without a category accumulate under the empty key; they reduce account
// balances but never a category balance.
func MonthSpent(m *models.Month) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	if m == nil {
		return spent
	}
	for _, tx := range m.Expenses {
		spent[tx.CategoryID] = spent[tx.CategoryID].Add(tx.Amount)
	}
	return spent
}

// AllocationTotal sums an allocation list regardless of finalized state.
func AllocationTotal(entries []models.CategoryAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryBalances rebuilds every category balance from raw month data:
// carry-over plus finalized allocations minus spend, walked in month-key
// order. Every category known to the budget gets an entry, zero included,
// so stale caches reset on write-back. Amounts recorded against categories
// the budget no longer has are excluded.
func CategoryBalances(b *models.Budget, months []*models.Month) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(b.Categories))
	for _, c := range b.Categories {
		balances[c.ID] = decimal.Zero
	}

	for _, month := range sortedByKey(months) {
		for id, amount := range MonthAllocated(month) {
			if prev, ok := balances[id]; ok {
				balances[id] = prev.Add(amount)
			}
		}
		for id, amount := range MonthSpent(month) {
			if prev, ok := balances[id]; ok {
				balances[id] = prev.Sub(amount)
			}
		}
	}
	return balances
}

// PercentageAmount derives a percentage category's suggested allocation:
// (pct/100) of the previous month's income, rounded to cents. Zero or
// negative income yields zero. The result is always derived fresh, never
// persisted as a default.
func PercentageAmount(pct, prevIncome decimal.Decimal) decimal.Decimal {
	if prevIncome.Sign() <= 0 || pct.Sign() <= 0 {
		return decimal.Zero
	}
	return pct.Mul(prevIncome).Div(hundred).Round(2)
}

// AvailableNow is the money not yet assigned to any envelope: the
// on-budget total minus the sum of all category balances.
func AvailableNow(onBudgetTotal decimal.Decimal, balances map[string]decimal.Decimal) decimal.Decimal {
	available := onBudgetTotal
	for _, balance := range balances {
		available = available.Sub(balance)
	}
	return available
}

// AvailableAfterApply simulates replacing the month's finalized allocations
// with the current draft: available-now plus what this month already
// contributed, minus what the draft would take.
func AvailableAfterApply(availableNow, draftTotal, finalizedTotal decimal.Decimal) decimal.Decimal {
	return availableNow.Sub(draftTotal).Add(finalizedTotal)
}

func sortedByKey(months []*models.Month) []*models.Month {
	ordered := make([]*models.Month, 0, len(months))
	for _, m := range months {
		if m != nil {
			ordered = append(ordered, m)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key < ordered[j].Key })
	return ordered
}
