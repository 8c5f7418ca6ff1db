package services

import (
	"context"
	"sort"

	"saldo/internal/match"
	"saldo/internal/store"
)

// suggestionLimit caps every suggestion list; the forms only render a
// handful of rows.
const suggestionLimit = 8

// payeeMonths is how many recent month documents payee harvesting reads.
const payeeMonths = 3

// Synthetic rows the forms can ask for alongside the real candidates.
const (
	AdjustmentSuggestionID = "adjustment"
	NoAccountLabel         = "No account"
	AdjustmentLabel        = "Adjustment"
)

// suggestService surfaces typed-ahead completions for the transaction and
// allocation forms. One matcher serves every surface; the differences
// between screens are options, not separate implementations.
type suggestService struct {
	store *store.Store
}

// NewSuggestService creates a new SuggestServicer.
func NewSuggestService(st *store.Store) SuggestServicer {
	return &suggestService{store: st}
}

func toSuggestions(candidates []match.Candidate) []Suggestion {
	suggestions := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = Suggestion{ID: c.ID, Label: c.Label}
	}
	return suggestions
}

// SuggestPayees ranks payees harvested from the most recent month
// documents, newest months first, each payee listed once.
func (s *suggestService) SuggestPayees(ctx context.Context, userID, budgetID, query string) ([]Suggestion, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	keys := budget.SortedMonthKeys()
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > payeeMonths {
		keys = keys[:payeeMonths]
	}

	seen := make(map[string]struct{})
	var candidates []match.Candidate
	addPayee := func(payee string) {
		if payee == "" {
			return
		}
		if _, ok := seen[payee]; ok {
			return
		}
		seen[payee] = struct{}{}
		candidates = append(candidates, match.Candidate{Label: payee})
	}

	for _, key := range keys {
		month, exists, err := s.store.GetMonth(ctx, budgetID, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		for _, tx := range month.Expenses {
			addPayee(tx.Payee)
		}
		for _, tx := range month.Income {
			addPayee(tx.Payee)
		}
	}

	ranked := match.Rank(query, candidates, match.Options{Limit: suggestionLimit, EmptyQueryAll: true})
	return toSuggestions(ranked), nil
}

// SuggestCategories ranks the budget's categories in workspace order,
// optionally appending the synthetic Adjustment row the expense form uses.
func (s *suggestService) SuggestCategories(ctx context.Context, userID, budgetID, query string, includeAdjustment bool) ([]Suggestion, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(budget.Categories)+1)
	for _, category := range budget.Categories {
		candidates = append(candidates, match.Candidate{ID: category.ID, Label: category.Name})
	}
	if includeAdjustment {
		candidates = append(candidates, match.Candidate{ID: AdjustmentSuggestionID, Label: AdjustmentLabel})
	}

	ranked := match.Rank(query, candidates, match.Options{Limit: suggestionLimit, EmptyQueryAll: true})
	return toSuggestions(ranked), nil
}

// SuggestAccounts ranks the budget's accounts, optionally appending the
// "No account" row for entries not tied to any account.
func (s *suggestService) SuggestAccounts(ctx context.Context, userID, budgetID, query string, includeNone bool) ([]Suggestion, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(budget.Accounts)+1)
	for _, account := range budget.Accounts {
		if active, _ := budget.EffectiveAccountFlags(account); !active {
			continue
		}
		candidates = append(candidates, match.Candidate{ID: account.ID, Label: account.Name})
	}
	if includeNone {
		candidates = append(candidates, match.Candidate{Label: NoAccountLabel})
	}

	ranked := match.Rank(query, candidates, match.Options{Limit: suggestionLimit, EmptyQueryAll: true})
	return toSuggestions(ranked), nil
}
