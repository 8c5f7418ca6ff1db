package services

import (
	"context"
	"strings"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/rollup"
	"saldo/internal/store"
	"saldo/internal/uuid"
)

// accountService handles accounts and account groups within a budget.
type accountService struct {
	store *store.Store
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(st *store.Store) AccountServicer {
	return &accountService{store: st}
}

// sameIDSet reports whether ordered is a permutation of the existing ids.
func sameIDSet(ordered, existing []string) bool {
	if len(ordered) != len(existing) {
		return false
	}
	want := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		want[id] = struct{}{}
	}
	for _, id := range ordered {
		if _, ok := want[id]; !ok {
			return false
		}
		delete(want, id)
	}
	return true
}

// AddAccount appends a new account to the budget.
func (s *accountService) AddAccount(ctx context.Context, userID, budgetID string, input AccountInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if input.GroupID != "" && budget.AccountGroupByID(input.GroupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	budget.Accounts = append(budget.Accounts, models.Account{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		GroupID:  input.GroupID,
		Balance:  input.Balance,
		IsActive: input.IsActive,
		OnBudget: input.OnBudget,
		Position: len(budget.Accounts),
	})
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateAccount replaces an account's mutable fields. Balance edits and
// flag changes both flow into the cached on-budget total.
func (s *accountService) UpdateAccount(ctx context.Context, userID, budgetID, accountID string, input AccountInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	account := budget.AccountByID(accountID)
	if account == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if input.GroupID != "" && budget.AccountGroupByID(input.GroupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	account.Name = strings.TrimSpace(input.Name)
	account.GroupID = input.GroupID
	account.Balance = input.Balance
	account.IsActive = input.IsActive
	account.OnBudget = input.OnBudget
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteAccount removes an account. Its transaction history stays in the
// month documents, so the budget is flagged for recalculation.
func (s *accountService) DeleteAccount(ctx context.Context, userID, budgetID, accountID string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.AccountByID(accountID) == nil {
		return nil, apperrors.ErrAccountNotFound
	}

	kept := budget.Accounts[:0]
	for _, account := range budget.Accounts {
		if account.ID != accountID {
			account.Position = len(kept)
			kept = append(kept, account)
		}
	}
	budget.Accounts = kept
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)
	budget.IsNeedsRecalculation = true

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReorderAccounts rewrites account positions to match the given id order,
// which must list every account exactly once.
func (s *accountService) ReorderAccounts(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	existing := make([]string, len(budget.Accounts))
	for i, account := range budget.Accounts {
		existing[i] = account.ID
	}
	if !sameIDSet(orderedIDs, existing) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Order must list every account exactly once")
	}

	reordered := make([]models.Account, 0, len(budget.Accounts))
	for pos, id := range orderedIDs {
		account := *budget.AccountByID(id)
		account.Position = pos
		reordered = append(reordered, account)
	}
	budget.Accounts = reordered

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// AddAccountGroup appends a new account group.
func (s *accountService) AddAccountGroup(ctx context.Context, userID, budgetID string, input GroupInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.AccountGroups = append(budget.AccountGroups, models.AccountGroup{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		IsActive: input.IsActive,
		OnBudget: input.OnBudget,
		Position: len(budget.AccountGroups),
	})

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateAccountGroup replaces a group's name and override flags. Override
// changes shift which accounts count as on budget, so the cached total is
// recomputed.
func (s *accountService) UpdateAccountGroup(ctx context.Context, userID, budgetID, groupID string, input GroupInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	group := budget.AccountGroupByID(groupID)
	if group == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	group.Name = strings.TrimSpace(input.Name)
	group.IsActive = input.IsActive
	group.OnBudget = input.OnBudget
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteAccountGroup removes a group; its accounts fall back to their own
// flags.
func (s *accountService) DeleteAccountGroup(ctx context.Context, userID, budgetID, groupID string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.AccountGroupByID(groupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	kept := budget.AccountGroups[:0]
	for _, group := range budget.AccountGroups {
		if group.ID != groupID {
			group.Position = len(kept)
			kept = append(kept, group)
		}
	}
	budget.AccountGroups = kept

	for i := range budget.Accounts {
		if budget.Accounts[i].GroupID == groupID {
			budget.Accounts[i].GroupID = ""
		}
	}
	budget.TotalAvailable = rollup.OnBudgetTotal(budget)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReorderAccountGroups rewrites group positions to match the given order.
func (s *accountService) ReorderAccountGroups(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	existing := make([]string, len(budget.AccountGroups))
	for i, group := range budget.AccountGroups {
		existing[i] = group.ID
	}
	if !sameIDSet(orderedIDs, existing) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Order must list every group exactly once")
	}

	reordered := make([]models.AccountGroup, 0, len(budget.AccountGroups))
	for pos, id := range orderedIDs {
		group := *budget.AccountGroupByID(id)
		group.Position = pos
		reordered = append(reordered, group)
	}
	budget.AccountGroups = reordered

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}
