package services

import (
	"context"
	"strings"
	"time"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/pagination"
	"saldo/internal/rollup"
	"saldo/internal/store"
	"saldo/internal/uuid"

	"github.com/shopspring/decimal"
)

// budgetService handles budget shell business logic.
type budgetService struct {
	store *store.Store
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(st *store.Store) BudgetServicer {
	return &budgetService{store: st}
}

// loadBudget fetches a budget and verifies the user is a member. Loading a
// budget never triggers recalculation; that is reserved for month views.
func loadBudget(ctx context.Context, st *store.Store, userID, budgetID string) (*models.Budget, error) {
	budget, err := st.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.IsMember(userID) {
		return nil, apperrors.ErrNotAMember
	}
	return budget, nil
}

// requireOwner fetches a budget and verifies the user owns it.
func requireOwner(ctx context.Context, st *store.Store, userID, budgetID string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, st, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.OwnerID != userID {
		return nil, apperrors.WithMessage(apperrors.ErrNotAMember, "Only the budget owner can do this")
	}
	return budget, nil
}

// defaultCategorySeed returns the starter groups and categories every new
// budget gets. Savings carries a percentage default so the workspace has a
// derived suggestion from day one.
func defaultCategorySeed() ([]models.CategoryGroup, []models.Category) {
	groups := []models.CategoryGroup{
		{ID: uuid.New(), Name: "Essentials", Position: 0},
		{ID: uuid.New(), Name: "Lifestyle", Position: 1},
		{ID: uuid.New(), Name: "Goals", Position: 2},
	}
	categories := []models.Category{
		{ID: uuid.New(), Name: "Rent", GroupID: groups[0].ID, Position: 0},
		{ID: uuid.New(), Name: "Groceries", GroupID: groups[0].ID, Position: 1},
		{ID: uuid.New(), Name: "Utilities", GroupID: groups[0].ID, Position: 2},
		{ID: uuid.New(), Name: "Dining out", GroupID: groups[1].ID, Position: 3},
		{ID: uuid.New(), Name: "Fun money", GroupID: groups[1].ID, Position: 4},
		{
			ID:                   uuid.New(),
			Name:                 "Savings",
			GroupID:              groups[2].ID,
			DefaultMonthlyAmount: decimal.NewFromInt(10),
			DefaultMonthlyType:   models.AllocationPercentage,
			Position:             5,
		},
	}
	return groups, categories
}

// CreateBudget creates a budget owned by the user, seeded with the default
// category groups.
func (s *budgetService) CreateBudget(ctx context.Context, userID, name string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget name is required")
	}

	groups, categories := defaultCategorySeed()
	budget := &models.Budget{
		ID:             uuid.New(),
		Name:           name,
		OwnerID:        userID,
		Categories:     categories,
		CategoryGroups: groups,
		MonthMap:       make(map[string]models.MonthStatus),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudget returns a budget the user is a member of.
func (s *budgetService) GetBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	return loadBudget(ctx, s.store, userID, budgetID)
}

// ListBudgets returns a paginated list of budgets the user owns or
// participates in.
func (s *budgetService) ListBudgets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	budgets, totalItems, err := s.store.ListBudgets(ctx, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RenameBudget changes the budget name. Any member may rename.
func (s *budgetService) RenameBudget(ctx context.Context, userID, budgetID, name string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.Name = name
	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReplaceBudget overwrites the budget document wholesale, the bulk edit and
// migration path. Cached aggregates cannot be trusted afterwards, so the
// budget is flagged for recalculation instead of recomputing inline.
func (s *budgetService) ReplaceBudget(ctx context.Context, userID, budgetID string, replacement *models.Budget) (*models.Budget, error) {
	current, err := requireOwner(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(replacement.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget name is required")
	}

	// Identity, ownership and the month registry survive the replace;
	// months live in their own documents.
	replacement.ID = current.ID
	replacement.OwnerID = current.OwnerID
	replacement.CreatedAt = current.CreatedAt
	replacement.MonthMap = current.MonthMap
	replacement.TotalAvailable = rollup.OnBudgetTotal(replacement)
	replacement.IsNeedsRecalculation = true

	if err := s.store.PutBudget(ctx, replacement); err != nil {
		return nil, err
	}
	return replacement, nil
}

// DeleteBudget removes the budget and all its months. Owner only.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := requireOwner(ctx, s.store, userID, budgetID); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, budgetID)
}

// AddParticipant shares the budget with another user. Owner only; adding an
// existing member is a no-op.
func (s *budgetService) AddParticipant(ctx context.Context, userID, budgetID, participantID string) (*models.Budget, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Participant id is required")
	}

	budget, err := requireOwner(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if budget.IsMember(participantID) {
		return budget, nil
	}

	budget.ParticipantIDs = append(budget.ParticipantIDs, participantID)
	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// RemoveParticipant revokes a user's membership. Owner only; removing a
// non-member is a no-op.
func (s *budgetService) RemoveParticipant(ctx context.Context, userID, budgetID, participantID string) (*models.Budget, error) {
	budget, err := requireOwner(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	kept := budget.ParticipantIDs[:0]
	for _, id := range budget.ParticipantIDs {
		if id != participantID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(budget.ParticipantIDs) {
		return budget, nil
	}
	budget.ParticipantIDs = kept

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}
