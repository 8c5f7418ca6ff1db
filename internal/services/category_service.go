package services

import (
	"context"
	"strings"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/store"
	"saldo/internal/uuid"

	"github.com/shopspring/decimal"
)

// categoryService handles categories and category groups within a budget.
type categoryService struct {
	store *store.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(st *store.Store) CategoryServicer {
	return &categoryService{store: st}
}

// normalizeDefaults validates a category's default allocation settings.
func normalizeDefaults(input *CategoryInput) error {
	switch input.DefaultMonthlyType {
	case "":
		input.DefaultMonthlyAmount = decimal.Zero
	case models.AllocationFixed, models.AllocationPercentage:
		if input.DefaultMonthlyAmount.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Default amount must not be negative")
		}
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Default type must be fixed or percentage")
	}
	return nil
}

// AddCategory appends a new category to the budget.
func (s *categoryService) AddCategory(ctx context.Context, userID, budgetID string, input CategoryInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}
	if err := normalizeDefaults(&input); err != nil {
		return nil, err
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if input.GroupID != "" && budget.CategoryGroupByID(input.GroupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	budget.Categories = append(budget.Categories, models.Category{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(input.Name),
		GroupID:              input.GroupID,
		DefaultMonthlyAmount: input.DefaultMonthlyAmount,
		DefaultMonthlyType:   input.DefaultMonthlyType,
		Position:             len(budget.Categories),
	})

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateCategory replaces a category's name, grouping and default
// allocation settings. The cached balance is untouched.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, budgetID, categoryID string, input CategoryInput) (*models.Budget, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}
	if err := normalizeDefaults(&input); err != nil {
		return nil, err
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	category := budget.CategoryByID(categoryID)
	if category == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	if input.GroupID != "" && budget.CategoryGroupByID(input.GroupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	category.Name = strings.TrimSpace(input.Name)
	category.GroupID = input.GroupID
	category.DefaultMonthlyAmount = input.DefaultMonthlyAmount
	category.DefaultMonthlyType = input.DefaultMonthlyType

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteCategory removes a category. Historical allocations and spend for
// it stay in the month documents, excluded from cache rebuilds, so the
// budget is flagged for recalculation and the freed balance flows back to
// available.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, budgetID, categoryID string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.CategoryByID(categoryID) == nil {
		return nil, apperrors.ErrCategoryNotFound
	}

	kept := budget.Categories[:0]
	for _, category := range budget.Categories {
		if category.ID != categoryID {
			category.Position = len(kept)
			kept = append(kept, category)
		}
	}
	budget.Categories = kept
	budget.IsNeedsRecalculation = true

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReorderCategories rewrites category positions to match the given id
// order, which must list every category exactly once.
func (s *categoryService) ReorderCategories(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	existing := make([]string, len(budget.Categories))
	for i, category := range budget.Categories {
		existing[i] = category.ID
	}
	if !sameIDSet(orderedIDs, existing) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Order must list every category exactly once")
	}

	reordered := make([]models.Category, 0, len(budget.Categories))
	for pos, id := range orderedIDs {
		category := *budget.CategoryByID(id)
		category.Position = pos
		reordered = append(reordered, category)
	}
	budget.Categories = reordered

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// AddCategoryGroup appends a new category group. Category groups order the
// workspace; they carry no override flags.
func (s *categoryService) AddCategoryGroup(ctx context.Context, userID, budgetID, name string) (*models.Budget, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.CategoryGroups = append(budget.CategoryGroups, models.CategoryGroup{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Position: len(budget.CategoryGroups),
	})

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateCategoryGroup renames a category group.
func (s *categoryService) UpdateCategoryGroup(ctx context.Context, userID, budgetID, groupID, name string) (*models.Budget, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name is required")
	}

	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	group := budget.CategoryGroupByID(groupID)
	if group == nil {
		return nil, apperrors.ErrGroupNotFound
	}
	group.Name = strings.TrimSpace(name)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteCategoryGroup removes a group; its categories become ungrouped.
func (s *categoryService) DeleteCategoryGroup(ctx context.Context, userID, budgetID, groupID string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.CategoryGroupByID(groupID) == nil {
		return nil, apperrors.ErrGroupNotFound
	}

	kept := budget.CategoryGroups[:0]
	for _, group := range budget.CategoryGroups {
		if group.ID != groupID {
			group.Position = len(kept)
			kept = append(kept, group)
		}
	}
	budget.CategoryGroups = kept

	for i := range budget.Categories {
		if budget.Categories[i].GroupID == groupID {
			budget.Categories[i].GroupID = ""
		}
	}

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReorderCategoryGroups rewrites group positions to match the given order.
func (s *categoryService) ReorderCategoryGroups(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	budget, err := loadBudget(ctx, s.store, userID, budgetID)
	if err != nil {
		return nil, err
	}

	existing := make([]string, len(budget.CategoryGroups))
	for i, group := range budget.CategoryGroups {
		existing[i] = group.ID
	}
	if !sameIDSet(orderedIDs, existing) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Order must list every group exactly once")
	}

	reordered := make([]models.CategoryGroup, 0, len(budget.CategoryGroups))
	for pos, id := range orderedIDs {
		group := *budget.CategoryGroupByID(id)
		group.Position = pos
		reordered = append(reordered, group)
	}
	budget.CategoryGroups = reordered

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}
