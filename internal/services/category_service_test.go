package services

import (
	"context"
	"testing"

	"saldo/internal/models"
	"saldo/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestAddCategory(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	updated, err := svc.AddCategory(ctx, "user-1", budget.ID, CategoryInput{
		Name:                 "  Utilities  ",
		DefaultMonthlyAmount: dec("120"),
		DefaultMonthlyType:   models.AllocationFixed,
	})
	testutil.AssertNoError(t, err)

	added := updated.Categories[2]
	if added.Name != "Utilities" {
		t.Errorf("name = %q, want trimmed Utilities", added.Name)
	}
	if added.Position != 2 {
		t.Errorf("position = %d, want 2", added.Position)
	}
	testutil.AssertDecimal(t, "default amount", added.DefaultMonthlyAmount, "120")
}

func TestAddCategoryValidation(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.AddCategory(ctx, "user-1", budget.ID, CategoryInput{Name: " "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("bad default type", func(t *testing.T) {
		_, err := svc.AddCategory(ctx, "user-1", budget.ID, CategoryInput{
			Name:               "X",
			DefaultMonthlyType: "weekly",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative default amount", func(t *testing.T) {
		_, err := svc.AddCategory(ctx, "user-1", budget.ID, CategoryInput{
			Name:                 "X",
			DefaultMonthlyAmount: dec("-5"),
			DefaultMonthlyType:   models.AllocationFixed,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.AddCategory(ctx, "user-1", budget.ID, CategoryInput{Name: "X", GroupID: "nope"})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateCategoryKeepsBalance(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()

	budget := testutil.CreateTestBudget(t, st, "user-1")
	budget.Categories[0].Balance = dec("150")
	testutil.AssertNoError(t, st.PutBudget(ctx, budget))
	categoryID := budget.Categories[0].ID

	updated, err := svc.UpdateCategory(ctx, "user-1", budget.ID, categoryID, CategoryInput{
		Name:               "Food",
		DefaultMonthlyType: "",
	})
	testutil.AssertNoError(t, err)

	category := updated.Categories[0]
	if category.Name != "Food" {
		t.Errorf("name = %q, want Food", category.Name)
	}
	testutil.AssertDecimal(t, "balance untouched", category.Balance, "150")
	// A cleared default type zeroes the stored default amount.
	testutil.AssertDecimal(t, "default amount cleared", category.DefaultMonthlyAmount, "0")
	if !category.DefaultMonthlyAmount.Equal(decimal.Zero) || category.DefaultMonthlyType != "" {
		t.Error("expected default suggestion cleared")
	}
}

func TestDeleteCategoryFlagsRecalculation(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")
	groceries := budget.Categories[0].ID

	updated, err := svc.DeleteCategory(ctx, "user-1", budget.ID, groceries)
	testutil.AssertNoError(t, err)

	if len(updated.Categories) != 1 {
		t.Fatalf("expected 1 category left, got %d", len(updated.Categories))
	}
	if updated.Categories[0].Position != 0 {
		t.Errorf("remaining category position = %d, want 0", updated.Categories[0].Position)
	}
	if !updated.IsNeedsRecalculation {
		t.Error("expected budget flagged for recalculation")
	}
}

func TestReorderCategories(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")
	groceries := budget.Categories[0].ID
	rent := budget.Categories[1].ID

	updated, err := svc.ReorderCategories(ctx, "user-1", budget.ID, []string{rent, groceries})
	testutil.AssertNoError(t, err)
	if updated.Categories[0].ID != rent {
		t.Errorf("expected rent first, got %s", updated.Categories[0].Name)
	}

	_, err = svc.ReorderCategories(ctx, "user-1", budget.ID, []string{rent})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestCategoryGroupLifecycle(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewCategoryService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")
	groceries := budget.Categories[0].ID

	withGroup, err := svc.AddCategoryGroup(ctx, "user-1", budget.ID, "Essentials")
	testutil.AssertNoError(t, err)
	groupID := withGroup.CategoryGroups[0].ID

	_, err = svc.UpdateCategory(ctx, "user-1", budget.ID, groceries, CategoryInput{
		Name:    "Groceries",
		GroupID: groupID,
	})
	testutil.AssertNoError(t, err)

	renamed, err := svc.UpdateCategoryGroup(ctx, "user-1", budget.ID, groupID, "Basics")
	testutil.AssertNoError(t, err)
	if renamed.CategoryGroups[0].Name != "Basics" {
		t.Errorf("group name = %q, want Basics", renamed.CategoryGroups[0].Name)
	}

	deleted, err := svc.DeleteCategoryGroup(ctx, "user-1", budget.ID, groupID)
	testutil.AssertNoError(t, err)
	if len(deleted.CategoryGroups) != 0 {
		t.Errorf("expected no groups, got %d", len(deleted.CategoryGroups))
	}
	if deleted.Categories[0].GroupID != "" {
		t.Errorf("expected group reference cleared, got %q", deleted.Categories[0].GroupID)
	}
}
