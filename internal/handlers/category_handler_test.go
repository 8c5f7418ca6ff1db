package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	addCategoryFn    func(userID, budgetID string, input services.CategoryInput) (*models.Budget, error)
	updateCategoryFn func(userID, budgetID, categoryID string, input services.CategoryInput) (*models.Budget, error)
	deleteCategoryFn func(userID, budgetID, categoryID string) (*models.Budget, error)
	reorderFn        func(userID, budgetID string, orderedIDs []string) (*models.Budget, error)
	addGroupFn       func(userID, budgetID, name string) (*models.Budget, error)
	updateGroupFn    func(userID, budgetID, groupID, name string) (*models.Budget, error)
	deleteGroupFn    func(userID, budgetID, groupID string) (*models.Budget, error)
	reorderGroupsFn  func(userID, budgetID string, orderedIDs []string) (*models.Budget, error)
}

func (m *mockCategoryService) AddCategory(_ context.Context, userID, budgetID string, input services.CategoryInput) (*models.Budget, error) {
	if m.addCategoryFn != nil {
		return m.addCategoryFn(userID, budgetID, input)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, budgetID, categoryID string, input services.CategoryInput) (*models.Budget, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, budgetID, categoryID, input)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, budgetID, categoryID string) (*models.Budget, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, budgetID, categoryID)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) ReorderCategories(_ context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	if m.reorderFn != nil {
		return m.reorderFn(userID, budgetID, orderedIDs)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) AddCategoryGroup(_ context.Context, userID, budgetID, name string) (*models.Budget, error) {
	if m.addGroupFn != nil {
		return m.addGroupFn(userID, budgetID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) UpdateCategoryGroup(_ context.Context, userID, budgetID, groupID, name string) (*models.Budget, error) {
	if m.updateGroupFn != nil {
		return m.updateGroupFn(userID, budgetID, groupID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) DeleteCategoryGroup(_ context.Context, userID, budgetID, groupID string) (*models.Budget, error) {
	if m.deleteGroupFn != nil {
		return m.deleteGroupFn(userID, budgetID, groupID)
	}
	return &models.Budget{}, nil
}

func (m *mockCategoryService) ReorderCategoryGroups(_ context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error) {
	if m.reorderGroupsFn != nil {
		return m.reorderGroupsFn(userID, budgetID, orderedIDs)
	}
	return &models.Budget{}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/budgets/:id/categories", handler.AddCategory)
	auth.PUT("/budgets/:id/categories/positions", handler.ReorderCategories)
	auth.PUT("/budgets/:id/categories/:categoryID", handler.UpdateCategory)
	auth.DELETE("/budgets/:id/categories/:categoryID", handler.DeleteCategory)
	auth.POST("/budgets/:id/category-groups", handler.AddCategoryGroup)
	auth.PUT("/budgets/:id/category-groups/:groupID", handler.UpdateCategoryGroup)
	auth.DELETE("/budgets/:id/category-groups/:groupID", handler.DeleteCategoryGroup)
	return r
}

func TestCategoryHandler_AddCategory(t *testing.T) {
	t.Run("returns 201 with a percentage default", func(t *testing.T) {
		var captured services.CategoryInput
		svc := &mockCategoryService{
			addCategoryFn: func(_, _ string, input services.CategoryInput) (*models.Budget, error) {
				captured = input
				return &models.Budget{}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/budgets/b1/categories",
			`{"name":"Savings","default_monthly_amount":"15","default_monthly_type":"percentage"}`)

		assertStatus(t, rec, http.StatusCreated)
		if captured.Name != "Savings" {
			t.Errorf("name = %q, want Savings", captured.Name)
		}
		if captured.DefaultMonthlyType != models.AllocationPercentage {
			t.Errorf("type = %q, want percentage", captured.DefaultMonthlyType)
		}
		if !captured.DefaultMonthlyAmount.Equal(decimal.RequireFromString("15")) {
			t.Errorf("amount = %s, want 15", captured.DefaultMonthlyAmount)
		}
	})

	t.Run("returns 400 on an unknown allocation type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/budgets/b1/categories",
			`{"name":"Savings","default_monthly_type":"weekly"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 404 on unknown category", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _, _ string, _ services.CategoryInput) (*models.Budget, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "PUT", "/budgets/b1/categories/ghost", `{"name":"Groceries"}`)

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_ReorderCategories(t *testing.T) {
	t.Run("returns 200 and passes the id list", func(t *testing.T) {
		var captured []string
		svc := &mockCategoryService{
			reorderFn: func(_, _ string, orderedIDs []string) (*models.Budget, error) {
				captured = orderedIDs
				return &models.Budget{}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "PUT", "/budgets/b1/categories/positions", `{"ids":["c3","c1","c2"]}`)

		assertStatus(t, rec, http.StatusOK)
		if len(captured) != 3 || captured[0] != "c3" {
			t.Errorf("unexpected id order: %v", captured)
		}
	})
}

func TestCategoryHandler_Groups(t *testing.T) {
	t.Run("returns 201 creating a group", func(t *testing.T) {
		var gotName string
		svc := &mockCategoryService{
			addGroupFn: func(_, _, name string) (*models.Budget, error) {
				gotName = name
				return &models.Budget{}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/budgets/b1/category-groups", `{"name":"Basics"}`)

		assertStatus(t, rec, http.StatusCreated)
		if gotName != "Basics" {
			t.Errorf("name = %q, want Basics", gotName)
		}
	})

	t.Run("returns 200 renaming a group", func(t *testing.T) {
		var gotID, gotName string
		svc := &mockCategoryService{
			updateGroupFn: func(_, _, groupID, name string) (*models.Budget, error) {
				gotID, gotName = groupID, name
				return &models.Budget{}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "PUT", "/budgets/b1/category-groups/g1", `{"name":"Fixed costs"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotID != "g1" || gotName != "Fixed costs" {
			t.Errorf("got %q/%q, want g1/Fixed costs", gotID, gotName)
		}
	})

	t.Run("returns 404 deleting an unknown group", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteGroupFn: func(_, _, _ string) (*models.Budget, error) {
				return nil, apperrors.ErrGroupNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/budgets/b1/category-groups/ghost", "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "GROUP_NOT_FOUND")
	})
}
