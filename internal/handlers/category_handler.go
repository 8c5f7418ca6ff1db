package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/services"
)

// CategoryHandler handles category and category-group requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the payload for creating or updating a
// category. For percentage defaults the amount is the percentage value.
type CategoryRequest struct {
	Name                 string          `json:"name" binding:"required,min=1,max=100"`
	GroupID              string          `json:"group_id"`
	DefaultMonthlyAmount decimal.Decimal `json:"default_monthly_amount"`
	DefaultMonthlyType   string          `json:"default_monthly_type" binding:"omitempty,allocation_type"`
}

// CategoryGroupRequest represents the payload for category groups, which
// order the workspace and carry no override flags.
type CategoryGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

func (r CategoryRequest) toInput() services.CategoryInput {
	return services.CategoryInput{
		Name:                 r.Name,
		GroupID:              r.GroupID,
		DefaultMonthlyAmount: r.DefaultMonthlyAmount,
		DefaultMonthlyType:   models.AllocationType(r.DefaultMonthlyType),
	}
}

// AddCategory handles adding a category to a budget.
// @Summary     Add category
// @Description Add a new category, optionally with a default monthly allocation
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string          true "Budget ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/{id}/categories [post]
func (h *CategoryHandler) AddCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.AddCategory(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateCategory handles updating a category.
// @Summary     Update category
// @Description Replace a category's name, grouping and default allocation settings
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id         path string          true "Budget ID"
// @Param       categoryID path string          true "Category ID"
// @Param       request    body CategoryRequest true "Category details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets/{id}/categories/{categoryID} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("id"), c.Param("categoryID"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteCategory handles removing a category. Its history stays in the
// month documents and the budget is flagged for recalculation.
// @Summary     Delete category
// @Description Remove a category; its balance flows back to available after recalculation
// @Tags        categories
// @Produce     json
// @Param       id         path string true "Budget ID"
// @Param       categoryID path string true "Category ID"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets/{id}/categories/{categoryID} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("id"), c.Param("categoryID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReorderCategories handles drag-and-drop category reordering.
// @Summary     Reorder categories
// @Description Rewrite category positions to match the given id order
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body ReorderRequest true "Ordered category ids"
// @Success     200 {object} models.Budget "Updated budget"
// @Router      /budgets/{id}/categories/positions [put]
func (h *CategoryHandler) ReorderCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.ReorderCategories(c.Request.Context(), userID, c.Param("id"), req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// AddCategoryGroup handles adding a category group.
// @Summary     Add category group
// @Description Add a new category group
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Budget ID"
// @Param       request body CategoryGroupRequest true "Group details"
// @Success     201 {object} models.Budget "Updated budget"
// @Router      /budgets/{id}/category-groups [post]
func (h *CategoryHandler) AddCategoryGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.AddCategoryGroup(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateCategoryGroup handles renaming a category group.
// @Summary     Update category group
// @Description Rename a category group
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Budget ID"
// @Param       groupID path string               true "Group ID"
// @Param       request body CategoryGroupRequest true "Group details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /budgets/{id}/category-groups/{groupID} [put]
func (h *CategoryHandler) UpdateCategoryGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.UpdateCategoryGroup(c.Request.Context(), userID, c.Param("id"), c.Param("groupID"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteCategoryGroup handles removing a category group.
// @Summary     Delete category group
// @Description Remove a group; its categories become ungrouped
// @Tags        categories
// @Produce     json
// @Param       id      path string true "Budget ID"
// @Param       groupID path string true "Group ID"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /budgets/{id}/category-groups/{groupID} [delete]
func (h *CategoryHandler) DeleteCategoryGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.categoryService.DeleteCategoryGroup(c.Request.Context(), userID, c.Param("id"), c.Param("groupID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReorderCategoryGroups handles drag-and-drop group reordering.
// @Summary     Reorder category groups
// @Description Rewrite group positions to match the given id order
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body ReorderRequest true "Ordered group ids"
// @Success     200 {object} models.Budget "Updated budget"
// @Router      /budgets/{id}/category-groups/positions [put]
func (h *CategoryHandler) ReorderCategoryGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.categoryService.ReorderCategoryGroups(c.Request.Context(), userID, c.Param("id"), req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
