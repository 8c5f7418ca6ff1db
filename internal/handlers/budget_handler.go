package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/pagination"
	"saldo/internal/services"
)

// BudgetHandler handles budget shell requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RenameBudgetRequest represents the request payload for renaming a budget.
type RenameBudgetRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ParticipantRequest represents the request payload for sharing a budget.
type ParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new budget seeded with the default categories
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing the caller's budgets.
// @Summary     List budgets
// @Description Get a paginated list of budgets the caller is a member of
// @Tags        budgets
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.ListBudgets(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving the budget shell. Opening the shell never
// triggers recalculation; only month views do.
// @Summary     Get budget by ID
// @Description Get a budget the caller is a member of
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     401 {object} ErrorResponse "Missing identity"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// RenameBudget handles renaming a budget.
// @Summary     Rename budget
// @Description Change a budget's display name
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Budget ID"
// @Param       request body RenameBudgetRequest true "New name"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [patch]
func (h *BudgetHandler) RenameBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.RenameBudget(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReplaceBudget handles the bulk edit path: a full document overwrite that
// flags cached totals stale.
// @Summary     Replace budget
// @Description Overwrite the budget document wholesale; flags it for recalculation
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string        true "Budget ID"
// @Param       request body models.Budget true "Replacement document"
// @Success     200 {object} models.Budget "Replaced budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) ReplaceBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var replacement models.Budget
	if err := c.ShouldBindJSON(&replacement); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.ReplaceBudget(c.Request.Context(), userID, c.Param("id"), &replacement)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget and all of its months.
// @Summary     Delete budget
// @Description Delete a budget and its month documents
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// AddParticipant handles sharing a budget with another user.
// @Summary     Add participant
// @Description Share the budget with another user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       request body ParticipantRequest true "Participant"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Router      /budgets/{id}/participants [post]
func (h *BudgetHandler) AddParticipant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.AddParticipant(c.Request.Context(), userID, c.Param("id"), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// RemoveParticipant handles revoking a user's membership.
// @Summary     Remove participant
// @Description Revoke another user's membership of the budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       request body ParticipantRequest true "Participant"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Router      /budgets/{id}/participants [delete]
func (h *BudgetHandler) RemoveParticipant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.RemoveParticipant(c.Request.Context(), userID, c.Param("id"), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
