package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "saldo/internal/errors"
	"saldo/internal/services"
)

// AccountHandler handles account and account-group requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRequest represents the payload for creating or updating an account.
// Omitted flags mean the account inherits its group's value.
type AccountRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=100"`
	GroupID  string          `json:"group_id"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive *bool           `json:"is_active"`
	OnBudget *bool           `json:"on_budget"`
}

// GroupRequest represents the payload for creating or updating an account
// group. Non-nil flags override every member account.
type GroupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	IsActive *bool  `json:"is_active"`
	OnBudget *bool  `json:"on_budget"`
}

// ReorderRequest represents the payload for drag-and-drop reordering.
type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (r AccountRequest) toInput() services.AccountInput {
	return services.AccountInput{
		Name:     r.Name,
		GroupID:  r.GroupID,
		Balance:  r.Balance,
		IsActive: r.IsActive,
		OnBudget: r.OnBudget,
	}
}

func (r GroupRequest) toInput() services.GroupInput {
	return services.GroupInput{Name: r.Name, IsActive: r.IsActive, OnBudget: r.OnBudget}
}

// AddAccount handles adding an account to a budget.
// @Summary     Add account
// @Description Add a new account to the budget
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget or group not found"
// @Router      /budgets/{id}/accounts [post]
func (h *AccountHandler) AddAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.accountService.AddAccount(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateAccount handles updating an account.
// @Summary     Update account
// @Description Replace an account's mutable fields
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id        path string         true "Budget ID"
// @Param       accountID path string         true "Account ID"
// @Param       request   body AccountRequest true "Account details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /budgets/{id}/accounts/{accountID} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.accountService.UpdateAccount(c.Request.Context(), userID, c.Param("id"), c.Param("accountID"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteAccount handles removing an account.
// @Summary     Delete account
// @Description Remove an account; its transaction history flags the budget for recalculation
// @Tags        accounts
// @Produce     json
// @Param       id        path string true "Budget ID"
// @Param       accountID path string true "Account ID"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /budgets/{id}/accounts/{accountID} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.accountService.DeleteAccount(c.Request.Context(), userID, c.Param("id"), c.Param("accountID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReorderAccounts handles drag-and-drop account reordering.
// @Summary     Reorder accounts
// @Description Rewrite account positions to match the given id order
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body ReorderRequest true "Ordered account ids"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Order does not match accounts"
// @Router      /budgets/{id}/accounts/positions [put]
func (h *AccountHandler) ReorderAccounts(c *gin.Context) {
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

	budget, err := h.accountService.ReorderAccounts(c.Request.Context(), userID, c.Param("id"), req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// AddAccountGroup handles adding an account group.
// @Summary     Add account group
// @Description Add a new account group with optional override flags
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string       true "Budget ID"
// @Param       request body GroupRequest true "Group details"
// @Success     201 {object} models.Budget "Updated budget"
// @Router      /budgets/{id}/account-groups [post]
func (h *AccountHandler) AddAccountGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.accountService.AddAccountGroup(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateAccountGroup handles updating an account group's name and override
// flags.
// @Summary     Update account group
// @Description Replace a group's name and override flags
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string       true "Budget ID"
// @Param       groupID path string       true "Group ID"
// @Param       request body GroupRequest true "Group details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /budgets/{id}/account-groups/{groupID} [put]
func (h *AccountHandler) UpdateAccountGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.accountService.UpdateAccountGroup(c.Request.Context(), userID, c.Param("id"), c.Param("groupID"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteAccountGroup handles removing an account group.
// @Summary     Delete account group
// @Description Remove a group; member accounts fall back to their own flags
// @Tags        accounts
// @Produce     json
// @Param       id      path string true "Budget ID"
// @Param       groupID path string true "Group ID"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /budgets/{id}/account-groups/{groupID} [delete]
func (h *AccountHandler) DeleteAccountGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.accountService.DeleteAccountGroup(c.Request.Context(), userID, c.Param("id"), c.Param("groupID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReorderAccountGroups handles drag-and-drop group reordering.
// @Summary     Reorder account groups
// @Description Rewrite group positions to match the given id order
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body ReorderRequest true "Ordered group ids"
// @Success     200 {object} models.Budget "Updated budget"
// @Router      /budgets/{id}/account-groups/positions [put]
func (h *AccountHandler) ReorderAccountGroups(c *gin.Context) {
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

	budget, err := h.accountService.ReorderAccountGroups(c.Request.Context(), userID, c.Param("id"), req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
