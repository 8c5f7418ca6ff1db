package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/services"
)

// MonthHandler handles month views and the transactions within a month.
type MonthHandler struct {
	monthService services.MonthServicer
}

// NewMonthHandler creates a new MonthHandler.
func NewMonthHandler(monthService services.MonthServicer) *MonthHandler {
	return &MonthHandler{monthService: monthService}
}

// IncomeRequest represents the payload for income entries.
type IncomeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Payee       string          `json:"payee" binding:"max=200"`
	Description string          `json:"description" binding:"max=500"`
	AccountID   string          `json:"account_id"`
	Cleared     bool            `json:"cleared"`
}

// ExpenseRequest represents the payload for expense entries. Kind defaults
// to standard; adjustment entries may carry a negative amount.
type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Kind        string          `json:"kind" binding:"omitempty,expense_kind"`
	Date        time.Time       `json:"date" binding:"required"`
	Payee       string          `json:"payee" binding:"max=200"`
	Description string          `json:"description" binding:"max=500"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	Cleared     bool            `json:"cleared"`
}

func (r IncomeRequest) toInput() services.TransactionInput {
	return services.TransactionInput{
		Amount:      r.Amount,
		Date:        r.Date,
		Payee:       r.Payee,
		Description: r.Description,
		AccountID:   r.AccountID,
		Cleared:     r.Cleared,
	}
}

func (r ExpenseRequest) toInput() services.ExpenseInput {
	kind := models.ExpenseKind(r.Kind)
	if kind == "" {
		kind = models.ExpenseStandard
	}
	return services.ExpenseInput{
		TransactionInput: services.TransactionInput{
			Amount:      r.Amount,
			Date:        r.Date,
			Payee:       r.Payee,
			Description: r.Description,
			AccountID:   r.AccountID,
			Cleared:     r.Cleared,
		},
		Kind:       kind,
		CategoryID: r.CategoryID,
	}
}

// GetMonth handles opening a month view. The document is created on first
// navigation; stale budget caches rebuild here, and only here.
// @Summary     Get month
// @Description Get the computed view for a month, creating it on first visit
// @Tags        months
// @Produce     json
// @Param       id    path string true "Budget ID"
// @Param       month path string true "Month key (YYYY-MM)"
// @Success     200 {object} services.MonthView "Month view"
// @Failure     400 {object} ErrorResponse "Invalid month key"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/months/{month} [get]
func (h *MonthHandler) GetMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.monthService.GetMonth(c.Request.Context(), userID, c.Param("id"), monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddIncome handles adding an income entry.
// @Summary     Add income
// @Description Add an income entry to a month
// @Tags        months
// @Accept      json
// @Produce     json
// @Param       id      path string        true "Budget ID"
// @Param       month   path string        true "Month key (YYYY-MM)"
// @Param       request body IncomeRequest true "Income details"
// @Success     201 {object} services.MonthView "Updated month view"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Router      /budgets/{id}/months/{month}/income [post]
func (h *MonthHandler) AddIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.monthService.AddIncome(c.Request.Context(), userID, c.Param("id"), monthKey, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// UpdateIncome handles updating an income entry.
// @Summary     Update income
// @Description Replace an income entry
// @Tags        months
// @Accept      json
// @Produce     json
// @Param       id            path string        true "Budget ID"
// @Param       month         path string        true "Month key (YYYY-MM)"
// @Param       transactionID path string        true "Transaction ID"
// @Param       request       body IncomeRequest true "Income details"
// @Success     200 {object} services.MonthView "Updated month view"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /budgets/{id}/months/{month}/income/{transactionID} [put]
func (h *MonthHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.monthService.UpdateIncome(c.Request.Context(), userID, c.Param("id"), monthKey, c.Param("transactionID"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteIncome handles removing an income entry.
// @Summary     Delete income
// @Description Remove an income entry
// @Tags        months
// @Produce     json
// @Param       id            path string true "Budget ID"
// @Param       month         path string true "Month key (YYYY-MM)"
// @Param       transactionID path string true "Transaction ID"
// @Success     200 {object} services.MonthView "Updated month view"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /budgets/{id}/months/{month}/income/{transactionID} [delete]
func (h *MonthHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.monthService.DeleteIncome(c.Request.Context(), userID, c.Param("id"), monthKey, c.Param("transactionID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddExpense handles adding an expense entry.
// @Summary     Add expense
// @Description Add an expense entry to a month
// @Tags        months
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       month   path string         true "Month key (YYYY-MM)"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} services.MonthView "Updated month view"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Router      /budgets/{id}/months/{month}/expenses [post]
func (h *MonthHandler) AddExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.monthService.AddExpense(c.Request.Context(), userID, c.Param("id"), monthKey, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// UpdateExpense handles updating an expense entry.
// @Summary     Update expense
// @Description Replace an expense entry
// @Tags        months
// @Accept      json
// @Produce     json
// @Param       id            path string         true "Budget ID"
// @Param       month         path string         true "Month key (YYYY-MM)"
// @Param       transactionID path string         true "Transaction ID"
// @Param       request       body ExpenseRequest true "Expense details"
// @Success     200 {object} services.MonthView "Updated month view"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /budgets/{id}/months/{month}/expenses/{transactionID} [put]
func (h *MonthHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.monthService.UpdateExpense(c.Request.Context(), userID, c.Param("id"), monthKey, c.Param("transactionID"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteExpense handles removing an expense entry.
// @Summary     Delete expense
// @Description Remove an expense entry
// @Tags        months
// @Produce     json
// @Param       id            path string true "Budget ID"
// @Param       month         path string true "Month key (YYYY-MM)"
// @Param       transactionID path string true "Transaction ID"
// @Success     200 {object} services.MonthView "Updated month view"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /budgets/{id}/months/{month}/expenses/{transactionID} [delete]
func (h *MonthHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthKey, err := monthKeyParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.monthService.DeleteExpense(c.Request.Context(), userID, c.Param("id"), monthKey, c.Param("transactionID"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
