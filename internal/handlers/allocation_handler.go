package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "saldo/internal/errors"
	"saldo/internal/models"
	"saldo/internal/services"
)

// AllocationHandler handles the allocations workspace and its lifecycle.
type AllocationHandler struct {
	allocationService services.AllocationServicer
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocationService services.AllocationServicer) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// AllocationEntry is one submitted category/amount pair.
type AllocationEntry struct {
	CategoryID string          `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// AllocationsRequest represents the payload for draft saves and finalize.
type AllocationsRequest struct {
	Allocations []AllocationEntry `json:"allocations" binding:"required"`
}

func (r AllocationsRequest) toEntries() []models.CategoryAllocation {
	entries := make([]models.CategoryAllocation, len(r.Allocations))
	for i, e := range r.Allocations {
		entries[i] = models.CategoryAllocation{CategoryID: e.CategoryID, Amount: e.Amount}
	}
	return entries
}

// GetWorkspace handles opening the allocations workspace for a month.
// @Summary     Get allocations workspace
// @Description Get draft rows, totals and availability for a month
// @Tags        allocations
// @Produce     json
// @Param       id    path string true "Budget ID"
// @Param       month path string true "Month key (YYYY-MM)"
// @Success     200 {object} services.AllocationWorkspace "Workspace"
// @Failure     400 {object} ErrorResponse "Invalid month key"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/months/{month}/allocations [get]
func (h *AllocationHandler) GetWorkspace(c *gin.Context) {
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

	workspace, err := h.allocationService.GetWorkspace(c.Request.Context(), userID, c.Param("id"), monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

// SaveDraft handles persisting the draft allocation list.
// @Summary     Save allocation draft
// @Description Persist the allocation list without finalizing; balances are untouched
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       month   path string             true "Month key (YYYY-MM)"
// @Param       request body AllocationsRequest true "Allocation entries"
// @Success     200 {object} services.AllocationWorkspace "Workspace"
// @Failure     400 {object} ErrorResponse "Invalid entries"
// @Router      /budgets/{id}/months/{month}/allocations [put]
func (h *AllocationHandler) SaveDraft(c *gin.Context) {
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

	var req AllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	workspace, err := h.allocationService.SaveDraft(c.Request.Context(), userID, c.Param("id"), monthKey, req.toEntries())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

// Finalize handles committing a month's allocations.
// @Summary     Finalize allocations
// @Description Save the submitted allocations and commit them to category balances
// @Tags        allocations
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       month   path string             true "Month key (YYYY-MM)"
// @Param       request body AllocationsRequest true "Allocation entries"
// @Success     200 {object} services.AllocationWorkspace "Workspace"
// @Failure     409 {object} ErrorResponse "Already finalized"
// @Router      /budgets/{id}/months/{month}/allocations/finalize [post]
func (h *AllocationHandler) Finalize(c *gin.Context) {
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

	var req AllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	workspace, err := h.allocationService.Finalize(c.Request.Context(), userID, c.Param("id"), monthKey, req.toEntries())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

// Unfinalize handles reopening a month's allocations as a draft.
// @Summary     Unfinalize allocations
// @Description Reopen the month's allocations; their amounts leave category balances
// @Tags        allocations
// @Produce     json
// @Param       id    path string true "Budget ID"
// @Param       month path string true "Month key (YYYY-MM)"
// @Success     200 {object} services.AllocationWorkspace "Workspace"
// @Failure     409 {object} ErrorResponse "Not finalized"
// @Router      /budgets/{id}/months/{month}/allocations/unfinalize [post]
func (h *AllocationHandler) Unfinalize(c *gin.Context) {
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

	workspace, err := h.allocationService.Unfinalize(c.Request.Context(), userID, c.Param("id"), monthKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}
