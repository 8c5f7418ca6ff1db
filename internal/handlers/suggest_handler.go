package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saldo/internal/services"
)

// SuggestHandler handles typed-ahead suggestion requests.
type SuggestHandler struct {
	suggestService services.SuggestServicer
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(suggestService services.SuggestServicer) *SuggestHandler {
	return &SuggestHandler{suggestService: suggestService}
}

// SuggestPayees handles payee completions for the transaction forms.
// @Summary     Suggest payees
// @Description Rank payees from recent months against the typed query
// @Tags        suggestions
// @Produce     json
// @Param       id path  string true  "Budget ID"
// @Param       q  query string false "Typed query"
// @Success     200 {array} services.Suggestion "Ranked suggestions"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/suggest/payees [get]
func (h *SuggestHandler) SuggestPayees(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	suggestions, err := h.suggestService.SuggestPayees(c.Request.Context(), userID, c.Param("id"), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// SuggestCategories handles category completions for the expense form.
// @Summary     Suggest categories
// @Description Rank the budget's categories against the typed query
// @Tags        suggestions
// @Produce     json
// @Param       id                 path  string true  "Budget ID"
// @Param       q                  query string false "Typed query"
// @Param       include_adjustment query bool   false "Append the synthetic Adjustment row"
// @Success     200 {array} services.Suggestion "Ranked suggestions"
// @Router      /budgets/{id}/suggest/categories [get]
func (h *SuggestHandler) SuggestCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeAdjustment := c.Query("include_adjustment") == "true"
	suggestions, err := h.suggestService.SuggestCategories(c.Request.Context(), userID, c.Param("id"), c.Query("q"), includeAdjustment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// SuggestAccounts handles account completions for the transaction forms.
// @Summary     Suggest accounts
// @Description Rank the budget's active accounts against the typed query
// @Tags        suggestions
// @Produce     json
// @Param       id           path  string true  "Budget ID"
// @Param       q            query string false "Typed query"
// @Param       include_none query bool   false "Append the No account row"
// @Success     200 {array} services.Suggestion "Ranked suggestions"
// @Router      /budgets/{id}/suggest/accounts [get]
func (h *SuggestHandler) SuggestAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeNone := c.Query("include_none") == "true"
	suggestions, err := h.suggestService.SuggestAccounts(c.Request.Context(), userID, c.Param("id"), c.Query("q"), includeNone)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
