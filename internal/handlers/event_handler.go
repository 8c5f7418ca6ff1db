package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"saldo/internal/notify"
	"saldo/internal/services"
)

// EventHandler streams budget lifecycle events over SSE.
type EventHandler struct {
	budgetService services.BudgetServicer
	broker        *notify.Broker
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(budgetService services.BudgetServicer, broker *notify.Broker) *EventHandler {
	return &EventHandler{budgetService: budgetService, broker: broker}
}

// StreamEvents handles the SSE event stream for one budget. Events without
// a budget id (feedback) are delivered to every stream.
// @Summary     Stream events
// @Description Server-sent events for a budget's lifecycle notifications
// @Tags        events
// @Produce     text/event-stream
// @Param       id path string true "Budget ID"
// @Success     200 {string} string "event stream"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Router      /budgets/{id}/events [get]
func (h *EventHandler) StreamEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID := c.Param("id")
	if _, err := h.budgetService.GetBudget(c.Request.Context(), userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	events, cancel := h.broker.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			if event.BudgetID != "" && event.BudgetID != budgetID {
				return true
			}
			c.SSEvent(event.Type, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
