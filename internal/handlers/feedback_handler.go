package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "saldo/internal/errors"
	"saldo/internal/pagination"
	"saldo/internal/services"
)

// FeedbackHandler handles user feedback submission and the admin list.
type FeedbackHandler struct {
	feedbackService services.FeedbackServicer
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService services.FeedbackServicer) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// FeedbackRequest represents the payload for submitting feedback.
type FeedbackRequest struct {
	Page    string `json:"page" binding:"max=100"`
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// SubmitFeedback handles storing one feedback entry.
// @Summary     Submit feedback
// @Description Store a feedback message from the current user
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Param       request body FeedbackRequest true "Feedback"
// @Success     201 {object} models.Feedback "Stored feedback"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fb, err := h.feedbackService.SubmitFeedback(c.Request.Context(), userID, req.Page, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

// ListFeedback handles the admin review list.
// @Summary     List feedback
// @Description Get feedback entries in submission order, paginated
// @Tags        feedback
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Feedback] "Paginated feedback"
// @Router      /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.feedbackService.ListFeedback(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteFeedback handles removing one feedback entry.
// @Summary     Delete feedback
// @Description Remove a feedback entry
// @Tags        feedback
// @Produce     json
// @Param       feedbackID path string true "Feedback ID"
// @Success     200 {object} MessageResponse "Feedback deleted"
// @Failure     404 {object} ErrorResponse "Feedback not found"
// @Router      /feedback/{feedbackID} [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), c.Param("feedbackID")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
