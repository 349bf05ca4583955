package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RanchesW/KazRPG/internal/middleware"
	"github.com/RanchesW/KazRPG/internal/services"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/internal/validator"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(v *validator.Validator, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(v),
		reviewService: reviewService,
	}
}

// CreateReview - POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GMReviews - GET /gms/:id/reviews
func (h *ReviewHandler) GMReviews(c *gin.Context) {
	page := ParseQueryInt(c, "page", 1)
	limit := ParseQueryInt(c, "limit", 12)

	reviews, err := h.reviewService.GetGMReviews(c.Request.Context(), h.GetDB(c), c.Param("id"), page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GMStats - GET /gms/:id/stats
func (h *ReviewHandler) GMStats(c *gin.Context) {
	stats, err := h.reviewService.GetGMStats(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteReview - DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.reviewService.DeleteReview(c.Request.Context(), h.GetDB(c), userID, middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
