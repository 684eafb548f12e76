package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/service"
)

// ReviewUseCases is the review workflow the handler drives.
type ReviewUseCases interface {
	CreateReview(ctx context.Context, in service.ReviewInput) (*model.Review, service.DispatchOutcome, error)
	Get(ctx context.Context, id, viewerID string, isAdmin bool) (*model.Review, error)
	GetReviews(ctx context.Context, listingID string) ([]model.Review, error)
	GetUserReviews(ctx context.Context, userID string) ([]model.Review, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.Review, error)
	Approve(ctx context.Context, id string) (*model.Review, error)
	Reject(ctx context.Context, id string) (*model.Review, error)
}

// ReviewRequestDTO is the JSON payload for creating a new review. The
// reviewer is always the authenticated user.
type ReviewRequestDTO struct {
	ReviewedUserID string  `json:"reviewedUserId" binding:"required"`
	ListingID      *string `json:"listingId"`
	Rating         int     `json:"rating" binding:"required,min=1,max=5"`
	Comment        *string `json:"comment"`
}

// ReviewHandler ties HTTP requests to the review workflow.
type ReviewHandler struct {
	reviewSvc ReviewUseCases
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(rs ReviewUseCases) *ReviewHandler {
	return &ReviewHandler{reviewSvc: rs}
}

// GetReview handles GET /api/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	rev, err := h.reviewSvc.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

// GetReviews handles GET /api/listings/:id/reviews
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviewSvc.GetReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeReviews(c, reviews)
}

// GetUserReviews handles GET /api/users/:id/reviews
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	reviews, err := h.reviewSvc.GetUserReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeReviews(c, reviews)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req ReviewRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rev, out, err := h.reviewSvc.CreateReview(c.Request.Context(), service.ReviewInput{
		ReviewerID:     middleware.UserID(c),
		ReviewedUserID: req.ReviewedUserID,
		ListingID:      req.ListingID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"review":       rev,
		"notification": newDispatchResponse(out),
	})
}

// GetPending handles GET /api/admin/reviews/pending
func (h *ReviewHandler) GetPending(c *gin.Context) {
	limit, offset := pageParams(c)
	reviews, err := h.reviewSvc.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	writeReviews(c, reviews)
}

// Approve handles PUT /api/admin/reviews/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	rev, err := h.reviewSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

// Reject handles PUT /api/admin/reviews/:id/reject
func (h *ReviewHandler) Reject(c *gin.Context) {
	rev, err := h.reviewSvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func writeReviews(c *gin.Context, reviews []model.Review) {
	if reviews == nil {
		reviews = []model.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}
