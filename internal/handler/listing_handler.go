package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/service"
)

// ListingUseCases is the listing workflow the handler drives.
type ListingUseCases interface {
	Create(ctx context.Context, ownerID string, in service.ListingInput) (*model.Listing, error)
	Get(ctx context.Context, id, viewerID string, isAdmin bool) (*model.Listing, error)
	ListVisible(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.Listing, error)
	Approve(ctx context.Context, id string) (*model.Listing, service.DispatchOutcome, error)
	SetActive(ctx context.Context, id, ownerID string, active bool) (*model.Listing, error)
	Update(ctx context.Context, id, ownerID string, in service.ListingInput) (*model.Listing, error)
	Delete(ctx context.Context, id, userID string, isAdmin bool) error
}

// ListingHandler serves listing CRUD, publishing and moderation.
type ListingHandler struct {
	svc ListingUseCases
}

func NewListingHandler(svc ListingUseCases) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// ListingRequestDTO holds the fields an owner sends on create and update.
type ListingRequestDTO struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    string  `json:"category" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Region      string  `json:"region"`
	Type        string  `json:"type" binding:"required,oneof=rent sale search"`
}

func (r ListingRequestDTO) input() service.ListingInput {
	return service.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		City:        r.City,
		Region:      r.Region,
		Type:        r.Type,
	}
}

// GET /api/listings?city=...&category=...&min_price=...&max_price=...&limit=...&offset=...
func (h *ListingHandler) GetVisibleListings(c *gin.Context) {
	f := model.ListingFilter{
		Category: c.Query("category"),
		City:     c.Query("city"),
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	f.Limit, f.Offset = pageParams(c)

	list, err := h.svc.ListVisible(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []model.Listing{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/listings/:id
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req ListingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	var req ListingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// PUT /api/listings/:id/publish
func (h *ListingHandler) Publish(c *gin.Context) {
	h.setActive(c, true)
}

// PUT /api/listings/:id/unpublish
func (h *ListingHandler) Unpublish(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ListingHandler) setActive(c *gin.Context, active bool) {
	l, err := h.svc.SetActive(c.Request.Context(), c.Param("id"), middleware.UserID(c), active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// GET /api/admin/listings/pending?limit=10&offset=0
func (h *ListingHandler) GetPending(c *gin.Context) {
	limit, offset := pageParams(c)
	list, err := h.svc.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []model.Listing{}
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/admin/listings/:id/approve
func (h *ListingHandler) Approve(c *gin.Context) {
	l, out, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listing":      l,
		"notification": newDispatchResponse(out),
	})
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
