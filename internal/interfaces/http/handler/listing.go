package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listingapp "github.com/renthub/backend/internal/application/listing"
	"github.com/renthub/backend/internal/domain/listing"
	"github.com/renthub/backend/internal/interfaces/http/dto"
)

// ListingHandler exposes rental listings. Creation is admitted by the
// membership quota; denials surface as 429 (quota exhausted) or 403 (no
// active membership).
type ListingHandler struct {
	BaseHandler
	listings *listingapp.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings *listingapp.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// CreateListingRequest is the body for posting a listing
type CreateListingRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Address     string  `json:"address" binding:"required,max=500"`
	MonthlyRent string  `json:"monthly_rent" binding:"required,positive_decimal"`
	AreaSqm     float64 `json:"area_sqm" binding:"omitempty,min=0"`
	Description string  `json:"description" binding:"max=5000"`
}

// listListingsRequest narrows listing queries
type listListingsRequest struct {
	dto.ListRequest
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// ListingDTO is the API-facing shape of a rental listing
type ListingDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Address     string     `json:"address"`
	MonthlyRent string     `json:"monthly_rent"`
	AreaSqm     float64    `json:"area_sqm"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// toListingDTO converts a domain listing to its DTO
func toListingDTO(l *listing.Listing) ListingDTO {
	return ListingDTO{
		ID:          l.ID.String(),
		UserID:      l.UserID.String(),
		Title:       l.Title,
		Address:     l.Address,
		MonthlyRent: l.MonthlyRent.String(),
		AreaSqm:     l.AreaSqm,
		Description: l.Description,
		Status:      l.Status.String(),
		PublishedAt: l.PublishedAt,
		CreatedAt:   l.CreatedAt,
	}
}

// Create handles POST /api/v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	l, err := h.listings.Create(c.Request.Context(), listingapp.CreateListingInput{
		UserID:      userID,
		Title:       req.Title,
		Address:     req.Address,
		MonthlyRent: req.MonthlyRent,
		AreaSqm:     req.AreaSqm,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toListingDTO(l))
}

// Get handles GET /api/v1/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	l, err := h.listings.Get(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toListingDTO(l))
}

// List handles GET /api/v1/listings
func (h *ListingHandler) List(c *gin.Context) {
	var req listListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := listing.ListingFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserID != "" {
		id := uuid.MustParse(req.UserID)
		filter.UserID = &id
	}
	if req.Status != "" {
		status := listing.ListingStatus(req.Status)
		filter.Status = &status
	}

	items, total, err := h.listings.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	dtos := make([]ListingDTO, 0, len(items))
	for _, l := range items {
		dtos = append(dtos, toListingDTO(l))
	}
	h.SuccessWithMeta(c, dtos, total, filter.Page, filter.PageSize)
}

// Archive handles POST /api/v1/listings/:id/archive. Only the owner may
// archive a listing.
func (h *ListingHandler) Archive(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.listings.Archive(c.Request.Context(), uuid.MustParse(idReq.ID), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
