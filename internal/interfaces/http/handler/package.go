package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/interfaces/http/dto"
)

// PackageHandler exposes the membership catalog. Reads are open to any
// authenticated caller; writes are operator only.
type PackageHandler struct {
	BaseHandler
	packages *membershipapp.PackageService
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packages *membershipapp.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// CreatePackageRequest is the body for adding a catalog entry
type CreatePackageRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Price        string `json:"price" binding:"required,positive_decimal"`
	Currency     string `json:"currency" binding:"required,currency"`
	DurationDays int    `json:"duration_days" binding:"required,min=1,max=3650"`
	PostLimit    int    `json:"post_limit" binding:"required,min=1"`
	Description  string `json:"description" binding:"max=1000"`
}

// UpdatePackageRequest is the body for editing a catalog entry
type UpdatePackageRequest struct {
	Price        string `json:"price" binding:"required,positive_decimal"`
	DurationDays int    `json:"duration_days" binding:"required,min=1,max=3650"`
	PostLimit    int    `json:"post_limit" binding:"required,min=1"`
	Description  string `json:"description" binding:"max=1000"`
}

// Create handles POST /api/v1/packages
func (h *PackageHandler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pkg, err := h.packages.Create(c.Request.Context(), membershipapp.CreatePackageInput{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		DurationDays: req.DurationDays,
		PostLimit:    req.PostLimit,
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, membershipapp.ToPackageDTO(pkg))
}

// Update handles PUT /api/v1/packages/:id. Edits change future grants only;
// memberships already granted keep their original terms.
func (h *PackageHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid package ID")
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pkg, err := h.packages.Update(c.Request.Context(), uuid.MustParse(idReq.ID), membershipapp.UpdatePackageInput{
		Price:        req.Price,
		DurationDays: req.DurationDays,
		PostLimit:    req.PostLimit,
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipapp.ToPackageDTO(pkg))
}

// Deactivate handles DELETE /api/v1/packages/:id. Packages are hidden from
// new submissions, never physically removed.
func (h *PackageHandler) Deactivate(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid package ID")
		return
	}

	if err := h.packages.Deactivate(c.Request.Context(), uuid.MustParse(idReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get handles GET /api/v1/packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid package ID")
		return
	}

	pkg, err := h.packages.Get(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipapp.ToPackageDTO(pkg))
}

// List handles GET /api/v1/packages. Defaults to active entries; operators
// can pass include_inactive=true to see the full catalog.
func (h *PackageHandler) List(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	activeOnly := !includeInactive || !isOperator(c)

	pkgs, err := h.packages.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]membershipapp.PackageDTO, 0, len(pkgs))
	for _, pkg := range pkgs {
		items = append(items, membershipapp.ToPackageDTO(pkg))
	}
	h.Success(c, items)
}
