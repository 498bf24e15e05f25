package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/domain/shared"
)

// MembershipHandler exposes the caller's membership status and quota.
type MembershipHandler struct {
	BaseHandler
	quota *membershipapp.QuotaService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(quota *membershipapp.QuotaService) *MembershipHandler {
	return &MembershipHandler{quota: quota}
}

// userIDRequest binds the user ID path parameter
type userIDRequest struct {
	UserID string `uri:"user_id" binding:"required,uuid"`
}

// membershipStatusResponse pairs the membership record with its quota snapshot
type membershipStatusResponse struct {
	Membership membershipapp.MembershipDTO `json:"membership"`
	Quota      membershipapp.QuotaDTO      `json:"quota"`
}

// Me handles GET /api/v1/memberships/me. A user who never purchased a
// package gets a 404; an expired membership is returned with active=false.
func (h *MembershipHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	m, q, err := h.quota.Status(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.HandleError(c, shared.NewDomainError("NOT_FOUND", "No membership on record; purchase a package to get started"))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipStatusResponse{Membership: m, Quota: q})
}

// Get handles GET /api/v1/memberships/:user_id. Operator only: back-office
// lookup of any user's membership and quota.
func (h *MembershipHandler) Get(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	m, q, err := h.quota.Status(c.Request.Context(), uuid.MustParse(req.UserID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipStatusResponse{Membership: m, Quota: q})
}

// Quota handles GET /api/v1/memberships/me/quota: the admission answer
// without the full membership record. Never mutates state.
func (h *MembershipHandler) Quota(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	decision, err := h.quota.CanPost(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipapp.ToQuotaDTO(decision))
}
