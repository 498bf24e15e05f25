package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/interfaces/http/dto"
)

// TransactionHandler exposes the payment-claim ledger: users submit claims
// and inspect their own, operators list and decide them.
type TransactionHandler struct {
	BaseHandler
	ledger *membershipapp.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledger *membershipapp.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// SubmitTransactionRequest is the body for submitting a payment claim
type SubmitTransactionRequest struct {
	PackageName   string `json:"package_name" binding:"required,max=100"`
	Amount        string `json:"amount" binding:"required,positive_decimal"`
	Currency      string `json:"currency" binding:"required,currency"`
	Method        string `json:"method" binding:"required,oneof=bank_transfer momo zalopay cash"`
	ReferenceNote string `json:"reference_note" binding:"max=500"`
}

// DecideTransactionRequest is the body for an operator decision
type DecideTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// listTransactionsRequest narrows the ledger listing
type listTransactionsRequest struct {
	dto.ListRequest
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// Submit handles POST /api/v1/transactions
func (h *TransactionHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.ledger.Submit(c.Request.Context(), membershipapp.SubmitTransactionInput{
		UserID:        userID,
		PackageName:   req.PackageName,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		ReferenceNote: req.ReferenceNote,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, membershipapp.ToTransactionDTO(tx))
}

// Get handles GET /api/v1/transactions/:id. Users may only read their own
// claims; operators may read any.
func (h *TransactionHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	txID := uuid.MustParse(req.ID)

	tx, err := h.ledger.Get(c.Request.Context(), txID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if tx.UserID != callerID && !isOperator(c) {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Cannot read another user's transaction")
		return
	}

	h.Success(c, membershipapp.ToTransactionDTO(tx))
}

// List handles GET /api/v1/transactions. Operators see the whole ledger;
// users are pinned to their own claims regardless of the filter.
func (h *TransactionHandler) List(c *gin.Context) {
	var req listTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := membership.TransactionFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := membership.TransactionStatus(req.Status)
		filter.Status = &status
	}

	if isOperator(c) {
		if req.UserID != "" {
			id := uuid.MustParse(req.UserID)
			filter.UserID = &id
		}
	} else {
		callerID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		filter.UserID = &callerID
	}

	txs, total, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]membershipapp.TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		items = append(items, membershipapp.ToTransactionDTO(tx))
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Approve handles POST /api/v1/transactions/:id/approve. Operator only.
// The membership grant and the status flip succeed or fail together; a
// failed grant leaves the claim pending.
func (h *TransactionHandler) Approve(c *gin.Context) {
	h.decide(c, membershipapp.DecisionApprove)
}

// Reject handles POST /api/v1/transactions/:id/reject. Operator only.
func (h *TransactionHandler) Reject(c *gin.Context) {
	h.decide(c, membershipapp.DecisionReject)
}

func (h *TransactionHandler) decide(c *gin.Context, outcome membershipapp.DecisionOutcome) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	txID := uuid.MustParse(req.ID)

	operatorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var body DecideTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	tx, err := h.ledger.Decide(c.Request.Context(), txID, outcome, operatorID, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membershipapp.ToTransactionDTO(tx))
}
