package membership

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a payment claim
type TransactionStatus string

const (
	// TransactionStatusPending means the claim awaits an operator decision
	TransactionStatusPending TransactionStatus = "PENDING"

	// TransactionStatusApproved is terminal; the claim produced a membership grant
	TransactionStatusApproved TransactionStatus = "APPROVED"

	// TransactionStatusRejected is terminal; the claim produced no grant
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusApproved || s == TransactionStatusRejected
}

// CanDecide returns true if an operator decision is still possible
func (s TransactionStatus) CanDecide() bool {
	return s == TransactionStatusPending
}

// PaymentTransaction is a user's claim to have paid for a membership
// package, awaiting operator review. It is a strict two-transition terminal
// machine: PENDING -> APPROVED or PENDING -> REJECTED, decided exactly once.
// Transactions are kept forever as an audit trail.
type PaymentTransaction struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID
	PackageName   string          // Copied from the catalog at submission time
	Amount        decimal.Decimal
	Currency      Currency
	Method        string // Free-text payment channel, e.g. "bank_transfer"
	ReferenceNote string // Transfer memo used for manual reconciliation
	Status        TransactionStatus
	DecidedAt     *time.Time
	DecidedBy     *uuid.UUID // Operator who decided
	RejectReason  string
}

// NewPaymentTransaction creates a pending payment claim
func NewPaymentTransaction(
	userID uuid.UUID,
	packageName string,
	amount decimal.Decimal,
	currency Currency,
	method string,
	referenceNote string,
) (*PaymentTransaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if packageName == "" {
		return nil, shared.NewDomainError("INVALID_PACKAGE_NAME", "Package name cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}

	tx := &PaymentTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		PackageName:       packageName,
		Amount:            amount,
		Currency:          currency,
		Method:            method,
		ReferenceNote:     referenceNote,
		Status:            TransactionStatusPending,
	}

	tx.AddDomainEvent(NewTransactionSubmittedEvent(tx))

	return tx, nil
}

// Approve marks the claim approved. The caller must have already applied
// the membership grant; a failed grant must leave the claim pending.
func (t *PaymentTransaction) Approve(decidedBy uuid.UUID) error {
	if !t.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve transaction in %s status", t.Status))
	}
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Deciding operator ID is required")
	}

	now := time.Now()
	t.Status = TransactionStatusApproved
	t.DecidedAt = &now
	t.DecidedBy = &decidedBy
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionApprovedEvent(t))

	return nil
}

// Reject marks the claim rejected with no entitlement side effect
func (t *PaymentTransaction) Reject(decidedBy uuid.UUID, reason string) error {
	if !t.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject transaction in %s status", t.Status))
	}
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Deciding operator ID is required")
	}

	now := time.Now()
	t.Status = TransactionStatusRejected
	t.DecidedAt = &now
	t.DecidedBy = &decidedBy
	t.RejectReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionRejectedEvent(t))

	return nil
}
