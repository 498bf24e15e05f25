package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/shared"
)

// Event types emitted by the membership context
const (
	EventTypeTransactionSubmitted = "transaction_submitted"
	EventTypeTransactionApproved  = "transaction_approved"
	EventTypeTransactionRejected  = "transaction_rejected"
	EventTypeMembershipGranted    = "membership_granted"
)

// TransactionSubmittedEvent is emitted when a user files a payment claim
type TransactionSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID `json:"user_id"`
	PackageName string    `json:"package_name"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
}

// NewTransactionSubmittedEvent creates a TransactionSubmittedEvent
func NewTransactionSubmittedEvent(tx *PaymentTransaction) *TransactionSubmittedEvent {
	return &TransactionSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionSubmitted, "PaymentTransaction", tx.ID),
		UserID:          tx.UserID,
		PackageName:     tx.PackageName,
		Amount:          tx.Amount.String(),
		Currency:        tx.Currency.String(),
		Method:          tx.Method,
	}
}

// TransactionApprovedEvent is emitted when an operator approves a claim
type TransactionApprovedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID  `json:"user_id"`
	PackageName string     `json:"package_name"`
	DecidedBy   *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

// NewTransactionApprovedEvent creates a TransactionApprovedEvent
func NewTransactionApprovedEvent(tx *PaymentTransaction) *TransactionApprovedEvent {
	return &TransactionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionApproved, "PaymentTransaction", tx.ID),
		UserID:          tx.UserID,
		PackageName:     tx.PackageName,
		DecidedBy:       tx.DecidedBy,
		DecidedAt:       tx.DecidedAt,
	}
}

// TransactionRejectedEvent is emitted when an operator rejects a claim
type TransactionRejectedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID  `json:"user_id"`
	PackageName string     `json:"package_name"`
	DecidedBy   *uuid.UUID `json:"decided_by,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// NewTransactionRejectedEvent creates a TransactionRejectedEvent
func NewTransactionRejectedEvent(tx *PaymentTransaction) *TransactionRejectedEvent {
	return &TransactionRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRejected, "PaymentTransaction", tx.ID),
		UserID:          tx.UserID,
		PackageName:     tx.PackageName,
		DecidedBy:       tx.DecidedBy,
		Reason:          tx.RejectReason,
	}
}

// MembershipGrantedEvent is emitted whenever a membership window is
// created or replaced
type MembershipGrantedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	PreviousTier Tier      `json:"previous_tier"`
	Tier         Tier      `json:"tier"`
	PackageName  string    `json:"package_name"`
	PostLimit    int       `json:"post_limit"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// NewMembershipGrantedEvent creates a MembershipGrantedEvent
func NewMembershipGrantedEvent(m *Membership, previousTier Tier) *MembershipGrantedEvent {
	return &MembershipGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipGranted, "Membership", m.ID),
		UserID:          m.UserID,
		PreviousTier:    previousTier,
		Tier:            m.Tier,
		PackageName:     m.PackageName,
		PostLimit:       m.PostLimit,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
	}
}
