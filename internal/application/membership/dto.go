package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
)

// SubmitTransactionInput carries a user's payment claim
type SubmitTransactionInput struct {
	UserID        uuid.UUID
	PackageName   string
	Amount        string // Decimal string, parsed by the service
	Currency      string
	Method        string
	ReferenceNote string
}

// TransactionDTO is the API-facing shape of a payment transaction
type TransactionDTO struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PackageName   string     `json:"package_name"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	ReferenceNote string     `json:"reference_note,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecidedBy     *string    `json:"decided_by,omitempty"`
	RejectReason  string     `json:"reject_reason,omitempty"`
}

// ToTransactionDTO converts a domain transaction to its DTO
func ToTransactionDTO(tx *membership.PaymentTransaction) TransactionDTO {
	dto := TransactionDTO{
		ID:            tx.ID.String(),
		UserID:        tx.UserID.String(),
		PackageName:   tx.PackageName,
		Amount:        tx.Amount.String(),
		Currency:      tx.Currency.String(),
		Method:        tx.Method,
		ReferenceNote: tx.ReferenceNote,
		Status:        tx.Status.String(),
		CreatedAt:     tx.CreatedAt,
		DecidedAt:     tx.DecidedAt,
		RejectReason:  tx.RejectReason,
	}
	if tx.DecidedBy != nil {
		s := tx.DecidedBy.String()
		dto.DecidedBy = &s
	}
	return dto
}

// MembershipDTO is the API-facing shape of a membership record
type MembershipDTO struct {
	UserID            string    `json:"user_id"`
	Tier              string    `json:"tier"`
	PackageName       string    `json:"package_name"`
	PostLimit         int       `json:"post_limit"`
	PostCountInPeriod int       `json:"post_count_in_period"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	LastRenewedMonth  string    `json:"last_renewed_month"`
	Active            bool      `json:"active"`
	DaysRemaining     int       `json:"days_remaining"`
}

// ToMembershipDTO converts a domain membership to its DTO
func ToMembershipDTO(m *membership.Membership, now time.Time) MembershipDTO {
	return MembershipDTO{
		UserID:            m.UserID.String(),
		Tier:              m.Tier.String(),
		PackageName:       m.PackageName,
		PostLimit:         m.PostLimit,
		PostCountInPeriod: m.PostCountInPeriod,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		LastRenewedMonth:  m.LastRenewedMonth,
		Active:            m.IsActiveAt(now),
		DaysRemaining:     m.DaysRemaining(now),
	}
}

// QuotaDTO is the API-facing shape of a quota decision
type QuotaDTO struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	PostLimit int    `json:"post_limit"`
	PostsUsed int    `json:"posts_used"`
	Remaining int    `json:"remaining"`
}

// ToQuotaDTO converts a domain quota decision to its DTO
func ToQuotaDTO(d membership.QuotaDecision) QuotaDTO {
	return QuotaDTO{
		Allowed:   d.Allowed,
		Reason:    string(d.Reason),
		PostLimit: d.PostLimit,
		PostsUsed: d.PostsUsed,
		Remaining: d.Remaining,
	}
}

// PackageDTO is the API-facing shape of a catalog package
type PackageDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Tier         string `json:"tier"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	DurationDays int    `json:"duration_days"`
	PostLimit    int    `json:"post_limit"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// ToPackageDTO converts a domain package to its DTO
func ToPackageDTO(p *membership.MembershipPackage) PackageDTO {
	return PackageDTO{
		ID:           p.ID.String(),
		Name:         p.Name,
		Tier:         p.Tier().String(),
		Price:        p.Price.String(),
		Currency:     p.Currency.String(),
		DurationDays: p.DurationDays,
		PostLimit:    p.PostLimit,
		Description:  p.Description,
		IsActive:     p.IsActive,
	}
}
