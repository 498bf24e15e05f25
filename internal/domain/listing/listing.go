package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListingStatus is the publication state of a rental listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "DRAFT"
	ListingStatusPublished ListingStatus = "PUBLISHED"
	ListingStatusArchived  ListingStatus = "ARCHIVED"
)

// String returns the string representation of ListingStatus
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusArchived:
		return true
	}
	return false
}

// Listing is a rental listing posted by a user. Creation is gated by the
// membership quota; the listing itself carries no entitlement logic.
type Listing struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	Title       string
	Address     string
	MonthlyRent decimal.Decimal
	AreaSqm     float64
	Description string
	Status      ListingStatus
	PublishedAt *time.Time
}

// NewListing creates a published listing
func NewListing(userID uuid.UUID, title, address string, monthlyRent decimal.Decimal, areaSqm float64, description string) (*Listing, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if monthlyRent.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RENT", "Monthly rent must be positive")
	}
	if areaSqm < 0 {
		return nil, shared.NewDomainError("INVALID_AREA", "Area cannot be negative")
	}

	now := time.Now()
	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Title:             title,
		Address:           address,
		MonthlyRent:       monthlyRent,
		AreaSqm:           areaSqm,
		Description:       description,
		Status:            ListingStatusPublished,
		PublishedAt:       &now,
	}, nil
}

// Archive takes the listing off the marketplace
func (l *Listing) Archive() error {
	if l.Status == ListingStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Listing is already archived")
	}
	l.Status = ListingStatusArchived
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
