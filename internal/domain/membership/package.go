package membership

import (
	"time"

	"github.com/renthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MembershipPackage is a catalog entry users can pay for. The catalog is
// managed by operators; transactions and memberships denormalize the terms
// they were granted under, so editing a package never retroactively changes
// an already-approved grant.
type MembershipPackage struct {
	shared.BaseAggregateRoot
	Name         string          // Display name, e.g. "Gold VIP Plan"; unique within the catalog
	Price        decimal.Decimal // Positive amount in the package currency
	Currency     Currency
	DurationDays int    // Length of the granted membership window
	PostLimit    int    // Listings allowed per active period (0 = none)
	Description  string
	IsActive     bool
}

// NewMembershipPackage creates a new catalog package
func NewMembershipPackage(
	name string,
	price decimal.Decimal,
	currency Currency,
	durationDays int,
	postLimit int,
) (*MembershipPackage, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PACKAGE_NAME", "Package name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PACKAGE_NAME", "Package name cannot exceed 200 characters")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}
	if durationDays <= 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Duration must be at least one day")
	}
	if postLimit < 0 {
		return nil, shared.NewDomainError("INVALID_POST_LIMIT", "Post limit cannot be negative")
	}

	return &MembershipPackage{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Currency:          currency,
		DurationDays:      durationDays,
		PostLimit:         postLimit,
		IsActive:          true,
	}, nil
}

// Tier returns the canonical tier the package name classifies into
func (p *MembershipPackage) Tier() Tier {
	return ClassifyTier(p.Name)
}

// UpdateTerms changes the package price, duration and post limit.
// Existing grants keep their denormalized terms.
func (p *MembershipPackage) UpdateTerms(price decimal.Decimal, durationDays, postLimit int) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if durationDays <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be at least one day")
	}
	if postLimit < 0 {
		return shared.NewDomainError("INVALID_POST_LIMIT", "Post limit cannot be negative")
	}
	p.Price = price
	p.DurationDays = durationDays
	p.PostLimit = postLimit
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetDescription updates the package description
func (p *MembershipPackage) SetDescription(description string) {
	p.Description = description
	p.UpdatedAt = time.Now()
}

// Deactivate hides the package from new submissions. Catalog entries
// referenced by transactions are never physically deleted.
func (p *MembershipPackage) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the package available again
func (p *MembershipPackage) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
