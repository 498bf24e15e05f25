package membership

import (
	"context"

	"github.com/google/uuid"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	UserID   *uuid.UUID
	Status   *TransactionStatus
	Page     int
	PageSize int
}

// TransactionRepository persists payment transactions. The membership
// context owns this table; records are never physically deleted.
type TransactionRepository interface {
	// Save inserts a new transaction
	Save(ctx context.Context, tx *PaymentTransaction) error
	// Update persists a decided transaction with an optimistic version
	// check, returning shared.ErrConcurrencyConflict on a stale write
	Update(ctx context.Context, tx *PaymentTransaction) error
	// FindByID returns shared.ErrNotFound if the transaction does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentTransaction, error)
	// List returns transactions matching the filter plus the total count
	List(ctx context.Context, filter TransactionFilter) ([]*PaymentTransaction, int64, error)
}

// MembershipRepository persists the one-per-user membership record. The
// store is shared mutable state: Update carries an optimistic version
// check so concurrent grants for the same user cannot lose writes.
type MembershipRepository interface {
	// FindByUserID returns shared.ErrNotFound if the user has never been granted
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Membership, error)
	// Save inserts a user's first membership
	Save(ctx context.Context, m *Membership) error
	// Update persists a replaced window or counter increment, returning
	// shared.ErrConcurrencyConflict when the row version moved
	Update(ctx context.Context, m *Membership) error
}

// PackageRepository persists the membership catalog
type PackageRepository interface {
	Save(ctx context.Context, pkg *MembershipPackage) error
	Update(ctx context.Context, pkg *MembershipPackage) error
	FindByID(ctx context.Context, id uuid.UUID) (*MembershipPackage, error)
	// FindByName matches the exact display name; shared.ErrNotFound otherwise
	FindByName(ctx context.Context, name string) (*MembershipPackage, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*MembershipPackage, error)
}
