package listing

import (
	"context"

	"github.com/google/uuid"
)

// ListingFilter narrows listing queries
type ListingFilter struct {
	UserID   *uuid.UUID
	Status   *ListingStatus
	Page     int
	PageSize int
}

// ListingRepository persists rental listings
type ListingRepository interface {
	Save(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*Listing, int64, error)
}
