package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
)

// CreateListingInput carries a new rental listing
type CreateListingInput struct {
	UserID      uuid.UUID
	Title       string
	Address     string
	MonthlyRent string
	AreaSqm     float64
	Description string
}

// QuotaGuard is the slice of the membership engine the listing flow needs:
// ask before creating, report back after creating.
type QuotaGuard interface {
	CanPost(ctx context.Context, userID uuid.UUID) (membership.QuotaDecision, error)
	IncrementPostCount(ctx context.Context, userID uuid.UUID) error
}

// ListingService creates and queries rental listings. Creation is admitted
// by the membership Quota Guard; a successful creation is reported back so
// the period's post counter advances.
type ListingService struct {
	listingRepo listing.ListingRepository
	quota       QuotaGuard
	logger      *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(listingRepo listing.ListingRepository, quota QuotaGuard, logger *zap.Logger) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		quota:       quota,
		logger:      logger,
	}
}

// Create publishes a new listing if the user's quota admits it. Quota
// denial surfaces as *membershipapp.QuotaDeniedError, distinguishable from
// genuine failures.
//
// The admission check and the counter increment are two separate calls; a
// concurrent poster can exceed the limit by a small margin. The counter
// update itself is version-checked, so no increment is ever lost.
func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*listing.Listing, error) {
	decision, err := s.quota.CanPost(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logger.Info("listing creation denied by quota",
			zap.String("user_id", input.UserID.String()),
			zap.String("reason", string(decision.Reason)),
		)
		return nil, membershipapp.NewQuotaDeniedError(decision)
	}

	rent, err := decimal.NewFromString(input.MonthlyRent)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RENT", "Monthly rent is not a valid decimal number")
	}

	l, err := listing.NewListing(input.UserID, input.Title, input.Address, rent, input.AreaSqm, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	if err := s.quota.IncrementPostCount(ctx, input.UserID); err != nil {
		// The listing exists; losing the increment would hand out free
		// quota, so surface loudly but do not roll back the listing.
		s.logger.Error("failed to register post against quota",
			zap.String("user_id", input.UserID.String()),
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("user_id", input.UserID.String()),
	)
	return l, nil
}

// Get returns a listing by ID
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return s.listingRepo.FindByID(ctx, id)
}

// List returns listings matching the filter
func (s *ListingService) List(ctx context.Context, filter listing.ListingFilter) ([]*listing.Listing, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.listingRepo.List(ctx, filter)
}

// Archive takes a user's listing off the marketplace
func (s *ListingService) Archive(ctx context.Context, id, userID uuid.UUID) error {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return shared.ErrForbidden
	}
	if err := l.Archive(); err != nil {
		return err
	}
	return s.listingRepo.Update(ctx, l)
}
