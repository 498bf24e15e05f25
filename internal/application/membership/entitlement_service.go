package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// grantMaxRetries bounds the optimistic-concurrency retry loop. Conflicts
// only arise when two grants for the same user race, so one retry is
// normally enough.
const grantMaxRetries = 3

// MembershipDecision is the outcome of a successful grant: the new
// membership plus a human-readable summary for notifications.
type MembershipDecision struct {
	Membership   *membership.Membership
	PreviousTier membership.Tier
	Tier         membership.Tier
	DaysGranted  int
	Summary      string
}

// EntitlementService converts an approved payment claim into a membership
// grant: it classifies the tier, resolves the package terms from the
// catalog, applies the monthly renewal throttle and replaces the user's
// entitlement window.
type EntitlementService struct {
	packageRepo    membership.PackageRepository
	membershipRepo membership.MembershipRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	packageRepo membership.PackageRepository,
	membershipRepo membership.MembershipRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		packageRepo:    packageRepo,
		membershipRepo: membershipRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *EntitlementService) WithClock(now func() time.Time) *EntitlementService {
	s.now = now
	return s
}

// Grant computes and persists the membership produced by an approved
// transaction. It returns membership.ErrUnknownPlan when the catalog has
// no exact match for the transaction's stored package name, and
// membership.ErrRenewalThrottled when the same package was already renewed
// this calendar month. Both leave the user's membership untouched so the
// enclosing approval can fail as a whole.
//
// The read-modify-write on the membership row is serialized per user via
// an optimistic version check with bounded retry; concurrent grants for
// different users never contend.
func (s *EntitlementService) Grant(ctx context.Context, userID uuid.UUID, packageName string) (*MembershipDecision, error) {
	tier := membership.ClassifyTier(packageName)

	pkg, err := s.packageRepo.FindByName(ctx, packageName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("grant refused: package missing from catalog",
				zap.String("user_id", userID.String()),
				zap.String("package_name", packageName),
			)
			return nil, membership.ErrUnknownPlan
		}
		return nil, err
	}

	for attempt := 0; attempt < grantMaxRetries; attempt++ {
		decision, err := s.tryGrant(ctx, userID, tier, pkg)
		if err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) || errors.Is(err, shared.ErrAlreadyExists) {
				s.logger.Debug("grant conflict, retrying",
					zap.String("user_id", userID.String()),
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			return nil, err
		}

		s.logger.Info("membership granted",
			zap.String("user_id", userID.String()),
			zap.String("package_name", pkg.Name),
			zap.String("tier", decision.Tier.String()),
			zap.Int("days", decision.DaysGranted),
		)
		return decision, nil
	}

	return nil, shared.ErrConcurrencyConflict
}

// tryGrant performs one read-modify-write attempt against the membership store
func (s *EntitlementService) tryGrant(ctx context.Context, userID uuid.UUID, tier membership.Tier, pkg *membership.MembershipPackage) (*MembershipDecision, error) {
	now := s.now()

	current, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		// First grant for this user
		m, err := membership.NewMembership(userID, tier, pkg.Name, pkg.PostLimit, pkg.DurationDays, now)
		if err != nil {
			return nil, err
		}
		if err := s.membershipRepo.Save(ctx, m); err != nil {
			return nil, err
		}
		return s.finishGrant(ctx, m, membership.TierFree, pkg.DurationDays, now), nil
	}

	previousTier := current.Tier
	if err := current.ApplyGrant(tier, pkg.Name, pkg.PostLimit, pkg.DurationDays, now); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.finishGrant(ctx, current, previousTier, pkg.DurationDays, now), nil
}

// finishGrant publishes the aggregate's pending events and builds the decision
func (s *EntitlementService) finishGrant(ctx context.Context, m *membership.Membership, previousTier membership.Tier, daysGranted int, now time.Time) *MembershipDecision {
	if err := s.eventPublisher.Publish(ctx, m.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish membership events", zap.Error(err))
	}
	m.ClearDomainEvents()

	return &MembershipDecision{
		Membership:   m,
		PreviousTier: previousTier,
		Tier:         m.Tier,
		DaysGranted:  daysGranted,
		Summary: fmt.Sprintf("membership %s -> %s (%s), %d days remaining",
			previousTier.DisplayName(), m.Tier.DisplayName(), m.PackageName, m.DaysRemaining(now)),
	}
}
