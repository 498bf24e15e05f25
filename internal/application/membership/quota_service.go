package membership

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// incrementMaxRetries bounds the counter-update retry loop
const incrementMaxRetries = 3

// QuotaDeniedError is returned when posting is not admitted. It is an
// expected, everyday outcome, surfaced with a non-5xx status so callers
// can tell it apart from genuine failures.
type QuotaDeniedError struct {
	Reason    membership.QuotaDenialReason
	PostLimit int
	PostsUsed int
	Message   string
}

// Error implements the error interface
func (e *QuotaDeniedError) Error() string {
	return e.Message
}

// HTTPStatusCode returns 429 for an exhausted quota and 403 for users
// without an active membership
func (e *QuotaDeniedError) HTTPStatusCode() int {
	if e.Reason == membership.QuotaReasonExceeded {
		return http.StatusTooManyRequests
	}
	return http.StatusForbidden
}

// NewQuotaDeniedError creates a QuotaDeniedError from a denied decision
func NewQuotaDeniedError(d membership.QuotaDecision) *QuotaDeniedError {
	msg := "No active membership; purchase a package to post listings"
	if d.Reason == membership.QuotaReasonExceeded {
		msg = fmt.Sprintf("Posting quota exhausted: %d of %d listings used this period", d.PostsUsed, d.PostLimit)
	}
	return &QuotaDeniedError{
		Reason:    d.Reason,
		PostLimit: d.PostLimit,
		PostsUsed: d.PostsUsed,
		Message:   msg,
	}
}

// QuotaService is the Quota Guard: it answers whether a user may create
// another listing under their current membership, and registers listings
// that were created. CanPost never mutates state.
type QuotaService struct {
	membershipRepo membership.MembershipRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewQuotaService creates a new QuotaService
func NewQuotaService(membershipRepo membership.MembershipRepository, logger *zap.Logger) *QuotaService {
	return &QuotaService{
		membershipRepo: membershipRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *QuotaService) WithClock(now func() time.Time) *QuotaService {
	s.now = now
	return s
}

// CanPost answers the admission question for a user. A missing or expired
// membership denies with NO_ACTIVE_MEMBERSHIP; an exhausted limit denies
// with QUOTA_EXCEEDED. Read-only.
func (s *QuotaService) CanPost(ctx context.Context, userID uuid.UUID) (membership.QuotaDecision, error) {
	m, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return membership.QuotaDecision{Allowed: false, Reason: membership.QuotaReasonNoActiveMembership}, nil
		}
		return membership.QuotaDecision{}, err
	}
	return m.CheckQuota(s.now()), nil
}

// IncrementPostCount registers one created listing against the user's
// active period. Callers invoke it after a successful creation; the
// version-checked update never loses concurrent increments.
func (s *QuotaService) IncrementPostCount(ctx context.Context, userID uuid.UUID) error {
	for attempt := 0; attempt < incrementMaxRetries; attempt++ {
		m, err := s.membershipRepo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		m.RecordPost(s.now())
		if err := s.membershipRepo.Update(ctx, m); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				continue
			}
			return err
		}

		s.logger.Debug("post count incremented",
			zap.String("user_id", userID.String()),
			zap.Int("posts_used", m.PostCountInPeriod),
			zap.Int("post_limit", m.PostLimit),
		)
		return nil
	}
	return shared.ErrConcurrencyConflict
}

// Status returns the user's membership with a quota snapshot, or
// shared.ErrNotFound if no membership was ever granted
func (s *QuotaService) Status(ctx context.Context, userID uuid.UUID) (MembershipDTO, QuotaDTO, error) {
	m, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		return MembershipDTO{}, QuotaDTO{}, err
	}
	now := s.now()
	return ToMembershipDTO(m, now), ToQuotaDTO(m.CheckQuota(now)), nil
}
