package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/shared"
)

// MonthKey returns the calendar year-month key used by the renewal
// throttle, e.g. "2024-03".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Membership is the time-boxed entitlement granted after an approved
// transaction. There is exactly one record per user: a new approval
// replaces the active window instead of appending a second one. Expired
// memberships are kept; they simply stop granting quota.
type Membership struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID // Unique; one membership record per user
	Tier              Tier
	PackageName       string
	PostLimit         int // Listings allowed within the active period
	StartDate         time.Time
	EndDate           time.Time // StartDate + package duration
	LastRenewedMonth  string    // MonthKey of the most recent grant for this PackageName
	PostCountInPeriod int       // Resets to 0 whenever StartDate advances
}

// NewMembership creates a user's first membership from an approved grant
func NewMembership(userID uuid.UUID, tier Tier, packageName string, postLimit, durationDays int, now time.Time) (*Membership, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if durationDays <= 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Duration must be at least one day")
	}

	m := &Membership{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Tier:              tier,
		PackageName:       packageName,
		PostLimit:         postLimit,
		StartDate:         now,
		EndDate:           now.AddDate(0, 0, durationDays),
		LastRenewedMonth:  MonthKey(now),
		PostCountInPeriod: 0,
	}

	m.AddDomainEvent(NewMembershipGrantedEvent(m, TierFree))

	return m, nil
}

// IsActiveAt reports whether the membership grants entitlement at the
// given instant. A membership whose EndDate has passed grants nothing.
func (m *Membership) IsActiveAt(now time.Time) bool {
	return now.Before(m.EndDate)
}

// DaysRemaining returns the whole days left in the active period, floored
// at zero for expired memberships.
func (m *Membership) DaysRemaining(now time.Time) int {
	if !m.IsActiveAt(now) {
		return 0
	}
	return int(m.EndDate.Sub(now).Hours() / 24)
}

// ThrottlesRenewal reports whether a new grant for the given package must
// be refused: the membership is still active, covers the same package, and
// was already renewed within the current calendar month. Switching to a
// different package is never throttled.
func (m *Membership) ThrottlesRenewal(packageName string, now time.Time) bool {
	if !m.IsActiveAt(now) {
		return false
	}
	if m.PackageName != packageName {
		return false
	}
	return m.LastRenewedMonth == MonthKey(now)
}

// ApplyGrant replaces the entitlement window with a fresh one. The post
// counter resets even when switching packages: unused quota does not carry
// over.
func (m *Membership) ApplyGrant(tier Tier, packageName string, postLimit, durationDays int, now time.Time) error {
	if m.ThrottlesRenewal(packageName, now) {
		return ErrRenewalThrottled
	}
	if durationDays <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be at least one day")
	}

	previousTier := m.Tier

	m.Tier = tier
	m.PackageName = packageName
	m.PostLimit = postLimit
	m.StartDate = now
	m.EndDate = now.AddDate(0, 0, durationDays)
	m.LastRenewedMonth = MonthKey(now)
	m.PostCountInPeriod = 0
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(NewMembershipGrantedEvent(m, previousTier))

	return nil
}

// RecordPost increments the period's post counter. Admission is the Quota
// Guard's question; this method only registers a post that was created.
func (m *Membership) RecordPost(now time.Time) {
	m.PostCountInPeriod++
	m.UpdatedAt = now
	m.IncrementVersion()
}

// QuotaDenialReason explains why posting was denied
type QuotaDenialReason string

const (
	// QuotaReasonNoActiveMembership means the user has no membership or it expired
	QuotaReasonNoActiveMembership QuotaDenialReason = "NO_ACTIVE_MEMBERSHIP"

	// QuotaReasonExceeded means the period's post limit is used up
	QuotaReasonExceeded QuotaDenialReason = "QUOTA_EXCEEDED"
)

// QuotaDecision is the Quota Guard's answer to "may this user post?"
type QuotaDecision struct {
	Allowed   bool
	Reason    QuotaDenialReason // Set only when Allowed is false
	PostLimit int
	PostsUsed int
	Remaining int
}

// CheckQuota answers the admission question for this membership. It never
// mutates the counter.
func (m *Membership) CheckQuota(now time.Time) QuotaDecision {
	if !m.IsActiveAt(now) {
		return QuotaDecision{Allowed: false, Reason: QuotaReasonNoActiveMembership}
	}

	decision := QuotaDecision{
		PostLimit: m.PostLimit,
		PostsUsed: m.PostCountInPeriod,
		Remaining: m.PostLimit - m.PostCountInPeriod,
	}
	if m.PostCountInPeriod < m.PostLimit {
		decision.Allowed = true
		return decision
	}

	decision.Reason = QuotaReasonExceeded
	decision.Remaining = 0
	return decision
}
