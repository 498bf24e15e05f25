package membership

import "github.com/renthub/backend/internal/domain/shared"

// Membership-specific domain errors. Both are expected, operator-visible
// business conditions rather than system faults.
var (
	// ErrUnknownPlan is returned when an approved transaction references a
	// package name with no exact match in the catalog (the entry may have
	// been renamed or removed after the claim was submitted).
	ErrUnknownPlan = shared.NewDomainError("UNKNOWN_PLAN", "No catalog package matches the transaction's package name")

	// ErrRenewalThrottled is returned when a user renews the same package
	// more than once within a calendar month.
	ErrRenewalThrottled = shared.NewDomainError("RENEWAL_THROTTLED", "The same package can be renewed at most once per calendar month")
)
