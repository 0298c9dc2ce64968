// Package verification governs the driver onboarding lifecycle. Three states
// exist: pending, approved and rejected. Every transition is an explicit
// administrator command, allowed from any state; nothing is terminal and
// nothing fires on a timer.
package verification

import (
	"strings"
	"time"

	"tawssil-directory/internal/core/domain"
)

// Approve moves the driver to approved, clearing any rejection reason and
// stamping the verification time. Allowed from any state; re-applying is a
// no-op beyond refreshing the timestamp.
func Approve(d *domain.Driver, now time.Time) {
	d.VerificationStatus = domain.VerificationApproved
	d.RejectionReason = ""
	d.VerifiedAt = &now
}

// Reject moves the driver to rejected. The reason is mandatory: a rejected
// record with no reason would break the status/reason invariant.
func Reject(d *domain.Driver, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidationError("reason", "a rejection reason is required")
	}
	d.VerificationStatus = domain.VerificationRejected
	d.RejectionReason = reason
	d.VerifiedAt = &now
	return nil
}

// Reopen puts the driver back in the review queue. The verification
// timestamp is cleared: a pending record has not been verified.
func Reopen(d *domain.Driver) {
	d.VerificationStatus = domain.VerificationPending
	d.RejectionReason = ""
	d.VerifiedAt = nil
}

// Review applies an administrator-chosen target state, the canonical form of
// the edit-membership dialog. Rejection follows the same reason rule as
// Reject; any other target clears the reason.
func Review(d *domain.Driver, target domain.VerificationStatus, reason string, now time.Time) error {
	switch target {
	case domain.VerificationApproved:
		Approve(d, now)
		return nil
	case domain.VerificationRejected:
		return Reject(d, reason, now)
	case domain.VerificationPending:
		Reopen(d)
		return nil
	default:
		return domain.NewValidationError("status", "unknown verification status "+string(target))
	}
}
