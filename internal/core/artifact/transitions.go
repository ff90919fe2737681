// Package artifact contains the pure business rules for artifact review
// states. This is part of the Functional Core - no I/O, only pure functions.
package artifact

import "fmt"

// Status represents the review state of an artifact.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// InitialStatus returns the status for a freshly produced artifact.
func InitialStatus() Status {
	return StatusDraft
}

// GuardResult represents the outcome of a transition guard.
type GuardResult struct {
	Allowed bool
	Reason  string // populated when not allowed
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanApprove evaluates whether an artifact in the given status may be
// approved. Only drafts are reviewable; a rejected artifact must be
// regenerated first.
func CanApprove(current Status) GuardResult {
	if current != StatusDraft {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("only draft artifacts can be approved (status: %s)", current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanReject evaluates whether an artifact in the given status may be
// rejected. Approved artifacts are immutable; they can only be superseded
// by an explicit re-run.
func CanReject(current Status) GuardResult {
	switch current {
	case StatusDraft:
		return GuardResult{Allowed: true}
	case StatusRejected:
		return GuardResult{Allowed: false, Reason: "artifact is already rejected"}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  "approved artifacts are immutable; re-run the stage to supersede",
		}
	}
}

// CanRedraft evaluates whether a stage re-run may overwrite the slot with
// a fresh draft. Overwriting an approved artifact demands an explicit
// acknowledgment that a new revision is intended.
func CanRedraft(current Status, acknowledged bool) GuardResult {
	if current == StatusApproved && !acknowledged {
		return GuardResult{
			Allowed: false,
			Reason:  "artifact is approved; acknowledge the revision to replace it",
		}
	}
	return GuardResult{Allowed: true}
}

// NextVersion returns the version for the record that supersedes the
// current one. Versions only ever increase.
func NextVersion(current int) int {
	return current + 1
}
