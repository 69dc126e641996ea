package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus represents the approval state of a record
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// Approval is a value object embedded in aggregates that require sign-off.
// It enforces the legal transitions Pending->Approved, Pending->Rejected and
// (Approved|Rejected)->Pending via Reset. No state transitions to itself and
// a rejected record cannot be approved without a reset in between.
//
// Records with Required=false bypass the machine entirely: Approve/Reject
// fail and IsLocked always reports false.
type Approval struct {
	Required        bool           `json:"required"`
	Status          ApprovalStatus `json:"status"`
	ApprovedBy      *uuid.UUID     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	ApprovalComment string         `json:"approval_comment,omitempty"`
	RejectedBy      *uuid.UUID     `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}

// NewApproval creates an approval state for a record
func NewApproval(required bool) Approval {
	a := Approval{Required: required}
	if required {
		a.Status = ApprovalStatusPending
	}
	return a
}

// Approve transitions the approval from Pending to Approved, recording the
// approver identity, timestamp and an optional comment.
func (a *Approval) Approve(approver uuid.UUID, comment string) error {
	if !a.Required {
		return NewInvalidTransitionError("Record does not require approval")
	}
	if a.Status != ApprovalStatusPending {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot approve record in %s approval status", a.Status))
	}
	if approver == uuid.Nil {
		return NewValidationError("Approver identity is required")
	}

	now := time.Now()
	a.Status = ApprovalStatusApproved
	a.ApprovedBy = &approver
	a.ApprovedAt = &now
	a.ApprovalComment = comment

	return nil
}

// Reject transitions the approval from Pending to Rejected. A reason is
// mandatory.
func (a *Approval) Reject(rejecter uuid.UUID, reason string) error {
	if !a.Required {
		return NewInvalidTransitionError("Record does not require approval")
	}
	if a.Status != ApprovalStatusPending {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot reject record in %s approval status", a.Status))
	}
	if rejecter == uuid.Nil {
		return NewValidationError("Rejecter identity is required")
	}
	if reason == "" {
		return NewValidationError("Rejection reason is required")
	}

	now := time.Now()
	a.Status = ApprovalStatusRejected
	a.RejectedBy = &rejecter
	a.RejectedAt = &now
	a.RejectionReason = reason

	return nil
}

// Reset returns an Approved or Rejected record to Pending and clears the
// approver/rejecter metadata. This is the only way out of the approval lock.
func (a *Approval) Reset() error {
	if !a.Required {
		return NewInvalidTransitionError("Record does not require approval")
	}
	if a.Status == ApprovalStatusPending {
		return NewInvalidTransitionError("Record is already pending approval")
	}

	a.Status = ApprovalStatusPending
	a.ApprovedBy = nil
	a.ApprovedAt = nil
	a.ApprovalComment = ""
	a.RejectedBy = nil
	a.RejectedAt = nil
	a.RejectionReason = ""

	return nil
}

// IsLocked reports whether the record is approval-locked. A locked record
// rejects every mutation until Reset is called.
func (a *Approval) IsLocked() bool {
	return a.Required && a.Status == ApprovalStatusApproved
}

// IsApproved reports whether the record has been approved
func (a *Approval) IsApproved() bool {
	return a.Status == ApprovalStatusApproved
}

// IsRejected reports whether the record has been rejected
func (a *Approval) IsRejected() bool {
	return a.Status == ApprovalStatusRejected
}
