package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubjectKind discriminates the subject of a ForwardingRequest, AuditRecord
// cascade, or StorageSlot: a standalone Item or a Group.
type SubjectKind string

const (
	SubjectItem  SubjectKind = "item"
	SubjectGroup SubjectKind = "group"
)

// ParseSubjectKind validates s against the closed set of subject kinds.
func ParseSubjectKind(s string) (SubjectKind, error) {
	switch SubjectKind(s) {
	case SubjectItem, SubjectGroup:
		return SubjectKind(s), nil
	}
	return "", fmt.Errorf("unknown subject kind %q", s)
}

// RequestStatus is the resolution state of a ForwardingRequest.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// ReasonNotProperlyPackaged is the designated rejection reason that forces the
// subject back to the central unit with status reset to not_sterilized.
const ReasonNotProperlyPackaged = "not_properly_packaged"

// ForwardingRequest is a pending or resolved custody transfer for one subject.
// At most one pending request exists per subject at any time.
type ForwardingRequest struct {
	ID              uuid.UUID
	SubjectKind     SubjectKind
	SubjectID       string
	From            Location
	To              Location
	Status          RequestStatus
	RejectionReason string
	RequestedBy     uuid.UUID
	ResolvedBy      uuid.UUID // uuid.Nil while pending
	ResolvedAt      *time.Time
	CreatedAt       time.Time
}

// NewForwardingRequest constructs a pending request from the subject's current
// location to the destination.
func NewForwardingRequest(kind SubjectKind, subjectID string, from, to Location, requestedBy uuid.UUID, now time.Time) (*ForwardingRequest, error) {
	if from == to {
		return nil, fmt.Errorf("subject is already at %s", to)
	}
	if to.IsRemoved() {
		return nil, fmt.Errorf("cannot forward to the removed location")
	}
	return &ForwardingRequest{
		ID:          uuid.New(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		From:        from,
		To:          to,
		Status:      RequestPending,
		RequestedBy: requestedBy,
		CreatedAt:   now,
	}, nil
}

// Accept marks the request accepted. The caller cascades the location change.
func (r *ForwardingRequest) Accept(actorID uuid.UUID, now time.Time) {
	r.Status = RequestAccepted
	r.ResolvedBy = actorID
	r.ResolvedAt = &now
}

// Reject marks the request rejected with the given reason.
func (r *ForwardingRequest) Reject(actorID uuid.UUID, reason string, now time.Time) {
	r.Status = RequestRejected
	r.RejectionReason = reason
	r.ResolvedBy = actorID
	r.ResolvedAt = &now
}

// Pending reports whether the request is still awaiting resolution.
func (r *ForwardingRequest) Pending() bool {
	return r.Status == RequestPending
}
