package request

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// Status represents the lifecycle status of a request
type Status string

const (
	StatusDraft    Status = "draft"    // Saved, not yet submitted
	StatusPending  Status = "pending"  // Submitted, awaiting approval
	StatusApproved Status = "approved" // Approved, awaiting payment
	StatusRejected Status = "rejected" // Rejected by an approver
	StatusPaid     Status = "paid"     // Paid out
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once the requester can no longer change the request
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusPaid
}

// IsEditable returns true while request content may still be changed by its owner
func (s Status) IsEditable() bool {
	return s == StatusPending
}

// IsDeletable returns true while the request may still be hard-deleted by its owner
func (s Status) IsDeletable() bool {
	return s == StatusPending
}

// Action represents a lifecycle transition trigger
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPay     Action = "pay"
)

// IsValid checks if the action is a known Action
func (a Action) IsValid() bool {
	switch a {
	case ActionSubmit, ActionApprove, ActionReject, ActionPay:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// transition describes one edge of the lifecycle state machine
type transition struct {
	from Status
	to   Status
}

// transitions is the complete lifecycle table. Any edge not listed here
// is rejected with INVALID_TRANSITION.
var transitions = map[Action]transition{
	ActionSubmit:  {from: StatusDraft, to: StatusPending},
	ActionApprove: {from: StatusPending, to: StatusApproved},
	ActionReject:  {from: StatusPending, to: StatusRejected},
	ActionPay:     {from: StatusApproved, to: StatusPaid},
}

// NextStatus validates an action against the current status and returns the
// resulting status. It checks only the shape of the transition, not who is
// performing it; authorization is checked separately by AuthorizeAction.
func NextStatus(current Status, action Action) (Status, error) {
	tr, ok := transitions[action]
	if !ok {
		return "", shared.ErrInvalidTransition.WithMessage(
			fmt.Sprintf("Unknown transition action %q", action))
	}
	if tr.from != current {
		return "", shared.ErrInvalidTransition.WithMessage(
			fmt.Sprintf("Cannot %s a request in %s status", action, current))
	}
	return tr.to, nil
}

// AuthorizeAction checks whether the actor may perform the action on a
// request owned by requesterID. Unresolved actors are rejected outright.
func AuthorizeAction(action Action, actor identity.Actor, requesterID uuid.UUID) error {
	if !actor.IsResolved() {
		return shared.ErrUnauthorized
	}
	switch action {
	case ActionSubmit:
		if actor.ID != requesterID {
			return shared.ErrForbidden.WithMessage("Only the requester may submit this request")
		}
	case ActionApprove, ActionReject:
		if !actor.Role.CanApprove() {
			return shared.ErrForbidden.WithMessage("Only managers may approve or reject requests")
		}
	case ActionPay:
		if !actor.Role.CanPay() {
			return shared.ErrForbidden.WithMessage("Only accountants may mark requests as paid")
		}
	default:
		return shared.ErrInvalidTransition.WithMessage(
			fmt.Sprintf("Unknown transition action %q", action))
	}
	return nil
}
