package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// Kind tags the two request variants sharing one lifecycle
type Kind string

const (
	KindExpense Kind = "expense"
	KindInvoice Kind = "invoice"
)

// IsValid checks if the kind is a known Kind
func (k Kind) IsValid() bool {
	return k == KindExpense || k == KindInvoice
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// InvoicePaymentMethodDisplay is the payment method shown for invoice
// payments in the combined feed; invoices carry no stored method.
const InvoicePaymentMethodDisplay = "invoice"

const maxDescriptionLength = 500

// ReceiptReference points at an uploaded receipt image in object storage
type ReceiptReference struct {
	StorageKey string
	ViewURL    string
	UploadedAt time.Time
}

// Request is the capability set shared by both request variants.
// The feed layer projects either variant through this interface.
type Request interface {
	shared.AggregateRoot
	RequestKind() Kind
	RequestCore() *Core
	// Date returns the variant's business date: expense date for expenses,
	// invoice date for invoice payments.
	Date() time.Time
	// PaymentMethodDisplay returns the display value for the combined feed.
	PaymentMethodDisplay() string
}

// Core holds the fields and lifecycle behavior common to both variants
type Core struct {
	shared.BaseAggregateRoot
	RequesterID  uuid.UUID
	Amount       decimal.Decimal
	Description  string
	CategoryID   uuid.UUID
	DepartmentID *uuid.UUID
	ProjectID    *uuid.UUID
	EventID      *uuid.UUID
	Status       Status
	Receipt      *ReceiptReference
}

// RequestCore returns the shared core of the request
func (c *Core) RequestCore() *Core {
	return c
}

// newCore validates and builds the shared request core
func newCore(requesterID uuid.UUID, amount decimal.Decimal, description string, categoryID uuid.UUID, submit bool) (Core, error) {
	if requesterID == uuid.Nil {
		return Core{}, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return Core{}, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if err := validateContent(amount, description); err != nil {
		return Core{}, err
	}

	status := StatusDraft
	if submit {
		status = StatusPending
	}
	return Core{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequesterID:       requesterID,
		Amount:            amount,
		Description:       strings.TrimSpace(description),
		CategoryID:        categoryID,
		Status:            status,
	}, nil
}

func validateContent(amount decimal.Decimal, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > maxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}

// Attribute stamps the resolved department and project onto the request.
// Called once, before first persistence.
func (c *Core) Attribute(departmentID, projectID *uuid.UUID) {
	c.DepartmentID = departmentID
	c.ProjectID = projectID
}

// AttachToEvent files the request against an event
func (c *Core) AttachToEvent(eventID uuid.UUID) {
	c.EventID = &eventID
	c.Touch()
}

// ApplyTransition validates the action against the state machine and the
// actor's rights, then applies the resulting status. Validation happens
// before any mutation; on error the request is unchanged.
func (c *Core) ApplyTransition(action Action, actor identity.Actor) error {
	next, err := NextStatus(c.Status, action)
	if err != nil {
		return err
	}
	if err := AuthorizeAction(action, actor, c.RequesterID); err != nil {
		return err
	}
	c.Status = next
	c.Touch()
	return nil
}

// AuthorizeEdit checks whether the actor may edit request content now.
// Only the requester may edit, and only while the request is pending.
func (c *Core) AuthorizeEdit(actor identity.Actor) error {
	if !actor.IsResolved() {
		return shared.ErrUnauthorized
	}
	if actor.ID != c.RequesterID {
		return shared.ErrForbidden.WithMessage("Only the requester may edit this request")
	}
	if !c.Status.IsEditable() {
		return shared.ErrImmutableState.WithMessage(
			"Request content can only be edited while pending")
	}
	return nil
}

// AuthorizeDelete checks whether the actor may hard-delete the request.
// Ownership is checked before status so a non-owner never learns whether
// deletion would otherwise have been possible.
func (c *Core) AuthorizeDelete(actor identity.Actor) error {
	if !actor.IsResolved() {
		return shared.ErrUnauthorized
	}
	if actor.ID != c.RequesterID {
		return shared.ErrForbidden.WithMessage("Only the requester may delete this request")
	}
	if !c.Status.IsDeletable() {
		return shared.ErrImmutableState.WithMessage(
			"Only pending requests can be deleted; other statuses are retained for audit")
	}
	return nil
}

// UpdateContent changes the editable fields. Callers must have passed
// AuthorizeEdit first; validation still re-runs the content invariants.
func (c *Core) UpdateContent(amount decimal.Decimal, description string, categoryID uuid.UUID) error {
	if err := validateContent(amount, description); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	c.Amount = amount
	c.Description = strings.TrimSpace(description)
	c.CategoryID = categoryID
	c.Touch()
	return nil
}

// SetReceipt records the uploaded receipt reference. A reference is set at
// most once; replacing it requires the explicit replace flag so an existing
// remote object is never silently superseded.
func (c *Core) SetReceipt(ref ReceiptReference, replace bool) error {
	if c.Receipt != nil && !replace {
		return shared.ErrAlreadyExists.WithMessage("Request already has a receipt reference")
	}
	c.Receipt = &ref
	c.Touch()
	return nil
}

// HasReceipt returns true once a receipt reference has been recorded
func (c *Core) HasReceipt() bool {
	return c.Receipt != nil
}
