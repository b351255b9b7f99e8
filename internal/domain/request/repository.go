package request

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows request reads for the combined feed
type ListFilter struct {
	Status       *Status
	RequesterID  *uuid.UUID
	DepartmentID *uuid.UUID
	EventID      *uuid.UUID
	FromDate     *time.Time
	ToDate       *time.Time
}

// ExpenseRepository defines persistence operations for expense requests
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]ExpenseRequest, error)
	Save(ctx context.Context, req *ExpenseRequest) error
	// UpdateStatusFrom performs a conditional status update keyed on the
	// expected current status. It is the per-request serialization point:
	// of two concurrent transitions exactly one matches the expected status.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to Status) error
	// UpdateContentWhilePending persists an edited aggregate's content only
	// while the stored row is still pending. An edit that loses the race
	// against a transition reports a conflict instead of writing a stale
	// status back.
	UpdateContentWhilePending(ctx context.Context, req *ExpenseRequest) error
	// UpdateReceipt patches the receipt reference on the stored row.
	UpdateReceipt(ctx context.Context, id uuid.UUID, ref ReceiptReference) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Reference counts used by the dependency guard. A failed read returns
	// an error, never a zero count.
	CountReferencingDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
	CountReferencingProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	CountReferencingEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// InvoiceRepository defines persistence operations for invoice requests
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]InvoiceRequest, error)
	Save(ctx context.Context, req *InvoiceRequest) error
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to Status) error
	UpdateContentWhilePending(ctx context.Context, req *InvoiceRequest) error
	UpdateReceipt(ctx context.Context, id uuid.UUID, ref ReceiptReference) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountReferencingDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
	CountReferencingProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	CountReferencingEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}
