package approval

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// RequestService owns the write path of the request lifecycle: creation with
// attribution resolution, content edits, status transitions and deletion.
type RequestService struct {
	expenses request.ExpenseRepository
	invoices request.InvoiceRepository
	users    identity.UserRepository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	expenses request.ExpenseRepository,
	invoices request.InvoiceRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		expenses: expenses,
		invoices: invoices,
		users:    users,
		logger:   logger,
	}
}

// ResolveAttribution decides the department and project a new request is
// filed under. An explicit department wins verbatim; otherwise the
// requester's home department is inherited when present. Projects are never
// inferred. Pure read.
func (s *RequestService) ResolveAttribution(
	ctx context.Context,
	requesterID uuid.UUID,
	explicitDepartmentID, explicitProjectID *uuid.UUID,
) (departmentID, projectID *uuid.UUID, err error) {
	if explicitDepartmentID != nil {
		return explicitDepartmentID, explicitProjectID, nil
	}

	user, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, nil, err
	}
	return user.DepartmentID, explicitProjectID, nil
}

// CreateExpense creates an expense request for the acting user
func (s *RequestService) CreateExpense(ctx context.Context, actor identity.Actor, input CreateExpenseInput) (*request.ExpenseRequest, error) {
	if !actor.IsResolved() {
		return nil, shared.ErrUnauthorized
	}

	deptID, projectID, err := s.ResolveAttribution(ctx, actor.ID, input.DepartmentID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	req, err := request.NewExpenseRequest(
		actor.ID,
		input.Amount,
		input.Description,
		input.CategoryID,
		input.ExpenseDate,
		input.PaymentMethod,
		input.Submit,
	)
	if err != nil {
		return nil, err
	}
	req.Attribute(deptID, projectID)
	if input.EventID != nil {
		req.AttachToEvent(*input.EventID)
	}

	if err := s.expenses.Save(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("expense request created",
		zap.String("request_id", req.ID.String()),
		zap.String("requester_id", actor.ID.String()),
		zap.String("status", req.Status.String()))
	return req, nil
}

// CreateInvoice creates an invoice payment request for the acting user
func (s *RequestService) CreateInvoice(ctx context.Context, actor identity.Actor, input CreateInvoiceInput) (*request.InvoiceRequest, error) {
	if !actor.IsResolved() {
		return nil, shared.ErrUnauthorized
	}

	deptID, projectID, err := s.ResolveAttribution(ctx, actor.ID, input.DepartmentID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	req, err := request.NewInvoiceRequest(
		actor.ID,
		input.Amount,
		input.Description,
		input.CategoryID,
		input.InvoiceDate,
		input.DueDate,
		input.VendorName,
		input.Submit,
	)
	if err != nil {
		return nil, err
	}
	req.Attribute(deptID, projectID)
	if input.EventID != nil {
		req.AttachToEvent(*input.EventID)
	}

	if err := s.invoices.Save(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("invoice request created",
		zap.String("request_id", req.ID.String()),
		zap.String("requester_id", actor.ID.String()),
		zap.String("status", req.Status.String()))
	return req, nil
}

// Get loads a request of either kind by ID
func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (request.Request, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err == nil {
		return expense, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateContent edits a pending request's content. Ownership and status are
// validated before anything is written; variant-specific fields are applied
// when present in the input.
func (s *RequestService) UpdateContent(ctx context.Context, actor identity.Actor, id uuid.UUID, input UpdateContentInput) (request.Request, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	core := req.RequestCore()
	if err := core.AuthorizeEdit(actor); err != nil {
		return nil, err
	}
	if err := core.UpdateContent(input.Amount, input.Description, input.CategoryID); err != nil {
		return nil, err
	}

	switch typed := req.(type) {
	case *request.ExpenseRequest:
		date := typed.ExpenseDate
		method := typed.PaymentMethod
		if input.ExpenseDate != nil {
			date = *input.ExpenseDate
		}
		if input.PaymentMethod != nil {
			method = *input.PaymentMethod
		}
		if err := typed.UpdateDetails(date, method); err != nil {
			return nil, err
		}
		// Conditional on the row still being pending; a transition that
		// lands first must not be overwritten by a stale snapshot.
		if err := s.expenses.UpdateContentWhilePending(ctx, typed); err != nil {
			return nil, err
		}
	case *request.InvoiceRequest:
		invoiceDate := typed.InvoiceDate
		dueDate := typed.DueDate
		vendor := typed.VendorName
		if input.InvoiceDate != nil {
			invoiceDate = *input.InvoiceDate
		}
		if input.DueDate != nil {
			dueDate = *input.DueDate
		}
		if input.VendorName != nil {
			vendor = *input.VendorName
		}
		if err := typed.UpdateDetails(invoiceDate, dueDate, vendor); err != nil {
			return nil, err
		}
		if err := s.invoices.UpdateContentWhilePending(ctx, typed); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Transition moves a request through the lifecycle state machine. The domain
// validates the edge and the actor; persistence is a conditional update
// keyed on the loaded status, so of two concurrent transitions exactly one
// wins and the loser observes a conflict.
func (s *RequestService) Transition(ctx context.Context, actor identity.Actor, id uuid.UUID, action request.Action) (request.Request, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	core := req.RequestCore()
	from := core.Status
	if err := core.ApplyTransition(action, actor); err != nil {
		return nil, err
	}

	switch req.RequestKind() {
	case request.KindExpense:
		err = s.expenses.UpdateStatusFrom(ctx, id, from, core.Status)
	case request.KindInvoice:
		err = s.invoices.UpdateStatusFrom(ctx, id, from, core.Status)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("request transitioned",
		zap.String("request_id", id.String()),
		zap.String("action", action.String()),
		zap.String("from", from.String()),
		zap.String("to", core.Status.String()),
		zap.String("actor_id", actor.ID.String()))
	return req, nil
}

// Delete hard-deletes a pending request. Only the requester may delete, and
// only while the request is pending; anything else is retained for audit.
func (s *RequestService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	core := req.RequestCore()
	if err := core.AuthorizeDelete(actor); err != nil {
		return err
	}

	switch req.RequestKind() {
	case request.KindExpense:
		err = s.expenses.Delete(ctx, id)
	case request.KindInvoice:
		err = s.invoices.Delete(ctx, id)
	}
	if err != nil {
		return err
	}

	s.logger.Info("request deleted",
		zap.String("request_id", id.String()),
		zap.String("actor_id", actor.ID.String()))
	return nil
}
