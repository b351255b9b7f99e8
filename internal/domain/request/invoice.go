package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// InvoiceRequest is a request to pay a vendor invoice
type InvoiceRequest struct {
	Core
	InvoiceDate time.Time
	DueDate     time.Time
	VendorName  string
}

// NewInvoiceRequest creates an invoice payment request. When submit is true
// the request starts in pending status, otherwise it is saved as a draft.
func NewInvoiceRequest(
	requesterID uuid.UUID,
	amount decimal.Decimal,
	description string,
	categoryID uuid.UUID,
	invoiceDate, dueDate time.Time,
	vendorName string,
	submit bool,
) (*InvoiceRequest, error) {
	if strings.TrimSpace(vendorName) == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	if !dueDate.IsZero() && dueDate.Before(invoiceDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Due date cannot precede the invoice date")
	}

	core, err := newCore(requesterID, amount, description, categoryID, submit)
	if err != nil {
		return nil, err
	}
	return &InvoiceRequest{
		Core:        core,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		VendorName:  strings.TrimSpace(vendorName),
	}, nil
}

// RequestKind returns the invoice variant tag
func (i *InvoiceRequest) RequestKind() Kind {
	return KindInvoice
}

// Date returns the invoice date
func (i *InvoiceRequest) Date() time.Time {
	return i.InvoiceDate
}

// PaymentMethodDisplay returns the fixed invoice payment literal
func (i *InvoiceRequest) PaymentMethodDisplay() string {
	return InvoicePaymentMethodDisplay
}

// UpdateDetails changes the invoice-specific editable fields alongside the
// common content. Callers must have passed AuthorizeEdit first.
func (i *InvoiceRequest) UpdateDetails(invoiceDate, dueDate time.Time, vendorName string) error {
	if strings.TrimSpace(vendorName) == "" {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}
	if invoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	if !dueDate.IsZero() && dueDate.Before(invoiceDate) {
		return shared.NewDomainError("INVALID_DATE", "Due date cannot precede the invoice date")
	}
	i.InvoiceDate = invoiceDate
	i.DueDate = dueDate
	i.VendorName = strings.TrimSpace(vendorName)
	i.Touch()
	return nil
}

// Interface conformance for both variants
var (
	_ Request = (*ExpenseRequest)(nil)
	_ Request = (*InvoiceRequest)(nil)
)
