package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
)

// CreateExpenseInput carries the fields for a new expense request
type CreateExpenseInput struct {
	Amount        decimal.Decimal
	Description   string
	CategoryID    uuid.UUID
	DepartmentID  *uuid.UUID
	ProjectID     *uuid.UUID
	EventID       *uuid.UUID
	ExpenseDate   time.Time
	PaymentMethod request.PaymentMethod
	Submit        bool
}

// CreateInvoiceInput carries the fields for a new invoice payment request
type CreateInvoiceInput struct {
	Amount       decimal.Decimal
	Description  string
	CategoryID   uuid.UUID
	DepartmentID *uuid.UUID
	ProjectID    *uuid.UUID
	EventID      *uuid.UUID
	InvoiceDate  time.Time
	DueDate      time.Time
	VendorName   string
	Submit       bool
}

// UpdateContentInput carries the editable fields of a pending request.
// Variant-specific fields are optional and applied only when present.
type UpdateContentInput struct {
	Amount      decimal.Decimal
	Description string
	CategoryID  uuid.UUID

	ExpenseDate   *time.Time
	PaymentMethod *request.PaymentMethod

	InvoiceDate *time.Time
	DueDate     *time.Time
	VendorName  *string
}

// CombinedEntry is the normalized read model both request kinds project into
type CombinedEntry struct {
	ID            uuid.UUID        `json:"id"`
	Kind          request.Kind     `json:"type"`
	RequesterID   uuid.UUID        `json:"requester_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Description   string           `json:"description"`
	CategoryID    uuid.UUID        `json:"category_id"`
	DepartmentID  *uuid.UUID       `json:"department_id,omitempty"`
	ProjectID     *uuid.UUID       `json:"project_id,omitempty"`
	EventID       *uuid.UUID       `json:"event_id,omitempty"`
	Status        request.Status   `json:"status"`
	Date          time.Time        `json:"date"`
	PaymentMethod string           `json:"payment_method"`
	ReceiptURL    string           `json:"receipt_url,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// FeedSummary aggregates a combined feed in one pass
type FeedSummary struct {
	Pending     int64           `json:"pending"`
	Approved    int64           `json:"approved"`
	Rejected    int64           `json:"rejected"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DependencyCounts reports how many rows still reference an entity.
// The caller refuses deletion when any count is non-zero.
type DependencyCounts struct {
	Expenses int64 `json:"expenses"`
	Invoices int64 `json:"invoices"`
	Projects int64 `json:"projects"`
	Events   int64 `json:"events"`
}

// Total returns the sum of all dependent rows
func (c DependencyCounts) Total() int64 {
	return c.Expenses + c.Invoices + c.Projects + c.Events
}

// ReceiptResult reports the stored receipt reference after a sync
type ReceiptResult struct {
	StorageKey string `json:"storage_key"`
	ViewURL    string `json:"view_url"`
}

// newCombinedEntry projects either request variant into the shared shape
func newCombinedEntry(req request.Request) CombinedEntry {
	core := req.RequestCore()
	entry := CombinedEntry{
		ID:            core.ID,
		Kind:          req.RequestKind(),
		RequesterID:   core.RequesterID,
		Amount:        core.Amount,
		Description:   core.Description,
		CategoryID:    core.CategoryID,
		DepartmentID:  core.DepartmentID,
		ProjectID:     core.ProjectID,
		EventID:       core.EventID,
		Status:        core.Status,
		Date:          req.Date(),
		PaymentMethod: req.PaymentMethodDisplay(),
		CreatedAt:     core.CreatedAt,
	}
	if core.Receipt != nil {
		entry.ReceiptURL = core.Receipt.ViewURL
	}
	return entry
}
