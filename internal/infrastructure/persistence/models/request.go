package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
)

// RequestCoreColumns holds the persistence fields shared by both request
// kinds. The receipt reference is flattened into nullable columns. Must stay
// exported: the schema parser ignores unexported embedded fields.
type RequestCoreColumns struct {
	RequesterID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description       string          `gorm:"type:varchar(500);not null"`
	CategoryID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	DepartmentID      *uuid.UUID      `gorm:"type:uuid;index"`
	ProjectID         *uuid.UUID      `gorm:"type:uuid;index"`
	EventID           *uuid.UUID      `gorm:"type:uuid;index"`
	Status            request.Status  `gorm:"type:varchar(20);not null;default:'draft';index"`
	ReceiptStorageKey *string         `gorm:"type:varchar(512)"`
	ReceiptViewURL    *string         `gorm:"type:varchar(1024)"`
	ReceiptUploadedAt *time.Time
}

func (c *RequestCoreColumns) fromCore(core *request.Core) {
	c.RequesterID = core.RequesterID
	c.Amount = core.Amount
	c.Description = core.Description
	c.CategoryID = core.CategoryID
	c.DepartmentID = core.DepartmentID
	c.ProjectID = core.ProjectID
	c.EventID = core.EventID
	c.Status = core.Status
	c.ReceiptStorageKey = nil
	c.ReceiptViewURL = nil
	c.ReceiptUploadedAt = nil
	if core.Receipt != nil {
		key := core.Receipt.StorageKey
		url := core.Receipt.ViewURL
		uploadedAt := core.Receipt.UploadedAt
		c.ReceiptStorageKey = &key
		c.ReceiptViewURL = &url
		c.ReceiptUploadedAt = &uploadedAt
	}
}

func (c *RequestCoreColumns) toCore(core *request.Core) {
	core.RequesterID = c.RequesterID
	core.Amount = c.Amount
	core.Description = c.Description
	core.CategoryID = c.CategoryID
	core.DepartmentID = c.DepartmentID
	core.ProjectID = c.ProjectID
	core.EventID = c.EventID
	core.Status = c.Status
	if c.ReceiptStorageKey != nil {
		receipt := request.ReceiptReference{StorageKey: *c.ReceiptStorageKey}
		if c.ReceiptViewURL != nil {
			receipt.ViewURL = *c.ReceiptViewURL
		}
		if c.ReceiptUploadedAt != nil {
			receipt.UploadedAt = *c.ReceiptUploadedAt
		}
		core.Receipt = &receipt
	}
}

// ExpenseRequestModel is the persistence model for the ExpenseRequest
// aggregate root.
type ExpenseRequestModel struct {
	AggregateModel
	RequestCoreColumns
	ExpenseDate   time.Time             `gorm:"not null;index"`
	PaymentMethod request.PaymentMethod `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ExpenseRequestModel) TableName() string {
	return "expense_requests"
}

// ToDomain converts the persistence model to a domain ExpenseRequest
func (m *ExpenseRequestModel) ToDomain() *request.ExpenseRequest {
	req := &request.ExpenseRequest{
		Core: request.Core{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
		},
		ExpenseDate:   m.ExpenseDate,
		PaymentMethod: m.PaymentMethod,
	}
	m.toCore(&req.Core)
	return req
}

// FromDomain populates the persistence model from a domain ExpenseRequest
func (m *ExpenseRequestModel) FromDomain(req *request.ExpenseRequest) {
	m.FromDomainAggregateRoot(req.BaseAggregateRoot)
	m.fromCore(&req.Core)
	m.ExpenseDate = req.ExpenseDate
	m.PaymentMethod = req.PaymentMethod
}

// ExpenseRequestModelFromDomain creates a new persistence model from domain
func ExpenseRequestModelFromDomain(req *request.ExpenseRequest) *ExpenseRequestModel {
	m := &ExpenseRequestModel{}
	m.FromDomain(req)
	return m
}

// InvoiceRequestModel is the persistence model for the InvoiceRequest
// aggregate root.
type InvoiceRequestModel struct {
	AggregateModel
	RequestCoreColumns
	InvoiceDate time.Time `gorm:"not null;index"`
	DueDate     time.Time
	VendorName  string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (InvoiceRequestModel) TableName() string {
	return "invoice_requests"
}

// ToDomain converts the persistence model to a domain InvoiceRequest
func (m *InvoiceRequestModel) ToDomain() *request.InvoiceRequest {
	req := &request.InvoiceRequest{
		Core: request.Core{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
		},
		InvoiceDate: m.InvoiceDate,
		DueDate:     m.DueDate,
		VendorName:  m.VendorName,
	}
	m.toCore(&req.Core)
	return req
}

// FromDomain populates the persistence model from a domain InvoiceRequest
func (m *InvoiceRequestModel) FromDomain(req *request.InvoiceRequest) {
	m.FromDomainAggregateRoot(req.BaseAggregateRoot)
	m.fromCore(&req.Core)
	m.InvoiceDate = req.InvoiceDate
	m.DueDate = req.DueDate
	m.VendorName = req.VendorName
}

// InvoiceRequestModelFromDomain creates a new persistence model from domain
func InvoiceRequestModelFromDomain(req *request.InvoiceRequest) *InvoiceRequestModel {
	m := &InvoiceRequestModel{}
	m.FromDomain(req)
	return m
}
