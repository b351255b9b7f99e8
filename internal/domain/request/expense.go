package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// PaymentMethod represents how an expense was paid by the employee
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodQRPayment    PaymentMethod = "qr_payment"
)

// IsValid checks if the payment method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodQRPayment:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ExpenseRequest is an employee's claim for money already spent
type ExpenseRequest struct {
	Core
	ExpenseDate   time.Time
	PaymentMethod PaymentMethod
}

// NewExpenseRequest creates an expense request. When submit is true the
// request starts in pending status, otherwise it is saved as a draft.
func NewExpenseRequest(
	requesterID uuid.UUID,
	amount decimal.Decimal,
	description string,
	categoryID uuid.UUID,
	expenseDate time.Time,
	paymentMethod PaymentMethod,
	submit bool,
) (*ExpenseRequest, error) {
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}

	core, err := newCore(requesterID, amount, description, categoryID, submit)
	if err != nil {
		return nil, err
	}
	return &ExpenseRequest{
		Core:          core,
		ExpenseDate:   expenseDate,
		PaymentMethod: paymentMethod,
	}, nil
}

// RequestKind returns the expense variant tag
func (e *ExpenseRequest) RequestKind() Kind {
	return KindExpense
}

// Date returns the expense date
func (e *ExpenseRequest) Date() time.Time {
	return e.ExpenseDate
}

// PaymentMethodDisplay returns the stored payment method
func (e *ExpenseRequest) PaymentMethodDisplay() string {
	return e.PaymentMethod.String()
}

// UpdateDetails changes the expense-specific editable fields alongside the
// common content. Callers must have passed AuthorizeEdit first.
func (e *ExpenseRequest) UpdateDetails(expenseDate time.Time, paymentMethod PaymentMethod) error {
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if expenseDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	e.ExpenseDate = expenseDate
	e.PaymentMethod = paymentMethod
	e.Touch()
	return nil
}
