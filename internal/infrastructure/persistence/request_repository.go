package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/persistence/models"
)

// applyListFilter narrows a request query. Both request tables share the
// filterable columns.
func applyListFilter(query *gorm.DB, filter request.ListFilter, dateColumn string) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.FromDate != nil {
		query = query.Where(dateColumn+" >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where(dateColumn+" <= ?", *filter.ToDate)
	}
	return query
}

// receiptColumns builds the column map for a receipt reference update
func receiptColumns(ref request.ReceiptReference) map[string]any {
	return map[string]any{
		"receipt_storage_key": ref.StorageKey,
		"receipt_view_url":    ref.ViewURL,
		"receipt_uploaded_at": ref.UploadedAt,
		"updated_at":          time.Now(),
	}
}

// GormExpenseRepository implements request.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense request by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.ExpenseRequest, error) {
	var model models.ExpenseRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expense requests matching the filter, newest first.
// Ties on created_at are broken by ID so the order is deterministic.
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter request.ListFilter) ([]request.ExpenseRequest, error) {
	var expenseModels []models.ExpenseRequestModel
	query := applyListFilter(r.db.WithContext(ctx).Model(&models.ExpenseRequestModel{}), filter, "expense_date")

	if err := query.Order("created_at DESC, id ASC").Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]request.ExpenseRequest, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Save creates or updates an expense request
func (r *GormExpenseRepository) Save(ctx context.Context, req *request.ExpenseRequest) error {
	return r.db.WithContext(ctx).Save(models.ExpenseRequestModelFromDomain(req)).Error
}

// UpdateStatusFrom performs the conditional status update. The WHERE clause
// on the expected status makes this the serialization point for concurrent
// transitions: the row matches at most one of them.
func (r *GormExpenseRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to request.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.statusUpdateMiss(ctx, id)
	}
	return nil
}

// UpdateContentWhilePending writes the editable columns conditionally on the
// row still being pending, so an edit racing a transition cannot write a
// stale status back over the transition's result.
func (r *GormExpenseRepository) UpdateContentWhilePending(ctx context.Context, req *request.ExpenseRequest) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("id = ? AND status = ?", req.ID, request.StatusPending).
		Updates(map[string]any{
			"amount":         req.Amount,
			"description":    req.Description,
			"category_id":    req.CategoryID,
			"expense_date":   req.ExpenseDate,
			"payment_method": req.PaymentMethod,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.statusUpdateMiss(ctx, req.ID)
	}
	return nil
}

// statusUpdateMiss distinguishes a missing row from a lost race
func (r *GormExpenseRepository) statusUpdateMiss(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// UpdateReceipt patches the receipt reference columns on the stored row
func (r *GormExpenseRepository) UpdateReceipt(ctx context.Context, id uuid.UUID, ref request.ReceiptReference) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("id = ?", id).
		Updates(receiptColumns(ref))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete hard-deletes an expense request
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountReferencingDepartment counts expense requests attributed to the
// department or filed by a requester whose home department it is. The home
// side counts even when the request carries a different explicit department.
func (r *GormExpenseRepository) CountReferencingDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("department_id = ? OR requester_id IN (?)",
			departmentID,
			r.db.Model(&models.UserModel{}).Select("id").Where("department_id = ?", departmentID)).
		Count(&count).Error
	return count, err
}

// CountReferencingProject counts expense requests filed against the project
func (r *GormExpenseRepository) CountReferencingProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// CountReferencingEvent counts expense requests attached to the event
func (r *GormExpenseRepository) CountReferencingEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseRequestModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// GormInvoiceRepository implements request.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice request by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.InvoiceRequest, error) {
	var model models.InvoiceRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds invoice requests matching the filter, newest first.
// Ties on created_at are broken by ID so the order is deterministic.
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter request.ListFilter) ([]request.InvoiceRequest, error) {
	var invoiceModels []models.InvoiceRequestModel
	query := applyListFilter(r.db.WithContext(ctx).Model(&models.InvoiceRequestModel{}), filter, "invoice_date")

	if err := query.Order("created_at DESC, id ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]request.InvoiceRequest, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice request
func (r *GormInvoiceRepository) Save(ctx context.Context, req *request.InvoiceRequest) error {
	return r.db.WithContext(ctx).Save(models.InvoiceRequestModelFromDomain(req)).Error
}

// UpdateStatusFrom performs the conditional status update keyed on the
// expected current status
func (r *GormInvoiceRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to request.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.statusUpdateMiss(ctx, id)
	}
	return nil
}

// UpdateContentWhilePending writes the editable columns conditionally on the
// row still being pending
func (r *GormInvoiceRepository) UpdateContentWhilePending(ctx context.Context, req *request.InvoiceRequest) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("id = ? AND status = ?", req.ID, request.StatusPending).
		Updates(map[string]any{
			"amount":       req.Amount,
			"description":  req.Description,
			"category_id":  req.CategoryID,
			"invoice_date": req.InvoiceDate,
			"due_date":     req.DueDate,
			"vendor_name":  req.VendorName,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.statusUpdateMiss(ctx, req.ID)
	}
	return nil
}

// statusUpdateMiss distinguishes a missing row from a lost race
func (r *GormInvoiceRepository) statusUpdateMiss(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// UpdateReceipt patches the receipt reference columns on the stored row
func (r *GormInvoiceRepository) UpdateReceipt(ctx context.Context, id uuid.UUID, ref request.ReceiptReference) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("id = ?", id).
		Updates(receiptColumns(ref))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete hard-deletes an invoice request
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountReferencingDepartment counts invoice requests attributed to the
// department or filed by a requester whose home department it is. The home
// side counts even when the request carries a different explicit department.
func (r *GormInvoiceRepository) CountReferencingDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("department_id = ? OR requester_id IN (?)",
			departmentID,
			r.db.Model(&models.UserModel{}).Select("id").Where("department_id = ?", departmentID)).
		Count(&count).Error
	return count, err
}

// CountReferencingProject counts invoice requests filed against the project
func (r *GormInvoiceRepository) CountReferencingProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// CountReferencingEvent counts invoice requests attached to the event
func (r *GormInvoiceRepository) CountReferencingEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceRequestModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
