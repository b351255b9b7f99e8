package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/persistence/models"
)

// GormDepartmentRepository implements organization.DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Department, error) {
	var model models.DepartmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all departments ordered by code
func (r *GormDepartmentRepository) FindAll(ctx context.Context) ([]organization.Department, error) {
	var deptModels []models.DepartmentModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&deptModels).Error; err != nil {
		return nil, err
	}
	departments := make([]organization.Department, len(deptModels))
	for i, model := range deptModels {
		departments[i] = *model.ToDomain()
	}
	return departments, nil
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, dept *organization.Department) error {
	model := &models.DepartmentModel{}
	model.FromDomain(dept)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a department. Callers run the dependency guard first.
func (r *GormDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DepartmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountProjects counts projects attached to the department
func (r *GormDepartmentRepository) CountProjects(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

// GormProjectRepository implements organization.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all projects ordered by name
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]organization.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&projectModels).Error; err != nil {
		return nil, err
	}
	projects := make([]organization.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = *model.ToDomain()
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *organization.Project) error {
	model := &models.ProjectModel{}
	model.FromDomain(project)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a project. Callers run the dependency guard first.
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormEventRepository implements organization.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all events ordered by start date descending
func (r *GormEventRepository) FindAll(ctx context.Context) ([]organization.Event, error) {
	var eventModels []models.EventModel
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]organization.Event, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *organization.Event) error {
	model := &models.EventModel{}
	model.FromDomain(event)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an event. Callers run the dependency guard first.
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EventModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByDepartment counts events attached to the department
func (r *GormEventRepository) CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

// GormCategoryRepository implements organization.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]organization.Category, error) {
	var categoryModels []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]organization.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *organization.Category) error {
	model := &models.CategoryModel{}
	model.FromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}
