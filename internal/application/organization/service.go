package organization

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	domainorg "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// ErrHasDependents is returned when deletion is refused because requests,
// projects or events still reference the entity.
var ErrHasDependents = shared.NewDomainError("HAS_DEPENDENTS", "Entity is still referenced by other records")

// Service owns the master data behind request attribution: departments,
// projects, events and spending categories. Writes are admin-gated; deletes
// go through the dependency guard and refuse on any non-zero count.
type Service struct {
	departments  domainorg.DepartmentRepository
	projects     domainorg.ProjectRepository
	events       domainorg.EventRepository
	categories   domainorg.CategoryRepository
	dependencies *approval.DependencyService
	logger       *zap.Logger
}

// NewService creates a new organization Service
func NewService(
	departments domainorg.DepartmentRepository,
	projects domainorg.ProjectRepository,
	events domainorg.EventRepository,
	categories domainorg.CategoryRepository,
	dependencies *approval.DependencyService,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		departments:  departments,
		projects:     projects,
		events:       events,
		categories:   categories,
		dependencies: dependencies,
		logger:       logger,
	}
}

func (s *Service) requireManagement(actor identity.Actor) error {
	if !actor.IsResolved() {
		return shared.ErrUnauthorized
	}
	if !actor.Role.CanManageOrganization() {
		return shared.ErrForbidden
	}
	return nil
}

// Departments

// CreateDepartment creates a department. Admin only.
func (s *Service) CreateDepartment(ctx context.Context, actor identity.Actor, code, name string) (*domainorg.Department, error) {
	if err := s.requireManagement(actor); err != nil {
		return nil, err
	}
	dept, err := domainorg.NewDepartment(code, name)
	if err != nil {
		return nil, err
	}
	if err := s.departments.Save(ctx, dept); err != nil {
		return nil, err
	}
	s.logger.Info("department created",
		zap.String("department_id", dept.ID.String()),
		zap.String("code", dept.Code))
	return dept, nil
}

// RenameDepartment updates a department's display name. Admin only.
func (s *Service) RenameDepartment(ctx context.Context, actor identity.Actor, id uuid.UUID, name string) (*domainorg.Department, error) {
	if err := s.requireManagement(actor); err != nil {
		return nil, err
	}
	dept, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dept.Rename(name); err != nil {
		return nil, err
	}
	if err := s.departments.Save(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// ListDepartments returns all departments ordered by code
func (s *Service) ListDepartments(ctx context.Context) ([]domainorg.Department, error) {
	return s.departments.FindAll(ctx)
}

// GetDepartment returns a department by ID
func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*domainorg.Department, error) {
	return s.departments.FindByID(ctx, id)
}

// Dependents reports how many rows still reference the entity. The counts
// are advisory; DeleteX re-checks before the actual delete.
func (s *Service) Dependents(ctx context.Context, entityType approval.EntityType, id uuid.UUID) (approval.DependencyCounts, error) {
	return s.dependencies.CheckDeletable(ctx, entityType, id)
}

// DeleteDepartment removes a department unless anything still references
// it. On refusal the counts are returned alongside ErrHasDependents.
func (s *Service) DeleteDepartment(ctx context.Context, actor identity.Actor, id uuid.UUID) (approval.DependencyCounts, error) {
	if err := s.requireManagement(actor); err != nil {
		return approval.DependencyCounts{}, err
	}
	counts, err := s.dependencies.CheckDeletable(ctx, approval.EntityDepartment, id)
	if err != nil {
		return approval.DependencyCounts{}, err
	}
	if counts.Total() > 0 {
		return counts, ErrHasDependents
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return counts, err
	}
	s.logger.Info("department deleted", zap.String("department_id", id.String()))
	return counts, nil
}

// Projects

// CreateProject creates a project, optionally scoped to a department. Admin only.
func (s *Service) CreateProject(ctx context.Context, actor identity.Actor, name, description string, departmentID *uuid.UUID) (*domainorg.Project, error) {
	if err := s.requireManagement(actor); err != nil {
		return nil, err
	}
	if departmentID != nil {
		if _, err := s.departments.FindByID(ctx, *departmentID); err != nil {
			return nil, err
		}
	}
	project, err := domainorg.NewProject(name, description, departmentID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns all projects
func (s *Service) ListProjects(ctx context.Context) ([]domainorg.Project, error) {
	return s.projects.FindAll(ctx)
}

// GetProject returns a project by ID
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*domainorg.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// DeleteProject removes a project unless requests still reference it
func (s *Service) DeleteProject(ctx context.Context, actor identity.Actor, id uuid.UUID) (approval.DependencyCounts, error) {
	if err := s.requireManagement(actor); err != nil {
		return approval.DependencyCounts{}, err
	}
	counts, err := s.dependencies.CheckDeletable(ctx, approval.EntityProject, id)
	if err != nil {
		return approval.DependencyCounts{}, err
	}
	if counts.Total() > 0 {
		return counts, ErrHasDependents
	}
	return counts, s.projects.Delete(ctx, id)
}

// Events

// CreateEvent creates an event, optionally hosted by a department. Admin only.
func (s *Service) CreateEvent(ctx context.Context, actor identity.Actor, input CreateEventInput) (*domainorg.Event, error) {
	if err := s.requireManagement(actor); err != nil {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.FindByID(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
	}
	event, err := domainorg.NewEvent(input.Name, input.StartDate, input.EndDate, input.DepartmentID)
	if err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns all events, most recent first
func (s *Service) ListEvents(ctx context.Context) ([]domainorg.Event, error) {
	return s.events.FindAll(ctx)
}

// GetEvent returns an event by ID
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*domainorg.Event, error) {
	return s.events.FindByID(ctx, id)
}

// DeleteEvent removes an event unless requests still reference it
func (s *Service) DeleteEvent(ctx context.Context, actor identity.Actor, id uuid.UUID) (approval.DependencyCounts, error) {
	if err := s.requireManagement(actor); err != nil {
		return approval.DependencyCounts{}, err
	}
	counts, err := s.dependencies.CheckDeletable(ctx, approval.EntityEvent, id)
	if err != nil {
		return approval.DependencyCounts{}, err
	}
	if counts.Total() > 0 {
		return counts, ErrHasDependents
	}
	return counts, s.events.Delete(ctx, id)
}

// Categories

// CreateCategory creates a spending category. Admin only. Categories are
// never deleted; every request row keeps a valid category reference.
func (s *Service) CreateCategory(ctx context.Context, actor identity.Actor, name, description string) (*domainorg.Category, error) {
	if err := s.requireManagement(actor); err != nil {
		return nil, err
	}
	category, err := domainorg.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all spending categories
func (s *Service) ListCategories(ctx context.Context) ([]domainorg.Category, error) {
	return s.categories.FindAll(ctx)
}
