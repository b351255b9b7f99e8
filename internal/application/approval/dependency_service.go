package approval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// EntityType names the organizational entities the guard can check
type EntityType string

const (
	EntityDepartment EntityType = "department"
	EntityProject    EntityType = "project"
	EntityEvent      EntityType = "event"
)

// DependencyService reports how many rows still reference an organizational
// entity before the caller decides on deletion. It only counts; it never
// deletes. Any failed read propagates as DEPENDENCY_CHECK_FAILED so a
// partial read can never masquerade as "zero dependents".
type DependencyService struct {
	expenses    request.ExpenseRepository
	invoices    request.InvoiceRepository
	departments organization.DepartmentRepository
	events      organization.EventRepository
}

// NewDependencyService creates a new DependencyService
func NewDependencyService(
	expenses request.ExpenseRepository,
	invoices request.InvoiceRepository,
	departments organization.DepartmentRepository,
	events organization.EventRepository,
) *DependencyService {
	return &DependencyService{
		expenses:    expenses,
		invoices:    invoices,
		departments: departments,
		events:      events,
	}
}

// CheckDeletable counts the rows referencing the entity. Department checks
// include requests inheriting the department through their requester's home
// department, plus directly dependent projects and events.
func (s *DependencyService) CheckDeletable(ctx context.Context, entityType EntityType, id uuid.UUID) (DependencyCounts, error) {
	switch entityType {
	case EntityDepartment:
		return s.checkDepartment(ctx, id)
	case EntityProject:
		return s.checkProject(ctx, id)
	case EntityEvent:
		return s.checkEvent(ctx, id)
	default:
		return DependencyCounts{}, shared.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Unknown entity type %q", entityType))
	}
}

func (s *DependencyService) checkDepartment(ctx context.Context, id uuid.UUID) (DependencyCounts, error) {
	var counts DependencyCounts
	var err error

	if counts.Expenses, err = s.expenses.CountReferencingDepartment(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	if counts.Invoices, err = s.invoices.CountReferencingDepartment(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	if counts.Projects, err = s.departments.CountProjects(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	if counts.Events, err = s.events.CountByDepartment(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	return counts, nil
}

func (s *DependencyService) checkProject(ctx context.Context, id uuid.UUID) (DependencyCounts, error) {
	var counts DependencyCounts
	var err error

	if counts.Expenses, err = s.expenses.CountReferencingProject(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	if counts.Invoices, err = s.invoices.CountReferencingProject(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	return counts, nil
}

func (s *DependencyService) checkEvent(ctx context.Context, id uuid.UUID) (DependencyCounts, error) {
	var counts DependencyCounts
	var err error

	if counts.Expenses, err = s.expenses.CountReferencingEvent(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	if counts.Invoices, err = s.invoices.CountReferencingEvent(ctx, id); err != nil {
		return DependencyCounts{}, dependencyCheckFailed(err)
	}
	return counts, nil
}

// dependencyCheckFailed wraps a read failure so both the guard's error code
// and the underlying cause survive for the caller
func dependencyCheckFailed(err error) error {
	return fmt.Errorf("%w: %s", shared.ErrDependencyCheck, err)
}
