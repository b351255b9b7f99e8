package organization

import (
	"context"

	"github.com/google/uuid"
)

// DepartmentRepository defines persistence operations for departments
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	FindAll(ctx context.Context) ([]Department, error)
	Save(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProjects(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventRepository defines persistence operations for events
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

// CategoryRepository defines persistence operations for spending categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}
