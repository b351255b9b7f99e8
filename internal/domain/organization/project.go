package organization

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// Project represents an initiative requests can be filed against.
// A project may optionally belong to a department.
type Project struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	DepartmentID *uuid.UUID
}

// NewProject creates a new project
func NewProject(name, description string, departmentID *uuid.UUID) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		DepartmentID:      departmentID,
	}, nil
}

// Rename updates the project name
func (p *Project) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	p.Name = strings.TrimSpace(name)
	p.Touch()
	return nil
}
