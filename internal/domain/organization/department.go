package organization

import (
	"regexp"
	"strings"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Department represents an organizational unit requests are attributed to
type Department struct {
	shared.BaseAggregateRoot
	Code string
	Name string
}

// NewDepartment creates a new department
func NewDepartment(code, name string) (*Department, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Department code cannot be empty")
	}
	if !codePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Department code must start with a letter and contain only letters, digits and underscores")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Department name cannot be empty")
	}

	return &Department{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
	}, nil
}

// Rename updates the department name
func (d *Department) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Department name cannot be empty")
	}
	d.Name = strings.TrimSpace(name)
	d.Touch()
	return nil
}
