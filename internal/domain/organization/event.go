package organization

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// Event represents a dated occasion (offsite, campaign, conference)
// that requests can be filed against. An event may optionally be hosted
// by a department.
type Event struct {
	shared.BaseAggregateRoot
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	DepartmentID *uuid.UUID
}

// NewEvent creates a new event
func NewEvent(name string, start, end time.Time, departmentID *uuid.UUID) (*Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Event name cannot be empty")
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Event end date cannot precede its start date")
	}

	return &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		StartDate:         start,
		EndDate:           end,
		DepartmentID:      departmentID,
	}, nil
}
