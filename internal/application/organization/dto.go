package organization

import (
	"time"

	"github.com/google/uuid"
)

// CreateEventInput carries the fields for a new event
type CreateEventInput struct {
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	DepartmentID *uuid.UUID
}
