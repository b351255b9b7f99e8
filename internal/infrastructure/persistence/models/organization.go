package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
)

// DepartmentModel is the persistence model for the Department aggregate root.
type DepartmentModel struct {
	AggregateModel
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the persistence model to a domain Department
func (m *DepartmentModel) ToDomain() *organization.Department {
	return &organization.Department{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
	}
}

// FromDomain populates the persistence model from a domain Department
func (m *DepartmentModel) FromDomain(d *organization.Department) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Code = d.Code
	m.Name = d.Name
}

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	AggregateModel
	Name         string     `gorm:"type:varchar(100);not null"`
	Description  string     `gorm:"type:varchar(500)"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() *organization.Project {
	return &organization.Project{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		DepartmentID:      m.DepartmentID,
	}
}

// FromDomain populates the persistence model from a domain Project
func (m *ProjectModel) FromDomain(p *organization.Project) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.DepartmentID = p.DepartmentID
}

// EventModel is the persistence model for the Event aggregate root.
type EventModel struct {
	AggregateModel
	Name         string     `gorm:"type:varchar(100);not null"`
	StartDate    time.Time  `gorm:"not null"`
	EndDate      time.Time  `gorm:"not null"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model to a domain Event
func (m *EventModel) ToDomain() *organization.Event {
	return &organization.Event{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		DepartmentID:      m.DepartmentID,
	}
}

// FromDomain populates the persistence model from a domain Event
func (m *EventModel) FromDomain(e *organization.Event) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Name = e.Name
	m.StartDate = e.StartDate
	m.EndDate = e.EndDate
	m.DepartmentID = e.DepartmentID
}

// CategoryModel is the persistence model for the spending Category aggregate root.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *organization.Category {
	return &organization.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *organization.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
}
