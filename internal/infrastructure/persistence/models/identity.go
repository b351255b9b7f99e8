package models

import (
	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email        string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string          `gorm:"type:varchar(100);not null"`
	PasswordHash string          `gorm:"type:varchar(100);not null"`
	Role         identity.Role   `gorm:"type:varchar(20);not null;default:'user'"`
	DepartmentID *uuid.UUID      `gorm:"type:uuid;index"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		DepartmentID:      m.DepartmentID,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.DepartmentID = u.DepartmentID
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from domain
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
