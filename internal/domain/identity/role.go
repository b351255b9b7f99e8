package identity

import "github.com/google/uuid"

// Role represents the authorization role of a user.
// Authorization is fail-closed: an empty or unknown role grants nothing.
type Role string

const (
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAccountant, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanApprove returns true if the role may approve or reject pending requests
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanPay returns true if the role may mark approved requests as paid
func (r Role) CanPay() bool {
	return r == RoleAccountant || r == RoleAdmin
}

// CanManageOrganization returns true if the role may mutate departments,
// projects and events
func (r Role) CanManageOrganization() bool {
	return r == RoleAdmin
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// NewActor creates an actor from a resolved user identity
func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

// IsResolved returns true when the actor carries a usable identity and role
func (a Actor) IsResolved() bool {
	return a.ID != uuid.Nil && a.Role.IsValid()
}
