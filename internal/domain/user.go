package domain

import "time"

// Role enumerates every account role in the system. Citizens file
// complaints; the remaining roles are municipal staff.
type Role string

const (
	RoleCitizen           Role = "CITIZEN"
	RoleMunicipalAgent    Role = "MUNICIPAL_AGENT"
	RoleDepartmentManager Role = "DEPARTMENT_MANAGER"
	RoleTechnician        Role = "TECHNICIAN"
	RoleAdmin             Role = "ADMIN"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleMunicipalAgent, RoleDepartmentManager, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role belongs to municipal personnel.
func (r Role) Staff() bool {
	return r.Valid() && r != RoleCitizen
}

// User is the domain model for citizens and municipal staff alike.
// Governorate and Municipality are authorization scoping attributes;
// either may be empty, which for an agent means unrestricted.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Governorate  string
	Municipality string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
