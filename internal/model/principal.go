package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin          UserRole = "ADMIN"
	UserRoleServiceManager UserRole = "SERVICE_MANAGER"
	UserRoleTechnician     UserRole = "TECHNICIAN"
	UserRoleCustomer       UserRole = "CUSTOMER"
)

type Principal struct {
	UserID     uuid.UUID
	Role       UserRole
	CustomerID *uuid.UUID
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsManager() bool {
	return p.Role == UserRoleServiceManager
}

func (p Principal) IsTechnician() bool {
	return p.Role == UserRoleTechnician
}

func (p Principal) IsCustomer() bool {
	return p.Role == UserRoleCustomer
}

// IsStaff covers every shop-side role.
func (p Principal) IsStaff() bool {
	return p.IsAdmin() || p.IsManager() || p.IsTechnician()
}
