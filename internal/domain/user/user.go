package user

import "time"

const (
	RoleCustomer  = "customer"
	RoleDealer    = "dealer"
	RoleSupplier  = "supplier"
	RoleBusiness  = "business"
	RoleWarehouse = "warehouse"
	RoleAdmin     = "admin"
)

func ValidRole(r string) bool {
	switch r {
	case RoleCustomer, RoleDealer, RoleSupplier, RoleBusiness, RoleWarehouse, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
