package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles. The column is free text; admin is the only role with special meaning.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// Capability strings held in a user's permission set.
const (
	PermViewProducts   = "view_products"
	PermAddProducts    = "add_products"
	PermEditProducts   = "edit_products"
	PermDeleteProducts = "delete_products"
	PermExcelImport    = "excel_import"
	PermViewReports    = "view_reports"
	PermSalesCustomer  = "sales_customer"
)

// AllPermissions is the full capability set granted to the seeded admin.
var AllPermissions = []string{
	PermViewProducts,
	PermAddProducts,
	PermEditProducts,
	PermDeleteProducts,
	PermExcelImport,
	PermViewReports,
	PermSalesCustomer,
}

// User is an operator account. Permissions are a flat list of capability
// strings, copied into the session at login.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Permissions  []string  `json:"permissions" db:"permissions"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy    string    `json:"updated_by,omitempty" db:"updated_by"`
}

// HasPermission reports whether the capability is in the user's permission set.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Activity is one append-only audit record of a mutating action.
type Activity struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	Username  string    `json:"user" db:"username"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}
