package models

import "gorm.io/gorm"

// Role is the closed set of identities the policy layer understands. Any
// authenticated account that is not one of the explicit roles acts as a
// plain requester.
type Role string

const (
	RoleAdmin              Role = "admin"
	RoleProcurementOfficer Role = "procurement_officer"
	RoleVendor             Role = "vendor"
	RoleRequester          Role = "requester"
)

// CanManageProcurement reports whether the role may drive approvals, purchase
// orders and receipts.
func (r Role) CanManageProcurement() bool {
	return r == RoleAdmin || r == RoleProcurementOfficer
}

type User struct {
	gorm.Model
	Username    string `json:"username" gorm:"unique"`
	Password    string `json:"-"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"unique"`
	Role        Role   `json:"role" gorm:"type:varchar(20);default:'requester'"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
}
