package models

import "gorm.io/gorm"

// Vendor is onboarding data for a supplier company. UserID links the vendor
// profile to the account that acts on its behalf; the ownership checks on
// purchase orders and shipments resolve through it.
type Vendor struct {
	gorm.Model
	CompanyName  string `json:"company_name" gorm:"unique"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	TaxID        string `json:"tax_id"`
	UserID       *uint  `json:"user_id" gorm:"index"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
