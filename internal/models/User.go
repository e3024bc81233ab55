package models

import "gorm.io/gorm"

const (
	RoleCustomer = "CUSTOMER"
	RoleDriver   = "DRIVER"
)

// User is an account that can act as a customer or a driver. CreatedAt doubles
// as the registration timestamp the driver assignment policy orders by.
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"index"` // RoleCustomer or RoleDriver
}
