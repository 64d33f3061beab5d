// models/user.go
package models

import (
	"gorm.io/gorm"

	"parkgov-crm/internal/authz"
)

// User is a portal account. Identity issuance (login, tokens) lives outside
// this service; users exist here so the auth middleware can resolve a token
// subject to a role and home park.
type User struct {
	gorm.Model
	Login    string     `json:"login" gorm:"unique;not null"`
	Name     string     `json:"name"`
	Role     authz.Role `json:"role" gorm:"not null"`
	ParkName string     `json:"parkName"`
}
