package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Household roles.
const (
	RoleFather   = "father"
	RoleMother   = "mother"
	RoleSon      = "son"
	RoleDaughter = "daughter"
)

type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `json:"name"`
	Username     string          `gorm:"uniqueIndex" json:"username"`
	PasswordHash string          `json:"-"` // Bcrypt hash, hidden from JSON
	Role         string          `json:"role"` // father, mother, son, daughter
	Balance      decimal.Decimal `gorm:"type:numeric(10,2)" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleFather, RoleMother, RoleSon, RoleDaughter:
		return true
	}
	return false
}
