package models

import (
	"time"
)

// Company types: a payer pays the household (income source), a receiver is
// paid by the household (expense destination).
const (
	CompanyPayer    = "payer"
	CompanyReceiver = "receiver"
)

type Company struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // payer, receiver

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidCompanyType(t string) bool {
	return t == CompanyPayer || t == CompanyReceiver
}
