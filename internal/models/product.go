package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Barcode        string          `gorm:"uniqueIndex" json:"barcode,omitempty"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"` // kg, L, ml, unit...
	Classification string          `json:"classification"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
