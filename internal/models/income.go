package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire and storage format for date-only fields.
const DateFormat = "2006-01-02"

// Income credits the titular's balance at creation time and is never
// mutated afterwards.
type Income struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TitularID      uint            `json:"titular_id"`
	ReferenceDate  string          `json:"reference_date"` // 2006-01-02
	Amount         decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	PayerCompanyID uint            `json:"payer_company_id"`
	RegisteredByID uint            `json:"registered_by_id"`
	RecordedAt     time.Time       `json:"recorded_at"`
}
