package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payment modes.
const (
	PaymentCash         = "cash"
	PaymentInstallments = "installments"
)

// Installment statuses. A status is a small state machine:
// pending/due -> overdue -> paid, with paid terminal. Overdue is derived
// from the due date at read time, never persisted back.
const (
	StatusPending = "pending"
	StatusDue     = "due"
	StatusOverdue = "overdue"
	StatusPaid    = "paid"
)

// Expense is one row per logical record: an at-once purchase, the parent
// aggregate of an installment purchase, or one installment child carrying
// a non-nil ParentID.
type Expense struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TitularIDs     Int64Array      `gorm:"type:jsonb" json:"titular_ids"`
	CompanyID      uint            `json:"company_id"`
	Date           string          `json:"date"` // purchase date, 2006-01-02
	PaymentType    string          `json:"payment_type"` // cash, installments
	Total          decimal.Decimal `gorm:"type:numeric(10,2)" json:"total"`
	Note           string          `json:"note,omitempty"`
	RegisteredByID uint            `json:"registered_by_id"`
	RecordedAt     time.Time       `json:"recorded_at"`

	// Installment fields. InstallmentCount is set on the parent and on every
	// child; the rest only on children.
	ParentID          *uint           `json:"parent_id"`
	InstallmentNo     int             `json:"installment_no,omitempty"`
	InstallmentCount  int             `json:"installment_count,omitempty"`
	DueDate           string          `json:"due_date,omitempty"` // 2006-01-02
	InstallmentAmount decimal.Decimal `gorm:"type:numeric(10,2)" json:"installment_amount"`
	Status            string          `gorm:"default:pending" json:"status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
}

// IsChild reports whether the record is a payable installment child.
func (e *Expense) IsChild() bool {
	return e.ParentID != nil
}

// ExpenseItem is a recorded line item. Total is quantity x unit price at
// the moment of recording; later product price edits do not rewrite it.
type ExpenseItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ExpenseID uint            `json:"expense_id"`
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:numeric(10,3)" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2)" json:"total"`
}

// Int64Array stores a slice of ids as a JSON array column. Domain code
// always sees the native slice.
type Int64Array []int64

func (a Int64Array) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *Int64Array) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Int64Array: %T", value)
	}
	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, a)
}

// Contains reports whether id is one of the titulars.
func (a Int64Array) Contains(id int64) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}
