package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"family-ledger-go/internal/models"
)

// Installment is one scheduled payment produced by Schedule.
type Installment struct {
	No     int // 1-based
	Count  int
	Due    time.Time
	Amount decimal.Decimal
	Status string // due or overdue at creation time
}

// Schedule splits total into count monthly installments starting at
// firstDue. Amounts come from SplitEven, so the last installment absorbs
// the rounding remainder. An installment whose due date is strictly before
// today starts overdue; due today or later starts due.
func Schedule(total decimal.Decimal, count int, firstDue, today time.Time) ([]Installment, error) {
	if count < 1 {
		return nil, fmt.Errorf("installment count must be at least 1, got %d", count)
	}

	amounts, err := SplitEven(total, count)
	if err != nil {
		return nil, err
	}

	cutoff := truncateToDay(today)
	installments := make([]Installment, count)
	for i := 0; i < count; i++ {
		due := AddMonths(firstDue, i)
		status := models.StatusDue
		if due.Before(cutoff) {
			status = models.StatusOverdue
		}
		installments[i] = Installment{
			No:     i + 1,
			Count:  count,
			Due:    due,
			Amount: amounts[i],
			Status: status,
		}
	}
	return installments, nil
}

// AddMonths advances t by n calendar months, preserving the day of month
// and clamping it to the target month's length (Jan 31 + 1 month is
// Feb 28/29, not Mar 3 as time.AddDate would normalize).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// DeriveStatus recomputes an installment's read-time status. Paid is
// terminal; anything unpaid with a due date strictly before today reads as
// overdue, otherwise due.
func DeriveStatus(status string, due, today time.Time) string {
	if status == models.StatusPaid {
		return status
	}
	if due.Before(truncateToDay(today)) {
		return models.StatusOverdue
	}
	return models.StatusDue
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
