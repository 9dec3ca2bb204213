// Package ledger implements the installment and balance arithmetic:
// splitting totals into even shares, generating installment schedules and
// deriving due/overdue status from due dates.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitEven divides total into n shares of two decimal places. The first
// n-1 shares are the truncated even share; the last share absorbs the
// rounding remainder so the shares always sum exactly to total.
func SplitEven(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, fmt.Errorf("share count must be at least 1, got %d", n)
	}

	base := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	shares := make([]decimal.Decimal, n)
	running := decimal.Zero
	for i := 0; i < n-1; i++ {
		shares[i] = base
		running = running.Add(base)
	}
	shares[n-1] = total.Sub(running)
	return shares, nil
}
