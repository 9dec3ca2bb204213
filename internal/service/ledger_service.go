// Package service implements the ledger operations: recording incomes and
// expenses, generating installment schedules and settling installments
// against user balances.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"family-ledger-go/internal/ledger"
	"family-ledger-go/internal/models"
	"family-ledger-go/internal/storage"
)

// ErrValidation wraps all input rejections so the HTTP layer can map them
// to a 4xx without inspecting messages.
var ErrValidation = errors.New("invalid input")

// Ledger orchestrates balance-affecting operations over a storage.Store.
// A single mutex serializes them: every one is a read-modify-write over
// user balances plus a multi-record insert, and gin serves requests
// concurrently.
type Ledger struct {
	store storage.Store

	mu  sync.Mutex
	now func() time.Time
}

func NewLedger(store storage.Store) *Ledger {
	return &Ledger{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// IncomeInput is the payload for RecordIncome.
type IncomeInput struct {
	TitularID      uint            `json:"titular_id"`
	ReferenceDate  string          `json:"reference_date"`
	Amount         decimal.Decimal `json:"amount"`
	PayerCompanyID uint            `json:"payer_company_id"`
	RegisteredByID uint            `json:"registered_by_id"`
}

// ExpenseItemInput is one line of an expense payload.
type ExpenseItemInput struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ExpenseInput is the payload for RecordExpense. InstallmentCount and
// FirstDueDate are only read in installment mode.
type ExpenseInput struct {
	TitularIDs       []int64            `json:"titular_ids"`
	CompanyID        uint               `json:"company_id"`
	Date             string             `json:"date"`
	PaymentType      string             `json:"payment_type"`
	Note             string             `json:"note"`
	RegisteredByID   uint               `json:"registered_by_id"`
	InstallmentCount int                `json:"installment_count"`
	FirstDueDate     string             `json:"first_due_date"`
	Items            []ExpenseItemInput `json:"items"`
}

// RecordIncome creates the income record and credits the titular's balance
// by the full amount.
func (l *Ledger) RecordIncome(ctx context.Context, in IncomeInput) (*models.Income, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if _, err := time.Parse(models.DateFormat, in.ReferenceDate); err != nil {
		return nil, fmt.Errorf("%w: reference_date must be YYYY-MM-DD", ErrValidation)
	}
	if _, err := l.store.GetCompany(ctx, in.PayerCompanyID); err != nil {
		return nil, fmt.Errorf("payer company %d: %w", in.PayerCompanyID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	titular, err := l.store.GetUser(ctx, in.TitularID)
	if err != nil {
		return nil, fmt.Errorf("titular %d: %w", in.TitularID, err)
	}

	income := &models.Income{
		TitularID:      in.TitularID,
		ReferenceDate:  in.ReferenceDate,
		Amount:         in.Amount.Round(2),
		PayerCompanyID: in.PayerCompanyID,
		RegisteredByID: in.RegisteredByID,
		RecordedAt:     l.now(),
	}
	if err := l.store.CreateIncome(ctx, income); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}

	titular.Balance = titular.Balance.Add(income.Amount)
	if err := l.store.UpdateUser(ctx, titular); err != nil {
		return nil, fmt.Errorf("credit titular %d: %w", titular.ID, err)
	}

	slog.InfoContext(ctx, "income recorded",
		"id", income.ID,
		"titular_id", income.TitularID,
		"amount", income.Amount.StringFixed(2))
	return income, nil
}

// RecordExpense creates an at-once expense or an installment purchase.
// The total is always recomputed from the line items; client-supplied
// totals are ignored. At-once expenses debit every titular immediately;
// installment purchases debit nothing until settlement.
func (l *Ledger) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := l.validateExpenseInput(ctx, in); err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]models.ExpenseItem, len(in.Items))
	for i, item := range in.Items {
		lineTotal := item.Quantity.Mul(item.UnitPrice).Round(2)
		items[i] = models.ExpenseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     lineTotal,
		}
		total = total.Add(lineTotal)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	parent := &models.Expense{
		TitularIDs:     models.Int64Array(in.TitularIDs),
		CompanyID:      in.CompanyID,
		Date:           in.Date,
		PaymentType:    in.PaymentType,
		Total:          total,
		Note:           in.Note,
		RegisteredByID: in.RegisteredByID,
		RecordedAt:     now,
	}

	switch in.PaymentType {
	case models.PaymentCash:
		parent.Status = models.StatusPaid
		if err := l.store.CreateExpense(ctx, parent, nil, items); err != nil {
			return nil, fmt.Errorf("create expense: %w", err)
		}
		if err := l.debitTitulars(ctx, in.TitularIDs, total); err != nil {
			return nil, err
		}

	case models.PaymentInstallments:
		firstDue, err := time.Parse(models.DateFormat, in.FirstDueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: first_due_date must be YYYY-MM-DD", ErrValidation)
		}
		schedule, err := ledger.Schedule(total, in.InstallmentCount, firstDue, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}

		parent.Status = models.StatusPending
		parent.InstallmentCount = in.InstallmentCount

		note := in.Note
		if note == "" {
			note = "Installment purchase"
		}
		children := make([]models.Expense, len(schedule))
		for i, inst := range schedule {
			children[i] = models.Expense{
				TitularIDs:        parent.TitularIDs,
				CompanyID:         parent.CompanyID,
				Date:              parent.Date,
				PaymentType:       models.PaymentInstallments,
				Total:             total,
				Note:              fmt.Sprintf("%s - installment %d/%d", note, inst.No, inst.Count),
				RegisteredByID:    parent.RegisteredByID,
				RecordedAt:        now,
				InstallmentNo:     inst.No,
				InstallmentCount:  inst.Count,
				DueDate:           inst.Due.Format(models.DateFormat),
				InstallmentAmount: inst.Amount,
				Status:            inst.Status,
			}
		}
		if err := l.store.CreateExpense(ctx, parent, children, items); err != nil {
			return nil, fmt.Errorf("create installment purchase: %w", err)
		}
	}

	slog.InfoContext(ctx, "expense recorded",
		"id", parent.ID,
		"payment_type", parent.PaymentType,
		"total", parent.Total.StringFixed(2),
		"titulars", len(parent.TitularIDs),
		"installments", parent.InstallmentCount)
	return parent, nil
}

// SettleInstallment marks an installment child paid and debits each
// titular by installment amount / titular count. Settling an already paid
// installment is a no-op: the debit fires only on the first transition
// into paid.
func (l *Ledger) SettleInstallment(ctx context.Context, id uint, paymentDate string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	expense, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("installment %d: %w", id, err)
	}
	if !expense.IsChild() {
		return fmt.Errorf("%w: expense %d is not an installment", ErrValidation, id)
	}
	if expense.Status == models.StatusPaid {
		return nil
	}

	paidAt := l.now()
	if paymentDate != "" {
		t, err := time.Parse(models.DateFormat, paymentDate)
		if err != nil {
			return fmt.Errorf("%w: payment date must be YYYY-MM-DD", ErrValidation)
		}
		paidAt = t
	}

	expense.Status = models.StatusPaid
	expense.PaidAt = &paidAt
	if err := l.store.UpdateExpense(ctx, expense); err != nil {
		return fmt.Errorf("settle installment %d: %w", id, err)
	}

	if err := l.debitTitulars(ctx, expense.TitularIDs, expense.InstallmentAmount); err != nil {
		return err
	}

	slog.InfoContext(ctx, "installment settled",
		"id", expense.ID,
		"installment", fmt.Sprintf("%d/%d", expense.InstallmentNo, expense.InstallmentCount),
		"amount", expense.InstallmentAmount.StringFixed(2))
	return nil
}

// debitTitulars splits amount evenly across the titulars and debits each
// share. Balances may go negative: the household runs a joint account, not
// a credit limit. Callers hold l.mu.
func (l *Ledger) debitTitulars(ctx context.Context, titularIDs []int64, amount decimal.Decimal) error {
	shares, err := ledger.SplitEven(amount, len(titularIDs))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for i, id := range titularIDs {
		user, err := l.store.GetUser(ctx, uint(id))
		if err != nil {
			return fmt.Errorf("titular %d: %w", id, err)
		}
		user.Balance = user.Balance.Sub(shares[i])
		if err := l.store.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("debit titular %d: %w", id, err)
		}
	}
	return nil
}

func (l *Ledger) validateExpenseInput(ctx context.Context, in ExpenseInput) error {
	if len(in.TitularIDs) == 0 {
		return fmt.Errorf("%w: at least one titular is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if in.PaymentType != models.PaymentCash && in.PaymentType != models.PaymentInstallments {
		return fmt.Errorf("%w: payment_type must be %q or %q", ErrValidation, models.PaymentCash, models.PaymentInstallments)
	}
	if _, err := time.Parse(models.DateFormat, in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	for i, item := range in.Items {
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i)
		}
		if !item.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: item %d unit price must be positive", ErrValidation, i)
		}
		if _, err := l.store.GetProduct(ctx, item.ProductID); err != nil {
			return fmt.Errorf("product %d: %w", item.ProductID, err)
		}
	}
	for _, id := range in.TitularIDs {
		if _, err := l.store.GetUser(ctx, uint(id)); err != nil {
			return fmt.Errorf("titular %d: %w", id, err)
		}
	}
	if _, err := l.store.GetCompany(ctx, in.CompanyID); err != nil {
		return fmt.Errorf("company %d: %w", in.CompanyID, err)
	}
	return nil
}
