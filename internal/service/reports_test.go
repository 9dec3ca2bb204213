package service

import (
	"context"
	"testing"
	"time"

	"family-ledger-go/internal/models"
)

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	// This month's income plus one from last month that must be excluded.
	if _, err := l.RecordIncome(ctx, IncomeInput{TitularID: 1, ReferenceDate: "2024-06-01", Amount: dec("3000.00"), PayerCompanyID: 1}); err != nil {
		t.Fatalf("RecordIncome() error = %v", err)
	}
	if _, err := l.RecordIncome(ctx, IncomeInput{TitularID: 2, ReferenceDate: "2024-05-01", Amount: dec("999.00"), PayerCompanyID: 1}); err != nil {
		t.Fatalf("RecordIncome() error = %v", err)
	}

	// A settled cash expense this month.
	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:  []int64{1},
		CompanyID:   1,
		Date:        "2024-06-10",
		PaymentType: models.PaymentCash,
		Items:       []ExpenseItemInput{{ProductID: 1, Quantity: dec("2"), UnitPrice: dec("25.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	// An installment purchase: the pending parent and unpaid children must
	// not count toward the month's expenses.
	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:       []int64{1, 2},
		CompanyID:        1,
		Date:             "2024-06-12",
		PaymentType:      models.PaymentInstallments,
		InstallmentCount: 3,
		FirstDueDate:     "2024-07-01",
		Items:            []ExpenseItemInput{{ProductID: 2, Quantity: dec("1"), UnitPrice: dec("900.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	summary, err := l.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// Start 2000.00, +3000 +999 income, -50 cash expense.
	if !summary.FamilyBalance.Equal(dec("5949.00")) {
		t.Errorf("family balance = %s, want 5949.00", summary.FamilyBalance)
	}
	if !summary.MonthIncome.Equal(dec("3000.00")) {
		t.Errorf("month income = %s, want 3000.00", summary.MonthIncome)
	}
	if !summary.MonthExpenses.Equal(dec("50.00")) {
		t.Errorf("month expenses = %s, want 50.00", summary.MonthExpenses)
	}
	if summary.PendingInstallments != 3 {
		t.Errorf("pending installments = %d, want 3", summary.PendingInstallments)
	}
}

func TestSummarizeCountsSettledInstallment(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:       []int64{1},
		CompanyID:        1,
		Date:             "2024-06-12",
		PaymentType:      models.PaymentInstallments,
		InstallmentCount: 2,
		FirstDueDate:     "2024-06-20",
		Items:            []ExpenseItemInput{{ProductID: 2, Quantity: dec("1"), UnitPrice: dec("200.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	expenses, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	var firstChild uint
	for _, e := range expenses {
		if e.IsChild() && e.InstallmentNo == 1 {
			firstChild = e.ID
		}
	}
	if err := l.SettleInstallment(ctx, firstChild, "2024-06-20"); err != nil {
		t.Fatalf("SettleInstallment() error = %v", err)
	}

	summary, err := l.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	// Children carry the purchase date, so the settled installment's
	// 100.00 lands in June.
	if !summary.MonthExpenses.Equal(dec("100.00")) {
		t.Errorf("month expenses = %s, want 100.00", summary.MonthExpenses)
	}
	if summary.PendingInstallments != 1 {
		t.Errorf("pending installments = %d, want 1", summary.PendingInstallments)
	}
}

func TestRecentTransactions(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	// Advance the clock per record so ordering is deterministic.
	tick := testNow
	l.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	if _, err := l.RecordIncome(ctx, IncomeInput{TitularID: 1, ReferenceDate: "2024-06-01", Amount: dec("3000.00"), PayerCompanyID: 1}); err != nil {
		t.Fatalf("RecordIncome() error = %v", err)
	}
	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:  []int64{1},
		CompanyID:   1,
		Date:        "2024-06-10",
		PaymentType: models.PaymentCash,
		Note:        "Groceries",
		Items:       []ExpenseItemInput{{ProductID: 1, Quantity: dec("1"), UnitPrice: dec("25.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}
	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:       []int64{1, 2},
		CompanyID:        1,
		Date:             "2024-06-12",
		PaymentType:      models.PaymentInstallments,
		Note:             "Washing machine",
		InstallmentCount: 4,
		FirstDueDate:     "2024-07-01",
		Items:            []ExpenseItemInput{{ProductID: 2, Quantity: dec("1"), UnitPrice: dec("800.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	t.Run("newest first, children folded into their parent", func(t *testing.T) {
		feed, err := l.RecentTransactions(ctx, 0)
		if err != nil {
			t.Fatalf("RecentTransactions() error = %v", err)
		}
		if len(feed) != 3 {
			t.Fatalf("got %d transactions, want 3 (children excluded)", len(feed))
		}
		if feed[0].Description != "Washing machine" || feed[0].Kind != "expense" {
			t.Errorf("feed[0] = %q/%q, want Washing machine/expense", feed[0].Description, feed[0].Kind)
		}
		if feed[1].Description != "Groceries" {
			t.Errorf("feed[1] = %q, want Groceries", feed[1].Description)
		}
		if feed[2].Kind != "income" || !feed[2].Amount.Equal(dec("3000.00")) {
			t.Errorf("feed[2] = %q %s, want income 3000.00", feed[2].Kind, feed[2].Amount)
		}
		if feed[2].UserName != "Ana" || feed[2].CompanyName != "Mercado Central" {
			t.Errorf("feed[2] names = %q/%q, want Ana/Mercado Central", feed[2].UserName, feed[2].CompanyName)
		}
	})

	t.Run("honors the limit", func(t *testing.T) {
		feed, err := l.RecentTransactions(ctx, 2)
		if err != nil {
			t.Fatalf("RecentTransactions() error = %v", err)
		}
		if len(feed) != 2 {
			t.Fatalf("got %d transactions, want 2", len(feed))
		}
		if feed[0].Description != "Washing machine" {
			t.Errorf("feed[0] = %q, want the newest entry", feed[0].Description)
		}
	})
}

func TestListInstallments(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:  []int64{1},
		CompanyID:   1,
		Date:        "2024-06-10",
		PaymentType: models.PaymentCash,
		Items:       []ExpenseItemInput{{ProductID: 1, Quantity: dec("1"), UnitPrice: dec("25.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}
	// First due date in the past, so the first child reads overdue.
	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:       []int64{1},
		CompanyID:        1,
		Date:             "2024-04-10",
		PaymentType:      models.PaymentInstallments,
		InstallmentCount: 3,
		FirstDueDate:     "2024-05-10",
		Items:            []ExpenseItemInput{{ProductID: 2, Quantity: dec("1"), UnitPrice: dec("300.00")}},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	installments, err := l.ListInstallments(ctx)
	if err != nil {
		t.Fatalf("ListInstallments() error = %v", err)
	}
	// The parent plus three children; the cash expense is excluded.
	if len(installments) != 4 {
		t.Fatalf("got %d installment rows, want 4", len(installments))
	}

	wantStatus := map[int]string{
		1: models.StatusOverdue, // due 2024-05-10
		2: models.StatusOverdue, // due 2024-06-10
		3: models.StatusDue,     // due 2024-07-10
	}
	for _, row := range installments {
		if !row.IsChild() {
			continue
		}
		if want := wantStatus[row.InstallmentNo]; row.Status != want {
			t.Errorf("installment %d status = %q, want %q", row.InstallmentNo, row.Status, want)
		}
	}
}

func TestExpensesDetailed(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	if _, err := l.RecordExpense(ctx, ExpenseInput{
		TitularIDs:  []int64{1, 2},
		CompanyID:   1,
		Date:        "2024-06-10",
		PaymentType: models.PaymentCash,
		Items: []ExpenseItemInput{
			{ProductID: 1, Quantity: dec("2"), UnitPrice: dec("25.00")},
			{ProductID: 2, Quantity: dec("1"), UnitPrice: dec("40.00")},
		},
	}); err != nil {
		t.Fatalf("RecordExpense() error = %v", err)
	}

	detailed, err := l.ExpensesDetailed(ctx)
	if err != nil {
		t.Fatalf("ExpensesDetailed() error = %v", err)
	}
	if len(detailed) != 1 {
		t.Fatalf("got %d expenses, want 1", len(detailed))
	}

	d := detailed[0]
	if len(d.Items) != 2 {
		t.Errorf("got %d items, want 2", len(d.Items))
	}
	if d.Company == nil || d.Company.Name != "Mercado Central" {
		t.Errorf("company = %v, want Mercado Central", d.Company)
	}
	if len(d.Titulars) != 2 {
		t.Errorf("got %d titulars, want 2", len(d.Titulars))
	}
}
