package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"family-ledger-go/internal/ledger"
	"family-ledger-go/internal/models"
)

// Summary is the dashboard aggregate. Every field is derived from the live
// stores on each call, never cached or persisted.
type Summary struct {
	FamilyBalance       decimal.Decimal `json:"family_balance"`
	MonthIncome         decimal.Decimal `json:"month_income"`
	MonthExpenses       decimal.Decimal `json:"month_expenses"`
	PendingInstallments int             `json:"pending_installments"`
}

// Transaction is one row of the chronological feed: an income or a
// top-level expense (installment children are folded into their parent).
type Transaction struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"` // income, expense
	Date        string          `json:"date"`
	RecordedAt  time.Time       `json:"recorded_at"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	UserName    string          `json:"user_name"`
	CompanyName string          `json:"company_name"`
}

// DetailedExpense joins an expense with its items, company and titulars.
type DetailedExpense struct {
	models.Expense
	Items    []models.ExpenseItem `json:"items"`
	Company  *models.Company      `json:"company,omitempty"`
	Titulars []models.User        `json:"titulars"`
}

// Summarize computes the family balance, the current calendar month's
// income and settled expense totals, and the count of unsettled
// installments.
func (l *Ledger) Summarize(ctx context.Context) (*Summary, error) {
	users, err := l.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	incomes, err := l.store.ListIncomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	now := l.now()
	summary := &Summary{
		FamilyBalance: decimal.Zero,
		MonthIncome:   decimal.Zero,
		MonthExpenses: decimal.Zero,
	}
	for _, user := range users {
		summary.FamilyBalance = summary.FamilyBalance.Add(user.Balance)
	}
	for _, income := range incomes {
		if sameMonth(income.ReferenceDate, now) {
			summary.MonthIncome = summary.MonthIncome.Add(income.Amount)
		}
	}
	for _, expense := range expenses {
		if expense.Status == models.StatusPaid && sameMonth(expense.Date, now) {
			if expense.IsChild() {
				summary.MonthExpenses = summary.MonthExpenses.Add(expense.InstallmentAmount)
			} else {
				summary.MonthExpenses = summary.MonthExpenses.Add(expense.Total)
			}
		}
		if expense.IsChild() && deriveChildStatus(expense, now) != models.StatusPaid {
			summary.PendingInstallments++
		}
	}
	return summary, nil
}

// RecentTransactions merges incomes and top-level expenses into a feed
// sorted by registration time descending, truncated to limit (default 10).
func (l *Ledger) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	incomes, err := l.store.ListIncomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	users, err := l.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	companies, err := l.store.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	userNames := make(map[uint]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}
	companyNames := make(map[uint]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}

	feed := make([]Transaction, 0, len(incomes)+len(expenses))
	for _, income := range incomes {
		feed = append(feed, Transaction{
			ID:          fmt.Sprintf("income-%d", income.ID),
			Kind:        "income",
			Date:        income.ReferenceDate,
			RecordedAt:  income.RecordedAt,
			Amount:      income.Amount,
			Description: "Income",
			UserName:    userNames[income.TitularID],
			CompanyName: companyNames[income.PayerCompanyID],
		})
	}
	for _, expense := range expenses {
		if expense.IsChild() {
			continue
		}
		description := expense.Note
		if description == "" {
			description = "Expense"
		}
		var userName string
		if len(expense.TitularIDs) > 0 {
			userName = userNames[uint(expense.TitularIDs[0])]
		}
		feed = append(feed, Transaction{
			ID:          fmt.Sprintf("expense-%d", expense.ID),
			Kind:        "expense",
			Date:        expense.Date,
			RecordedAt:  expense.RecordedAt,
			Amount:      expense.Total,
			Description: description,
			UserName:    userName,
			CompanyName: companyNames[expense.CompanyID],
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].RecordedAt.After(feed[j].RecordedAt) })
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// ListInstallments returns installment parents and all children with
// child statuses re-derived from due dates at read time.
func (l *Ledger) ListInstallments(ctx context.Context) ([]models.Expense, error) {
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	now := l.now()
	installments := make([]models.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense.IsChild() {
			expense.Status = deriveChildStatus(expense, now)
			installments = append(installments, expense)
			continue
		}
		if expense.PaymentType == models.PaymentInstallments {
			installments = append(installments, expense)
		}
	}
	return installments, nil
}

// ExpensesDetailed joins every expense with its items, company and
// titular users.
func (l *Ledger) ExpensesDetailed(ctx context.Context) ([]DetailedExpense, error) {
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	users, err := l.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	companies, err := l.store.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	byCompany := make(map[uint]models.Company, len(companies))
	for _, c := range companies {
		byCompany[c.ID] = c
	}

	detailed := make([]DetailedExpense, 0, len(expenses))
	for _, expense := range expenses {
		items, err := l.store.ListExpenseItems(ctx, expense.ID)
		if err != nil {
			return nil, fmt.Errorf("list items for expense %d: %w", expense.ID, err)
		}

		d := DetailedExpense{Expense: expense, Items: items, Titulars: []models.User{}}
		if company, ok := byCompany[expense.CompanyID]; ok {
			c := company
			d.Company = &c
		}
		for _, u := range users {
			if expense.TitularIDs.Contains(int64(u.ID)) {
				d.Titulars = append(d.Titulars, u)
			}
		}
		detailed = append(detailed, d)
	}
	return detailed, nil
}

func deriveChildStatus(expense models.Expense, now time.Time) string {
	due, err := time.Parse(models.DateFormat, expense.DueDate)
	if err != nil {
		return expense.Status
	}
	return ledger.DeriveStatus(expense.Status, due, now)
}

func sameMonth(date string, now time.Time) bool {
	t, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return false
	}
	return t.Year() == now.Year() && t.Month() == now.Month()
}
