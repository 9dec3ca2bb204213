package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"family-ledger-go/internal/ledger"
	"family-ledger-go/internal/models"
)

// NewSeeded creates a store preloaded with demo rows: a three-person
// household, a handful of companies and products, two recent incomes and
// one installment purchase with its first installment already settled.
func NewSeeded() (*Store, error) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := []models.User{
		{Name: "Joao Silva", Username: "admin", Role: models.RoleFather, Balance: decimal.RequireFromString("8500.00")},
		{Name: "Maria Silva", Username: "maria", Role: models.RoleMother, Balance: decimal.RequireFromString("4720.50")},
		{Name: "Pedro Silva", Username: "pedro", Role: models.RoleSon, Balance: decimal.RequireFromString("2200.00")},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		users[i].CreatedAt = now
		users[i].UpdatedAt = now
		if err := s.CreateUser(ctx, &users[i]); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", users[i].Username, err)
		}
	}

	companies := []models.Company{
		{Name: "ABC Ltd", Type: models.CompanyPayer},
		{Name: "Extra Supermarket", Type: models.CompanyReceiver},
		{Name: "Magazine Store", Type: models.CompanyReceiver},
		{Name: "XYZ Freelance", Type: models.CompanyPayer},
		{Name: "Tech Consulting", Type: models.CompanyPayer},
		{Name: "Shell Station", Type: models.CompanyReceiver},
	}
	for i := range companies {
		companies[i].CreatedAt = now
		companies[i].UpdatedAt = now
		if err := s.CreateCompany(ctx, &companies[i]); err != nil {
			return nil, fmt.Errorf("seed company %s: %w", companies[i].Name, err)
		}
	}

	products := []models.Product{
		{Barcode: "7896030100123", Name: "White Rice 5kg", Unit: "kg", Classification: "Food", UnitPrice: decimal.RequireFromString("12.50")},
		{Barcode: "7896030100456", Name: "Black Beans 1kg", Unit: "kg", Classification: "Food", UnitPrice: decimal.RequireFromString("8.90")},
		{Barcode: "7896030100789", Name: "Soybean Oil 900ml", Unit: "ml", Classification: "Food", UnitPrice: decimal.RequireFromString("4.50")},
		{Barcode: "7896030100321", Name: "Whole Milk 1L", Unit: "L", Classification: "Food", UnitPrice: decimal.RequireFromString("5.80")},
		{Barcode: "7896030100654", Name: "Crystal Sugar 1kg", Unit: "kg", Classification: "Food", UnitPrice: decimal.RequireFromString("3.20")},
	}
	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
		if err := s.CreateProduct(ctx, &products[i]); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
	}

	incomes := []models.Income{
		{TitularID: 1, ReferenceDate: now.Format(models.DateFormat), Amount: decimal.RequireFromString("5000.00"), PayerCompanyID: 1, RegisteredByID: 1, RecordedAt: now},
		{TitularID: 2, ReferenceDate: now.AddDate(0, 0, -1).Format(models.DateFormat), Amount: decimal.RequireFromString("1200.00"), PayerCompanyID: 4, RegisteredByID: 2, RecordedAt: now.AddDate(0, 0, -1)},
	}
	for i := range incomes {
		if err := s.CreateIncome(ctx, &incomes[i]); err != nil {
			return nil, fmt.Errorf("seed income: %w", err)
		}
	}

	if err := seedInstallmentPurchase(ctx, s, now); err != nil {
		return nil, err
	}
	return s, nil
}

// seedInstallmentPurchase records a refrigerator bought a month ago in 12
// installments, the first of which is already paid. The preset user
// balances above already reflect that first settlement.
func seedInstallmentPurchase(ctx context.Context, s *Store, now time.Time) error {
	purchased := now.AddDate(0, 0, -30)
	total := decimal.RequireFromString("3000.00")
	count := 12

	parent := models.Expense{
		TitularIDs:       models.Int64Array{1},
		CompanyID:        3,
		Date:             purchased.Format(models.DateFormat),
		PaymentType:      models.PaymentInstallments,
		Total:            total,
		Note:             "New refrigerator",
		RegisteredByID:   1,
		RecordedAt:       purchased,
		InstallmentCount: count,
		Status:           models.StatusPending,
	}

	schedule, err := ledger.Schedule(total, count, ledger.AddMonths(purchased, 1), now)
	if err != nil {
		return fmt.Errorf("seed installment schedule: %w", err)
	}

	children := make([]models.Expense, count)
	for i, inst := range schedule {
		children[i] = models.Expense{
			TitularIDs:        parent.TitularIDs,
			CompanyID:         parent.CompanyID,
			Date:              parent.Date,
			PaymentType:       models.PaymentInstallments,
			Total:             total,
			Note:              fmt.Sprintf("%s - installment %d/%d", parent.Note, inst.No, count),
			RegisteredByID:    parent.RegisteredByID,
			RecordedAt:        parent.RecordedAt,
			InstallmentNo:     inst.No,
			InstallmentCount:  count,
			DueDate:           inst.Due.Format(models.DateFormat),
			InstallmentAmount: inst.Amount,
			Status:            inst.Status,
		}
	}
	paidAt := now.AddDate(0, 0, -2)
	children[0].Status = models.StatusPaid
	children[0].PaidAt = &paidAt

	if err := s.CreateExpense(ctx, &parent, children, nil); err != nil {
		return fmt.Errorf("seed installment purchase: %w", err)
	}
	return nil
}
