// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"family-ledger-go/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create/update collides with a unique
	// field (username, barcode).
	ErrConflict = errors.New("record conflicts with an existing one")
)

// Store defines the persistence operations of the ledger. The memory
// implementation backs tests and zero-infrastructure deployments; the
// gormstore implementation backs Postgres. Swapping backends never touches
// the service layer.
type Store interface {
	// Users
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]models.User, error)

	// Companies
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id uint) error
	ListCompanies(ctx context.Context) ([]models.Company, error)

	// Products
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context) ([]models.Product, error)

	// Incomes
	GetIncome(ctx context.Context, id uint) (*models.Income, error)
	CreateIncome(ctx context.Context, income *models.Income) error
	ListIncomes(ctx context.Context) ([]models.Income, error)

	// Expenses. CreateExpense persists the parent, its installment children
	// and its line items as one unit: either everything is stored or
	// nothing is.
	GetExpense(ctx context.Context, id uint) (*models.Expense, error)
	CreateExpense(ctx context.Context, parent *models.Expense, children []models.Expense, items []models.ExpenseItem) error
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ListExpenseItems(ctx context.Context, expenseID uint) ([]models.ExpenseItem, error)

	// Close releases any resources held by the store.
	Close() error
}
