// Package gormstore implements storage.Store on Postgres through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"family-ledger-go/internal/models"
	"family-ledger-go/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Product{},
		&models.Income{},
		&models.Expense{},
		&models.ExpenseItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	slog.Info("connected to postgres")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// Users

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrConflict
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", user.Username, user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrConflict
	}
	result := s.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Companies

func (s *Store) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (s *Store) CreateCompany(ctx context.Context, company *models.Company) error {
	return s.db.WithContext(ctx).Create(company).Error
}

func (s *Store) UpdateCompany(ctx context.Context, company *models.Company) error {
	result := s.db.WithContext(ctx).Save(company)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCompany(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Company{}, id).Error
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.WithContext(ctx).Order("id").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Products

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Barcode != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("barcode = ?", product.Barcode).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrConflict
		}
	}
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Barcode != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("barcode = ? AND id <> ?", product.Barcode, product.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrConflict
		}
	}
	result := s.db.WithContext(ctx).Save(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Incomes

func (s *Store) GetIncome(ctx context.Context, id uint) (*models.Income, error) {
	var income models.Income
	if err := s.db.WithContext(ctx).First(&income, id).Error; err != nil {
		return nil, translate(err)
	}
	return &income, nil
}

func (s *Store) CreateIncome(ctx context.Context, income *models.Income) error {
	return s.db.WithContext(ctx).Create(income).Error
}

func (s *Store) ListIncomes(ctx context.Context) ([]models.Income, error) {
	var incomes []models.Income
	if err := s.db.WithContext(ctx).Order("id").Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}

// Expenses

func (s *Store) GetExpense(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

// CreateExpense runs the parent, children and items inserts in one
// transaction.
func (s *Store) CreateExpense(ctx context.Context, parent *models.Expense, children []models.Expense, items []models.ExpenseItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(parent).Error; err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		for i := range children {
			parentID := parent.ID
			children[i].ParentID = &parentID
			if err := tx.Create(&children[i]).Error; err != nil {
				return fmt.Errorf("insert installment %d: %w", children[i].InstallmentNo, err)
			}
		}
		for i := range items {
			items[i].ExpenseID = parent.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("insert line item: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	result := s.db.WithContext(ctx).Save(expense)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.WithContext(ctx).Order("id").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) ListExpenseItems(ctx context.Context, expenseID uint) ([]models.ExpenseItem, error) {
	var items []models.ExpenseItem
	if err := s.db.WithContext(ctx).Where("expense_id = ?", expenseID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
