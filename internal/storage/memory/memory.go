// Package memory implements storage.Store with in-process maps. It is the
// default backend (the ledger fits in memory and survives nothing, which
// is fine for a household demo) and the test double for the service layer.
package memory

import (
	"context"
	"sort"
	"sync"

	"family-ledger-go/internal/models"
	"family-ledger-go/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	users     map[uint]models.User
	companies map[uint]models.Company
	products  map[uint]models.Product
	incomes   map[uint]models.Income
	expenses  map[uint]models.Expense
	items     map[uint]models.ExpenseItem

	nextUserID    uint
	nextCompanyID uint
	nextProductID uint
	nextIncomeID  uint
	nextExpenseID uint
	nextItemID    uint
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[uint]models.User),
		companies:     make(map[uint]models.Company),
		products:      make(map[uint]models.Product),
		incomes:       make(map[uint]models.Income),
		expenses:      make(map[uint]models.Expense),
		items:         make(map[uint]models.ExpenseItem),
		nextUserID:    1,
		nextCompanyID: 1,
		nextProductID: 1,
		nextIncomeID:  1,
		nextExpenseID: 1,
		nextItemID:    1,
	}
}

func (s *Store) Close() error {
	return nil
}

// Users

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return storage.ErrConflict
		}
	}
	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.Username == user.Username && existing.ID != user.ID {
			return storage.ErrConflict
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Companies

func (s *Store) GetCompany(_ context.Context, id uint) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &company, nil
}

func (s *Store) CreateCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	company.ID = s.nextCompanyID
	s.nextCompanyID++
	s.companies[company.ID] = *company
	return nil
}

func (s *Store) UpdateCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[company.ID]; !ok {
		return storage.ErrNotFound
	}
	s.companies[company.ID] = *company
	return nil
}

func (s *Store) DeleteCompany(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.companies, id)
	return nil
}

func (s *Store) ListCompanies(_ context.Context) ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companies := make([]models.Company, 0, len(s.companies))
	for _, company := range s.companies {
		companies = append(companies, company)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].ID < companies[j].ID })
	return companies, nil
}

// Products

func (s *Store) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &product, nil
}

func (s *Store) GetProductByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, product := range s.products {
		if product.Barcode != "" && product.Barcode == barcode {
			p := product
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Barcode != "" {
		for _, existing := range s.products {
			if existing.Barcode == product.Barcode {
				return storage.ErrConflict
			}
		}
	}
	product.ID = s.nextProductID
	s.nextProductID++
	s.products[product.ID] = *product
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return storage.ErrNotFound
	}
	if product.Barcode != "" {
		for _, existing := range s.products {
			if existing.Barcode == product.Barcode && existing.ID != product.ID {
				return storage.ErrConflict
			}
		}
	}
	s.products[product.ID] = *product
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Incomes

func (s *Store) GetIncome(_ context.Context, id uint) (*models.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	income, ok := s.incomes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &income, nil
}

func (s *Store) CreateIncome(_ context.Context, income *models.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	income.ID = s.nextIncomeID
	s.nextIncomeID++
	s.incomes[income.ID] = *income
	return nil
}

func (s *Store) ListIncomes(_ context.Context) ([]models.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incomes := make([]models.Income, 0, len(s.incomes))
	for _, income := range s.incomes {
		incomes = append(incomes, income)
	}
	sort.Slice(incomes, func(i, j int) bool { return incomes[i].ID < incomes[j].ID })
	return incomes, nil
}

// Expenses

func (s *Store) GetExpense(_ context.Context, id uint) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expense, ok := s.expenses[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &expense, nil
}

// CreateExpense stores the parent, children and items under a single lock
// section, so readers never observe a half-created purchase.
func (s *Store) CreateExpense(_ context.Context, parent *models.Expense, children []models.Expense, items []models.ExpenseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent.ID = s.nextExpenseID
	s.nextExpenseID++
	s.expenses[parent.ID] = *parent

	for i := range children {
		children[i].ID = s.nextExpenseID
		s.nextExpenseID++
		parentID := parent.ID
		children[i].ParentID = &parentID
		s.expenses[children[i].ID] = children[i]
	}

	for i := range items {
		items[i].ID = s.nextItemID
		s.nextItemID++
		items[i].ExpenseID = parent.ID
		s.items[items[i].ID] = items[i]
	}
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[expense.ID]; !ok {
		return storage.ErrNotFound
	}
	s.expenses[expense.ID] = *expense
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]models.Expense, 0, len(s.expenses))
	for _, expense := range s.expenses {
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses, nil
}

func (s *Store) ListExpenseItems(_ context.Context, expenseID uint) ([]models.ExpenseItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ExpenseItem, 0)
	for _, item := range s.items {
		if item.ExpenseID == expenseID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
