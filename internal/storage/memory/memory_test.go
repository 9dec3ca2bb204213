package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"family-ledger-go/internal/models"
	"family-ledger-go/internal/storage"
)

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := &models.User{Name: "Ana", Username: "ana", Role: models.RoleMother, Balance: decimal.Zero}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID != 1 {
		t.Errorf("first user ID = %d, want 1", user.ID)
	}

	t.Run("duplicate username conflicts", func(t *testing.T) {
		err := s.CreateUser(ctx, &models.User{Name: "Other", Username: "ana"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("lookup by username", func(t *testing.T) {
		got, err := s.GetUserByUsername(ctx, "ana")
		if err != nil {
			t.Fatalf("GetUserByUsername() error = %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("got user %d, want %d", got.ID, user.ID)
		}
	})

	t.Run("update persists", func(t *testing.T) {
		user.Balance = decimal.RequireFromString("500.00")
		if err := s.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}
		got, err := s.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if !got.Balance.Equal(decimal.RequireFromString("500.00")) {
			t.Errorf("balance = %s, want 500.00", got.Balance)
		}
	})

	t.Run("update of missing user", func(t *testing.T) {
		err := s.UpdateUser(ctx, &models.User{ID: 99, Username: "ghost"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get of missing user", func(t *testing.T) {
		if _, err := s.GetUser(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete then get", func(t *testing.T) {
		if err := s.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}
		if _, err := s.GetUser(ctx, user.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound after delete", err)
		}
	})
}

func TestProductBarcode(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.CreateProduct(ctx, &models.Product{Name: "Rice", Barcode: "7891234560001"}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	t.Run("lookup by barcode", func(t *testing.T) {
		got, err := s.GetProductByBarcode(ctx, "7891234560001")
		if err != nil {
			t.Fatalf("GetProductByBarcode() error = %v", err)
		}
		if got.Name != "Rice" {
			t.Errorf("product = %q, want Rice", got.Name)
		}
	})

	t.Run("duplicate barcode conflicts", func(t *testing.T) {
		err := s.CreateProduct(ctx, &models.Product{Name: "Other", Barcode: "7891234560001"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("empty barcodes never collide", func(t *testing.T) {
		if err := s.CreateProduct(ctx, &models.Product{Name: "Bulk A"}); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
		if err := s.CreateProduct(ctx, &models.Product{Name: "Bulk B"}); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
	})

	t.Run("unknown barcode", func(t *testing.T) {
		if _, err := s.GetProductByBarcode(ctx, "0000000000000"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestCreateExpenseLinksChildrenAndItems(t *testing.T) {
	ctx := context.Background()
	s := New()

	parent := &models.Expense{
		TitularIDs:  models.Int64Array{1},
		PaymentType: models.PaymentInstallments,
		Total:       decimal.RequireFromString("200.00"),
		Status:      models.StatusPending,
	}
	children := []models.Expense{
		{InstallmentNo: 1, InstallmentCount: 2, InstallmentAmount: decimal.RequireFromString("100.00"), Status: models.StatusDue},
		{InstallmentNo: 2, InstallmentCount: 2, InstallmentAmount: decimal.RequireFromString("100.00"), Status: models.StatusDue},
	}
	items := []models.ExpenseItem{
		{ProductID: 1, Quantity: decimal.RequireFromString("1"), UnitPrice: decimal.RequireFromString("200.00"), Total: decimal.RequireFromString("200.00")},
	}

	if err := s.CreateExpense(ctx, parent, children, items); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if parent.ID == 0 {
		t.Fatal("parent was not assigned an ID")
	}

	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("got %d expenses, want parent plus 2 children", len(expenses))
	}
	for _, e := range expenses {
		if e.ID == parent.ID {
			continue
		}
		if e.ParentID == nil || *e.ParentID != parent.ID {
			t.Errorf("child %d parent = %v, want %d", e.ID, e.ParentID, parent.ID)
		}
	}

	got, err := s.ListExpenseItems(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListExpenseItems() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].ExpenseID != parent.ID {
		t.Errorf("item expense = %d, want %d", got[0].ExpenseID, parent.ID)
	}

	t.Run("items scoped to their expense", func(t *testing.T) {
		other, err := s.ListExpenseItems(ctx, parent.ID+100)
		if err != nil {
			t.Fatalf("ListExpenseItems() error = %v", err)
		}
		if len(other) != 0 {
			t.Errorf("got %d items for unrelated expense, want 0", len(other))
		}
	})
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSeeded()
	if err != nil {
		t.Fatalf("NewSeeded() error = %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) == 0 {
		t.Fatal("seeded store has no users")
	}
	if _, err := s.GetUserByUsername(ctx, "admin"); err != nil {
		t.Errorf("seeded admin user missing: %v", err)
	}

	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	var parents, children, paid int
	for _, e := range expenses {
		switch {
		case e.IsChild():
			children++
			if e.Status == models.StatusPaid {
				paid++
			}
		case e.PaymentType == models.PaymentInstallments:
			parents++
		}
	}
	if parents != 1 || children != 12 {
		t.Errorf("seeded installment purchase has %d parents / %d children, want 1 / 12", parents, children)
	}
	if paid != 1 {
		t.Errorf("seeded paid installments = %d, want 1", paid)
	}
}
