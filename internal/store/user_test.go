package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/pulse/internal/database"
	"github.com/dukerupert/pulse/internal/model"
)

func setupUserTestDB(t *testing.T) (*UserStore, *TransactionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), NewTransactionStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us, _ := setupUserTestDB(t)

	user, err := us.Create("Alice", "alice@example.com", "hashed-password")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("name = %q, want %q", user.Name, "Alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@example.com")
	}
	if user.Points != 0 {
		t.Errorf("points = %d, want 0", user.Points)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}

	got, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil {
		t.Fatal("expected user, got nil")
	}
	if got.ID != user.ID {
		t.Errorf("id = %d, want %d", got.ID, user.ID)
	}
	if got.Password != "hashed-password" {
		t.Errorf("password = %q, want stored hash", got.Password)
	}
}

func TestUserNotFound(t *testing.T) {
	us, _ := setupUserTestDB(t)

	got, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent user")
	}

	got, err = us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	us, _ := setupUserTestDB(t)

	if _, err := us.Create("Alice", "alice@example.com", "hash1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := us.Create("Other Alice", "alice@example.com", "hash2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestUserAddPoints(t *testing.T) {
	us, ts := setupUserTestDB(t)

	user, _ := us.Create("Alice", "alice@example.com", "hash")

	updated, err := us.AddPoints(user.ID, 100)
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if updated.Points != 100 {
		t.Errorf("points = %d, want 100", updated.Points)
	}

	updated, err = us.AddPoints(user.ID, 50)
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if updated.Points != 150 {
		t.Errorf("points = %d, want 150", updated.Points)
	}

	// Every grant records a transaction
	transactions, err := ts.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	for _, tr := range transactions {
		if tr.Type != model.TransactionReward {
			t.Errorf("type = %q, want %q", tr.Type, model.TransactionReward)
		}
	}
}

func TestUserAddPointsMissingUser(t *testing.T) {
	us, ts := setupUserTestDB(t)

	updated, err := us.AddPoints(999, 100)
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if updated != nil {
		t.Error("expected nil for non-existent user")
	}

	// No orphaned transaction row
	transactions, _ := ts.ListByUser(999)
	if len(transactions) != 0 {
		t.Errorf("expected 0 transactions, got %d", len(transactions))
	}
}

func TestUserSetPoints(t *testing.T) {
	us, _ := setupUserTestDB(t)

	user, _ := us.Create("Alice", "alice@example.com", "hash")
	us.AddPoints(user.ID, 100)

	updated, err := us.SetPoints(user.ID, 42)
	if err != nil {
		t.Fatalf("set points: %v", err)
	}
	if updated.Points != 42 {
		t.Errorf("points = %d, want 42", updated.Points)
	}
}

func TestUserListIncludesSeededAdmin(t *testing.T) {
	us, _ := setupUserTestDB(t)

	us.Create("Alice", "alice@example.com", "hash")

	users, err := us.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	// Seeded admin plus Alice
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Role != model.RoleAdmin {
		t.Errorf("users[0].Role = %q, want %q", users[0].Role, model.RoleAdmin)
	}
}
