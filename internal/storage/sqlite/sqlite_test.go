package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jsreddy/splitscenario/internal/models"
	"github.com/jsreddy/splitscenario/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser("Test User", email, "hashed-password")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func testScenario(userID string, date int64) *models.Scenario {
	return &models.Scenario{
		UserID:       userID,
		Category:     "trip",
		Currency:     "USD",
		Input:        "j paid 200 for food with ab",
		Participants: []string{"ab", "j"},
		Expenses: []models.Expense{
			{Payer: "j", Amount: 200, Description: "food"},
		},
		Balances: []models.Balance{
			{Name: "ab", Balance: -100},
			{Name: "j", Balance: 100},
		},
		Settlements: []models.Settlement{
			{From: "ab", To: "j", Amount: 100},
		},
		Date:     date,
		Excluded: []string{"john"},
	}
}

func TestCreateAndListScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "a@example.com")

	scenario := testScenario(user.ID, 1700000000)
	if err := store.CreateScenario(ctx, scenario); err != nil {
		t.Fatalf("CreateScenario failed: %v", err)
	}
	if scenario.ID == "" {
		t.Error("scenario ID not generated")
	}
	if scenario.CreatedAt == 0 {
		t.Error("scenario CreatedAt not set")
	}

	scenarios, err := store.ListScenariosByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListScenariosByUser failed: %v", err)
	}
	if len(scenarios) != 1 {
		t.Fatalf("got %d scenarios, want 1", len(scenarios))
	}

	got := scenarios[0]
	if got.Input != scenario.Input || got.Category != "trip" || got.Currency != "USD" {
		t.Errorf("scenario = %+v", got)
	}
	if !reflect.DeepEqual(got.Participants, []string{"ab", "j"}) {
		t.Errorf("participants = %v", got.Participants)
	}
	if !reflect.DeepEqual(got.Excluded, []string{"john"}) {
		t.Errorf("excluded = %v", got.Excluded)
	}
	if len(got.Expenses) != 1 || got.Expenses[0].Payer != "j" || got.Expenses[0].Amount != 200 {
		t.Errorf("expenses = %+v", got.Expenses)
	}
	if len(got.Balances) != 2 {
		t.Errorf("balances = %+v", got.Balances)
	}
	if len(got.Settlements) != 1 || got.Settlements[0].From != "ab" || got.Settlements[0].To != "j" {
		t.Errorf("settlements = %+v", got.Settlements)
	}
}

func TestListScenariosOrderedByDateDesc(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "a@example.com")

	for _, date := range []int64{1000, 3000, 2000} {
		if err := store.CreateScenario(ctx, testScenario(user.ID, date)); err != nil {
			t.Fatalf("CreateScenario failed: %v", err)
		}
	}

	scenarios, err := store.ListScenariosByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListScenariosByUser failed: %v", err)
	}
	var dates []int64
	for _, sc := range scenarios {
		dates = append(dates, sc.Date)
	}
	if !reflect.DeepEqual(dates, []int64{3000, 2000, 1000}) {
		t.Errorf("dates = %v, want descending", dates)
	}
}

func TestListScenariosScopedToUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice@example.com")
	bob := createTestUser(t, store, "bob@example.com")

	if err := store.CreateScenario(ctx, testScenario(alice.ID, 1000)); err != nil {
		t.Fatalf("CreateScenario failed: %v", err)
	}

	scenarios, err := store.ListScenariosByUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListScenariosByUser failed: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("bob sees %d of alice's scenarios, want 0", len(scenarios))
	}
}

func TestDeleteScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice@example.com")
	bob := createTestUser(t, store, "bob@example.com")

	scenario := testScenario(alice.ID, 1000)
	if err := store.CreateScenario(ctx, scenario); err != nil {
		t.Fatalf("CreateScenario failed: %v", err)
	}

	// Ownership scoping: bob cannot delete alice's scenario.
	if err := store.DeleteScenario(ctx, scenario.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign delete error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteScenario(ctx, scenario.ID, alice.ID); err != nil {
		t.Fatalf("DeleteScenario failed: %v", err)
	}

	if err := store.DeleteScenario(ctx, scenario.ID, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	scenarios, err := store.ListScenariosByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListScenariosByUser failed: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("got %d scenarios after delete, want 0", len(scenarios))
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "a@example.com")

	byEmail, err := store.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != "hashed-password" {
		t.Errorf("user = %+v", byEmail)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != "a@example.com" {
		t.Errorf("user = %+v", byID)
	}

	if _, err := store.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}

	// Duplicate email violates the unique constraint.
	dup := models.NewUser("Other", "a@example.com", "hash")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("duplicate email insert succeeded, want error")
	}
}
