package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(dbPath)
	})
	return store
}

func TestSQLiteStore_Persons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.Person{ID: "id-alice", FirstName: "Alice", LastName: "Ames", Phone: "555-123-4567"}

	t.Run("put and get", func(t *testing.T) {
		if err := store.PutPerson(ctx, alice); err != nil {
			t.Fatalf("PutPerson failed: %v", err)
		}
		got, err := store.GetPerson(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if *got != *alice {
			t.Errorf("GetPerson = %+v, want %+v", got, alice)
		}
	})

	t.Run("put is an upsert", func(t *testing.T) {
		alice.Phone = "555-999-4567"
		if err := store.PutPerson(ctx, alice); err != nil {
			t.Fatalf("PutPerson failed: %v", err)
		}
		got, err := store.GetPerson(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if got.Phone != "555-999-4567" {
			t.Errorf("phone not updated: %s", got.Phone)
		}
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetPerson(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		store.PutPerson(ctx, &models.Person{ID: "id-zed", FirstName: "Zed"})
		store.PutPerson(ctx, &models.Person{ID: "id-bob", FirstName: "Bob"})
		persons, err := store.ListPersons(ctx)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		if len(persons) != 3 {
			t.Fatalf("expected 3 persons, got %d", len(persons))
		}
		if persons[0].FirstName != "Alice" || persons[2].FirstName != "Zed" {
			t.Errorf("unexpected order: %+v", persons)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeletePerson(ctx, "id-zed"); err != nil {
			t.Fatalf("DeletePerson failed: %v", err)
		}
		if _, err := store.GetPerson(ctx, "id-zed"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestSQLiteStore_TransactionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	paid := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	original := &models.Transaction{
		ID:          "txn-1",
		Type:        models.TypeUOM,
		PersonID:    "id-alice",
		Amount:      1500,
		Description: "Concert tickets",
		Date:        "2026-08-01",
		DueDate:     "2026-09-01",
		GroupTag:    "summer",
		Status:      models.StatusPending,
		Payments: []models.Payment{
			{ID: "pay-1", TransactionID: "txn-1", Amount: 500, Date: paid, Note: "first half"},
			{ID: "pay-2", TransactionID: "txn-1", Amount: 250, Date: paid.Add(time.Hour)},
		},
	}

	if err := store.PutTransaction(ctx, original); err != nil {
		t.Fatalf("PutTransaction failed: %v", err)
	}

	got, err := store.GetTransaction(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.Type != original.Type || got.PersonID != original.PersonID ||
		got.Amount != original.Amount || got.Description != original.Description ||
		got.Date != original.Date || got.DueDate != original.DueDate ||
		got.GroupTag != original.GroupTag || got.Status != original.Status {
		t.Errorf("transaction fields mismatch: %+v", got)
	}
	if len(got.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got.Payments))
	}
	if got.Payments[0].ID != "pay-1" || got.Payments[1].ID != "pay-2" {
		t.Errorf("payment order not preserved: %+v", got.Payments)
	}
	if !got.Payments[0].Date.Equal(paid) {
		t.Errorf("payment date mismatch: %v", got.Payments[0].Date)
	}
	if got.Payments[0].Note != "first half" || got.Payments[1].Note != "" {
		t.Errorf("payment notes mismatch: %+v", got.Payments)
	}
}

func TestSQLiteStore_SplitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	split := &models.Transaction{
		ID:           "split-1",
		Type:         models.TypeSplit,
		Description:  "Cabin rental",
		Date:         "2026-07-04",
		TotalAmount:  90000,
		PayerID:      models.Me,
		Participants: []string{models.Me, "id-bob", "id-alice"},
		SplitType:    models.SplitTypeEqual,
	}

	if err := store.PutTransaction(ctx, split); err != nil {
		t.Fatalf("PutTransaction failed: %v", err)
	}

	got, err := store.GetTransaction(ctx, split.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.TotalAmount != split.TotalAmount || got.PayerID != split.PayerID ||
		got.SplitType != split.SplitType {
		t.Errorf("split fields mismatch: %+v", got)
	}
	// Participant order is the remainder-distribution order and must survive
	// the round trip exactly.
	if len(got.Participants) != 3 ||
		got.Participants[0] != models.Me ||
		got.Participants[1] != "id-bob" ||
		got.Participants[2] != "id-alice" {
		t.Errorf("participant order not preserved: %v", got.Participants)
	}
	if len(got.Payments) != 0 {
		t.Errorf("split should carry no payments, got %v", got.Payments)
	}
}

func TestSQLiteStore_DeleteCascadesChildRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	txn := &models.Transaction{
		ID: "txn-1", Type: models.TypeIOU, PersonID: "p", Amount: 100,
		Description: "x", Date: "2026-01-01", Status: models.StatusPending,
		Payments: []models.Payment{{ID: "pay-1", TransactionID: "txn-1", Amount: 50, Date: time.Now()}},
	}
	if err := store.PutTransaction(ctx, txn); err != nil {
		t.Fatalf("PutTransaction failed: %v", err)
	}
	if err := store.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM payments").Scan(&count); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Errorf("expected payment rows to cascade, found %d", count)
	}
}

func TestSQLiteStore_ApplyIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	good := &models.Transaction{
		ID: "txn-good", Type: models.TypeIOU, PersonID: "p", Amount: 100,
		Description: "x", Date: "2026-01-01", Status: models.StatusPending,
	}
	// A put op with no payload fails mid-batch; the earlier put must roll
	// back with it.
	bad := storage.Op{Kind: storage.OpPut, Collection: storage.CollectionTransactions}

	err := store.Apply(ctx, []storage.Op{storage.PutTransaction(good), bad})
	if err == nil {
		t.Fatal("expected batch to fail")
	}
	if _, err := store.GetTransaction(ctx, good.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected rollback of earlier op, got %v", err)
	}
}

func TestSQLiteStore_ApplyMixedBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	oldPerson := &models.Person{ID: "old-id", FirstName: "Carol"}
	txn := &models.Transaction{
		ID: "txn-1", Type: models.TypeUOM, PersonID: "old-id", Amount: 100,
		Description: "x", Date: "2026-01-01", Status: models.StatusPending,
		Payments: []models.Payment{},
	}
	if err := store.PutPerson(ctx, oldPerson); err != nil {
		t.Fatal(err)
	}
	if err := store.PutTransaction(ctx, txn); err != nil {
		t.Fatal(err)
	}

	// Re-key: delete old person, insert new, repoint the transaction.
	newPerson := &models.Person{ID: "new-id", FirstName: "Carol", Phone: "555-000-1111"}
	repointed := *txn
	repointed.PersonID = "new-id"
	err := store.Apply(ctx, []storage.Op{
		storage.DeletePerson("old-id"),
		storage.PutPerson(newPerson),
		storage.PutTransaction(&repointed),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if _, err := store.GetPerson(ctx, "old-id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("old person should be gone, got %v", err)
	}
	got, err := store.GetTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PersonID != "new-id" {
		t.Errorf("transaction not repointed: %s", got.PersonID)
	}
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.PutPerson(ctx, &models.Person{ID: "p1", FirstName: "A"})
	store.PutTransaction(ctx, &models.Transaction{
		ID: "t1", Type: models.TypeIOU, PersonID: "p1", Amount: 100,
		Description: "x", Date: "2026-01-01", Status: models.StatusPending,
	})

	if err := store.Clear(ctx, storage.CollectionPersons); err != nil {
		t.Fatalf("Clear persons failed: %v", err)
	}
	persons, _ := store.ListPersons(ctx)
	if len(persons) != 0 {
		t.Errorf("expected no persons, got %d", len(persons))
	}
	txns, _ := store.ListTransactions(ctx)
	if len(txns) != 1 {
		t.Errorf("transactions should be untouched, got %d", len(txns))
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("me@example.com", "Me", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "me@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail = %+v", byEmail)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID == nil || byID.Email != user.Email {
		t.Errorf("GetUserByID = %+v", byID)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing user, got %+v, %v", missing, err)
	}

	if err := store.CreateUser(ctx, models.NewUser("me@example.com", "Dup", "hash")); err == nil {
		t.Error("expected duplicate email to fail")
	}
}
