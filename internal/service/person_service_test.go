package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

func TestPersonService_CreatePerson(t *testing.T) {
	svc := NewPersonService(newTestStore(t))
	ctx := context.Background()

	t.Run("derives a stable id", func(t *testing.T) {
		person, err := svc.CreatePerson(ctx, PersonParams{
			FirstName: "Alice",
			LastName:  "Nguyen",
			Phone:     "(555) 123-4567",
		})
		if err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
		if person.ID == "" {
			t.Fatal("expected derived id")
		}

		got, err := svc.GetPerson(ctx, person.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if got.FirstName != "Alice" || got.Phone != "(555) 123-4567" {
			t.Errorf("persisted person = %+v", got)
		}
	})

	t.Run("rejects empty first name", func(t *testing.T) {
		_, err := svc.CreatePerson(ctx, PersonParams{FirstName: ""})
		if !errors.Is(err, models.ErrEmptyFirstName) {
			t.Errorf("error = %v, want ErrEmptyFirstName", err)
		}
	})

	t.Run("rejects short phone", func(t *testing.T) {
		_, err := svc.CreatePerson(ctx, PersonParams{FirstName: "Bob", Phone: "12345"})
		if !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("error = %v, want ErrInvalidPhone", err)
		}
	})

	t.Run("duplicate name and phone rejected", func(t *testing.T) {
		// same name modulo case, same phone modulo formatting
		_, err := svc.CreatePerson(ctx, PersonParams{
			FirstName: "alice",
			Phone:     "1-555-123-4567",
		})
		if !errors.Is(err, ErrDuplicatePerson) {
			t.Errorf("error = %v, want ErrDuplicatePerson", err)
		}
	})

	t.Run("same name different phone is fine", func(t *testing.T) {
		if _, err := svc.CreatePerson(ctx, PersonParams{
			FirstName: "Alice",
			Phone:     "5559876543",
		}); err != nil {
			t.Errorf("CreatePerson failed: %v", err)
		}
	})
}

func TestPersonService_UpdatePerson(t *testing.T) {
	store := newTestStore(t)
	persons := NewPersonService(store)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	person, err := persons.CreatePerson(ctx, PersonParams{
		FirstName: "Carol",
		Phone:     "5551112222",
	})
	if err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	txn, err := ledger.CreateTransaction(ctx, CreateTransactionParams{
		Type:        models.TypeIOU,
		PersonID:    person.ID,
		Amount:      1500,
		Description: "Lunch",
		Date:        "2026-08-20",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	t.Run("same identity updates in place", func(t *testing.T) {
		updated, err := persons.UpdatePerson(ctx, person.ID, PersonParams{
			FirstName: "Carol",
			LastName:  "Jones",
			Phone:     "5551112222",
		})
		if err != nil {
			t.Fatalf("UpdatePerson failed: %v", err)
		}
		if updated.ID != person.ID {
			t.Errorf("id changed: %q -> %q", person.ID, updated.ID)
		}
		if updated.LastName != "Jones" {
			t.Errorf("last name = %q, want Jones", updated.LastName)
		}
	})

	t.Run("identity change re-keys and re-points transactions", func(t *testing.T) {
		updated, err := persons.UpdatePerson(ctx, person.ID, PersonParams{
			FirstName: "Caroline",
			LastName:  "Jones",
			Phone:     "5551112222",
		})
		if err != nil {
			t.Fatalf("UpdatePerson failed: %v", err)
		}
		if updated.ID == person.ID {
			t.Fatal("expected a new derived id")
		}

		if _, err := persons.GetPerson(ctx, person.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("old person still present: %v", err)
		}
		got, err := ledger.GetTransaction(ctx, txn.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.PersonID != updated.ID {
			t.Errorf("transaction person = %q, want %q", got.PersonID, updated.ID)
		}
	})

	t.Run("unknown person", func(t *testing.T) {
		_, err := persons.UpdatePerson(ctx, "missing", PersonParams{FirstName: "X"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestPersonService_DeletePerson(t *testing.T) {
	store := newTestStore(t)
	persons := NewPersonService(store)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	person, err := persons.CreatePerson(ctx, PersonParams{FirstName: "Dave", Phone: "5553334444"})
	if err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	txn, err := ledger.CreateTransaction(ctx, CreateTransactionParams{
		Type:        models.TypeUOM,
		PersonID:    person.ID,
		Amount:      700,
		Description: "Parking",
		Date:        "2026-08-21",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	t.Run("refused while referenced", func(t *testing.T) {
		if err := persons.DeletePerson(ctx, person.ID); !errors.Is(err, ErrPersonHasTransactions) {
			t.Errorf("error = %v, want ErrPersonHasTransactions", err)
		}
	})

	t.Run("allowed once unreferenced", func(t *testing.T) {
		if err := ledger.DeleteTransaction(ctx, txn.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if err := persons.DeletePerson(ctx, person.ID); err != nil {
			t.Errorf("DeletePerson failed: %v", err)
		}
		if _, err := persons.GetPerson(ctx, person.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("person still present: %v", err)
		}
	})
}
