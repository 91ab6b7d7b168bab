package calculator

import (
	"testing"
	"time"

	"github.com/nikv/tallybook/internal/models"
)

func debtFixture(amount int64, payments ...int64) *models.Transaction {
	t := &models.Transaction{
		ID:          "t1",
		Type:        models.TypeUOM,
		PersonID:    "p1",
		Amount:      amount,
		Description: "Lunch",
		Date:        "2026-08-01",
		Status:      models.StatusPending,
		Payments:    []models.Payment{},
	}
	for i, p := range payments {
		t.Payments = append(t.Payments, models.Payment{
			ID:            string(rune('a' + i)),
			TransactionID: t.ID,
			Amount:        p,
			Date:          time.Now(),
		})
	}
	return t
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		txn  *models.Transaction
		want int64
	}{
		{"no payments", debtFixture(1000), 1000},
		{"partial payment", debtFixture(1000, 300), 700},
		{"multiple payments", debtFixture(1000, 300, 200), 500},
		{"fully paid", debtFixture(1000, 600, 400), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Balance(tt.txn); got != tt.want {
				t.Errorf("Balance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBalance_AddThenRemovePaymentIsIdempotent(t *testing.T) {
	txn := debtFixture(1000, 300)
	before := Balance(txn)

	txn.Payments = append(txn.Payments, models.Payment{ID: "x", TransactionID: txn.ID, Amount: 250})
	if got := Balance(txn); got != before-250 {
		t.Fatalf("Balance after add = %d, want %d", got, before-250)
	}

	kept := txn.Payments[:0]
	for _, p := range txn.Payments {
		if p.ID != "x" {
			kept = append(kept, p)
		}
	}
	txn.Payments = kept

	if got := Balance(txn); got != before {
		t.Errorf("Balance after add+remove = %d, want %d", got, before)
	}
}

func TestIsPaid(t *testing.T) {
	if IsPaid(debtFixture(1000, 300)) {
		t.Error("partially paid transaction reported as paid")
	}
	if !IsPaid(debtFixture(1000, 1000)) {
		t.Error("fully paid transaction not reported as paid")
	}
}

func TestStatus(t *testing.T) {
	if got := Status(debtFixture(1000)); got != models.StatusPending {
		t.Errorf("Status() = %s, want pending", got)
	}
	if got := Status(debtFixture(1000, 1000)); got != models.StatusPaid {
		t.Errorf("Status() = %s, want paid", got)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		txn  *models.Transaction
		want bool
	}{
		{"past due and unpaid", withDue(debtFixture(1000), "2026-08-10"), true},
		{"due today", withDue(debtFixture(1000), "2026-08-15"), false},
		{"due later", withDue(debtFixture(1000), "2026-08-20"), false},
		{"no due date", debtFixture(1000), false},
		{"past due but paid", withDue(debtFixture(1000, 1000), "2026-08-10"), false},
		{"malformed due date", withDue(debtFixture(1000), "soon"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.txn, now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func withDue(t *models.Transaction, due string) *models.Transaction {
	t.DueDate = due
	return t
}
