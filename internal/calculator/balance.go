package calculator

import (
	"time"

	"github.com/nikv/tallybook/internal/models"
)

// Balance returns the outstanding amount of an IOU/UOM transaction: face
// value minus the sum of recorded payments. It is a pure projection and does
// no clamping; the record-payment operation caps payments at the remaining
// balance, so a negative result cannot arise through the mutation surface.
func Balance(t *models.Transaction) int64 {
	var paid int64
	for _, p := range t.Payments {
		paid += p.Amount
	}
	return t.Amount - paid
}

// IsPaid reports whether the transaction's balance is exactly zero.
func IsPaid(t *models.Transaction) bool {
	return Balance(t) == 0
}

// IsOverdue reports whether the transaction has a due date strictly before
// now's calendar date and is not yet paid. Malformed due dates are treated as
// not overdue.
func IsOverdue(t *models.Transaction, now time.Time) bool {
	if t.DueDate == "" || IsPaid(t) {
		return false
	}
	due, err := time.Parse(models.DateLayout, t.DueDate)
	if err != nil {
		return false
	}
	today, _ := time.Parse(models.DateLayout, now.Format(models.DateLayout))
	return due.Before(today)
}

// Status derives the persisted status field from the payment history.
func Status(t *models.Transaction) models.Status {
	if IsPaid(t) {
		return models.StatusPaid
	}
	return models.StatusPending
}
