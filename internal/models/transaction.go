package models

import (
	"errors"
	"time"
)

// TransactionType discriminates the Transaction union.
type TransactionType string

const (
	// TypeIOU is money the user owes to a person.
	TypeIOU TransactionType = "IOU"
	// TypeUOM is money a person owes to the user.
	TypeUOM TransactionType = "UOM"
	// TypeSplit is a shared expense that decomposes into IOU/UOM children.
	TypeSplit TransactionType = "SPLIT"
)

// Status is the derived pending/paid state of an IOU/UOM transaction.
// It is persisted for query convenience but never set independently of the
// payment history.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// SplitType selects the share algorithm for a SPLIT transaction.
type SplitType string

const (
	SplitTypeEqual SplitType = "equal"
	// TODO: SplitTypePercentage, SplitTypeExact
)

var (
	ErrUnknownType        = errors.New("unknown transaction type")
	ErrEmptyDescription   = errors.New("description can't be empty")
	ErrMissingDate        = errors.New("date is required")
	ErrMissingPerson      = errors.New("person is required")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrMissingPayer       = errors.New("payer is required")
	ErrTooFewParticipants = errors.New("split requires at least two participants")
)

// DateLayout is the calendar-date form used by Date and DueDate.
const DateLayout = time.DateOnly

// Transaction is a tagged union over the IOU, UOM, and SPLIT variants.
// The IOU/UOM fields are zero for SPLIT records and vice versa; Validate
// enforces each variant's required shape.
type Transaction struct {
	// ID is a UUID: unique and externally unguessable.
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	// Date is the calendar date of the transaction, in DateLayout form.
	Date string `json:"date"`
	// DueDate is an optional calendar date after which the transaction
	// counts as overdue.
	DueDate string `json:"dueDate,omitempty"`
	// GroupTag is an optional free-text key clustering related
	// transactions (e.g. a trip) for bulk settlement.
	GroupTag string `json:"groupTag,omitempty"`

	// IOU/UOM fields.

	// PersonID is the other party of the debt, or Me.
	PersonID string `json:"personId,omitempty"`
	// Amount is the immutable face value in cents.
	Amount int64  `json:"amount,omitempty"`
	Status Status `json:"status,omitempty"`
	// Payments is the ordered payment history. Nil for SPLIT records.
	Payments []Payment `json:"payments,omitempty"`
	// SplitID links a generated child back to its SPLIT parent.
	SplitID string `json:"splitId,omitempty"`

	// SPLIT fields.

	// TotalAmount is the full shared expense in cents.
	TotalAmount int64 `json:"totalAmount,omitempty"`
	// PayerID is who paid the expense: a person ID or Me.
	PayerID string `json:"payerId,omitempty"`
	// Participants is the ordered set of person IDs (or Me) sharing the
	// expense. Order matters: remainder cents go to the first entries.
	Participants []string  `json:"participants,omitempty"`
	SplitType    SplitType `json:"splitType,omitempty"`
}

// Payment is a partial or full repayment recorded against an IOU/UOM
// transaction. Payments are owned by their transaction and cascade with it.
type Payment struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	// Amount is positive and, at creation time, capped at the remaining
	// balance.
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note,omitempty"`
}

// IsDebt reports whether the transaction is a balance-bearing IOU/UOM record.
func (t *Transaction) IsDebt() bool {
	return t.Type == TypeIOU || t.Type == TypeUOM
}

// Validate enforces the variant shape selected by Type.
func (t *Transaction) Validate() error {
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if t.Date == "" {
		return ErrMissingDate
	}
	switch t.Type {
	case TypeIOU, TypeUOM:
		if t.PersonID == "" {
			return ErrMissingPerson
		}
		if t.Amount <= 0 {
			return ErrInvalidAmount
		}
	case TypeSplit:
		if t.TotalAmount <= 0 {
			return ErrInvalidAmount
		}
		if t.PayerID == "" {
			return ErrMissingPayer
		}
		if len(t.Participants) < 2 {
			return ErrTooFewParticipants
		}
	default:
		return ErrUnknownType
	}
	return nil
}
