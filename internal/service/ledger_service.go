// Package service implements the ledger's mutation operations: it validates,
// computes new record states with the calculator, and submits writes to
// storage. Multi-record mutations (split creation, cascade deletes, group
// settlement, person re-keying) always go through a single atomic batch.
//
// Operations assume a single logical actor: no two mutations run
// concurrently against the same record set. A single batch can never be
// half-applied on the primary store, but there is no cross-batch isolation;
// overlapping mutations on the same id resolve last-write-wins.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nikv/tallybook/internal/calculator"
	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

// LedgerService implements the transaction and payment operations.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService on the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateTransactionParams are the inputs for a new IOU/UOM record.
type CreateTransactionParams struct {
	Type        models.TransactionType
	PersonID    string
	Amount      int64
	Description string
	Date        string
	DueDate     string
	GroupTag    string
}

// CreateTransaction creates a single IOU or UOM record. It starts pending
// with an empty payment history.
func (s *LedgerService) CreateTransaction(ctx context.Context, p CreateTransactionParams) (*models.Transaction, error) {
	txn := &models.Transaction{
		ID:          uuid.New().String(),
		Type:        p.Type,
		PersonID:    p.PersonID,
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.Date,
		DueDate:     p.DueDate,
		GroupTag:    p.GroupTag,
		Status:      models.StatusPending,
		Payments:    []models.Payment{},
	}
	if !txn.IsDebt() {
		return nil, ErrNotDebt
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.PutTransaction(ctx, txn); err != nil {
		slog.Error("CreateTransaction failed", "error", err)
		return nil, err
	}
	slog.Info("Transaction created", "transaction_id", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return txn, nil
}

// CreateSplitParams are the inputs for a new SPLIT transaction.
type CreateSplitParams struct {
	TotalAmount  int64
	PayerID      string
	Participants []string
	SplitType    models.SplitType
	Description  string
	Date         string
	DueDate      string
	GroupTag     string
}

// CreateSplit creates a SPLIT transaction and the IOU/UOM children it
// expands into, written together in one atomic batch.
func (s *LedgerService) CreateSplit(ctx context.Context, p CreateSplitParams) (*models.Transaction, []models.Transaction, error) {
	split := &models.Transaction{
		ID:           uuid.New().String(),
		Type:         models.TypeSplit,
		Description:  p.Description,
		Date:         p.Date,
		DueDate:      p.DueDate,
		GroupTag:     p.GroupTag,
		TotalAmount:  p.TotalAmount,
		PayerID:      p.PayerID,
		Participants: p.Participants,
		SplitType:    p.SplitType,
	}
	if err := split.Validate(); err != nil {
		return nil, nil, err
	}
	// The calculator quietly yields no shares for unknown split types;
	// refuse them here instead of writing a split with no effect.
	if split.SplitType != models.SplitTypeEqual {
		return nil, nil, ErrUnsupportedSplitType
	}

	children := calculator.ExpandSplit(split)

	ops := make([]storage.Op, 0, len(children)+1)
	ops = append(ops, storage.PutTransaction(split))
	for i := range children {
		ops = append(ops, storage.PutTransaction(&children[i]))
	}
	if err := s.store.Apply(ctx, ops); err != nil {
		slog.Error("CreateSplit failed", "error", err)
		return nil, nil, err
	}
	slog.Info("Split created", "split_id", split.ID, "children", len(children))
	return split, children, nil
}

// RecordPayment appends a payment to an IOU/UOM transaction. The amount must
// be positive and no larger than the remaining balance; paying the balance
// down to exactly zero marks the transaction paid.
func (s *LedgerService) RecordPayment(ctx context.Context, transactionID string, amount int64, date time.Time, note string) (*models.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsDebt() {
		return nil, ErrNotDebt
	}
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if balance := calculator.Balance(txn); amount > balance {
		return nil, fmt.Errorf("%w: %d > %d", ErrPaymentExceedsBalance, amount, balance)
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	txn.Payments = append(txn.Payments, models.Payment{
		ID:            uuid.New().String(),
		TransactionID: txn.ID,
		Amount:        amount,
		Date:          date,
		Note:          note,
	})
	txn.Status = calculator.Status(txn)

	if err := s.store.PutTransaction(ctx, txn); err != nil {
		slog.Error("RecordPayment failed", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	slog.Info("Payment recorded", "transaction_id", txn.ID, "amount", amount, "status", txn.Status)
	return txn, nil
}

// DeletePayment removes a payment from a transaction. If the balance becomes
// positive again the status reverts to pending.
func (s *LedgerService) DeletePayment(ctx context.Context, transactionID, paymentID string) (*models.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	kept := txn.Payments[:0]
	found := false
	for _, p := range txn.Payments {
		if p.ID == paymentID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return nil, fmt.Errorf("%w: payment %s", storage.ErrNotFound, paymentID)
	}
	txn.Payments = kept
	txn.Status = calculator.Status(txn)

	if err := s.store.PutTransaction(ctx, txn); err != nil {
		slog.Error("DeletePayment failed", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	slog.Info("Payment deleted", "transaction_id", txn.ID, "payment_id", paymentID, "status", txn.Status)
	return txn, nil
}

// EditTransactionParams are the editable fields of an IOU/UOM record.
type EditTransactionParams struct {
	PersonID    string
	Amount      int64
	Description string
	Date        string
	DueDate     string
}

// EditTransaction updates an existing IOU/UOM record. The payment history
// and status are left untouched; reducing the amount below what has already
// been paid is a validation failure rather than a negative balance.
func (s *LedgerService) EditTransaction(ctx context.Context, id string, p EditTransactionParams) (*models.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.IsDebt() {
		return nil, ErrNotDebt
	}

	paid := txn.Amount - calculator.Balance(txn)
	if p.Amount < paid {
		return nil, fmt.Errorf("%w: %d paid, amount %d", ErrAmountBelowPayments, paid, p.Amount)
	}

	txn.PersonID = p.PersonID
	txn.Amount = p.Amount
	txn.Description = p.Description
	txn.Date = p.Date
	txn.DueDate = p.DueDate
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.PutTransaction(ctx, txn); err != nil {
		slog.Error("EditTransaction failed", "transaction_id", id, "error", err)
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction deletes a transaction. Deleting a SPLIT cascades to
// every child referencing it, in one atomic batch; deleting a missing id is
// a no-op.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	txn, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if txn.Type != models.TypeSplit {
		return s.store.DeleteTransaction(ctx, id)
	}

	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return err
	}
	ops := []storage.Op{storage.DeleteTransaction(id)}
	for _, t := range all {
		if t.SplitID == id {
			ops = append(ops, storage.DeleteTransaction(t.ID))
		}
	}
	if err := s.store.Apply(ctx, ops); err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", id, "error", err)
		return err
	}
	slog.Info("Split deleted", "split_id", id, "children", len(ops)-1)
	return nil
}

// SettleGroup finds every IOU/UOM in the group with a positive balance and
// appends a synthetic payment clearing it, marking each paid. All updates
// land in one atomic batch. Returns the settled transactions.
func (s *LedgerService) SettleGroup(ctx context.Context, groupTag string, now time.Time) ([]models.Transaction, error) {
	if groupTag == "" {
		return nil, ErrEmptyGroupTag
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	var settled []models.Transaction
	var ops []storage.Op
	for i := range all {
		t := all[i]
		if !t.IsDebt() || t.GroupTag != groupTag {
			continue
		}
		balance := calculator.Balance(&t)
		if balance <= 0 {
			continue
		}
		t.Payments = append(t.Payments, models.Payment{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			Amount:        balance,
			Date:          now,
			Note:          fmt.Sprintf("Group settlement for '%s'", groupTag),
		})
		t.Status = models.StatusPaid
		tc := t
		settled = append(settled, t)
		ops = append(ops, storage.PutTransaction(&tc))
	}

	if len(ops) == 0 {
		return nil, nil
	}
	if err := s.store.Apply(ctx, ops); err != nil {
		slog.Error("SettleGroup failed", "group_tag", groupTag, "error", err)
		return nil, err
	}
	slog.Info("Group settled", "group_tag", groupTag, "transactions", len(settled))
	return settled, nil
}

// GetTransaction retrieves a transaction by id.
func (s *LedgerService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListTransactions retrieves every transaction.
func (s *LedgerService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx)
}
