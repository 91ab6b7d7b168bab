package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

const transactionColumns = `id, type, description, date, due_date, group_tag,
	person_id, amount, status, split_id, total_amount, payer_id, split_type`

// ListTransactions retrieves every transaction with its payment history and
// split participants, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	index := map[string]int{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		index[t.ID] = len(txns)
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	// Attach child rows in two queries instead of two per transaction.
	payRows, err := s.db.QueryContext(ctx,
		"SELECT id, transaction_id, amount, date, note FROM payments ORDER BY transaction_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		p, txnID, err := scanPayment(payRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[txnID]; ok {
			txns[i].Payments = append(txns[i].Payments, *p)
		}
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	partRows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id, person_id FROM split_participants ORDER BY transaction_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list split participants: %w", err)
	}
	defer partRows.Close()
	for partRows.Next() {
		var txnID, personID string
		if err := partRows.Scan(&txnID, &personID); err != nil {
			return nil, fmt.Errorf("failed to scan split participant: %w", err)
		}
		if i, ok := index[txnID]; ok {
			txns[i].Participants = append(txns[i].Participants, personID)
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split participants: %w", err)
	}

	return txns, nil
}

// GetTransaction retrieves a transaction by ID, including payments and
// participants.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id,
	)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	payRows, err := s.db.QueryContext(ctx,
		"SELECT id, transaction_id, amount, date, note FROM payments WHERE transaction_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		p, _, err := scanPayment(payRows)
		if err != nil {
			return nil, err
		}
		t.Payments = append(t.Payments, *p)
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	partRows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM split_participants WHERE transaction_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split participants: %w", err)
	}
	defer partRows.Close()
	for partRows.Next() {
		var personID string
		if err := partRows.Scan(&personID); err != nil {
			return nil, fmt.Errorf("failed to scan split participant: %w", err)
		}
		t.Participants = append(t.Participants, personID)
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split participants: %w", err)
	}

	if t.IsDebt() && t.Payments == nil {
		t.Payments = []models.Payment{}
	}
	return t, nil
}

// PutTransaction upserts a transaction and replaces its child rows.
func (s *SQLiteStore) PutTransaction(ctx context.Context, t *models.Transaction) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return putTransaction(ctx, tx, t)
	})
}

// DeleteTransaction removes a transaction by ID; payment and participant rows
// cascade. Deleting a missing transaction is a no-op.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func putTransaction(ctx context.Context, q dbtx, t *models.Transaction) error {
	if t == nil {
		return fmt.Errorf("nil transaction in put")
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    type = excluded.type,
		    description = excluded.description,
		    date = excluded.date,
		    due_date = excluded.due_date,
		    group_tag = excluded.group_tag,
		    person_id = excluded.person_id,
		    amount = excluded.amount,
		    status = excluded.status,
		    split_id = excluded.split_id,
		    total_amount = excluded.total_amount,
		    payer_id = excluded.payer_id,
		    split_type = excluded.split_type`,
		t.ID, string(t.Type), t.Description, t.Date,
		nullable(t.DueDate), nullable(t.GroupTag),
		nullable(t.PersonID), zeroNull(t.Amount), nullable(string(t.Status)),
		nullable(t.SplitID), zeroNull(t.TotalAmount), nullable(t.PayerID),
		nullable(string(t.SplitType)),
	)
	if err != nil {
		return fmt.Errorf("failed to put transaction: %w", err)
	}

	// Replace child rows wholesale; the model is the source of truth.
	if _, err := q.ExecContext(ctx, "DELETE FROM payments WHERE transaction_id = ?", t.ID); err != nil {
		return fmt.Errorf("failed to clear payments: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM split_participants WHERE transaction_id = ?", t.ID); err != nil {
		return fmt.Errorf("failed to clear split participants: %w", err)
	}

	for i, p := range t.Payments {
		_, err := q.ExecContext(ctx,
			"INSERT INTO payments (id, transaction_id, position, amount, date, note) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, t.ID, i, p.Amount, p.Date.UTC().Format(time.RFC3339Nano), nullable(p.Note),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}
	for i, personID := range t.Participants {
		_, err := q.ExecContext(ctx,
			"INSERT INTO split_participants (transaction_id, position, person_id) VALUES (?, ?, ?)",
			t.ID, i, personID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split participant: %w", err)
		}
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var typ string
	var dueDate, groupTag, personID, status, splitID, payerID, splitType sql.NullString
	var amount, totalAmount sql.NullInt64

	err := row.Scan(&t.ID, &typ, &t.Description, &t.Date, &dueDate, &groupTag,
		&personID, &amount, &status, &splitID, &totalAmount, &payerID, &splitType)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.Type = models.TransactionType(typ)
	t.DueDate = dueDate.String
	t.GroupTag = groupTag.String
	t.PersonID = personID.String
	t.Amount = amount.Int64
	t.Status = models.Status(status.String)
	t.SplitID = splitID.String
	t.TotalAmount = totalAmount.Int64
	t.PayerID = payerID.String
	t.SplitType = models.SplitType(splitType.String)
	if t.IsDebt() {
		t.Payments = []models.Payment{}
	}
	return t, nil
}

func scanPayment(row scanner) (*models.Payment, string, error) {
	p := &models.Payment{}
	var txnID, date string
	var note sql.NullString
	if err := row.Scan(&p.ID, &txnID, &p.Amount, &date, &note); err != nil {
		return nil, "", fmt.Errorf("failed to scan payment: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse payment date: %w", err)
	}
	p.TransactionID = txnID
	p.Date = parsed
	p.Note = note.String
	return p, txnID, nil
}

// zeroNull maps a zero amount to SQL NULL so variant-irrelevant columns stay
// empty.
func zeroNull(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
