package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nikv/tallybook/internal/storage"
)

// Apply runs the whole op batch inside one SQL transaction: either every op
// commits or the rollback leaves nothing behind. This is the primitive behind
// split creation, cascade deletes, person re-keying, and group settlement.
func (s *SQLiteStore) Apply(ctx context.Context, ops []storage.Op) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, op := range ops {
			if err := applyOp(ctx, tx, op); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear empties a collection.
func (s *SQLiteStore) Clear(ctx context.Context, c storage.Collection) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return clearCollection(ctx, tx, c)
	})
}

func applyOp(ctx context.Context, tx *sql.Tx, op storage.Op) error {
	switch op.Kind {
	case storage.OpPut:
		switch op.Collection {
		case storage.CollectionPersons:
			if op.Person == nil {
				return fmt.Errorf("put op without person payload")
			}
			return putPerson(ctx, tx, op.Person)
		case storage.CollectionTransactions:
			if op.Transaction == nil {
				return fmt.Errorf("put op without transaction payload")
			}
			return putTransaction(ctx, tx, op.Transaction)
		}
	case storage.OpDelete:
		switch op.Collection {
		case storage.CollectionPersons:
			_, err := tx.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", op.Key)
			if err != nil {
				return fmt.Errorf("failed to delete person: %w", err)
			}
			return nil
		case storage.CollectionTransactions:
			_, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", op.Key)
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			return nil
		}
	case storage.OpClear:
		return clearCollection(ctx, tx, op.Collection)
	}
	return fmt.Errorf("unsupported op: kind=%d collection=%s", op.Kind, op.Collection)
}

func clearCollection(ctx context.Context, tx dbtx, c storage.Collection) error {
	switch c {
	case storage.CollectionPersons:
		if _, err := tx.ExecContext(ctx, "DELETE FROM persons"); err != nil {
			return fmt.Errorf("failed to clear persons: %w", err)
		}
		return nil
	case storage.CollectionTransactions:
		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
			return fmt.Errorf("failed to clear transactions: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown collection: %s", c)
}
