// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/nikv/tallybook/internal/models"
)

// ErrNotFound is returned when a record does not exist. Implementations wrap
// it with detail; callers test with errors.Is.
var ErrNotFound = errors.New("record not found")

// Collection names the two top-level record collections.
type Collection string

const (
	CollectionPersons      Collection = "persons"
	CollectionTransactions Collection = "transactions"
)

// OpKind discriminates batch operations.
type OpKind int

const (
	OpPut OpKind = iota
	OpDelete
	OpClear
)

// Op is one operation inside an atomic batch. For OpPut exactly one of
// Person/Transaction is set according to Collection; for OpDelete, Key names
// the record; for OpClear the whole collection is emptied.
type Op struct {
	Kind        OpKind
	Collection  Collection
	Key         string
	Person      *models.Person
	Transaction *models.Transaction
}

// PutPerson builds a person upsert op.
func PutPerson(p *models.Person) Op {
	return Op{Kind: OpPut, Collection: CollectionPersons, Key: p.ID, Person: p}
}

// DeletePerson builds a person delete op.
func DeletePerson(id string) Op {
	return Op{Kind: OpDelete, Collection: CollectionPersons, Key: id}
}

// PutTransaction builds a transaction upsert op.
func PutTransaction(t *models.Transaction) Op {
	return Op{Kind: OpPut, Collection: CollectionTransactions, Key: t.ID, Transaction: t}
}

// DeleteTransaction builds a transaction delete op.
func DeleteTransaction(id string) Op {
	return Op{Kind: OpDelete, Collection: CollectionTransactions, Key: id}
}

// ClearCollection builds an op that empties a collection.
func ClearCollection(c Collection) Op {
	return Op{Kind: OpClear, Collection: c}
}

// Store defines the persistence contract the ledger core consumes. This
// abstraction allows swapping storage backends (SQLite, in-memory fallback)
// without changing the service layer.
//
// Apply is the atomic-batch primitive: either every op in the batch is
// durably applied or none are, and no partial application is observable by
// subsequent reads. Deletes of missing keys inside a batch are no-ops rather
// than failures.
type Store interface {
	ListPersons(ctx context.Context) ([]models.Person, error)
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	PutPerson(ctx context.Context, p *models.Person) error
	DeletePerson(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	PutTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Clear empties a collection.
	Clear(ctx context.Context, c Collection) error

	// Apply runs a batch of ops as a single unit.
	Apply(ctx context.Context, ops []Op) error

	// Close releases any resources held by the store.
	Close() error
}
