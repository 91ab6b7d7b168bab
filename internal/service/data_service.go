package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

// ExportVersion is the interchange document version this build writes.
const ExportVersion = "1.0"

// ExportDocument is the flat bulk interchange format. Amounts are integer
// cents, as stored.
type ExportDocument struct {
	Version      string               `json:"version"`
	ExportDate   time.Time            `json:"exportDate"`
	Persons      []models.Person      `json:"persons"`
	Transactions []models.Transaction `json:"transactions"`
}

// DataService implements bulk import and export.
type DataService struct {
	store storage.Store
}

// NewDataService creates a DataService on the given storage backend.
func NewDataService(store storage.Store) *DataService {
	return &DataService{store: store}
}

// Export snapshots the whole ledger into an interchange document.
func (s *DataService) Export(ctx context.Context) (*ExportDocument, error) {
	persons, err := s.store.ListPersons(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if persons == nil {
		persons = []models.Person{}
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return &ExportDocument{
		Version:      ExportVersion,
		ExportDate:   time.Now().UTC(),
		Persons:      persons,
		Transactions: txns,
	}, nil
}

// Import loads an interchange document into the ledger. The document is
// validated wholesale before any write begins; merge keeps existing records
// (imported ids overwrite), replace clears both collections first. The
// optional clears and every put land in one atomic batch.
func (s *DataService) Import(ctx context.Context, doc *ExportDocument, merge bool) error {
	if err := validateImport(doc); err != nil {
		return err
	}

	var ops []storage.Op
	if !merge {
		ops = append(ops,
			storage.ClearCollection(storage.CollectionPersons),
			storage.ClearCollection(storage.CollectionTransactions),
		)
	}
	for i := range doc.Persons {
		ops = append(ops, storage.PutPerson(&doc.Persons[i]))
	}
	for i := range doc.Transactions {
		t := doc.Transactions[i]
		if t.IsDebt() && t.Payments == nil {
			t.Payments = []models.Payment{}
		}
		ops = append(ops, storage.PutTransaction(&t))
	}

	if err := s.store.Apply(ctx, ops); err != nil {
		slog.Error("Import failed", "error", err)
		return err
	}
	slog.Info("Import complete",
		"persons", len(doc.Persons),
		"transactions", len(doc.Transactions),
		"merge", merge,
	)
	return nil
}

func validateImport(doc *ExportDocument) error {
	if doc == nil {
		return ErrInvalidImport
	}
	if doc.Persons == nil {
		return fmt.Errorf("%w: missing persons array", ErrInvalidImport)
	}
	if doc.Transactions == nil {
		return fmt.Errorf("%w: missing transactions array", ErrInvalidImport)
	}
	for i := range doc.Persons {
		p := &doc.Persons[i]
		if p.ID == "" {
			return fmt.Errorf("%w: person missing id", ErrInvalidImport)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: person %s: %v", ErrInvalidImport, p.ID, err)
		}
	}
	for i := range doc.Transactions {
		t := &doc.Transactions[i]
		if t.ID == "" {
			return fmt.Errorf("%w: transaction missing id", ErrInvalidImport)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: transaction %s: %v", ErrInvalidImport, t.ID, err)
		}
	}
	return nil
}
