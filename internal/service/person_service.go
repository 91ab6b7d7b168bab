package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nikv/tallybook/internal/identity"
	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

// PersonService implements the person operations, including the atomic
// re-key that keeps transactions pointed at the right person when a name or
// phone edit changes the derived id.
type PersonService struct {
	store storage.Store
}

// NewPersonService creates a PersonService on the given storage backend.
func NewPersonService(store storage.Store) *PersonService {
	return &PersonService{store: store}
}

// PersonParams are the inputs for creating or updating a person.
type PersonParams struct {
	FirstName string
	LastName  string
	Phone     string
}

// CreatePerson adds a person with a derived id. The derived id doubles as a
// dedup key, so re-adding the same name/phone pair updates in place.
func (s *PersonService) CreatePerson(ctx context.Context, p PersonParams) (*models.Person, error) {
	if err := s.validate(ctx, p, ""); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:        identity.DerivePersonID(p.FirstName, p.Phone),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
	if err := s.store.PutPerson(ctx, person); err != nil {
		slog.Error("CreatePerson failed", "error", err)
		return nil, err
	}
	slog.Info("Person created", "person_id", person.ID)
	return person, nil
}

// UpdatePerson edits a person. If the edit changes the derived id, the old
// record is deleted, the new one inserted, and every transaction referencing
// the old id re-pointed, all in one atomic batch.
func (s *PersonService) UpdatePerson(ctx context.Context, id string, p PersonParams) (*models.Person, error) {
	if _, err := s.store.GetPerson(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, p, id); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:        identity.DerivePersonID(p.FirstName, p.Phone),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}

	if person.ID == id {
		if err := s.store.PutPerson(ctx, person); err != nil {
			slog.Error("UpdatePerson failed", "person_id", id, "error", err)
			return nil, err
		}
		return person, nil
	}

	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	ops := []storage.Op{
		storage.DeletePerson(id),
		storage.PutPerson(person),
	}
	for i := range txns {
		if txns[i].PersonID == id {
			t := txns[i]
			t.PersonID = person.ID
			ops = append(ops, storage.PutTransaction(&t))
		}
	}
	if err := s.store.Apply(ctx, ops); err != nil {
		slog.Error("UpdatePerson re-key failed", "old_id", id, "new_id", person.ID, "error", err)
		return nil, err
	}
	slog.Info("Person re-keyed", "old_id", id, "new_id", person.ID, "transactions", len(ops)-2)
	return person, nil
}

// DeletePerson removes a person. Deletion is refused while any transaction
// still references them.
func (s *PersonService) DeletePerson(ctx context.Context, id string) error {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return err
	}
	for i := range txns {
		if txns[i].PersonID == id {
			return ErrPersonHasTransactions
		}
	}
	if err := s.store.DeletePerson(ctx, id); err != nil {
		slog.Error("DeletePerson failed", "person_id", id, "error", err)
		return err
	}
	slog.Info("Person deleted", "person_id", id)
	return nil
}

// GetPerson retrieves a person by id.
func (s *PersonService) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// ListPersons retrieves every person.
func (s *PersonService) ListPersons(ctx context.Context) ([]models.Person, error) {
	return s.store.ListPersons(ctx)
}

// validate enforces the person rules: a first name, a 10-digit phone when
// one is given, and name/phone uniqueness among everyone except the person
// being edited.
func (s *PersonService) validate(ctx context.Context, p PersonParams, currentID string) error {
	person := models.Person{FirstName: p.FirstName}
	if err := person.Validate(); err != nil {
		return err
	}
	normalized := identity.NormalizePhone(p.Phone)
	if p.Phone != "" && len(normalized) != 10 {
		return ErrInvalidPhone
	}

	existing, err := s.store.ListPersons(ctx)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].ID == currentID {
			continue
		}
		sameName := strings.EqualFold(
			strings.TrimSpace(existing[i].FirstName),
			strings.TrimSpace(p.FirstName),
		)
		if sameName && identity.NormalizePhone(existing[i].Phone) == normalized {
			return ErrDuplicatePerson
		}
	}
	return nil
}
