// Package memory provides an in-memory storage.Store for environments
// without a usable SQLite database (and for tests).
//
// This is the degraded fallback path: Apply exposes the same call contract as
// the primary store but only guarantees sequential best-effort application.
// A failing op aborts the rest of the batch without undoing earlier ops, so
// callers must not assume atomicity on this backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps.
type MemoryStore struct {
	mu           sync.Mutex
	persons      map[string]models.Person
	transactions map[string]models.Transaction
	users        map[string]models.User
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		persons:      make(map[string]models.Person),
		transactions: make(map[string]models.Transaction),
		users:        make(map[string]models.User),
	}
}

func (s *MemoryStore) ListPersons(ctx context.Context) ([]models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	persons := make([]models.Person, 0, len(s.persons))
	for _, p := range s.persons {
		persons = append(persons, p)
	}
	sort.Slice(persons, func(i, j int) bool {
		if persons[i].FirstName != persons[j].FirstName {
			return persons[i].FirstName < persons[j].FirstName
		}
		return persons[i].LastName < persons[j].LastName
	})
	return persons, nil
}

func (s *MemoryStore) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, fmt.Errorf("%w: person %s", storage.ErrNotFound, id)
	}
	return &p, nil
}

func (s *MemoryStore) PutPerson(ctx context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeletePerson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.persons, id)
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txns := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		txns = append(txns, copyTransaction(t))
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Date != txns[j].Date {
			return txns[i].Date > txns[j].Date
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", storage.ErrNotFound, id)
	}
	cp := copyTransaction(t)
	return &cp, nil
}

func (s *MemoryStore) PutTransaction(ctx context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = copyTransaction(*t)
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transactions, id)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, c storage.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(c)
}

// Apply runs the ops in order. Best effort only: an op failure stops the
// batch but earlier ops stay applied. See the package comment.
func (s *MemoryStore) Apply(ctx context.Context, ops []storage.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		if err := s.applyLocked(op); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts a new user. Duplicate emails are rejected, matching
// the unique constraint on the primary store.
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: email %s already exists", user.Email)
		}
	}
	s.users[user.ID] = *user
	return nil
}

// GetUserByEmail retrieves a user by email. Returns nil with no error when
// the user does not exist.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetUserByID retrieves a user by ID. Returns nil with no error when the
// user does not exist.
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) applyLocked(op storage.Op) error {
	switch op.Kind {
	case storage.OpPut:
		switch op.Collection {
		case storage.CollectionPersons:
			if op.Person == nil {
				return fmt.Errorf("put op without person payload")
			}
			s.persons[op.Person.ID] = *op.Person
			return nil
		case storage.CollectionTransactions:
			if op.Transaction == nil {
				return fmt.Errorf("put op without transaction payload")
			}
			s.transactions[op.Transaction.ID] = copyTransaction(*op.Transaction)
			return nil
		}
	case storage.OpDelete:
		switch op.Collection {
		case storage.CollectionPersons:
			delete(s.persons, op.Key)
			return nil
		case storage.CollectionTransactions:
			delete(s.transactions, op.Key)
			return nil
		}
	case storage.OpClear:
		return s.clearLocked(op.Collection)
	}
	return fmt.Errorf("unsupported op: kind=%d collection=%s", op.Kind, op.Collection)
}

func (s *MemoryStore) clearLocked(c storage.Collection) error {
	switch c {
	case storage.CollectionPersons:
		s.persons = make(map[string]models.Person)
	case storage.CollectionTransactions:
		s.transactions = make(map[string]models.Transaction)
	default:
		return fmt.Errorf("unknown collection: %s", c)
	}
	return nil
}

// copyTransaction deep-copies the slices so callers can't mutate stored
// records in place.
func copyTransaction(t models.Transaction) models.Transaction {
	if t.Payments != nil {
		t.Payments = append([]models.Payment{}, t.Payments...)
	}
	if t.Participants != nil {
		t.Participants = append([]string{}, t.Participants...)
	}
	return t
}
