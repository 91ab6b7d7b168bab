package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/storage"
)

// ListPersons retrieves every person, ordered by first then last name.
func (s *SQLiteStore) ListPersons(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, first_name, last_name, phone FROM persons ORDER BY first_name, last_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}
	return persons, nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	p := &models.Person{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, phone FROM persons WHERE id = ?", id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: person %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// PutPerson upserts a person by ID.
func (s *SQLiteStore) PutPerson(ctx context.Context, p *models.Person) error {
	return putPerson(ctx, s.db, p)
}

// DeletePerson removes a person by ID. Deleting a missing person is a no-op.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

func putPerson(ctx context.Context, q dbtx, p *models.Person) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO persons (id, first_name, last_name, phone) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET first_name = excluded.first_name,
		                               last_name = excluded.last_name,
		                               phone = excluded.phone`,
		p.ID, p.FirstName, p.LastName, p.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to put person: %w", err)
	}
	return nil
}
