package models

import "errors"

// Me is the sentinel person ID representing the ledger's owner.
// It never appears in the persons collection.
const Me = "ME"

var (
	ErrEmptyFirstName = errors.New("first name can't be empty")
)

// Person represents a contact the user tracks debts with.
type Person struct {
	// ID is derived deterministically from FirstName and the last 4 digits
	// of Phone (see the identity package). It doubles as the natural dedup
	// key: the same name/phone pair always maps to the same record.
	ID string `json:"id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Validate checks the fields required to derive a stable identity.
func (p *Person) Validate() error {
	if p.FirstName == "" {
		return ErrEmptyFirstName
	}
	return nil
}
