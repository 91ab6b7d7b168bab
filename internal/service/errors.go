package service

import "errors"

// Validation failures. All are rejected before any write reaches storage;
// the API layer maps them with errors.Is.
var (
	ErrNotDebt               = errors.New("transaction must be an IOU or UOM")
	ErrUnsupportedSplitType  = errors.New("unsupported split type")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrAmountBelowPayments   = errors.New("amount can't be below recorded payments")
	ErrPersonHasTransactions = errors.New("person has existing transactions")
	ErrDuplicatePerson       = errors.New("a person with the same name and phone number already exists")
	ErrInvalidPhone          = errors.New("phone number must be 10 digits")
	ErrEmptyGroupTag         = errors.New("group tag can't be empty")
	ErrInvalidImport         = errors.New("invalid import document")
)
