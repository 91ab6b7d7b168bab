// Package models defines the core domain models for Tallybook.
//
// The ledger owns two top-level record collections:
//   - Person: a contact the user tracks debts with
//   - Transaction: an IOU, UOM, or SPLIT record
//
// Payment records live inside their parent Transaction and are deleted with
// it. A SPLIT transaction is a generator, not a balance-bearing record: its
// economic effect is entirely represented by the IOU/UOM children it expands
// into (linked back via SplitID).
//
// # Design Principles
//
//  1. **Integer money**: all amounts are int64 minor currency units (cents);
//     monetary arithmetic never touches floating point.
//  2. **Tagged union**: Transaction carries a Type discriminant and
//     variant-specific fields; Validate enforces each variant's shape.
//  3. **Avoid circular references**: relationships use ID strings, never
//     pointers.
//
// User is the account model for the API's login boundary and is not part of
// the ledger data itself.
package models
