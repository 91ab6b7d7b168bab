// Package calculator holds the pure ledger math: share calculation, split
// expansion, and balance projection. Nothing here touches storage.
package calculator

import "github.com/nikv/tallybook/internal/models"

// Share is one participant's portion of a split expense, in cents.
type Share struct {
	PersonID string
	Amount   int64
}

// CalculateShares divides totalAmount among the participants. For an equal
// split every participant gets the floor share and the remainder cents go one
// each to the first participants in input order, so the shares always sum to
// totalAmount exactly.
//
// Zero participants or an unknown split type yield no shares; callers
// validate upstream.
func CalculateShares(totalAmount int64, participantIDs []string, splitType models.SplitType) []Share {
	if splitType != models.SplitTypeEqual {
		return nil
	}
	n := int64(len(participantIDs))
	if n == 0 {
		return nil
	}

	base := totalAmount / n
	remainder := totalAmount % n

	shares := make([]Share, 0, n)
	for i, id := range participantIDs {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares = append(shares, Share{PersonID: id, Amount: amount})
	}
	return shares
}
