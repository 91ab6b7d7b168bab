package calculator

import (
	"github.com/google/uuid"

	"github.com/nikv/tallybook/internal/models"
)

// ExpandSplit generates the IOU/UOM children implied by a SPLIT transaction.
//
// If the user paid, every other participant owes the user their share: one
// UOM child per participant. If a third party paid, only the user's own share
// is modeled: a single IOU child toward the payer. Debts between third
// parties are not this ledger's business.
//
// Children inherit the parent's date, due date, and group tag, carry a
// back-reference in SplitID, and start pending with an empty payment history.
func ExpandSplit(split *models.Transaction) []models.Transaction {
	shares := CalculateShares(split.TotalAmount, split.Participants, split.SplitType)

	var children []models.Transaction
	if split.PayerID == models.Me {
		for _, share := range shares {
			if share.PersonID == models.Me {
				continue
			}
			children = append(children, newChild(split, models.TypeUOM, share.PersonID, share.Amount))
		}
		return children
	}

	for _, share := range shares {
		if share.PersonID == models.Me {
			children = append(children, newChild(split, models.TypeIOU, split.PayerID, share.Amount))
			break
		}
	}
	return children
}

func newChild(split *models.Transaction, typ models.TransactionType, personID string, amount int64) models.Transaction {
	return models.Transaction{
		ID:          uuid.New().String(),
		Type:        typ,
		PersonID:    personID,
		Amount:      amount,
		Description: "Split: " + split.Description,
		Date:        split.Date,
		DueDate:     split.DueDate,
		GroupTag:    split.GroupTag,
		SplitID:     split.ID,
		Status:      models.StatusPending,
		Payments:    []models.Payment{},
	}
}
