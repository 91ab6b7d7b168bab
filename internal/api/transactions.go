package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikv/tallybook/internal/calculator"
	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/service"
	"github.com/nikv/tallybook/pkg/money"
)

// Amounts cross the HTTP boundary as decimal strings ("12.50") and are
// converted to integer cents at the edge.

type paymentView struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	Amount        string    `json:"amount"`
	Date          time.Time `json:"date"`
	Note          string    `json:"note,omitempty"`
}

type transactionView struct {
	ID          string                 `json:"id"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	DueDate     string                 `json:"dueDate,omitempty"`
	GroupTag    string                 `json:"groupTag,omitempty"`

	PersonID string        `json:"personId,omitempty"`
	Amount   string        `json:"amount,omitempty"`
	Balance  string        `json:"balance,omitempty"`
	Status   models.Status `json:"status,omitempty"`
	Overdue  bool          `json:"overdue,omitempty"`
	Payments []paymentView `json:"payments,omitempty"`
	SplitID  string        `json:"splitId,omitempty"`

	TotalAmount  string           `json:"totalAmount,omitempty"`
	PayerID      string           `json:"payerId,omitempty"`
	Participants []string         `json:"participants,omitempty"`
	SplitType    models.SplitType `json:"splitType,omitempty"`
}

func toTransactionView(t *models.Transaction) transactionView {
	v := transactionView{
		ID:          t.ID,
		Type:        t.Type,
		Description: t.Description,
		Date:        t.Date,
		DueDate:     t.DueDate,
		GroupTag:    t.GroupTag,
	}
	if t.IsDebt() {
		v.PersonID = t.PersonID
		v.Amount = money.FromCents(t.Amount)
		v.Balance = money.FromCents(calculator.Balance(t))
		v.Status = t.Status
		v.Overdue = calculator.IsOverdue(t, time.Now())
		v.SplitID = t.SplitID
		for _, p := range t.Payments {
			v.Payments = append(v.Payments, paymentView{
				ID:            p.ID,
				TransactionID: p.TransactionID,
				Amount:        money.FromCents(p.Amount),
				Date:          p.Date,
				Note:          p.Note,
			})
		}
	} else {
		v.TotalAmount = money.FromCents(t.TotalAmount)
		v.PayerID = t.PayerID
		v.Participants = t.Participants
		v.SplitType = t.SplitType
	}
	return v
}

func toTransactionViews(txns []models.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txns))
	for i := range txns {
		views = append(views, toTransactionView(&txns[i]))
	}
	return views
}

type createTransactionRequest struct {
	Type        models.TransactionType `json:"type"`
	PersonID    string                 `json:"personId"`
	Amount      string                 `json:"amount"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	DueDate     string                 `json:"dueDate"`
	GroupTag    string                 `json:"groupTag"`
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	amount, err := money.ToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := s.ledger.CreateTransaction(r.Context(), service.CreateTransactionParams{
		Type:        req.Type,
		PersonID:    req.PersonID,
		Amount:      amount,
		Description: req.Description,
		Date:        req.Date,
		DueDate:     req.DueDate,
		GroupTag:    req.GroupTag,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionView(txn))
}

type createSplitRequest struct {
	TotalAmount  string           `json:"totalAmount"`
	PayerID      string           `json:"payerId"`
	Participants []string         `json:"participants"`
	SplitType    models.SplitType `json:"splitType"`
	Description  string           `json:"description"`
	Date         string           `json:"date"`
	DueDate      string           `json:"dueDate"`
	GroupTag     string           `json:"groupTag"`
}

type createSplitResponse struct {
	Split    transactionView   `json:"split"`
	Children []transactionView `json:"children"`
}

func (s *Server) createSplit(w http.ResponseWriter, r *http.Request) {
	var req createSplitRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	total, err := money.ToCents(req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	splitType := req.SplitType
	if splitType == "" {
		splitType = models.SplitTypeEqual
	}

	split, children, err := s.ledger.CreateSplit(r.Context(), service.CreateSplitParams{
		TotalAmount:  total,
		PayerID:      req.PayerID,
		Participants: req.Participants,
		SplitType:    splitType,
		Description:  req.Description,
		Date:         req.Date,
		DueDate:      req.DueDate,
		GroupTag:     req.GroupTag,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSplitResponse{
		Split:    toTransactionView(split),
		Children: toTransactionViews(children),
	})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionViews(txns))
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(txn))
}

type editTransactionRequest struct {
	PersonID    string `json:"personId"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	DueDate     string `json:"dueDate"`
}

func (s *Server) editTransaction(w http.ResponseWriter, r *http.Request) {
	var req editTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	amount, err := money.ToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := s.ledger.EditTransaction(r.Context(), chi.URLParam(r, "id"), service.EditTransactionParams{
		PersonID:    req.PersonID,
		Amount:      amount,
		Description: req.Description,
		Date:        req.Date,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(txn))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type recordPaymentRequest struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

func (s *Server) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	amount, err := money.ToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			badRequest(w, "date must be RFC 3339")
			return
		}
	}

	txn, err := s.ledger.RecordPayment(r.Context(), chi.URLParam(r, "id"), amount, date, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionView(txn))
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	txn, err := s.ledger.DeletePayment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "paymentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(txn))
}

type settleGroupResponse struct {
	Settled []transactionView `json:"settled"`
}

func (s *Server) settleGroup(w http.ResponseWriter, r *http.Request) {
	settled, err := s.ledger.SettleGroup(r.Context(), chi.URLParam(r, "tag"), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settleGroupResponse{Settled: toTransactionViews(settled)})
}
