package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikv/tallybook/internal/auth"
	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/service"
	"github.com/nikv/tallybook/internal/storage"
	"github.com/nikv/tallybook/pkg/money"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps service and storage sentinels onto HTTP status codes.
// Anything unrecognized is treated as an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPersonHasTransactions),
		errors.Is(err, service.ErrDuplicatePerson),
		errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		models.ErrUnknownType,
		models.ErrEmptyDescription,
		models.ErrMissingDate,
		models.ErrMissingPerson,
		models.ErrInvalidAmount,
		models.ErrMissingPayer,
		models.ErrTooFewParticipants,
		models.ErrEmptyFirstName,
		service.ErrNotDebt,
		service.ErrUnsupportedSplitType,
		service.ErrPaymentExceedsBalance,
		service.ErrAmountBelowPayments,
		service.ErrInvalidPhone,
		service.ErrEmptyGroupTag,
		service.ErrInvalidImport,
		auth.ErrWeakPassword,
		money.ErrInvalidAmount,
		money.ErrFractionalCents,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
