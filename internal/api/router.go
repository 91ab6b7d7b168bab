// Package api exposes the ledger over REST. Request and response amounts
// are decimal strings; everything behind this package works in integer
// cents.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikv/tallybook/internal/auth"
	"github.com/nikv/tallybook/internal/middleware"
	"github.com/nikv/tallybook/internal/service"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	ledger  *service.LedgerService
	persons *service.PersonService
	data    *service.DataService
	auth    *service.AuthService
}

// New builds the chi router with all routes and middleware wired.
func New(ledger *service.LedgerService, persons *service.PersonService, data *service.DataService, authSvc *service.AuthService, jwtManager *auth.JWTManager) http.Handler {
	s := &Server{ledger: ledger, persons: persons, data: data, auth: authSvc}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/auth/me", s.me)

			r.Route("/persons", func(r chi.Router) {
				r.Get("/", s.listPersons)
				r.Post("/", s.createPerson)
				r.Get("/{id}", s.getPerson)
				r.Put("/{id}", s.updatePerson)
				r.Delete("/{id}", s.deletePerson)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.listTransactions)
				r.Post("/", s.createTransaction)
				r.Post("/split", s.createSplit)
				r.Get("/{id}", s.getTransaction)
				r.Put("/{id}", s.editTransaction)
				r.Delete("/{id}", s.deleteTransaction)
				r.Post("/{id}/payments", s.recordPayment)
				r.Delete("/{id}/payments/{paymentID}", s.deletePayment)
			})

			r.Post("/groups/{tag}/settle", s.settleGroup)

			r.Get("/export", s.exportData)
			r.Post("/import", s.importData)
		})
	})

	return r
}
