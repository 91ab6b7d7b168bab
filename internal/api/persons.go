package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikv/tallybook/internal/identity"
	"github.com/nikv/tallybook/internal/models"
	"github.com/nikv/tallybook/internal/service"
)

type personView struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	Phone          string `json:"phone,omitempty"`
	PhoneFormatted string `json:"phoneFormatted,omitempty"`
}

func toPersonView(p *models.Person) personView {
	return personView{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Phone:          p.Phone,
		PhoneFormatted: identity.FormatPhone(p.Phone),
	}
}

type personRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (s *Server) listPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.persons.ListPersons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]personView, 0, len(persons))
	for i := range persons {
		views = append(views, toPersonView(&persons[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.persons.GetPerson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonView(person))
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	person, err := s.persons.CreatePerson(r.Context(), service.PersonParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonView(person))
}

func (s *Server) updatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	person, err := s.persons.UpdatePerson(r.Context(), chi.URLParam(r, "id"), service.PersonParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonView(person))
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.persons.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
