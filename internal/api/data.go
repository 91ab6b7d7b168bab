package api

import (
	"net/http"

	"github.com/nikv/tallybook/internal/service"
)

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	doc, err := s.data.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="tallybook-export.json"`)
	writeJSON(w, http.StatusOK, doc)
}

type importResponse struct {
	Persons      int `json:"persons"`
	Transactions int `json:"transactions"`
}

func (s *Server) importData(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	var merge bool
	switch mode {
	case "", "replace":
		merge = false
	case "merge":
		merge = true
	default:
		badRequest(w, "mode must be merge or replace")
		return
	}

	var doc service.ExportDocument
	if err := decodeJSON(r, &doc); err != nil {
		badRequest(w, "invalid import document: "+err.Error())
		return
	}
	if err := s.data.Import(r.Context(), &doc, merge); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Persons:      len(doc.Persons),
		Transactions: len(doc.Transactions),
	})
}
