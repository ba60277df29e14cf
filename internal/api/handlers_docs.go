package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/sustainparse/internal/analysis"
	"github.com/dgallion1/sustainparse/internal/store"
)

// handleListDocuments lists all parsed documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().ListDocuments(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []store.DocumentMeta{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDocumentTree returns the stored section tree for a document.
func (s *Server) handleDocumentTree(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	tree, err := s.orchestrator.Store().Tree(r.Context(), docID)
	if err != nil {
		storeError(w, docID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(tree)
}

// handleDocumentSections returns a document's flat section records. An
// optional path query restricts the result to one subtree.
func (s *Server) handleDocumentSections(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	path := r.URL.Query().Get("path")

	recs, err := s.orchestrator.Store().Sections(r.Context(), docID, path)
	if err != nil {
		storeError(w, docID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":   docID,
		"path":     path,
		"count":    len(recs),
		"sections": recs,
	})
}

// handleDocumentAnalysis computes the disclosure analysis for a document
// from its stored sections.
func (s *Server) handleDocumentAnalysis(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	recs, err := s.orchestrator.Store().Sections(r.Context(), docID, "")
	if err != nil {
		storeError(w, docID, err)
		return
	}

	report := analysis.Analyze(recs, s.cfg.AnalysisConfig())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleDeleteDocument removes a document and its sections.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.Store().DeleteDocument(r.Context(), docID); err != nil {
		storeError(w, docID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}

// handleStats reports service counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().ListDocuments(r.Context())
	if err != nil {
		jsonError(w, "failed to gather stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents":   len(docs),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func storeError(w http.ResponseWriter, docID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found: "+docID, http.StatusNotFound)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}
