package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hallmate/internal/httputil"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// DocumentHandler serves shared links to course material.
type DocumentHandler struct {
	store storage.Store
}

// NewDocumentHandler creates the document handler.
func NewDocumentHandler(store storage.Store) *DocumentHandler {
	return &DocumentHandler{store: store}
}

type createDocumentRequest struct {
	Title    string `json:"title"`
	Course   string `json:"course"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Link     string `json:"link"`
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Link) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title and link are required")
		return
	}

	doc := &models.Document{
		Title:    strings.TrimSpace(req.Title),
		Course:   strings.TrimSpace(req.Course),
		Category: strings.TrimSpace(req.Category),
		Type:     strings.TrimSpace(req.Type),
		Link:     strings.TrimSpace(req.Link),
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListDocuments(r.Context(), r.URL.Query().Get("course"), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDocument(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "document not found")
			return
		}
		httputil.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
