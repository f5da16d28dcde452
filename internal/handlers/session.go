package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flowread-backend/internal/models"
	"flowread-backend/internal/repository"
)

type SessionHandler struct {
	sessions repository.SessionStore
	docs     repository.DocumentStore
}

func NewSessionHandler(sessions repository.SessionStore, docs repository.DocumentStore) *SessionHandler {
	return &SessionHandler{sessions: sessions, docs: docs}
}

// Create starts a fresh session for a document. Callers that want to resume
// fetch the latest session first; creation always begins at word zero.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
		SpeedWPM   int    `json:"speed_wpm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document_id", r))
		return
	}

	doc, err := h.docs.GetByID(r.Context(), docID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load document", r))
		return
	}

	if req.SpeedWPM == 0 {
		req.SpeedWPM = 250
	}

	session := &models.ReadingSession{
		DocumentID: docID,
		TotalWords: doc.WordCount,
		SpeedWPM:   models.ClampSpeed(req.SpeedWPM),
	}
	if err := h.sessions.Create(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetLatest returns the most recently updated session for a document, or a
// JSON null when the document has never been read.
func (h *SessionHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	session, err := h.sessions.GetLatestByDocumentID(r.Context(), docID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load session", r))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Update merges a progress snapshot, last write wins. Identity fields in the
// payload (id, document_id, timestamps) are silently discarded rather than
// rejected; only progress fields ever reach the store.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	var upd models.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.sessions.Update(r.Context(), id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update session", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
