package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flowread-backend/internal/cache"
	"flowread-backend/internal/models"
	"flowread-backend/internal/repository"
	"flowread-backend/internal/services"
	"flowread-backend/internal/syllable"
)

type DocumentHandler struct {
	docs             repository.DocumentStore
	words            repository.WordStore
	sessions         repository.SessionStore
	extract          *services.ExtractService
	wordCache        *cache.WordCache
	maxUploadBytes   int64
	tokenizerWorkers int
}

func NewDocumentHandler(
	docs repository.DocumentStore,
	words repository.WordStore,
	sessions repository.SessionStore,
	extract *services.ExtractService,
	wordCache *cache.WordCache,
	maxUploadBytes int64,
	tokenizerWorkers int,
) *DocumentHandler {
	return &DocumentHandler{
		docs:             docs,
		words:            words,
		sessions:         sessions,
		extract:          extract,
		wordCache:        wordCache,
		maxUploadBytes:   maxUploadBytes,
		tokenizerWorkers: tokenizerWorkers,
	}
}

// Upload extracts and tokenizes a document synchronously within the request.
// The upload either completes with both the document and its word record
// stored, or fails with nothing persisted.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		if maxBytesExceeded(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if maxBytesExceeded(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	format := fileType(header.Filename)
	text, err := h.extract.ExtractBytes(data, format)
	if err != nil {
		var extractionErr *services.ExtractionError
		if errors.As(err, &extractionErr) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorResp("EXTRACTION_FAILED", extractionErr.Error(), r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Extraction failed", r))
		return
	}

	annotations := syllable.TokenizeParallel(text, h.tokenizerWorkers)

	doc := &models.Document{
		ID:        uuid.New(),
		Title:     header.Filename,
		FileType:  format,
		WordCount: len(annotations),
	}

	// Document first: document_words references documents, so the parent row
	// must exist before the words insert.
	if err := h.docs.Create(r.Context(), doc); err != nil {
		log.Printf("upload: creating document %s failed: %v", doc.ID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store document", r))
		return
	}
	if err := h.words.Put(r.Context(), doc.ID, annotations); err != nil {
		log.Printf("upload: storing words for %s failed: %v", doc.ID, err)
		if derr := h.docs.Delete(r.Context(), doc.ID); derr != nil {
			log.Printf("upload: cleanup of document %s failed: %v", doc.ID, derr)
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store document", r))
		return
	}

	h.wordCache.Set(r.Context(), doc.ID, annotations)

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list documents", r))
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	doc, err := h.docs.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load document", r))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetWords serves the immutable annotation sequence, read through the cache.
func (h *DocumentHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	if words, ok := h.wordCache.Get(r.Context(), id); ok {
		writeJSON(w, http.StatusOK, models.DocumentWords{DocumentID: id, Words: words})
		return
	}

	words, err := h.words.GetByDocumentID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Words not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load words", r))
		return
	}

	h.wordCache.Set(r.Context(), id, words)
	writeJSON(w, http.StatusOK, models.DocumentWords{DocumentID: id, Words: words})
}

// Delete removes the document, its word record and all its sessions.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	if err := h.docs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete document", r))
		return
	}

	if err := h.words.DeleteByDocumentID(r.Context(), id); err != nil {
		log.Printf("delete: words cascade for %s failed: %v", id, err)
	}
	if err := h.sessions.DeleteByDocumentID(r.Context(), id); err != nil {
		log.Printf("delete: sessions cascade for %s failed: %v", id, err)
	}
	h.wordCache.Delete(r.Context(), id)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// maxBytesExceeded reports whether err came from the MaxBytesReader cap.
// Chunked uploads carry no Content-Length, so the limit can first surface
// mid-parse instead of at the up-front length check.
func maxBytesExceeded(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func fileType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "pdf", "docx":
		return ext
	default:
		return "txt"
	}
}
