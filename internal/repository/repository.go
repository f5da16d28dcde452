// Package repository defines the persistence interfaces for documents, word
// annotations and reading sessions, plus their PostgreSQL implementation.
// A file-backed fallback lives in the filestore subpackage; the two are
// selected at process start and injected, never referenced as globals.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"flowread-backend/internal/models"
)

// ErrNotFound is returned when a referenced document or session is absent.
var ErrNotFound = errors.New("record not found")

type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WordStore persists the word-annotation sequence of a document as one
// record keyed by document id. Written once at upload, read-only after.
type WordStore interface {
	Put(ctx context.Context, documentID uuid.UUID, words []models.WordAnnotation) error
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.WordAnnotation, error)
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
}

type SessionStore interface {
	Create(ctx context.Context, s *models.ReadingSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReadingSession, error)
	// GetLatestByDocumentID returns the session with the newest last_updated,
	// or ErrNotFound when the document has no sessions yet.
	GetLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.ReadingSession, error)
	// Update merges the non-nil fields of upd into the stored record,
	// last write wins, and stamps last_updated server-side.
	Update(ctx context.Context, id uuid.UUID, upd models.SessionUpdate) error
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
}

type StatsStore interface {
	Aggregate(ctx context.Context) (*models.Stats, error)
}

// Stores bundles the four stores for injection into the handlers.
type Stores struct {
	Documents DocumentStore
	Words     WordStore
	Sessions  SessionStore
	Stats     StatsStore
}
