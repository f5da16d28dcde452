// Package filestore is the file-backed fallback persistence used when
// PostgreSQL is unreachable at startup. Each collection lives in one JSON
// file under the data directory; all access is serialized by a single mutex.
// Durability matches the snapshot model: good enough for a single local
// reader, not a concurrent deployment.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"flowread-backend/internal/models"
	"flowread-backend/internal/repository"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Stores exposes the file store behind the repository interfaces, so the
// rest of the application cannot tell it apart from PostgreSQL.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Documents: &documentStore{s},
		Words:     &wordStore{s},
		Sessions:  &sessionStore{s},
		Stats:     &statsStore{s},
	}
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("corrupt collection %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

func save[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ─── Documents ───

type documentStore struct{ *Store }

func (s *documentStore) Create(ctx context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	docs, err := load[models.Document](s.path("documents"))
	if err != nil {
		return err
	}
	docs = append(docs, *d)
	return save(s.path("documents"), docs)
}

func (s *documentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := load[models.Document](s.path("documents"))
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			d := docs[i]
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *documentStore) List(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := load[models.Document](s.path("documents"))
	if err != nil {
		return nil, err
	}
	// Insertion order is oldest first; listing wants newest first.
	out := make([]models.Document, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		out = append(out, docs[i])
	}
	return out, nil
}

func (s *documentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := load[models.Document](s.path("documents"))
	if err != nil {
		return err
	}
	kept := docs[:0]
	found := false
	for _, d := range docs {
		if d.ID == id {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return repository.ErrNotFound
	}
	return save(s.path("documents"), kept)
}

// ─── Word annotations ───

type wordStore struct{ *Store }

func (s *wordStore) Put(ctx context.Context, documentID uuid.UUID, words []models.WordAnnotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[models.DocumentWords](s.path("document_words"))
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].DocumentID == documentID {
			records[i].Words = words
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, models.DocumentWords{DocumentID: documentID, Words: words})
	}
	return save(s.path("document_words"), records)
}

func (s *wordStore) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.WordAnnotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[models.DocumentWords](s.path("document_words"))
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].DocumentID == documentID {
			return records[i].Words, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *wordStore) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[models.DocumentWords](s.path("document_words"))
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	return save(s.path("document_words"), kept)
}

// ─── Reading sessions ───

type sessionStore struct{ *Store }

func (s *sessionStore) Create(ctx context.Context, sess *models.ReadingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	sess.SpeedWPM = models.ClampSpeed(sess.SpeedWPM)
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.LastUpdated = now

	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return err
	}
	sessions = append(sessions, *sess)
	return save(s.path("reading_sessions"), sessions)
}

func (s *sessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ReadingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sess := sessions[i]
			return &sess, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *sessionStore) GetLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.ReadingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return nil, err
	}
	var latest *models.ReadingSession
	for i := range sessions {
		if sessions[i].DocumentID != documentID {
			continue
		}
		if latest == nil || !sessions[i].LastUpdated.Before(latest.LastUpdated) {
			latest = &sessions[i]
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	sess := *latest
	return &sess, nil
}

func (s *sessionStore) Update(ctx context.Context, id uuid.UUID, upd models.SessionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		if upd.CurrentWordIndex != nil {
			sessions[i].CurrentWordIndex = *upd.CurrentWordIndex
		}
		if upd.WordsRead != nil {
			sessions[i].WordsRead = *upd.WordsRead
		}
		if upd.TimeSpent != nil {
			sessions[i].TimeSpent = *upd.TimeSpent
		}
		if upd.SpeedWPM != nil {
			sessions[i].SpeedWPM = models.ClampSpeed(*upd.SpeedWPM)
		}
		if upd.Completed != nil {
			sessions[i].Completed = *upd.Completed
		}
		sessions[i].LastUpdated = time.Now().UTC()
		return save(s.path("reading_sessions"), sessions)
	}
	return repository.ErrNotFound
}

func (s *sessionStore) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return err
	}
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.DocumentID != documentID {
			kept = append(kept, sess)
		}
	}
	return save(s.path("reading_sessions"), kept)
}

// ─── Stats ───

type statsStore struct{ *Store }

func (s *statsStore) Aggregate(ctx context.Context) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := load[models.Document](s.path("documents"))
	if err != nil {
		return nil, err
	}
	sessions, err := load[models.ReadingSession](s.path("reading_sessions"))
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{TotalDocuments: len(docs)}
	speedSum := 0
	for _, sess := range sessions {
		stats.TotalWordsRead += sess.WordsRead
		stats.TotalTimeSpent += sess.TimeSpent
		if sess.Completed {
			stats.DocumentsCompleted++
		}
		speedSum += sess.SpeedWPM
	}
	if len(sessions) > 0 {
		stats.AverageSpeed = int(math.Round(float64(speedSum) / float64(len(sessions))))
	}
	return stats, nil
}
