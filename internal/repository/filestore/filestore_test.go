package filestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"flowread-backend/internal/models"
	"flowread-backend/internal/repository"
)

func newTestStores(t *testing.T) repository.Stores {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store.Stores()
}

func TestDocumentLifecycle(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	doc := &models.Document{Title: "sample.pdf", FileType: "pdf", WordCount: 120}
	if err := stores.Documents.Create(ctx, doc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if doc.ID == uuid.Nil {
		t.Fatal("Create did not assign an id")
	}
	if doc.CreatedAt.IsZero() {
		t.Fatal("Create did not stamp created_at")
	}

	got, err := stores.Documents.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "sample.pdf" || got.WordCount != 120 {
		t.Errorf("Unexpected document: %+v", got)
	}

	if err := stores.Documents.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := stores.Documents.GetByID(ctx, doc.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := stores.Documents.Delete(ctx, doc.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDocumentListNewestFirst(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	for _, title := range []string{"first.txt", "second.txt", "third.txt"} {
		if err := stores.Documents.Create(ctx, &models.Document{Title: title, FileType: "txt"}); err != nil {
			t.Fatalf("Create %s failed: %v", title, err)
		}
	}

	docs, err := stores.Documents.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(docs))
	}
	if docs[0].Title != "third.txt" || docs[2].Title != "first.txt" {
		t.Errorf("Expected newest first, got %s ... %s", docs[0].Title, docs[2].Title)
	}
}

func TestWordRoundTrip(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := uuid.New()

	words := []models.WordAnnotation{
		{Text: "cat", Syllables: []string{"cat"}, Vowels: [][]int{{1}}},
		{Text: "paper", Syllables: []string{"pa", "per"}, Vowels: [][]int{{1}, {1}}},
	}
	if err := stores.Words.Put(ctx, docID, words); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := stores.Words.GetByDocumentID(ctx, docID)
	if err != nil {
		t.Fatalf("GetByDocumentID failed: %v", err)
	}
	if len(got) != 2 || got[1].Syllables[1] != "per" {
		t.Errorf("Unexpected words: %+v", got)
	}

	if _, err := stores.Words.GetByDocumentID(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestSessionLatestByDocument(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := uuid.New()

	first := &models.ReadingSession{DocumentID: docID, TotalWords: 100, SpeedWPM: 200}
	second := &models.ReadingSession{DocumentID: docID, TotalWords: 100, SpeedWPM: 300}
	if err := stores.Sessions.Create(ctx, first); err != nil {
		t.Fatalf("Create first failed: %v", err)
	}
	if err := stores.Sessions.Create(ctx, second); err != nil {
		t.Fatalf("Create second failed: %v", err)
	}

	// Touching the first session makes it the latest again.
	time.Sleep(5 * time.Millisecond)
	idx := 10
	if err := stores.Sessions.Update(ctx, first.ID, models.SessionUpdate{CurrentWordIndex: &idx}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	latest, err := stores.Sessions.GetLatestByDocumentID(ctx, docID)
	if err != nil {
		t.Fatalf("GetLatestByDocumentID failed: %v", err)
	}
	if latest.ID != first.ID {
		t.Errorf("Expected most recently updated session %s, got %s", first.ID, latest.ID)
	}
	if latest.CurrentWordIndex != 10 {
		t.Errorf("Expected merged index 10, got %d", latest.CurrentWordIndex)
	}

	if _, err := stores.Sessions.GetLatestByDocumentID(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for document without sessions, got %v", err)
	}
}

func TestSessionPartialUpdate(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	sess := &models.ReadingSession{DocumentID: uuid.New(), TotalWords: 50, SpeedWPM: 250, WordsRead: 5, TimeSpent: 3.5}
	if err := stores.Sessions.Create(ctx, sess); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	speed := 9999 // gets clamped
	if err := stores.Sessions.Update(ctx, sess.ID, models.SessionUpdate{SpeedWPM: &speed}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := stores.Sessions.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SpeedWPM != models.MaxSpeedWPM {
		t.Errorf("Expected speed clamped to %d, got %d", models.MaxSpeedWPM, got.SpeedWPM)
	}
	if got.WordsRead != 5 || got.TimeSpent != 3.5 {
		t.Errorf("Untouched fields changed: %+v", got)
	}
	if !got.LastUpdated.After(sess.CreatedAt) && !got.LastUpdated.Equal(sess.CreatedAt) {
		t.Errorf("last_updated not stamped: %v", got.LastUpdated)
	}

	if err := stores.Sessions.Update(ctx, uuid.New(), models.SessionUpdate{SpeedWPM: &speed}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown session, got %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	doc := &models.Document{Title: "doomed.txt", FileType: "txt", WordCount: 3}
	if err := stores.Documents.Create(ctx, doc); err != nil {
		t.Fatalf("Create document failed: %v", err)
	}
	if err := stores.Words.Put(ctx, doc.ID, []models.WordAnnotation{{Text: "a", Syllables: []string{"a"}, Vowels: [][]int{{0}}}}); err != nil {
		t.Fatalf("Put words failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := stores.Sessions.Create(ctx, &models.ReadingSession{DocumentID: doc.ID, TotalWords: 3, SpeedWPM: 200}); err != nil {
			t.Fatalf("Create session failed: %v", err)
		}
	}

	// The cascade as the handler performs it.
	if err := stores.Sessions.DeleteByDocumentID(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteByDocumentID (sessions) failed: %v", err)
	}
	if err := stores.Words.DeleteByDocumentID(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteByDocumentID (words) failed: %v", err)
	}
	if err := stores.Documents.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete document failed: %v", err)
	}

	if _, err := stores.Words.GetByDocumentID(ctx, doc.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Words survived cascade: %v", err)
	}
	if _, err := stores.Sessions.GetLatestByDocumentID(ctx, doc.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Sessions survived cascade: %v", err)
	}

	stats, err := stores.Stats.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if stats.TotalDocuments != 0 {
		t.Errorf("Expected 0 documents after cascade, got %d", stats.TotalDocuments)
	}
}

func TestAggregateStats(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := stores.Documents.Create(ctx, &models.Document{Title: "d", FileType: "txt"}); err != nil {
			t.Fatalf("Create document failed: %v", err)
		}
	}

	docID := uuid.New()
	sessions := []models.ReadingSession{
		{DocumentID: docID, WordsRead: 100, TimeSpent: 60, SpeedWPM: 200, Completed: true},
		{DocumentID: docID, WordsRead: 50, TimeSpent: 30, SpeedWPM: 400, Completed: false},
	}
	for i := range sessions {
		if err := stores.Sessions.Create(ctx, &sessions[i]); err != nil {
			t.Fatalf("Create session failed: %v", err)
		}
	}

	stats, err := stores.Stats.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("Expected 2 documents, got %d", stats.TotalDocuments)
	}
	if stats.TotalWordsRead != 150 {
		t.Errorf("Expected 150 words read, got %d", stats.TotalWordsRead)
	}
	if stats.TotalTimeSpent != 90 {
		t.Errorf("Expected 90s time spent, got %f", stats.TotalTimeSpent)
	}
	if stats.DocumentsCompleted != 1 {
		t.Errorf("Expected 1 completed, got %d", stats.DocumentsCompleted)
	}
	if stats.AverageSpeed != 300 {
		t.Errorf("Expected average speed 300, got %d", stats.AverageSpeed)
	}
}

func TestEmptyStoreAggregate(t *testing.T) {
	stores := newTestStores(t)

	stats, err := stores.Stats.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate on empty store failed: %v", err)
	}
	if stats.TotalDocuments != 0 || stats.TotalWordsRead != 0 || stats.AverageSpeed != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
