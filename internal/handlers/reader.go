package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"flowread-backend/internal/cache"
	"flowread-backend/internal/models"
	"flowread-backend/internal/playback"
	"flowread-backend/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// snapshotEvery bounds how much progress a crash can lose while playing.
const snapshotEvery = 5 * time.Second

// ReaderHandler hosts the server-paced reading stream: one WebSocket per
// open reader, one playback player per socket. The socket goroutine owns
// the player, so commands and clock ticks are processed strictly one at a
// time.
type ReaderHandler struct {
	docs      repository.DocumentStore
	words     repository.WordStore
	sessions  repository.SessionStore
	wordCache *cache.WordCache
	clock     playback.Clock
}

func NewReaderHandler(
	docs repository.DocumentStore,
	words repository.WordStore,
	sessions repository.SessionStore,
	wordCache *cache.WordCache,
	clock playback.Clock,
) *ReaderHandler {
	return &ReaderHandler{
		docs:      docs,
		words:     words,
		sessions:  sessions,
		wordCache: wordCache,
		clock:     clock,
	}
}

type readerCommand struct {
	Action string `json:"action"` // play, pause, step, speed, bookmark, snapshot
	Delta  int    `json:"delta,omitempty"`
	WPM    int    `json:"wpm,omitempty"`
}

type readerFrame struct {
	Type     string                 `json:"type"` // session, word, state
	State    string                 `json:"state,omitempty"`
	Index    int                    `json:"index"`
	Word     *models.WordAnnotation `json:"word,omitempty"`
	Session  *models.ReadingSession `json:"session,omitempty"`
	Bookmark bool                   `json:"bookmark_set"`
}

// Stream upgrades to a WebSocket and drives playback for one document. The
// latest session is resumed when one exists, otherwise a new session is
// created at the requested (or default) speed.
func (h *ReaderHandler) Stream(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "docId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
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

	words, ok := h.wordCache.Get(r.Context(), docID)
	if !ok {
		words, err = h.words.GetByDocumentID(r.Context(), docID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load words", r))
			return
		}
		h.wordCache.Set(r.Context(), docID, words)
	}

	session, err := h.resumeOrCreate(r, doc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to open session", r))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("reader: WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.run(conn, *session, words)
}

// resumeOrCreate loads the most recent session, priming index and speed from
// its persisted snapshot; words_read and time_spent continue from their
// stored totals. A completed latest session means the reader starts over.
func (h *ReaderHandler) resumeOrCreate(r *http.Request, doc *models.Document) (*models.ReadingSession, error) {
	session, err := h.sessions.GetLatestByDocumentID(r.Context(), doc.ID)
	if err == nil && !session.Completed {
		return session, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	speed := 250
	if wpm, err := strconv.Atoi(r.URL.Query().Get("wpm")); err == nil && wpm > 0 {
		speed = wpm
	}
	fresh := &models.ReadingSession{
		DocumentID: doc.ID,
		TotalWords: doc.WordCount,
		SpeedWPM:   models.ClampSpeed(speed),
	}
	if err := h.sessions.Create(r.Context(), fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (h *ReaderHandler) run(conn *websocket.Conn, session models.ReadingSession, words []models.WordAnnotation) {
	ctx := context.Background()
	player := playback.New(session, h.clock, h.sessions)

	commands := make(chan readerCommand)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var cmd readerCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			commands <- cmd
		}
	}()

	snapshots := time.NewTicker(snapshotEvery)
	defer snapshots.Stop()

	h.sendFrame(conn, player, words, "session")

	for {
		select {
		case <-player.TickC():
			player.Tick(ctx)
			h.sendFrame(conn, player, words, "word")
			if player.State() == playback.StateCompleted {
				h.sendFrame(conn, player, words, "state")
			}

		case cmd := <-commands:
			h.apply(ctx, player, cmd)
			h.sendFrame(conn, player, words, "state")

		case <-snapshots.C:
			if player.State() == playback.StatePlaying {
				player.Snapshot(ctx)
			}

		case <-closed:
			// Navigating away: halt the clock, one final best-effort snapshot.
			player.Stop(ctx)
			return
		}
	}
}

func (h *ReaderHandler) apply(ctx context.Context, player *playback.Player, cmd readerCommand) {
	switch cmd.Action {
	case "play":
		player.Play()
	case "pause":
		player.Pause()
		player.Snapshot(ctx)
	case "step":
		if cmd.Delta == 0 {
			cmd.Delta = 1
		}
		player.Step(cmd.Delta)
	case "speed":
		player.SetSpeed(cmd.WPM)
	case "bookmark":
		player.ToggleBookmark()
	case "snapshot":
		player.Snapshot(ctx)
	}
}

func (h *ReaderHandler) sendFrame(conn *websocket.Conn, player *playback.Player, words []models.WordAnnotation, frameType string) {
	s := player.Session()
	frame := readerFrame{
		Type:     frameType,
		State:    player.State().String(),
		Index:    s.CurrentWordIndex,
		Bookmark: player.HasBookmark(),
	}
	if s.CurrentWordIndex >= 0 && s.CurrentWordIndex < len(words) {
		w := words[s.CurrentWordIndex]
		frame.Word = &w
	}
	if frameType == "session" || frameType == "state" {
		frame.Session = &s
	}
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("reader: write to session %s failed: %v", s.ID, err)
	}
}
