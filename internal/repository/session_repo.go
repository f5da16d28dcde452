package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowread-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *models.ReadingSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.SpeedWPM = models.ClampSpeed(s.SpeedWPM)

	query := `INSERT INTO reading_sessions
		(id, document_id, current_word_index, total_words, words_read, time_spent, speed_wpm, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING last_updated, created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.DocumentID, s.CurrentWordIndex, s.TotalWords,
		s.WordsRead, s.TimeSpent, s.SpeedWPM, s.Completed,
	).Scan(&s.LastUpdated, &s.CreatedAt)
}

const sessionColumns = `id, document_id, current_word_index, total_words,
	words_read, time_spent, speed_wpm, completed, last_updated, created_at`

func (r *SessionRepo) scanSession(row pgx.Row) (*models.ReadingSession, error) {
	s := &models.ReadingSession{}
	err := row.Scan(
		&s.ID, &s.DocumentID, &s.CurrentWordIndex, &s.TotalWords,
		&s.WordsRead, &s.TimeSpent, &s.SpeedWPM, &s.Completed,
		&s.LastUpdated, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReadingSession, error) {
	return r.scanSession(r.pool.QueryRow(ctx,
		"SELECT "+sessionColumns+" FROM reading_sessions WHERE id = $1", id))
}

func (r *SessionRepo) GetLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.ReadingSession, error) {
	return r.scanSession(r.pool.QueryRow(ctx,
		"SELECT "+sessionColumns+` FROM reading_sessions
		 WHERE document_id = $1 ORDER BY last_updated DESC LIMIT 1`, documentID))
}

// Update merges the non-nil snapshot fields, last write wins on last_updated.
// Identity fields are not part of SessionUpdate, so a forged payload cannot
// reach them.
func (r *SessionRepo) Update(ctx context.Context, id uuid.UUID, upd models.SessionUpdate) error {
	if upd.SpeedWPM != nil {
		clamped := models.ClampSpeed(*upd.SpeedWPM)
		upd.SpeedWPM = &clamped
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE reading_sessions SET
			current_word_index = COALESCE($2, current_word_index),
			words_read = COALESCE($3, words_read),
			time_spent = COALESCE($4, time_spent),
			speed_wpm = COALESCE($5, speed_wpm),
			completed = COALESCE($6, completed),
			last_updated = NOW()
		WHERE id = $1
	`, id, upd.CurrentWordIndex, upd.WordsRead, upd.TimeSpent, upd.SpeedWPM, upd.Completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepo) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM reading_sessions WHERE document_id = $1", documentID)
	return err
}
