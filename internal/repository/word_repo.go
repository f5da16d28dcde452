package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowread-backend/internal/models"
)

type WordRepo struct {
	pool *pgxpool.Pool
}

func NewWordRepo(pool *pgxpool.Pool) *WordRepo {
	return &WordRepo{pool: pool}
}

func (r *WordRepo) Put(ctx context.Context, documentID uuid.UUID, words []models.WordAnnotation) error {
	payload, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO document_words (document_id, words) VALUES ($1, $2)
		 ON CONFLICT (document_id) DO UPDATE SET words = EXCLUDED.words`,
		documentID, payload)
	return err
}

func (r *WordRepo) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.WordAnnotation, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		"SELECT words FROM document_words WHERE document_id = $1", documentID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var words []models.WordAnnotation
	if err := json.Unmarshal(payload, &words); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	return words, nil
}

func (r *WordRepo) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM document_words WHERE document_id = $1", documentID)
	return err
}
