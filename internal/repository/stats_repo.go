package repository

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"flowread-backend/internal/models"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Aggregate computes the fixed set of reading stats in two queries. There is
// deliberately no generic aggregation surface; these are the only
// aggregates the application uses.
func (r *StatsRepo) Aggregate(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}

	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, err
	}

	var avgSpeed float64
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(words_read), 0),
			COALESCE(SUM(time_spent), 0),
			COUNT(*) FILTER (WHERE completed),
			COALESCE(AVG(speed_wpm), 0)
		FROM reading_sessions
	`).Scan(&stats.TotalWordsRead, &stats.TotalTimeSpent, &stats.DocumentsCompleted, &avgSpeed)
	if err != nil {
		return nil, err
	}

	stats.AverageSpeed = int(math.Round(avgSpeed))
	return stats, nil
}
