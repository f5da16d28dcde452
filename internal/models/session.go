package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinSpeedWPM = 50
	MaxSpeedWPM = 1000
)

// ReadingSession is one reading pass over a document. Many sessions may exist
// per document; the application always resumes the latest by LastUpdated.
type ReadingSession struct {
	ID               uuid.UUID `json:"id"`
	DocumentID       uuid.UUID `json:"document_id"`
	CurrentWordIndex int       `json:"current_word_index"`
	TotalWords       int       `json:"total_words"`
	WordsRead        int       `json:"words_read"`
	TimeSpent        float64   `json:"time_spent"` // seconds
	SpeedWPM         int       `json:"speed_wpm"`
	Completed        bool      `json:"completed"`
	LastUpdated      time.Time `json:"last_updated"`
	CreatedAt        time.Time `json:"created_at"`
}

// SessionUpdate is a partial, last-write-wins progress snapshot. Identity
// fields sent by a client are stripped before the merge, never rejected.
type SessionUpdate struct {
	CurrentWordIndex *int     `json:"current_word_index,omitempty"`
	WordsRead        *int     `json:"words_read,omitempty"`
	TimeSpent        *float64 `json:"time_spent,omitempty"`
	SpeedWPM         *int     `json:"speed_wpm,omitempty"`
	Completed        *bool    `json:"completed,omitempty"`
}

// ClampSpeed forces wpm into the supported playback range.
func ClampSpeed(wpm int) int {
	if wpm < MinSpeedWPM {
		return MinSpeedWPM
	}
	if wpm > MaxSpeedWPM {
		return MaxSpeedWPM
	}
	return wpm
}

// Stats is the aggregate view across all documents and sessions.
type Stats struct {
	TotalDocuments     int     `json:"total_documents"`
	TotalWordsRead     int     `json:"total_words_read"`
	TotalTimeSpent     float64 `json:"total_time_spent"`
	DocumentsCompleted int     `json:"documents_completed"`
	AverageSpeed       int     `json:"average_speed"`
}
