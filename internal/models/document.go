package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileType  string    `json:"file_type"` // "pdf" | "docx" | "txt"
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// WordAnnotation is one whitespace-delimited token of a document, split into
// syllables with the vowel offsets of each syllable. Invariant:
// len(Vowels) == len(Syllables), and every index in Vowels[i] is a valid
// offset into Syllables[i].
type WordAnnotation struct {
	Text      string   `json:"text"`
	Syllables []string `json:"syllables"`
	Vowels    [][]int  `json:"vowels"`
}

// DocumentWords is the full annotation sequence of one document, stored as a
// single record keyed by document id. Immutable after upload.
type DocumentWords struct {
	DocumentID uuid.UUID        `json:"document_id"`
	Words      []WordAnnotation `json:"words"`
}
