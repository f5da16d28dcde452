package syllable

import (
	"strings"

	"flowread-backend/internal/models"
)

// Tokenize splits text on whitespace runs and annotates every token with its
// syllables and per-syllable vowel offsets. Token order is preserved and
// empty tokens are dropped; the result length equals the number of
// whitespace-delimited tokens. Pure function, linear in the input.
func Tokenize(text string) []models.WordAnnotation {
	tokens := strings.Fields(text)
	words := make([]models.WordAnnotation, len(tokens))
	for i, tok := range tokens {
		words[i] = annotate(tok)
	}
	return words
}

func annotate(token string) models.WordAnnotation {
	syllables := Split(token)
	vowels := make([][]int, len(syllables))
	for i, syl := range syllables {
		vowels[i] = VowelIndices(syl)
	}
	return models.WordAnnotation{
		Text:      token,
		Syllables: syllables,
		Vowels:    vowels,
	}
}

// TokenizeParallel produces the same output as Tokenize using a fixed pool
// of workers over contiguous token chunks. Every token is annotated
// independently, so workers write disjoint slices of the result and need no
// locking. Useful for large uploads where tokenization bounds request
// latency.
func TokenizeParallel(text string, workers int) []models.WordAnnotation {
	tokens := strings.Fields(text)
	if workers < 2 || len(tokens) < workers*64 {
		words := make([]models.WordAnnotation, len(tokens))
		for i, tok := range tokens {
			words[i] = annotate(tok)
		}
		return words
	}

	words := make([]models.WordAnnotation, len(tokens))
	chunk := (len(tokens) + workers - 1) / workers

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(tokens) {
			break
		}
		if end > len(tokens) {
			end = len(tokens)
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				words[i] = annotate(tokens[i])
			}
			done <- struct{}{}
		}(start, end)
	}
	launched := (len(tokens) + chunk - 1) / chunk
	for i := 0; i < launched; i++ {
		<-done
	}
	return words
}
