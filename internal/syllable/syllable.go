// Package syllable splits words into syllables and locates their vowels for
// color-coded rendering. Splitting is rule-based (vowel-group scan with
// consonant-cluster and silent-e handling) rather than dictionary-perfect:
// the output feeds visual chunking, not linguistics.
package syllable

import "strings"

// Consonant pairs that normally begin a syllable and are not split.
var onsetClusters = map[string]bool{
	"bl": true, "br": true, "ch": true, "cl": true, "cr": true,
	"dr": true, "fl": true, "fr": true, "gl": true, "gr": true,
	"ph": true, "pl": true, "pr": true, "qu": true, "sh": true,
	"sk": true, "sl": true, "sm": true, "sn": true, "sp": true,
	"st": true, "sw": true, "th": true, "tr": true, "tw": true,
	"wh": true, "wr": true,
}

func isVowelRune(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

// A nucleus rune seeds a syllable. 'y' counts except word-initially
// ("yellow" starts with a consonant sound, "syllable" does not).
func isNucleusRune(r rune, pos int) bool {
	if isVowelRune(r) {
		return true
	}
	return (r == 'y' || r == 'Y') && pos > 0
}

type span struct {
	start, end int // rune offsets, half-open
}

// Split breaks word into syllable substrings. It is total: any input,
// including the empty string, numbers, and punctuation-only tokens, yields at
// least one element, and the concatenation of the result is always exactly
// the input. Same input, same output.
func Split(word string) []string {
	runes := []rune(word)
	if len(runes) <= 3 {
		return []string{word}
	}

	nuclei := findNuclei(runes)
	nuclei = dropSilentE(runes, nuclei)
	if len(nuclei) < 2 {
		return []string{word}
	}

	cuts := make([]int, 0, len(nuclei)-1)
	for k := 0; k+1 < len(nuclei); k++ {
		cut := boundary(runes, nuclei[k].end, nuclei[k+1].start)
		if cut > 0 && cut < len(runes) {
			cuts = append(cuts, cut)
		}
	}
	if len(cuts) == 0 {
		return []string{word}
	}

	parts := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, cut := range cuts {
		parts = append(parts, string(runes[prev:cut]))
		prev = cut
	}
	parts = append(parts, string(runes[prev:]))
	return parts
}

// findNuclei returns the maximal runs of nucleus runes, so vowel digraphs
// ("ea", "ou") stay together.
func findNuclei(runes []rune) []span {
	var nuclei []span
	for i := 0; i < len(runes); {
		if !isNucleusRune(runes[i], i) {
			i++
			continue
		}
		j := i
		for j < len(runes) && isNucleusRune(runes[j], j) {
			j++
		}
		nuclei = append(nuclei, span{i, j})
		i = j
	}
	return nuclei
}

// dropSilentE removes a trailing lone-'e' nucleus ("house", "came") so it
// does not spawn a syllable of its own. A final consonant+"le" keeps its
// nucleus ("ta-ble", "lit-tle").
func dropSilentE(runes []rune, nuclei []span) []span {
	n := len(nuclei)
	if n < 2 {
		return nuclei
	}
	last := nuclei[n-1]
	if last.end-last.start != 1 {
		return nuclei
	}
	if r := runes[last.start]; r != 'e' && r != 'E' {
		return nuclei
	}
	// Only a word-final e is silent; "er", "ed", "es" endings keep theirs.
	for i := last.end; i < len(runes); i++ {
		if isLetter(runes[i]) {
			return nuclei
		}
	}
	if prev := runes[last.start-1]; prev == 'l' || prev == 'L' {
		return nuclei
	}
	return nuclei[:n-1]
}

// boundary picks the cut position inside the consonant gap [gapStart,gapEnd)
// between two nuclei: V-CV for a single consonant, VC-CV for two unless they
// form an onset cluster, and after the first consonant for longer runs
// unless the tail starts a cluster or a final "-Cle".
func boundary(runes []rune, gapStart, gapEnd int) int {
	switch n := gapEnd - gapStart; {
	case n <= 0:
		return -1
	case n == 1:
		return gapStart
	case n == 2:
		if isOnset(runes[gapStart:gapEnd]) {
			return gapStart
		}
		return gapStart + 1
	default:
		if isOnset(runes[gapEnd-2 : gapEnd]) {
			return gapEnd - 2
		}
		if r := runes[gapEnd-1]; r == 'l' || r == 'L' {
			return gapEnd - 2
		}
		return gapStart + 1
	}
}

func isOnset(pair []rune) bool {
	return onsetClusters[strings.ToLower(string(pair))]
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// VowelIndices returns the ascending byte offsets of the ASCII vowels
// (a, e, i, o, u, either case) in syl. 'y' is deliberately a consonant here:
// the reader highlights a fixed vowel set, it does not do phonetics.
func VowelIndices(syl string) []int {
	indices := []int{}
	for i := 0; i < len(syl); i++ {
		switch syl[i] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			indices = append(indices, i)
		}
	}
	return indices
}
