package syllable

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		word     string
		expected []string
	}{
		{"cat", []string{"cat"}},
		{"The", []string{"The"}},
		{"sat.", []string{"sat."}},
		{"paper", []string{"pa", "per"}},
		{"winter", []string{"win", "ter"}},
		{"table", []string{"ta", "ble"}},
		{"little", []string{"lit", "tle"}},
		{"syllable", []string{"syl", "la", "ble"}},
		{"yellow", []string{"yel", "low"}},
		{"house", []string{"house"}},
		{"house.", []string{"house."}},
	}

	for _, tc := range tests {
		t.Run(tc.word, func(t *testing.T) {
			result := Split(tc.word)
			if len(result) != len(tc.expected) {
				t.Fatalf("Split(%q) = %v, expected %v", tc.word, result, tc.expected)
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("Split(%q)[%d] = %q, expected %q", tc.word, i, result[i], tc.expected[i])
				}
			}
		})
	}
}

func TestSplitTotality(t *testing.T) {
	inputs := []string{
		"",
		".",
		"...",
		"1234",
		"123.45",
		"don't",
		"e-mail",
		"(parenthetical)",
		"UPPERCASE",
		"extraordinarily",
		"a",
		"naïve",
		"日本語",
	}

	for _, word := range inputs {
		t.Run(word, func(t *testing.T) {
			result := Split(word)
			if len(result) == 0 {
				t.Fatalf("Split(%q) returned empty sequence", word)
			}
			if joined := strings.Join(result, ""); joined != word {
				t.Errorf("Split(%q) concatenation = %q, expected original word", word, joined)
			}
		})
	}
}

func TestSplitDeterminism(t *testing.T) {
	word := "determinism"
	first := Split(word)
	for i := 0; i < 100; i++ {
		again := Split(word)
		if len(again) != len(first) {
			t.Fatalf("Split(%q) changed between calls: %v vs %v", word, first, again)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("Split(%q) changed between calls: %v vs %v", word, first, again)
			}
		}
	}
}

func TestVowelIndices(t *testing.T) {
	tests := []struct {
		syllable string
		expected []int
	}{
		{"cat", []int{1}},
		{"queue", []int{1, 2, 3, 4}},
		{"rhythm", []int{}},
		{"AEIOU", []int{0, 1, 2, 3, 4}},
		{"why", []int{}},
		{"", []int{}},
		{"b2b", []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.syllable, func(t *testing.T) {
			result := VowelIndices(tc.syllable)
			if len(result) != len(tc.expected) {
				t.Fatalf("VowelIndices(%q) = %v, expected %v", tc.syllable, result, tc.expected)
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("VowelIndices(%q)[%d] = %d, expected %d", tc.syllable, i, result[i], tc.expected[i])
				}
			}
		})
	}
}

func TestVowelIndicesValidity(t *testing.T) {
	vowels := "aeiouAEIOU"

	for _, syl := range []string{"reading", "strengths", "Xylophone", "ou", "123abc"} {
		indices := VowelIndices(syl)
		seen := make(map[int]bool)
		for _, i := range indices {
			if i < 0 || i >= len(syl) {
				t.Errorf("VowelIndices(%q) produced out-of-range index %d", syl, i)
				continue
			}
			if !strings.ContainsRune(vowels, rune(syl[i])) {
				t.Errorf("VowelIndices(%q) index %d points at non-vowel %q", syl, i, syl[i])
			}
			seen[i] = true
		}
		// Completeness: every vowel position must be reported.
		for i := 0; i < len(syl); i++ {
			if strings.ContainsRune(vowels, rune(syl[i])) && !seen[i] {
				t.Errorf("VowelIndices(%q) missed vowel at index %d", syl, i)
			}
		}
	}
}
