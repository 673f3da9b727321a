package grading

import (
	"fmt"
	"strings"
)

// AcceptThreshold is the minimum similarity percentage for a free-text
// answer to be accepted.
const AcceptThreshold = 50.0

// PerfectThreshold is the similarity percentage treated as a perfect answer.
const PerfectThreshold = 95.0

// MinWordCount is the minimum number of words required in a free-text answer.
const MinWordCount = 2

// Placeholder sentinels used by content authors when a question has no
// reference answer.
var placeholderAnswers = map[string]bool{
	"[correct answer]": true,
	"[Path to answer]": true,
}

// Escape phrases a student may type to move on without a scored answer.
// Candidates are normalized before lookup, so "I don't know", "i dont know",
// and punctuated or extra-spaced typings all land on the same key.
var escapePhrases = map[string]bool{
	"i dont know": true,
}

// Result is the outcome of grading a free-text answer.
type Result struct {
	Accepted   bool
	Message    string
	Similarity float64 // percentage in [0, 100]
}

// Grade scores a student's free-text answer against the reference answer.
// The grading path favors availability: an empty or placeholder reference
// accepts any well-formed answer rather than blocking the student.
func Grade(candidate, reference string) Result {
	if candidate == "" {
		return Result{Accepted: false, Message: "Please write your answer"}
	}

	trimmed := strings.TrimSpace(candidate)
	if len(strings.Fields(trimmed)) < MinWordCount {
		return Result{Accepted: false, Message: "Please write at least 2 words"}
	}

	if escapePhrases[normalize(trimmed)] {
		return Result{Accepted: true, Message: "That's okay! Let's continue."}
	}

	if reference == "" || placeholderAnswers[reference] {
		return Result{Accepted: true, Message: "Answer recorded! ✓"}
	}

	similarity := Similarity(candidate, reference)
	switch {
	case similarity >= PerfectThreshold:
		return Result{Accepted: true, Message: "Perfect! 🌟", Similarity: similarity}
	case similarity >= AcceptThreshold:
		return Result{
			Accepted:   true,
			Message:    fmt.Sprintf("Good effort! (%.0f%% accurate)", similarity),
			Similarity: similarity,
		}
	default:
		return Result{
			Accepted:   false,
			Message:    "Please try again or type 'I don't know'",
			Similarity: similarity,
		}
	}
}

// IsEscapePhrase reports whether the answer is the explicit "I don't know"
// escape phrase. Matching happens on the normalized form, so punctuation
// and extra spaces don't hide it.
func IsEscapePhrase(answer string) bool {
	return escapePhrases[normalize(answer)]
}

// Similarity computes the similarity percentage between two strings after
// normalization.
func Similarity(candidate, reference string) float64 {
	if candidate == "" || reference == "" {
		return 0
	}
	return SimilarityRatio(normalize(candidate), normalize(reference)) * 100
}

// asciiPunctuation matches the punctuation set historically stripped
// before comparison.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// normalize lowercases, collapses whitespace runs, and strips punctuation.
// Punctuation removal happens after whitespace collapsing, so punctuation
// surrounded by spaces leaves a double space behind; both sides of a
// comparison are normalized the same way, so scores are unaffected.
func normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !strings.ContainsRune(asciiPunctuation, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
