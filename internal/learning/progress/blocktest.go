package progress

import (
	"math/rand/v2"
	"strings"
)

const DefaultTestSampleSize = 10

// SampleWithoutReplacement returns min(n, len(items)) items chosen uniformly.
// perm defaults to math/rand/v2 Perm.
func SampleWithoutReplacement[T any](items []T, n int, perm func(int) []int) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	if perm == nil {
		perm = rand.Perm
	}
	idx := perm(len(items))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]T, 0, n)
	for _, i := range idx[:n] {
		out = append(out, items[i])
	}
	return out
}

// NormalizeAnswer trims and lower-cases free text.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func AnswerMatches(given, canonical string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(canonical)
}

// QuizScore is correct/total*100 rounded to two places for storage, 0 with
// no answers.
func QuizScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(correct)/float64(total)*100, 2)
}

// QuizPassed compares the unrounded ratio against passingScore, so 79.996%
// does not pass an 80% test.
func QuizPassed(correct, total, passingScore int) bool {
	if total <= 0 {
		return passingScore <= 0
	}
	return correct*100 >= passingScore*total
}
