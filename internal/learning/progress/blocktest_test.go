package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizScoreSixAnswersFiveCorrect(t *testing.T) {
	assert.Equal(t, 83.33, QuizScore(5, 6))
	assert.True(t, QuizPassed(5, 6, 80))
}

func TestQuizScoreBoundaries(t *testing.T) {
	assert.Equal(t, 0.0, QuizScore(0, 0))
	assert.Equal(t, 80.0, QuizScore(8, 10))
	assert.True(t, QuizPassed(8, 10, 80))
	assert.False(t, QuizPassed(7, 10, 80))
	assert.False(t, QuizPassed(0, 0, 80))
	assert.True(t, QuizPassed(0, 0, 0))
}

func TestQuizPassedUsesUnroundedRatio(t *testing.T) {
	// 19999/25000 is 79.996%, stored as 80.00.
	assert.Equal(t, 80.0, QuizScore(19999, 25000))
	assert.False(t, QuizPassed(19999, 25000, 80))
	assert.True(t, QuizPassed(20000, 25000, 80))
}

func TestAnswerMatches(t *testing.T) {
	assert.True(t, AnswerMatches("  Apple ", "apple"))
	assert.True(t, AnswerMatches("ЯБЛОКО", "яблоко"))
	assert.False(t, AnswerMatches("apples", "apple"))
	assert.False(t, AnswerMatches("", "apple"))
}

func TestSampleWithoutReplacement(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	got := SampleWithoutReplacement(items, DefaultTestSampleSize, nil)
	require.Len(t, got, 10)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
	}

	few := SampleWithoutReplacement(items[:3], DefaultTestSampleSize, nil)
	assert.ElementsMatch(t, []int{1, 2, 3}, few)

	identity := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	assert.Equal(t, []int{1, 2}, SampleWithoutReplacement(items, 2, identity))
	assert.Empty(t, SampleWithoutReplacement([]int{}, 5, nil))
}
