package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(rules []Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Type)
	}
	return out
}

func TestEmbeddedLadderParses(t *testing.T) {
	data, err := ladderFS.ReadFile("achievements.yaml")
	require.NoError(t, err)
	l, err := Parse(data)
	require.NoError(t, err)
	assert.Len(t, l.Rules(), 11)
	assert.ElementsMatch(t,
		[]Metric{MetricLearnedWords, MetricCompletedLessons, MetricCompletedBlocks, MetricCurrentStreak},
		l.Metrics())
}

func TestQualifyingLearnedWords(t *testing.T) {
	l, err := NewLadder(fallbackRules)
	require.NoError(t, err)

	assert.Empty(t, l.Qualifying(Counters{}))
	assert.Equal(t, []string{"first_words"}, types(l.Qualifying(Counters{LearnedWords: 1})))
	assert.Equal(t, []string{"first_words"}, types(l.Qualifying(Counters{LearnedWords: 9})))
	assert.Equal(t, []string{"first_words", "words_10", "words_50"}, types(l.Qualifying(Counters{LearnedWords: 50})))
}

func TestQualifyingIsPure(t *testing.T) {
	l, err := NewLadder(fallbackRules)
	require.NoError(t, err)
	c := Counters{LearnedWords: 12}
	assert.Equal(t, l.Qualifying(c), l.Qualifying(c))
}

func TestQualifyingMixedMetrics(t *testing.T) {
	data, err := ladderFS.ReadFile("achievements.yaml")
	require.NoError(t, err)
	l, err := Parse(data)
	require.NoError(t, err)

	got := types(l.Qualifying(Counters{CompletedBlocks: 1, CompletedLessons: 2, CurrentStreak: 7}))
	assert.ElementsMatch(t, []string{"block_completed", "first_lesson", "streak_3", "streak_7"}, got)
}

func TestNewLadderRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"empty", nil},
		{"missing type", []Rule{{Metric: MetricLearnedWords, Threshold: 1}}},
		{"duplicate", []Rule{{Type: "a", Metric: MetricLearnedWords, Threshold: 1}, {Type: "a", Metric: MetricLearnedWords, Threshold: 2}}},
		{"unknown metric", []Rule{{Type: "a", Metric: "xp", Threshold: 1}}},
		{"zero threshold", []Rule{{Type: "a", Metric: MetricLearnedWords}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLadder(tt.rules)
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsWrongHeader(t *testing.T) {
	_, err := Parse([]byte("ladder: other\nrules: []\n"))
	assert.Error(t, err)
}

func TestDefaultReadsOverride(t *testing.T) {
	// Default caches on first use, so only the loader is exercised here.
	t.Setenv(ladderEnv, "")
	data, err := readLadder()
	require.NoError(t, err)
	assert.Contains(t, string(data), "first_words")
}
