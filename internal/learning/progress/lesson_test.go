package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeLessonCompletesWhenAllLearned(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	words := []WordState{
		{WordID: uuid.New(), Accuracy: 100, IsLearned: true},
		{WordID: uuid.New(), Accuracy: 80, IsLearned: true},
	}
	out := RecomputeLesson(LessonState{}, words, 2, now)
	require.True(t, out.CompletedNow)
	require.NotNil(t, out.State.CompletedAt)
	assert.True(t, out.State.CompletedAt.Equal(now))
	assert.Equal(t, 90.0, out.State.Accuracy)
	assert.Equal(t, 2, out.State.TimeSpentMinutes)
}

func TestRecomputeLessonUnattemptedWordsCountZero(t *testing.T) {
	words := []WordState{
		{WordID: uuid.New(), Accuracy: 100},
		{WordID: uuid.New()},
	}
	out := RecomputeLesson(LessonState{}, words, 0, time.Now())
	assert.False(t, out.State.IsCompleted)
	assert.Equal(t, 50.0, out.State.Accuracy)
}

func TestRecomputeLessonEmptyNeverCompletes(t *testing.T) {
	out := RecomputeLesson(LessonState{}, nil, 0, time.Now())
	assert.False(t, out.State.IsCompleted)
	assert.False(t, out.CompletedNow)
	assert.Equal(t, 0.0, out.State.Accuracy)
}

func TestRecomputeLessonStickyAfterNewWord(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	done := RecomputeLesson(LessonState{}, []WordState{{WordID: uuid.New(), Accuracy: 100, IsLearned: true}}, 0, first)
	require.True(t, done.State.IsCompleted)

	words := []WordState{
		{WordID: uuid.New(), Accuracy: 100, IsLearned: true},
		{WordID: uuid.New()},
	}
	again := RecomputeLesson(done.State, words, 0, first.Add(time.Hour))
	assert.True(t, again.State.IsCompleted)
	assert.False(t, again.CompletedNow)
	assert.True(t, again.State.CompletedAt.Equal(first))
}

func TestRecomputeLessonIdempotent(t *testing.T) {
	words := []WordState{{WordID: uuid.New(), Accuracy: 60}}
	now := time.Now()
	a := RecomputeLesson(LessonState{TimeSpentMinutes: 4}, words, 0, now)
	b := RecomputeLesson(a.State, words, 0, now)
	assert.Equal(t, a.State, b.State)
}
