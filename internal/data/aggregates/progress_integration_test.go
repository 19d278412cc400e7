package aggregates_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/lexiprogress-backend/internal/data/aggregates/testutil"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
)

func TestRecordAttemptThreeCorrectThenWrong(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l := f.lesson(b.ID, 1)
	w := f.word(l.ID, 1, "apple", "яблоко")
	at := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	first := f.attempt(agg, u.ID, w.ID, true, at)
	if !first.MasteryCreated {
		t.Fatalf("first attempt should create mastery")
	}
	if first.Mastery.IsLearned {
		t.Fatalf("one attempt must not mark learned")
	}
	f.attempt(agg, u.ID, w.ID, true, at.Add(time.Minute))
	third := f.attempt(agg, u.ID, w.ID, true, at.Add(2*time.Minute))
	if !third.Mastery.IsLearned || !third.BecameLearned {
		t.Fatalf("third correct attempt should learn the word: %+v", third.Mastery)
	}
	if !third.LessonCompleted || !third.BlockCompleted {
		t.Fatalf("single-word lesson and block should complete: lesson=%v block=%v", third.LessonCompleted, third.BlockCompleted)
	}
	got := achievementTypes(third.NewAchievements)
	for _, want := range []string{"first_words", "first_lesson", "block_completed"} {
		if !got[want] {
			t.Fatalf("expected achievement %s, got %+v", want, got)
		}
	}

	fourth := f.attempt(agg, u.ID, w.ID, false, at.Add(3*time.Minute))
	if !fourth.Mastery.IsLearned {
		t.Fatalf("learned flag must be sticky")
	}
	if fourth.Mastery.TotalAttempts != 4 || fourth.Mastery.CorrectCount != 3 || fourth.Mastery.Accuracy != 75 {
		t.Fatalf("unexpected mastery after wrong answer: %+v", fourth.Mastery)
	}
	if fourth.LessonCompleted || fourth.BlockCompleted || len(fourth.NewAchievements) != 0 {
		t.Fatalf("nothing should newly complete or be earned: %+v", fourth)
	}

	lp, err := f.repos.LessonProgress.GetByUserAndLesson(f.dbc(), u.ID, l.ID)
	if err != nil || lp == nil {
		t.Fatalf("lesson progress: %v", err)
	}
	if !lp.IsCompleted || lp.Accuracy != 75 || lp.CompletedAt == nil {
		t.Fatalf("unexpected lesson progress: %+v", lp)
	}
	if lp.TimeSpentMinutes != 0 {
		t.Fatalf("30s attempts floor to zero minutes, got %d", lp.TimeSpentMinutes)
	}

	day, err := f.repos.Daily.GetByUserAndDate(f.dbc(), u.ID, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	if err != nil || day == nil {
		t.Fatalf("daily progress: %v", err)
	}
	if day.WordsLearned != 1 || day.LessonsCompleted != 1 || day.Accuracy != 75 {
		t.Fatalf("unexpected daily progress: %+v", day)
	}

	if n := f.events.Count(events.TypeAttemptRecorded); n != 4 {
		t.Fatalf("attempt events: want=4 got=%d", n)
	}
	if f.events.Count(events.TypeLessonCompleted) != 1 || f.events.Count(events.TypeBlockCompleted) != 1 {
		t.Fatalf("unexpected completion events: %v", f.events.Types())
	}
	if len(f.hooks.Attempts) != 4 {
		t.Fatalf("attempt hooks: %+v", f.hooks.Attempts)
	}
}

func TestRecordAttemptTwoWordLessonCompletesBlock(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l := f.lesson(b.ID, 1)
	w1 := f.word(l.ID, 1, "cat", "кот")
	w2 := f.word(l.ID, 2, "dog", "собака")
	at := time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)

	var res domainagg.RecordAttemptResult
	for i := 0; i < 3; i++ {
		res = f.attempt(agg, u.ID, w1.ID, true, at)
	}
	if res.LessonCompleted {
		t.Fatalf("lesson must wait for every active word")
	}
	if res.LessonAccuracy != 50 {
		t.Fatalf("unattempted word counts as 0: want=50 got=%v", res.LessonAccuracy)
	}
	for i := 0; i < 3; i++ {
		res = f.attempt(agg, u.ID, w2.ID, true, at)
	}
	if !res.LessonCompleted || !res.BlockCompleted {
		t.Fatalf("second learned word should complete lesson and block: %+v", res)
	}

	bp, err := f.repos.BlockProgress.GetByUserAndBlock(f.dbc(), u.ID, b.ID)
	if err != nil || bp == nil {
		t.Fatalf("block progress: %v", err)
	}
	if !bp.IsCompleted || bp.LessonsCompleted != 1 || bp.TotalLessons != 1 || bp.OverallAccuracy != 100 {
		t.Fatalf("unexpected block progress: %+v", bp)
	}
}

func TestRecordAttemptBlockTracksLiveLessonCount(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l1 := f.lesson(b.ID, 1)
	f.lesson(b.ID, 2)
	w := f.word(l1.ID, 1, "sun", "солнце")
	at := time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC)

	var res domainagg.RecordAttemptResult
	for i := 0; i < 3; i++ {
		res = f.attempt(agg, u.ID, w.ID, true, at)
	}
	if !res.LessonCompleted {
		t.Fatalf("lesson 1 should complete")
	}
	if res.BlockCompleted {
		t.Fatalf("block has a second active lesson")
	}
	bp, err := f.repos.BlockProgress.GetByUserAndBlock(f.dbc(), u.ID, b.ID)
	if err != nil || bp == nil {
		t.Fatalf("block progress: %v", err)
	}
	if bp.TotalLessons != 2 || bp.LessonsCompleted != 1 || bp.IsCompleted {
		t.Fatalf("unexpected block progress: %+v", bp)
	}
}

func TestRecordAttemptValidation(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l1 := f.lesson(b.ID, 1)
	l2 := f.lesson(b.ID, 2)
	w := f.word(l1.ID, 1, "tree", "дерево")

	cases := []struct {
		name string
		in   domainagg.RecordAttemptInput
		code domainagg.ErrorCode
	}{
		{"missing user", domainagg.RecordAttemptInput{WordID: w.ID}, domainagg.CodeValidation},
		{"missing word", domainagg.RecordAttemptInput{UserID: u.ID}, domainagg.CodeValidation},
		{"negative time", domainagg.RecordAttemptInput{UserID: u.ID, WordID: w.ID, TimeSpentSeconds: -1}, domainagg.CodeValidation},
		{"unknown word", domainagg.RecordAttemptInput{UserID: u.ID, WordID: uuid.New()}, domainagg.CodeNotFound},
		{"unknown lesson", domainagg.RecordAttemptInput{UserID: u.ID, WordID: w.ID, LessonID: ptr(uuid.New())}, domainagg.CodeNotFound},
		{"lesson mismatch", domainagg.RecordAttemptInput{UserID: u.ID, WordID: w.ID, LessonID: ptr(l2.ID)}, domainagg.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := agg.RecordAttempt(f.ctx, tc.in)
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want code %s, got %q (%v)", tc.code, domainagg.CodeOf(err), err)
			}
		})
	}

	rows, err := f.repos.Mastery.ListByUser(f.dbc(), u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rejected attempts must not write mastery, got %d rows", len(rows))
	}
}

func TestRecordAttemptConcurrentAttemptsLoseNoIncrements(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l := f.lesson(b.ID, 1)
	w := f.word(l.ID, 1, "river", "река")

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := agg.RecordAttempt(f.ctx, domainagg.RecordAttemptInput{
				UserID:    u.ID,
				WordID:    w.ID,
				IsCorrect: true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent RecordAttempt: %v", err)
		}
	}

	rows, err := f.repos.Mastery.ListByUserAndWords(f.dbc(), u.ID, []uuid.UUID{w.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("mastery rows: %d err=%v", len(rows), err)
	}
	if rows[0].TotalAttempts != n || rows[0].CorrectCount != n {
		t.Fatalf("lost increments: %+v", rows[0])
	}
	held, err := f.repos.UserAchievements.ListByUser(f.dbc(), u.ID)
	if err != nil {
		t.Fatalf("ListByUser achievements: %v", err)
	}
	seen := map[uuid.UUID]bool{}
	for _, ua := range held {
		if seen[ua.AchievementID] {
			t.Fatalf("achievement %s awarded twice", ua.AchievementID)
		}
		seen[ua.AchievementID] = true
	}
}

func TestRecordAttemptAdvancesStreak(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l := f.lesson(b.ID, 1)
	w := f.word(l.ID, 1, "moon", "луна")
	day1 := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)

	if got := f.attempt(agg, u.ID, w.ID, false, day1).CurrentStreak; got != 1 {
		t.Fatalf("day 1 streak: got %d", got)
	}
	if got := f.attempt(agg, u.ID, w.ID, false, day1.Add(2*time.Hour)).CurrentStreak; got != 1 {
		t.Fatalf("same day streak: got %d", got)
	}
	if got := f.attempt(agg, u.ID, w.ID, false, day1.Add(26*time.Hour)).CurrentStreak; got != 2 {
		t.Fatalf("next day streak: got %d", got)
	}
	if got := f.attempt(agg, u.ID, w.ID, false, day1.Add(96*time.Hour)).CurrentStreak; got != 1 {
		t.Fatalf("after gap streak: got %d", got)
	}

	stats, err := f.repos.Stats.GetByUser(f.dbc(), u.ID)
	if err != nil || stats == nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LongestStreak != 2 || stats.CurrentStreak != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.LastActiveAt == nil || !stats.LastActiveAt.Equal(day1.Add(96*time.Hour)) {
		t.Fatalf("last_active_at: %v", stats.LastActiveAt)
	}
}

func TestRecordAttemptDailyWordsLearnedCountsFirstCorrectOnly(t *testing.T) {
	f := newFixture(t)
	agg := f.progress()
	u := f.user()
	b := f.block(baseOrder())
	l := f.lesson(b.ID, 1)
	w1 := f.word(l.ID, 1, "bird", "птица")
	w2 := f.word(l.ID, 2, "fish", "рыба")
	at := time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC)

	f.attempt(agg, u.ID, w1.ID, false, at) // created, wrong
	f.attempt(agg, u.ID, w1.ID, true, at)  // not created
	f.attempt(agg, u.ID, w2.ID, true, at)  // created, correct

	day, err := f.repos.Daily.GetByUserAndDate(f.dbc(), u.ID, time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC))
	if err != nil || day == nil {
		t.Fatalf("daily progress: %v", err)
	}
	if day.WordsLearned != 1 {
		t.Fatalf("words_learned: want=1 got=%d", day.WordsLearned)
	}
	// w1 at 50%, w2 at 100%
	if day.Accuracy != 75 {
		t.Fatalf("daily accuracy: want=75 got=%v", day.Accuracy)
	}
}

func TestRecordAttemptFailedTxPublishesNothing(t *testing.T) {
	f := newFixture(t)
	base := f.base()
	base.Runner = &aggtest.InjectedTxRunner{FailBegin: errors.New("begin failed")}
	agg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:             base,
		Words:            f.repos.Words,
		Lessons:          f.repos.Lessons,
		Mastery:          f.repos.Mastery,
		LessonProgress:   f.repos.LessonProgress,
		BlockProgress:    f.repos.BlockProgress,
		Daily:            f.repos.Daily,
		Stats:            f.repos.Stats,
		Achievements:     f.repos.Achievements,
		UserAchievements: f.repos.UserAchievements,
		Ladder:           achievements.Default(nil),
	})

	_, err := agg.RecordAttempt(f.ctx, domainagg.RecordAttemptInput{UserID: uuid.New(), WordID: uuid.New(), IsCorrect: true})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(f.events.Events) != 0 {
		t.Fatalf("no events expected, got %v", f.events.Types())
	}
	if statuses := f.hooks.OperationStatuses("Progress.Attempt.Record"); len(statuses) != 1 || statuses[0] != "internal" {
		t.Fatalf("unexpected op statuses: %v", statuses)
	}
}

func ptr[T any](v T) *T { return &v }
