package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
	"github.com/yungbote/lexiprogress-backend/internal/learning/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

type ProgressAggregateDeps struct {
	Base BaseDeps

	Words   repos.WordRepo
	Lessons repos.LessonRepo

	Mastery          repos.WordMasteryRepo
	LessonProgress   repos.LessonProgressRepo
	BlockProgress    repos.BlockProgressRepo
	Daily            repos.DailyProgressRepo
	Stats            repos.UserStatsRepo
	Achievements     repos.AchievementRepo
	UserAchievements repos.UserAchievementRepo

	Ladder *achievements.Ladder
	// Location defines calendar days for daily rollups and streaks.
	Location *time.Location
}

type progressAggregate struct {
	deps    ProgressAggregateDeps
	awarder achievementAwarder
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Ladder == nil {
		deps.Ladder = achievements.Default(deps.Base.Log)
	}
	return &progressAggregate{
		deps: deps,
		awarder: achievementAwarder{
			ladder:           deps.Ladder,
			mastery:          deps.Mastery,
			lessonProgress:   deps.LessonProgress,
			blockProgress:    deps.BlockProgress,
			achievements:     deps.Achievements,
			userAchievements: deps.UserAchievements,
		},
	}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) configured() bool {
	d := a.deps
	return d.Words != nil && d.Lessons != nil && d.Daily != nil && d.Stats != nil && a.awarder.configured()
}

// RecordAttempt counts one answer and cascades it through lesson, block,
// streak, achievements and the daily rollup in a single transaction.
func (a *progressAggregate) RecordAttempt(ctx context.Context, in domainagg.RecordAttemptInput) (domainagg.RecordAttemptResult, error) {
	const op = "Progress.Attempt.Record"
	var out domainagg.RecordAttemptResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.WordID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing word_id", nil)
	}
	if in.TimeSpentSeconds < 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "time_spent_seconds must be >= 0", nil)
	}
	if in.LessonID != nil && *in.LessonID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "lesson_id is not a valid id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}

	now := a.deps.Base.now(in.At)
	minutes := progress.MinutesFromSeconds(in.TimeSpentSeconds)
	var evts []events.Event

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		evts = evts[:0]
		res := domainagg.RecordAttemptResult{RecordedAt: now}

		word, err := a.deps.Words.GetByID(dbc, in.WordID)
		if err != nil {
			return err
		}
		if word == nil {
			return NotFoundError("word", in.WordID)
		}
		if in.LessonID != nil {
			given, err := a.deps.Lessons.GetByID(dbc, *in.LessonID)
			if err != nil {
				return err
			}
			if given == nil {
				return NotFoundError("lesson", *in.LessonID)
			}
			if word.LessonID != given.ID {
				return ValidationError(fmt.Sprintf("word %s does not belong to lesson %s", word.ID, given.ID))
			}
		}
		lesson, err := a.deps.Lessons.GetByID(dbc, word.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return NotFoundError("lesson", word.LessonID)
		}
		res.LessonID = lesson.ID
		res.BlockID = lesson.BlockID

		// word mastery
		m, created, err := a.deps.Mastery.LockOrCreate(dbc, in.UserID, word.ID, now)
		if err != nil {
			return err
		}
		prevMastery := progress.MasteryState{CorrectCount: m.CorrectCount, TotalAttempts: m.TotalAttempts, IsLearned: m.IsLearned}
		nextMastery := progress.ApplyAttempt(prevMastery, in.IsCorrect)
		if err := a.deps.Mastery.UpdateFields(dbc, m.ID, map[string]interface{}{
			"correct_count":    nextMastery.CorrectCount,
			"total_attempts":   nextMastery.TotalAttempts,
			"is_learned":       nextMastery.IsLearned,
			"last_reviewed_at": now,
		}); err != nil {
			return err
		}
		res.MasteryCreated = created
		res.BecameLearned = nextMastery.IsLearned && !prevMastery.IsLearned
		res.Mastery = domainagg.MasterySnapshot{
			WordID:        word.ID,
			CorrectCount:  nextMastery.CorrectCount,
			TotalAttempts: nextMastery.TotalAttempts,
			IsLearned:     nextMastery.IsLearned,
			Accuracy:      nextMastery.Accuracy(),
		}

		// lesson
		lessonOut, err := a.recomputeLesson(dbc, in.UserID, lesson.ID, minutes, now)
		if err != nil {
			return err
		}
		res.LessonAccuracy = lessonOut.State.Accuracy
		res.LessonCompleted = lessonOut.CompletedNow

		// block
		blockOut, err := a.recomputeBlock(dbc, in.UserID, lesson.BlockID, now)
		if err != nil {
			return err
		}
		res.BlockCompleted = blockOut.CompletedNow

		// user stats and streak
		stats, err := a.deps.Stats.LockOrCreate(dbc, in.UserID)
		if err != nil {
			return err
		}
		streak := progress.AdvanceStreak(progress.StreakState{
			Current:    stats.CurrentStreak,
			Longest:    stats.LongestStreak,
			LastActive: stats.LastActiveAt,
		}, now, a.deps.Location)
		if err := a.deps.Stats.UpdateFields(dbc, stats.ID, map[string]interface{}{
			"total_study_time_minutes": stats.TotalStudyTimeMinutes + minutes,
			"current_streak":           streak.Current,
			"longest_streak":           streak.Longest,
			"last_active_at":           now,
		}); err != nil {
			return err
		}
		res.CurrentStreak = streak.Current

		// achievements
		counters, err := a.awarder.counters(dbc, in.UserID, streak.Current)
		if err != nil {
			return err
		}
		earned, err := a.awarder.award(dbc, in.UserID, counters, now)
		if err != nil {
			return err
		}
		res.NewAchievements = earned

		// daily rollup
		if err := a.recordDaily(dbc, in, created, lessonOut.CompletedNow, now); err != nil {
			return err
		}

		evts = append(evts, events.New(events.TypeAttemptRecorded, in.UserID, now, map[string]any{
			"word_id":     word.ID.String(),
			"lesson_id":   lesson.ID.String(),
			"is_correct":  in.IsCorrect,
			"is_learned":  nextMastery.IsLearned,
			"accuracy":    res.Mastery.Accuracy,
			"new_mastery": created,
		}))
		if res.LessonCompleted {
			evts = append(evts, events.New(events.TypeLessonCompleted, in.UserID, now, map[string]any{
				"lesson_id": lesson.ID.String(),
				"accuracy":  res.LessonAccuracy,
			}))
		}
		if res.BlockCompleted {
			evts = append(evts, events.New(events.TypeBlockCompleted, in.UserID, now, map[string]any{
				"block_id": lesson.BlockID.String(),
				"source":   "lessons",
			}))
		}
		evts = append(evts, achievementEvents(in.UserID, earned)...)

		out = res
		return nil
	})
	if err != nil {
		return domainagg.RecordAttemptResult{}, err
	}

	a.deps.Base.Hooks.IncAttempt(in.IsCorrect)
	for _, e := range out.NewAchievements {
		a.deps.Base.Hooks.IncAchievementAwarded(e.Type)
	}
	publishAfterCommit(ctx, a.deps.Base, op, evts)
	return out, nil
}

func (a *progressAggregate) recomputeLesson(dbc dbctx.Context, userID, lessonID uuid.UUID, minutes int, now time.Time) (progress.LessonOutcome, error) {
	lp, err := a.deps.LessonProgress.LockOrCreate(dbc, userID, lessonID)
	if err != nil {
		return progress.LessonOutcome{}, err
	}
	words, err := a.deps.Words.ListActiveByLesson(dbc, lessonID)
	if err != nil {
		return progress.LessonOutcome{}, err
	}
	wordIDs := make([]uuid.UUID, 0, len(words))
	for _, w := range words {
		wordIDs = append(wordIDs, w.ID)
	}
	rows, err := a.deps.Mastery.ListByUserAndWords(dbc, userID, wordIDs)
	if err != nil {
		return progress.LessonOutcome{}, err
	}
	byWord := make(map[uuid.UUID]progress.MasteryState, len(rows))
	for _, r := range rows {
		byWord[r.WordID] = progress.MasteryState{CorrectCount: r.CorrectCount, TotalAttempts: r.TotalAttempts, IsLearned: r.IsLearned}
	}
	states := make([]progress.WordState, 0, len(words))
	for _, w := range words {
		ms := byWord[w.ID]
		states = append(states, progress.WordState{WordID: w.ID, Accuracy: ms.Accuracy(), IsLearned: ms.IsLearned})
	}

	outcome := progress.RecomputeLesson(progress.LessonState{
		IsCompleted:      lp.IsCompleted,
		CompletedAt:      lp.CompletedAt,
		Accuracy:         lp.Accuracy,
		TimeSpentMinutes: lp.TimeSpentMinutes,
	}, states, minutes, now)

	updates := map[string]interface{}{
		"accuracy":           outcome.State.Accuracy,
		"time_spent_minutes": outcome.State.TimeSpentMinutes,
	}
	if outcome.CompletedNow {
		updates["is_completed"] = true
		updates["completed_at"] = outcome.State.CompletedAt
	}
	if err := a.deps.LessonProgress.UpdateFields(dbc, lp.ID, updates); err != nil {
		return progress.LessonOutcome{}, err
	}
	return outcome, nil
}

func (a *progressAggregate) recomputeBlock(dbc dbctx.Context, userID, blockID uuid.UUID, now time.Time) (progress.BlockOutcome, error) {
	bp, err := a.deps.BlockProgress.LockOrCreate(dbc, userID, blockID)
	if err != nil {
		return progress.BlockOutcome{}, err
	}
	active, err := a.deps.Lessons.ListActiveByBlock(dbc, blockID)
	if err != nil {
		return progress.BlockOutcome{}, err
	}
	// Completed records count even for lessons deactivated after completion.
	allIDs, err := a.deps.Lessons.ListIDsByBlock(dbc, blockID)
	if err != nil {
		return progress.BlockOutcome{}, err
	}
	completed, err := a.deps.LessonProgress.ListCompletedByUserAndLessons(dbc, userID, allIDs)
	if err != nil {
		return progress.BlockOutcome{}, err
	}
	accs := make([]float64, 0, len(completed))
	for _, lp := range completed {
		accs = append(accs, lp.Accuracy)
	}

	outcome := progress.RecomputeBlock(progress.BlockState{
		IsCompleted:      bp.IsCompleted,
		CompletedAt:      bp.CompletedAt,
		LessonsCompleted: bp.LessonsCompleted,
		TotalLessons:     bp.TotalLessons,
		OverallAccuracy:  bp.OverallAccuracy,
	}, len(active), accs, now)

	updates := map[string]interface{}{
		"lessons_completed": outcome.State.LessonsCompleted,
		"total_lessons":     outcome.State.TotalLessons,
		"overall_accuracy":  outcome.State.OverallAccuracy,
	}
	if outcome.CompletedNow {
		updates["is_completed"] = true
		updates["completed_at"] = outcome.State.CompletedAt
	}
	if err := a.deps.BlockProgress.UpdateFields(dbc, bp.ID, updates); err != nil {
		return progress.BlockOutcome{}, err
	}
	return outcome, nil
}

func (a *progressAggregate) recordDaily(dbc dbctx.Context, in domainagg.RecordAttemptInput, masteryCreated, lessonCompleted bool, now time.Time) error {
	day := progress.CalendarDay(now, a.deps.Location)
	from, to := progress.DayBounds(now, a.deps.Location)

	dp, err := a.deps.Daily.LockOrCreate(dbc, in.UserID, day)
	if err != nil {
		return err
	}
	reviewed, err := a.deps.Mastery.ListReviewedBetween(dbc, in.UserID, from, to)
	if err != nil {
		return err
	}
	accs := make([]float64, 0, len(reviewed))
	for _, r := range reviewed {
		accs = append(accs, progress.Accuracy(r.CorrectCount, r.TotalAttempts))
	}

	next := progress.RecordDaily(progress.DailyState{
		WordsLearned:       dp.WordsLearned,
		LessonsCompleted:   dp.LessonsCompleted,
		TimeStudiedMinutes: dp.TimeStudiedMinutes,
		Accuracy:           dp.Accuracy,
	}, progress.DailyAttempt{
		IsCorrect:        in.IsCorrect,
		MasteryCreated:   masteryCreated,
		LessonCompleted:  lessonCompleted,
		TimeSpentSeconds: in.TimeSpentSeconds,
		TodayAccuracies:  accs,
	})
	return a.deps.Daily.UpdateFields(dbc, dp.ID, map[string]interface{}{
		"words_learned":        next.WordsLearned,
		"lessons_completed":    next.LessonsCompleted,
		"time_studied_minutes": next.TimeStudiedMinutes,
		"accuracy":             next.Accuracy,
	})
}
