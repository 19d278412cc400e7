package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
	"github.com/yungbote/lexiprogress-backend/internal/learning/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

type BlockTestAggregateDeps struct {
	Base BaseDeps

	Blocks     repos.BlockRepo
	Lessons    repos.LessonRepo
	Words      repos.WordRepo
	BlockTests repos.BlockTestRepo

	Mastery          repos.WordMasteryRepo
	LessonProgress   repos.LessonProgressRepo
	BlockProgress    repos.BlockProgressRepo
	UserBlockTests   repos.UserBlockTestRepo
	Stats            repos.UserStatsRepo
	Achievements     repos.AchievementRepo
	UserAchievements repos.UserAchievementRepo

	Ladder     *achievements.Ladder
	SampleSize int
	// Perm drives word sampling; nil uses math/rand/v2.
	Perm func(n int) []int
}

type blockTestAggregate struct {
	deps    BlockTestAggregateDeps
	awarder achievementAwarder
}

func NewBlockTestAggregate(deps BlockTestAggregateDeps) domainagg.BlockTestAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.SampleSize <= 0 {
		deps.SampleSize = progress.DefaultTestSampleSize
	}
	if deps.Ladder == nil {
		deps.Ladder = achievements.Default(deps.Base.Log)
	}
	return &blockTestAggregate{
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

func (a *blockTestAggregate) Contract() domainagg.Contract {
	return domainagg.BlockTestAggregateContract
}

func (a *blockTestAggregate) configured() bool {
	d := a.deps
	return d.Blocks != nil && d.Lessons != nil && d.Words != nil && d.BlockTests != nil &&
		d.UserBlockTests != nil && d.Stats != nil && a.awarder.configured()
}

// Start get-or-creates the block's test and samples its questions. The test
// stays locked until every active lesson of the block is completed.
func (a *blockTestAggregate) Start(ctx context.Context, in domainagg.StartBlockTestInput) (domainagg.StartBlockTestResult, error) {
	const op = "Progress.BlockTest.Start"
	var out domainagg.StartBlockTestResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.BlockID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing block_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "block test aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		block, err := a.deps.Blocks.GetByID(dbc, in.BlockID)
		if err != nil {
			return err
		}
		if block == nil {
			return NotFoundError("block", in.BlockID)
		}
		test, err := a.deps.BlockTests.GetOrCreate(dbc, &types.BlockTest{
			BlockID:      block.ID,
			Title:        "Test: " + block.Title,
			PassingScore: types.DefaultPassingScore,
		})
		if err != nil {
			return err
		}
		if test == nil {
			return InvariantError("block test missing after get-or-create")
		}

		lessons, err := a.deps.Lessons.ListActiveByBlock(dbc, block.ID)
		if err != nil {
			return err
		}
		lessonIDs := make([]uuid.UUID, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
		completed, err := a.deps.LessonProgress.ListCompletedByUserAndLessons(dbc, in.UserID, lessonIDs)
		if err != nil {
			return err
		}
		if len(completed) < len(lessons) {
			return domainagg.NewForbidden(op, domainagg.ReasonBlockTestLocked,
				fmt.Sprintf("complete all lessons of block %s first", block.ID))
		}

		words, err := a.deps.Words.ListActiveByBlock(dbc, block.ID)
		if err != nil {
			return err
		}
		sample := progress.SampleWithoutReplacement(words, a.deps.SampleSize, a.deps.Perm)
		items := make([]domainagg.TestWord, 0, len(sample))
		for _, w := range sample {
			items = append(items, domainagg.TestWord{
				ID:            w.ID,
				Term:          w.Term,
				Transcription: w.Transcription,
				AudioURL:      w.AudioURL,
				ImageURL:      w.ImageURL,
			})
		}
		out = domainagg.StartBlockTestResult{
			TestID:       test.ID,
			BlockID:      block.ID,
			Title:        test.Title,
			Description:  test.Description,
			PassingScore: test.PassingScore,
			Words:        items,
		}
		return nil
	})
	if err != nil {
		return domainagg.StartBlockTestResult{}, err
	}
	return out, nil
}

// Submit scores the answers, keeps the latest result, and on a pass
// completes the block and opens progress on the next one.
func (a *blockTestAggregate) Submit(ctx context.Context, in domainagg.SubmitBlockTestInput) (domainagg.SubmitBlockTestResult, error) {
	const op = "Progress.BlockTest.Submit"
	var out domainagg.SubmitBlockTestResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.TestID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing test_id", nil)
	}
	if in.Answers == nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "answers are required", nil)
	}
	answers := make(map[uuid.UUID]string, len(in.Answers))
	for raw, text := range in.Answers {
		id, err := uuid.Parse(raw)
		if err != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("malformed word id %q", raw), err)
		}
		if _, dup := answers[id]; dup {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("word id %s answered more than once", id), nil)
		}
		answers[id] = text
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "block test aggregate repos not configured", nil)
	}
	now := a.deps.Base.now(in.At)
	var evts []events.Event

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		evts = evts[:0]
		test, err := a.deps.BlockTests.GetByID(dbc, in.TestID)
		if err != nil {
			return err
		}
		if test == nil {
			return NotFoundError("block test", in.TestID)
		}

		ids := make([]uuid.UUID, 0, len(answers))
		for id := range answers {
			ids = append(ids, id)
		}
		words, err := a.deps.Words.GetByIDs(dbc, ids)
		if err != nil {
			return err
		}
		correct := 0
		for _, w := range words {
			if given, ok := answers[w.ID]; ok && progress.AnswerMatches(given, w.Translation) {
				correct++
			}
		}
		total := len(answers)
		score := progress.QuizScore(correct, total)
		passed := progress.QuizPassed(correct, total, test.PassingScore)

		if err := a.deps.UserBlockTests.Upsert(dbc, &types.UserBlockTest{
			UserID:         in.UserID,
			BlockTestID:    test.ID,
			Score:          score,
			CorrectAnswers: correct,
			TotalQuestions: total,
			IsPassed:       passed,
			CompletedAt:    now,
		}); err != nil {
			return err
		}

		res := domainagg.SubmitBlockTestResult{
			TestID:          test.ID,
			BlockID:         test.BlockID,
			Score:           score,
			CorrectAnswers:  correct,
			TotalQuestions:  total,
			PassingScore:    test.PassingScore,
			IsPassed:        passed,
			NewAchievements: []domainagg.EarnedAchievement{},
			CompletedAt:     now,
		}
		evts = append(evts, events.New(events.TypeBlockTestSubmitted, in.UserID, now, map[string]any{
			"test_id":   test.ID.String(),
			"block_id":  test.BlockID.String(),
			"score":     score,
			"is_passed": passed,
		}))

		if passed {
			completedNow, next, err := a.completeBlock(dbc, in.UserID, test.BlockID, now)
			if err != nil {
				return err
			}
			res.BlockCompleted = completedNow
			res.NextBlockID = next
			if completedNow {
				evts = append(evts, events.New(events.TypeBlockCompleted, in.UserID, now, map[string]any{
					"block_id": test.BlockID.String(),
					"source":   "block_test",
				}))
			}

			streak := 0
			stats, err := a.deps.Stats.GetByUser(dbc, in.UserID)
			if err != nil {
				return err
			}
			if stats != nil {
				streak = stats.CurrentStreak
			}
			counters, err := a.awarder.counters(dbc, in.UserID, streak)
			if err != nil {
				return err
			}
			earned, err := a.awarder.award(dbc, in.UserID, counters, now)
			if err != nil {
				return err
			}
			res.NewAchievements = earned
			evts = append(evts, achievementEvents(in.UserID, earned)...)
		}

		out = res
		return nil
	})
	if err != nil {
		return domainagg.SubmitBlockTestResult{}, err
	}

	a.deps.Base.Hooks.IncBlockTestSubmitted(out.IsPassed)
	for _, e := range out.NewAchievements {
		a.deps.Base.Hooks.IncAchievementAwarded(e.Type)
	}
	publishAfterCommit(ctx, a.deps.Base, op, evts)
	return out, nil
}

// completeBlock stamps the block completed once and ensures a progress row
// for the active block at order+1, returning that block's id when present.
func (a *blockTestAggregate) completeBlock(dbc dbctx.Context, userID, blockID uuid.UUID, now time.Time) (bool, *uuid.UUID, error) {
	bp, err := a.deps.BlockProgress.LockOrCreate(dbc, userID, blockID)
	if err != nil {
		return false, nil, err
	}
	outcome := progress.CompleteBlock(progress.BlockState{
		IsCompleted:      bp.IsCompleted,
		CompletedAt:      bp.CompletedAt,
		LessonsCompleted: bp.LessonsCompleted,
		TotalLessons:     bp.TotalLessons,
		OverallAccuracy:  bp.OverallAccuracy,
	}, now)
	if outcome.CompletedNow {
		if err := a.deps.BlockProgress.UpdateFields(dbc, bp.ID, map[string]interface{}{
			"is_completed": true,
			"completed_at": outcome.State.CompletedAt,
		}); err != nil {
			return false, nil, err
		}
	}

	block, err := a.deps.Blocks.GetByID(dbc, blockID)
	if err != nil {
		return false, nil, err
	}
	if block == nil {
		return outcome.CompletedNow, nil, nil
	}
	next, err := a.deps.Blocks.GetActiveByOrder(dbc, block.Order+1)
	if err != nil {
		return false, nil, err
	}
	if next == nil {
		return outcome.CompletedNow, nil, nil
	}
	if _, err := a.deps.BlockProgress.Ensure(dbc, userID, next.ID); err != nil {
		return false, nil, err
	}
	id := next.ID
	return outcome.CompletedNow, &id, nil
}
