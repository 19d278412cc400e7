package aggregates_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/lexiprogress-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	repotest "github.com/yungbote/lexiprogress-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	repos  repos.Set
	events *aggtest.EventRecorder
	hooks  *aggtest.HooksRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	return &fixture{
		t:      t,
		ctx:    context.Background(),
		db:     db,
		repos:  repos.NewSet(db, repotest.Logger(t)),
		events: &aggtest.EventRecorder{},
		hooks:  &aggtest.HooksRecorder{},
	}
}

func (f *fixture) base() aggregates.BaseDeps {
	return aggregates.BaseDeps{
		DB:     f.db,
		Log:    repotest.Logger(f.t),
		Hooks:  f.hooks,
		Events: f.events,
	}
}

func (f *fixture) dbc() dbctx.Context {
	return dbctx.Context{Ctx: f.ctx}
}

func (f *fixture) progress() domainagg.ProgressAggregate {
	return aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:             f.base(),
		Words:            f.repos.Words,
		Lessons:          f.repos.Lessons,
		Mastery:          f.repos.Mastery,
		LessonProgress:   f.repos.LessonProgress,
		BlockProgress:    f.repos.BlockProgress,
		Daily:            f.repos.Daily,
		Stats:            f.repos.Stats,
		Achievements:     f.repos.Achievements,
		UserAchievements: f.repos.UserAchievements,
		Ladder:           achievements.Default(repotest.Logger(f.t)),
		Location:         time.UTC,
	})
}

func (f *fixture) sessions() domainagg.SessionAggregate {
	return aggregates.NewSessionAggregate(aggregates.SessionAggregateDeps{
		Base:     f.base(),
		Sessions: f.repos.Sessions,
		Stats:    f.repos.Stats,
		Lessons:  f.repos.Lessons,
		Words:    f.repos.Words,
	})
}

func (f *fixture) blockTests() domainagg.BlockTestAggregate {
	return aggregates.NewBlockTestAggregate(aggregates.BlockTestAggregateDeps{
		Base:             f.base(),
		Blocks:           f.repos.Blocks,
		Lessons:          f.repos.Lessons,
		Words:            f.repos.Words,
		BlockTests:       f.repos.BlockTests,
		Mastery:          f.repos.Mastery,
		LessonProgress:   f.repos.LessonProgress,
		BlockProgress:    f.repos.BlockProgress,
		UserBlockTests:   f.repos.UserBlockTests,
		Stats:            f.repos.Stats,
		Achievements:     f.repos.Achievements,
		UserAchievements: f.repos.UserAchievements,
		Ladder:           achievements.Default(repotest.Logger(f.t)),
	})
}

func (f *fixture) provisioning() domainagg.ProvisioningAggregate {
	return aggregates.NewProvisioningAggregate(aggregates.ProvisioningAggregateDeps{
		Base:  f.base(),
		Users: f.repos.Users,
		Stats: f.repos.Stats,
	})
}

// baseOrder keeps block orders of concurrent test runs on a shared
// database from colliding.
func baseOrder() int {
	return int(repotest.TelegramID()%1_000_000) * 10
}

func (f *fixture) user() *types.User {
	return repotest.SeedUser(f.t, f.ctx, f.db)
}

func (f *fixture) block(order int) *types.Block {
	return repotest.SeedBlock(f.t, f.ctx, f.db, order)
}

func (f *fixture) lesson(blockID uuid.UUID, order int) *types.Lesson {
	return repotest.SeedLesson(f.t, f.ctx, f.db, blockID, order)
}

func (f *fixture) word(lessonID uuid.UUID, order int, term, translation string) *types.Word {
	return repotest.SeedWord(f.t, f.ctx, f.db, lessonID, order, term, translation)
}

func (f *fixture) attempt(agg domainagg.ProgressAggregate, userID, wordID uuid.UUID, correct bool, at time.Time) domainagg.RecordAttemptResult {
	f.t.Helper()
	res, err := agg.RecordAttempt(f.ctx, domainagg.RecordAttemptInput{
		UserID:           userID,
		WordID:           wordID,
		IsCorrect:        correct,
		TimeSpentSeconds: 30,
		At:               at,
	})
	if err != nil {
		f.t.Fatalf("RecordAttempt: %v", err)
	}
	return res
}

func achievementTypes(in []domainagg.EarnedAchievement) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, a := range in {
		out[a.Type] = true
	}
	return out
}
