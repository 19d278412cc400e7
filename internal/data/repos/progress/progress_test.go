package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

func TestWordMasteryLockOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewWordMasteryRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx)
	b := testutil.SeedBlock(t, ctx, tx, 1)
	l := testutil.SeedLesson(t, ctx, tx, b.ID, 1)
	w := testutil.SeedWord(t, ctx, tx, l.ID, 1, "apple", "яблоко")
	now := time.Now().UTC()

	m, created, err := repo.LockOrCreate(dbc, u.ID, w.ID, now)
	if err != nil {
		t.Fatalf("LockOrCreate: %v", err)
	}
	if !created {
		t.Fatalf("LockOrCreate: expected created on first call")
	}
	if err := repo.UpdateFields(dbc, m.ID, map[string]interface{}{
		"total_attempts": 3,
		"correct_count":  3,
		"is_learned":     true,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	again, created, err := repo.LockOrCreate(dbc, u.ID, w.ID, now)
	if err != nil {
		t.Fatalf("LockOrCreate again: %v", err)
	}
	if created || again.ID != m.ID || again.TotalAttempts != 3 {
		t.Fatalf("LockOrCreate again: created=%v row=%+v", created, again)
	}

	learned, err := repo.CountLearned(dbc, u.ID)
	if err != nil || learned != 1 {
		t.Fatalf("CountLearned: got=%d err=%v", learned, err)
	}
	byBlock, err := repo.CountLearnedByBlocks(dbc, u.ID, []uuid.UUID{b.ID})
	if err != nil || byBlock[b.ID] != 1 {
		t.Fatalf("CountLearnedByBlocks: got=%v err=%v", byBlock, err)
	}

	today, err := repo.ListReviewedBetween(dbc, u.ID, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil || len(today) != 1 {
		t.Fatalf("ListReviewedBetween: got=%d err=%v", len(today), err)
	}
}

func TestLessonAndBlockProgress(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	lessons := NewLessonProgressRepo(db, log)
	blocks := NewBlockProgressRepo(db, log)

	u := testutil.SeedUser(t, ctx, tx)
	b := testutil.SeedBlock(t, ctx, tx, 1)
	l1 := testutil.SeedLesson(t, ctx, tx, b.ID, 1)
	l2 := testutil.SeedLesson(t, ctx, tx, b.ID, 2)
	testutil.SeedCompletedLesson(t, ctx, tx, u.ID, l1.ID, 90)

	lp, err := lessons.LockOrCreate(dbc, u.ID, l2.ID)
	if err != nil {
		t.Fatalf("LockOrCreate lesson: %v", err)
	}
	if lp.IsCompleted {
		t.Fatalf("new lesson progress should not be completed")
	}

	completed, err := lessons.ListCompletedByUserAndLessons(dbc, u.ID, []uuid.UUID{l1.ID, l2.ID})
	if err != nil || len(completed) != 1 || completed[0].LessonID != l1.ID {
		t.Fatalf("ListCompletedByUserAndLessons: got=%+v err=%v", completed, err)
	}

	created, err := blocks.Ensure(dbc, u.ID, b.ID)
	if err != nil || !created {
		t.Fatalf("Ensure block: created=%v err=%v", created, err)
	}
	created, err = blocks.Ensure(dbc, u.ID, b.ID)
	if err != nil || created {
		t.Fatalf("Ensure block twice: created=%v err=%v", created, err)
	}
	bp, err := blocks.LockOrCreate(dbc, u.ID, b.ID)
	if err != nil {
		t.Fatalf("LockOrCreate block: %v", err)
	}
	if err := blocks.UpdateFields(dbc, bp.ID, map[string]interface{}{"is_completed": true}); err != nil {
		t.Fatalf("UpdateFields block: %v", err)
	}
	n, err := blocks.CountCompleted(dbc, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountCompleted: got=%d err=%v", n, err)
	}
}

func TestDailyProgressAndStats(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	daily := NewDailyProgressRepo(db, log)
	stats := NewUserStatsRepo(db, log)

	u := testutil.SeedUser(t, ctx, tx)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	row, err := daily.LockOrCreate(dbc, u.ID, day)
	if err != nil {
		t.Fatalf("LockOrCreate daily: %v", err)
	}
	if err := daily.UpdateFields(dbc, row.ID, map[string]interface{}{"words_learned": 2}); err != nil {
		t.Fatalf("UpdateFields daily: %v", err)
	}
	if _, err := daily.LockOrCreate(dbc, u.ID, day.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("LockOrCreate next day: %v", err)
	}

	got, err := daily.GetByUserAndDate(dbc, u.ID, day)
	if err != nil || got == nil || got.WordsLearned != 2 {
		t.Fatalf("GetByUserAndDate: got=%+v err=%v", got, err)
	}
	rows, err := daily.ListByUserBetween(dbc, u.ID, day, day.AddDate(0, 0, 5))
	if err != nil || len(rows) != 2 || !rows[0].Date.Equal(day) {
		t.Fatalf("ListByUserBetween: got=%+v err=%v", rows, err)
	}
	if n, err := daily.CountStudyDays(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountStudyDays: got=%d err=%v", n, err)
	}

	if _, err := stats.Ensure(dbc, u.ID); err != nil {
		t.Fatalf("Ensure stats: %v", err)
	}
	st, err := stats.LockOrCreate(dbc, u.ID)
	if err != nil {
		t.Fatalf("LockOrCreate stats: %v", err)
	}
	if err := stats.UpdateFields(dbc, st.ID, map[string]interface{}{"total_sessions": 4}); err != nil {
		t.Fatalf("UpdateFields stats: %v", err)
	}
	st, err = stats.GetByUser(dbc, u.ID)
	if err != nil || st == nil || st.TotalSessions != 4 {
		t.Fatalf("GetByUser stats: got=%+v err=%v", st, err)
	}
}

func TestStudySessionLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewStudySessionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx)
	s := testutil.SeedSession(t, ctx, tx, u.ID, time.Now().Add(-time.Hour))
	a, b := uuid.New(), uuid.New()

	if err := repo.ReplaceLessons(dbc, s.ID, []uuid.UUID{a, a, b}); err != nil {
		t.Fatalf("ReplaceLessons: %v", err)
	}
	if err := repo.ReplaceWords(dbc, s.ID, []uuid.UUID{a}); err != nil {
		t.Fatalf("ReplaceWords: %v", err)
	}
	if err := repo.ReplaceLessons(dbc, s.ID, []uuid.UUID{b}); err != nil {
		t.Fatalf("ReplaceLessons again: %v", err)
	}
	counts, err := repo.CountLinks(dbc, []uuid.UUID{s.ID})
	if err != nil {
		t.Fatalf("CountLinks: %v", err)
	}
	if counts[s.ID] != (SessionLinkCounts{Lessons: 1, Words: 1}) {
		t.Fatalf("CountLinks: unexpected %+v", counts[s.ID])
	}

	recent, err := repo.ListRecentByUser(dbc, u.ID, 5)
	if err != nil || len(recent) != 1 {
		t.Fatalf("ListRecentByUser: got=%d err=%v", len(recent), err)
	}
}

func TestUserBlockTestUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserBlockTestRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx)
	b := testutil.SeedBlock(t, ctx, tx, 1)
	bt := testutil.SeedBlockTest(t, ctx, tx, b.ID, 80)

	if err := repo.Upsert(dbc, &types.UserBlockTest{
		UserID: u.ID, BlockTestID: bt.ID, Score: 50, CorrectAnswers: 5, TotalQuestions: 10, CompletedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, &types.UserBlockTest{
		UserID: u.ID, BlockTestID: bt.ID, Score: 90, CorrectAnswers: 9, TotalQuestions: 10, IsPassed: true, CompletedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	var n int64
	if err := tx.Model(&types.UserBlockTest{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one row per user and test, got %d", n)
	}
	got, err := repo.GetByUserAndTest(dbc, u.ID, bt.ID)
	if err != nil || got == nil || got.Score != 90 || !got.IsPassed {
		t.Fatalf("GetByUserAndTest: got=%+v err=%v", got, err)
	}
}
