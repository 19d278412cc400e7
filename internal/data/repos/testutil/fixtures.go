package testutil

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
)

// TelegramID returns a random id so fixtures never collide on a shared database.
func TelegramID() int64 {
	return rand.Int64N(1<<40) + 1
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	tg := TelegramID()
	u := &types.User{
		ID:          uuid.New(),
		TelegramID:  &tg,
		Username:    "learner",
		IsPaid:      true,
		PaymentDate: &now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedBlock(tb testing.TB, ctx context.Context, tx *gorm.DB, order int) *types.Block {
	tb.Helper()
	b := &types.Block{
		ID:       uuid.New(),
		Title:    "block",
		Order:    order,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed block: %v", err)
	}
	return b
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, blockID uuid.UUID, order int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:       uuid.New(),
		BlockID:  blockID,
		Title:    "lesson",
		Order:    order,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedWord(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, order int, term, translation string) *types.Word {
	tb.Helper()
	w := &types.Word{
		ID:          uuid.New(),
		LessonID:    lessonID,
		Term:        term,
		Translation: translation,
		Order:       order,
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed word: %v", err)
	}
	return w
}

// SeedCompletedLesson marks a lesson completed for a user.
func SeedCompletedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, accuracy float64) *types.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	lp := &types.LessonProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
		CompletedAt: &now,
		Accuracy:    accuracy,
	}
	if err := tx.WithContext(ctx).Create(lp).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return lp
}

func SeedBlockTest(tb testing.TB, ctx context.Context, tx *gorm.DB, blockID uuid.UUID, passingScore int) *types.BlockTest {
	tb.Helper()
	bt := &types.BlockTest{
		ID:           uuid.New(),
		BlockID:      blockID,
		Title:        "test",
		PassingScore: passingScore,
	}
	if err := tx.WithContext(ctx).Create(bt).Error; err != nil {
		tb.Fatalf("seed block test: %v", err)
	}
	return bt
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, start time.Time) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		StartTime: start.UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
