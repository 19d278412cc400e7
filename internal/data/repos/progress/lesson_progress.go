package progress

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	LockOrCreate(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	ListByUserAndLessons(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	ListCompletedByUserAndLessons(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	CountCompleted(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) LockOrCreate(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or lesson_id")
	}
	var out types.LessonProgress
	if _, err := lockOrCreate(dbc,
		&types.LessonProgress{UserID: userID, LessonID: lessonID},
		&out,
		[]string{"user_id", "lesson_id"},
		"user_id = ? AND lesson_id = ?", userID, lessonID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonProgressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return updateFields(dbc, r.db, &types.LessonProgress{}, id, updates)
}

func (r *lessonProgressRepo) GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	var out []*types.LessonProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *lessonProgressRepo) ListByUserAndLessons(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return []*types.LessonProgress{}, nil
	}
	var out []*types.LessonProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) ListCompletedByUserAndLessons(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return []*types.LessonProgress{}, nil
	}
	var out []*types.LessonProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id IN ? AND is_completed = ?", userID, lessonIDs, true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) CountCompleted(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
