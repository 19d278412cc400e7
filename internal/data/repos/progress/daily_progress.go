package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type DailyProgressRepo interface {
	LockOrCreate(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.DailyProgress, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.DailyProgress, error)
	// ListByUserBetween returns rows with from <= date <= to, oldest first.
	ListByUserBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailyProgress, error)
	// CountStudyDays counts days on which the user learned at least one word.
	CountStudyDays(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type dailyProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyProgressRepo(db *gorm.DB, baseLog *logger.Logger) DailyProgressRepo {
	return &dailyProgressRepo{db: db, log: baseLog.With("repo", "DailyProgressRepo")}
}

func (r *dailyProgressRepo) LockOrCreate(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.DailyProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	day = day.UTC()
	var out types.DailyProgress
	if _, err := lockOrCreate(dbc,
		&types.DailyProgress{UserID: userID, Date: day},
		&out,
		[]string{"user_id", "date"},
		"user_id = ? AND date = ?", userID, day); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dailyProgressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return updateFields(dbc, r.db, &types.DailyProgress{}, id, updates)
}

func (r *dailyProgressRepo) GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.DailyProgress, error) {
	var out []*types.DailyProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND date = ?", userID, day.UTC()).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *dailyProgressRepo) ListByUserBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailyProgress, error) {
	var out []*types.DailyProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from.UTC(), to.UTC()).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyProgressRepo) CountStudyDays(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.DailyProgress{}).
		Where("user_id = ? AND words_learned > 0", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
