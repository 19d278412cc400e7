package progress

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type UserStatsRepo interface {
	LockOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
	Ensure(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) LockOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out types.UserStats
	if _, err := lockOrCreate(dbc,
		&types.UserStats{UserID: userID},
		&out,
		[]string{"user_id"},
		"user_id = ?", userID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userStatsRepo) Ensure(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, fmt.Errorf("missing user_id")
	}
	return ensure(dbc, r.db, &types.UserStats{UserID: userID}, []string{"user_id"})
}

func (r *userStatsRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return updateFields(dbc, r.db, &types.UserStats{}, id, updates)
}

func (r *userStatsRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	var out []*types.UserStats
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
