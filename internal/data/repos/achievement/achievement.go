package achievement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type AchievementRepo interface {
	// GetOrCreateByType returns the catalog row for seed.Type, inserting seed first when absent.
	GetOrCreateByType(dbc dbctx.Context, seed *types.Achievement) (*types.Achievement, error)
	GetByType(dbc dbctx.Context, achievementType string) (*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) GetOrCreateByType(dbc dbctx.Context, seed *types.Achievement) (*types.Achievement, error) {
	if seed == nil || strings.TrimSpace(seed.Type) == "" {
		return nil, fmt.Errorf("missing achievement type")
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}},
			DoNothing: true,
		}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	out, err := r.GetByType(dbc, seed.Type)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("achievement %q missing after insert", seed.Type)
	}
	return out, nil
}

func (r *achievementRepo) GetByType(dbc dbctx.Context, achievementType string) (*types.Achievement, error) {
	var out []*types.Achievement
	if err := dbc.DB(r.db).
		Where("type = ?", achievementType).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

type UserAchievementRepo interface {
	// Award inserts the pair unless it exists and reports whether it was new.
	Award(dbc dbctx.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) Award(dbc dbctx.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	if userID == uuid.Nil || achievementID == uuid.Nil {
		return false, fmt.Errorf("missing user_id or achievement_id")
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&types.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			EarnedAt:      at.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userAchievementRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	var out []*types.UserAchievement
	if err := dbc.DB(r.db).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
