package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type UserBlockTestRepo interface {
	// Upsert overwrites the previous result for the same user and test.
	Upsert(dbc dbctx.Context, row *types.UserBlockTest) error
	GetByUserAndTest(dbc dbctx.Context, userID, testID uuid.UUID) (*types.UserBlockTest, error)
}

type userBlockTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBlockTestRepo(db *gorm.DB, baseLog *logger.Logger) UserBlockTestRepo {
	return &userBlockTestRepo{db: db, log: baseLog.With("repo", "UserBlockTestRepo")}
}

func (r *userBlockTestRepo) Upsert(dbc dbctx.Context, row *types.UserBlockTest) error {
	if row == nil || row.UserID == uuid.Nil || row.BlockTestID == uuid.Nil {
		return fmt.Errorf("missing user_id or block_test_id")
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "block_test_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score",
				"correct_answers",
				"total_questions",
				"is_passed",
				"completed_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *userBlockTestRepo) GetByUserAndTest(dbc dbctx.Context, userID, testID uuid.UUID) (*types.UserBlockTest, error) {
	var out []*types.UserBlockTest
	if err := dbc.DB(r.db).
		Where("user_id = ? AND block_test_id = ?", userID, testID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
