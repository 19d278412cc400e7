package progress

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type BlockProgressRepo interface {
	LockOrCreate(dbc dbctx.Context, userID, blockID uuid.UUID) (*types.BlockProgress, error)
	// Ensure creates an empty progress row when missing and reports whether it did.
	Ensure(dbc dbctx.Context, userID, blockID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	GetByUserAndBlock(dbc dbctx.Context, userID, blockID uuid.UUID) (*types.BlockProgress, error)
	ListByUserAndBlocks(dbc dbctx.Context, userID uuid.UUID, blockIDs []uuid.UUID) ([]*types.BlockProgress, error)
	CountCompleted(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type blockProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlockProgressRepo(db *gorm.DB, baseLog *logger.Logger) BlockProgressRepo {
	return &blockProgressRepo{db: db, log: baseLog.With("repo", "BlockProgressRepo")}
}

func (r *blockProgressRepo) LockOrCreate(dbc dbctx.Context, userID, blockID uuid.UUID) (*types.BlockProgress, error) {
	if userID == uuid.Nil || blockID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or block_id")
	}
	var out types.BlockProgress
	if _, err := lockOrCreate(dbc,
		&types.BlockProgress{UserID: userID, BlockID: blockID},
		&out,
		[]string{"user_id", "block_id"},
		"user_id = ? AND block_id = ?", userID, blockID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *blockProgressRepo) Ensure(dbc dbctx.Context, userID, blockID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || blockID == uuid.Nil {
		return false, fmt.Errorf("missing user_id or block_id")
	}
	return ensure(dbc, r.db, &types.BlockProgress{UserID: userID, BlockID: blockID}, []string{"user_id", "block_id"})
}

func (r *blockProgressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return updateFields(dbc, r.db, &types.BlockProgress{}, id, updates)
}

func (r *blockProgressRepo) GetByUserAndBlock(dbc dbctx.Context, userID, blockID uuid.UUID) (*types.BlockProgress, error) {
	var out []*types.BlockProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND block_id = ?", userID, blockID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blockProgressRepo) ListByUserAndBlocks(dbc dbctx.Context, userID uuid.UUID, blockIDs []uuid.UUID) ([]*types.BlockProgress, error) {
	if len(blockIDs) == 0 {
		return []*types.BlockProgress{}, nil
	}
	var out []*types.BlockProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND block_id IN ?", userID, blockIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blockProgressRepo) CountCompleted(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.BlockProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
