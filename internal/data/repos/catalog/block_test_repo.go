package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type BlockTestRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.BlockTest, error)
	GetByBlockID(dbc dbctx.Context, blockID uuid.UUID) (*types.BlockTest, error)
	// GetOrCreate inserts seed unless the block already has a test, then
	// returns the stored row.
	GetOrCreate(dbc dbctx.Context, seed *types.BlockTest) (*types.BlockTest, error)
}

type blockTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlockTestRepo(db *gorm.DB, baseLog *logger.Logger) BlockTestRepo {
	return &blockTestRepo{db: db, log: baseLog.With("repo", "BlockTestRepo")}
}

func (r *blockTestRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.BlockTest, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing block test id")
	}
	var out []*types.BlockTest
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blockTestRepo) GetByBlockID(dbc dbctx.Context, blockID uuid.UUID) (*types.BlockTest, error) {
	if blockID == uuid.Nil {
		return nil, fmt.Errorf("missing block id")
	}
	var out []*types.BlockTest
	if err := dbc.DB(r.db).
		Where("block_id = ?", blockID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blockTestRepo) GetOrCreate(dbc dbctx.Context, seed *types.BlockTest) (*types.BlockTest, error) {
	if seed == nil || seed.BlockID == uuid.Nil {
		return nil, fmt.Errorf("missing block id")
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "block_id"}},
			DoNothing: true,
		}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	return r.GetByBlockID(dbc, seed.BlockID)
}
