package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type BlockRepo interface {
	Create(dbc dbctx.Context, rows []*types.Block) ([]*types.Block, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Block, error)
	ListActive(dbc dbctx.Context) ([]*types.Block, error)
	// GetActiveByOrder returns the first active block with the given order, or nil.
	GetActiveByOrder(dbc dbctx.Context, order int) (*types.Block, error)
}

type blockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlockRepo(db *gorm.DB, baseLog *logger.Logger) BlockRepo {
	return &blockRepo{db: db, log: baseLog.With("repo", "BlockRepo")}
}

func (r *blockRepo) Create(dbc dbctx.Context, rows []*types.Block) ([]*types.Block, error) {
	if len(rows) == 0 {
		return []*types.Block{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *blockRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Block, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing block id")
	}
	var out []*types.Block
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

func (r *blockRepo) ListActive(dbc dbctx.Context) ([]*types.Block, error) {
	var out []*types.Block
	if err := dbc.DB(r.db).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blockRepo) GetActiveByOrder(dbc dbctx.Context, order int) (*types.Block, error) {
	var out []*types.Block
	if err := dbc.DB(r.db).
		Where("is_active = ? AND sort_order = ?", true, order).
		Order("created_at ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
