package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error)
	ListActiveByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]*types.Lesson, error)
	ListActiveByBlocks(dbc dbctx.Context, blockIDs []uuid.UUID) ([]*types.Lesson, error)
	ListIDsByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]uuid.UUID, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing lesson id")
	}
	var out []*types.Lesson
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

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	if len(ids) == 0 {
		return []*types.Lesson{}, nil
	}
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListActiveByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]*types.Lesson, error) {
	if blockID == uuid.Nil {
		return nil, fmt.Errorf("missing block id")
	}
	return r.ListActiveByBlocks(dbc, []uuid.UUID{blockID})
}

func (r *lessonRepo) ListActiveByBlocks(dbc dbctx.Context, blockIDs []uuid.UUID) ([]*types.Lesson, error) {
	if len(blockIDs) == 0 {
		return []*types.Lesson{}, nil
	}
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Where("block_id IN ? AND is_active = ?", blockIDs, true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListIDsByBlock includes inactive lessons.
func (r *lessonRepo) ListIDsByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("block_id = ?", blockID).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
