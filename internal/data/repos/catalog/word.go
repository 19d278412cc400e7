package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type WordRepo interface {
	Create(dbc dbctx.Context, rows []*types.Word) ([]*types.Word, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Word, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Word, error)
	ListActiveByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Word, error)
	// ListActiveByBlock returns active words of the block's active lessons.
	ListActiveByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]*types.Word, error)
	// CountActiveByBlocks counts active words in active lessons, keyed by block.
	CountActiveByBlocks(dbc dbctx.Context, blockIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type wordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWordRepo(db *gorm.DB, baseLog *logger.Logger) WordRepo {
	return &wordRepo{db: db, log: baseLog.With("repo", "WordRepo")}
}

func (r *wordRepo) Create(dbc dbctx.Context, rows []*types.Word) ([]*types.Word, error) {
	if len(rows) == 0 {
		return []*types.Word{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *wordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Word, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing word id")
	}
	var out []*types.Word
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

func (r *wordRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Word, error) {
	if len(ids) == 0 {
		return []*types.Word{}, nil
	}
	var out []*types.Word
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordRepo) ListActiveByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Word, error) {
	if lessonID == uuid.Nil {
		return nil, fmt.Errorf("missing lesson id")
	}
	var out []*types.Word
	if err := dbc.DB(r.db).
		Where("lesson_id = ? AND is_active = ?", lessonID, true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordRepo) ListActiveByBlock(dbc dbctx.Context, blockID uuid.UUID) ([]*types.Word, error) {
	if blockID == uuid.Nil {
		return nil, fmt.Errorf("missing block id")
	}
	var out []*types.Word
	if err := dbc.DB(r.db).
		Model(&types.Word{}).
		Joins("JOIN lesson ON lesson.id = word.lesson_id").
		Where("lesson.block_id = ? AND lesson.is_active = ? AND word.is_active = ?", blockID, true, true).
		Order("lesson.sort_order ASC").
		Order("word.sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordRepo) CountActiveByBlocks(dbc dbctx.Context, blockIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	if len(blockIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		BlockID uuid.UUID
		N       int
	}
	if err := dbc.DB(r.db).
		Model(&types.Word{}).
		Select("lesson.block_id AS block_id, COUNT(word.id) AS n").
		Joins("JOIN lesson ON lesson.id = word.lesson_id").
		Where("lesson.block_id IN ? AND lesson.is_active = ? AND word.is_active = ?", blockIDs, true, true).
		Group("lesson.block_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BlockID] = row.N
	}
	return out, nil
}
