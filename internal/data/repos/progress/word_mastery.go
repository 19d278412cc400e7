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

type WordMasteryRepo interface {
	LockOrCreate(dbc dbctx.Context, userID, wordID uuid.UUID, now time.Time) (*types.WordMastery, bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByUserAndWords(dbc dbctx.Context, userID uuid.UUID, wordIDs []uuid.UUID) ([]*types.WordMastery, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.WordMastery, error)
	ListReviewedBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.WordMastery, error)
	CountLearned(dbc dbctx.Context, userID uuid.UUID) (int, error)
	// CountLearnedByBlocks counts learned active words per block.
	CountLearnedByBlocks(dbc dbctx.Context, userID uuid.UUID, blockIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type wordMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWordMasteryRepo(db *gorm.DB, baseLog *logger.Logger) WordMasteryRepo {
	return &wordMasteryRepo{db: db, log: baseLog.With("repo", "WordMasteryRepo")}
}

func (r *wordMasteryRepo) LockOrCreate(dbc dbctx.Context, userID, wordID uuid.UUID, now time.Time) (*types.WordMastery, bool, error) {
	if userID == uuid.Nil || wordID == uuid.Nil {
		return nil, false, fmt.Errorf("missing user_id or word_id")
	}
	seed := &types.WordMastery{
		UserID:         userID,
		WordID:         wordID,
		LastReviewedAt: now.UTC(),
	}
	var out types.WordMastery
	created, err := lockOrCreate(dbc, seed, &out,
		[]string{"user_id", "word_id"},
		"user_id = ? AND word_id = ?", userID, wordID)
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

func (r *wordMasteryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return updateFields(dbc, r.db, &types.WordMastery{}, id, updates)
}

func (r *wordMasteryRepo) ListByUserAndWords(dbc dbctx.Context, userID uuid.UUID, wordIDs []uuid.UUID) ([]*types.WordMastery, error) {
	if len(wordIDs) == 0 {
		return []*types.WordMastery{}, nil
	}
	var out []*types.WordMastery
	if err := dbc.DB(r.db).
		Where("user_id = ? AND word_id IN ?", userID, wordIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordMasteryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.WordMastery, error) {
	var out []*types.WordMastery
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordMasteryRepo) ListReviewedBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.WordMastery, error) {
	var out []*types.WordMastery
	if err := dbc.DB(r.db).
		Where("user_id = ? AND last_reviewed_at >= ? AND last_reviewed_at < ?", userID, from.UTC(), to.UTC()).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wordMasteryRepo) CountLearned(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.WordMastery{}).
		Where("user_id = ? AND is_learned = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *wordMasteryRepo) CountLearnedByBlocks(dbc dbctx.Context, userID uuid.UUID, blockIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	if len(blockIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		BlockID uuid.UUID
		N       int
	}
	if err := dbc.DB(r.db).
		Model(&types.WordMastery{}).
		Select("lesson.block_id AS block_id, COUNT(word_mastery.id) AS n").
		Joins("JOIN word ON word.id = word_mastery.word_id").
		Joins("JOIN lesson ON lesson.id = word.lesson_id").
		Where("word_mastery.user_id = ? AND word_mastery.is_learned = ?", userID, true).
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
