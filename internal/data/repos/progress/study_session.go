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

type SessionLinkCounts struct {
	Lessons int
	Words   int
}

type StudySessionRepo interface {
	Create(dbc dbctx.Context, rows []*types.StudySession) ([]*types.StudySession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error)
	ReplaceLessons(dbc dbctx.Context, sessionID uuid.UUID, lessonIDs []uuid.UUID) error
	ReplaceWords(dbc dbctx.Context, sessionID uuid.UUID, wordIDs []uuid.UUID) error
	ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudySession, error)
	ListEndedByUserSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.StudySession, error)
	CountLinks(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]SessionLinkCounts, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (r *studySessionRepo) Create(dbc dbctx.Context, rows []*types.StudySession) ([]*types.StudySession, error) {
	if len(rows) == 0 {
		return []*types.StudySession{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studySessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing session id")
	}
	var out []*types.StudySession
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

func (r *studySessionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing session id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.StudySession
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(lockingUpdate()).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *studySessionRepo) ReplaceLessons(dbc dbctx.Context, sessionID uuid.UUID, lessonIDs []uuid.UUID) error {
	db := dbc.DB(r.db)
	if err := db.Where("session_id = ?", sessionID).Delete(&types.StudySessionLesson{}).Error; err != nil {
		return err
	}
	rows := make([]*types.StudySessionLesson, 0, len(lessonIDs))
	for _, id := range dedupeUUIDs(lessonIDs) {
		rows = append(rows, &types.StudySessionLesson{SessionID: sessionID, LessonID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *studySessionRepo) ReplaceWords(dbc dbctx.Context, sessionID uuid.UUID, wordIDs []uuid.UUID) error {
	db := dbc.DB(r.db)
	if err := db.Where("session_id = ?", sessionID).Delete(&types.StudySessionWord{}).Error; err != nil {
		return err
	}
	rows := make([]*types.StudySessionWord, 0, len(wordIDs))
	for _, id := range dedupeUUIDs(wordIDs) {
		rows = append(rows, &types.StudySessionWord{SessionID: sessionID, WordID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *studySessionRepo) ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudySession, error) {
	if limit <= 0 || limit > 100 {
		limit = 5
	}
	var out []*types.StudySession
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studySessionRepo) ListEndedByUserSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.StudySession, error) {
	var out []*types.StudySession
	if err := dbc.DB(r.db).
		Where("user_id = ? AND end_time IS NOT NULL AND start_time >= ?", userID, since.UTC()).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studySessionRepo) CountLinks(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]SessionLinkCounts, error) {
	out := map[uuid.UUID]SessionLinkCounts{}
	if len(sessionIDs) == 0 {
		return out, nil
	}
	type row struct {
		SessionID uuid.UUID
		N         int
	}
	var lessons, words []row
	db := dbc.DB(r.db)
	if err := db.Model(&types.StudySessionLesson{}).
		Select("session_id, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&lessons).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&types.StudySessionWord{}).
		Select("session_id, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&words).Error; err != nil {
		return nil, err
	}
	for _, l := range lessons {
		c := out[l.SessionID]
		c.Lessons = l.N
		out[l.SessionID] = c
	}
	for _, w := range words {
		c := out[w.SessionID]
		c.Words = w.N
		out[w.SessionID] = c
	}
	return out, nil
}

func dedupeUUIDs(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
