package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/learning/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

type SessionAggregateDeps struct {
	Base BaseDeps

	Sessions repos.StudySessionRepo
	Stats    repos.UserStatsRepo
	Lessons  repos.LessonRepo
	Words    repos.WordRepo
}

type sessionAggregate struct {
	deps SessionAggregateDeps
}

func NewSessionAggregate(deps SessionAggregateDeps) domainagg.SessionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &sessionAggregate{deps: deps}
}

func (a *sessionAggregate) Contract() domainagg.Contract {
	return domainagg.SessionAggregateContract
}

func (a *sessionAggregate) Start(ctx context.Context, in domainagg.StartSessionInput) (domainagg.StartSessionResult, error) {
	const op = "Progress.Session.Start"
	var out domainagg.StartSessionResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if a.deps.Sessions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "session aggregate repos not configured", nil)
	}
	now := a.deps.Base.now(in.At)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rows, err := a.deps.Sessions.Create(dbc, []*types.StudySession{{
			UserID:    in.UserID,
			StartTime: now,
		}})
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0] == nil {
			return InvariantError("session insert returned no row")
		}
		out = domainagg.StartSessionResult{SessionID: rows[0].ID, StartTime: rows[0].StartTime}
		return nil
	})
	if err != nil {
		return domainagg.StartSessionResult{}, err
	}
	return out, nil
}

// End closes an open session. The close is a compare-and-set on
// end_time IS NULL, so a second close reports a conflict.
func (a *sessionAggregate) End(ctx context.Context, in domainagg.EndSessionInput) (domainagg.EndSessionResult, error) {
	const op = "Progress.Session.End"
	var out domainagg.EndSessionResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.SessionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing session_id", nil)
	}
	if !progress.ValidAccuracy(in.AverageAccuracy) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "average_accuracy must be within [0, 100]", nil)
	}
	if a.deps.Sessions == nil || a.deps.Stats == nil || a.deps.Lessons == nil || a.deps.Words == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "session aggregate repos not configured", nil)
	}
	now := a.deps.Base.now(in.At)
	lessonIDs := dedupeIDs(in.LessonIDs)
	wordIDs := dedupeIDs(in.WordIDs)
	var evts []events.Event

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		evts = evts[:0]
		sess, err := a.deps.Sessions.LockByID(dbc, in.SessionID)
		if err != nil {
			return err
		}
		if sess == nil || sess.UserID != in.UserID {
			return NotFoundError("session", in.SessionID)
		}
		if sess.EndTime != nil {
			return ConflictError("session already ended")
		}

		if len(lessonIDs) > 0 {
			found, err := a.deps.Lessons.GetByIDs(dbc, lessonIDs)
			if err != nil {
				return err
			}
			if missing := firstMissing(lessonIDs, lessonKeys(found)); missing != uuid.Nil {
				return NotFoundError("lesson", missing)
			}
		}
		if len(wordIDs) > 0 {
			found, err := a.deps.Words.GetByIDs(dbc, wordIDs)
			if err != nil {
				return err
			}
			if missing := firstMissing(wordIDs, wordKeys(found)); missing != uuid.Nil {
				return NotFoundError("word", missing)
			}
		}

		duration := progress.SessionDurationMinutes(sess.StartTime, now)
		ok, err := a.deps.Base.CASGuard.UpdateIf(dbc, sess.TableName(), sess.ID, ColumnIsNull("end_time"), map[string]any{
			"end_time":         now,
			"duration_minutes": duration,
			"average_accuracy": in.AverageAccuracy,
			"updated_at":       now,
		})
		if err != nil {
			return err
		}
		if err := RequireApplied(ok, "session already ended"); err != nil {
			return err
		}
		if err := a.deps.Sessions.ReplaceLessons(dbc, sess.ID, lessonIDs); err != nil {
			return err
		}
		if err := a.deps.Sessions.ReplaceWords(dbc, sess.ID, wordIDs); err != nil {
			return err
		}

		stats, err := a.deps.Stats.LockOrCreate(dbc, in.UserID)
		if err != nil {
			return err
		}
		total := stats.TotalSessions + 1
		if err := a.deps.Stats.UpdateFields(dbc, stats.ID, map[string]interface{}{
			"total_sessions": total,
		}); err != nil {
			return err
		}

		out = domainagg.EndSessionResult{
			SessionID:       sess.ID,
			StartTime:       sess.StartTime,
			EndTime:         now,
			DurationMinutes: duration,
			AverageAccuracy: in.AverageAccuracy,
			LessonCount:     len(lessonIDs),
			WordCount:       len(wordIDs),
			TotalSessions:   total,
		}
		evts = append(evts, events.New(events.TypeSessionEnded, in.UserID, now, map[string]any{
			"session_id":       sess.ID.String(),
			"duration_minutes": duration,
			"average_accuracy": in.AverageAccuracy,
		}))
		return nil
	})
	if err != nil {
		return domainagg.EndSessionResult{}, err
	}
	publishAfterCommit(ctx, a.deps.Base, op, evts)
	return out, nil
}

func dedupeIDs(in []uuid.UUID) []uuid.UUID {
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

func firstMissing(want []uuid.UUID, have map[uuid.UUID]bool) uuid.UUID {
	for _, id := range want {
		if !have[id] {
			return id
		}
	}
	return uuid.Nil
}

func lessonKeys(rows []*types.Lesson) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		if r != nil {
			out[r.ID] = true
		}
	}
	return out
}

func wordKeys(rows []*types.Word) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		if r != nil {
			out[r.ID] = true
		}
	}
	return out
}
