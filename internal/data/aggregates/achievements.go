package aggregates

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

// achievementAwarder evaluates the ladder inside a write transaction.
type achievementAwarder struct {
	ladder           *achievements.Ladder
	mastery          repos.WordMasteryRepo
	lessonProgress   repos.LessonProgressRepo
	blockProgress    repos.BlockProgressRepo
	achievements     repos.AchievementRepo
	userAchievements repos.UserAchievementRepo
}

func (a achievementAwarder) configured() bool {
	return a.ladder != nil && a.mastery != nil && a.lessonProgress != nil &&
		a.blockProgress != nil && a.achievements != nil && a.userAchievements != nil
}

// counters reads the metric values as of the current transaction.
func (a achievementAwarder) counters(dbc dbctx.Context, userID uuid.UUID, streak int) (achievements.Counters, error) {
	learned, err := a.mastery.CountLearned(dbc, userID)
	if err != nil {
		return achievements.Counters{}, err
	}
	lessons, err := a.lessonProgress.CountCompleted(dbc, userID)
	if err != nil {
		return achievements.Counters{}, err
	}
	blocks, err := a.blockProgress.CountCompleted(dbc, userID)
	if err != nil {
		return achievements.Counters{}, err
	}
	return achievements.Counters{
		LearnedWords:     learned,
		CompletedLessons: lessons,
		CompletedBlocks:  blocks,
		CurrentStreak:    streak,
	}, nil
}

// award inserts every qualifying achievement the user does not hold yet and
// returns only the ones inserted by this call.
func (a achievementAwarder) award(dbc dbctx.Context, userID uuid.UUID, c achievements.Counters, now time.Time) ([]domainagg.EarnedAchievement, error) {
	out := []domainagg.EarnedAchievement{}
	for _, rule := range a.ladder.Qualifying(c) {
		cond, _ := json.Marshal(map[string]any{
			"metric":    string(rule.Metric),
			"threshold": rule.Threshold,
		})
		row, err := a.achievements.GetOrCreateByType(dbc, &types.Achievement{
			Type:        rule.Type,
			Name:        rule.Name,
			Description: rule.Description,
			Icon:        rule.Icon,
			Metric:      string(rule.Metric),
			Threshold:   rule.Threshold,
			Condition:   datatypes.JSON(cond),
		})
		if err != nil {
			return nil, err
		}
		if row == nil || row.ID == uuid.Nil {
			return nil, InvariantError("achievement catalog row missing for " + rule.Type)
		}
		inserted, err := a.userAchievements.Award(dbc, userID, row.ID, now)
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}
		out = append(out, domainagg.EarnedAchievement{
			AchievementID: row.ID,
			Type:          row.Type,
			Name:          row.Name,
			Description:   row.Description,
			Icon:          row.Icon,
			EarnedAt:      now,
		})
	}
	return out, nil
}

func achievementEvents(userID uuid.UUID, earned []domainagg.EarnedAchievement) []events.Event {
	out := make([]events.Event, 0, len(earned))
	for _, e := range earned {
		out = append(out, events.New(events.TypeAchievementEarned, userID, e.EarnedAt, map[string]any{
			"achievement_id": e.AchievementID.String(),
			"type":           e.Type,
			"name":           e.Name,
		}))
	}
	return out
}
