package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos/achievement"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos/catalog"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos/progress"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos/user"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type BlockRepo = catalog.BlockRepo
type LessonRepo = catalog.LessonRepo
type WordRepo = catalog.WordRepo
type BlockTestRepo = catalog.BlockTestRepo

type WordMasteryRepo = progress.WordMasteryRepo
type LessonProgressRepo = progress.LessonProgressRepo
type BlockProgressRepo = progress.BlockProgressRepo
type DailyProgressRepo = progress.DailyProgressRepo
type StudySessionRepo = progress.StudySessionRepo
type UserStatsRepo = progress.UserStatsRepo
type UserBlockTestRepo = progress.UserBlockTestRepo
type SessionLinkCounts = progress.SessionLinkCounts

type AchievementRepo = achievement.AchievementRepo
type UserAchievementRepo = achievement.UserAchievementRepo

// Set bundles every table repo over one database handle.
type Set struct {
	Users UserRepo

	Blocks     BlockRepo
	Lessons    LessonRepo
	Words      WordRepo
	BlockTests BlockTestRepo

	Mastery        WordMasteryRepo
	LessonProgress LessonProgressRepo
	BlockProgress  BlockProgressRepo
	Daily          DailyProgressRepo
	Sessions       StudySessionRepo
	Stats          UserStatsRepo
	UserBlockTests UserBlockTestRepo

	Achievements     AchievementRepo
	UserAchievements UserAchievementRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Users: user.NewUserRepo(db, log),

		Blocks:     catalog.NewBlockRepo(db, log),
		Lessons:    catalog.NewLessonRepo(db, log),
		Words:      catalog.NewWordRepo(db, log),
		BlockTests: catalog.NewBlockTestRepo(db, log),

		Mastery:        progress.NewWordMasteryRepo(db, log),
		LessonProgress: progress.NewLessonProgressRepo(db, log),
		BlockProgress:  progress.NewBlockProgressRepo(db, log),
		Daily:          progress.NewDailyProgressRepo(db, log),
		Sessions:       progress.NewStudySessionRepo(db, log),
		Stats:          progress.NewUserStatsRepo(db, log),
		UserBlockTests: progress.NewUserBlockTestRepo(db, log),

		Achievements:     achievement.NewAchievementRepo(db, log),
		UserAchievements: achievement.NewUserAchievementRepo(db, log),
	}
}
