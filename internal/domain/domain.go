package domain

import (
	"github.com/yungbote/lexiprogress-backend/internal/domain/achievement"
	"github.com/yungbote/lexiprogress-backend/internal/domain/catalog"
	"github.com/yungbote/lexiprogress-backend/internal/domain/progress"
	"github.com/yungbote/lexiprogress-backend/internal/domain/user"
)

type User = user.User

type Block = catalog.Block
type Lesson = catalog.Lesson
type Word = catalog.Word
type BlockTest = catalog.BlockTest

type WordMastery = progress.WordMastery
type LessonProgress = progress.LessonProgress
type BlockProgress = progress.BlockProgress
type DailyProgress = progress.DailyProgress
type StudySession = progress.StudySession
type StudySessionLesson = progress.StudySessionLesson
type StudySessionWord = progress.StudySessionWord
type UserStats = progress.UserStats
type UserBlockTest = progress.UserBlockTest

type Achievement = achievement.Achievement
type UserAchievement = achievement.UserAchievement

const DefaultPassingScore = catalog.DefaultPassingScore
const DefaultAchievementIcon = achievement.DefaultIcon
