package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Users
		// =========================
		&types.User{},

		// =========================
		// Content catalog
		// =========================
		&types.Block{},
		&types.Lesson{},
		&types.Word{},
		&types.BlockTest{},

		// =========================
		// Per-user progress
		// =========================
		&types.WordMastery{},
		&types.LessonProgress{},
		&types.BlockProgress{},
		&types.DailyProgress{},
		&types.UserStats{},
		&types.UserBlockTest{},

		// =========================
		// Sessions
		// =========================
		&types.StudySession{},
		&types.StudySessionLesson{},
		&types.StudySessionWord{},

		// =========================
		// Achievements
		// =========================
		&types.Achievement{},
		&types.UserAchievement{},
	)
}

// EnsureProgressIndexes adds Postgres-only partial indexes. Skip on SQLite.
func EnsureProgressIndexes(db *gorm.DB) error {
	// Open sessions per user, used when closing.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_study_session_user_open
		ON study_session (user_id)
		WHERE end_time IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_study_session_user_open: %w", err)
	}

	// Learned-word counts drive achievements on every attempt.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_word_mastery_user_learned
		ON word_mastery (user_id)
		WHERE is_learned;
	`).Error; err != nil {
		return fmt.Errorf("create idx_word_mastery_user_learned: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_progress_user_completed
		ON lesson_progress (user_id, lesson_id)
		WHERE is_completed;
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_progress_user_completed: %w", err)
	}
	return nil
}

// Migrate runs AutoMigrateAll plus driver-specific indexes.
func (s *Service) Migrate() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if s.driver == DriverPostgres {
		if err := EnsureProgressIndexes(s.db); err != nil {
			return err
		}
	}
	s.log.Info("Database migrated", "driver", s.driver)
	return nil
}
