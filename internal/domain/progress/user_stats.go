package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStats is the per-user singleton of lifetime counters and streaks.
type UserStats struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalStudyTimeMinutes int        `gorm:"not null;column:total_study_time_minutes" json:"total_study_time_minutes"`
	TotalSessions         int        `gorm:"not null;column:total_sessions" json:"total_sessions"`
	CurrentStreak         int        `gorm:"not null;column:current_streak" json:"current_streak"`
	LongestStreak         int        `gorm:"not null;column:longest_streak" json:"longest_streak"`
	LastActiveAt          *time.Time `gorm:"column:last_active_at" json:"last_active_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
