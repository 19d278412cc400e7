package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"user_id"`
	LessonID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"lesson_id"`
	IsCompleted      bool       `gorm:"not null;column:is_completed" json:"is_completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Accuracy         float64    `gorm:"not null;column:accuracy" json:"accuracy"`
	TimeSpentMinutes int        `gorm:"not null;column:time_spent_minutes" json:"time_spent_minutes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
