package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyProgress is the per user x calendar day rollup. Date is midnight UTC of
// the calendar day in the configured application timezone.
type DailyProgress struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_progress_user_date,unique" json:"user_id"`
	Date               time.Time `gorm:"not null;column:date;index:idx_daily_progress_user_date,unique" json:"date"`
	WordsLearned       int       `gorm:"not null;column:words_learned" json:"words_learned"`
	LessonsCompleted   int       `gorm:"not null;column:lessons_completed" json:"lessons_completed"`
	TimeStudiedMinutes int       `gorm:"not null;column:time_studied_minutes" json:"time_studied_minutes"`
	Accuracy           float64   `gorm:"not null;column:accuracy" json:"accuracy"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DailyProgress) TableName() string { return "daily_progress" }

func (p *DailyProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
