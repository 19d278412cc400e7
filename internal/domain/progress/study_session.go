package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is open while EndTime is nil.
type StudySession struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_study_session_user_start,priority:1" json:"user_id"`
	StartTime       time.Time  `gorm:"not null;column:start_time;index:idx_study_session_user_start,priority:2" json:"start_time"`
	EndTime         *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
	DurationMinutes int        `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	AverageAccuracy float64    `gorm:"not null;column:average_accuracy" json:"average_accuracy"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudySession) TableName() string { return "study_session" }

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type StudySessionLesson struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
}

func (StudySessionLesson) TableName() string { return "study_session_lesson" }

type StudySessionWord struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	WordID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"word_id"`
}

func (StudySessionWord) TableName() string { return "study_session_word" }
