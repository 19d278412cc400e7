package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WordMastery is the per user x word attempt counter. IsLearned is sticky.
type WordMastery struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_word_mastery_user_word,unique;index:idx_word_mastery_user_reviewed,priority:1" json:"user_id"`
	WordID         uuid.UUID `gorm:"type:uuid;not null;index:idx_word_mastery_user_word,unique" json:"word_id"`
	CorrectCount   int       `gorm:"not null;column:correct_count" json:"correct_count"`
	TotalAttempts  int       `gorm:"not null;column:total_attempts" json:"total_attempts"`
	IsLearned      bool      `gorm:"not null;column:is_learned" json:"is_learned"`
	LastReviewedAt time.Time `gorm:"not null;column:last_reviewed_at;index:idx_word_mastery_user_reviewed,priority:2" json:"last_reviewed_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WordMastery) TableName() string { return "word_mastery" }

func (m *WordMastery) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
