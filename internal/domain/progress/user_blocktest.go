package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBlockTest keeps only the latest submission per user x test.
type UserBlockTest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_user_block_test_user_test,unique" json:"user_id"`
	BlockTestID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_block_test_user_test,unique" json:"block_test_id"`
	Score          float64   `gorm:"not null;column:score" json:"score"`
	CorrectAnswers int       `gorm:"not null;column:correct_answers" json:"correct_answers"`
	TotalQuestions int       `gorm:"not null;column:total_questions" json:"total_questions"`
	IsPassed       bool      `gorm:"not null;column:is_passed" json:"is_passed"`
	CompletedAt    time.Time `gorm:"not null;column:completed_at" json:"completed_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserBlockTest) TableName() string { return "user_block_test" }

func (t *UserBlockTest) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
