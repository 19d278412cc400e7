package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlockProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_block_progress_user_block,unique" json:"user_id"`
	BlockID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_block_progress_user_block,unique" json:"block_id"`
	IsCompleted      bool       `gorm:"not null;column:is_completed" json:"is_completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LessonsCompleted int        `gorm:"not null;column:lessons_completed" json:"lessons_completed"`
	TotalLessons     int        `gorm:"not null;column:total_lessons" json:"total_lessons"`
	OverallAccuracy  float64    `gorm:"not null;column:overall_accuracy" json:"overall_accuracy"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (BlockProgress) TableName() string { return "block_progress" }

func (p *BlockProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
