package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockID  uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_block_order" json:"block_id"`
	Title    string    `gorm:"not null;column:title" json:"title"`
	Order    int       `gorm:"not null;column:sort_order;index:idx_lesson_block_order" json:"order"`
	IsActive bool      `gorm:"not null;column:is_active" json:"is_active"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
