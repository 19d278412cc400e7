package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block is the top-level ordered course unit.
type Block struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Order       int       `gorm:"not null;column:sort_order;index" json:"order"`
	IsActive    bool      `gorm:"not null;column:is_active;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Block) TableName() string { return "block" }

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
