package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultPassingScore = 80

// BlockTest is the vocabulary quiz gating a block, one per block.
type BlockTest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"block_id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Description  string    `gorm:"column:description" json:"description"`
	PassingScore int       `gorm:"not null;column:passing_score;default:80" json:"passing_score"`
}

func (BlockTest) TableName() string { return "block_test" }

func (t *BlockTest) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.PassingScore <= 0 {
		t.PassingScore = DefaultPassingScore
	}
	return nil
}
