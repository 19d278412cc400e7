package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Word is one vocabulary item. Term is the studied form, Translation the
// canonical answer used by block tests.
type Word struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID           uuid.UUID `gorm:"type:uuid;not null;index:idx_word_lesson_order" json:"lesson_id"`
	Term               string    `gorm:"not null;column:term" json:"term"`
	Translation        string    `gorm:"not null;column:translation" json:"translation"`
	Transcription      string    `gorm:"column:transcription" json:"transcription"`
	Example            string    `gorm:"column:example" json:"example"`
	ExampleTranslation string    `gorm:"column:example_translation" json:"example_translation"`
	AudioURL           string    `gorm:"column:audio_url" json:"audio_url,omitempty"`
	ImageURL           string    `gorm:"column:image_url" json:"image_url,omitempty"`
	Order              int       `gorm:"not null;column:sort_order;index:idx_word_lesson_order" json:"order"`
	IsActive           bool      `gorm:"not null;column:is_active" json:"is_active"`
}

func (Word) TableName() string { return "word" }

func (w *Word) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
