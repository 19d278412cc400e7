package achievement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultIcon = "🏆"

// Achievement is a catalog row, created lazily the first time any user
// qualifies for its rule. Condition mirrors the rule that produced it.
type Achievement struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string         `gorm:"not null;uniqueIndex;column:type" json:"type"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	Icon        string         `gorm:"not null;column:icon" json:"icon"`
	Metric      string         `gorm:"not null;column:metric" json:"metric"`
	Threshold   int            `gorm:"not null;column:threshold" json:"threshold"`
	Condition   datatypes.JSON `gorm:"column:condition" json:"condition"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Icon == "" {
		a.Icon = DefaultIcon
	}
	return nil
}

type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_user_achievement_user_ach,unique" json:"user_id"`
	AchievementID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_achievement_user_ach,unique" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"not null;column:earned_at" json:"earned_at"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (u *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
