package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a paid learner provisioned by the messaging bot. AuthToken is the
// single-sign-on secret embedded in the app link handed out by the bot.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID       *int64     `gorm:"uniqueIndex;column:telegram_id" json:"telegram_id,omitempty"`
	Username         string     `gorm:"not null;column:username" json:"username"`
	TelegramUsername string     `gorm:"column:telegram_username" json:"telegram_username"`
	IsPaid           bool       `gorm:"not null;column:is_paid" json:"is_paid"`
	PaymentDate      *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	AuthToken        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:auth_token" json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user_account" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.AuthToken == uuid.Nil {
		u.AuthToken = uuid.New()
	}
	return nil
}
