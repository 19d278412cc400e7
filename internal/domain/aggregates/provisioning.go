package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ProvisioningAggregateContract = Contract{
	Name:   "User.ProvisioningAggregate",
	Writes: []string{"user_account", "user_stats"},
	Notes:  "Creates bot users together with their stats singleton and applies trusted payment confirmations.",
}

type ProvisioningAggregate interface {
	Aggregate

	// EnsureUser returns the user bound to a telegram id, creating a paid one when absent.
	EnsureUser(ctx context.Context, in EnsureUserInput) (EnsureUserResult, error)

	// ConfirmPayment flips is_paid for a telegram user.
	ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) (ConfirmPaymentResult, error)
}

type EnsureUserInput struct {
	TelegramID       int64
	Username         string
	TelegramUsername string
	At               time.Time
}

type EnsureUserResult struct {
	UserID    uuid.UUID `json:"user_id"`
	AuthToken uuid.UUID `json:"-"`
	IsPaid    bool      `json:"is_paid"`
	Created   bool      `json:"created"`
}

type ConfirmPaymentInput struct {
	TelegramID int64
	At         time.Time
}

type ConfirmPaymentResult struct {
	UserID      uuid.UUID `json:"user_id"`
	PaymentDate time.Time `json:"payment_date"`
	AlreadyPaid bool      `json:"already_paid"`
}
