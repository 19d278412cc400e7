package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

type ProvisioningAggregateDeps struct {
	Base BaseDeps

	Users repos.UserRepo
	Stats repos.UserStatsRepo
}

type provisioningAggregate struct {
	deps ProvisioningAggregateDeps
}

func NewProvisioningAggregate(deps ProvisioningAggregateDeps) domainagg.ProvisioningAggregate {
	deps.Base = deps.Base.withDefaults()
	return &provisioningAggregate{deps: deps}
}

func (a *provisioningAggregate) Contract() domainagg.Contract {
	return domainagg.ProvisioningAggregateContract
}

func (a *provisioningAggregate) EnsureUser(ctx context.Context, in domainagg.EnsureUserInput) (domainagg.EnsureUserResult, error) {
	const op = "User.Provisioning.EnsureUser"
	var out domainagg.EnsureUserResult
	if in.TelegramID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "telegram_id must be positive", nil)
	}
	if a.deps.Users == nil || a.deps.Stats == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "provisioning aggregate repos not configured", nil)
	}
	now := a.deps.Base.now(in.At)
	tgUsername := strings.TrimPrefix(strings.TrimSpace(in.TelegramUsername), "@")
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = tgUsername
	}
	if username == "" {
		username = fmt.Sprintf("tg_%d", in.TelegramID)
	}
	var evts []events.Event

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		evts = evts[:0]
		existing, err := a.deps.Users.LockByTelegramID(dbc, in.TelegramID)
		if err != nil {
			return err
		}
		if existing != nil {
			if _, err := a.deps.Stats.Ensure(dbc, existing.ID); err != nil {
				return err
			}
			out = domainagg.EnsureUserResult{
				UserID:    existing.ID,
				AuthToken: existing.AuthToken,
				IsPaid:    existing.IsPaid,
			}
			return nil
		}

		tgID := in.TelegramID
		paidAt := now
		rows, err := a.deps.Users.Create(dbc, []*types.User{{
			TelegramID:       &tgID,
			Username:         username,
			TelegramUsername: tgUsername,
			IsPaid:           true,
			PaymentDate:      &paidAt,
		}})
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0] == nil {
			return InvariantError("user insert returned no row")
		}
		u := rows[0]
		if _, err := a.deps.Stats.Ensure(dbc, u.ID); err != nil {
			return err
		}
		out = domainagg.EnsureUserResult{
			UserID:    u.ID,
			AuthToken: u.AuthToken,
			IsPaid:    u.IsPaid,
			Created:   true,
		}
		evts = append(evts, events.New(events.TypeUserProvisioned, u.ID, now, map[string]any{
			"telegram_id": in.TelegramID,
		}))
		return nil
	})
	if err != nil {
		return domainagg.EnsureUserResult{}, err
	}
	publishAfterCommit(ctx, a.deps.Base, op, evts)
	return out, nil
}

func (a *provisioningAggregate) ConfirmPayment(ctx context.Context, in domainagg.ConfirmPaymentInput) (domainagg.ConfirmPaymentResult, error) {
	const op = "User.Provisioning.ConfirmPayment"
	var out domainagg.ConfirmPaymentResult
	if in.TelegramID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "telegram_id must be positive", nil)
	}
	if a.deps.Users == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "provisioning aggregate repos not configured", nil)
	}
	now := a.deps.Base.now(in.At)
	var evts []events.Event

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		evts = evts[:0]
		u, err := a.deps.Users.LockByTelegramID(dbc, in.TelegramID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("no user for telegram id %d", in.TelegramID), nil)
		}
		if u.IsPaid {
			paidAt := now
			if u.PaymentDate != nil {
				paidAt = u.PaymentDate.UTC()
			}
			out = domainagg.ConfirmPaymentResult{UserID: u.ID, PaymentDate: paidAt, AlreadyPaid: true}
			return nil
		}
		if err := a.deps.Users.UpdateFields(dbc, u.ID, map[string]interface{}{
			"is_paid":      true,
			"payment_date": now,
		}); err != nil {
			return err
		}
		out = domainagg.ConfirmPaymentResult{UserID: u.ID, PaymentDate: now}
		evts = append(evts, events.New(events.TypePaymentConfirmed, u.ID, now, nil))
		return nil
	})
	if err != nil {
		return domainagg.ConfirmPaymentResult{}, err
	}
	publishAfterCommit(ctx, a.deps.Base, op, evts)
	return out, nil
}
