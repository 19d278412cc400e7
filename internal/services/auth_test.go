package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/ctxutil"
)

func newAuth(f *fixture, botKey string) *authService {
	hash := ""
	if botKey != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(botKey), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("bcrypt: %v", err)
		}
		hash = string(h)
	}
	return NewAuthService(f.log, f.repos.Users, "test-secret", 15*time.Minute, hash).(*authService)
}

func TestExchangeTokenIssuesJWTForPaidUser(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f, "")
	u := f.user()

	out, err := svc.ExchangeToken(f.ctx, u.AuthToken.String())
	if err != nil {
		t.Fatalf("ExchangeToken: %v", err)
	}
	if out.UserID != u.ID || out.ExpiresIn != 900 || out.AccessToken == "" {
		t.Fatalf("unexpected exchange: %+v", out)
	}

	ctx, err := svc.SetContextFromToken(f.ctx, out.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if ctxutil.UserID(ctx) != u.ID {
		t.Fatalf("expected user %s in context, got %s", u.ID, ctxutil.UserID(ctx))
	}
}

func TestExchangeTokenRejectsUnpaidAndUnknown(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f, "")
	u := f.user()
	if err := f.repos.Users.UpdateFields(f.dbc(), u.ID, map[string]interface{}{"is_paid": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	if _, err := svc.ExchangeToken(f.ctx, u.AuthToken.String()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unpaid user: expected not_found, got %v", err)
	}
	if _, err := svc.ExchangeToken(f.ctx, uuid.NewString()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown token: expected not_found, got %v", err)
	}
	if _, err := svc.ExchangeToken(f.ctx, "not-a-uuid"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("malformed token: expected validation, got %v", err)
	}
}

func TestSetContextFromTokenRejectsExpiredAndForeign(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f, "")
	u := f.user()
	out, err := svc.ExchangeToken(f.ctx, u.AuthToken.String())
	if err != nil {
		t.Fatalf("ExchangeToken: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := svc.SetContextFromToken(f.ctx, out.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: expected ErrInvalidToken, got %v", err)
	}

	other := NewAuthService(f.log, f.repos.Users, "other-secret", time.Minute, "")
	if _, err := other.SetContextFromToken(f.ctx, out.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature: expected ErrInvalidToken, got %v", err)
	}
	if _, err := other.SetContextFromToken(f.ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyBotKey(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f, "bot-secret")
	if err := svc.VerifyBotKey("bot-secret"); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
	if err := svc.VerifyBotKey("nope"); !errors.Is(err, ErrInvalidBotKey) {
		t.Fatalf("expected ErrInvalidBotKey, got %v", err)
	}
	if err := newAuth(f, "").VerifyBotKey("bot-secret"); !errors.Is(err, ErrInvalidBotKey) {
		t.Fatalf("unconfigured hash must reject, got %v", err)
	}
}
