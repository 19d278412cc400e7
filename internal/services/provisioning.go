package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type ProvisionRequest struct {
	TelegramID       int64  `json:"telegram_id"`
	Username         string `json:"username"`
	TelegramUsername string `json:"telegram_username"`
}

type ProvisionedUser struct {
	domainagg.EnsureUserResult
	AppURL string `json:"app_url"`
}

// ProvisioningService backs the bot endpoints.
type ProvisioningService interface {
	EnsureUser(ctx context.Context, req ProvisionRequest) (*ProvisionedUser, error)
	ConfirmPayment(ctx context.Context, telegramID int64) (domainagg.ConfirmPaymentResult, error)
}

type provisioningService struct {
	log        *logger.Logger
	agg        domainagg.ProvisioningAggregate
	appBaseURL string
}

func NewProvisioningService(log *logger.Logger, agg domainagg.ProvisioningAggregate, appBaseURL string) ProvisioningService {
	return &provisioningService{
		log:        log.With("service", "ProvisioningService"),
		agg:        agg,
		appBaseURL: strings.TrimSpace(appBaseURL),
	}
}

func (s *provisioningService) EnsureUser(ctx context.Context, req ProvisionRequest) (*ProvisionedUser, error) {
	res, err := s.agg.EnsureUser(ctx, domainagg.EnsureUserInput{
		TelegramID:       req.TelegramID,
		Username:         req.Username,
		TelegramUsername: req.TelegramUsername,
	})
	if err != nil {
		return nil, err
	}
	link, err := AppLoginURL(s.appBaseURL, res.AuthToken.String())
	if err != nil {
		return nil, fmt.Errorf("build app url: %w", err)
	}
	if res.Created {
		s.log.Info("user provisioned", "user_id", res.UserID)
	}
	return &ProvisionedUser{EnsureUserResult: res, AppURL: link}, nil
}

func (s *provisioningService) ConfirmPayment(ctx context.Context, telegramID int64) (domainagg.ConfirmPaymentResult, error) {
	return s.agg.ConfirmPayment(ctx, domainagg.ConfirmPaymentInput{TelegramID: telegramID})
}

// AppLoginURL appends token as the "token" query parameter, keeping any
// query already present on base.
func AppLoginURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
